package curated

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revagg/internal/models"
)

func TestFileName(t *testing.T) {
	assert.Equal(t,
		"yelp_review_data_Portland_ME_2024-06-29_curated.csv",
		FileName("data/raw/yelp_review_data_Portland_ME_2024-06-29.csv"))
}

func TestRestaurantRoundTripOpenTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ot_restaurants_curated.csv")

	in := []models.Restaurant{
		{
			Name: "good table", City: "Portland", State: "ME",
			Cuisine: "American", Description: "Farm to table, café style.",
			MinPrice: 20, MaxPrice: 40, Tags: []string{"cozy", "patio"},
		},
		{
			Name: "grill house", City: "Portland", State: "ME",
			Cuisine: "Steakhouse", MinPrice: 0, MaxPrice: 50,
		},
	}

	require.NoError(t, WriteRestaurants(path, models.SiteOpenTable, in))

	got, err := ReadRestaurants(path, models.SiteOpenTable)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestRestaurantRoundTripYelp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yelp_restaurants_curated.csv")

	in := []models.Restaurant{
		{Name: "street and co.", City: "Portland", State: "ME", PricePoint: 3, Tags: []string{"seafood"}},
		{Name: "duckfat", City: "Portland", State: "ME", PricePoint: 0, Tags: nil},
	}

	require.NoError(t, WriteRestaurants(path, models.SiteYelp, in))

	got, err := ReadRestaurants(path, models.SiteYelp)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// No-tags rows come back nil, never as an empty slice.
	assert.Nil(t, got[1].Tags)
}

func TestReviewRoundTrip(t *testing.T) {
	dir := t.TempDir()

	otPath := filepath.Join(dir, "ot_reviews_curated.csv")
	otIn := []models.Review{
		{
			RestaurantName: "good table", Date: "2024-07-21",
			ReviewerName: "MaineFoodie", Hometown: "Portland",
			Rating: 5, Food: 5, Service: 4, Ambience: 5,
			ReviewText: "Wonderful meal, we'll be back.", SiteOrigin: models.SiteOpenTable,
		},
	}

	require.NoError(t, WriteReviews(otPath, models.SiteOpenTable, otIn))

	otGot, err := ReadReviews(otPath, models.SiteOpenTable)
	require.NoError(t, err)
	assert.Equal(t, otIn, otGot)

	yelpPath := filepath.Join(dir, "yelp_reviews_curated.csv")
	yelpIn := []models.Review{
		{
			RestaurantName: "street and co.", Date: "2024-06-01",
			ReviewerName: "Alice R.", Hometown: "Portland, ME",
			Rating: 4, ReviewText: "Loved the pasta.", SiteOrigin: models.SiteYelp,
		},
	}

	require.NoError(t, WriteReviews(yelpPath, models.SiteYelp, yelpIn))

	yelpGot, err := ReadReviews(yelpPath, models.SiteYelp)
	require.NoError(t, err)
	assert.Equal(t, yelpIn, yelpGot)
}

func TestUnknownSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")

	err := WriteRestaurants(path, "TripAdvisor", nil)
	assert.ErrorIs(t, err, ErrUnknownSite)

	_, err = ReadReviews(path, "TripAdvisor")
	assert.ErrorIs(t, err, ErrUnknownSite)
}
