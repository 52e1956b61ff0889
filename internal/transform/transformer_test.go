package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revagg/internal/logger"
	"revagg/internal/models"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

func openTableRestaurantRow(input, extracted, region, cuisine, desc, price, tags string) []string {
	return []string{"0", input, extracted, region, cuisine, desc, price, tags}
}

func TestTransformerRestaurantsOpenTable(t *testing.T) {
	tr := New(OpenTableRestaurants(), testLogger())

	tbl := &RawTable{
		Name: "opentable_restaurant_data_Portland_ME_2024-06-29.csv",
		Rows: [][]string{
			openTableRestaurantRow(
				"The Good Table", "good table", "Portland, ME",
				"American", "Farm to table classics.", "$20 to $40", "['cozy', 'patio']",
			),
			openTableRestaurantRow(
				"Grill House", "Grill", "Portland, ME",
				"Steakhouse", "Wood-fired grill.", "under $50", "[]",
			),
			openTableRestaurantRow(
				"Duckfat", "Central Provisions", "Portland, ME",
				"Belgian", "Fries and more.", "around $20", "['casual']",
			),
		},
	}

	recs, report, outcome, err := tr.Restaurants(tbl)
	require.NoError(t, err)

	// One confirmed, one partial (kept), one dropped.
	require.Len(t, recs, 2)
	assert.Equal(t, 3, outcome.Rows)
	assert.Equal(t, 2, outcome.Kept)
	assert.Equal(t, 1, outcome.Dropped)
	assert.Equal(t, 1, outcome.Flagged)
	assert.Equal(t, 0, outcome.Malformed)

	assert.Equal(t, []string{"Duckfat"}, report.Dropped)
	assert.Equal(t, []string{"grill house"}, report.Inspect)

	confirmed := recs[0]
	assert.Equal(t, "good table", confirmed.Name)
	assert.Equal(t, "Portland", confirmed.City)
	assert.Equal(t, "ME", confirmed.State)
	assert.Equal(t, "American", confirmed.Cuisine)
	assert.Equal(t, 20, confirmed.MinPrice)
	assert.Equal(t, 40, confirmed.MaxPrice)
	assert.Equal(t, []string{"cozy", "patio"}, confirmed.Tags)

	partial := recs[1]
	assert.Equal(t, "grill house", partial.Name)
	assert.Equal(t, 0, partial.MinPrice)
	assert.Equal(t, 50, partial.MaxPrice)
	assert.Nil(t, partial.Tags)
}

func TestTransformerRestaurantsSkipsMalformed(t *testing.T) {
	tr := New(OpenTableRestaurants(), testLogger())

	tbl := &RawTable{
		Rows: [][]string{
			openTableRestaurantRow("Eventide", "Eventide", "Portland, ME", "Seafood", "Oysters.", "no price listed", "[]"),
			openTableRestaurantRow("Duckfat", "Duckfat", "Portland, ME", "Belgian", "Fries.", "$20 to $40", "[]"),
		},
	}

	recs, _, outcome, err := tr.Restaurants(tbl)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "duckfat", recs[0].Name)
	assert.Equal(t, 1, outcome.Malformed)
	assert.Equal(t, 1, outcome.Kept)
}

func TestTransformerRestaurantsYelp(t *testing.T) {
	tr := New(YelpRestaurants(), testLogger())

	tbl := &RawTable{
		Rows: [][]string{
			{"0", "Street & Co.", "Portland, ME", "$$$", "['seafood', 'romantic']"},
			{"1", "Duckfat", "Portland, ME", "mid-range", "[]"},
		},
	}

	recs, report, outcome, err := tr.Restaurants(tbl)
	require.NoError(t, err)

	// Yelp carries no extracted name, so nothing is dropped or flagged.
	assert.Empty(t, report.Dropped)
	assert.Empty(t, report.Inspect)
	assert.Equal(t, 2, outcome.Kept)

	require.Len(t, recs, 2)
	assert.Equal(t, "street and co.", recs[0].Name)
	assert.Equal(t, 3, recs[0].PricePoint)
	assert.Equal(t, []string{"seafood", "romantic"}, recs[0].Tags)

	// No dollar sign maps to the unknown tier.
	assert.Equal(t, 0, recs[1].PricePoint)
	assert.Nil(t, recs[1].Tags)
}

func TestTransformerReviewsOpenTable(t *testing.T) {
	tr := New(OpenTableReviews(), testLogger())

	tbl := &RawTable{
		Name: "opentable_review_data_Portland_ME_2024-07-21.csv",
		Rows: [][]string{
			{"0", "The Good Table", "MaineFoodie", "Dined today", "Portland", "5", "5", "4", "5", "Wonderful meal.", "OpenTable"},
			{"1", "The Good Table", "Traveler22", "Dined 3 days ago", "Boston", "4", "4", "4", "3", "Solid spot.", "OpenTable"},
			{"2", "Duckfat", "FryFan", "Dined on July 1, 2024", "", "5", "5", "5", "5", "Great fries.", "OpenTable"},
		},
	}

	recs, outcome, err := tr.Reviews(tbl, []string{"Duckfat"})
	require.NoError(t, err)

	// The Duckfat review goes with its rejected restaurant.
	require.Len(t, recs, 2)
	assert.Equal(t, 1, outcome.Dropped)
	assert.Equal(t, 2, outcome.Kept)

	first := recs[0]
	assert.Equal(t, "good table", first.RestaurantName)
	assert.Equal(t, "2024-07-21", first.Date)
	assert.Equal(t, 5, first.Rating)
	assert.Equal(t, 5, first.Food)
	assert.Equal(t, 4, first.Service)
	assert.Equal(t, 5, first.Ambience)
	assert.Equal(t, models.SiteOpenTable, first.SiteOrigin)

	assert.Equal(t, "2024-07-18", recs[1].Date)
}

func TestTransformerReviewsYelp(t *testing.T) {
	tr := New(YelpReviews(), testLogger())

	tbl := &RawTable{
		Name: "yelp_review_data_Portland_ME_2024-06-29.csv",
		Rows: [][]string{
			{"0", "Street & Co.", "Alice R.", "Jun 1, 2024", "Portland, ME", "4 star rating", "Loved the pasta.", "Yelp"},
			{"1", "Street & Co.", "Bob T.", "not a date", "Boston, MA", "5 star rating", "Great.", "Yelp"},
		},
	}

	recs, outcome, err := tr.Reviews(tbl, nil)
	require.NoError(t, err)

	// The unparseable date is skipped and reported, not fatal.
	require.Len(t, recs, 1)
	assert.Equal(t, 1, outcome.Malformed)

	assert.Equal(t, "street and co.", recs[0].RestaurantName)
	assert.Equal(t, "2024-06-01", recs[0].Date)
	assert.Equal(t, 4, recs[0].Rating)
	assert.Equal(t, "Alice R.", recs[0].ReviewerName)
}

func TestTransformerReviewsRequiresExtractionDate(t *testing.T) {
	tr := New(OpenTableReviews(), testLogger())

	tbl := &RawTable{Name: "opentable_review_data.csv"}

	_, _, err := tr.Reviews(tbl, nil)
	assert.ErrorIs(t, err, ErrNoExtractionDate)
}

func TestTransformerOptions(t *testing.T) {
	opts := Options{PriceCeiling: 100, FailOnMalformed: true}
	tr := NewWithOptions(OpenTableRestaurants(), opts, testLogger())

	tbl := &RawTable{
		Rows: [][]string{
			openTableRestaurantRow("Eventide", "Eventide", "Portland, ME", "Seafood", "Oysters.", "around $60", "[]"),
		},
	}

	recs, _, _, err := tr.Restaurants(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 100, recs[0].MaxPrice)

	// Fail-fast policy turns a malformed row into a batch error.
	tbl.Rows = append(tbl.Rows, openTableRestaurantRow(
		"Duckfat", "Duckfat", "Portland, ME", "Belgian", "Fries.", "no price listed", "[]",
	))

	_, _, outcome, err := tr.Restaurants(tbl)
	assert.ErrorIs(t, err, ErrMalformedRows)
	assert.Equal(t, 1, outcome.Malformed)
}

func TestTransformerEntityMismatch(t *testing.T) {
	tr := New(OpenTableReviews(), testLogger())
	_, _, _, err := tr.Restaurants(&RawTable{})
	assert.ErrorIs(t, err, ErrNotRestaurantProfile)

	tr = New(OpenTableRestaurants(), testLogger())
	_, _, err = tr.Reviews(&RawTable{}, nil)
	assert.ErrorIs(t, err, ErrNotReviewProfile)
}
