// Package models defines the curated record types shared by the transform,
// curated-file, and store packages.
package models

// Site names as they appear in the site_origin table and review records.
const (
	SiteOpenTable = "OpenTable"
	SiteYelp      = "Yelp"
)

// Entity kinds handled by the pipeline.
const (
	EntityRestaurant = "restaurant"
	EntityReview     = "review"
)

// Restaurant is one curated restaurant record. Fields not carried by a given
// source stay at their zero value: Cuisine, Description and the price range
// come from OpenTable, the dollar-count price point from Yelp.
type Restaurant struct {
	Name        string
	City        string
	State       string
	Cuisine     string
	Description string
	MinPrice    int
	MaxPrice    int
	PricePoint  int      // 1-4 ordinal, 0 when unknown
	Tags        []string // nil means no tags, never an empty slice
}

// Review is one curated review record. Sub-ratings are only populated for
// OpenTable; for Yelp only Rating is set.
type Review struct {
	RestaurantName string
	Date           string // YYYY-MM-DD
	ReviewerName   string
	Hometown       string
	Rating         int
	Food           int
	Service        int
	Ambience       int
	ReviewText     string
	SiteOrigin     string
}
