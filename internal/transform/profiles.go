package transform

import (
	"errors"
	"fmt"

	"revagg/internal/models"
)

// ErrUnknownProfile is returned when no profile exists for a (site, entity)
// pair.
var ErrUnknownProfile = errors.New("no transform profile for source")

// Field names a logical raw column. Raw CSVs are consumed by position, not by
// header, so each profile maps the fields it carries to column indexes.
type Field string

// Logical raw fields.
const (
	FieldInputName     Field = "input_name"
	FieldExtractedName Field = "extracted_name"
	FieldRegion        Field = "region"
	FieldCuisine       Field = "cuisine"
	FieldDescription   Field = "description"
	FieldPrice         Field = "price"
	FieldTags          Field = "tags"
	FieldReviewer      Field = "reviewer_name"
	FieldDatelike      Field = "datelike"
	FieldHometown      Field = "hometown"
	FieldRating        Field = "rating"
	FieldFood          Field = "food"
	FieldService       Field = "service"
	FieldAmbience      Field = "ambience"
	FieldReviewText    Field = "review_text"
	FieldOrigin        Field = "origin"
)

// Rule identifies one source-specific transformation rule. A profile enables
// the subset its source needs.
type Rule uint

const (
	// RuleValidateNames compares input vs extracted restaurant names and
	// drops or flags mismatches.
	RuleValidateNames Rule = 1 << iota
	// RuleFixEncoding repairs mojibake in free-text fields.
	RuleFixEncoding
	// RuleSplitRegion separates "city, state" into two columns.
	RuleSplitRegion
	// RulePriceRange parses "$X to $Y" style descriptors into (min, max).
	RulePriceRange
	// RulePriceSymbol maps "$".."$$$$" to an ordinal tier.
	RulePriceSymbol
	// RuleParseTags deserializes the tag list literal.
	RuleParseTags
	// RuleResolveDates resolves relative and explicit datelike text against
	// the batch extraction date.
	RuleResolveDates
	// RuleRatingText extracts the leading integer from rating text.
	RuleRatingText
	// RuleSubRatings decomposes overall/food/service/ambience sub-ratings
	// into numeric columns.
	RuleSubRatings
)

// Profile declares the positional column layout and the applicable rule set
// for one (site, entity) raw source. The four scraped sources are structural
// near-duplicates, so a single transformer dispatches over these profiles
// instead of four separate implementations.
type Profile struct {
	Site    string
	Entity  string
	Rules   Rule
	Columns map[Field]int
}

func (p Profile) has(r Rule) bool {
	return p.Rules&r != 0
}

// value reads a logical field from a positional raw row, returning "" when
// the profile does not carry the field or the row is short.
func (p Profile) value(row []string, f Field) string {
	idx, ok := p.Columns[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}

// OpenTableRestaurants lays out the OpenTable restaurant scrape: a leading
// row index, then input name, extracted name, region, cuisine, description,
// price range text, and a tag list literal.
func OpenTableRestaurants() Profile {
	return Profile{
		Site:   models.SiteOpenTable,
		Entity: models.EntityRestaurant,
		Rules: RuleValidateNames | RuleFixEncoding | RuleSplitRegion |
			RulePriceRange | RuleParseTags,
		Columns: map[Field]int{
			FieldInputName:     1,
			FieldExtractedName: 2,
			FieldRegion:        3,
			FieldCuisine:       4,
			FieldDescription:   5,
			FieldPrice:         6,
			FieldTags:          7,
		},
	}
}

// YelpRestaurants lays out the Yelp restaurant scrape: row index, name,
// region, dollar-symbol price point, and a tag list literal. Yelp search
// results carry no separate extracted name, so name validation does not
// apply.
func YelpRestaurants() Profile {
	return Profile{
		Site:   models.SiteYelp,
		Entity: models.EntityRestaurant,
		Rules:  RuleSplitRegion | RulePriceSymbol | RuleParseTags,
		Columns: map[Field]int{
			FieldInputName: 1,
			FieldRegion:    2,
			FieldPrice:     3,
			FieldTags:      4,
		},
	}
}

// OpenTableReviews lays out the OpenTable review scrape: row index,
// restaurant input name, reviewer, datelike, hometown, the four sub-rating
// columns, review text, and site origin.
func OpenTableReviews() Profile {
	return Profile{
		Site:   models.SiteOpenTable,
		Entity: models.EntityReview,
		Rules:  RuleFixEncoding | RuleResolveDates | RuleSubRatings,
		Columns: map[Field]int{
			FieldInputName:  1,
			FieldReviewer:   2,
			FieldDatelike:   3,
			FieldHometown:   4,
			FieldRating:     5,
			FieldFood:       6,
			FieldService:    7,
			FieldAmbience:   8,
			FieldReviewText: 9,
			FieldOrigin:     10,
		},
	}
}

// YelpReviews lays out the Yelp review scrape: row index, restaurant,
// reviewer, datelike, hometown, rating text, review text, and site origin.
func YelpReviews() Profile {
	return Profile{
		Site:   models.SiteYelp,
		Entity: models.EntityReview,
		Rules:  RuleResolveDates | RuleRatingText,
		Columns: map[Field]int{
			FieldInputName:  1,
			FieldReviewer:   2,
			FieldDatelike:   3,
			FieldHometown:   4,
			FieldRating:     5,
			FieldReviewText: 6,
			FieldOrigin:     7,
		},
	}
}

// ProfileFor resolves the profile for a (site, entity) pair.
func ProfileFor(site, entity string) (Profile, error) {
	switch {
	case site == models.SiteOpenTable && entity == models.EntityRestaurant:
		return OpenTableRestaurants(), nil
	case site == models.SiteOpenTable && entity == models.EntityReview:
		return OpenTableReviews(), nil
	case site == models.SiteYelp && entity == models.EntityRestaurant:
		return YelpRestaurants(), nil
	case site == models.SiteYelp && entity == models.EntityReview:
		return YelpReviews(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %s/%s", ErrUnknownProfile, site, entity)
	}
}
