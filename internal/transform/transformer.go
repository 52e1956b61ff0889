// Package transform normalizes raw scraped record sets into the curated form
// the loader consumes. One parameterized transformer serves all four
// (site, entity) sources, driven by a Profile that declares the positional
// column layout and the applicable rule subset.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"revagg/internal/logger"
	"revagg/internal/models"
	"revagg/internal/names"
)

// Profile misuse errors.
var (
	ErrNotRestaurantProfile = errors.New("profile does not describe a restaurant source")
	ErrNotReviewProfile     = errors.New("profile does not describe a review source")
	ErrMalformedRows        = errors.New("batch contains malformed rows")
)

// Options tunes rule behavior shared by every profile.
type Options struct {
	// PriceCeiling caps open-ended price descriptors such as "around $40".
	PriceCeiling int
	// FailOnMalformed aborts the batch when any row fails a field pattern,
	// instead of skipping the row and reporting it.
	FailOnMalformed bool
}

// DefaultOptions returns the skip-and-report defaults.
func DefaultOptions() Options {
	return Options{PriceCeiling: PriceCeiling}
}

// Transformer applies one profile's rule set to a raw record batch.
type Transformer struct {
	profile Profile
	opts    Options
	log     *logger.Logger
}

// New creates a transformer for the given source profile with default options.
func New(profile Profile, log *logger.Logger) *Transformer {
	return NewWithOptions(profile, DefaultOptions(), log)
}

// NewWithOptions creates a transformer with explicit rule options.
func NewWithOptions(profile Profile, opts Options, log *logger.Logger) *Transformer {
	if opts.PriceCeiling < 1 {
		opts.PriceCeiling = PriceCeiling
	}

	return &Transformer{
		profile: profile,
		opts:    opts,
		log:     log.With("site", profile.Site, "entity", profile.Entity),
	}
}

// Outcome summarizes one transform stage. Malformed counts rows removed under
// the skip-and-report policy: a field that fails its textual pattern drops
// that record with a diagnostic instead of aborting the batch.
type Outcome struct {
	Rows      int
	Kept      int
	Dropped   int
	Flagged   int
	Malformed int
}

// Restaurants transforms a raw restaurant batch into curated records. When
// the profile enables name validation, records are partitioned into confirmed
// matches (kept), partial matches (kept, queued for manual inspection), and
// non-matches (dropped and reported). Region splitting runs before anything
// downstream keys off separate city/state columns, and tag parsing runs
// before the loader's dedup can rely on the nil-means-no-tags convention.
func (t *Transformer) Restaurants(tbl *RawTable) ([]models.Restaurant, *ValidationReport, Outcome, error) {
	if t.profile.Entity != models.EntityRestaurant {
		return nil, nil, Outcome{}, ErrNotRestaurantProfile
	}

	report := &ValidationReport{}
	outcome := Outcome{}

	var curated []models.Restaurant

	for _, row := range tbl.Rows {
		outcome.Rows++

		rawInput := strings.TrimSpace(t.profile.value(row, FieldInputName))
		name := names.Normalize(rawInput)

		if t.profile.has(RuleValidateNames) {
			extracted := names.Normalize(strings.TrimSpace(t.profile.value(row, FieldExtractedName)))

			switch ClassifyNames(name, extracted) {
			case MatchNone:
				report.Dropped = append(report.Dropped, rawInput)
				outcome.Dropped++

				t.log.Debug("dropped mis-extracted restaurant", "input", rawInput)

				continue
			case MatchPartial:
				report.Inspect = append(report.Inspect, name)
				outcome.Flagged++
			case MatchConfirmed:
			}
		}

		rec := models.Restaurant{Name: name}

		if t.profile.has(RuleSplitRegion) {
			city, state, err := SplitRegion(t.profile.value(row, FieldRegion))
			if err != nil {
				t.skip(&outcome, name, err)

				continue
			}

			rec.City, rec.State = city, state
		}

		rec.Cuisine = strings.TrimSpace(t.profile.value(row, FieldCuisine))

		desc := t.profile.value(row, FieldDescription)
		if t.profile.has(RuleFixEncoding) {
			desc = RepairEncoding(desc)
		}

		rec.Description = desc

		if t.profile.has(RulePriceRange) {
			minPrice, maxPrice, err := ParsePriceRangeCeiling(t.profile.value(row, FieldPrice), t.opts.PriceCeiling)
			if err != nil {
				t.skip(&outcome, name, err)

				continue
			}

			rec.MinPrice, rec.MaxPrice = minPrice, maxPrice
		}

		if t.profile.has(RulePriceSymbol) {
			rec.PricePoint = ParsePriceSymbol(t.profile.value(row, FieldPrice))
		}

		if t.profile.has(RuleParseTags) {
			tags, err := ParseTagList(t.profile.value(row, FieldTags))
			if err != nil {
				t.skip(&outcome, name, err)

				continue
			}

			rec.Tags = tags
		}

		curated = append(curated, rec)
		outcome.Kept++
	}

	if err := t.malformedPolicy(outcome); err != nil {
		return nil, report, outcome, err
	}

	return curated, report, outcome, nil
}

// Reviews transforms a raw review batch into curated records. Reviews whose
// restaurant was rejected by the restaurant validator are removed; the
// droppedRestaurants list carries the validator's original input names. The
// extraction date is parsed once from the batch file name and reused for
// every relative-date computation.
func (t *Transformer) Reviews(tbl *RawTable, droppedRestaurants []string) ([]models.Review, Outcome, error) {
	if t.profile.Entity != models.EntityReview {
		return nil, Outcome{}, ErrNotReviewProfile
	}

	outcome := Outcome{}

	var resolver *DateResolver

	if t.profile.has(RuleResolveDates) {
		extraction, err := ExtractionDate(tbl.Name)
		if err != nil {
			return nil, outcome, err
		}

		resolver = NewDateResolver(extraction)
	}

	rejected := make(map[string]struct{}, len(droppedRestaurants))
	for _, d := range droppedRestaurants {
		rejected[names.Normalize(d)] = struct{}{}
	}

	var curated []models.Review

	for _, row := range tbl.Rows {
		outcome.Rows++

		name := names.Normalize(strings.TrimSpace(t.profile.value(row, FieldInputName)))
		if _, ok := rejected[name]; ok {
			outcome.Dropped++

			continue
		}

		rec := models.Review{
			RestaurantName: name,
			ReviewerName:   strings.TrimSpace(t.profile.value(row, FieldReviewer)),
			Hometown:       strings.TrimSpace(t.profile.value(row, FieldHometown)),
			SiteOrigin:     strings.TrimSpace(t.profile.value(row, FieldOrigin)),
		}

		text := t.profile.value(row, FieldReviewText)
		if t.profile.has(RuleFixEncoding) {
			text = RepairEncoding(text)
		}

		rec.ReviewText = text

		if resolver != nil {
			date, err := resolver.Resolve(t.profile.value(row, FieldDatelike))
			if err != nil {
				t.skip(&outcome, name, err)

				continue
			}

			rec.Date = date.Format("2006-01-02")
		}

		if t.profile.has(RuleRatingText) {
			rating, err := FirstInteger(t.profile.value(row, FieldRating))
			if err != nil {
				t.skip(&outcome, name, err)

				continue
			}

			rec.Rating = rating
		}

		if t.profile.has(RuleSubRatings) {
			ok := true

			for field, dst := range map[Field]*int{
				FieldRating:   &rec.Rating,
				FieldFood:     &rec.Food,
				FieldService:  &rec.Service,
				FieldAmbience: &rec.Ambience,
			} {
				val, err := FirstInteger(t.profile.value(row, field))
				if err != nil {
					t.skip(&outcome, name, err)

					ok = false

					break
				}

				*dst = val
			}

			if !ok {
				continue
			}
		}

		curated = append(curated, rec)
		outcome.Kept++
	}

	if err := t.malformedPolicy(outcome); err != nil {
		return nil, outcome, err
	}

	return curated, outcome, nil
}

// skip records one row removed under the skip-and-report policy.
func (t *Transformer) skip(outcome *Outcome, name string, err error) {
	outcome.Malformed++
	t.log.Warn("skipping malformed record", "restaurant", name, "error", err)
}

// malformedPolicy rejects the whole batch under the fail-fast policy.
func (t *Transformer) malformedPolicy(outcome Outcome) error {
	if t.opts.FailOnMalformed && outcome.Malformed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrMalformedRows, outcome.Malformed, outcome.Rows)
	}

	return nil
}
