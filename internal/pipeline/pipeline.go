// Package pipeline orchestrates the three stages of the review ETL: raw
// scrape CSVs are transformed into curated CSVs, and curated CSVs are loaded
// into the normalized SQLite schema. Each stage can also run on its own
// through the stage commands.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"revagg/internal/config"
	"revagg/internal/curated"
	"revagg/internal/logger"
	"revagg/internal/models"
	"revagg/internal/store"
	"revagg/internal/transform"
)

// ErrNoCuratedData is returned when a load run finds no curated restaurant
// file for any enabled source.
var ErrNoCuratedData = errors.New("no curated restaurant data to load")

// LoadOrder is the table-load sequence; parents load before children so
// natural-key resolution always finds its lookup rows.
var LoadOrder = []string{
	"site_origin", "region", "tag", "price_point",
	"restaurant", "restaurant_tag", "reviewer", "review", "category_rating",
}

// Pipeline runs transform and load stages for the configured sources.
type Pipeline struct {
	cfg *config.Config
	log *logger.Logger
}

// New creates a pipeline over a validated configuration.
func New(cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// StageResult summarizes one source's transform stage.
type StageResult struct {
	Site              string
	Report            *transform.ValidationReport
	RestaurantOutcome transform.Outcome
	ReviewOutcome     transform.Outcome
	RestaurantsFile   string
	ReviewsFile       string
	Skipped           bool
}

// siteName maps a config source key to the canonical site name stored in the
// database.
func siteName(key string) string {
	switch key {
	case "opentable":
		return models.SiteOpenTable
	case "yelp":
		return models.SiteYelp
	default:
		return key
	}
}

func (p *Pipeline) options() transform.Options {
	return transform.Options{
		PriceCeiling:    p.cfg.Transform.PriceCeiling,
		FailOnMalformed: p.cfg.Transform.OnMalformed == config.OnMalformedFail,
	}
}

// Transform runs the transform stage for every enabled source: raw
// restaurants and reviews are normalized, validated, and written as curated
// CSVs. A source whose raw files are missing is skipped with a diagnostic;
// the other sources still run.
func (p *Pipeline) Transform() ([]StageResult, error) {
	var results []StageResult

	for _, src := range p.cfg.GetEnabledSources() {
		res, err := p.transformSource(src)
		if err != nil {
			return results, fmt.Errorf("transforming %s: %w", src.Site, err)
		}

		results = append(results, res)
	}

	return results, nil
}

func (p *Pipeline) transformSource(src config.SourceConfig) (StageResult, error) {
	site := siteName(src.Site)
	result := StageResult{Site: site}

	rawRestaurants := src.RestaurantsPath(p.cfg.Paths.RawDir)
	rawReviews := src.ReviewsPath(p.cfg.Paths.RawDir)

	if missing(rawRestaurants) || missing(rawReviews) {
		p.log.Warn("raw scrape files missing, skipping source",
			"site", site, "restaurants", rawRestaurants, "reviews", rawReviews)

		result.Skipped = true

		return result, nil
	}

	restaurantProfile, err := transform.ProfileFor(site, models.EntityRestaurant)
	if err != nil {
		return result, err
	}

	reviewProfile, err := transform.ProfileFor(site, models.EntityReview)
	if err != nil {
		return result, err
	}

	restaurantTable, err := transform.ReadRaw(rawRestaurants)
	if err != nil {
		return result, err
	}

	reviewTable, err := transform.ReadRaw(rawReviews)
	if err != nil {
		return result, err
	}

	opts := p.options()

	restaurants, report, restaurantOutcome, err := transform.NewWithOptions(restaurantProfile, opts, p.log).Restaurants(restaurantTable)
	if err != nil {
		return result, err
	}

	reviews, reviewOutcome, err := transform.NewWithOptions(reviewProfile, opts, p.log).Reviews(reviewTable, report.Dropped)
	if err != nil {
		return result, err
	}

	result.Report = report
	result.RestaurantOutcome = restaurantOutcome
	result.ReviewOutcome = reviewOutcome
	result.RestaurantsFile = filepath.Join(p.cfg.Paths.CuratedDir, curated.FileName(rawRestaurants))
	result.ReviewsFile = filepath.Join(p.cfg.Paths.CuratedDir, curated.FileName(rawReviews))

	if err := curated.WriteRestaurants(result.RestaurantsFile, site, restaurants); err != nil {
		return result, err
	}

	if err := curated.WriteReviews(result.ReviewsFile, site, reviews); err != nil {
		return result, err
	}

	p.log.Info("transform stage complete", "site", site,
		"restaurants", restaurantOutcome.Kept, "reviews", reviewOutcome.Kept)

	return result, nil
}

// Load reads every enabled source's curated files and loads them into the
// database in dependency order. Yelp is the primary restaurant source; its
// records are enriched with cuisine and description from the OpenTable
// counterpart. Natural-key tables are idempotent across runs; re-running a
// load skips every restaurant, reviewer, and lookup row already present.
func (p *Pipeline) Load(s *store.Store) (map[string]store.LoadResult, error) {
	restaurantBatches, reviewBatches, err := p.readCurated()
	if err != nil {
		return nil, err
	}

	if len(restaurantBatches) == 0 {
		return nil, ErrNoCuratedData
	}

	if err := s.CreateTables(); err != nil {
		return nil, err
	}

	results := make(map[string]store.LoadResult, len(LoadOrder))

	steps := []struct {
		table string
		run   func() (store.LoadResult, error)
	}{
		{"site_origin", func() (store.LoadResult, error) { return s.LoadSiteOrigins(reviewBatches...) }},
		{"region", func() (store.LoadResult, error) { return s.LoadRegions(restaurantBatches...) }},
		{"tag", func() (store.LoadResult, error) { return s.LoadTags(restaurantBatches...) }},
		{"price_point", func() (store.LoadResult, error) { return s.LoadPricePoints(restaurantBatches...) }},
		{"restaurant", func() (store.LoadResult, error) {
			primary, counterpart := splitPrimary(restaurantBatches)

			return s.LoadRestaurants(primary, counterpart)
		}},
		{"restaurant_tag", func() (store.LoadResult, error) { return s.LoadRestaurantTags(restaurantBatches...) }},
		{"reviewer", func() (store.LoadResult, error) { return s.LoadReviewers(reviewBatches...) }},
		{"review", func() (store.LoadResult, error) { return s.LoadReviews(reviewBatches...) }},
		{"category_rating", func() (store.LoadResult, error) {
			for _, batch := range reviewBatches {
				if batch.Site == models.SiteOpenTable {
					return s.LoadCategoryRatings(batch)
				}
			}

			return store.LoadResult{}, nil
		}},
	}

	for _, step := range steps {
		res, err := step.run()
		if err != nil {
			return results, fmt.Errorf("loading %s: %w", step.table, err)
		}

		results[step.table] = res

		p.log.Info("table loaded", "table", step.table,
			"inserted", res.Inserted, "skipped", res.Skipped)
	}

	return results, nil
}

// Run executes the transform stage followed by the load stage.
func (p *Pipeline) Run(s *store.Store) ([]StageResult, map[string]store.LoadResult, error) {
	stages, err := p.Transform()
	if err != nil {
		return stages, nil, err
	}

	loads, err := p.Load(s)
	if err != nil {
		return stages, loads, err
	}

	return stages, loads, nil
}

// readCurated collects the curated batches for every enabled source whose
// curated files exist. Missing files mean the transform stage skipped or
// never ran for that source; the load proceeds with what is there.
func (p *Pipeline) readCurated() ([]store.RestaurantBatch, []store.ReviewBatch, error) {
	var (
		restaurantBatches []store.RestaurantBatch
		reviewBatches     []store.ReviewBatch
	)

	for _, src := range p.cfg.GetEnabledSources() {
		site := siteName(src.Site)

		restaurantsFile := filepath.Join(p.cfg.Paths.CuratedDir, curated.FileName(src.RestaurantsFile))
		reviewsFile := filepath.Join(p.cfg.Paths.CuratedDir, curated.FileName(src.ReviewsFile))

		if missing(restaurantsFile) || missing(reviewsFile) {
			p.log.Warn("curated files missing, skipping source in load",
				"site", site, "restaurants", restaurantsFile, "reviews", reviewsFile)

			continue
		}

		restaurants, err := curated.ReadRestaurants(restaurantsFile, site)
		if err != nil {
			return nil, nil, err
		}

		reviews, err := curated.ReadReviews(reviewsFile, site)
		if err != nil {
			return nil, nil, err
		}

		restaurantBatches = append(restaurantBatches, store.RestaurantBatch{Site: site, Restaurants: restaurants})
		reviewBatches = append(reviewBatches, store.ReviewBatch{Site: site, Reviews: reviews})
	}

	return restaurantBatches, reviewBatches, nil
}

// splitPrimary picks the Yelp batch as the primary restaurant source and
// folds every other batch into the counterpart used for enrichment. With no
// Yelp batch, the first batch is primary.
func splitPrimary(batches []store.RestaurantBatch) (store.RestaurantBatch, store.RestaurantBatch) {
	primaryIdx := 0

	for i, b := range batches {
		if b.Site == models.SiteYelp {
			primaryIdx = i

			break
		}
	}

	primary := batches[primaryIdx]
	counterpart := store.RestaurantBatch{}

	for i, b := range batches {
		if i == primaryIdx {
			continue
		}

		counterpart.Site = b.Site
		counterpart.Restaurants = append(counterpart.Restaurants, b.Restaurants...)
	}

	return primary, counterpart
}

func missing(path string) bool {
	_, err := os.Stat(path)

	return err != nil
}
