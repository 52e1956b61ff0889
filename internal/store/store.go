// Package store defines the normalized relational schema and performs
// idempotent, foreign-key-consistent loads from curated record batches into
// a SQLite database file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"revagg/internal/logger"
	"revagg/internal/models"
	"revagg/internal/names"
)

// ErrNoPrimaryBatch is returned when a restaurant load has no primary batch.
var ErrNoPrimaryBatch = errors.New("restaurant load requires a primary batch")

// Store owns the database connection for the duration of a load run. Load
// methods must not be interleaved from multiple goroutines; the pipeline is
// single-threaded by design.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open connects to the database file, creating its directory if absent.
func Open(path string, log *logger.Logger) (*Store, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite in-memory databases live per connection; more than one
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the schema if it does not exist.
func (s *Store) CreateTables() error {
	for _, ddl := range schema {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}

	return nil
}

// RestaurantBatch is one site's curated restaurant records.
type RestaurantBatch struct {
	Site        string
	Restaurants []models.Restaurant
}

// ReviewBatch is one site's curated review records.
type ReviewBatch struct {
	Site    string
	Reviews []models.Review
}

// LoadResult counts the rows a load routine inserted and the rows it skipped,
// either because a natural-key lookup missed or because the row already
// existed.
type LoadResult struct {
	Inserted int
	Skipped  int
}

func (r *LoadResult) add(res sql.Result) {
	n, err := res.RowsAffected()
	if err == nil && n > 0 {
		r.Inserted += int(n)
	} else {
		r.Skipped++
	}
}

// PriceToken derives the canonical price-tier token a restaurant contributes
// to the price_point table: the dollar-count ordinal for Yelp, the
// "min-max" pair for OpenTable, "" when the source stated no price.
func PriceToken(r models.Restaurant, site string) string {
	switch site {
	case models.SiteYelp:
		if r.PricePoint == 0 {
			return ""
		}

		return strconv.Itoa(r.PricePoint)
	case models.SiteOpenTable:
		if r.MinPrice == 0 && r.MaxPrice == 0 {
			return ""
		}

		return fmt.Sprintf("%d-%d", r.MinPrice, r.MaxPrice)
	default:
		return ""
	}
}

// LoadSiteOrigins inserts each distinct site name found in the review
// batches. Insert-if-absent keyed on site_name: re-running leaves one row
// per site.
func (s *Store) LoadSiteOrigins(batches ...ReviewBatch) (LoadResult, error) {
	return s.loadLookup("site origins", func(tx *sql.Tx, result *LoadResult) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO site_origin(site_name) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, batch := range batches {
			for _, rev := range batch.Reviews {
				if rev.SiteOrigin == "" {
					result.Skipped++

					continue
				}

				res, err := stmt.Exec(rev.SiteOrigin)
				if err != nil {
					return err
				}

				result.add(res)
			}
		}

		return nil
	})
}

// LoadRegions inserts each distinct (city, state) pair from the restaurant
// batches. The composite primary key makes the insert idempotent.
func (s *Store) LoadRegions(batches ...RestaurantBatch) (LoadResult, error) {
	return s.loadLookup("regions", func(tx *sql.Tx, result *LoadResult) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO region(city, state) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, batch := range batches {
			for _, r := range batch.Restaurants {
				if r.City == "" && r.State == "" {
					result.Skipped++

					continue
				}

				res, err := stmt.Exec(r.City, strings.TrimSpace(r.State))
				if err != nil {
					return err
				}

				result.add(res)
			}
		}

		return nil
	})
}

// LoadTags inserts every tag seen in either source. Tags are globally
// deduplicated across both sites by the unique constraint before any
// restaurant/tag association is created.
func (s *Store) LoadTags(batches ...RestaurantBatch) (LoadResult, error) {
	return s.loadLookup("tags", func(tx *sql.Tx, result *LoadResult) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO tag(name) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, batch := range batches {
			for _, r := range batch.Restaurants {
				for _, tag := range r.Tags {
					res, err := stmt.Exec(tag)
					if err != nil {
						return err
					}

					result.add(res)
				}
			}
		}

		return nil
	})
}

// LoadPricePoints inserts the canonical price tokens contributed by both
// sources, deduplicated by the unique constraint.
func (s *Store) LoadPricePoints(batches ...RestaurantBatch) (LoadResult, error) {
	return s.loadLookup("price points", func(tx *sql.Tx, result *LoadResult) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO price_point(price_point) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, batch := range batches {
			for _, r := range batch.Restaurants {
				token := PriceToken(r, batch.Site)
				if token == "" {
					result.Skipped++

					continue
				}

				res, err := stmt.Exec(token)
				if err != nil {
					return err
				}

				result.add(res)
			}
		}

		return nil
	})
}

// LoadRestaurants inserts the primary batch's restaurants, enriching each
// with cuisine and description from the counterpart source. The counterpart
// is indexed by canonical name once per batch instead of rescanned per
// restaurant. Names are natural keys: a name already present is skipped, the
// first writer wins.
func (s *Store) LoadRestaurants(primary RestaurantBatch, counterpart RestaurantBatch) (LoadResult, error) {
	result := LoadResult{}

	if len(primary.Restaurants) == 0 {
		return result, ErrNoPrimaryBatch
	}

	index := make(map[string]models.Restaurant, len(counterpart.Restaurants))
	for _, r := range counterpart.Restaurants {
		if _, ok := index[names.Normalize(r.Name)]; !ok {
			index[names.Normalize(r.Name)] = r
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return result, fmt.Errorf("loading restaurants: %w", err)
	}
	defer tx.Rollback()

	for _, r := range primary.Restaurants {
		exists, err := lookupID(tx, `SELECT id FROM restaurant WHERE name = ?`, r.Name)
		if err != nil {
			return result, fmt.Errorf("loading restaurants: %w", err)
		}

		if exists != 0 {
			result.Skipped++

			continue
		}

		// Regions normally arrive via LoadRegions; restaurants from a city
		// not yet seen still need a parent row.
		if _, err := tx.Exec(`INSERT OR IGNORE INTO region(city, state) VALUES (?, ?)`, r.City, r.State); err != nil {
			return result, fmt.Errorf("loading restaurants: %w", err)
		}

		var pricePointID any

		if token := PriceToken(r, primary.Site); token != "" {
			id, err := lookupID(tx, `SELECT id FROM price_point WHERE price_point = ?`, token)
			if err != nil {
				return result, fmt.Errorf("loading restaurants: %w", err)
			}

			if id != 0 {
				pricePointID = id
			}
		}

		var cuisine, description any

		if match, ok := index[names.Normalize(r.Name)]; ok {
			if match.Cuisine != "" {
				cuisine = match.Cuisine
			}

			if match.Description != "" {
				description = match.Description
			}
		}

		_, err = tx.Exec(
			`INSERT INTO restaurant(name, price_point_id, cuisine, description, city, state)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.Name, pricePointID, cuisine, description, r.City, r.State,
		)
		if err != nil {
			return result, fmt.Errorf("loading restaurants: %w", err)
		}

		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("loading restaurants: %w", err)
	}

	return result, nil
}

// LoadRestaurantTags associates restaurants with the union of their tags
// from both sources. A tag or restaurant that cannot be resolved skips that
// association with a diagnostic; it never aborts the load.
func (s *Store) LoadRestaurantTags(batches ...RestaurantBatch) (LoadResult, error) {
	merged := make(map[string][]string)

	for _, batch := range batches {
		for _, r := range batch.Restaurants {
			key := names.Normalize(r.Name)
			merged[key] = append(merged[key], r.Tags...)
		}
	}

	return s.loadLookup("restaurant tags", func(tx *sql.Tx, result *LoadResult) error {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO restaurant_tag(restaurant_id, tag_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for name, tags := range merged {
			if len(tags) == 0 {
				continue
			}

			restaurantID, err := lookupID(tx, `SELECT id FROM restaurant WHERE name = ?`, name)
			if err != nil {
				return err
			}

			if restaurantID == 0 {
				s.log.Warn("restaurant not found for tag association", "restaurant", name)

				result.Skipped += len(tags)

				continue
			}

			seen := make(map[string]struct{}, len(tags))

			for _, tag := range tags {
				if _, dup := seen[tag]; dup {
					continue
				}

				seen[tag] = struct{}{}

				tagID, err := lookupID(tx, `SELECT id FROM tag WHERE name = ?`, tag)
				if err != nil {
					return err
				}

				if tagID == 0 {
					s.log.Warn("tag not found in lookup table", "tag", tag)

					result.Skipped++

					continue
				}

				res, err := stmt.Exec(restaurantID, tagID)
				if err != nil {
					return err
				}

				result.add(res)
			}
		}

		return nil
	})
}

// LoadReviewers inserts one reviewer per distinct name across both review
// batches. Identity is by name alone: homonyms collapse into one row, a
// documented approximation. Rows with an empty name are not loaded; an empty
// hometown becomes NULL.
func (s *Store) LoadReviewers(batches ...ReviewBatch) (LoadResult, error) {
	return s.loadLookup("reviewers", func(tx *sql.Tx, result *LoadResult) error {
		for _, batch := range batches {
			for _, rev := range batch.Reviews {
				name := strings.TrimSpace(rev.ReviewerName)
				if name == "" {
					result.Skipped++

					continue
				}

				id, err := lookupID(tx, `SELECT id FROM reviewer WHERE name = ?`, name)
				if err != nil {
					return err
				}

				if id != 0 {
					result.Skipped++

					continue
				}

				var hometown any
				if rev.Hometown != "" {
					hometown = rev.Hometown
				}

				if _, err := tx.Exec(`INSERT INTO reviewer(name, hometown) VALUES (?, ?)`, name, hometown); err != nil {
					return err
				}

				result.Inserted++
			}
		}

		return nil
	})
}

// LoadReviews inserts one row per curated review. Restaurant, reviewer, and
// site ids are resolved by synchronous natural-key lookup; any miss skips
// that single review with a diagnostic and never aborts the batch. Inserts
// are committed per row so a partial failure keeps the rows already loaded.
func (s *Store) LoadReviews(batches ...ReviewBatch) (LoadResult, error) {
	result := LoadResult{}

	for _, batch := range batches {
		for _, rev := range batch.Reviews {
			if strings.TrimSpace(rev.ReviewerName) == "" {
				result.Skipped++

				continue
			}

			restaurantID, reviewerID, siteID, ok, err := s.resolveReviewKeys(rev)
			if err != nil {
				return result, fmt.Errorf("loading reviews: %w", err)
			}

			if !ok {
				result.Skipped++

				continue
			}

			_, err = s.db.Exec(
				`INSERT INTO review(restaurant_id, reviewer_id, site_origin_id, rating, date, review_text)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				restaurantID, reviewerID, siteID, rev.Rating, rev.Date, rev.ReviewText,
			)
			if err != nil {
				return result, fmt.Errorf("loading reviews: %w", err)
			}

			result.Inserted++
		}
	}

	return result, nil
}

// LoadCategoryRatings inserts the per-category sub-ratings for the source
// that exposes them. The parent review is resolved by the (reviewer, date,
// restaurant) triple; any miss skips the row.
func (s *Store) LoadCategoryRatings(batch ReviewBatch) (LoadResult, error) {
	return s.loadLookup("category ratings", func(tx *sql.Tx, result *LoadResult) error {
		for _, rev := range batch.Reviews {
			reviewerID, err := lookupID(tx, `SELECT id FROM reviewer WHERE name = ?`, strings.TrimSpace(rev.ReviewerName))
			if err != nil {
				return err
			}

			restaurantID, err := lookupID(tx, `SELECT id FROM restaurant WHERE name = ?`, rev.RestaurantName)
			if err != nil {
				return err
			}

			if reviewerID == 0 || restaurantID == 0 {
				s.log.Warn("skipping category rating with unresolved keys",
					"restaurant", rev.RestaurantName, "reviewer", rev.ReviewerName)

				result.Skipped++

				continue
			}

			reviewID, err := lookupID(tx,
				`SELECT id FROM review WHERE reviewer_id = ? AND date = ? AND restaurant_id = ?`,
				reviewerID, rev.Date, restaurantID)
			if err != nil {
				return err
			}

			if reviewID == 0 {
				s.log.Warn("skipping category rating with no parent review",
					"restaurant", rev.RestaurantName, "reviewer", rev.ReviewerName, "date", rev.Date)

				result.Skipped++

				continue
			}

			_, err = tx.Exec(
				`INSERT INTO category_rating(reviewer_id, review_id, food, ambience, service)
				 VALUES (?, ?, ?, ?, ?)`,
				reviewerID, reviewID, rev.Food, rev.Ambience, rev.Service,
			)
			if err != nil {
				return err
			}

			result.Inserted++
		}

		return nil
	})
}

// resolveReviewKeys looks up the three foreign keys a review row needs,
// logging the first miss.
func (s *Store) resolveReviewKeys(rev models.Review) (restaurantID, reviewerID, siteID int64, ok bool, err error) {
	restaurantID, err = lookupIDDB(s.db, `SELECT id FROM restaurant WHERE name = ?`, rev.RestaurantName)
	if err != nil {
		return 0, 0, 0, false, err
	}

	if restaurantID == 0 {
		s.log.Warn("skipping review for unknown restaurant", "restaurant", rev.RestaurantName)

		return 0, 0, 0, false, nil
	}

	reviewerID, err = lookupIDDB(s.db, `SELECT id FROM reviewer WHERE name = ?`, strings.TrimSpace(rev.ReviewerName))
	if err != nil {
		return 0, 0, 0, false, err
	}

	if reviewerID == 0 {
		s.log.Warn("skipping review by unknown reviewer", "reviewer", rev.ReviewerName)

		return 0, 0, 0, false, nil
	}

	siteID, err = lookupIDDB(s.db, `SELECT id FROM site_origin WHERE site_name = ?`, rev.SiteOrigin)
	if err != nil {
		return 0, 0, 0, false, err
	}

	if siteID == 0 {
		s.log.Warn("skipping review from unknown site", "site", rev.SiteOrigin)

		return 0, 0, 0, false, nil
	}

	return restaurantID, reviewerID, siteID, true, nil
}

// loadLookup wraps one table-load routine in a transaction so the connection
// state is released on every exit path.
func (s *Store) loadLookup(table string, fn func(*sql.Tx, *LoadResult) error) (LoadResult, error) {
	result := LoadResult{}

	tx, err := s.db.Begin()
	if err != nil {
		return result, fmt.Errorf("loading %s: %w", table, err)
	}
	defer tx.Rollback()

	if err := fn(tx, &result); err != nil {
		return result, fmt.Errorf("loading %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("loading %s: %w", table, err)
	}

	return result, nil
}

func lookupID(tx *sql.Tx, query string, args ...any) (int64, error) {
	var id int64

	err := tx.QueryRow(query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return id, nil
}

func lookupIDDB(db *sql.DB, query string, args ...any) (int64, error) {
	var id int64

	err := db.QueryRow(query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return id, nil
}
