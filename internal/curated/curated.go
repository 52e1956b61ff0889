// Package curated reads and writes the curated CSV artifacts that sit
// between the field transformer and the loader. Curated files carry a header
// row for humans, but the layout contract is positional: the loader depends
// on the column orders declared here.
package curated

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"revagg/internal/models"
	"revagg/internal/transform"
)

// Errors reported by the curated codec.
var (
	ErrUnknownSite = errors.New("no curated layout for site")
	ErrShortRow    = errors.New("curated row has too few columns")
)

// Unified target column orders, one per (site, entity) pair.
var (
	OpenTableRestaurantColumns = []string{
		"restaurant_name", "city", "state", "cuisine", "description",
		"min_price", "max_price", "tags",
	}
	YelpRestaurantColumns = []string{
		"restaurant_name", "city", "state", "price_point", "tags",
	}
	OpenTableReviewColumns = []string{
		"restaurant_name", "date", "reviewer_name", "hometown", "overall",
		"food", "service", "ambience", "review_text", "site_origin",
	}
	YelpReviewColumns = []string{
		"restaurant_name", "date", "reviewer_name", "hometown", "rating",
		"review_text", "site_origin",
	}
)

// FileName derives the curated artifact name from a raw file name:
// "yelp_review_data_2024-06-29.csv" becomes
// "yelp_review_data_2024-06-29_curated.csv".
func FileName(rawName string) string {
	base := strings.TrimSuffix(filepath.Base(rawName), ".csv")

	return base + "_curated.csv"
}

// WriteRestaurants persists a transformed restaurant batch in the site's
// curated layout.
func WriteRestaurants(path, site string, recs []models.Restaurant) error {
	rows := make([][]string, 0, len(recs)+1)

	switch site {
	case models.SiteOpenTable:
		rows = append(rows, OpenTableRestaurantColumns)
		for _, r := range recs {
			rows = append(rows, []string{
				r.Name, r.City, r.State, r.Cuisine, r.Description,
				strconv.Itoa(r.MinPrice), strconv.Itoa(r.MaxPrice),
				transform.FormatTagList(r.Tags),
			})
		}
	case models.SiteYelp:
		rows = append(rows, YelpRestaurantColumns)
		for _, r := range recs {
			rows = append(rows, []string{
				r.Name, r.City, r.State, formatPricePoint(r.PricePoint),
				transform.FormatTagList(r.Tags),
			})
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSite, site)
	}

	return writeAll(path, rows)
}

// WriteReviews persists a transformed review batch in the site's curated
// layout.
func WriteReviews(path, site string, recs []models.Review) error {
	rows := make([][]string, 0, len(recs)+1)

	switch site {
	case models.SiteOpenTable:
		rows = append(rows, OpenTableReviewColumns)
		for _, r := range recs {
			rows = append(rows, []string{
				r.RestaurantName, r.Date, r.ReviewerName, r.Hometown,
				strconv.Itoa(r.Rating), strconv.Itoa(r.Food),
				strconv.Itoa(r.Service), strconv.Itoa(r.Ambience),
				r.ReviewText, r.SiteOrigin,
			})
		}
	case models.SiteYelp:
		rows = append(rows, YelpReviewColumns)
		for _, r := range recs {
			rows = append(rows, []string{
				r.RestaurantName, r.Date, r.ReviewerName, r.Hometown,
				strconv.Itoa(r.Rating), r.ReviewText, r.SiteOrigin,
			})
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSite, site)
	}

	return writeAll(path, rows)
}

// ReadRestaurants loads a curated restaurant file back into records.
func ReadRestaurants(path, site string) ([]models.Restaurant, error) {
	if site != models.SiteOpenTable && site != models.SiteYelp {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, site)
	}

	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	recs := make([]models.Restaurant, 0, len(rows))

	for _, row := range rows {
		switch site {
		case models.SiteOpenTable:
			if len(row) < len(OpenTableRestaurantColumns) {
				return nil, fmt.Errorf("%w: %s", ErrShortRow, path)
			}

			tags, err := transform.ParseTagList(row[7])
			if err != nil {
				return nil, fmt.Errorf("curated %s: %w", path, err)
			}

			recs = append(recs, models.Restaurant{
				Name:        row[0],
				City:        row[1],
				State:       strings.TrimSpace(row[2]),
				Cuisine:     row[3],
				Description: row[4],
				MinPrice:    atoiOrZero(row[5]),
				MaxPrice:    atoiOrZero(row[6]),
				Tags:        tags,
			})
		case models.SiteYelp:
			if len(row) < len(YelpRestaurantColumns) {
				return nil, fmt.Errorf("%w: %s", ErrShortRow, path)
			}

			tags, err := transform.ParseTagList(row[4])
			if err != nil {
				return nil, fmt.Errorf("curated %s: %w", path, err)
			}

			recs = append(recs, models.Restaurant{
				Name:       row[0],
				City:       row[1],
				State:      strings.TrimSpace(row[2]),
				PricePoint: atoiOrZero(row[3]),
				Tags:       tags,
			})
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownSite, site)
		}
	}

	return recs, nil
}

// ReadReviews loads a curated review file back into records.
func ReadReviews(path, site string) ([]models.Review, error) {
	if site != models.SiteOpenTable && site != models.SiteYelp {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, site)
	}

	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	recs := make([]models.Review, 0, len(rows))

	for _, row := range rows {
		switch site {
		case models.SiteOpenTable:
			if len(row) < len(OpenTableReviewColumns) {
				return nil, fmt.Errorf("%w: %s", ErrShortRow, path)
			}

			recs = append(recs, models.Review{
				RestaurantName: row[0],
				Date:           row[1],
				ReviewerName:   row[2],
				Hometown:       row[3],
				Rating:         atoiOrZero(row[4]),
				Food:           atoiOrZero(row[5]),
				Service:        atoiOrZero(row[6]),
				Ambience:       atoiOrZero(row[7]),
				ReviewText:     row[8],
				SiteOrigin:     row[9],
			})
		case models.SiteYelp:
			if len(row) < len(YelpReviewColumns) {
				return nil, fmt.Errorf("%w: %s", ErrShortRow, path)
			}

			recs = append(recs, models.Review{
				RestaurantName: row[0],
				Date:           row[1],
				ReviewerName:   row[2],
				Hometown:       row[3],
				Rating:         atoiOrZero(row[4]),
				ReviewText:     row[5],
				SiteOrigin:     row[6],
			})
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownSite, site)
		}
	}

	return recs, nil
}

func formatPricePoint(p int) string {
	if p == 0 {
		return ""
	}

	return strconv.Itoa(p)
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return v
}

func writeAll(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating curated dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating curated csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()

		return fmt.Errorf("writing curated csv %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing curated csv %s: %w", path, err)
	}

	return nil
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening curated csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading curated csv %s: %w", path, err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	return rows[1:], nil
}
