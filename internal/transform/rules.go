package transform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field parsing errors. Under the skip-and-report policy these drop the
// offending record from the batch rather than aborting it.
var (
	ErrPriceFigures     = errors.New("price text contains no usable dollar figures")
	ErrNoDigits         = errors.New("text contains no digits")
	ErrBadTagList       = errors.New("malformed tag list literal")
	ErrMissingComma     = errors.New("region text contains no comma")
	ErrBadDate          = errors.New("unrecognized date text")
	ErrNoExtractionDate = errors.New("file name carries no extraction date")
)

// PriceCeiling is the assumed maximum when a price descriptor states only a
// single figure ("around $40") with no upper bound.
const PriceCeiling = 200

var (
	dollarFigure   = regexp.MustCompile(`\$(\d+)`)
	firstInteger   = regexp.MustCompile(`(\d+)`)
	extractionDate = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	explicitDate   = regexp.MustCompile(`on (.+)`)
)

// ParsePriceRange extracts a (min, max) pair from a free-text price
// descriptor. Three textual patterns are recognized: "$X to $Y", "under $Y"
// (min 0), and a single figure such as "around $X" (max PriceCeiling).
func ParsePriceRange(text string) (int, int, error) {
	return ParsePriceRangeCeiling(text, PriceCeiling)
}

// ParsePriceRangeCeiling is ParsePriceRange with a caller-supplied upper bound
// for single-figure descriptors.
func ParsePriceRangeCeiling(text string, ceiling int) (int, int, error) {
	matches := dollarFigure.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrPriceFigures, text)
	}

	first, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrPriceFigures, text)
	}

	switch {
	case strings.Contains(text, "to"):
		if len(matches) < 2 {
			return 0, 0, fmt.Errorf("%w: %q", ErrPriceFigures, text)
		}

		second, err := strconv.Atoi(matches[1][1])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrPriceFigures, text)
		}

		return first, second, nil

	case strings.Contains(text, "under"):
		return 0, first, nil

	default:
		return first, ceiling, nil
	}
}

// ParsePriceSymbol maps a dollar-sign price symbol ("$" through "$$$$") to an
// ordinal 1-4. Text without a dollar sign maps to 0, the unknown tier.
func ParsePriceSymbol(text string) int {
	count := strings.Count(text, "$")
	if count == 0 {
		return 0
	}

	if count > 4 {
		count = 4
	}

	return count
}

// ParseTagList deserializes the scraper's list-literal form
// ("['cozy', 'patio']") into an ordered slice. The empty-list form "[]" and a
// missing value both normalize to nil, never to an empty slice.
func ParseTagList(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "[]" {
		return nil, nil
	}

	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("%w: %q", ErrBadTagList, text)
	}

	inner := trimmed[1 : len(trimmed)-1]

	var (
		tags    []string
		current strings.Builder
		quote   rune
		escaped bool
		inItem  bool
	)

	for _, r := range inner {
		switch {
		case escaped:
			current.WriteRune(r)

			escaped = false
		case inItem && r == '\\':
			escaped = true
		case inItem && r == quote:
			tags = append(tags, current.String())
			current.Reset()

			inItem = false
		case inItem:
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inItem = true
		case r == ',' || r == ' ':
			// separators between items
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadTagList, text)
		}
	}

	if inItem || escaped {
		return nil, fmt.Errorf("%w: %q", ErrBadTagList, text)
	}

	if len(tags) == 0 {
		return nil, nil
	}

	return tags, nil
}

// FormatTagList is the inverse of ParseTagList: it serializes tags back to
// the list-literal form used in curated files. A nil or empty slice
// serializes to "", the missing-value form.
func FormatTagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteByte('[')

	for i, tag := range tags {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(tag, "'", `\'`))
		b.WriteByte('\'')
	}

	b.WriteByte(']')

	return b.String()
}

// SplitRegion separates a combined "city, state" field on the first comma.
// Both parts are whitespace-trimmed; the state in particular is used as a
// join key downstream and must never carry the space left by the comma.
func SplitRegion(region string) (string, string, error) {
	city, state, found := strings.Cut(region, ",")
	if !found {
		return "", "", fmt.Errorf("%w: %q", ErrMissingComma, region)
	}

	return strings.TrimSpace(city), strings.TrimSpace(state), nil
}

// FirstInteger extracts the leading integer embedded in descriptive text,
// e.g. "4 star rating" or "Overall 5".
func FirstInteger(text string) (int, error) {
	match := firstInteger.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoDigits, text)
	}

	val, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoDigits, text)
	}

	return val, nil
}

// ExtractionDate recovers the batch extraction date embedded in a raw file
// name such as "opentable_review_data_Portland_ME_2024-06-29.csv". It is
// parsed once per batch and reused for every relative-date computation.
func ExtractionDate(fileName string) (time.Time, error) {
	match := extractionDate.FindString(fileName)
	if match == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoExtractionDate, fileName)
	}

	date, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoExtractionDate, fileName)
	}

	return date, nil
}

// DateResolver converts the scraped "datelike" forms into absolute dates
// relative to a fixed batch extraction date.
type DateResolver struct {
	extraction time.Time
}

// NewDateResolver creates a resolver anchored at the given extraction date.
func NewDateResolver(extraction time.Time) *DateResolver {
	return &DateResolver{extraction: extraction}
}

// monthLayouts covers the explicit date spellings the two sites produce.
var monthLayouts = []string{"January 2, 2006", "Jan 2, 2006"}

// Resolve turns one datelike string into an absolute calendar date. Handled
// forms: "today", "Dined N days ago", "Dined on July 1, 2024", and a bare
// "July 1, 2024" / "Jul 1, 2024".
func (r *DateResolver) Resolve(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)

	if strings.Contains(trimmed, "today") {
		return r.extraction, nil
	}

	if strings.Contains(trimmed, "ago") {
		days, err := FirstInteger(trimmed)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, text)
		}

		return r.extraction.AddDate(0, 0, -days), nil
	}

	candidate := trimmed
	if m := explicitDate.FindStringSubmatch(trimmed); m != nil {
		candidate = m[1]
	}

	for _, layout := range monthLayouts {
		if date, err := time.Parse(layout, candidate); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, text)
}
