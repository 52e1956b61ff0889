package transform

import "strings"

// MatchClass is the outcome of comparing a search-input name against the
// name extracted from the result page.
type MatchClass int

const (
	// MatchConfirmed means the normalized names are equal; the record is
	// retained unchanged.
	MatchConfirmed MatchClass = iota
	// MatchPartial means one normalized name is a literal substring of the
	// other. A substring relation is necessary but not sufficient evidence of
	// identity, so the record is kept and queued for manual inspection.
	MatchPartial
	// MatchNone means the names are neither equal nor in a substring
	// relation; the record was scraped inadvertently and is dropped.
	MatchNone
)

// ClassifyNames partitions a normalized (input, extracted) name pair.
// Matching is exact string containment, not fuzzy matching: differently
// abbreviated names land in the manual-inspection queue instead of being
// guessed at. Containment is checked in both directions, so the
// classification is symmetric.
func ClassifyNames(input, extracted string) MatchClass {
	if input == extracted {
		return MatchConfirmed
	}

	if strings.Contains(input, extracted) || strings.Contains(extracted, input) {
		return MatchPartial
	}

	return MatchNone
}

// ValidationReport carries the record validator's decisions for one
// restaurant batch. Dropped names propagate to the same source's review
// batch: a review is erroneous if its restaurant was rejected.
type ValidationReport struct {
	// Dropped holds the original, pre-normalization input names of records
	// removed from the working set.
	Dropped []string
	// Inspect holds the canonical names of partial matches that require
	// manual review.
	Inspect []string
}
