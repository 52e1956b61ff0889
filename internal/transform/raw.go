package transform

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// RawTable is one raw scrape CSV held in memory: a header row (ignored, the
// layout contract is positional) followed by data rows.
type RawTable struct {
	// Name is the base file name; review batches recover the extraction date
	// from it.
	Name string
	Rows [][]string
}

// ReadRaw loads a raw CSV produced by the external scrapers. A missing file
// is reported to the caller so the stage can be skipped without aborting the
// rest of the run.
func ReadRaw(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading raw csv %s: %w", path, err)
	}

	tbl := &RawTable{Name: filepath.Base(path)}
	if len(records) > 1 {
		tbl.Rows = records[1:]
	}

	return tbl, nil
}
