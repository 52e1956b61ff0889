package store

import (
	"fmt"
)

// Result is a tabular read-query result. Column names come from the query's
// projection; values are rendered as strings with NULL as the empty string.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Query executes an ad hoc read query against the loaded schema. The caller
// is trusted; this is an internal tool, not a network-facing surface.
func (s *Store) Query(query string, args ...any) (*Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}

	result := &Result{Columns: cols}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("querying: %w", err)
		}

		row := make([]string, len(cols))

		for i, v := range values {
			switch val := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(val)
			default:
				row[i] = fmt.Sprint(val)
			}
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}

	return result, nil
}
