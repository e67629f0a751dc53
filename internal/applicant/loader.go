package applicant

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region loader
// Loader reads applicant records from a JSON fixture file and hands them
// out one at a time. Used by the CLI harness and tests.
type Loader struct {
	records []Record
	cursor  int
}

// LoadFile reads and parses a JSON array of applicant records.
func LoadFile(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read applicant data %s: %w", path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse applicant data %s: %w", path, err)
	}
	return &Loader{records: records}, nil
}

// Count returns the number of loaded records.
func (l *Loader) Count() int {
	return len(l.records)
}

// Get returns the record at index i, or false when out of range.
func (l *Loader) Get(i int) (Record, bool) {
	if i < 0 || i >= len(l.records) {
		return Record{}, false
	}
	return l.records[i], true
}

// Next returns the record at the cursor and advances it, wrapping around.
func (l *Loader) Next() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	rec := l.records[l.cursor]
	l.cursor = (l.cursor + 1) % len(l.records)
	return rec, true
}

// All returns every loaded record.
func (l *Loader) All() []Record {
	return l.records
}

// #endregion loader
