package cities

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// CityRecord is one row of the city dataset. Records are immutable after load.
type CityRecord struct {
	Name       string  `csv:"city"`
	ASCIIName  string  `csv:"city_ascii"`
	Latitude   float64 `csv:"lat"`
	Longitude  float64 `csv:"lng"`
	Country    string  `csv:"country"`
	Population float64 `csv:"population"`
}

// NotFoundError is returned when a queried city is absent from the dataset.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("city %q not found in dataset", e.Name)
}

// Index is an in-memory, read-only lookup table from city name to record.
// It is safe for concurrent use once built.
type Index struct {
	byName  map[string][]CityRecord
	byASCII map[string][]CityRecord
	size    int
}

// LoadIndex reads a worldcities-style CSV file and builds an Index from it.
// Optional columns (e.g. population) may be missing from the file.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city dataset: %w", err)
	}
	defer f.Close()

	var records []CityRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parse city dataset %s: %w", path, err)
	}
	return NewIndex(records), nil
}

// NewIndex builds an Index from already-loaded records, preserving dataset order.
func NewIndex(records []CityRecord) *Index {
	idx := &Index{
		byName:  make(map[string][]CityRecord),
		byASCII: make(map[string][]CityRecord),
		size:    len(records),
	}
	for _, r := range records {
		if key := normalize(r.Name); key != "" {
			idx.byName[key] = append(idx.byName[key], r)
		}
		if key := normalize(r.ASCIIName); key != "" {
			idx.byASCII[key] = append(idx.byASCII[key], r)
		}
	}
	return idx
}

// Size returns the number of records the index was built from.
func (idx *Index) Size() int {
	return idx.size
}

// Resolve finds the record for a city name. Matching is a case-insensitive
// exact match on the native name, falling back to the ASCII name when the
// native spelling does not match. When several cities share a name, the one
// with the highest population wins; ties keep the first row in dataset order.
func (idx *Index) Resolve(name string) (CityRecord, error) {
	key := normalize(name)

	matches := idx.byName[key]
	if len(matches) == 0 {
		matches = idx.byASCII[key]
	}
	if len(matches) == 0 {
		return CityRecord{}, &NotFoundError{Name: name}
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Population > best.Population {
			best = m
		}
	}
	return best, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
