package cities

import (
	"errors"
	"path/filepath"
	"testing"
)

func loadTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := LoadIndex(filepath.Join("testdata", "cities.csv"))
	if err != nil {
		t.Fatalf("failed to load test dataset: %v", err)
	}
	return idx
}

// TestResolveCaseInsensitive verifies that lookups ignore letter case.
func TestResolveCaseInsensitive(t *testing.T) {
	idx := loadTestIndex(t)

	for _, name := range []string{"Madrid", "madrid", "MADRID", "  Madrid  "} {
		rec, err := idx.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if rec.Name != "Madrid" || rec.Country != "Spain" {
			t.Fatalf("Resolve(%q) returned %q (%s), want Madrid (Spain)", name, rec.Name, rec.Country)
		}
		if rec.Latitude == 0 || rec.Longitude == 0 {
			t.Fatalf("Resolve(%q) returned zero coordinates", name)
		}
	}
}

// TestResolveASCIIFallback verifies that the plain-ASCII spelling matches
// when the native name carries accents.
func TestResolveASCIIFallback(t *testing.T) {
	idx := loadTestIndex(t)

	rec, err := idx.Resolve("malaga")
	if err != nil {
		t.Fatalf("Resolve(malaga) failed: %v", err)
	}
	if rec.Name != "Málaga" {
		t.Fatalf("expected Málaga, got %q", rec.Name)
	}

	// The accented spelling must keep working too.
	if _, err := idx.Resolve("Málaga"); err != nil {
		t.Fatalf("Resolve(Málaga) failed: %v", err)
	}
}

// TestResolveNotFound verifies the typed error for absent cities.
func TestResolveNotFound(t *testing.T) {
	idx := loadTestIndex(t)

	_, err := idx.Resolve("Ciudadinventada123")
	if err == nil {
		t.Fatal("expected an error for an unknown city")
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if notFound.Name != "Ciudadinventada123" {
		t.Fatalf("NotFoundError carries %q, want the queried name", notFound.Name)
	}
}

// TestResolveTieBreakByPopulation verifies that among duplicate names the
// most populated city wins.
func TestResolveTieBreakByPopulation(t *testing.T) {
	idx := loadTestIndex(t)

	rec, err := idx.Resolve("Córdoba")
	if err != nil {
		t.Fatalf("Resolve(Córdoba) failed: %v", err)
	}
	if rec.Country != "Argentina" {
		t.Fatalf("expected the Argentinian Córdoba (larger population), got %s", rec.Country)
	}

	rec, err = idx.Resolve("lima")
	if err != nil {
		t.Fatalf("Resolve(lima) failed: %v", err)
	}
	if rec.Country != "Peru" {
		t.Fatalf("expected Lima, Peru, got %s", rec.Country)
	}
}

// TestResolveTieBreakFirstRow verifies that equal populations fall back to
// dataset order.
func TestResolveTieBreakFirstRow(t *testing.T) {
	idx := NewIndex([]CityRecord{
		{Name: "Springfield", ASCIIName: "Springfield", Country: "A", Population: 1000},
		{Name: "Springfield", ASCIIName: "Springfield", Country: "B", Population: 1000},
	})

	rec, err := idx.Resolve("springfield")
	if err != nil {
		t.Fatalf("Resolve(springfield) failed: %v", err)
	}
	if rec.Country != "A" {
		t.Fatalf("expected the first row to win on equal population, got %s", rec.Country)
	}
}

// TestResolveMissingPopulationColumn verifies that records without a
// population still resolve.
func TestResolveMissingPopulationColumn(t *testing.T) {
	idx := NewIndex([]CityRecord{
		{Name: "Villarriba", ASCIIName: "Villarriba", Country: "ES", Latitude: 1, Longitude: 2},
	})

	rec, err := idx.Resolve("villarriba")
	if err != nil {
		t.Fatalf("Resolve(villarriba) failed: %v", err)
	}
	if rec.Population != 0 {
		t.Fatalf("expected zero population, got %f", rec.Population)
	}
}
