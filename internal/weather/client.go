package weather

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is one fetched weather reading plus the next 24 hourly points.
// It is built fresh per request and discarded after formatting.
type Snapshot struct {
	CurrentTemperature float64
	CurrentWindSpeed   float64

	// Hourly series, ordered by time ascending, at most 24 entries each.
	HourlyTimes        []time.Time
	HourlyTemperatures []float64
	HourlyWindSpeeds   []float64
	HourlyHumidity     []float64
}

// Client abstracts the weather data source.
type Client interface {
	Fetch(ctx context.Context, lat, lon float64) (Snapshot, error)
}

// FetchError reports a failed query against the weather provider.
type FetchError struct {
	Status int // HTTP status code, 0 when the request never completed
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("weather fetch failed: %s (status %d)", e.Reason, e.Status)
	}
	return fmt.Sprintf("weather fetch failed: %s", e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
