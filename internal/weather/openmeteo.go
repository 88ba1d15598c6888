package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the public Open-Meteo forecast endpoint. No API key required.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// hourlyWindow is how many hourly points a Snapshot carries.
const hourlyWindow = 24

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
)

// OpenMeteoClient implements Client against the Open-Meteo forecast API.
// Each fetch is a single attempt; a circuit breaker guards the upstream so a
// broken provider fails fast instead of tying up requests.
type OpenMeteoClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoClient creates a client. The HTTP client must carry an explicit
// timeout; baseURL may be empty to use the public endpoint.
func NewOpenMeteoClient(client *http.Client, baseURL string) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &OpenMeteoClient{
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// Fetch issues one GET for current conditions plus the hourly series and
// normalizes the payload into a Snapshot.
func (c *OpenMeteoClient) Fetch(ctx context.Context, lat, lon float64) (Snapshot, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current", "temperature_2m,wind_speed_10m")
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")
	values.Set("forecast_days", "2")

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Snapshot{}, &FetchError{Reason: "build request", Err: err}
	}

	var status int
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		status = resp.StatusCode
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, errServerError
			default:
				return nil, errUnexpected
			}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Snapshot{}, &FetchError{Reason: "open-meteo temporarily unavailable", Err: err}
		}
		return Snapshot{}, &FetchError{Status: status, Reason: err.Error(), Err: err}
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return Snapshot{}, &FetchError{Reason: "unexpected result type from circuit breaker"}
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
		Hourly struct {
			Time        []string  `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Snapshot{}, &FetchError{Status: status, Reason: "malformed payload", Err: err}
	}

	if len(payload.Hourly.Time) == 0 || len(payload.Hourly.Time) != len(payload.Hourly.Temperature) {
		return Snapshot{}, &FetchError{Status: status, Reason: "hourly series missing or inconsistent"}
	}

	n := len(payload.Hourly.Time)
	if n > hourlyWindow {
		n = hourlyWindow
	}

	times := make([]time.Time, 0, n)
	for _, s := range payload.Hourly.Time[:n] {
		ts, err := parseHourlyTime(s)
		if err != nil {
			return Snapshot{}, &FetchError{Status: status, Reason: "malformed hourly timestamp", Err: err}
		}
		times = append(times, ts)
	}

	snap := Snapshot{
		CurrentTemperature: payload.Current.Temperature,
		CurrentWindSpeed:   payload.Current.WindSpeed,
		HourlyTimes:        times,
		HourlyTemperatures: append([]float64(nil), payload.Hourly.Temperature[:n]...),
	}
	if len(payload.Hourly.WindSpeed) >= n {
		snap.HourlyWindSpeeds = append([]float64(nil), payload.Hourly.WindSpeed[:n]...)
	}
	if len(payload.Hourly.Humidity) >= n {
		snap.HourlyHumidity = append([]float64(nil), payload.Hourly.Humidity[:n]...)
	}
	return snap, nil
}

// parseHourlyTime accepts Open-Meteo's minute-resolution ISO timestamps,
// falling back to RFC3339 for responses that carry a timezone.
func parseHourlyTime(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}
