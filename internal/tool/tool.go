package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/avaldemar/agente-meteo/internal/cities"
	"github.com/avaldemar/agente-meteo/internal/format"
	"github.com/avaldemar/agente-meteo/internal/trace"
	"github.com/avaldemar/agente-meteo/internal/weather"
)

// WeatherTool is the single entry point an external agent invokes: it
// resolves a city name to coordinates, fetches the weather and renders the
// Spanish summary.
//
// A city that is not in the dataset and an upstream fetch failure are the two
// failure kinds translated into user-facing apologies; anything else is a
// programming error and propagates to the caller.
type WeatherTool struct {
	index     *cities.Index
	client    weather.Client
	formatter *format.Formatter
	hooks     trace.Hooks
}

func New(index *cities.Index, client weather.Client, formatter *format.Formatter, hooks ...trace.Hook) *WeatherTool {
	return &WeatherTool{
		index:     index,
		client:    client,
		formatter: formatter,
		hooks:     trace.Hooks(hooks),
	}
}

func (t *WeatherTool) Name() string {
	return "get_weather"
}

func (t *WeatherTool) Description() string {
	return "Obtiene el tiempo actual y un resumen de las próximas 24 horas para una ciudad dada por su nombre."
}

// Parameters returns the JSON schema of the tool arguments.
func (t *WeatherTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{
				"type":        "string",
				"description": "Nombre de la ciudad, por ejemplo 'Madrid'",
			},
		},
		"required": []string{"city"},
	}
}

// Execute is the LLM-facing entry point: args is the raw JSON argument
// payload produced by the model.
func (t *WeatherTool) Execute(ctx context.Context, args string) (string, error) {
	city := gjson.Get(args, "city").String()
	if city == "" {
		return "", errors.New("city argument is required")
	}
	return t.Run(ctx, city)
}

// Run executes the lookup+fetch+format pipeline for a city name and notifies
// the trace hooks. The returned string is always user-facing text: on the two
// expected failure kinds it is an apology in the same language.
func (t *WeatherTool) Run(ctx context.Context, city string) (string, error) {
	started := time.Now()
	out, err := t.answer(ctx, city)

	final := out
	var resultErr error
	switch {
	case err == nil:
	case isNotFound(err):
		final = fmt.Sprintf("Lo siento, no encuentro la ciudad %q en mi listado. Revisa el nombre o prueba con otra ciudad cercana.", city)
	case isFetchError(err):
		final = fmt.Sprintf("Lo siento, ahora mismo no puedo consultar el tiempo en %s. Inténtalo de nuevo en unos minutos.", city)
	default:
		final = ""
		resultErr = err
	}

	rec := trace.Record{
		RunID:     uuid.NewString(),
		Tool:      t.Name(),
		Input:     city,
		Output:    final,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	t.hooks.Observe(rec)

	return final, resultErr
}

func (t *WeatherTool) answer(ctx context.Context, city string) (string, error) {
	record, err := t.index.Resolve(city)
	if err != nil {
		return "", err
	}

	snap, err := t.client.Fetch(ctx, record.Latitude, record.Longitude)
	if err != nil {
		return "", err
	}

	return t.formatter.Format(record.Name, snap), nil
}

func isNotFound(err error) bool {
	var notFound *cities.NotFoundError
	return errors.As(err, &notFound)
}

func isFetchError(err error) bool {
	var fetchErr *weather.FetchError
	return errors.As(err, &fetchErr)
}
