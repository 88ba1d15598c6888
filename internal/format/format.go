package format

import (
	"fmt"
	"strings"

	"github.com/avaldemar/agente-meteo/internal/weather"
)

// Thresholds are the fixed bands the formatter uses to choose its wording.
// Temperatures in °C, wind speeds in km/h.
type Thresholds struct {
	// TempCoolMax: below this it is "hace fresco"; above TempWarmMax it is
	// "hace calor"; in between, "temperatura agradable".
	TempCoolMax float64
	TempWarmMax float64

	// WindCalmMax: below this the wind is "suave"; at or above WindStrongMin
	// it is "fuerte"; in between, "notable".
	WindCalmMax   float64
	WindStrongMin float64

	// TrendTolerance is the half-band (in °C) within which the difference
	// between the first-half and second-half hourly averages counts as stable.
	TrendTolerance float64

	// Advisory cutoffs over the hourly extremes.
	HeatAdvisoryMin float64
	ColdAdvisoryMax float64
}

// DefaultThresholds returns the documented default bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempCoolMax:     10,
		TempWarmMax:     22,
		WindCalmMax:     10,
		WindStrongMin:   30,
		TrendTolerance:  1.0,
		HeatAdvisoryMin: 30,
		ColdAdvisoryMax: 5,
	}
}

// Formatter renders a weather snapshot as a short Spanish summary.
// Format is a pure function of its inputs.
type Formatter struct {
	thresholds Thresholds
}

func New(thresholds Thresholds) *Formatter {
	return &Formatter{thresholds: thresholds}
}

// Format composes the two-part summary: current conditions plus a next-24h
// outlook (range, trend and advisories). It never itemizes individual hours.
func (f *Formatter) Format(city string, snap weather.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "En %s la temperatura actual es de %.1f °C con viento de %.1f km/h: %s y %s.",
		city, snap.CurrentTemperature, snap.CurrentWindSpeed,
		f.tempPhrase(snap.CurrentTemperature), f.windPhrase(snap.CurrentWindSpeed))

	if len(snap.HourlyTemperatures) > 0 {
		lo, hi := minMax(snap.HourlyTemperatures)
		fmt.Fprintf(&b, " En las próximas 24 horas se esperan mínimas de %.1f °C y máximas de %.1f °C, con la temperatura %s.",
			lo, hi, f.trendPhrase(snap.HourlyTemperatures))

		for _, advisory := range f.advisories(snap) {
			b.WriteString(" ")
			b.WriteString(advisory)
		}
	}

	return b.String()
}

func (f *Formatter) tempPhrase(temp float64) string {
	switch {
	case temp < f.thresholds.TempCoolMax:
		return "hace fresco"
	case temp > f.thresholds.TempWarmMax:
		return "hace calor"
	default:
		return "temperatura agradable"
	}
}

func (f *Formatter) windPhrase(speed float64) string {
	switch {
	case speed < f.thresholds.WindCalmMax:
		return "viento suave"
	case speed >= f.thresholds.WindStrongMin:
		return "viento fuerte"
	default:
		return "viento notable"
	}
}

// trendPhrase compares the first-half hourly average against the second half.
// Differences within TrendTolerance count as stable.
func (f *Formatter) trendPhrase(temps []float64) string {
	half := len(temps) / 2
	if half == 0 {
		return "estable"
	}
	first := average(temps[:half])
	second := average(temps[half:])
	switch {
	case second-first > f.thresholds.TrendTolerance:
		return "subiendo"
	case first-second > f.thresholds.TrendTolerance:
		return "bajando"
	default:
		return "estable"
	}
}

func (f *Formatter) advisories(snap weather.Snapshot) []string {
	var out []string

	lo, hi := minMax(snap.HourlyTemperatures)
	if hi >= f.thresholds.HeatAdvisoryMin {
		out = append(out, "Ojo: habrá horas de bastante calor.")
	}
	if lo <= f.thresholds.ColdAdvisoryMax {
		out = append(out, "Abrígate si sales: habrá horas de bastante frío.")
	}

	if len(snap.HourlyWindSpeeds) > 0 {
		if _, peak := minMax(snap.HourlyWindSpeeds); peak >= f.thresholds.WindStrongMin {
			out = append(out, "Se esperan rachas de viento fuertes.")
		}
	}

	return out
}

func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
