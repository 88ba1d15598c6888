package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/avaldemar/agente-meteo/internal/format"
	"github.com/avaldemar/agente-meteo/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	// CitiesCSVPath points at the worldcities-style dataset loaded at startup.
	CitiesCSVPath string `validate:"required"`

	// OpenMeteoBaseURL is the forecast endpoint; the public default needs no key.
	OpenMeteoBaseURL string `validate:"required,url"`

	// HTTPTimeout bounds each outbound weather request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// OpenAIAPIKey enables the agent endpoint when set; the direct tool
	// endpoint works without it.
	OpenAIAPIKey string
	OpenAIModel  string `validate:"required"`

	// Thresholds drive the summary wording.
	Thresholds format.Thresholds

	Port string `validate:"required"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.CitiesCSVPath = getenvDefault("CITIES_CSV_PATH", "data/worldcities.csv")
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", weather.DefaultBaseURL)

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")

	th := format.DefaultThresholds()
	th.TempCoolMax = getenvFloat("TEMP_COOL_MAX", th.TempCoolMax)
	th.TempWarmMax = getenvFloat("TEMP_WARM_MAX", th.TempWarmMax)
	th.WindCalmMax = getenvFloat("WIND_CALM_MAX", th.WindCalmMax)
	th.WindStrongMin = getenvFloat("WIND_STRONG_MIN", th.WindStrongMin)
	th.TrendTolerance = getenvFloat("TREND_TOLERANCE", th.TrendTolerance)
	th.HeatAdvisoryMin = getenvFloat("HEAT_ADVISORY_MIN", th.HeatAdvisoryMin)
	th.ColdAdvisoryMax = getenvFloat("COLD_ADVISORY_MAX", th.ColdAdvisoryMax)
	cfg.Thresholds = th

	if th.TempCoolMax > th.TempWarmMax {
		return nil, fmt.Errorf("TEMP_COOL_MAX must not exceed TEMP_WARM_MAX")
	}
	if th.WindCalmMax > th.WindStrongMin {
		return nil, fmt.Errorf("WIND_CALM_MAX must not exceed WIND_STRONG_MIN")
	}

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
