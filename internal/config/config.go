package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	DefaultInferenceTimeout = 120.0 // seconds
	DefaultShutdownTimeout  = 10.0  // seconds
)

// Config holds runtime configuration read once at startup.
type Config struct {
	// Server
	Port            int     `env:"PORT" envDefault:"8000"`
	LogLevel        string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string  `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	TemplatePath    string  `env:"TEMPLATE_PATH" envDefault:"templates/index.html"`
	ShutdownTimeout float64 `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds

	// Inference backend. Endpoint and model may be empty; that is reported per
	// submission instead of failing startup.
	InferenceEndpoint string  `env:"INFERENCE_ENDPOINT"`
	InferenceModel    string  `env:"INFERENCE_MODEL"`
	InferenceTimeout  float64 `env:"INFERENCE_TIMEOUT" envDefault:"120"`       // seconds
	InferenceProtocol string  `env:"INFERENCE_PROTOCOL" envDefault:"openai"` // "openai", "vllm", "ollama" or "openai-sdk"
	APIKey            string  `env:"VLLM_API_KEY"`

	// Events
	EventsURL string `env:"EVENTS_URL"` // NATS URL; empty disables outcome events
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	// A field that failed to parse is left at zero; the upstream call must
	// always be bounded, so fall back to the documented defaults.
	if cfg.InferenceTimeout <= 0 {
		slog.Warn("invalid INFERENCE_TIMEOUT; using default", "seconds", DefaultInferenceTimeout)
		cfg.InferenceTimeout = DefaultInferenceTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg
}

// Timeout is the upstream request budget.
func (c Config) Timeout() time.Duration {
	if c.InferenceTimeout <= 0 {
		return seconds(DefaultInferenceTimeout)
	}
	return seconds(c.InferenceTimeout)
}

// GracePeriod is how long in-flight requests get on shutdown.
func (c Config) GracePeriod() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return seconds(DefaultShutdownTimeout)
	}
	return seconds(c.ShutdownTimeout)
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
