package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"seed-app/internal/bridge"
	"seed-app/internal/config"
	"seed-app/internal/events"
	"seed-app/internal/inference"
	"seed-app/internal/logger"
	"seed-app/internal/page"
	"seed-app/internal/state"
)

// Deps bundles the runtime dependencies of the service.
type Deps struct {
	Config       config.Config
	Log          *slog.Logger
	State        *state.Holder
	Renderer     *page.Renderer
	Events       events.Publisher
	Orchestrator *bridge.Orchestrator
}

// Build loads an optional .env file, the environment configuration, and wires
// shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	return Assemble(cfg, logger.New(cfg.LogLevel, cfg.LogFormat))
}

// Assemble wires components from an already loaded configuration.
func Assemble(cfg config.Config, log *slog.Logger) (Deps, error) {
	sender, err := buildSender(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize inference client: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	if cfg.InferenceEndpoint == "" || cfg.InferenceModel == "" {
		log.Warn("INFERENCE_ENDPOINT or INFERENCE_MODEL is not set; submissions will report a configuration error")
	}

	holder := state.New()
	orch := bridge.New(settings(cfg), sender, holder, pub, log)
	return Deps{
		Config:       cfg,
		Log:          log,
		State:        holder,
		Renderer:     page.NewRenderer(cfg.TemplatePath, log),
		Events:       pub,
		Orchestrator: orch,
	}, nil
}

// Close releases connections held by the dependencies.
func (d Deps) Close() error {
	if d.Events == nil {
		return nil
	}
	return d.Events.Close()
}

func settings(cfg config.Config) inference.Settings {
	return inference.Settings{
		BaseURL:  cfg.InferenceEndpoint,
		Model:    cfg.InferenceModel,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout(),
		Protocol: cfg.InferenceProtocol,
	}
}

func buildSender(cfg config.Config, log *slog.Logger) (inference.Sender, error) {
	hc := &http.Client{}
	switch cfg.InferenceProtocol {
	case "openai-sdk":
		log.Info("using OpenAI SDK inference client", "endpoint", cfg.InferenceEndpoint, "model", cfg.InferenceModel)
		return inference.NewSDKClient(cfg.InferenceEndpoint, hc), nil
	default:
		p, err := inference.ProtocolFor(cfg.InferenceProtocol)
		if err != nil {
			return nil, fmt.Errorf("invalid INFERENCE_PROTOCOL: %s (valid options: openai, vllm, ollama, openai-sdk)", cfg.InferenceProtocol)
		}
		client := inference.NewHTTPClient(cfg.InferenceEndpoint, p, hc)
		log.Info("using HTTP inference client", "protocol", p.Name(), "url", client.URL(), "model", cfg.InferenceModel)
		return client, nil
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	if cfg.EventsURL == "" {
		return events.NewNoOp(), nil
	}
	pub, err := events.Connect(log, cfg.EventsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("publishing outcomes to NATS", "subject", events.Subject)
	return pub, nil
}
