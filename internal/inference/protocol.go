package inference

import (
	"encoding/json"
	"fmt"
)

// Protocol describes how a backend expects its request to be shaped.
type Protocol interface {
	Name() string
	Path() string
	Encode(req Request) ([]byte, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// OpenAIChat speaks the OpenAI-compatible chat completions API (vLLM, llama.cpp server, ...).
type OpenAIChat struct{}

func (OpenAIChat) Name() string { return "openai" }

func (OpenAIChat) Path() string { return "/v1/chat/completions" }

func (OpenAIChat) Encode(req Request) ([]byte, error) {
	return json.Marshal(chatRequest{
		Model:    req.Model,
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
		Stream:   req.Stream,
	})
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaGenerate speaks Ollama's native /api/generate endpoint.
type OllamaGenerate struct{}

func (OllamaGenerate) Name() string { return "ollama" }

func (OllamaGenerate) Path() string { return "/api/generate" }

func (OllamaGenerate) Encode(req Request) ([]byte, error) {
	return json.Marshal(generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: req.Stream,
	})
}

// ProtocolFor resolves a configured protocol name.
func ProtocolFor(name string) (Protocol, error) {
	switch name {
	case "", "openai", "vllm":
		return OpenAIChat{}, nil
	case "ollama":
		return OllamaGenerate{}, nil
	default:
		return nil, fmt.Errorf("unknown inference protocol %q", name)
	}
}
