package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	"unicode/utf8"
)

// DefaultTimeout applies when a caller passes a non-positive timeout.
const DefaultTimeout = 120 * time.Second

// MaxSnippet bounds diagnostic snippets of upstream bodies carried in failures.
const MaxSnippet = 500

// Kind classifies why an inference round trip did not produce an answer.
type Kind string

const (
	KindConfig   Kind = "config_error"
	KindTimeout  Kind = "timeout"
	KindUpstream Kind = "upstream_error"
	KindSchema   Kind = "schema_error"
)

// Failure is the error type returned by senders and the normalizer.
type Failure struct {
	Kind   Kind
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf classifies err. Errors that are not a *Failure are treated as upstream
// errors unless they are timeouts.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if isTimeout(err) {
		return KindTimeout
	}
	return KindUpstream
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Request is one upstream inference call. It is built per submission and not
// modified afterwards.
type Request struct {
	Model   string
	Prompt  string
	Stream  bool
	Headers map[string]string
}

// RawResponse is a 2xx upstream reply before normalization.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Settings is the connection configuration used to build requests.
type Settings struct {
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
	Protocol string
}

// Validate reports a KindConfig failure when the endpoint or model is unset.
func (s Settings) Validate() error {
	if s.BaseURL == "" || s.Model == "" {
		return &Failure{Kind: KindConfig, Detail: "INFERENCE_ENDPOINT or INFERENCE_MODEL is not configured"}
	}
	return nil
}

// NewRequest builds the upstream request for prompt.
func NewRequest(prompt string, s Settings) Request {
	headers := map[string]string{"Content-Type": "application/json"}
	if s.APIKey != "" {
		headers["Authorization"] = "Bearer " + s.APIKey
	}
	return Request{
		Model:   s.Model,
		Prompt:  prompt,
		Stream:  false,
		Headers: headers,
	}
}

// Sender performs exactly one upstream call per invocation.
type Sender interface {
	Send(ctx context.Context, req Request, timeout time.Duration) (RawResponse, error)
}

// withBudget bounds ctx by timeout, or by DefaultTimeout when timeout is not positive.
func withBudget(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Truncate limits s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
