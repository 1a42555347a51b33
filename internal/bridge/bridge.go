package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"seed-app/internal/events"
	"seed-app/internal/inference"
	"seed-app/internal/metrics"
)

// OutcomeSuccess labels submissions that produced an answer.
const OutcomeSuccess = "success"

// Display receives the human-readable result of each submission.
type Display interface {
	Set(text string)
}

// Redirect tells the HTTP layer where to send the browser after a submission.
type Redirect struct {
	Location string
	Status   int
}

// Home is the only redirect Handle ever returns.
var Home = Redirect{Location: "/", Status: http.StatusSeeOther}

// Orchestrator turns a prompt into display text: validate configuration, call
// the backend once, normalize the reply, store the result.
type Orchestrator struct {
	settings inference.Settings
	sender   inference.Sender
	display  Display
	events   events.Publisher
	log      *slog.Logger
}

// New builds an orchestrator. A nil publisher disables outcome events.
func New(settings inference.Settings, sender inference.Sender, display Display, pub events.Publisher, log *slog.Logger) *Orchestrator {
	if pub == nil {
		pub = events.NewNoOp()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		settings: settings,
		sender:   sender,
		display:  display,
		events:   pub,
		log:      log,
	}
}

// Handle processes one submission. Every failure ends up as display text and
// the result is always Home.
func (o *Orchestrator) Handle(ctx context.Context, prompt string) Redirect {
	id := uuid.New()
	start := time.Now()

	text, outcome := o.answer(ctx, prompt)
	o.display.Set(text)

	elapsed := time.Since(start)
	metrics.ObserveSubmission(outcome)
	o.log.Info("prompt handled",
		"submission_id", id,
		"outcome", outcome,
		"protocol", o.settings.Protocol,
		"prompt_chars", len([]rune(prompt)),
		"duration_ms", elapsed.Milliseconds(),
	)

	if err := o.events.Publish(ctx, events.Outcome{
		ID:          id,
		Kind:        outcome,
		Protocol:    o.settings.Protocol,
		PromptChars: len([]rune(prompt)),
		DurationMS:  elapsed.Milliseconds(),
		At:          start.UTC(),
	}); err != nil {
		o.log.Warn("failed to publish outcome", "submission_id", id, "err", err)
	}
	return Home
}

func (o *Orchestrator) answer(ctx context.Context, prompt string) (text, outcome string) {
	defer func() {
		if rec := recover(); rec != nil {
			o.log.Error("panic while handling prompt", "panic", rec)
			text, outcome = Message(&inference.Failure{Kind: inference.KindUpstream, Detail: fmt.Sprint(rec)}), string(inference.KindUpstream)
		}
	}()

	if err := o.settings.Validate(); err != nil {
		return Message(err), string(inference.KindOf(err))
	}
	if o.sender == nil {
		err := &inference.Failure{Kind: inference.KindConfig, Detail: "no inference backend configured"}
		return Message(err), string(err.Kind)
	}

	req := inference.NewRequest(prompt, o.settings)
	sent := time.Now()
	raw, err := o.sender.Send(ctx, req, o.settings.Timeout)
	metrics.ObserveUpstream(o.settings.Protocol, time.Since(sent))
	if err != nil {
		return Message(err), string(inference.KindOf(err))
	}

	content, err := inference.Normalize(raw)
	if err != nil {
		return Message(err), string(inference.KindOf(err))
	}
	return Success(prompt, content), OutcomeSuccess
}

// Success formats a prompt and its answer for display.
func Success(prompt, answer string) string {
	return fmt.Sprintf("Prompt: '%s'\n\nResponse:\n%s", prompt, answer)
}

// Message converts a failure into the text shown to the user.
func Message(err error) string {
	detail := err.Error()
	var f *inference.Failure
	if errors.As(err, &f) {
		detail = f.Detail
	}
	switch inference.KindOf(err) {
	case inference.KindConfig:
		return "configuration error: " + detail
	case inference.KindTimeout:
		return "Error: request timed out"
	case inference.KindSchema:
		return "Error: unexpected response schema: " + detail
	default:
		return "Error talking to backend: " + detail
	}
}
