// Package analysis is a thin client for a cloud text-generation model.
// Every call resolves to display text; failures never reach the caller as
// errors, only as an Outcome and a fixed message.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nixlim/sentinel-shield/internal/metrics"
)

// Fixed replies returned instead of model output.
const (
	MsgKeyMissing = "API Key missing. Cannot perform AI analysis."
	MsgNoAnalysis = "No analysis generated."
	MsgFailed     = "فشل التحليل الذكي. يرجى التحقق من الاتصال."

	MsgInsightOffline = "AI Offline"
	MsgNoInsight      = "No insights found."
	MsgInsightFailed  = "Error analyzing behavior."
)

const (
	// DefaultModel is the model identifier sent with every request.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTemperature keeps threat reports terse and repeatable.
	DefaultTemperature float32 = 0.2
)

// Outcome classifies how a request resolved.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeKeyMissing
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeKeyMissing:
		return "key_missing"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the tagged reply of a request.
type Result struct {
	Outcome Outcome
	Text    string
}

// Request is one call to the generation endpoint.
type Request struct {
	Model       string
	Prompt      string
	Temperature *float32 // nil uses the endpoint default
}

// Generator sends a prompt to a text-generation endpoint.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var errNoGenerator = errors.New("no generator configured")

// Client formats prompts and maps endpoint replies onto fixed messages.
type Client struct {
	apiKey      string
	gen         Generator
	model       string
	temperature float32
	logger      Logger
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature overrides the sampling temperature of threat analysis.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = t }
}

// WithLogger sets the diagnostic sink.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client. An empty apiKey is valid: every call then
// short-circuits to the offline message without touching gen.
func NewClient(apiKey string, gen Generator, opts ...Option) *Client {
	c := &Client{
		apiKey:      strings.TrimSpace(apiKey),
		gen:         gen,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		logger:      NopLogger{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasKey reports whether a credential is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Model returns the model identifier in use.
func (c *Client) Model() string {
	return c.model
}

// Analyze returns a threat report for a subject description (the scan
// context) and a data trace.
func (c *Client) Analyze(ctx context.Context, subject, trace string) string {
	return c.AnalyzeResult(ctx, subject, trace).Text
}

// AnalyzeResult is Analyze with the outcome attached.
func (c *Client) AnalyzeResult(ctx context.Context, subject, trace string) Result {
	temp := c.temperature
	return c.run(ctx, kindThreat, Request{
		Model:       c.model,
		Prompt:      ThreatPrompt(subject, trace),
		Temperature: &temp,
	}, replies{
		keyMissing: MsgKeyMissing,
		empty:      MsgNoAnalysis,
		failed:     MsgFailed,
	})
}

// BehavioralInsight looks for suspicious patterns in log lines.
func (c *Client) BehavioralInsight(ctx context.Context, logs []string) string {
	return c.InsightResult(ctx, logs).Text
}

// InsightResult is BehavioralInsight with the outcome attached.
func (c *Client) InsightResult(ctx context.Context, logs []string) Result {
	return c.run(ctx, kindInsight, Request{
		Model:  c.model,
		Prompt: InsightPrompt(logs),
	}, replies{
		keyMissing: MsgInsightOffline,
		empty:      MsgNoInsight,
		failed:     MsgInsightFailed,
	})
}

const (
	kindThreat  = "threat"
	kindInsight = "insight"
)

type replies struct {
	keyMissing string
	empty      string
	failed     string
}

func (c *Client) run(ctx context.Context, kind string, req Request, r replies) Result {
	if !c.HasKey() {
		metrics.AnalysisRequestsTotal.WithLabelValues(kind, OutcomeKeyMissing.String()).Inc()
		return Result{Outcome: OutcomeKeyMissing, Text: r.keyMissing}
	}

	start := c.now()
	var (
		text string
		err  error
	)
	if c.gen == nil {
		err = errNoGenerator
	} else {
		text, err = c.gen.Generate(ctx, req)
	}
	elapsed := c.now().Sub(start)
	metrics.AnalysisDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	res := Result{Outcome: OutcomeOK, Text: text}
	switch {
	case err != nil:
		res = Result{Outcome: OutcomeFailed, Text: r.failed}
	case strings.TrimSpace(text) == "":
		res = Result{Outcome: OutcomeEmpty, Text: r.empty}
	}

	c.logger.LogAnalysis(Entry{
		ID:        uuid.NewString(),
		Timestamp: start,
		Kind:      kind,
		Model:     req.Model,
		Outcome:   res.Outcome,
		Duration:  elapsed,
		Err:       err,
	})
	metrics.AnalysisRequestsTotal.WithLabelValues(kind, res.Outcome.String()).Inc()
	return res
}
