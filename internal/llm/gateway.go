package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/models"
)

const (
	// ContinueFallback is the reply used when the service could not be reached
	ContinueFallback = "I'm having a little trouble connecting to my thoughts right now. But I'm listening! 💭"
	// EmptyReplyFallback is the reply used when the service answered with nothing
	EmptyReplyFallback = "I'm listening... 💭"

	summaryFallbackRunes = 50
	ellipsis             = "..."
)

const (
	opContinue  = "continue"
	opClassify  = "classify_mood"
	opSummarize = "summarize"
)

// Gateway is the single seam to the generative-language service.
// Every operation returns a usable value; remote failures are logged,
// counted and replaced by a local fallback. Each call makes one attempt.
type Gateway struct {
	backend Backend
	logger  *zap.Logger
	metrics *Metrics
}

// NewGateway creates a gateway. A nil backend puts every call on the fallback path.
func NewGateway(backend Backend, logger *zap.Logger, metrics *Metrics) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// BackendName names the configured backend, or "none"
func (g *Gateway) BackendName() string {
	if g.backend == nil {
		return "none"
	}
	return g.backend.Name()
}

// Continue returns the assistant's reply to message given the prior history
func (g *Gateway) Continue(ctx context.Context, history []Message, message string) string {
	if g.backend == nil {
		g.fail(opContinue, ErrNoBackend)
		return ContinueFallback
	}

	reply, err := g.backend.Chat(ctx, SystemInstruction, history, message)
	if err != nil {
		g.fail(opContinue, err)
		return ContinueFallback
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		g.fail(opContinue, ErrEmptyResponse)
		return EmptyReplyFallback
	}

	g.metrics.observe(opContinue, outcomeOK)
	return reply
}

// ClassifyMood asks the model for a single mood word. Anything outside the
// mood set, and any failure, yields neutral.
func (g *Gateway) ClassifyMood(ctx context.Context, text string) models.Mood {
	if g.backend == nil {
		g.fail(opClassify, ErrNoBackend)
		return models.MoodNeutral
	}

	reply, err := g.backend.Generate(ctx, moodPrompt(text))
	if err != nil {
		g.fail(opClassify, err)
		return models.MoodNeutral
	}

	mood, ok := models.ParseMood(reply)
	if !ok {
		g.logger.Debug("model returned unknown mood",
			zap.String("backend", g.backend.Name()),
			zap.String("reply", reply),
		)
		g.metrics.observe(opClassify, outcomeFallback)
		return models.MoodNeutral
	}

	g.metrics.observe(opClassify, outcomeOK)
	return mood
}

// Summarize asks the model for a one-sentence summary of text
func (g *Gateway) Summarize(ctx context.Context, text string) string {
	if g.backend == nil {
		g.fail(opSummarize, ErrNoBackend)
		return FallbackSummary(text)
	}

	reply, err := g.backend.Generate(ctx, summaryPrompt(text))
	if err != nil {
		g.fail(opSummarize, err)
		return FallbackSummary(text)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		g.fail(opSummarize, ErrEmptyResponse)
		return FallbackSummary(text)
	}

	g.metrics.observe(opSummarize, outcomeOK)
	return reply
}

// Health probes the backend when it supports it
func (g *Gateway) Health(ctx context.Context) error {
	if g.backend == nil {
		return ErrNoBackend
	}
	if hc, ok := g.backend.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// FallbackSummary is the first 50 characters of text followed by an ellipsis
func FallbackSummary(text string) string {
	runes := []rune(text)
	if len(runes) > summaryFallbackRunes {
		runes = runes[:summaryFallbackRunes]
	}
	return string(runes) + ellipsis
}

func (g *Gateway) fail(op string, err error) {
	g.logger.Warn("model gateway call failed, using fallback",
		zap.String("operation", op),
		zap.String("backend", g.BackendName()),
		zap.Error(err),
	)
	g.metrics.observe(op, outcomeFallback)
}
