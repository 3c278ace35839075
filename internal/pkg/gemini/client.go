// Package gemini is the boundary to the generative text and vision service.
// Calls are retried on rate limits only and every failure is classified into
// an apperrors.ExternalError.
package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// Fixed replies used instead of an error where the caller only shows text.
const (
	UnconfiguredAdvice  = "Please configure your API key to receive AI advice."
	UnconfiguredSummary = "AI services unavailable (missing API key)."
	FallbackAdvice      = "Could not generate advice at this time."
	FallbackSummary     = "Journey analysis complete. Student maintains satisfactory progress towards graduation."
)

// ErrNotConfigured is returned by structured calls when no API key is set.
var ErrNotConfigured = errors.New("generative service is not configured")

// Generator is the part of the genai client this package uses.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the client
type Config struct {
	APIKey            string
	Model             string
	VisionModel       string
	MaxRetries        int
	RateLimitCooldown time.Duration
	// BaseDelay is the first retry delay; each further retry doubles it.
	BaseDelay time.Duration
	// TotalRequiredECTS is quoted in prompts.
	TotalRequiredECTS int
	// CallTimeout bounds a shared text generation, retries included.
	CallTimeout time.Duration
}

// Defaults
const (
	DefaultBaseDelay   = 2 * time.Second
	DefaultCallTimeout = 2 * time.Minute
)

// Client talks to the generative service
type Client struct {
	gen    Generator
	cfg    Config
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	group  singleflight.Group
}

// New creates a client. Without an API key the client is unconfigured:
// advice calls return fixed hints and structured calls fail.
func New(ctx context.Context, cfg Config, lgr zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		lgr.Warn().Msg("Gemini API key not set, advisor disabled")
		return NewWithGenerator(nil, cfg, lgr), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewWithGenerator(client.Models, cfg, lgr), nil
}

// NewWithGenerator creates a client over an existing generator. A nil
// generator yields an unconfigured client.
func NewWithGenerator(gen Generator, cfg Config, lgr zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.RateLimitCooldown <= 0 {
		cfg.RateLimitCooldown = apperrors.DefaultRetryAfter
	}
	if cfg.TotalRequiredECTS <= 0 {
		cfg.TotalRequiredECTS = 120
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Client{
		gen:    gen,
		cfg:    cfg,
		logger: lgr,
		sleep:  sleepContext,
	}
}

// Configured reports whether an API key was provided.
func (c *Client) Configured() bool {
	return c.gen != nil
}

// Advice asks for a short next-steps recommendation for the given record.
func (c *Client) Advice(ctx context.Context, courses []models.Course, areas []models.Area) (string, error) {
	if !c.Configured() {
		return UnconfiguredAdvice, nil
	}
	prompt := advisorPrompt(courses, areas, c.cfg.TotalRequiredECTS)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromText("Analyze my progress.", genai.RoleUser)}

	text, err := c.text(ctx, callKey("advice", prompt), c.cfg.Model, contents, cfg)
	if err != nil {
		return "", err
	}
	if text == "" {
		return FallbackAdvice, nil
	}
	return text, nil
}

// ReportSummary asks for a short formal summary for the exported report.
func (c *Client) ReportSummary(ctx context.Context, courses []models.Course, areas []models.Area) (string, error) {
	if !c.Configured() {
		return UnconfiguredSummary, nil
	}
	temperature := float32(0.8)
	prompt, err := summaryPrompt(courses, areas, c.cfg.TotalRequiredECTS)
	if err != nil {
		return "", err
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(summarySystem, genai.RoleUser),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	text, err := c.text(ctx, callKey("summary", prompt), c.cfg.Model, contents, cfg)
	if err != nil {
		return "", err
	}
	if text == "" {
		return FallbackSummary, nil
	}
	return text, nil
}

// ParseTranscript extracts course rows from a transcript image. Rows with a
// grade become Passed, the rest Planned.
func (c *Client) ParseTranscript(ctx context.Context, image []byte, mimeType string) ([]models.PartialCourse, error) {
	if !c.Configured() {
		return nil, apperrors.NewExternalError(apperrors.KindGeneric, ErrNotConfigured)
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   transcriptSchema,
	}
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(transcriptPrompt),
	}, genai.RoleUser)}

	text, err := c.text(ctx, "", c.cfg.VisionModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	return decodeTranscript(text)
}

// InferCurriculum extracts a module-area structure from a curriculum
// document (image or PDF).
func (c *Client) InferCurriculum(ctx context.Context, doc []byte, mimeType string) ([]models.Area, error) {
	if !c.Configured() {
		return nil, apperrors.NewExternalError(apperrors.KindGeneric, ErrNotConfigured)
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   curriculumSchema,
	}
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(doc, mimeType),
		genai.NewPartFromText(curriculumPrompt),
	}, genai.RoleUser)}

	text, err := c.text(ctx, "", c.cfg.VisionModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	return decodeCurriculum(text)
}

// text runs one generation and returns its text. Calls with the same
// non-empty key that overlap share one request. The shared request does not
// follow any single caller's cancellation; each caller stops waiting when its
// own context ends.
func (c *Client) text(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	call := func(ctx context.Context) (any, error) {
		resp, err := c.generate(ctx, model, contents, cfg)
		if err != nil {
			return "", err
		}
		if blocked(resp) {
			return "", apperrors.NewExternalError(apperrors.KindSafety, errors.New("response blocked by safety filters"))
		}
		return stripFence(resp.Text()), nil
	}
	if key == "" {
		v, err := call(ctx)
		return v.(string), err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.CallTimeout)
		defer cancel()
		return call(shared)
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Str("call", key).Msg("Joined in-flight generation")
		}
		return res.Val.(string), res.Err
	case <-ctx.Done():
		return "", apperrors.NewExternalError(apperrors.KindGeneric, ctx.Err())
	}
}

// callKey identifies a text call by kind and prompt, so only requests built
// from the same record are shared.
func callKey(kind, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return kind + ":" + hex.EncodeToString(sum[:8])
}

// generate calls the model, retrying rate limits with exponential backoff.
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.gen.GenerateContent(ctx, model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = c.classify(err)
		if !errors.Is(lastErr, apperrors.ErrRateLimited) || attempt == c.cfg.MaxRetries {
			break
		}

		delay := c.cfg.BaseDelay << attempt
		c.logger.Warn().
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", c.cfg.MaxRetries).
			Msg("Gemini rate limit hit, retrying")
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	c.logger.Error().Err(lastErr).Str("model", model).Msg("Gemini request failed")
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
