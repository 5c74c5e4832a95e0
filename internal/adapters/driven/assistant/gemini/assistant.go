package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driven.Assistant = (*Assistant)(nil)

const (
	// DefaultEndpoint is the public Gemini API root.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/"

	// DefaultTimeout bounds a single generation. Long recipe answers
	// can take tens of seconds.
	DefaultTimeout = 60 * time.Second

	apiKeyHeader = "x-goog-api-key"
)

// Config configures the assistant client.
type Config struct {
	// Model is the model name without the "models/" prefix.
	Model string

	// Endpoint overrides DefaultEndpoint.
	Endpoint string

	// KeySource returns the current API key. It is read on every call so
	// that a key changed in the config file applies without a restart.
	KeySource func() string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Assistant sends chat turns to Gemini.
type Assistant struct {
	svc       *generativelanguage.Service
	model     string
	keySource func() string
}

// New creates a Gemini assistant.
func New(ctx context.Context, cfg Config) (*Assistant, error) {
	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = domain.DefaultAssistantModel
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	keySource := cfg.KeySource
	if keySource == nil {
		keySource = func() string { return "" }
	}

	// The key travels as a request header, so a caller-supplied client
	// does not bypass authentication.
	svc, err := generativelanguage.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("creating generative language service: %w", err)
	}

	return &Assistant{
		svc:       svc,
		model:     model,
		keySource: keySource,
	}, nil
}

// ModelName returns the model being used.
func (a *Assistant) ModelName() string {
	return a.model
}

// Generate sends the turns with the system instruction and returns the
// text of the first candidate.
func (a *Assistant) Generate(ctx context.Context, systemInstruction string, turns []domain.ChatTurn) (string, error) {
	key := strings.TrimSpace(a.keySource())
	if key == "" {
		return "", domain.ErrMissingCredential
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: no turns to send", domain.ErrInvalidInput)
	}

	req := buildRequest(systemInstruction, turns)

	logger.Debug("assistant: sending %d turn(s) to %s", len(turns), a.model)
	call := a.svc.Models.GenerateContent("models/"+a.model, req).Context(ctx)
	call.Header().Set(apiKeyHeader, key)

	resp, err := call.Do()
	if err != nil {
		logger.Warn("assistant: request failed: %v", err)
		return "", classify(err)
	}

	return replyText(resp)
}

// buildRequest maps chat turns onto the wire request.
func buildRequest(systemInstruction string, turns []domain.ChatTurn) *generativelanguage.GenerateContentRequest {
	contents := make([]*generativelanguage.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, &generativelanguage.Content{
			Role:  string(t.Role),
			Parts: []*generativelanguage.Part{{Text: t.Text}},
		})
	}

	req := &generativelanguage.GenerateContentRequest{Contents: contents}
	if systemInstruction != "" {
		req.SystemInstruction = &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: systemInstruction}},
		}
	}
	return req
}

// replyText extracts the first candidate's text.
func replyText(resp *generativelanguage.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", domain.ErrAssistantUnavailable, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: response had no candidates", domain.ErrMalformedResponse)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		if cand.FinishReason != "" && cand.FinishReason != "STOP" {
			return "", fmt.Errorf("%w: generation stopped (%s)", domain.ErrAssistantUnavailable, cand.FinishReason)
		}
		return "", fmt.Errorf("%w: candidate had no content", domain.ErrMalformedResponse)
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil {
			continue
		}
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: candidate text was empty", domain.ErrMalformedResponse)
	}
	return text, nil
}
