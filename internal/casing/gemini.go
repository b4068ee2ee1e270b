package casing

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// DefaultGeminiModel is the model used for casing fixes.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiFixer rewrites captions and descriptions with Gemini, falling
// back to the heuristic fixer when a call fails so a batch run never
// stalls on the API.
type GeminiFixer struct {
	client   *genai.Client
	model    string
	fallback *HeuristicFixer
}

// NewGeminiFixer creates a Gemini-backed fixer.
func NewGeminiFixer(ctx context.Context, apiKey, model string) (*GeminiFixer, error) {
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiFixer{
		client:   client,
		model:    model,
		fallback: NewHeuristicFixer(),
	}, nil
}

// FixCaption rewrites a caption's casing via Gemini.
func (f *GeminiFixer) FixCaption(ctx context.Context, text string) (string, error) {
	return f.fix(ctx, "caption", text, f.fallback.FixCaption)
}

// FixDescription rewrites a description via Gemini and ensures it ends
// with a period.
func (f *GeminiFixer) FixDescription(ctx context.Context, text string) (string, error) {
	fixed, err := f.fix(ctx, "description", text, f.fallback.FixDescription)
	if err != nil {
		return "", err
	}
	return EnsurePeriod(fixed), nil
}

type fallbackFunc func(context.Context, string) (string, error)

func (f *GeminiFixer) fix(ctx context.Context, fieldType, text string, fallback fallbackFunc) (string, error) {
	prompt := fmt.Sprintf(
		"Fix the casing and grammar of the following %s text. "+
			"Return only the corrected text with no explanation.\n\nOriginal %s: %s",
		fieldType, fieldType, text)

	resp, err := f.client.Models.GenerateContent(ctx, f.model, genai.Text(prompt), nil)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("field", fieldType).
			Msg("Gemini call failed, using heuristic fixer")
		return fallback(ctx, text)
	}

	fixed := strings.TrimSpace(resp.Text())
	if fixed == "" {
		return fallback(ctx, text)
	}
	return fixed, nil
}
