// Package recaption expands short world prompts into richer scene
// descriptions with Gemini, mirroring the recaptioning the service does
// server-side. Generation requests built from its output set
// disable_recaption so the work is not done twice.
package recaption

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"marble-sdk/api/internal/util"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string { return "gemini" }

// Enabled reports whether the engine is configured.
func (e *Engine) Enabled() bool { return e != nil && e.APIKey != "" }

const system = `You expand short prompts for a 3D world generator.
Rewrite the user's prompt into one paragraph describing a single coherent scene:
setting, architecture or terrain, materials, lighting, mood, and a consistent art style.
Keep every detail the user gave. Do not add people or cameras. Do not explain.
Return only the rewritten prompt text.`

// Rewrite returns a richer version of prompt. On any failure the caller
// should fall back to the original prompt.
func (e *Engine) Rewrite(ctx context.Context, prompt string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0.7),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	out := firstText(resp)
	if out == "" {
		return "", errors.New("gemini: empty response")
	}
	return out, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				if s := util.StripCodeFences(string(t)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
