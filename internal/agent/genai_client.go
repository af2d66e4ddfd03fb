package agent

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"google.golang.org/genai"
)

const generateContentAction = "generateContent"

// ModelInfo describes a Gemini model usable for chat
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

// ListModels returns the models that support content generation
func ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return collectChatModels(client.Models.All(ctx))
}

func collectChatModels(models iter.Seq2[*genai.Model, error]) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range models {
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		if !slices.Contains(m.SupportedActions, generateContentAction) {
			continue
		}
		out = append(out, ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Description: m.Description,
		})
	}
	return out, nil
}
