package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini is a Model backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini model. An empty baseURL means the public
// endpoint.
func NewGemini(ctx context.Context, apiKey, modelName, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: modelName}, nil
}

// Name implements Model.
func (g *Gemini) Name() string { return g.model }

// Generate implements Model. The response is constrained to JSON matching
// the result schema.
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    resultSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out += part.Text
		}
	}
	return out, nil
}

func resultSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	num := &genai.Schema{Type: genai.TypeNumber}

	actions := make([]string, len(Actions))
	for i, a := range Actions {
		actions[i] = string(a)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"action": {Type: genai.TypeString, Enum: actions},
			"conversationalResponse": {
				Type:        genai.TypeString,
				Description: "Reply to the user when the input is a question.",
			},
			"data": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"amount":        num,
					"currency":      str,
					"category":      str,
					"isExpense":     {Type: genai.TypeBoolean},
					"description":   str,
					"title":         str,
					"startTimeISO":  str,
					"endTimeISO":    str,
					"location":      str,
					"dueDateISO":    str,
					"status":        str,
					"targetAmount":  num,
					"currentAmount": num,
					"content":       str,
					"suggestedTags": {Type: genai.TypeArray, Items: str},
				},
			},
		},
		Required: []string{"action"},
	}
}
