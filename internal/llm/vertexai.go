// Package llm wraps the Vertex AI Gemini API behind the small oracle surface
// the rest of the service depends on.
package llm

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/vertexai/genai"
)

const defaultModel = "gemini-1.5-flash"

// VertexAIClient wraps the Vertex AI Gemini API. Every request demands a
// JSON-object response; schema validation of that object is the caller's job.
type VertexAIClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewVertexAIClient creates a new Vertex AI client. The timeout bounds each
// individual generate call; a call that never returns is cut off and surfaces
// as an ordinary request failure.
func NewVertexAIClient(ctx context.Context, projectID, location, modelName string, timeout time.Duration) (*VertexAIClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("google cloud project is required")
	}
	if location == "" {
		location = "us-central1"
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexAIClient{
		client:    client,
		modelName: modelName,
		timeout:   timeout,
	}, nil
}

// Generate sends one blocking request with a system instruction and user
// content, and returns the model's text response. The model is constrained to
// answer with a JSON object.
func (v *VertexAIClient) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	model := v.client.GenerativeModel(v.modelName)
	// Lower temperature for more consistent scoring.
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the underlying Vertex AI client.
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
