// Package nlp provides an optional language-model collaborator for query
// interpretation. The keyword parser handles every query on its own; when an
// API key is configured this client refines ambiguous queries, and any failure
// falls back to the keyword result.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"newssense/internal/errors"
	"newssense/internal/models"
)

const interpretSystemPrompt = `You are a financial query interpreter for Indian markets.
Given a user question about stocks, ETFs or mutual funds, respond with a JSON object:
{"intent": one of ["price_movement","performance","news_impact","outlook","recommendation","macro","general_inquiry"],
 "entities": [instrument names mentioned, exactly as given in the candidate list],
 "timeframe": one of ["today","yesterday","this_week","this_month","this_quarter","this_year"]}
Respond with JSON only, no commentary.`

// Interpreter refines a parsed query using a language model.
type Interpreter interface {
	InterpretQuery(ctx context.Context, raw string, candidates []string) (*models.ParsedQuery, error)
}

// OpenAIClient implements Interpreter using the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI interpreter client.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

type interpretation struct {
	Intent    string   `json:"intent"`
	Entities  []string `json:"entities"`
	Timeframe string   `json:"timeframe"`
}

// InterpretQuery asks the model to classify the query against the candidate
// instrument names. The returned ParsedQuery carries only what the model
// produced; the caller merges it with the keyword parse.
func (c *OpenAIClient) InterpretQuery(ctx context.Context, raw string, candidates []string) (*models.ParsedQuery, error) {
	userPrompt := fmt.Sprintf("Candidate instruments: %s\n\nQuestion: %s",
		strings.Join(candidates, ", "), raw)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: interpretSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, errors.NewNLPError("interpret_query", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewNLPError("interpret_query", errors.ErrNLPUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed interpretation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return nil, errors.NewNLPError("interpret_query", fmt.Errorf("malformed model response: %w", err))
	}

	return &models.ParsedQuery{
		Raw:       raw,
		Intent:    models.Intent(parsed.Intent),
		Entities:  parsed.Entities,
		Timeframe: models.Timeframe(parsed.Timeframe),
	}, nil
}
