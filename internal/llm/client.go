// Package llm wraps the remote chat-completion call used for SQL generation.
// The service layer prefers this client and falls back to the rule-based
// synthesizer when the call fails or returns nothing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"sqlgenie/internal/synthesizer"
)

const (
	systemMessage = "You are a SQL expert. Generate only valid SQL queries without explanations."
	maxTokens     = 500
	temperature   = 0.3
)

var ErrEmptyCompletion = errors.New("model returned an empty completion")

type Client struct {
	api   *openai.Client
	model string
}

// NewClient returns nil when no API key is configured; callers treat a nil
// client as "remote generation unavailable".
func NewClient(apiKey, model string) *Client {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// GenerateSQL asks the model for a SQL statement answering the description
// over the given ER graph. The trimmed completion is returned verbatim.
func (c *Client) GenerateSQL(ctx context.Context, graph synthesizer.Graph, description string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(graph, description)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	sql := strings.TrimSpace(resp.Choices[0].Message.Content)
	if sql == "" {
		return "", ErrEmptyCompletion
	}
	return sql, nil
}

// BuildPrompt serializes the graph into the entity/relationship text layout
// the model is prompted with: one "- Name: attr1, attr2" line per entity and
// one "- From -> To (type)" line per relationship.
func BuildPrompt(graph synthesizer.Graph, description string) string {
	var entities strings.Builder
	for _, e := range graph.Entities {
		fmt.Fprintf(&entities, "- %s: %s\n", e.Name, strings.Join(e.Attributes, ", "))
	}

	var relationships strings.Builder
	for _, rel := range graph.Relationships {
		fmt.Fprintf(&relationships, "- %s -> %s (%s)\n", rel.From, rel.To, rel.Type)
	}

	return fmt.Sprintf(`You are a SQL expert. Given the following ER diagram structure and query description, generate a valid SQL query.

ER Diagram Structure:
Entities:
%s
Relationships:
%s
Query Description: %s

Generate a SQL query that answers this description. Return only the SQL query without any explanations or markdown formatting.`,
		entities.String(), relationships.String(), description)
}
