// Package answer turns a retrieved graph context plus a user question into a
// natural-language answer via an OpenAI-compatible chat model.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You are a music knowledge assistant. Answer questions using only the knowledge graph context provided by the user. The context lists facts about artists, bands, albums, songs, genres, record labels, and awards. If the context does not contain enough information to answer, say so plainly instead of guessing.`

// Answerer produces an answer for a question given retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question, graphContext string) (string, error)
}

// Config holds the settings for the OpenAI-compatible answerer.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// OpenAIAnswerer implements Answerer against any OpenAI-compatible endpoint.
type OpenAIAnswerer struct {
	client *openai.Client
	config Config
}

// NewOpenAIAnswerer creates an answerer from the given config.
func NewOpenAIAnswerer(config Config) *OpenAIAnswerer {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIAnswerer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Answer asks the chat model the question grounded on the graph context.
func (a *OpenAIAnswerer) Answer(ctx context.Context, question, graphContext string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	request := openai.ChatCompletionRequest{
		Model: a.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(question, graphContext)},
		},
	}
	if a.config.MaxTokens > 0 {
		request.MaxTokens = a.config.MaxTokens
	}
	if a.config.Temperature > 0 {
		request.Temperature = a.config.Temperature
	}

	response, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func buildPrompt(question, graphContext string) string {
	var b strings.Builder
	b.WriteString("Knowledge graph context:\n")
	b.WriteString(graphContext)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
