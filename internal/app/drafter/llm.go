package drafter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/askwell/askwell-backend/internal/config"
	"github.com/askwell/askwell-backend/internal/domain"
)

// Client wraps the Anthropic API for the two drafting calls.
type Client struct {
	api       anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient creates an Anthropic-backed Client. An empty APIKey falls back to
// the SDK's environment lookup.
func NewClient(cfg config.DrafterConfig) *Client {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return &Client{
		api:       anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: int64(cfg.MaxTokens),
	}
}

type draftResult struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// Draft produces the raw answer draft and the model's self-assessed
// confidence for one question.
func (c *Client) Draft(ctx context.Context, subject, text string) (string, float64, error) {
	responseText, err := c.complete(ctx, buildDraftPrompt(subject, text))
	if err != nil {
		return "", 0, err
	}

	jsonStr, err := extractJSON(responseText)
	if err != nil {
		return "", 0, fmt.Errorf("extract json from draft response: %w", err)
	}

	var result draftResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return "", 0, fmt.Errorf("decode draft response: %w", err)
	}
	if strings.TrimSpace(result.Answer) == "" {
		return "", 0, fmt.Errorf("draft response has empty answer: %w", domain.ErrExternalService)
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return result.Answer, confidence, nil
}

// Humanize rewrites a draft into natural prose that reads as
// expert-written.
func (c *Client) Humanize(ctx context.Context, draft string) (string, error) {
	responseText, err := c.complete(ctx, buildHumanizePrompt(draft))
	if err != nil {
		return "", err
	}
	humanized := strings.TrimSpace(responseText)
	if humanized == "" {
		return "", fmt.Errorf("humanize response is empty: %w", domain.ErrExternalService)
	}
	return humanized, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm api call: %w: %w", err, domain.ErrExternalService)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty llm response: %w", domain.ErrExternalService)
	}
	return msg.Content[0].Text, nil
}

func buildDraftPrompt(subject, text string) string {
	return fmt.Sprintf(`You are a subject-matter expert answering a paid question on a Q&A marketplace.

Subject: %s

Question:
%s

Write a thorough, accurate answer. Then assess how confident you are that the answer is complete and correct, as a number between 0 and 1.

Output ONLY a valid JSON object matching this exact schema:
{
  "answer": "<the full answer text>",
  "confidence": <0..1>
}

Rules:
- Answer directly; do not restate the question
- Be honest in the confidence score: lower it for ambiguous or underspecified questions
- Output ONLY the JSON, no markdown, no explanations`, subject, text)
}

func buildHumanizePrompt(draft string) string {
	return fmt.Sprintf(`Rewrite the following answer so it reads like it was written by a human expert: vary sentence length, remove boilerplate phrasing, keep every factual claim intact.

Answer:
%s

Output ONLY the rewritten answer text, no preamble, no markdown fences.`, draft)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
