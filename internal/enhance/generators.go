package enhance

import (
	"context"
	"fmt"
	"time"

	xhttp "MarketPulse/pkg/http"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOllamaModel    = "llama3.1"
)

type openAIGenerator struct {
	apiKey string
	model  string
	http   *xhttp.Client
}

func newOpenAI(apiKey, model string, timeout time.Duration) *openAIGenerator {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIGenerator{
		apiKey: apiKey,
		model:  model,
		http:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (g *openAIGenerator) Name() string { return "openai" }

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	err := g.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    "https://api.openai.com/v1/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + g.apiKey,
		},
		Body: map[string]interface{}{
			"model": g.model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai generate: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicGenerator struct {
	apiKey string
	model  string
	http   *xhttp.Client
}

func newAnthropic(apiKey, model string, timeout time.Duration) *anthropicGenerator {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicGenerator{
		apiKey: apiKey,
		model:  model,
		http:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (g *anthropicGenerator) Name() string { return "anthropic" }

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}

	err := g.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    "https://api.anthropic.com/v1/messages",
		Headers: map[string]string{
			"x-api-key":         g.apiKey,
			"anthropic-version": "2023-06-01",
		},
		Body: map[string]interface{}{
			"model":      g.model,
			"max_tokens": 2048,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic generate: empty response")
}

type ollamaGenerator struct {
	baseURL string
	model   string
	http    *xhttp.Client
}

func newOllama(baseURL, model string, timeout time.Duration) *ollamaGenerator {
	if model == "" {
		model = defaultOllamaModel
	}
	return &ollamaGenerator{
		baseURL: baseURL,
		model:   model,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (g *ollamaGenerator) Name() string { return "ollama" }

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}

	err := g.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    g.baseURL + "/api/generate",
		Body: map[string]interface{}{
			"model":  g.model,
			"prompt": prompt,
			"stream": false,
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.Response == "" {
		return "", fmt.Errorf("ollama generate: empty response")
	}
	return resp.Response, nil
}
