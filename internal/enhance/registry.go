package enhance

import (
	"context"
	"fmt"
	"time"
)

// Generator produces narrative text for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Keys holds the per-provider credentials and endpoints.
type Keys struct {
	OpenAI        string
	Gemini        string
	Anthropic     string
	OllamaBaseURL string
}

// ProviderInfo describes one registered enhancement provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	NeedsKey     bool   `json:"needs_key"`
	DefaultModel string `json:"default_model"`
	Available    bool   `json:"available"`
}

// Registry resolves enhancement providers by name. Availability follows
// configuration only; no network probe is made at registration time.
type Registry struct {
	keys    Keys
	timeout time.Duration
}

// NewRegistry creates a provider registry.
func NewRegistry(keys Keys, timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Registry{keys: keys, timeout: timeout}
}

// List returns every known provider with its availability.
func (r *Registry) List() []ProviderInfo {
	return []ProviderInfo{
		{Name: "openai", NeedsKey: true, DefaultModel: defaultOpenAIModel, Available: r.keys.OpenAI != ""},
		{Name: "gemini", NeedsKey: true, DefaultModel: defaultGeminiModel, Available: r.keys.Gemini != ""},
		{Name: "anthropic", NeedsKey: true, DefaultModel: defaultAnthropicModel, Available: r.keys.Anthropic != ""},
		{Name: "ollama", NeedsKey: false, DefaultModel: defaultOllamaModel, Available: r.keys.OllamaBaseURL != ""},
	}
}

// Generator resolves a named provider. An empty model selects the
// provider default.
func (r *Registry) Generator(name, model string) (Generator, error) {
	switch name {
	case "openai":
		if r.keys.OpenAI == "" {
			return nil, fmt.Errorf("openai: api key not configured")
		}
		return newOpenAI(r.keys.OpenAI, model, r.timeout), nil
	case "gemini":
		if r.keys.Gemini == "" {
			return nil, fmt.Errorf("gemini: api key not configured")
		}
		return newGemini(r.keys.Gemini, model), nil
	case "anthropic":
		if r.keys.Anthropic == "" {
			return nil, fmt.Errorf("anthropic: api key not configured")
		}
		return newAnthropic(r.keys.Anthropic, model, r.timeout), nil
	case "ollama":
		if r.keys.OllamaBaseURL == "" {
			return nil, fmt.Errorf("ollama: base url not configured")
		}
		return newOllama(r.keys.OllamaBaseURL, model, r.timeout), nil
	}
	return nil, fmt.Errorf("unknown enhancement provider %q", name)
}
