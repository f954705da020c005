package llm

import "net/http"

// providerKind discriminates the supported API families.
// The set is closed: request building switches on it directly.
type providerKind int

const (
	providerOpenAI providerKind = iota
	providerAnthropic
	providerOpenRouter
	providerOpenAICompliant
)

// Fixed endpoints for the hosted providers.
const (
	openAIChatURL     = "https://api.openai.com/v1/chat/completions"
	anthropicMsgURL   = "https://api.anthropic.com/v1/messages"
	openRouterChatURL = "https://openrouter.ai/api/v1/chat/completions"

	anthropicVersion = "2023-06-01"
)

// Provider identifies which HTTP API family a Client talks to.
// Use one of the constructors; the zero value is OpenAI.
//
// Example:
//
//	client, err := llm.NewClient(llm.Config{
//	    Provider: llm.Anthropic(),
//	    APIKey:   apiKey,
//	    Model:    "claude-3-5-sonnet-20241022",
//	})
type Provider struct {
	kind providerKind
	url  string // only set for OpenAICompliant
}

// OpenAI returns the provider for the OpenAI chat completions API.
func OpenAI() Provider {
	return Provider{kind: providerOpenAI}
}

// Anthropic returns the provider for the Anthropic messages API.
func Anthropic() Provider {
	return Provider{kind: providerAnthropic}
}

// OpenRouter returns the provider for the OpenRouter chat completions API.
func OpenRouter() Provider {
	return Provider{kind: providerOpenRouter}
}

// OpenAICompliant returns a provider for any endpoint that accepts the
// OpenAI request shape (Ollama, llama.cpp, vLLM, LM Studio, ...).
// An empty API key is allowed for local servers.
//
// Example:
//
//	provider := llm.OpenAICompliant("http://localhost:11434/v1/chat/completions")
func OpenAICompliant(url string) Provider {
	return Provider{kind: providerOpenAICompliant, url: url}
}

// URL returns the chat endpoint for this provider.
func (p Provider) URL() string {
	switch p.kind {
	case providerAnthropic:
		return anthropicMsgURL
	case providerOpenRouter:
		return openRouterChatURL
	case providerOpenAICompliant:
		return p.url
	default:
		return openAIChatURL
	}
}

// String returns a short name for logging.
func (p Provider) String() string {
	switch p.kind {
	case providerAnthropic:
		return "anthropic"
	case providerOpenRouter:
		return "openrouter"
	case providerOpenAICompliant:
		return "openai-compliant"
	default:
		return "openai"
	}
}

// requiresKey reports whether NewClient must reject an empty API key.
// Local OpenAI-compliant servers commonly run without auth.
func (p Provider) requiresKey() bool {
	return p.kind != providerOpenAICompliant
}

// headers returns the auth and version headers for this provider.
// Content-Type is always application/json and set exactly once.
func (p Provider) headers(apiKey string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	switch p.kind {
	case providerAnthropic:
		h.Set("x-api-key", apiKey)
		h.Set("anthropic-version", anthropicVersion)
	default:
		h.Set("Authorization", "Bearer "+apiKey)
	}
	return h
}
