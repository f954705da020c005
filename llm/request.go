package llm

import (
	"encoding/json"
	"net/http"
)

// Base request bodies, one restricted field set per provider. Optional
// fields carry omitempty so absent means the key is omitted, never null;
// some providers reject explicit nulls for numeric fields.

type openAIBody struct {
	Model               string            `json:"model"`
	Messages            []json.RawMessage `json:"messages"`
	Temperature         float64           `json:"temperature"`
	TopP                float64           `json:"top_p"`
	FrequencyPenalty    float64           `json:"frequency_penalty"`
	PresencePenalty     float64           `json:"presence_penalty"`
	Seed                int64             `json:"seed,omitempty"`
	MaxCompletionTokens int               `json:"max_completion_tokens,omitempty"`
	Stream              bool              `json:"stream,omitempty"`
}

type anthropicBody struct {
	Model       string            `json:"model"`
	Messages    []json.RawMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	TopP        float64           `json:"top_p"`
	TopK        int               `json:"top_k"`
	Seed        int64             `json:"seed,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	System      string            `json:"system,omitempty"`
	Stream      bool              `json:"stream,omitempty"`
}

type openRouterProvider struct {
	Order []string `json:"order"`
}

type openRouterBody struct {
	Model               string              `json:"model"`
	Messages            []json.RawMessage   `json:"messages"`
	Temperature         float64             `json:"temperature"`
	TopP                float64             `json:"top_p"`
	TopK                int                 `json:"top_k"`
	FrequencyPenalty    float64             `json:"frequency_penalty"`
	PresencePenalty     float64             `json:"presence_penalty"`
	RepetitionPenalty   float64             `json:"repetition_penalty"`
	MinP                float64             `json:"min_p"`
	TopA                float64             `json:"top_a"`
	Seed                int64               `json:"seed,omitempty"`
	MaxCompletionTokens int                 `json:"max_completion_tokens,omitempty"`
	Provider            *openRouterProvider `json:"provider,omitempty"`
	Models              []string            `json:"models,omitempty"`
	Route               string              `json:"route,omitempty"`
	Stream              bool                `json:"stream,omitempty"`
}

// emptyMessages keeps the messages slot in the base body so the splice
// step has a place to insert the encoded array.
var emptyMessages = []json.RawMessage{}

// baseBody serializes the provider-specific struct with an empty
// messages array. Messages and tools are spliced in afterwards.
func (c *Client) baseBody() ([]byte, error) {
	switch c.Provider.kind {
	case providerAnthropic:
		return json.Marshal(anthropicBody{
			Model:       c.Model,
			Messages:    emptyMessages,
			Temperature: c.Temperature,
			TopP:        c.TopP,
			TopK:        c.TopK,
			Seed:        c.Seed,
			MaxTokens:   c.MaxTokens,
			System:      c.System,
			Stream:      c.Stream,
		})
	case providerOpenRouter:
		var order *openRouterProvider
		if len(c.ProviderOrder) > 0 {
			order = &openRouterProvider{Order: c.ProviderOrder}
		}
		return json.Marshal(openRouterBody{
			Model:               c.Model,
			Messages:            emptyMessages,
			Temperature:         c.Temperature,
			TopP:                c.TopP,
			TopK:                c.TopK,
			FrequencyPenalty:    c.FrequencyPenalty,
			PresencePenalty:     c.PresencePenalty,
			RepetitionPenalty:   c.RepetitionPenalty,
			MinP:                c.MinP,
			TopA:                c.TopA,
			Seed:                c.Seed,
			MaxCompletionTokens: c.MaxTokens,
			Provider:            order,
			Models:              c.Models,
			Route:               c.Route,
			Stream:              c.Stream,
		})
	default:
		return json.Marshal(openAIBody{
			Model:               c.Model,
			Messages:            emptyMessages,
			Temperature:         c.Temperature,
			TopP:                c.TopP,
			FrequencyPenalty:    c.FrequencyPenalty,
			PresencePenalty:     c.PresencePenalty,
			Seed:                c.Seed,
			MaxCompletionTokens: c.MaxTokens,
			Stream:              c.Stream,
		})
	}
}

// BuildHTTPRequest assembles the full provider request for the current
// conversation state. For Anthropic, system-role messages are first folded
// into the System field (persisting on the client) and stripped from the
// outgoing messages array.
//
// The returned body is always well-formed JSON.
func (c *Client) BuildHTTPRequest(choice ToolChoice) (*Request, error) {
	messages := c.Messages
	if c.Provider.kind == providerAnthropic {
		messages = c.foldSystemMessages()
	}

	body, err := c.baseBody()
	if err != nil {
		return nil, err
	}

	body, err = spliceMessages(body, messages)
	if err != nil {
		return nil, err
	}

	if len(c.Tools) > 0 {
		body, err = spliceTools(body, c.Tools, choice, c.Provider)
		if err != nil {
			return nil, err
		}
	}

	return &Request{
		Method:  http.MethodPost,
		URL:     c.Provider.URL(),
		Header:  c.Provider.headers(c.APIKey),
		Body:    body,
		Timeout: c.Timeout,
	}, nil
}
