package llm

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Llama prompt-tag helpers and the raw completion path. These serve
// OpenAI-compliant servers running llama-family models on a plain
// /completions endpoint; the chat path does not use them.

const (
	llamaInstOpen  = "[INST] "
	llamaInstClose = " [/INST]"
	llamaSysOpen   = "<<SYS>>\n"
	llamaSysClose  = "\n<</SYS>>\n\n"
	llamaBOS       = "<s>"
	llamaEOS       = "</s>"
)

// FormatLlamaPrompt renders a system prompt and conversation into the
// llama-2 instruction tag format. Tool messages are folded in as user
// turns; the model has no separate tool role in this format.
func FormatLlamaPrompt(system string, messages []Message) string {
	var sb strings.Builder

	pending := system
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if pending == "" {
				pending = msg.Content
			} else {
				pending += "\n" + msg.Content
			}
		case "assistant":
			sb.WriteString(" ")
			sb.WriteString(msg.Content)
			sb.WriteString(llamaEOS)
		default:
			sb.WriteString(llamaBOS)
			sb.WriteString(llamaInstOpen)
			if pending != "" {
				sb.WriteString(llamaSysOpen)
				sb.WriteString(pending)
				sb.WriteString(llamaSysClose)
				pending = ""
			}
			sb.WriteString(msg.Content)
			sb.WriteString(llamaInstClose)
		}
	}
	return sb.String()
}

// completionBody is the raw /completions request shape.
type completionBody struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	Seed        int64   `json:"seed,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Stream      bool    `json:"stream,omitempty"`
}

// CompletionChoice is one raw completion alternative.
type CompletionChoice struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
}

// CompletionResponse is the raw /completions response shape.
type CompletionResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Choices []CompletionChoice `json:"choices"`
	Usage   Usage              `json:"usage"`
}

// BuildCompletionRequest assembles a raw completion request for the
// client's endpoint. Callers typically format the prompt with
// FormatLlamaPrompt first. Only OpenAI-compliant endpoints serve this
// path; hosted chat providers reject it.
func (c *Client) BuildCompletionRequest(prompt string) (*Request, error) {
	body, err := json.Marshal(completionBody{
		Model:       c.Model,
		Prompt:      prompt,
		Temperature: c.Temperature,
		TopP:        c.TopP,
		Seed:        c.Seed,
		MaxTokens:   c.MaxTokens,
		Stream:      c.Stream,
	})
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  http.MethodPost,
		URL:     completionURL(c.Provider.URL()),
		Header:  c.Provider.headers(c.APIKey),
		Body:    body,
		Timeout: c.Timeout,
	}, nil
}

// completionURL rewrites a chat completions endpoint to its raw
// completions sibling. URLs without the chat suffix pass through.
func completionURL(url string) string {
	if strings.HasSuffix(url, "/chat/completions") {
		return strings.TrimSuffix(url, "/chat/completions") + "/completions"
	}
	return url
}

// DecodeCompletionResponse parses a raw /completions response body.
func DecodeCompletionResponse(body []byte) (*CompletionResponse, error) {
	trimmed := trimLeading(body)
	var resp CompletionResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, &BadJSONError{Raw: string(body)}
	}
	return &resp, nil
}
