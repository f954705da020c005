package llm

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Response is the unified completion shape. Anthropic responses are
// converted into it; the chat-completions providers decode directly.
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage echoes the provider's token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// anthropicResponse is the native Anthropic messages shape.
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
}

type anthropicContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// trimLeading drops leading whitespace and control bytes. Some gateways
// prepend a BOM or newlines before the JSON body.
func trimLeading(body []byte) []byte {
	i := 0
	for i < len(body) && body[i] <= 0x20 {
		i++
	}
	return body[i:]
}

// convert maps the native Anthropic shape onto the unified Response: one
// choice per content block, usage totalled from input+output. Tool-use
// blocks become assistant tool calls carrying the raw input JSON as the
// arguments string.
func (ar anthropicResponse) convert() *Response {
	resp := &Response{
		ID:     ar.ID,
		Model:  ar.Model,
		Object: ar.Type,
		Usage: Usage{
			PromptTokens:     ar.Usage.InputTokens,
			CompletionTokens: ar.Usage.OutputTokens,
			TotalTokens:      ar.Usage.InputTokens + ar.Usage.OutputTokens,
		},
	}
	for i, block := range ar.Content {
		msg := Message{Role: "assistant", Content: block.Text}
		if block.Type == "tool_use" {
			args := "{}"
			if len(block.Input) > 0 {
				args = string(block.Input)
			}
			msg.ToolCalls = []ToolCall{{
				ID:   block.ID,
				Type: "function",
				Function: ToolCallFunction{
					Name:      block.Name,
					Arguments: args,
				},
			}}
		}
		resp.Choices = append(resp.Choices, Choice{
			Index:        i,
			Message:      msg,
			FinishReason: ar.StopReason,
		})
	}
	return resp
}

// DecodeResponse parses a response body from any supported provider into
// the unified shape. Bodies that parse as the provider error shape return
// *APIError; anything unrecognisable returns *BadJSONError carrying the
// raw body.
func DecodeResponse(body []byte) (*Response, error) {
	trimmed := trimLeading(body)
	if !gjson.ValidBytes(trimmed) {
		return nil, &BadJSONError{Raw: string(body)}
	}
	root := gjson.ParseBytes(trimmed)

	if root.Get("choices").Exists() {
		var resp Response
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, WrapDecoding(err)
		}
		return &resp, nil
	}

	if content := root.Get("content"); content.IsArray() && root.Get("type").Exists() {
		var ar anthropicResponse
		if err := json.Unmarshal(trimmed, &ar); err != nil {
			return nil, WrapDecoding(err)
		}
		return ar.convert(), nil
	}

	if errField := root.Get("error"); errField.Exists() {
		return nil, &APIError{
			Code:    int(errField.Get("code").Int()),
			Message: errField.Get("message").String(),
		}
	}

	return nil, &BadJSONError{Raw: string(body)}
}

// DecodeTopMessage returns choice 0's message from a response body, or
// ErrNoChoices when the completion is empty.
func DecodeTopMessage(body []byte) (Message, error) {
	resp, err := DecodeResponse(body)
	if err != nil {
		return Message{}, err
	}
	if len(resp.Choices) == 0 {
		return Message{}, ErrNoChoices
	}
	return resp.Choices[0].Message, nil
}
