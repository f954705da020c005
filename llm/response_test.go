package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatResponseBody = `{
	"id": "chatcmpl-123",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "Hello there."},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
}`

const anthropicTextResponseBody = `{
	"id": "msg_01",
	"type": "message",
	"role": "assistant",
	"model": "claude-3-5-sonnet-20241022",
	"content": [{"type": "text", "text": "Hi from Claude."}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 10, "output_tokens": 25}
}`

const anthropicToolUseResponseBody = `{
	"id": "msg_02",
	"type": "message",
	"role": "assistant",
	"model": "claude-3-5-sonnet-20241022",
	"content": [
		{"type": "text", "text": "Let me check."},
		{"type": "tool_use", "id": "toolu_01", "name": "get_weather", "input": {"location": "Hanoi"}}
	],
	"stop_reason": "tool_use",
	"usage": {"input_tokens": 30, "output_tokens": 40}
}`

func TestDecodeResponseChatShape(t *testing.T) {
	resp, err := DecodeResponse([]byte(chatResponseBody))
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-123", resp.ID)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, int64(1700000000), resp.Created)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "Hello there.", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 21, resp.Usage.TotalTokens)
}

func TestDecodeResponseAnthropicShape(t *testing.T) {
	resp, err := DecodeResponse([]byte(anthropicTextResponseBody))
	require.NoError(t, err)

	assert.Equal(t, "msg_01", resp.ID)
	assert.Equal(t, "message", resp.Object)
	assert.Equal(t, int64(0), resp.Created)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, 0, resp.Choices[0].Index)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "Hi from Claude.", resp.Choices[0].Message.Content)
	assert.Equal(t, "end_turn", resp.Choices[0].FinishReason)

	assert.Equal(t, 10, resp.Usage.PromptTokens)
	assert.Equal(t, 25, resp.Usage.CompletionTokens)
	assert.Equal(t, resp.Usage.PromptTokens+resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
}

func TestDecodeResponseAnthropicToolUse(t *testing.T) {
	resp, err := DecodeResponse([]byte(anthropicToolUseResponseBody))
	require.NoError(t, err)
	require.Len(t, resp.Choices, 2)

	text := resp.Choices[0]
	assert.Equal(t, "Let me check.", text.Message.Content)
	assert.Empty(t, text.Message.ToolCalls)

	toolUse := resp.Choices[1]
	assert.Equal(t, 1, toolUse.Index)
	require.Len(t, toolUse.Message.ToolCalls, 1)
	call := toolUse.Message.ToolCalls[0]
	assert.Equal(t, "toolu_01", call.ID)
	assert.Equal(t, "function", call.Type)
	assert.Equal(t, "get_weather", call.Function.Name)
	assert.JSONEq(t, `{"location":"Hanoi"}`, call.Function.Arguments)
}

func TestDecodeResponseLeadingWhitespace(t *testing.T) {
	body := append([]byte("\n\r\t   \x00\x1f"), []byte(chatResponseBody)...)
	resp, err := DecodeResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-123", resp.ID)
}

func TestDecodeResponseErrorShape(t *testing.T) {
	body := []byte(`  {"error": {"code": 429, "message": "rate limited"}}`)
	_, err := DecodeResponse(body)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, "rate limited", apiErr.Message)
}

func TestDecodeResponseBadJSON(t *testing.T) {
	_, err := DecodeResponse([]byte("<html>502 Bad Gateway</html>"))
	require.Error(t, err)

	var badErr *BadJSONError
	require.ErrorAs(t, err, &badErr)
	assert.Contains(t, badErr.Raw, "502 Bad Gateway")
}

func TestDecodeResponseUnknownObjectIsBadJSON(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"hello":"world"}`))
	var badErr *BadJSONError
	require.ErrorAs(t, err, &badErr)
}

func TestDecodeTopMessage(t *testing.T) {
	msg, err := DecodeTopMessage([]byte(chatResponseBody))
	require.NoError(t, err)
	assert.Equal(t, "assistant", msg.Role)
	assert.Equal(t, "Hello there.", msg.Content)
}

func TestDecodeTopMessageNoChoices(t *testing.T) {
	body := []byte(`{"id":"x","object":"chat.completion","choices":[],"usage":{}}`)
	_, err := DecodeTopMessage(body)
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestDecodeResponseRoundTrip(t *testing.T) {
	original := &Response{
		ID:      "resp-1",
		Model:   "m",
		Object:  "chat.completion",
		Created: 123,
		Choices: []Choice{{
			Index: 0,
			Message: Message{
				Role:    "assistant",
				Content: "hi",
				ToolCalls: []ToolCall{{
					ID:       "call_1",
					Type:     "function",
					Function: ToolCallFunction{Name: "frob", Arguments: "{}"},
				}},
			},
			FinishReason: "tool_calls",
		}},
		Usage: Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3},
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := DecodeResponse(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestUpdateThenDecodeTopMessageAgree(t *testing.T) {
	client := mustClient(t, Config{Provider: OpenAI(), APIKey: "k", Model: "m"})

	resp := &HTTPResponse{Status: 200, Body: []byte(chatResponseBody)}
	require.NoError(t, client.UpdateFromResponse(resp))

	direct, err := DecodeTopMessage(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, direct, client.Messages[len(client.Messages)-1])
}
