package llm

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Wire forms for one message. The content field is heterogeneous per
// message (plain string vs. content-block array for cached messages), so
// messages are encoded individually and spliced into the base body as a
// raw array instead of round-tripping the whole body through one struct.

type plainWireMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type cachedWireMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
	Name    string         `json:"name,omitempty"`
}

type contentBlock struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	CacheControl *cacheControl `json:"cache_control,omitempty"`
}

type cacheControl struct {
	Type string `json:"type"`
}

// encodeMessage serializes one message to its wire form. A message marked
// cached is sent as a one-element content-block array with an ephemeral
// cache_control annotation — unless it is a tool result, which always uses
// the plain string form.
func encodeMessage(msg Message) ([]byte, error) {
	if msg.Cached && msg.ToolCallID == "" {
		return json.Marshal(cachedWireMessage{
			Role: msg.Role,
			Content: []contentBlock{{
				Type:         "text",
				Text:         msg.Content,
				CacheControl: &cacheControl{Type: "ephemeral"},
			}},
			Name: msg.Name,
		})
	}
	return json.Marshal(plainWireMessage{
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCalls:  msg.ToolCalls,
		Name:       msg.Name,
		ToolCallID: msg.ToolCallID,
	})
}

// encodeMessages serializes the message sequence to a raw JSON array,
// preserving insertion order.
func encodeMessages(messages []Message) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, msg := range messages {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := encodeMessage(msg)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// spliceMessages inserts the encoded message array at the body's messages
// slot. A body without a messages slot (a caller-supplied format) passes
// through unchanged.
func spliceMessages(body []byte, messages []Message) ([]byte, error) {
	if !gjson.GetBytes(body, "messages").Exists() {
		return body, nil
	}
	encoded, err := encodeMessages(messages)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(body, "messages", encoded)
}
