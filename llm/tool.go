package llm

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/sjson"
)

// Tool represents a function the model can call: a schema plus a handler.
// The handler receives the raw JSON arguments text the model produced and
// returns a human-readable result string.
type Tool struct {
	Name        string                            // Function name
	Description string                            // What the function does
	Handler     func(args string) (string, error) // Function implementation

	// params stays ordered; schema emission must be stable, and the
	// property vocabulary is open, so a Go map cannot carry it.
	params []ToolParam
}

// ToolParam describes one parameter in a tool's schema.
type ToolParam struct {
	Name        string
	Type        string // JSON schema type: "string", "number", "boolean", ...
	Description string
	Required    bool
}

// NewTool creates a new tool with the given name and description.
// Add parameters with AddParameter and attach the implementation with
// WithHandler.
//
// Example:
//
//	tool := llm.NewTool("get_weather", "Get weather for a location").
//	    AddParameter("location", "string", "City name", true)
func NewTool(name, description string) *Tool {
	return &Tool{Name: name, Description: description}
}

// AddParameter appends a parameter to the tool's schema. Declaration order
// is preserved in the emitted properties object and required list.
//
// Example:
//
//	tool.AddParameter("location", "string", "The city name", true).
//	    AddParameter("units", "string", "celsius or fahrenheit", false)
func (t *Tool) AddParameter(name, paramType, description string, required bool) *Tool {
	t.params = append(t.params, ToolParam{
		Name:        name,
		Type:        paramType,
		Description: description,
		Required:    required,
	})
	return t
}

// WithHandler sets the function handler for this tool.
//
// Example:
//
//	tool.WithHandler(func(args string) (string, error) {
//	    var params struct {
//	        Location string `json:"location"`
//	    }
//	    if err := json.Unmarshal([]byte(args), &params); err != nil {
//	        return "", err
//	    }
//	    return fmt.Sprintf("Weather in %s: Sunny, 25°C", params.Location), nil
//	})
func (t *Tool) WithHandler(handler func(string) (string, error)) *Tool {
	t.Handler = handler
	return t
}

// Params returns a copy of the declared parameters in order.
func (t *Tool) Params() []ToolParam {
	out := make([]ToolParam, len(t.params))
	copy(out, t.params)
	return out
}

// jsonString marshals s as a JSON string literal.
func jsonString(s string) []byte {
	encoded, _ := json.Marshal(s)
	return encoded
}

// writeProperties emits the properties object and required array. The
// parameter vocabulary is open-keyed, so the object is assembled directly
// rather than through a map, keeping declaration order.
func (t *Tool) writeProperties(buf *bytes.Buffer) {
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range t.params {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(jsonString(p.Name))
		buf.WriteString(`:{"type":`)
		buf.Write(jsonString(p.Type))
		buf.WriteString(`,"description":`)
		buf.Write(jsonString(p.Description))
		buf.WriteByte('}')
	}
	buf.WriteString(`}}`)
}

// writeRequired emits the required array: the names of required
// parameters in declaration order.
func (t *Tool) writeRequired(buf *bytes.Buffer) {
	buf.WriteByte('[')
	first := true
	for _, p := range t.params {
		if !p.Required {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(jsonString(p.Name))
	}
	buf.WriteByte(']')
}

// openAISchema emits the function-tool shape used by OpenAI, OpenRouter
// and OpenAI-compliant endpoints.
func (t *Tool) openAISchema() []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"function","function":{"name":`)
	buf.Write(jsonString(t.Name))
	buf.WriteString(`,"description":`)
	buf.Write(jsonString(t.Description))
	buf.WriteString(`,"parameters":`)
	t.writeProperties(&buf)
	buf.WriteString(`,"required":`)
	t.writeRequired(&buf)
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// anthropicSchema emits the input_schema shape used by Anthropic.
func (t *Tool) anthropicSchema() []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	buf.Write(jsonString(t.Name))
	buf.WriteString(`,"description":`)
	buf.Write(jsonString(t.Description))
	buf.WriteString(`,"input_schema":{"type":"object","properties":{`)
	for i, p := range t.params {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(jsonString(p.Name))
		buf.WriteString(`:{"type":`)
		buf.Write(jsonString(p.Type))
		buf.WriteString(`,"description":`)
		buf.Write(jsonString(p.Description))
		buf.WriteByte('}')
	}
	buf.WriteString(`},"required":`)
	t.writeRequired(&buf)
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// toolChoiceKind discriminates the tool-choice policy.
type toolChoiceKind int

const (
	toolChoiceAuto toolChoiceKind = iota
	toolChoiceNone
	toolChoiceName
)

// ToolChoice tells the model whether and which tool it may pick next
// turn. The zero value is Auto.
type ToolChoice struct {
	kind toolChoiceKind
	name string
}

// ToolChoiceAuto lets the model decide whether to call a tool.
func ToolChoiceAuto() ToolChoice {
	return ToolChoice{kind: toolChoiceAuto}
}

// ToolChoiceNone forbids tool calls for the next turn.
func ToolChoiceNone() ToolChoice {
	return ToolChoice{kind: toolChoiceNone}
}

// ToolChoiceTool forces the model to call the named tool.
func ToolChoiceTool(name string) ToolChoice {
	return ToolChoice{kind: toolChoiceName, name: name}
}

// encode returns the wire form for this choice, or nil when the key must
// be omitted (Anthropic with None).
func (tc ToolChoice) encode(p Provider) []byte {
	var buf bytes.Buffer
	if p.kind == providerAnthropic {
		switch tc.kind {
		case toolChoiceNone:
			return nil
		case toolChoiceName:
			buf.WriteString(`{"type":"function","function":{"name":`)
			buf.Write(jsonString(tc.name))
			buf.WriteString(`}}`)
		default:
			buf.WriteString(`{"type":"auto"}`)
		}
		return buf.Bytes()
	}

	switch tc.kind {
	case toolChoiceNone:
		return []byte(`"none"`)
	case toolChoiceName:
		buf.WriteString(`{"type":"function","function":{"name":`)
		buf.Write(jsonString(tc.name))
		buf.WriteString(`}}`)
		return buf.Bytes()
	default:
		return []byte(`"auto"`)
	}
}

// spliceTools appends the tool definitions and the tool-choice policy to
// the encoded body. Callers must not invoke this with an empty tool list:
// a body without tools never carries tool_choice.
func spliceTools(body []byte, tools []*Tool, choice ToolChoice, p Provider) ([]byte, error) {
	var arr bytes.Buffer
	arr.WriteByte('[')
	for i, tool := range tools {
		if i > 0 {
			arr.WriteByte(',')
		}
		if p.kind == providerAnthropic {
			arr.Write(tool.anthropicSchema())
		} else {
			arr.Write(tool.openAISchema())
		}
	}
	arr.WriteByte(']')

	body, err := sjson.SetRawBytes(body, "tools", arr.Bytes())
	if err != nil {
		return nil, err
	}

	if raw := choice.encode(p); raw != nil {
		body, err = sjson.SetRawBytes(body, "tool_choice", raw)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}
