package llm

import (
	"errors"
	"fmt"
)

// Custom error types for better error handling and recovery

var (
	// ErrAPIKey indicates a missing API key at construction time
	ErrAPIKey = errors.New("API key is missing\n\n" +
		"Fix:\n" +
		"  1. Set the provider's environment variable, e.g. export OPENAI_API_KEY=\"sk-...\"\n" +
		"  2. Or pass it in the config: llm.NewClient(llm.Config{APIKey: \"sk-...\", ...})\n" +
		"  3. OpenAI-compliant local servers may use an empty key")

	// ErrNoChoices indicates a response with an empty choices array
	ErrNoChoices = errors.New("no response choices returned")

	// ErrDecoding indicates a response body that matched a known shape but failed to decode
	ErrDecoding = errors.New("failed to decode response body")

	// ErrToolExecution indicates a tool handler returned an error
	ErrToolExecution = errors.New("tool execution failed")

	// ErrUnknownProviderName indicates a config file named a provider this
	// library does not know about
	ErrUnknownProviderName = errors.New("unknown provider name\n\n" +
		"Fix:\n" +
		"  1. Use one of: openai, anthropic, openrouter, openai-compliant\n" +
		"  2. For openai-compliant, also set base_url")
)

// HTTPError reports a response with a status outside 200-299.
// The conversation is left unmodified; the caller may retry the same
// operation with the same client.
type HTTPError struct {
	Status int    // HTTP status code
	Body   string // Raw response body
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error (status %d): %s", e.Status, e.Body)
}

// APIError reports a body that parsed as the provider's error shape.
type APIError struct {
	Code    int    // Provider error code
	Message string // Provider error message
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (code %d): %s", e.Code, e.Message)
}

// BadJSONError reports a response body that could not be parsed as any
// known shape. Raw carries the body verbatim for debugging.
type BadJSONError struct {
	Raw string
}

func (e *BadJSONError) Error() string {
	return fmt.Sprintf("unparseable response body: %s", e.Raw)
}

// IsHTTPError checks if err is an HTTP status failure.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// IsAPIError checks if err is a provider API error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsBadJSONError checks if err is an unparseable-body error.
func IsBadJSONError(err error) bool {
	var badErr *BadJSONError
	return errors.As(err, &badErr)
}

// IsNoChoicesError checks if err is an empty-completion error.
func IsNoChoicesError(err error) bool {
	return errors.Is(err, ErrNoChoices)
}

// IsToolExecutionError checks if err is tool execution related.
func IsToolExecutionError(err error) bool {
	return errors.Is(err, ErrToolExecution)
}

// WrapDecoding wraps an error as a decode failure.
func WrapDecoding(err error) error {
	return fmt.Errorf("%w: %v", ErrDecoding, err)
}

// WrapToolExecution wraps a handler error with the failing tool's name.
func WrapToolExecution(toolName string, err error) error {
	return fmt.Errorf("%w (%s): %v", ErrToolExecution, toolName, err)
}
