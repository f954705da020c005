// Package llm is a multi-provider chat client: it assembles
// provider-specific requests for OpenAI, Anthropic, OpenRouter and any
// OpenAI-compatible endpoint, decodes their responses into one message
// model, and drives the model/tool-call loop against locally registered
// tool handlers.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Route values accepted by OpenRouter.
const (
	// RouteFallback asks OpenRouter to fall back to an equivalently priced
	// model when the primary is unavailable.
	RouteFallback = "fallback"
)

// Config holds the required settings for a new Client.
// Everything else is set through the With* builder methods.
type Config struct {
	Provider  Provider
	APIKey    string
	Model     string
	System    string        // Optional initial system prompt
	MaxTokens int           // Optional; 0 means the provider default
	Timeout   time.Duration // Optional request timeout; 0 means none
}

// Client holds one conversation with a model behind one provider.
// It is not safe for concurrent use; run independent conversations on
// independent clients.
//
// Example:
//
//	client, err := llm.NewClient(llm.Config{
//	    Provider: llm.OpenAI(),
//	    APIKey:   apiKey,
//	    Model:    "gpt-4o-mini",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := client.Ask(ctx, "Hello, computer!")
type Client struct {
	Provider Provider
	APIKey   string
	Model    string
	Timeout  time.Duration // 0 means no timeout

	// Sampling parameters. The zero values below are the request defaults;
	// fields whose default is non-zero are set by NewClient.
	Temperature       float64 // default 1.0
	TopP              float64 // default 1.0
	TopK              int
	FrequencyPenalty  float64
	PresencePenalty   float64
	RepetitionPenalty float64 // default 1.0, OpenRouter only
	MinP              float64 // OpenRouter only
	TopA              float64 // OpenRouter only

	// Optional request fields. Zero/empty means absent on the wire.
	Seed          int64
	MaxTokens     int
	ProviderOrder []string // OpenRouter only
	Models        []string // OpenRouter only
	Route         string   // OpenRouter only; RouteFallback or empty
	Tools         []*Tool
	System        string
	Stream        bool

	// Messages is the conversation history in insertion order.
	Messages []Message

	maxToolRounds int

	transport Transport
	logger    Logger
	limiter   *rate.Limiter

	cache        Cache
	cacheEnabled bool
	cacheTTL     time.Duration

	conversationID string
}

// NewClient constructs a Client with the default sampling parameters.
// The API key is required for every provider except OpenAICompliant,
// where local servers commonly run without auth.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" && cfg.Provider.requiresKey() {
		return nil, ErrAPIKey
	}

	return &Client{
		Provider:          cfg.Provider,
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		System:            cfg.System,
		MaxTokens:         cfg.MaxTokens,
		Timeout:           cfg.Timeout,
		Temperature:       1.0,
		TopP:              1.0,
		RepetitionPenalty: 1.0,
		maxToolRounds:     5,
		transport:         NewHTTPTransport(),
		conversationID:    uuid.NewString(),
	}, nil
}

// WithTransport replaces the HTTP transport. Tests use this to script
// responses without a network.
func (c *Client) WithTransport(t Transport) *Client {
	c.transport = t
	return c
}

// WithTemperature sets the sampling temperature. Default is 1.0.
func (c *Client) WithTemperature(temperature float64) *Client {
	c.Temperature = temperature
	return c
}

// WithTopP sets the nucleus sampling probability. Default is 1.0.
func (c *Client) WithTopP(topP float64) *Client {
	c.TopP = topP
	return c
}

// WithTopK sets top-k sampling. Sent to Anthropic and OpenRouter only.
func (c *Client) WithTopK(topK int) *Client {
	c.TopK = topK
	return c
}

// WithFrequencyPenalty sets the frequency penalty (-2.0 to 2.0).
func (c *Client) WithFrequencyPenalty(penalty float64) *Client {
	c.FrequencyPenalty = penalty
	return c
}

// WithPresencePenalty sets the presence penalty (-2.0 to 2.0).
func (c *Client) WithPresencePenalty(penalty float64) *Client {
	c.PresencePenalty = penalty
	return c
}

// WithRepetitionPenalty sets the OpenRouter repetition penalty. Default 1.0.
func (c *Client) WithRepetitionPenalty(penalty float64) *Client {
	c.RepetitionPenalty = penalty
	return c
}

// WithMinP sets the OpenRouter min-p sampling floor.
func (c *Client) WithMinP(minP float64) *Client {
	c.MinP = minP
	return c
}

// WithTopA sets the OpenRouter top-a sampling parameter.
func (c *Client) WithTopA(topA float64) *Client {
	c.TopA = topA
	return c
}

// WithSeed sets a seed for reproducible sampling. 0 means absent.
func (c *Client) WithSeed(seed int64) *Client {
	c.Seed = seed
	return c
}

// WithMaxTokens caps the number of generated tokens. 0 means absent.
func (c *Client) WithMaxTokens(maxTokens int) *Client {
	c.MaxTokens = maxTokens
	return c
}

// WithProviderOrder sets the OpenRouter upstream provider preference order.
func (c *Client) WithProviderOrder(order ...string) *Client {
	c.ProviderOrder = order
	return c
}

// WithModels sets the OpenRouter alternate model list.
func (c *Client) WithModels(models ...string) *Client {
	c.Models = models
	return c
}

// WithFallbackRoute enables OpenRouter fallback routing.
func (c *Client) WithFallbackRoute() *Client {
	c.Route = RouteFallback
	return c
}

// WithStream sets the stream flag on outgoing requests. The client still
// consumes complete JSON bodies; this only shapes the request.
func (c *Client) WithStream(stream bool) *Client {
	c.Stream = stream
	return c
}

// WithTimeout sets the per-request timeout carried to the transport.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.Timeout = timeout
	return c
}

// WithTool registers a tool the model may call.
//
// Example:
//
//	tool := llm.NewTool("get_weather", "Get weather for a location").
//	    AddParameter("location", "string", "City name", true).
//	    WithHandler(func(args string) (string, error) {
//	        return "Sunny, 25°C", nil
//	    })
//	client.WithTool(tool)
func (c *Client) WithTool(tool *Tool) *Client {
	c.Tools = append(c.Tools, tool)
	return c
}

// WithTools registers multiple tools at once.
func (c *Client) WithTools(tools ...*Tool) *Client {
	c.Tools = append(c.Tools, tools...)
	return c
}

// WithMaxToolRounds bounds the number of model calls Ask may issue while
// resolving tool calls. Default is 5.
func (c *Client) WithMaxToolRounds(max int) *Client {
	c.maxToolRounds = max
	return c
}

// WithLogger sets a custom logger. Default is NoopLogger.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

// WithDebugLogging enables debug-level logging to stdout.
func (c *Client) WithDebugLogging() *Client {
	c.logger = NewStdLogger(LogLevelDebug)
	return c
}

// WithInfoLogging enables info-level logging to stdout.
func (c *Client) WithInfoLogging() *Client {
	c.logger = NewStdLogger(LogLevelInfo)
	return c
}

// WithRateLimit throttles outgoing model requests to rps requests per
// second with the given burst.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// getLogger returns the configured logger or NoopLogger if none is set.
func (c *Client) getLogger() Logger {
	if c.logger == nil {
		return &NoopLogger{}
	}
	return c.logger
}

// log returns the conversation-scoped logger: every entry carries the
// conversation id and provider.
func (c *Client) log() Logger {
	return withFields(c.getLogger(),
		F("conversation_id", c.conversationID),
		F("provider", c.Provider.String()))
}

// AddSystem appends a system message. For Anthropic the content is folded
// into the client's System field at request-build time (the messages array
// never carries system roles there).
func (c *Client) AddSystem(text string) *Client {
	c.Messages = append(c.Messages, System(text))
	return c
}

// AddSystemCached is AddSystem with the prompt-cache annotation set.
// Providers that place the system prompt outside the messages array drop
// the annotation.
func (c *Client) AddSystemCached(text string) *Client {
	c.Messages = append(c.Messages, SystemCached(text))
	return c
}

// AddUser appends a user message.
func (c *Client) AddUser(text string) *Client {
	c.Messages = append(c.Messages, User(text))
	return c
}

// AddUserCached appends a user message marked for prompt caching.
func (c *Client) AddUserCached(text string) *Client {
	c.Messages = append(c.Messages, UserCached(text))
	return c
}

// AddAssistant appends an assistant message.
func (c *Client) AddAssistant(text string) *Client {
	c.Messages = append(c.Messages, Assistant(text))
	return c
}

// AddAssistantCached appends an assistant message marked for prompt caching.
func (c *Client) AddAssistantCached(text string) *Client {
	c.Messages = append(c.Messages, AssistantCached(text))
	return c
}

// UpdateFromResponse appends the response's top assistant message to the
// conversation. A status outside 200-299 returns *HTTPError and leaves the
// conversation untouched.
func (c *Client) UpdateFromResponse(resp *HTTPResponse) error {
	if resp.Status < 200 || resp.Status > 299 {
		return &HTTPError{Status: resp.Status, Body: string(resp.Body)}
	}

	msg, err := DecodeTopMessage(resp.Body)
	if err != nil {
		return err
	}
	c.Messages = append(c.Messages, msg)
	return nil
}

// send performs one model request through the transport, honoring the
// rate limiter when one is configured.
func (c *Client) send(ctx context.Context, req *Request) (*HTTPResponse, error) {
	logger := c.log()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		logger.Error(ctx, "transport error", F("error", err.Error()))
		return nil, err
	}

	logger.Debug(ctx, "request sent",
		F("status", resp.Status),
		F("duration_ms", time.Since(start).Milliseconds()))
	return resp, nil
}

// requestAndUpdate runs one full request/decode/append cycle.
func (c *Client) requestAndUpdate(ctx context.Context, choice ToolChoice) error {
	req, err := c.BuildHTTPRequest(choice)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return c.UpdateFromResponse(resp)
}

// Ask appends a user message, runs the request cycle (resolving tool calls
// through the registered tools' handlers), and returns the assistant text.
//
// Example:
//
//	answer, err := client.Ask(ctx, "What is the capital of France?")
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	logger := c.log()

	if c.cacheEnabled && c.cache != nil {
		key := cacheKey(c.Model, text, c.Temperature, c.System)
		if cached, found, err := c.cache.Get(ctx, key); err == nil && found {
			logger.Info(ctx, "cache hit", F("cache_key", key))
			return cached, nil
		}
	}

	c.AddUser(text)

	if err := c.requestAndUpdate(ctx, ToolChoiceAuto()); err != nil {
		return "", err
	}

	if len(c.Tools) > 0 {
		if err := c.HandleToolCalls(ctx, c.handlerMap(), c.maxToolRounds); err != nil {
			return "", err
		}
	}

	answer := ""
	if len(c.Messages) > 0 {
		answer = c.Messages[len(c.Messages)-1].Content
	}

	if c.cacheEnabled && c.cache != nil {
		key := cacheKey(c.Model, text, c.Temperature, c.System)
		ttl := c.cacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		_ = c.cache.Set(ctx, key, answer, ttl)
	}

	return answer, nil
}

// handlerMap collects the registered tools' handlers keyed by tool name.
// Tools without a handler are left out; the loop answers calls to them
// with its missing-tool message.
func (c *Client) handlerMap() HandlerMap {
	handlers := make(HandlerMap, len(c.Tools))
	for _, tool := range c.Tools {
		if tool.Handler != nil {
			handlers[tool.Name] = tool.Handler
		}
	}
	return handlers
}

// foldSystemMessages merges system-role message content into the System
// field with "\n" separators, skipping content System already contains,
// and returns the messages with system roles stripped. Used for Anthropic
// request building; the merge persists on the client, the strip does not.
func (c *Client) foldSystemMessages() []Message {
	kept := make([]Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Role != "system" {
			kept = append(kept, msg)
			continue
		}
		if !strings.Contains(c.System, msg.Content) {
			if c.System == "" {
				c.System = msg.Content
			} else {
				c.System += "\n" + msg.Content
			}
		}
	}
	return kept
}
