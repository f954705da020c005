package llm

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "NONE", LogLevelNone.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestStdLoggerThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := &StdLogger{Level: LogLevelWarn, Out: &buf}
	ctx := context.Background()

	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped too")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept too")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "WARN kept")
	assert.Contains(t, out, "ERROR kept too")
}

func TestStdLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &StdLogger{Level: LogLevelDebug, Out: &buf}

	logger.Info(context.Background(), "request sent", F("status", 200), F("model", "m"))
	assert.Contains(t, buf.String(), "request sent status=200 model=m")
}

func TestFieldLoggerPrependsFields(t *testing.T) {
	var buf bytes.Buffer
	base := &StdLogger{Level: LogLevelDebug, Out: &buf}
	logger := withFields(base, F("conversation_id", "c-1"), F("provider", "openai"))

	logger.Info(context.Background(), "request sent", F("status", 200))
	assert.Contains(t, buf.String(), "request sent conversation_id=c-1 provider=openai status=200")
}

func TestWithFieldsNoFieldsReturnsBase(t *testing.T) {
	base := &NoopLogger{}
	assert.Same(t, Logger(base), withFields(base))
}

func TestClientScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	client := mustClient(t, Config{Provider: OpenRouter(), APIKey: "k", Model: "m"})
	client.WithLogger(&StdLogger{Level: LogLevelDebug, Out: &buf})

	client.log().Info(context.Background(), "hello")
	out := buf.String()
	assert.Contains(t, out, "conversation_id="+client.conversationID)
	assert.Contains(t, out, "provider=openrouter")
}
