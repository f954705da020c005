package llm

import (
	"context"
	"math"
)

// Handler is the tool handler contract: raw JSON arguments text in,
// human-readable result out. Handlers parse their own arguments and
// should translate recognised failure modes into readable strings,
// reserving the error return for catastrophic conditions.
type Handler func(args string) (string, error)

// HandlerMap routes tool calls by function name.
type HandlerMap map[string]Handler

// missingToolResult is sent back to the model when it calls a tool the
// host has no handler for. A missing tool is conversation data, not an
// error: the model gets to recover.
const missingToolResult = "Error: the requested tool could not be found on the host machine."

// HandleToolCalls drives the model/tool exchange until the model stops
// requesting tools or maxModelCalls requests have been issued.
// maxModelCalls <= 0 means no practical bound.
//
// Each round dispatches the last assistant message's tool calls in order,
// appends their results, and issues one more model request. When only one
// call remains in the budget the request's tool choice is forced to None.
// The loop stops once the budget is spent even if the last assistant
// message still carries tool calls; those are left unanswered.
//
// A handler error aborts the loop; tool results appended before the
// failure stay in the conversation. An HTTP or transport error aborts the
// same way.
func (c *Client) HandleToolCalls(ctx context.Context, handlers HandlerMap, maxModelCalls int) error {
	if maxModelCalls <= 0 {
		maxModelCalls = math.MaxUint32
	}
	return c.handleToolCalls(ctx, handlers, maxModelCalls)
}

func (c *Client) handleToolCalls(ctx context.Context, handlers HandlerMap, budget int) error {
	if budget == 0 || len(c.Messages) == 0 {
		return nil
	}

	last := c.Messages[len(c.Messages)-1]
	if last.Role != "assistant" || len(last.ToolCalls) == 0 {
		return nil
	}

	logger := c.log()

	choice := ToolChoiceAuto()
	if budget <= 1 {
		choice = ToolChoiceNone()
	}

	for _, call := range last.ToolCalls {
		handler, ok := handlers[call.Function.Name]
		if !ok {
			logger.Warn(ctx, "tool not found", F("tool_name", call.Function.Name))
			c.Messages = append(c.Messages, toolResult(call, missingToolResult))
			continue
		}

		output, err := handler(call.Function.Arguments)
		if err != nil {
			logger.Error(ctx, "tool handler failed",
				F("tool_name", call.Function.Name),
				F("error", err.Error()))
			return WrapToolExecution(call.Function.Name, err)
		}

		logger.Debug(ctx, "tool executed",
			F("tool_name", call.Function.Name),
			F("result_length", len(output)))
		c.Messages = append(c.Messages, toolResult(call, output))
	}

	if err := c.requestAndUpdate(ctx, choice); err != nil {
		return err
	}

	return c.handleToolCalls(ctx, handlers, budget-1)
}
