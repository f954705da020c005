package tools

import (
	"encoding/json"
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/taipm/go-llm-client/llm"
)

// Calculator returns a tool that evaluates arithmetic expressions.
// Evaluation failures are reported back to the model as readable text so
// it can correct the expression.
//
// Example:
//
//	client.WithTool(tools.Calculator())
func Calculator() *llm.Tool {
	return llm.NewTool("calculator", "Evaluate an arithmetic expression, e.g. (2+3)*4 or 10 % 3").
		AddParameter("expression", "string", "The expression to evaluate", true).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Expression string `json:"expression"`
			}
			if err := json.Unmarshal([]byte(args), &params); err != nil {
				return fmt.Sprintf("Error: invalid arguments: %v", err), nil
			}
			if params.Expression == "" {
				return "Error: expression is required", nil
			}

			expr, err := govaluate.NewEvaluableExpression(params.Expression)
			if err != nil {
				return fmt.Sprintf("Error: cannot parse expression: %v", err), nil
			}
			result, err := expr.Evaluate(nil)
			if err != nil {
				return fmt.Sprintf("Error: cannot evaluate expression: %v", err), nil
			}
			return fmt.Sprintf("%v", result), nil
		})
}
