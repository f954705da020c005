package tools

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/taipm/go-llm-client/llm"
)

// lookupEnv is swapped in tests.
var lookupEnv = os.LookupEnv

// EnvVar returns a tool that reads an environment variable from the host
// process. Missing variables are reported as text rather than as errors.
func EnvVar() *llm.Tool {
	return llm.NewTool("get_env_var", "Read an environment variable from the host machine").
		AddParameter("name", "string", "The environment variable name", true).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal([]byte(args), &params); err != nil {
				return fmt.Sprintf("Error: invalid arguments: %v", err), nil
			}
			if params.Name == "" {
				return "Error: name is required", nil
			}

			value, ok := lookupEnv(params.Name)
			if !ok {
				return fmt.Sprintf("Error: environment variable %q is not set", params.Name), nil
			}
			return value, nil
		})
}
