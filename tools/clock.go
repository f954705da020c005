// Package tools provides prebuilt tools for the llm client: each is a
// schema plus a handler, ready to register with Client.WithTool.
package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taipm/go-llm-client/llm"
)

// Clock returns a tool reporting the current date and time, optionally
// in a named IANA time zone.
//
// Example:
//
//	client.WithTool(tools.Clock())
func Clock() *llm.Tool {
	return llm.NewTool("current_time", "Get the current date and time, optionally in a specific time zone").
		AddParameter("timezone", "string", "IANA time zone name, e.g. Europe/Paris; defaults to UTC", false).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Timezone string `json:"timezone"`
			}
			if args != "" {
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return fmt.Sprintf("Error: invalid arguments: %v", err), nil
				}
			}

			loc := time.UTC
			if params.Timezone != "" {
				parsed, err := time.LoadLocation(params.Timezone)
				if err != nil {
					return fmt.Sprintf("Error: unknown time zone %q", params.Timezone), nil
				}
				loc = parsed
			}
			return time.Now().In(loc).Format("Monday, 2 January 2006 15:04:05 MST"), nil
		})
}
