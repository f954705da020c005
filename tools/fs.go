package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taipm/go-llm-client/llm"
)

// resolveSandboxed joins a model-supplied relative path onto root and
// rejects anything that escapes it.
func resolveSandboxed(root, rel string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	joined := filepath.Clean(filepath.Join(abs, rel))
	if joined != abs && !strings.HasPrefix(joined, abs+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the sandbox root")
	}
	return joined, nil
}

// ReadFile returns a tool that reads a text file under root. Paths are
// resolved relative to root and may not escape it.
//
// Example:
//
//	client.WithTool(tools.ReadFile("/srv/docs"))
func ReadFile(root string) *llm.Tool {
	return llm.NewTool("read_file", "Read a text file from the sandboxed directory").
		AddParameter("path", "string", "File path relative to the sandbox root", true).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Path string `json:"path"`
			}
			if err := json.Unmarshal([]byte(args), &params); err != nil {
				return fmt.Sprintf("Error: invalid arguments: %v", err), nil
			}

			path, err := resolveSandboxed(root, params.Path)
			if err != nil {
				return fmt.Sprintf("Error: %v", err), nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Sprintf("Error: cannot read file: %v", err), nil
			}
			return string(data), nil
		})
}

// ListDir returns a tool that lists a directory under root.
func ListDir(root string) *llm.Tool {
	return llm.NewTool("list_dir", "List the entries of a directory in the sandboxed directory").
		AddParameter("path", "string", "Directory path relative to the sandbox root; empty for the root itself", false).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Path string `json:"path"`
			}
			if args != "" {
				if err := json.Unmarshal([]byte(args), &params); err != nil {
					return fmt.Sprintf("Error: invalid arguments: %v", err), nil
				}
			}

			path, err := resolveSandboxed(root, params.Path)
			if err != nil {
				return fmt.Sprintf("Error: %v", err), nil
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return fmt.Sprintf("Error: cannot list directory: %v", err), nil
			}

			var sb strings.Builder
			for _, entry := range entries {
				if entry.IsDir() {
					sb.WriteString(entry.Name() + "/\n")
				} else {
					sb.WriteString(entry.Name() + "\n")
				}
			}
			if sb.Len() == 0 {
				return "(empty directory)", nil
			}
			return sb.String(), nil
		})
}
