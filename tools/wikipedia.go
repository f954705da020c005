package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taipm/go-llm-client/llm"
)

// httpClient is shared by the network-backed tools.
var httpClient = &http.Client{Timeout: 15 * time.Second}

const wikipediaSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// Wikipedia returns a tool fetching the summary of an English Wikipedia
// article by title.
//
// Example:
//
//	client.WithTool(tools.Wikipedia())
func Wikipedia() *llm.Tool {
	return llm.NewTool("wikipedia_summary", "Fetch the summary of an English Wikipedia article").
		AddParameter("title", "string", "The article title, e.g. Alan Turing", true).
		WithHandler(func(args string) (string, error) {
			var params struct {
				Title string `json:"title"`
			}
			if err := json.Unmarshal([]byte(args), &params); err != nil {
				return fmt.Sprintf("Error: invalid arguments: %v", err), nil
			}
			if params.Title == "" {
				return "Error: title is required", nil
			}

			title := url.PathEscape(strings.ReplaceAll(params.Title, " ", "_"))
			resp, err := httpClient.Get(wikipediaSummaryURL + title)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return fmt.Sprintf("Error: no article found for %q", params.Title), nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Sprintf("Error: wikipedia returned status %d", resp.StatusCode), nil
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}
			var summary struct {
				Title   string `json:"title"`
				Extract string `json:"extract"`
			}
			if err := json.Unmarshal(body, &summary); err != nil {
				return fmt.Sprintf("Error: unexpected response shape: %v", err), nil
			}
			if summary.Extract == "" {
				return fmt.Sprintf("Error: article %q has no summary", params.Title), nil
			}
			return summary.Title + ": " + summary.Extract, nil
		})
}
