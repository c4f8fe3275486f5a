package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
	"glint/model"
)

// WebSearch queries the Tavily search API and hands the response back as
// opaque JSON for the model to read.
type WebSearch struct {
	settings   func() config.Settings
	httpClient *http.Client
}

func NewWebSearch(settings func() config.Settings, client *http.Client) *WebSearch {
	return &WebSearch{settings: settings, httpClient: client}
}

func (w *WebSearch) Spec() mcptypes.Tool {
	return mcptypes.Tool{
		Name:        "performWebSearch",
		Description: "Performs a web search using the Tavily API and returns the results.",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query to perform on the web",
				},
				"search_depth": map[string]any{
					"type":        "string",
					"description": "The depth of the search. A basic search costs 1 API Credit, while an advanced search costs 2 API Credits.",
					"enum":        []string{"basic", "advanced"},
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "The maximum number of search results to return (0-20).",
					"minimum":     1,
					"maximum":     20,
				},
				"time_range": map[string]any{
					"type":        "string",
					"description": "The time range back from the current date to filter results.",
					"enum":        []string{"day", "week", "month", "year", "d", "w", "m", "y"},
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of days back from the current date to include. Available only if topic is news.",
					"minimum":     0,
				},
				"include_answer": map[string]any{
					"type":        "boolean",
					"description": "Include an LLM-generated answer to the provided query. basic or true returns a quick answer. advanced returns a more detailed answer.",
				},
				"include_raw_content": map[string]any{
					"type":        "boolean",
					"description": "Include the cleaned and parsed HTML content of each search result.",
				},
				"include_images": map[string]any{
					"type":        "boolean",
					"description": "Also perform an image search and include the results in the response.",
				},
				"include_image_descriptions": map[string]any{
					"type":        "boolean",
					"description": "When include_images is true, also add a descriptive text for each image.",
				},
				"include_domains": map[string]any{
					"type":        "array",
					"description": "A list of domains to specifically include in the search results.",
					"items":       map[string]any{"type": "string"},
				},
				"exclude_domains": map[string]any{
					"type":        "array",
					"description": "A list of domains to specifically exclude from the search results.",
					"items":       map[string]any{"type": "string"},
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchRequest mirrors Tavily's POST body. Optional fields stay absent
// rather than zero-valued so the API applies its own defaults.
type searchRequest struct {
	Query                    string   `json:"query"`
	APIKey                   string   `json:"api_key"`
	SearchDepth              string   `json:"search_depth"`
	MaxResults               int      `json:"max_results"`
	IncludeAnswer            bool     `json:"include_answer"`
	TimeRange                string   `json:"time_range,omitempty"`
	Days                     int      `json:"days,omitempty"`
	IncludeRawContent        *bool    `json:"include_raw_content,omitempty"`
	IncludeImages            *bool    `json:"include_images,omitempty"`
	IncludeImageDescriptions *bool    `json:"include_image_descriptions,omitempty"`
	IncludeDomains           []string `json:"include_domains,omitempty"`
	ExcludeDomains           []string `json:"exclude_domains,omitempty"`
}

func (w *WebSearch) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := argString(args, "query")
	if query == "" {
		return "", &model.ToolExecutionError{Tool: "performWebSearch", Reason: "missing query"}
	}
	settings := w.settings()

	req := searchRequest{
		Query:         query,
		APIKey:        settings.SearchAPIKey,
		SearchDepth:   "basic",
		MaxResults:    5,
		IncludeAnswer: true,
		TimeRange:     argString(args, "time_range"),
	}
	if depth := argString(args, "search_depth"); depth != "" {
		req.SearchDepth = depth
	}
	if n, ok := argInt(args, "max_results"); ok && n > 0 {
		req.MaxResults = n
	}
	if v, ok := args["include_answer"].(bool); ok {
		req.IncludeAnswer = v
	}
	if n, ok := argInt(args, "days"); ok && n > 0 {
		req.Days = n
	}
	if v, ok := args["include_raw_content"].(bool); ok {
		req.IncludeRawContent = &v
	}
	if v, ok := args["include_images"].(bool); ok {
		req.IncludeImages = &v
	}
	if v, ok := args["include_image_descriptions"].(bool); ok {
		req.IncludeImageDescriptions = &v
	}
	req.IncludeDomains = argStrings(args, "include_domains")
	req.ExcludeDomains = argStrings(args, "exclude_domains")

	body, err := json.Marshal(req)
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performWebSearch", Reason: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.SearchEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performWebSearch", Reason: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performWebSearch", Reason: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.ToolExecutionError{Tool: "performWebSearch", Reason: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &model.ToolExecutionError{
			Tool:   "performWebSearch",
			Reason: fmt.Sprintf("search API returned status %d", resp.StatusCode),
		}
	}

	// The response passes through as serialized JSON; the model interprets it.
	return string(payload), nil
}

func (w *WebSearch) Describe(args map[string]any) string {
	query := argString(args, "query")
	desc := `Searching for: "` + query + `"`

	var details []string
	if argString(args, "search_depth") == "advanced" {
		details = append(details, "advanced search")
	}
	if n, ok := argInt(args, "max_results"); ok && n > 0 {
		details = append(details, pluralResults(n))
	}
	if tr := argString(args, "time_range"); tr != "" {
		details = append(details, timeRangePhrase(tr))
	}
	if argBool(args, "include_images") {
		details = append(details, "with images")
	}
	if argBool(args, "include_answer") {
		details = append(details, "with AI summary")
	}

	if len(details) > 0 {
		desc += " (" + strings.Join(details, ", ") + ")"
	}
	return desc
}

func timeRangePhrase(tr string) string {
	switch tr {
	case "day", "d":
		return "past day"
	case "week", "w":
		return "past week"
	case "month", "m":
		return "past month"
	case "year", "y":
		return "past year"
	}
	return tr
}
