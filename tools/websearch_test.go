package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glint/config"
)

func searchWith(t *testing.T, handler http.HandlerFunc, args map[string]any) (string, error) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	settings := testSettings()
	settings.SearchEndpoint = srv.URL

	ws := NewWebSearch(func() config.Settings { return settings }, srv.Client())
	return ws.Execute(context.Background(), args)
}

func TestWebSearchRequestBody(t *testing.T) {
	var captured map[string]any

	result, err := searchWith(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{"answer":"ok","results":[]}`))
	}, map[string]any{
		"query":          "weather in Tokyo",
		"time_range":     "day",
		"max_results":    float64(3),
		"include_images": true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result != `{"answer":"ok","results":[]}` {
		t.Errorf("response not passed through verbatim: %q", result)
	}

	if captured["query"] != "weather in Tokyo" {
		t.Errorf("query = %v", captured["query"])
	}
	if captured["api_key"] != "tvly-test" {
		t.Errorf("api_key = %v", captured["api_key"])
	}
	if captured["search_depth"] != "basic" {
		t.Errorf("search_depth default = %v", captured["search_depth"])
	}
	if captured["max_results"] != float64(3) {
		t.Errorf("max_results = %v", captured["max_results"])
	}
	if captured["include_answer"] != true {
		t.Errorf("include_answer default = %v", captured["include_answer"])
	}
	if captured["time_range"] != "day" {
		t.Errorf("time_range = %v", captured["time_range"])
	}
	if captured["include_images"] != true {
		t.Errorf("include_images = %v", captured["include_images"])
	}
	if _, present := captured["include_raw_content"]; present {
		t.Error("include_raw_content should be omitted when not requested")
	}
	if _, present := captured["days"]; present {
		t.Error("days should be omitted when not requested")
	}
}

func TestWebSearchDomainFilters(t *testing.T) {
	var captured map[string]any

	_, err := searchWith(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{}`))
	}, map[string]any{
		"query":           "go concurrency patterns",
		"include_domains": []any{"go.dev", "pkg.go.dev"},
		"exclude_domains": []any{"example.com"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	domains, ok := captured["include_domains"].([]any)
	if !ok || len(domains) != 2 || domains[0] != "go.dev" {
		t.Errorf("include_domains = %v", captured["include_domains"])
	}
	excluded, ok := captured["exclude_domains"].([]any)
	if !ok || len(excluded) != 1 || excluded[0] != "example.com" {
		t.Errorf("exclude_domains = %v", captured["exclude_domains"])
	}
}

func TestWebSearchUpstreamFailure(t *testing.T) {
	_, err := searchWith(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}, map[string]any{"query": "anything"})

	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestWebSearchMissingQuery(t *testing.T) {
	ws := NewWebSearch(func() config.Settings { return testSettings() }, http.DefaultClient)

	_, err := ws.Execute(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing query")
	}
}
