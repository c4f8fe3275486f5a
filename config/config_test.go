package config

import (
	"path/filepath"
	"testing"
)

func TestClampSamplingRanges(t *testing.T) {
	tests := []struct {
		name     string
		in       Settings
		wantTemp float64
		wantMax  int
	}{
		{"below minimums", Settings{Temperature: -1, MaxTokens: 10}, 0, 100},
		{"above maximums", Settings{Temperature: 3.5, MaxTokens: 100000}, 2, 8000},
		{"in range untouched", Settings{Temperature: 0.7, MaxTokens: 4000}, 0.7, 4000},
		{"boundaries kept", Settings{Temperature: 2, MaxTokens: 100}, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Clamp()
			if tt.in.Temperature != tt.wantTemp {
				t.Errorf("Temperature = %v, want %v", tt.in.Temperature, tt.wantTemp)
			}
			if tt.in.MaxTokens != tt.wantMax {
				t.Errorf("MaxTokens = %d, want %d", tt.in.MaxTokens, tt.wantMax)
			}
		})
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	original := DefaultUserConfig()
	original.API.Provider = "anthropic"
	original.API.APIKey = "sk-test-123"
	original.API.Model = "claude-sonnet-4-5"
	original.API.Temperature = 1.2
	original.API.MaxTokens = 2000
	original.DarkMode = true
	original.Streaming = false
	original.DefaultSystemPrompt = "Answer briefly."

	if err := SaveUserConfig(original, dataDir); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	loaded, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}

	if loaded.API.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", loaded.API.Provider)
	}
	if loaded.API.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, want sk-test-123", loaded.API.APIKey)
	}
	if loaded.API.Temperature != 1.2 {
		t.Errorf("Temperature = %v, want 1.2", loaded.API.Temperature)
	}
	if loaded.API.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", loaded.API.MaxTokens)
	}
	if !loaded.DarkMode {
		t.Error("DarkMode not persisted")
	}
	if loaded.Streaming {
		t.Error("Streaming = true, want false")
	}
	if loaded.DefaultSystemPrompt != "Answer briefly." {
		t.Errorf("DefaultSystemPrompt = %q", loaded.DefaultSystemPrompt)
	}
}

func TestLoadUserConfigCreatesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	loaded, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}

	if loaded.API.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", loaded.API.Provider)
	}
	if loaded.API.SearchEndpoint != DefaultSearchEndpoint {
		t.Errorf("SearchEndpoint = %q, want %q", loaded.API.SearchEndpoint, DefaultSearchEndpoint)
	}
	if !loaded.Streaming {
		t.Error("Streaming should default to true")
	}
	if !FileExists(filepath.Join(dataDir, "config.toml")) {
		t.Error("config.toml was not created")
	}
}

func TestSettingsMappingRoundTrip(t *testing.T) {
	user := DefaultUserConfig()
	user.API.SearchAPIKey = "tvly-abc"
	user.API.ReasoningModel = "deepseek-reasoning"
	user.DarkMode = true

	settings := settingsFromUserConfig(user)
	if settings.SearchAPIKey != "tvly-abc" {
		t.Errorf("SearchAPIKey = %q", settings.SearchAPIKey)
	}
	if settings.ReasoningModel != "deepseek-reasoning" {
		t.Errorf("ReasoningModel = %q", settings.ReasoningModel)
	}

	back := UserConfigFromSettings(settings, "prompt")
	if back.API.SearchAPIKey != user.API.SearchAPIKey {
		t.Errorf("SearchAPIKey lost in round trip: %q", back.API.SearchAPIKey)
	}
	if back.DefaultSystemPrompt != "prompt" {
		t.Errorf("DefaultSystemPrompt = %q", back.DefaultSystemPrompt)
	}
	if !back.DarkMode {
		t.Error("DarkMode lost in round trip")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GLINT_PROVIDER", "ollama")
	t.Setenv("GLINT_ENDPOINT", "http://localhost:11434")
	t.Setenv("GLINT_MODEL", "llama3.2")
	t.Setenv("GLINT_DATA_DIR", "/tmp/glint-test")

	cfg := &Config{DataDirectory: "~/.local/share/glint"}
	cfg.applyEnvOverrides()

	if cfg.Settings.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama", cfg.Settings.Provider)
	}
	if cfg.Settings.Endpoint != "http://localhost:11434" {
		t.Errorf("Endpoint = %q", cfg.Settings.Endpoint)
	}
	if cfg.Settings.Model != "llama3.2" {
		t.Errorf("Model = %q", cfg.Settings.Model)
	}
	if cfg.DataDirectory != "/tmp/glint-test" {
		t.Errorf("DataDirectory = %q", cfg.DataDirectory)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~/.local/share/glint", "/home/tester/.local/share/glint"},
		{"/absolute/path", "/absolute/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
