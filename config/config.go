package config

import (
	"fmt"
	"os"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type APIConfig struct {
	Provider          string  `toml:"provider"`
	Endpoint          string  `toml:"endpoint"`
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	SearchAPIKey      string  `toml:"search_api_key"`
	SearchEndpoint    string  `toml:"search_endpoint"`
	ImageEndpoint     string  `toml:"image_endpoint"`
	ReasoningEndpoint string  `toml:"reasoning_endpoint"`
	ReasoningModel    string  `toml:"reasoning_model"`
	Temperature       float64 `toml:"temperature"`
	MaxTokens         int     `toml:"max_tokens"`
}

type UserConfig struct {
	API                 APIConfig `toml:"api"`
	DefaultSystemPrompt string    `toml:"default_system_prompt,omitempty"`
	DarkMode            bool      `toml:"dark_mode"`
	Streaming           bool      `toml:"streaming"`
}

// Settings is the flattened configuration handed to the completion client and
// tool executors. The orchestrator treats it as opaque and passes it through.
type Settings struct {
	Provider          string
	Endpoint          string
	APIKey            string
	Model             string
	SearchAPIKey      string
	SearchEndpoint    string
	ImageEndpoint     string
	ReasoningEndpoint string
	ReasoningModel    string
	Temperature       float64
	MaxTokens         int
	DarkMode          bool
	Streaming         bool
}

type Config struct {
	DataDirectory       string
	Settings            Settings
	DefaultSystemPrompt string
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Clamp enforces the valid ranges for user-tunable sampling settings.
func (s *Settings) Clamp() {
	if s.Temperature < 0 {
		s.Temperature = 0
	}
	if s.Temperature > 2 {
		s.Temperature = 2
	}
	if s.MaxTokens < 100 {
		s.MaxTokens = 100
	}
	if s.MaxTokens > 8000 {
		s.MaxTokens = 8000
	}
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("GLINT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("GLINT_PROVIDER"); provider != "" {
		c.Settings.Provider = provider
	}
	if endpoint := os.Getenv("GLINT_ENDPOINT"); endpoint != "" {
		c.Settings.Endpoint = endpoint
	}
	if key := os.Getenv("GLINT_API_KEY"); key != "" {
		c.Settings.APIKey = key
	}
	if key := os.Getenv("GLINT_SEARCH_API_KEY"); key != "" {
		c.Settings.SearchAPIKey = key
	}
	if model := os.Getenv("GLINT_MODEL"); model != "" {
		c.Settings.Model = model
	}
}

func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.Settings = settingsFromUserConfig(userCfg)
	cfg.DefaultSystemPrompt = userCfg.DefaultSystemPrompt

	// Env overrides win over the user config file as well.
	cfg.applyEnvOverrides()
	cfg.Settings.Clamp()

	return cfg, nil
}

func settingsFromUserConfig(u *UserConfig) Settings {
	return Settings{
		Provider:          u.API.Provider,
		Endpoint:          u.API.Endpoint,
		APIKey:            u.API.APIKey,
		Model:             u.API.Model,
		SearchAPIKey:      u.API.SearchAPIKey,
		SearchEndpoint:    u.API.SearchEndpoint,
		ImageEndpoint:     u.API.ImageEndpoint,
		ReasoningEndpoint: u.API.ReasoningEndpoint,
		ReasoningModel:    u.API.ReasoningModel,
		Temperature:       u.API.Temperature,
		MaxTokens:         u.API.MaxTokens,
		DarkMode:          u.DarkMode,
		Streaming:         u.Streaming,
	}
}

// UserConfigFromSettings is the inverse mapping, used when the settings
// overlay persists edits back to config.toml.
func UserConfigFromSettings(s Settings, defaultSystemPrompt string) *UserConfig {
	return &UserConfig{
		API: APIConfig{
			Provider:          s.Provider,
			Endpoint:          s.Endpoint,
			APIKey:            s.APIKey,
			Model:             s.Model,
			SearchAPIKey:      s.SearchAPIKey,
			SearchEndpoint:    s.SearchEndpoint,
			ImageEndpoint:     s.ImageEndpoint,
			ReasoningEndpoint: s.ReasoningEndpoint,
			ReasoningModel:    s.ReasoningModel,
			Temperature:       s.Temperature,
			MaxTokens:         s.MaxTokens,
		},
		DefaultSystemPrompt: defaultSystemPrompt,
		DarkMode:            s.DarkMode,
		Streaming:           s.Streaming,
	}
}
