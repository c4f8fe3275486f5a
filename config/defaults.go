package config

const (
	DefaultEndpoint          = "https://models.inference.ai.azure.com"
	DefaultModel             = "gpt-4o"
	DefaultSearchEndpoint    = "https://api.tavily.com/search"
	DefaultImageEndpoint     = "https://pollinations.ai"
	DefaultReasoningEndpoint = "https://text.pollinations.ai/openai"
	DefaultReasoningModel    = "openai-reasoning"
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/glint",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		API: APIConfig{
			Provider:          "openai",
			Endpoint:          DefaultEndpoint,
			Model:             DefaultModel,
			SearchEndpoint:    DefaultSearchEndpoint,
			ImageEndpoint:     DefaultImageEndpoint,
			ReasoningEndpoint: DefaultReasoningEndpoint,
			ReasoningModel:    DefaultReasoningModel,
			Temperature:       0.7,
			MaxTokens:         8000,
		},
		Streaming: true,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Glint System Configuration
# Location: ~/.config/glint/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/glint"
`
}

func GenerateUserConfigTemplate() string {
	return `# Glint User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[api]
# Completion provider: "openai" (any OpenAI-compatible endpoint),
# "anthropic" or "ollama"
provider = "openai"

# Completion endpoint base URL
endpoint = "` + DefaultEndpoint + `"

# API key for the completion endpoint
api_key = ""

# Model to use for completions
model = "` + DefaultModel + `"

# Tavily API key for the performWebSearch tool
search_api_key = ""

# Search provider endpoint
search_endpoint = "` + DefaultSearchEndpoint + `"

# Image generation service base URL
image_endpoint = "` + DefaultImageEndpoint + `"

# Dedicated endpoint and model for the performReasoning tool
reasoning_endpoint = "` + DefaultReasoningEndpoint + `"
reasoning_model = "` + DefaultReasoningModel + `"

# Sampling temperature (0.0 - 2.0)
temperature = 0.7

# Response token cap (100 - 8000)
max_tokens = 8000

# Default system prompt prefix for new conversations (optional)
default_system_prompt = ""

# Dark color palette
dark_mode = false

# Stream assistant answers token by token
streaming = true
`
}
