package tools

import (
	"context"
	"net/url"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"glint/config"
	"glint/model"
)

// ImageGen builds generated-image URLs. No request leaves the process; the
// image service renders on first fetch of the URL.
type ImageGen struct {
	settings func() config.Settings
}

func NewImageGen(settings func() config.Settings) *ImageGen {
	return &ImageGen{settings: settings}
}

func (g *ImageGen) Spec() mcptypes.Tool {
	return mcptypes.Tool{
		Name:        "generateImage",
		Description: "Generates an image using Pollinations.ai based on a text prompt.",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"prompt": map[string]any{
					"type":        "string",
					"description": "A detailed description of the image to generate. Be specific and descriptive for best results.",
				},
			},
			Required: []string{"prompt"},
		},
	}
}

func (g *ImageGen) Execute(ctx context.Context, args map[string]any) (string, error) {
	prompt := argString(args, "prompt")
	if prompt == "" {
		return "", &model.ToolExecutionError{Tool: "generateImage", Reason: "missing prompt"}
	}

	base := strings.TrimRight(g.settings().ImageEndpoint, "/")
	return base + "/prompt/" + url.PathEscape(prompt), nil
}

func (g *ImageGen) Describe(args map[string]any) string {
	return `Generating image: "` + argString(args, "prompt") + `"`
}
