package provider

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// The tool catalog is exchanged in MCP schema form; each backend wants its
// own JSON Schema framing. All three converters return nil for an empty
// catalog so no tools field appears on the wire.

// ConvertToolSpecsToOpenAI converts MCP tools to OpenAI function tools.
func ConvertToolSpecsToOpenAI(specs []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(specs))
	for i, tool := range specs {
		params := openai.FunctionParameters{
			"type":       tool.InputSchema.Type,
			"properties": tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			params["required"] = tool.InputSchema.Required
		}

		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  params,
			},
		)
	}
	return result
}

// ConvertToolSpecsToAnthropic converts MCP tools to Anthropic's tool params.
func ConvertToolSpecsToAnthropic(specs []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(specs))
	for i, tool := range specs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

// ConvertToolSpecsToOllama converts MCP tools to Ollama api tools.
func ConvertToolSpecsToOllama(specs []mcptypes.Tool) []api.Tool {
	if len(specs) == 0 {
		return nil
	}

	result := make([]api.Tool, 0, len(specs))
	for _, tool := range specs {
		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  convertInputSchemaToOllama(tool.InputSchema),
			},
		})
	}
	return result
}

func convertInputSchemaToOllama(schema mcptypes.ToolInputSchema) api.ToolFunctionParameters {
	params := api.ToolFunctionParameters{
		Type:       schema.Type,
		Required:   schema.Required,
		Properties: make(map[string]api.ToolProperty),
	}
	for name, value := range schema.Properties {
		params.Properties[name] = convertOllamaProperty(value)
	}
	return params
}

func convertOllamaProperty(value any) api.ToolProperty {
	prop := api.ToolProperty{}

	propMap, ok := value.(map[string]any)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			return prop
		}
		if err := json.Unmarshal(raw, &propMap); err != nil {
			return prop
		}
	}

	switch t := propMap["type"].(type) {
	case string:
		prop.Type = api.PropertyType{t}
	case []string:
		prop.Type = api.PropertyType(t)
	case []any:
		types := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
		prop.Type = api.PropertyType(types)
	}

	if desc, ok := propMap["description"].(string); ok {
		prop.Description = desc
	}
	switch enum := propMap["enum"].(type) {
	case []any:
		prop.Enum = enum
	case []string:
		values := make([]any, len(enum))
		for i, v := range enum {
			values[i] = v
		}
		prop.Enum = values
	}
	if items, ok := propMap["items"]; ok {
		prop.Items = items
	}

	return prop
}
