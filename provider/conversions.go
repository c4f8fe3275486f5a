package provider

import (
	"encoding/json"

	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"glint/model"
)

// ConvertToOpenAIMessages converts provider-agnostic messages to the OpenAI
// chat format. Assistant messages carrying tool calls and tool-result
// messages map to their dedicated parameter shapes so the call/result id
// pairing survives the round trip.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			result = append(result, openai.SystemMessage(msg.Content))

		case "assistant":
			if len(msg.ToolCalls) == 0 {
				result = append(result, openai.AssistantMessage(msg.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{
				ToolCalls: convertToOpenAIToolCalls(msg.ToolCalls),
			}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})

		case "tool":
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))

		default:
			result = append(result, openai.UserMessage(msg.OutboundContent()))
		}
	}

	return result
}

func convertToOpenAIToolCalls(calls []model.ToolCall) []openai.ChatCompletionMessageToolCallUnionParam {
	result := make([]openai.ChatCompletionMessageToolCallUnionParam, len(calls))
	for i, call := range calls {
		args, err := json.Marshal(call.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		result[i] = openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: string(args),
				},
			},
		}
	}
	return result
}

// ConvertToOllamaMessages converts provider-agnostic messages to Ollama's
// chat format. Ollama has no tool-call id plumbing; call order carries the
// pairing instead.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		m := api.Message{
			Role:    msg.Role,
			Content: msg.OutboundContent(),
		}
		if len(msg.ToolCalls) > 0 {
			m.ToolCalls = convertToOllamaToolCalls(msg.ToolCalls)
		}
		result[i] = m
	}
	return result
}

func convertToOllamaToolCalls(calls []model.ToolCall) []api.ToolCall {
	result := make([]api.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		}
	}
	return result
}

// ParseToolArguments parses a JSON arguments string into a map. Malformed
// payloads degrade to an empty argument set rather than failing the call.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
