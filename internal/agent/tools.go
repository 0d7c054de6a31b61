package agent

import (
	"context"
	"errors"
	"fmt"
)

const toolNameAskAgent = "ask_agent"

// ErrToolNotFound means the requested tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

type toolHandler func(ctx context.Context, arguments map[string]interface{}) (interface{}, error)

// ToolDefinition describes one capability exposed over the tool-call API.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	handler     toolHandler
}

var toolOrder = []string{
	toolNameAskAgent,
}

func (a *Agent) buildToolRegistry() map[string]ToolDefinition {
	return map[string]ToolDefinition{
		toolNameAskAgent: {
			Name:        toolNameAskAgent,
			Description: "Ask the appointment agent to run a natural-language command (register, book, cancel, reschedule, query).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"question": map[string]interface{}{
						"type":        "string",
						"description": "The natural-language command or question.",
					},
				},
				"required": []string{"question"},
			},
			handler: a.handleAskAgentTool,
		},
	}
}

// Tools lists the registered tool definitions in a stable order.
func (a *Agent) Tools() []ToolDefinition {
	registry := a.buildToolRegistry()
	tools := make([]ToolDefinition, 0, len(registry))
	for _, name := range toolOrder {
		tools = append(tools, registry[name])
	}
	return tools
}

// CallTool dispatches a named tool invocation.
func (a *Agent) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (interface{}, error) {
	tool, ok := a.buildToolRegistry()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	return tool.handler(ctx, arguments)
}

func (a *Agent) handleAskAgentTool(ctx context.Context, arguments map[string]interface{}) (interface{}, error) {
	question, _ := arguments["question"].(string)
	if question == "" {
		return nil, errors.New("argument 'question' is required")
	}
	return a.HandleQuestion(ctx, question), nil
}
