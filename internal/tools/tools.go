package tools

import (
	"encoding/json"

	ai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Tool is the generic interface for all tools the model may invoke.
// Execute receives the raw JSON arguments produced by the model and
// returns the JSON-serialized result appended as the tool message.
type Tool interface {
	Name() string
	Definition() ai.Tool
	Execute(args json.RawMessage) (string, error)
}

// Registry is an explicit mapping from tool name to tool, constructed
// once at startup and passed to the conversation engine.
type Registry struct {
	tools map[string]Tool
	names []string
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool),
	}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.names = append(r.names, name)
	}
	r.tools[name] = tool
	zap.S().Infow("Registered tool", "tool", name)
}

// Get retrieves a tool by exact name
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Definitions returns the declarations for all registered tools in
// registration order.
func (r *Registry) Definitions() []ai.Tool {
	defs := make([]ai.Tool, 0, len(r.names))
	for _, name := range r.names {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch executes a single tool call requested by the model. An
// unrecognized tool name is tolerated and yields the empty object, so
// the conversation continues; malformed arguments fail the call.
func (r *Registry) Dispatch(call ai.ToolCall) (string, error) {
	name := call.Function.Name
	tool, ok := r.tools[name]
	if !ok {
		zap.S().Warnw("Unknown tool requested", "tool", name)
		return "{}", nil
	}

	zap.S().Infow("Tool called", "tool", name)
	return tool.Execute(json.RawMessage(call.Function.Arguments))
}
