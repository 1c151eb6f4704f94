package tools

import (
	"testing"

	ai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePusher records pushed messages for assertions
type fakePusher struct {
	messages []string
}

func (f *fakePusher) Push(message string) {
	f.messages = append(f.messages, message)
}

func newTestRegistry() (*Registry, *fakePusher) {
	pusher := &fakePusher{}
	registry := NewRegistry(
		NewRecordUnknownQuestion(pusher),
		NewRecordUserDetails(pusher),
	)
	return registry, pusher
}

func toolCall(name, args string) ai.ToolCall {
	return ai.ToolCall{
		ID:   "call_1",
		Type: ai.ToolTypeFunction,
		Function: ai.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestRegistryDefinitions(t *testing.T) {
	registry, _ := newTestRegistry()

	defs := registry.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "record_unknown_question", defs[0].Function.Name)
	assert.Equal(t, "record_user_details", defs[1].Function.Name)
	for _, def := range defs {
		assert.Equal(t, ai.ToolTypeFunction, def.Type)
		assert.NotEmpty(t, def.Function.Description)
	}
}

func TestDispatchRecordUserDetails(t *testing.T) {
	registry, pusher := newTestRegistry()

	result, err := registry.Dispatch(toolCall("record_user_details",
		`{"email": "a@b.com", "name": "Ada", "notes": "met at conf"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"recorded": "ok"}`, result)

	require.Len(t, pusher.messages, 1)
	assert.Equal(t, "Recording interest from Ada, with a@b.com, and notes met at conf", pusher.messages[0])
}

func TestDispatchRecordUserDetailsDefaults(t *testing.T) {
	registry, pusher := newTestRegistry()

	result, err := registry.Dispatch(toolCall("record_user_details", `{"email": "a@b.com"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"recorded": "ok"}`, result)

	require.Len(t, pusher.messages, 1)
	assert.Contains(t, pusher.messages[0], "Name not provided")
	assert.Contains(t, pusher.messages[0], "not provided")
	assert.Contains(t, pusher.messages[0], "a@b.com")
}

func TestDispatchRecordUnknownQuestion(t *testing.T) {
	registry, pusher := newTestRegistry()

	result, err := registry.Dispatch(toolCall("record_unknown_question",
		`{"question": "what is your favorite color?"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"recorded": "ok"}`, result)

	require.Len(t, pusher.messages, 1)
	assert.Equal(t, "Recording what is your favorite color? asked that I couldn't answer", pusher.messages[0])
}

func TestDispatchUnknownToolName(t *testing.T) {
	registry, pusher := newTestRegistry()

	result, err := registry.Dispatch(toolCall("no_such_tool", `{"x": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "{}", result)
	assert.Empty(t, pusher.messages)
}

func TestDispatchMalformedArguments(t *testing.T) {
	registry, pusher := newTestRegistry()

	_, err := registry.Dispatch(toolCall("record_unknown_question", `{"question": `))
	assert.Error(t, err)
	assert.Empty(t, pusher.messages)
}

func TestDispatchUndeclaredFieldRejected(t *testing.T) {
	registry, pusher := newTestRegistry()

	_, err := registry.Dispatch(toolCall("record_unknown_question",
		`{"question": "hi", "extra": true}`))
	assert.Error(t, err)
	assert.Empty(t, pusher.messages)
}

func TestDispatchMissingRequiredField(t *testing.T) {
	registry, pusher := newTestRegistry()

	_, err := registry.Dispatch(toolCall("record_user_details", `{"name": "Ada"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Empty(t, pusher.messages)
}

func TestRegistryGet(t *testing.T) {
	registry, _ := newTestRegistry()

	tool, ok := registry.Get("record_user_details")
	assert.True(t, ok)
	assert.NotNil(t, tool)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}
