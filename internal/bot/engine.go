package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	ai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"trollfaceiv/mebot/internal/config"
	"trollfaceiv/mebot/internal/core"
	"trollfaceiv/mebot/internal/profile"
	"trollfaceiv/mebot/internal/tools"
)

// ErrToolLoopExceeded is returned when a single chat turn needs more
// completion round trips than the configured maximum.
var ErrToolLoopExceeded = errors.New("tool loop exceeded maximum round trips")

// Completer is the remote chat-completion endpoint. *openai.Client
// satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req ai.ChatCompletionRequest) (ai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a go-openai client against the configured
// OpenAI-compatible base URL.
func NewOpenAIClient(cfg *config.APIConfig) *ai.Client {
	clientConfig := ai.DefaultConfig(cfg.Key)
	if cfg.URL != "" {
		clientConfig.BaseURL = cfg.URL
	}
	return ai.NewClientWithConfig(clientConfig)
}

// Engine runs one chat turn at a time: system prompt + history + user
// message to the model, dispatching requested tool calls until the
// model produces a plain answer.
type Engine struct {
	llm      Completer
	profile  *profile.Profile
	registry *tools.Registry
	model    *config.ModelConfig
	timeout  time.Duration
}

func NewEngine(cfg *config.Configuration, llm Completer, p *profile.Profile, registry *tools.Registry) *Engine {
	return &Engine{
		llm:      llm,
		profile:  p,
		registry: registry,
		model:    cfg.Model,
		timeout:  cfg.API.Timeout,
	}
}

// Chat processes one user message against the supplied history and
// returns the final assistant answer. History holds only user and
// assistant messages; intermediate tool traffic stays inside the turn.
func (e *Engine) Chat(ctx context.Context, message string, history []ai.ChatCompletionMessage) (string, error) {
	log := core.GetLogger()
	defer core.LogDuration(log, "chat_turn", time.Now())

	messages := make([]ai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleSystem,
		Content: e.profile.SystemPrompt(),
	})
	messages = append(messages, history...)
	messages = append(messages, ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleUser,
		Content: message,
	})

	maxRounds := e.model.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = 10
	}

	for round := 0; round < maxRounds; round++ {
		choice, err := e.complete(ctx, messages)
		if err != nil {
			return "", err
		}

		if choice.FinishReason != ai.FinishReasonToolCalls {
			return choice.Message.Content, nil
		}

		log.Infow("Model requested tools", "round", round+1, "calls", len(choice.Message.ToolCalls))

		// The assistant's tool-call message precedes its results,
		// one result per call, correlated by id.
		messages = append(messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			result, err := e.registry.Dispatch(call)
			if err != nil {
				return "", fmt.Errorf("tool %s failed: %w", call.Function.Name, err)
			}
			messages = append(messages, ai.ChatCompletionMessage{
				Role:       ai.ChatMessageRoleTool,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	return "", ErrToolLoopExceeded
}

func (e *Engine) complete(ctx context.Context, messages []ai.ChatCompletionMessage) (ai.ChatCompletionChoice, error) {
	timeout, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.llm.CreateChatCompletion(timeout, ai.ChatCompletionRequest{
		Model:       e.model.Model,
		Messages:    messages,
		Tools:       e.registry.Definitions(),
		MaxTokens:   e.model.MaxTokens,
		Temperature: e.model.Temperature,
	})
	if err != nil {
		return ai.ChatCompletionChoice{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return ai.ChatCompletionChoice{}, fmt.Errorf("empty completion response")
	}

	return response.Choices[0], nil
}
