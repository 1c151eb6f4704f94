package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	ai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"trollfaceiv/mebot/internal/notify"
)

const recordedOK = `{"recorded": "ok"}`

// decodeArgs parses tool arguments into the tool's typed argument
// struct, rejecting fields outside the declared schema.
func decodeArgs(args json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// RecordUserDetails captures a visitor's contact details and pushes a
// notification about the new contact.
type RecordUserDetails struct {
	pusher notify.Pusher
}

func NewRecordUserDetails(pusher notify.Pusher) *RecordUserDetails {
	return &RecordUserDetails{pusher: pusher}
}

type userDetailsArgs struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

func (t *RecordUserDetails) Name() string { return "record_user_details" }

func (t *RecordUserDetails) Definition() ai.Tool {
	return ai.Tool{
		Type: ai.ToolTypeFunction,
		Function: &ai.FunctionDefinition{
			Name:        t.Name(),
			Description: "Use this tool to record that a user is interested in being in touch and provided an email address",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"email": {
						Type:        jsonschema.String,
						Description: "The email address of this user",
					},
					"name": {
						Type:        jsonschema.String,
						Description: "The user's name, if they provided it",
					},
					"notes": {
						Type:        jsonschema.String,
						Description: "Any additional notes about the contact",
					},
				},
				Required:             []string{"email"},
				AdditionalProperties: false,
			},
		},
	}
}

func (t *RecordUserDetails) Execute(args json.RawMessage) (string, error) {
	var a userDetailsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Email == "" {
		return "", fmt.Errorf("missing required field: email")
	}
	if a.Name == "" {
		a.Name = "Name not provided"
	}
	if a.Notes == "" {
		a.Notes = "not provided"
	}

	t.pusher.Push(fmt.Sprintf("Recording interest from %s, with %s, and notes %s", a.Name, a.Email, a.Notes))
	return recordedOK, nil
}

// RecordUnknownQuestion records a question the model could not answer
// and pushes a notification about it.
type RecordUnknownQuestion struct {
	pusher notify.Pusher
}

func NewRecordUnknownQuestion(pusher notify.Pusher) *RecordUnknownQuestion {
	return &RecordUnknownQuestion{pusher: pusher}
}

type unknownQuestionArgs struct {
	Question string `json:"question"`
}

func (t *RecordUnknownQuestion) Name() string { return "record_unknown_question" }

func (t *RecordUnknownQuestion) Definition() ai.Tool {
	return ai.Tool{
		Type: ai.ToolTypeFunction,
		Function: &ai.FunctionDefinition{
			Name:        t.Name(),
			Description: "Always use this tool to record any question that couldn't be answered as you didn't know the answer",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question": {
						Type:        jsonschema.String,
						Description: "The question that couldn't be answered",
					},
				},
				Required:             []string{"question"},
				AdditionalProperties: false,
			},
		},
	}
}

func (t *RecordUnknownQuestion) Execute(args json.RawMessage) (string, error) {
	var a unknownQuestionArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Question == "" {
		return "", fmt.Errorf("missing required field: question")
	}

	t.pusher.Push(fmt.Sprintf("Recording %s asked that I couldn't answer", a.Question))
	return recordedOK, nil
}
