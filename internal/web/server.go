package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"

	ai "github.com/sashabaranov/go-openai"

	"trollfaceiv/mebot/internal/core"
	"trollfaceiv/mebot/internal/profile"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// ExcerptLimit is how much of the summary the collapsible panel shows.
const ExcerptLimit = 1200

// Chatter is the conversation engine contract consumed by the web
// layer: one user message plus history in, one answer out.
type Chatter interface {
	Chat(ctx context.Context, message string, history []ai.ChatCompletionMessage) (string, error)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ProfileResponse struct {
	Name        string `json:"name"`
	LinkedInURL string `json:"linkedin_url"`
	GitHubURL   string `json:"github_url"`
	Summary     string `json:"summary"`
}

type Server struct {
	engine  Chatter
	profile *profile.Profile
	mux     *http.ServeMux
}

func NewServer(engine Chatter, p *profile.Profile) *Server {
	s := &Server{
		engine:  engine,
		profile: p,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /api/profile", s.handleProfile)
	s.mux.HandleFunc("GET /cv", s.handleCV)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Name        string
		LinkedInURL string
		GitHubURL   string
		Excerpt     string
	}{
		Name:        s.profile.Name,
		LinkedInURL: s.profile.LinkedInURL,
		GitHubURL:   s.profile.GitHubURL,
		Excerpt:     s.profile.Excerpt(ExcerptLimit),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		core.GetLogger().Errorw("Failed to render index", "error", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "missing message")
		return
	}

	history := make([]ai.ChatCompletionMessage, 0, len(req.History))
	for _, msg := range req.History {
		// Only display roles travel back in; system and tool
		// messages never leave the engine.
		if msg.Role != ai.ChatMessageRoleUser && msg.Role != ai.ChatMessageRoleAssistant {
			continue
		}
		history = append(history, ai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	reply, err := s.engine.Chat(r.Context(), req.Message, history)
	if err != nil {
		core.GetLogger().Errorw("Chat turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chat turn failed")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProfileResponse{
		Name:        s.profile.Name,
		LinkedInURL: s.profile.LinkedInURL,
		GitHubURL:   s.profile.GitHubURL,
		Summary:     s.profile.Excerpt(ExcerptLimit),
	})
}

func (s *Server) handleCV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="CV.pdf"`)
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, s.profile.CVPath)
}
