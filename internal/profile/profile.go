package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"trollfaceiv/mebot/internal/config"
)

// Profile holds the textual knowledge about the person the bot acts as.
// Assembled once at startup, immutable afterwards.
type Profile struct {
	Name        string
	Summary     string
	Resume      string
	LinkedInURL string
	GitHubURL   string
	CVPath      string
}

// Load reads Profile.pdf and summary.txt from the profile directory.
// There is no degraded mode: a missing or unreadable source is fatal
// to startup.
func Load(cfg *config.ProfileConfig) (*Profile, error) {
	resumePath := filepath.Join(cfg.Dir, "Profile.pdf")
	summaryPath := filepath.Join(cfg.Dir, "summary.txt")

	resume, err := extractPDFText(resumePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile pdf %s: %w", resumePath, err)
	}

	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", summaryPath, err)
	}

	p := &Profile{
		Name:        cfg.Name,
		Summary:     string(summary),
		Resume:      resume,
		LinkedInURL: cfg.LinkedInURL,
		GitHubURL:   cfg.GitHubURL,
		CVPath:      filepath.Join(cfg.Dir, "CV.pdf"),
	}

	zap.S().Infow("Loaded profile",
		"name", p.Name,
		"summary_chars", len(p.Summary),
		"resume_chars", len(p.Resume),
	)

	return p, nil
}

// extractPDFText concatenates the plain text of every page in page order.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

// Excerpt returns the first n bytes of the summary, with an ellipsis
// marker appended when the summary was truncated.
func (p *Profile) Excerpt(n int) string {
	if len(p.Summary) <= n {
		return p.Summary
	}
	return p.Summary[:n] + "..."
}

// SystemPrompt builds the persona prompt the conversation engine sends
// as the first message of every turn.
func (p *Profile) SystemPrompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are acting as %s. You are answering questions on %s's website, "+
		"particularly questions related to %s's career, background, skills and experience. "+
		"Your responsibility is to represent %s for interactions on the website as faithfully as possible. "+
		"You are given a summary of %s's background and LinkedIn profile which you can use to answer questions. "+
		"Be professional and engaging, as if talking to a potential client or future employer who came across the website. "+
		"If you don't know the answer to any question, use your record_unknown_question tool to record the question that you couldn't answer, even if it's about something trivial or unrelated to career. "+
		"If the user is engaging in discussion, try to steer them towards getting in touch via email; ask for their email and record it using your record_user_details tool. ",
		p.Name, p.Name, p.Name, p.Name, p.Name)

	fmt.Fprintf(&b, "\n\n## Summary:\n%s\n\n## LinkedIn Profile:\n%s\n\n", p.Summary, p.Resume)
	fmt.Fprintf(&b, "With this context, please chat with the user, always staying in character as %s.", p.Name)

	return b.String()
}
