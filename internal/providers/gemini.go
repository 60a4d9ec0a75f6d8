package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// geminiModel is the default Gemini completion model.
const geminiModel = "gemini-1.5-flash"

// Gemini is the second provider in the fallback chain. Replies are buffered;
// the SDK does the transport work.
type Gemini struct {
	key   string
	model string
}

// NewGemini constructs the provider. An empty key leaves it unavailable.
func NewGemini(key string) *Gemini {
	return &Gemini{key: key, model: geminiModel}
}

// Name implements Provider.
func (p *Gemini) Name() string { return "gemini" }

// Available implements Provider.
func (p *Gemini) Available() bool { return p.key != "" }

// Complete maps the conversation onto a Gemini chat session and returns the
// buffered reply text.
func (p *Gemini) Complete(ctx context.Context, msgs []domain.ChatMessage) (*Reply, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.key))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(Persona)}}

	history, last := splitHistory(msgs)
	if last == "" {
		return nil, errors.New("gemini: conversation has no user turn")
	}
	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("gemini: send message: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return nil, errors.New("gemini: empty candidate response")
	}
	return &Reply{Provider: p.Name(), Text: text}, nil
}

// splitHistory converts all turns before the final user message into Gemini
// history content. Gemini names the assistant role "model" and takes system
// text via SystemInstruction, so system turns are folded into user context.
func splitHistory(msgs []domain.ChatMessage) (history []*genai.Content, last string) {
	lastIdx := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return nil, ""
	}
	for _, m := range msgs[:lastIdx] {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history, msgs[lastIdx].Content
}

// collectText flattens all text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
