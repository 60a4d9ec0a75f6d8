package services

import (
	"context"
	"errors"
	"testing"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/providers"
)

// recordingProvider captures the conversation it was asked to complete.
type recordingProvider struct {
	name string
	got  []domain.ChatMessage
}

func (p *recordingProvider) Name() string    { return p.name }
func (p *recordingProvider) Available() bool { return true }

func (p *recordingProvider) Complete(ctx context.Context, msgs []domain.ChatMessage) (*providers.Reply, error) {
	p.got = msgs
	return &providers.Reply{Provider: p.name, Text: "ok"}, nil
}

func newChatService(p providers.Provider, maxTurns int) *ChatService {
	return &ChatService{Router: providers.NewRouter(nil, p), MaxTurns: maxTurns}
}

func TestChatService_Complete(t *testing.T) {
	t.Run("routes a valid conversation", func(t *testing.T) {
		p := &recordingProvider{name: "openai"}
		s := newChatService(p, 50)
		reply, err := s.Complete(context.Background(), []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "hello"},
		}, false)
		if err != nil {
			t.Fatal(err)
		}
		if reply.Provider != "openai" || reply.Text != "ok" {
			t.Fatalf("reply = %+v", reply)
		}
	})

	t.Run("empty conversation", func(t *testing.T) {
		s := newChatService(&recordingProvider{name: "openai"}, 50)
		if _, err := s.Complete(context.Background(), nil, false); !errors.Is(err, ErrEmptyConversation) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		s := newChatService(&recordingProvider{name: "openai"}, 50)
		_, err := s.Complete(context.Background(), []domain.ChatMessage{
			{Role: "robot", Content: "beep"},
		}, false)
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("history truncated to most recent turns", func(t *testing.T) {
		p := &recordingProvider{name: "openai"}
		s := newChatService(p, 3)

		msgs := make([]domain.ChatMessage, 0, 10)
		for i := 0; i < 10; i++ {
			role := domain.RoleUser
			if i%2 == 1 {
				role = domain.RoleAssistant
			}
			msgs = append(msgs, domain.ChatMessage{Role: role, Content: string(rune('a' + i))})
		}

		if _, err := s.Complete(context.Background(), msgs, false); err != nil {
			t.Fatal(err)
		}
		if len(p.got) != 3 {
			t.Fatalf("forwarded %d turns; want 3", len(p.got))
		}
		if p.got[2].Content != msgs[9].Content {
			t.Fatalf("kept wrong tail: %+v", p.got)
		}
	})

	t.Run("zero MaxTurns disables truncation", func(t *testing.T) {
		p := &recordingProvider{name: "openai"}
		s := newChatService(p, 0)
		msgs := []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "one"},
			{Role: domain.RoleAssistant, Content: "two"},
			{Role: domain.RoleUser, Content: "three"},
		}
		if _, err := s.Complete(context.Background(), msgs, false); err != nil {
			t.Fatal(err)
		}
		if len(p.got) != 3 {
			t.Fatalf("forwarded %d turns; want all 3", len(p.got))
		}
	})
}
