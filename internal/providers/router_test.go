package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// stubProvider scripts one backend in the chain.
type stubProvider struct {
	name      string
	available bool
	err       error
	calls     int
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }

func (s *stubProvider) Complete(ctx context.Context, msgs []domain.ChatMessage) (*Reply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Reply{Provider: s.name, Text: "answer from " + s.name}, nil
}

var conversation = []domain.ChatMessage{{Role: domain.RoleUser, Content: "hello"}}

func TestRouter_FirstSuccessWins(t *testing.T) {
	primary := &stubProvider{name: "openai", available: true}
	secondary := &stubProvider{name: "gemini", available: true}
	realtime := &stubProvider{name: "perplexity", available: true}

	r := NewRouter(realtime, primary, secondary)
	reply, err := r.Complete(context.Background(), conversation, false)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Provider != "openai" {
		t.Fatalf("provider = %q; want openai", reply.Provider)
	}
	if secondary.calls != 0 || realtime.calls != 0 {
		t.Fatalf("later providers called: gemini=%d perplexity=%d", secondary.calls, realtime.calls)
	}
}

func TestRouter_FallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "openai", available: true, err: errors.New("quota exceeded")}
	secondary := &stubProvider{name: "gemini", available: true}

	r := NewRouter(&stubProvider{name: "perplexity", available: true}, primary, secondary)
	reply, err := r.Complete(context.Background(), conversation, false)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Provider != "gemini" {
		t.Fatalf("provider = %q; want gemini", reply.Provider)
	}
	if primary.calls != 1 {
		t.Fatalf("primary calls = %d; want 1", primary.calls)
	}
}

func TestRouter_SkipsUnavailable(t *testing.T) {
	primary := &stubProvider{name: "openai", available: false}
	secondary := &stubProvider{name: "gemini", available: true}

	r := NewRouter(nil, primary, secondary)
	reply, err := r.Complete(context.Background(), conversation, false)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Provider != "gemini" {
		t.Fatalf("provider = %q; want gemini", reply.Provider)
	}
	if primary.calls != 0 {
		t.Fatal("unavailable provider was called")
	}
}

func TestRouter_RealtimePromotion(t *testing.T) {
	primary := &stubProvider{name: "openai", available: true}
	realtime := &stubProvider{name: "perplexity", available: true}
	r := NewRouter(realtime, primary)

	reply, err := r.Complete(context.Background(), conversation, true)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Provider != "perplexity" {
		t.Fatalf("provider = %q; want perplexity promoted first", reply.Provider)
	}
	if primary.calls != 0 {
		t.Fatal("primary called despite realtime success")
	}
}

func TestRouter_RealtimeFailureFallsBackToChain(t *testing.T) {
	primary := &stubProvider{name: "openai", available: true}
	realtime := &stubProvider{name: "perplexity", available: true, err: errors.New("search down")}
	r := NewRouter(realtime, primary)

	reply, err := r.Complete(context.Background(), conversation, true)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Provider != "openai" {
		t.Fatalf("provider = %q; want openai after realtime failure", reply.Provider)
	}
}

func TestRouter_RealtimeInChainNotTriedTwice(t *testing.T) {
	realtime := &stubProvider{name: "perplexity", available: true, err: errors.New("down")}
	primary := &stubProvider{name: "openai", available: true, err: errors.New("down too")}
	r := NewRouter(realtime, primary, realtime)

	_, err := r.Complete(context.Background(), conversation, true)
	if !errors.Is(err, ErrNoProvider) {
		t.Fatalf("err = %v; want ErrNoProvider", err)
	}
	if realtime.calls != 1 {
		t.Fatalf("realtime tried %d times; want 1", realtime.calls)
	}
}

func TestRouter_AllFail(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		r := NewRouter(nil, &stubProvider{name: "openai"}, &stubProvider{name: "gemini"})
		_, err := r.Complete(context.Background(), conversation, false)
		if !errors.Is(err, ErrNoProvider) {
			t.Fatalf("err = %v; want ErrNoProvider", err)
		}
	})

	t.Run("last error wrapped", func(t *testing.T) {
		lastErr := errors.New("gemini quota")
		r := NewRouter(nil,
			&stubProvider{name: "openai", available: true, err: errors.New("openai down")},
			&stubProvider{name: "gemini", available: true, err: lastErr},
		)
		_, err := r.Complete(context.Background(), conversation, false)
		if !errors.Is(err, ErrNoProvider) || !errors.Is(err, lastErr) {
			t.Fatalf("err = %v; want ErrNoProvider wrapping last provider error", err)
		}
	})
}

func TestWithPersona(t *testing.T) {
	t.Run("prepends persona", func(t *testing.T) {
		out := withPersona(conversation)
		if len(out) != 2 || out[0].Role != domain.RoleSystem || out[0].Content != Persona {
			t.Fatalf("out = %+v", out)
		}
	})
	t.Run("respects caller system turn", func(t *testing.T) {
		msgs := []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "custom"},
			{Role: domain.RoleUser, Content: "hi"},
		}
		out := withPersona(msgs)
		if len(out) != 2 || out[0].Content != "custom" {
			t.Fatalf("out = %+v", out)
		}
	})
}
