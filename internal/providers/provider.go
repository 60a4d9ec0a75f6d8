// Package providers contains the chat provider implementations tried by the
// AI router: OpenAI (primary), Gemini, and Perplexity (realtime fallback).
// All providers share one capability interface so the router can try them in
// order until one succeeds.
package providers

import (
	"context"
	"errors"
	"io"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// Persona is the fixed system prompt injected when a conversation carries no
// system turn of its own.
const Persona = "You are VortexAI, the assistant inside the VortexCore banking app. " +
	"Answer briefly and precisely, never invent account data, and direct users to " +
	"support for anything requiring a human."

// ErrUnavailable is returned by Complete when the provider has no API key
// configured. The router skips unavailable providers without logging noise.
var ErrUnavailable = errors.New("provider is not configured")

// Reply is a single assistant answer. Exactly one of Text or Stream is set:
// buffered providers fill Text, streaming providers hand back an SSE body to
// relay chunk by chunk. The consumer owns Stream and must close it.
type Reply struct {
	Provider string
	Text     string
	Stream   io.ReadCloser
}

// Streaming reports whether the reply must be relayed as a stream.
func (r *Reply) Streaming() bool { return r != nil && r.Stream != nil }

// Provider is one chat completion backend.
//
// Implementations must be safe for concurrent use and honor ctx on the
// upstream call. Complete never blocks past the upstream response headers;
// streamed bodies are consumed by the caller.
type Provider interface {
	// Name identifies the provider in logs and reply envelopes.
	Name() string
	// Available reports whether the provider is configured (has a key).
	Available() bool
	// Complete produces an assistant reply for the conversation.
	Complete(ctx context.Context, msgs []domain.ChatMessage) (*Reply, error)
}

// withPersona prepends the fixed persona unless the history already opens
// with a system turn.
func withPersona(msgs []domain.ChatMessage) []domain.ChatMessage {
	if len(msgs) > 0 && msgs[0].Role == domain.RoleSystem {
		return msgs
	}
	out := make([]domain.ChatMessage, 0, len(msgs)+1)
	out = append(out, domain.ChatMessage{Role: domain.RoleSystem, Content: Persona})
	return append(out, msgs...)
}
