// Package services – ChatService
//
// This file implements ChatService, the application-level component behind
// the AI router endpoint. It validates the submitted conversation and drives
// the provider fallback chain, returning either a streamed or a buffered
// assistant reply.
//
// Error posture: upstream provider error text is never returned to callers.
// Providers log their own failures; the service reduces total failure to
// ErrNoProvider so the transport layer can emit a generic message.

package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/providers"
)

// ChatService validates conversations and routes them across providers.
type ChatService struct {
	Router *providers.Router

	// MaxTurns bounds the accepted history length; 0 disables the guard.
	MaxTurns int
}

// Complete produces one assistant reply for the conversation. When
// wantRealtime is set the realtime provider is preferred.
func (s *ChatService) Complete(ctx context.Context, msgs []domain.ChatMessage, wantRealtime bool) (*providers.Reply, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ChatService.Complete",
		trace.WithAttributes(attribute.Int("chat.turns", len(msgs))))
	defer span.End()

	if len(msgs) == 0 {
		return nil, ErrEmptyConversation
	}
	if s.MaxTurns > 0 && len(msgs) > s.MaxTurns {
		msgs = msgs[len(msgs)-s.MaxTurns:]
	}
	for _, m := range msgs {
		if !domain.ValidRole(m.Role) {
			return nil, ErrInvalidRole
		}
	}

	return s.Router.Complete(ctx, msgs, wantRealtime)
}
