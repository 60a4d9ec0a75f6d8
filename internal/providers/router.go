package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// ErrNoProvider is returned when no configured provider produced a reply.
var ErrNoProvider = errors.New("no chat provider available")

// Router drives the fallback chain. Providers are tried in order; ones
// without a key are skipped, and the first success wins. When the caller
// asks for realtime data the realtime provider is promoted to the front.
type Router struct {
	chain    []Provider
	realtime Provider
}

// NewRouter builds a router over the standard chain order (primary first,
// realtime last). realtime may also appear in chain; it is deduplicated when
// promoted.
func NewRouter(realtime Provider, chain ...Provider) *Router {
	return &Router{chain: chain, realtime: realtime}
}

// Complete produces a reply for the conversation, trying providers in order.
// With wantRealtime set, the realtime provider is tried first. The last
// provider error is wrapped into the returned error on total failure, but
// callers must not leak that text to clients.
func (r *Router) Complete(ctx context.Context, msgs []domain.ChatMessage, wantRealtime bool) (*Reply, error) {
	tr := otel.Tracer("providers/Router")
	ctx, span := tr.Start(ctx, "Router.Complete",
		trace.WithAttributes(
			attribute.Int("chat.turns", len(msgs)),
			attribute.Bool("chat.want_realtime", wantRealtime),
		))
	defer span.End()

	var lastErr error
	for _, p := range r.order(wantRealtime) {
		if !p.Available() {
			continue
		}
		reply, err := p.Complete(ctx, msgs)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("provider", p.Name()).Msg("chat provider failed, trying next")
			continue
		}
		span.SetAttributes(attribute.String("chat.provider", p.Name()))
		return reply, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoProvider, lastErr)
	}
	return nil, ErrNoProvider
}

// order returns the provider sequence for this request.
func (r *Router) order(wantRealtime bool) []Provider {
	if !wantRealtime || r.realtime == nil {
		out := make([]Provider, 0, len(r.chain)+1)
		out = append(out, r.chain...)
		if r.realtime != nil {
			out = append(out, r.realtime)
		}
		return out
	}
	out := make([]Provider, 0, len(r.chain)+1)
	out = append(out, r.realtime)
	for _, p := range r.chain {
		if p != r.realtime {
			out = append(out, p)
		}
	}
	return out
}
