package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/thefixer3x/vortexcore-api/internal/cache"
	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// perplexityURL is the search-augmented chat completions endpoint.
const perplexityURL = "https://api.perplexity.ai/chat/completions"

// perplexityModel is the realtime search-backed model.
const perplexityModel = "sonar"

// citeInstruction is appended to every query so answers carry sources.
const citeInstruction = " Include citations for your sources."

// fallbackText is relayed when the upstream call fails. Chat stays usable at
// the cost of data freshness; the text makes the degradation explicit.
const fallbackText = "I could not reach live data sources just now, so this answer may be out of date. Please try again in a moment for current information."

// Perplexity answers queries that need live web data. Responses are streamed
// and cached for a short TTL keyed by normalized query text; outbound calls
// are throttled with a token bucket to bound spend on the metered API.
type Perplexity struct {
	key     string
	url     string
	model   string
	httpc   *http.Client
	cache   *cache.ResponseCache
	limiter *rate.Limiter
}

// NewPerplexity constructs the provider around an injected response cache.
// An empty key leaves it unavailable. When httpc is nil a client with a 60s
// timeout is used.
func NewPerplexity(key string, c *cache.ResponseCache, rps float64, burst int, httpc *http.Client) *Perplexity {
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Perplexity{
		key:     key,
		url:     perplexityURL,
		model:   perplexityModel,
		httpc:   httpc,
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name implements Provider.
func (p *Perplexity) Name() string { return "perplexity" }

// Available implements Provider.
func (p *Perplexity) Available() bool { return p.key != "" }

// Complete answers the latest user turn with live search results.
//
// Cache contract: a hit within the TTL returns a duplicate of the cached
// stream without touching upstream; a miss performs exactly one upstream
// read, retaining one tee branch in the cache and returning the other.
// Upstream failure degrades to a synthetic single-chunk reply, never an
// error, so the surrounding chat flow stays intact.
func (p *Perplexity) Complete(ctx context.Context, msgs []domain.ChatMessage) (*Reply, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	query := domain.LastUserContent(msgs)
	key := cache.NormalizeKey(query)

	if body, ok := p.cache.Get(key); ok {
		return &Reply{Provider: p.Name(), Stream: body}, nil
	}

	upstream, err := p.call(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Msg("realtime upstream failed, serving canned fallback")
		return &Reply{Provider: p.Name(), Stream: fallbackStream()}, nil
	}

	return &Reply{Provider: p.Name(), Stream: p.cache.Put(key, upstream)}, nil
}

// call performs the throttled upstream request and returns the SSE body.
func (p *Perplexity) call(ctx context.Context, query string) (io.ReadCloser, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("perplexity: throttle wait: %w", err)
	}

	payload := map[string]any{
		"model": p.model,
		"messages": []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: Persona},
			{Role: domain.RoleUser, Content: query + citeInstruction},
		},
		"stream": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("perplexity: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("perplexity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.key)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perplexity: completion call: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("perplexity: upstream status %d: %s", resp.StatusCode, snippet)
	}
	return resp.Body, nil
}

// fallbackStream builds a one-chunk SSE stream shaped like a normal provider
// delta so clients parse it with the same code path.
func fallbackStream() io.ReadCloser {
	chunk, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": fallbackText}},
		},
	})
	var sb bytes.Buffer
	sb.WriteString("data: ")
	sb.Write(chunk)
	sb.WriteString("\n\ndata: [DONE]\n\n")
	return io.NopCloser(bytes.NewReader(sb.Bytes()))
}
