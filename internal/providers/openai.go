package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// openAIURL is the chat completions endpoint for OpenAI-compatible APIs.
const openAIURL = "https://api.openai.com/v1/chat/completions"

// openAIModel is the default completion model.
const openAIModel = "gpt-4o-mini"

// OpenAI is the primary chat provider. Replies are streamed: the upstream
// SSE body is handed back untouched for the transport layer to relay one
// chunk at a time.
type OpenAI struct {
	key   string
	url   string
	model string
	httpc *http.Client
}

// NewOpenAI constructs the provider. An empty key leaves it unavailable.
// When httpc is nil a client with a 60s timeout is used.
func NewOpenAI(key string, httpc *http.Client) *OpenAI {
	if httpc == nil {
		httpc = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAI{key: key, url: openAIURL, model: openAIModel, httpc: httpc}
}

// Name implements Provider.
func (p *OpenAI) Name() string { return "openai" }

// Available implements Provider.
func (p *OpenAI) Available() bool { return p.key != "" }

// Complete sends the conversation (persona-prefixed) upstream with streaming
// enabled and returns the raw SSE body.
func (p *OpenAI) Complete(ctx context.Context, msgs []domain.ChatMessage) (*Reply, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	payload := map[string]any{
		"model":    p.model,
		"messages": withPersona(msgs),
		"stream":   true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.key)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: completion call: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("openai: upstream status %d: %s", resp.StatusCode, snippet)
	}

	return &Reply{Provider: p.Name(), Stream: resp.Body}, nil
}
