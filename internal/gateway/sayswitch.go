// Package gateway implements the SaySwitch payment gateway client. It signs
// outbound payloads, forwards initialization requests, and verifies inbound
// webhook signatures.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thefixer3x/vortexcore-api/internal/sign"
)

// SignatureHeader carries the hex digest the gateway uses to authenticate
// requests (and signs its webhook callbacks with).
const SignatureHeader = "X-Sayswitch-Signature"

// maxErrorBody caps how much of a gateway error response is read back.
const maxErrorBody = 64 << 10

// Error is a failure reported by the gateway itself (a non-2xx response).
// The gateway's own message is preserved verbatim: callers need it to retry
// correctly and it is surfaced to API clients unchanged.
type Error struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.StatusCode)
}

// InitializeResponse is the gateway's reply to a successful initialization.
type InitializeResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to a SaySwitch-compatible gateway. Safe for concurrent use.
type Client struct {
	baseURL string
	signer  *sign.Signer
	httpc   *http.Client
}

// NewClient constructs a gateway client for baseURL, signing with signer.
// When httpc is nil a client with a 30s timeout is used.
func NewClient(baseURL string, signer *sign.Signer, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, signer: signer, httpc: httpc}
}

// Initialize POSTs the validated payment payload to the gateway's initialize
// endpoint with its signature header set.
//
// Error contract: network and decoding failures come back as plain errors;
// gateway rejections come back as *Error carrying the gateway's message.
func (c *Client) Initialize(ctx context.Context, payload map[string]string) (*InitializeResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(SignatureHeader, c.signer.Sign(payload))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: initialize call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var out InitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}
	return &out, nil
}

// VerifyWebhook checks the gateway signature on a raw webhook body.
func (c *Client) VerifyWebhook(body []byte, signature string) bool {
	return c.signer.VerifyBody(body, signature)
}

// readErrorMessage extracts the gateway's message field from an error body,
// falling back to the raw text when it is not JSON.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if len(raw) == 0 {
		return "gateway returned an empty error response"
	}
	return string(raw)
}
