// AI router HTTP handler.
//
// This file exposes the chat endpoint:
//   - POST /ai-router   (conversation in, assistant reply out)
//
// Replies arrive either as a text/event-stream relay of the upstream provider
// stream, or as a buffered JSON body. Error payloads use the compact
// {"error": "..."} shape the web client expects; upstream provider error text
// is never exposed.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/http/middleware"
	"github.com/thefixer3x/vortexcore-api/internal/providers"
	"github.com/thefixer3x/vortexcore-api/internal/services"
)

// relayBuffer is the chunk size for stream relaying; one provider SSE event
// fits comfortably.
const relayBuffer = 4 << 10

// ChatCompleter defines the chat capability consumed by the AI router
// endpoint.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatCompleter interface {
	// Complete produces one assistant reply for the conversation.
	Complete(ctx context.Context, msgs []domain.ChatMessage, wantRealtime bool) (*providers.Reply, error)
}

// ChatRequest is the JSON payload for the AI router.
type ChatRequest struct {
	// Messages is the ordered conversation history, oldest first.
	Messages []domain.ChatMessage `json:"messages"`
	// WantRealtime asks for the search-backed provider first.
	WantRealtime bool `json:"wantRealtime"`
}

// ChatResponse is the buffered reply shape.
type ChatResponse struct {
	Response string `json:"response"`
	Provider string `json:"provider,omitempty"`
}

// Chat godoc
// @ID          aiRouter
// @Summary     Chat with the assistant
// @Description Routes the conversation across AI providers with automatic fallback. Streams tokens as text/event-stream when the selected provider streams; otherwise returns a buffered JSON reply.
// @Tags        AI
// @Accept      json
// @Produce     json
// @Produce     text/event-stream
//
// @Param       body  body  handlers.ChatRequest  true  "Conversation"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  map[string]string "Invalid conversation"
// @Failure     500  {object}  map[string]string "All providers failed"
// @Router      /ai-router [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	reply, err := h.chatSvc.Complete(c.Request.Context(), req.Messages, req.WantRealtime)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyConversation), errors.Is(err, services.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			// Provider details stay in the logs.
			middleware.LoggerFrom(c).Error().Err(err).Msg("chat completion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant is unavailable right now"})
		}
		return
	}

	if !reply.Streaming() {
		c.JSON(http.StatusOK, ChatResponse{Response: reply.Text, Provider: reply.Provider})
		return
	}

	relayStream(c, reply.Stream)
}

// relayStream copies the provider stream to the client one chunk at a time,
// flushing after every write so tokens appear as they are produced.
func relayStream(c *gin.Context, body io.ReadCloser) {
	defer body.Close()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	buf := make([]byte, relayBuffer)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			c.Writer.Flush()
		}
		if err != nil {
			if err != io.EOF {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("provider stream ended abnormally")
			}
			return
		}
	}
}
