// Virtual card HTTP handlers.
//
// This file exposes the card endpoints (Stripe Issuing backed):
//   - POST /cards   (issue a virtual card for the authenticated user)
//   - GET  /cards   (list the user's cards)
//
// Both require an authenticated user; the router mounts RequireUser in front.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thefixer3x/vortexcore-api/internal/http/middleware"
	"github.com/thefixer3x/vortexcore-api/internal/services"
)

// IssueCard godoc
// @ID          issueCard
// @Summary     Issue a virtual card
// @Description Creates a Stripe Issuing cardholder and virtual card for the authenticated user.
// @Tags        Cards
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    services.CardRequest  true  "Cardholder details"
//
// @Success     201  {object}  domain.VirtualCard
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     503  {object}  handlers.ErrorResponse "Issuing not configured"
// @Router      /cards [post]
func (h *Handlers) IssueCard(c *gin.Context) {
	var req services.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, and billing address are required")
		return
	}

	card, err := h.cardSvc.Issue(c.Request.Context(), middleware.UserIDFrom(c), req)
	if err != nil {
		if errors.Is(err, services.ErrCardsDisabled) {
			fail(c, http.StatusServiceUnavailable, ErrCodeCardsDisabled, "virtual card issuance is not configured")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, card)
}

// ListCards godoc
// @ID          listCards
// @Summary     List virtual cards
// @Description Returns the authenticated user's virtual cards.
// @Tags        Cards
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {array}   domain.VirtualCard
// @Failure     401  {object}  handlers.ErrorResponse "Unauthenticated"
// @Failure     503  {object}  handlers.ErrorResponse "Issuing not configured"
// @Router      /cards [get]
func (h *Handlers) ListCards(c *gin.Context) {
	cards, err := h.cardSvc.List(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrCardsDisabled) {
			fail(c, http.StatusServiceUnavailable, ErrCodeCardsDisabled, "virtual card issuance is not configured")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, cards)
}
