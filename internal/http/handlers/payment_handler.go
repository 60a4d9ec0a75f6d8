// Payment HTTP handlers.
//
// This file exposes the payment endpoints:
//   - POST /payments/initialize              (validate, sign, forward, record)
//   - GET  /payments/transactions            (list, paginated, ETag support)
//   - GET  /payments/transactions/{reference}
//   - POST /payments/webhook                 (gateway status notifications)
//
// The initialize endpoint answers in the gateway envelope the web client
// already speaks: {"success": true, "data": ...} on success and
// {"success": false, "message": ..., "error": ...} on failure. Gateway
// rejection messages are passed through verbatim; callers need them to retry
// correctly.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/gateway"
	"github.com/thefixer3x/vortexcore-api/internal/http/middleware"
	"github.com/thefixer3x/vortexcore-api/internal/repo"
	"github.com/thefixer3x/vortexcore-api/internal/services"
	"github.com/thefixer3x/vortexcore-api/internal/utils"
)

// maxWebhookBody bounds gateway notification payloads.
const maxWebhookBody = 64 << 10

// PaymentResponse is the success envelope for payment initialization.
type PaymentResponse struct {
	Success bool `json:"success"`
	// Data is the gateway's response data, embedded untouched.
	Data any `json:"data"`
}

// PaymentErrorResponse is the failure envelope for payment endpoints.
type PaymentErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ListTransactionsResponse wraps a page of transactions and pagination
// information.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Pagination   Pagination           `json:"pagination"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// failPayment writes the payment failure envelope. 5xx responses are logged
// with request context.
func failPayment(c *gin.Context, status int, message, detail string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", message).
			Str("detail", detail).
			Msg("payment error")
	}
	c.AbortWithStatusJSON(status, PaymentErrorResponse{Success: false, Message: message, Error: detail})
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// InitializePayment godoc
// @ID          initializePayment
// @Summary     Initialize a payment
// @Description Validates and signs the payment, forwards it to the gateway, and records a pending transaction.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.PaymentRequest  true  "Payment payload"
//
// @Success     200  {object}  handlers.PaymentResponse
// @Failure     400  {object}  handlers.PaymentErrorResponse "Validation failure"
// @Failure     413  {object}  handlers.PaymentErrorResponse "Payload too large"
// @Failure     429  {object}  handlers.PaymentErrorResponse "Rate limited"
// @Failure     502  {object}  handlers.PaymentErrorResponse "Gateway rejection"
// @Failure     500  {object}  handlers.PaymentErrorResponse "Internal error"
// @Router      /payments/initialize [post]
func (h *Handlers) InitializePayment(c *gin.Context) {
	// Size guard on the declared length, before any parsing.
	if c.Request.ContentLength > h.maxPaymentBody {
		failPayment(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", h.maxPaymentBody), "")
		return
	}

	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failPayment(c, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	resp, _, err := h.paySvc.Initialize(c.Request.Context(), req)
	if err != nil {
		var gwErr *gateway.Error
		switch {
		case errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrInvalidCurrency):
			failPayment(c, http.StatusBadRequest, err.Error(), "")
		case errors.As(err, &gwErr):
			failPayment(c, http.StatusBadGateway, gwErr.Message, "payment gateway rejected the request")
		case errors.Is(err, services.ErrPersistFailed):
			failPayment(c, http.StatusInternalServerError,
				"payment was initialized but could not be recorded; contact support with your reference", err.Error())
		default:
			failPayment(c, http.StatusInternalServerError, "payment initialization failed", err.Error())
		}
		return
	}

	ok(c, http.StatusOK, PaymentResponse{Success: true, Data: resp.Data})
}

// ListTransactions godoc
// @ID          listTransactions
// @Summary     List transactions (paginated)
// @Description Returns a page of recorded transactions, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Payments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTransactionsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.TransactionsStats(ctx, h.db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"transactions:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.paySvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListTransactionsResponse{
		Transactions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetTransaction godoc
// @ID          getTransaction
// @Summary     Fetch a transaction
// @Description Returns a single transaction by its gateway reference.
// @Tags        Payments
// @Produce     json
//
// @Param       reference  path  string  true  "Gateway reference"
//
// @Success     200  {object} domain.Transaction
// @Failure     404  {object} handlers.ErrorResponse "Unknown reference"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /payments/transactions/{reference} [get]
func (h *Handlers) GetTransaction(c *gin.Context) {
	tx, err := h.paySvc.Get(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "transaction not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, tx)
}

// PaymentWebhook godoc
// @ID          paymentWebhook
// @Summary     Gateway status webhook
// @Description Verifies the gateway signature and applies the status change to the referenced transaction.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       X-Sayswitch-Signature  header  string  true  "Gateway body signature"
//
// @Success     200  {object} map[string]bool
// @Failure     400  {object} handlers.PaymentErrorResponse "Malformed event"
// @Failure     401  {object} handlers.PaymentErrorResponse "Signature mismatch"
// @Failure     404  {object} handlers.PaymentErrorResponse "Unknown reference"
// @Router      /payments/webhook [post]
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		failPayment(c, http.StatusBadRequest, "could not read webhook body", err.Error())
		return
	}

	err = h.paySvc.ApplyWebhook(c.Request.Context(), body, c.GetHeader(gateway.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadWebhookSignature):
			failPayment(c, http.StatusUnauthorized, "webhook signature mismatch", "")
		case errors.Is(err, services.ErrTransactionNotFound):
			failPayment(c, http.StatusNotFound, "unknown transaction reference", "")
		case errors.Is(err, services.ErrUnknownStatus):
			failPayment(c, http.StatusBadRequest, "unknown transaction status", "")
		default:
			failPayment(c, http.StatusBadRequest, "could not apply webhook", err.Error())
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"success": true})
}
