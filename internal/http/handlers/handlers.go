// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate input, call application services
// through narrow interfaces, and translate results into HTTP responses.
package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/gateway"
	"github.com/thefixer3x/vortexcore-api/internal/services"
)

//
// Service contracts (context-aware)
//

// PaymentInitializer defines payment operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PaymentInitializer interface {
	// Initialize validates, signs, forwards, and records a payment.
	Initialize(ctx context.Context, req services.PaymentRequest) (*gateway.InitializeResponse, *domain.Transaction, error)
	// Get returns a transaction by gateway reference.
	Get(ctx context.Context, reference string) (*domain.Transaction, error)
	// ListPage returns a page of transactions and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error)
	// ApplyWebhook verifies and applies a gateway status notification.
	ApplyWebhook(ctx context.Context, body []byte, signature string) error
}

// CardIssuer defines virtual card operations consumed by HTTP handlers.
type CardIssuer interface {
	// Issue creates a virtual card for userID.
	Issue(ctx context.Context, userID string, req services.CardRequest) (*domain.VirtualCard, error)
	// List returns userID's cards.
	List(ctx context.Context, userID string) ([]domain.VirtualCard, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for chat, payments, and cards. It
// depends on abstract service interfaces to keep transport concerns separate
// from business logic. db is used only for cheap aggregate queries backing
// conditional responses (ETags).
type Handlers struct {
	chatSvc ChatCompleter
	paySvc  PaymentInitializer
	cardSvc CardIssuer
	db      *gorm.DB

	// maxPaymentBody is the declared-content-length ceiling for the payment
	// endpoint, checked before the body is parsed.
	maxPaymentBody int64
}

// New constructs a Handlers instance bound to the given services.
func New(chatSvc ChatCompleter, paySvc PaymentInitializer, cardSvc CardIssuer, db *gorm.DB, maxPaymentBody int64) *Handlers {
	return &Handlers{
		chatSvc:        chatSvc,
		paySvc:         paySvc,
		cardSvc:        cardSvc,
		db:             db,
		maxPaymentBody: maxPaymentBody,
	}
}
