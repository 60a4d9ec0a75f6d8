// Package services – CardService
//
// This file implements virtual card issuance through Stripe Issuing. The
// service creates a cardholder and a virtual card at Stripe, then stores a
// local pointer row so listing does not need a Stripe round trip. Stripe
// remains the source of truth for card state.

package services

import (
	"context"

	stripe "github.com/stripe/stripe-go/v72"
	stripeclient "github.com/stripe/stripe-go/v72/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/repo"
)

// CardRequest describes the cardholder for a new virtual card.
type CardRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Currency string `json:"currency,omitempty"`
	// Billing address, required by Stripe Issuing.
	Line1      string `json:"line1" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CardService issues virtual cards via Stripe Issuing.
type CardService struct {
	DB *gorm.DB
	// sc is nil when Stripe is not configured; all operations then return
	// ErrCardsDisabled.
	sc *stripeclient.API
}

// NewCardService constructs the service. An empty key disables issuance
// rather than failing: cards are an optional feature of the deployment.
func NewCardService(db *gorm.DB, stripeKey string) *CardService {
	s := &CardService{DB: db}
	if stripeKey != "" {
		s.sc = &stripeclient.API{}
		s.sc.Init(stripeKey, nil)
	}
	return s
}

// Enabled reports whether Stripe Issuing is configured.
func (s *CardService) Enabled() bool { return s.sc != nil }

// Issue creates a cardholder and virtual card at Stripe and records the
// card locally for userID.
func (s *CardService) Issue(ctx context.Context, userID string, req CardRequest) (*domain.VirtualCard, error) {
	tr := otel.Tracer("services/CardService")
	ctx, span := tr.Start(ctx, "CardService.Issue")
	defer span.End()

	if !s.Enabled() {
		return nil, ErrCardsDisabled
	}

	cur := req.Currency
	if cur == "" {
		cur = "usd"
	}

	holderParams := &stripe.IssuingCardholderParams{
		Name:  stripe.String(req.Name),
		Email: stripe.String(req.Email),
		Type:  stripe.String("individual"),
		Billing: &stripe.IssuingCardholderBillingParams{
			Address: &stripe.AddressParams{
				Line1:      stripe.String(req.Line1),
				City:       stripe.String(req.City),
				PostalCode: stripe.String(req.PostalCode),
				Country:    stripe.String(req.Country),
			},
		},
	}
	holderParams.Context = ctx
	holder, err := s.sc.IssuingCardholders.New(holderParams)
	if err != nil {
		return nil, err
	}

	cardParams := &stripe.IssuingCardParams{
		Cardholder: stripe.String(holder.ID),
		Currency:   stripe.String(cur),
		Type:       stripe.String(string(stripe.IssuingCardTypeVirtual)),
		Status:     stripe.String(string(stripe.IssuingCardStatusActive)),
	}
	cardParams.Context = ctx
	card, err := s.sc.IssuingCards.New(cardParams)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("card.stripe_id", card.ID))

	return repo.CreateCard(ctx, s.DB, userID, card.ID, card.Last4, string(card.Currency), string(card.Status))
}

// List returns the user's locally recorded cards.
func (s *CardService) List(ctx context.Context, userID string) ([]domain.VirtualCard, error) {
	if !s.Enabled() {
		return nil, ErrCardsDisabled
	}
	return repo.ListCards(ctx, s.DB, userID)
}
