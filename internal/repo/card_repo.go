// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// VirtualCard model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// CreateCard inserts a local pointer row for a card issued at Stripe.
func CreateCard(ctx context.Context, db *gorm.DB, userID, stripeCardID, last4, currency, status string) (*domain.VirtualCard, error) {
	card := &domain.VirtualCard{
		ID:           uuid.NewString(),
		UserID:       userID,
		StripeCardID: stripeCardID,
		Last4:        last4,
		Currency:     currency,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	return card, db.WithContext(ctx).Create(card).Error
}

// ListCards returns a user's cards ordered deterministically (CreatedAt ASC, ID ASC).
func ListCards(ctx context.Context, db *gorm.DB, userID string) ([]domain.VirtualCard, error) {
	var out []domain.VirtualCard
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
