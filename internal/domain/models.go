// Package domain defines the persistence models for payment transactions and
// virtual cards. These types are mapped with GORM and form the core data
// layer of the VortexCore backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Transaction statuses. A row is created as pending at initialization time
// and flipped to success or failed by the gateway webhook.
const (
	TxPending = "pending"
	TxSuccess = "success"
	TxFailed  = "failed"
)

// Transaction records a payment initialization attempt against the gateway.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Reference: unique gateway reference (client-supplied or generated).
//   - Email: payer email address.
//   - Amount: normalized two-decimal string representation (e.g. "1500.00").
//   - Currency: three uppercase letters (ISO 4217).
//   - Status: pending | success | failed (enforced by DB constraint).
//   - Metadata: JSON blob holding the gateway response and the original
//     normalized request.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (rows are never hard-deleted here).
type Transaction struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	Reference string         `json:"reference" gorm:"type:varchar(64);not null;uniqueIndex:ux_tx_reference"`
	Email     string         `json:"email"     gorm:"type:varchar(255);not null;index:idx_tx_email"`
	Amount    string         `json:"amount"    gorm:"type:varchar(32);not null"`
	Currency  string         `json:"currency"  gorm:"type:char(3);not null"`
	Status    string         `json:"status"    gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','success','failed')"`
	Metadata  string         `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Transaction.
func (Transaction) TableName() string { return "transactions" }

// VirtualCard links a user to a card issued through Stripe Issuing. The
// authoritative card state lives at Stripe; this row is a local pointer with
// enough metadata to list cards without a round trip.
type VirtualCard struct {
	ID           string         `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID       string         `json:"user_id"        gorm:"type:varchar(64);not null;index:idx_user_cards"`
	StripeCardID string         `json:"stripe_card_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_card_stripe_id"`
	Last4        string         `json:"last4"          gorm:"type:char(4);not null"`
	Currency     string         `json:"currency"       gorm:"type:char(3);not null"`
	Status       string         `json:"status"         gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for VirtualCard.
func (VirtualCard) TableName() string { return "virtual_cards" }
