// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Transaction model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
)

// CreateTransaction inserts a pending transaction row for an initialization
// attempt. Reference uniqueness is enforced by the DB index; a duplicate
// surfaces as a constraint error.
func CreateTransaction(ctx context.Context, db *gorm.DB, reference, email, amount, currency, metadata string) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		ID:        uuid.NewString(),
		Reference: reference,
		Email:     email,
		Amount:    amount,
		Currency:  currency,
		Status:    domain.TxPending,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	return tx, db.WithContext(ctx).Create(tx).Error
}

// GetTransactionByReference fetches a transaction by its gateway reference.
func GetTransactionByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := db.WithContext(ctx).Where("reference = ?", reference).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransactionStatus flips a transaction to the given status (webhook
// driven). Returns gorm.ErrRecordNotFound when the reference is unknown.
func UpdateTransactionStatus(ctx context.Context, db *gorm.DB, reference, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("reference = ?", reference).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountTransactions uses a raw COUNT so a missing table surfaces as an error.
func CountTransactions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM transactions WHERE deleted_at IS NULL").Scan(&total).Error
	return total, err
}

// ListTransactionsPage returns a paginated slice ordered (CreatedAt DESC, ID ASC)
// so the most recent initialization attempts come first.
func ListTransactionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// TransactionsStats returns aggregate metadata for the transactions table:
// the total number of rows and the maximum UpdatedAt among them. Used for
// ETag generation on the list endpoint. When the table is empty the count is
// 0 and maxUpdatedAt is nil.
func TransactionsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Transaction{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
