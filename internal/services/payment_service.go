// Package services – PaymentService
//
// This file implements PaymentService, which owns payment initialization:
// input validation and normalization, the signed gateway call, and the
// durable pending-transaction record. It also handles the gateway webhook
// that later flips a transaction's status.
//
// Known inconsistency risk: the transaction row is written only after the
// gateway accepted the initialization. A DB failure in that window leaves an
// external effect with no local record; the service surfaces ErrPersistFailed
// and leaves reconciliation to operations rather than inventing retry or
// idempotency semantics here.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
	"gorm.io/gorm"

	"github.com/thefixer3x/vortexcore-api/internal/domain"
	"github.com/thefixer3x/vortexcore-api/internal/gateway"
	"github.com/thefixer3x/vortexcore-api/internal/repo"
)

// defaultCurrency is applied when a request omits its currency.
const defaultCurrency = "NGN"

// PaymentRequest is the inbound initialization payload before validation.
// Amount accepts both JSON numbers and numeric strings.
type PaymentRequest struct {
	Email     string            `json:"email"`
	Amount    json.Number       `json:"amount"`
	Currency  string            `json:"currency,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Callback  string            `json:"callback,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NormalizedPayment is an immutable, validated payment. Amount is always a
// two-decimal string and Currency three uppercase letters.
type NormalizedPayment struct {
	Email     string
	Amount    string
	Currency  string
	Reference string
	Callback  string
	Metadata  map[string]string
}

// PaymentService coordinates validation, signing, forwarding, and recording.
type PaymentService struct {
	DB              *gorm.DB
	Gateway         *gateway.Client
	DefaultCallback string
}

// Normalize validates req and produces the canonical payment. Validation
// failures return the sentinel errors above; the input is not mutated.
func (s *PaymentService) Normalize(req PaymentRequest) (NormalizedPayment, error) {
	var p NormalizedPayment

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return p, ErrInvalidEmail
	}

	amt, err := strconv.ParseFloat(strings.TrimSpace(req.Amount.String()), 64)
	if err != nil || amt <= 0 {
		return p, ErrInvalidAmount
	}

	cur := strings.ToUpper(strings.TrimSpace(req.Currency))
	if cur == "" {
		cur = defaultCurrency
	}
	if _, err := currency.ParseISO(cur); err != nil {
		return p, ErrInvalidCurrency
	}

	ref := strings.TrimSpace(req.Reference)
	if ref == "" {
		ref = "VTX-" + uuid.NewString()
	}

	cb := strings.TrimSpace(req.Callback)
	if cb == "" {
		cb = s.DefaultCallback
	}

	p = NormalizedPayment{
		Email:     email,
		Amount:    strconv.FormatFloat(amt, 'f', 2, 64),
		Currency:  cur,
		Reference: ref,
		Callback:  cb,
		Metadata:  req.Metadata,
	}
	return p, nil
}

// Initialize validates, signs, and forwards a payment, then records the
// attempt as a pending transaction.
//
// Error contract: validation sentinels for bad input, *gateway.Error when the
// gateway rejected the request (its message intact), ErrPersistFailed when
// the gateway succeeded but the row could not be written.
func (s *PaymentService) Initialize(ctx context.Context, req PaymentRequest) (*gateway.InitializeResponse, *domain.Transaction, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "PaymentService.Initialize")
	defer span.End()

	p, err := s.Normalize(req)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(
		attribute.String("payment.reference", p.Reference),
		attribute.String("payment.currency", p.Currency),
	)

	payload := map[string]string{
		"email":        p.Email,
		"amount":       p.Amount,
		"currency":     p.Currency,
		"reference":    p.Reference,
		"callback_url": p.Callback,
	}
	if len(p.Metadata) > 0 {
		meta, merr := json.Marshal(p.Metadata)
		if merr != nil {
			return nil, nil, fmt.Errorf("marshal metadata: %w", merr)
		}
		payload["metadata"] = string(meta)
	}

	resp, err := s.Gateway.Initialize(ctx, payload)
	if err != nil {
		return nil, nil, err
	}

	record := struct {
		Gateway json.RawMessage   `json:"gateway_response"`
		Request NormalizedPayment `json:"request"`
	}{Gateway: resp.Data, Request: p}
	metaBlob, _ := json.Marshal(record)

	tx, err := repo.CreateTransaction(ctx, s.DB, p.Reference, p.Email, p.Amount, p.Currency, string(metaBlob))
	if err != nil {
		// Gateway side effect exists but we could not record it.
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	span.SetAttributes(attribute.String("payment.transaction_id", tx.ID))
	return resp, tx, nil
}

// Get returns a transaction by reference.
func (s *PaymentService) Get(ctx context.Context, reference string) (*domain.Transaction, error) {
	tx, err := repo.GetTransactionByReference(ctx, s.DB, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// ListPage returns one page of transactions plus the total count.
func (s *PaymentService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "PaymentService.ListPage",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)))
	defer span.End()

	total, err := repo.CountTransactions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListTransactionsPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// WebhookEvent is the status notification posted back by the gateway.
type WebhookEvent struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// ApplyWebhook verifies the gateway signature on the raw body and flips the
// referenced transaction to the event's status.
func (s *PaymentService) ApplyWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.Gateway.VerifyWebhook(body, signature) {
		return ErrBadWebhookSignature
	}

	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode webhook: %w", err)
	}
	switch ev.Status {
	case domain.TxSuccess, domain.TxFailed, domain.TxPending:
	default:
		return ErrUnknownStatus
	}

	if err := repo.UpdateTransactionStatus(ctx, s.DB, ev.Reference, ev.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	return nil
}
