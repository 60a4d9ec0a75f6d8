// Package services defines the business logic for AI chat routing, payment
// initialization, and virtual card issuance. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

// Chat-related errors.
var (
	// ErrEmptyConversation is returned when the AI router receives no
	// messages to complete.
	ErrEmptyConversation = errors.New("conversation is empty")

	// ErrInvalidRole is returned when a message carries a role outside
	// system/user/assistant.
	ErrInvalidRole = errors.New("message role must be system, user, or assistant")
)

// Payment-related errors.
var (
	// ErrInvalidEmail is returned when the payer email is missing or not an
	// email address.
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidAmount is returned when the amount is missing, non-numeric,
	// or not greater than zero.
	ErrInvalidAmount = errors.New("amount must be a number greater than zero")

	// ErrInvalidCurrency is returned when the currency is not a known
	// three-letter ISO 4217 code.
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO code")

	// ErrTransactionNotFound indicates the requested transaction reference
	// does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrPersistFailed marks the hazardous window: the gateway accepted the
	// initialization but the local record could not be written. Surfaced as
	// a hard failure and left to manual reconciliation.
	ErrPersistFailed = errors.New("transaction could not be recorded")

	// ErrBadWebhookSignature is returned when a webhook body fails gateway
	// signature verification.
	ErrBadWebhookSignature = errors.New("webhook signature mismatch")

	// ErrUnknownStatus is returned when a webhook carries a status outside
	// the transaction state set.
	ErrUnknownStatus = errors.New("unknown transaction status")
)

// Card-related errors.
var (
	// ErrCardsDisabled is returned when Stripe Issuing is not configured.
	ErrCardsDisabled = errors.New("virtual card issuance is not configured")
)
