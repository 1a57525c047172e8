// Package payments abstracts the external payment provider used at checkout.
// It defines the Gateway interface, a Mercado Pago implementation, and a
// deterministic fake for development and tests.
package payments

import (
	"context"
	"errors"
	"time"
)

// Charge statuses reported by the gateway.
const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPending  = "pending"
)

var (
	ErrMissingAccessToken = errors.New("missing payment provider access token")
	ErrNotConfigured      = errors.New("payment gateway not configured")
	ErrChargeRejected     = errors.New("charge was rejected by the payment provider")
)

// Payer identifies the person being charged.
type Payer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ChargeRequest describes a payment to collect.
type ChargeRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	// Reference ties the charge back to the order (e.g. the order number).
	Reference string `json:"reference"`
	Method    string `json:"method"`
	Payer     Payer  `json:"payer"`
}

// Charge is the provider's record of a processed payment.
type Charge struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	StatusDetail string    `json:"status_detail,omitempty"`
	Amount       float64   `json:"amount"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// Approved reports whether the charge went through.
func (c *Charge) Approved() bool {
	return c != nil && c.Status == StatusApproved
}

// Gateway abstracts external payment providers.
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}
