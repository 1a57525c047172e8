package payments

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeGateway is a deterministic in-process Gateway for development and
// tests. Every charge is approved unless RejectAll is set or the payer email
// ends in "@decline.test".
type FakeGateway struct {
	RejectAll bool

	mu      sync.Mutex
	seq     int
	charges []ChargeRequest
}

// NewFakeGateway returns a FakeGateway that approves everything.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

// CreateCharge records the request and returns a synthetic approved (or
// rejected) charge.
func (g *FakeGateway) CreateCharge(_ context.Context, req ChargeRequest) (*Charge, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid charge amount: %.2f", req.Amount)
	}

	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("fake-%06d", g.seq)
	g.charges = append(g.charges, req)
	g.mu.Unlock()

	status := StatusApproved
	detail := "accredited"
	if g.RejectAll || hasDeclineSuffix(req.Payer.Email) {
		status = StatusRejected
		detail = "cc_rejected_other_reason"
	}

	return &Charge{
		ID:           id,
		Status:       status,
		StatusDetail: detail,
		Amount:       req.Amount,
		ProcessedAt:  time.Now().UTC(),
	}, nil
}

// Charges returns a copy of all requests seen so far.
func (g *FakeGateway) Charges() []ChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChargeRequest, len(g.charges))
	copy(out, g.charges)
	return out
}

func hasDeclineSuffix(email string) bool {
	const suffix = "@decline.test"
	return len(email) >= len(suffix) && email[len(email)-len(suffix):] == suffix
}
