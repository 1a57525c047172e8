package payments

import (
	"context"
	"strings"
	"sync"
	"testing"
)

func TestFakeGateway_ApprovesCharge(t *testing.T) {
	g := NewFakeGateway()

	charge, err := g.CreateCharge(context.Background(), ChargeRequest{
		Amount:    54.99,
		Currency:  "USD",
		Reference: "LAB-123456",
		Payer:     Payer{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !charge.Approved() {
		t.Errorf("expected approved charge, got status %s", charge.Status)
	}
	if charge.ID == "" {
		t.Error("expected non-empty charge ID")
	}
	if charge.Amount != 54.99 {
		t.Errorf("expected amount 54.99, got %f", charge.Amount)
	}
	if charge.ProcessedAt.IsZero() {
		t.Error("expected non-zero ProcessedAt")
	}
}

func TestFakeGateway_RejectAll(t *testing.T) {
	g := &FakeGateway{RejectAll: true}

	charge, err := g.CreateCharge(context.Background(), ChargeRequest{
		Amount: 10,
		Payer:  Payer{Email: "jane@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if charge.Approved() {
		t.Error("expected rejected charge")
	}
	if charge.Status != StatusRejected {
		t.Errorf("expected status %s, got %s", StatusRejected, charge.Status)
	}
}

func TestFakeGateway_DeclineSuffix(t *testing.T) {
	g := NewFakeGateway()

	charge, err := g.CreateCharge(context.Background(), ChargeRequest{
		Amount: 10,
		Payer:  Payer{Email: "jane@decline.test"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if charge.Approved() {
		t.Error("expected rejection for decline.test email")
	}
}

func TestFakeGateway_InvalidAmount(t *testing.T) {
	g := NewFakeGateway()

	for _, amount := range []float64{0, -5} {
		_, err := g.CreateCharge(context.Background(), ChargeRequest{Amount: amount})
		if err == nil {
			t.Errorf("expected error for amount %f", amount)
		}
	}
}

func TestFakeGateway_SequentialIDs(t *testing.T) {
	g := NewFakeGateway()

	c1, _ := g.CreateCharge(context.Background(), ChargeRequest{Amount: 1, Payer: Payer{Email: "a@b.c"}})
	c2, _ := g.CreateCharge(context.Background(), ChargeRequest{Amount: 2, Payer: Payer{Email: "a@b.c"}})

	if c1.ID == c2.ID {
		t.Errorf("expected distinct charge IDs, got %s twice", c1.ID)
	}
	if !strings.HasPrefix(c1.ID, "fake-") {
		t.Errorf("unexpected ID format: %s", c1.ID)
	}
}

func TestFakeGateway_RecordsCharges(t *testing.T) {
	g := NewFakeGateway()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.CreateCharge(context.Background(), ChargeRequest{Amount: 5, Payer: Payer{Email: "a@b.c"}})
		}()
	}
	wg.Wait()

	if got := len(g.Charges()); got != 10 {
		t.Errorf("expected 10 recorded charges, got %d", got)
	}
}
