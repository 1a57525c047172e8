package orders

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, o *TestOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*TestOrder, error)
	GetByNumber(ctx context.Context, number string) (*TestOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*TestOrder, int, error)
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*TestOrder, int, error)
}

type ResultRepository interface {
	Upsert(ctx context.Context, r *TestResult) error
	GetByOrderAndTest(ctx context.Context, orderID, testID uuid.UUID) (*TestResult, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*TestResult, error)
}
