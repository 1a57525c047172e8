package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/domain/catalog"
)

// Catalog is the slice of the test catalog the cart needs.
type Catalog interface {
	GetTest(ctx context.Context, id uuid.UUID) (*catalog.LabTest, error)
}

type Service struct {
	store Store
	tests Catalog
}

func NewService(store Store, tests Catalog) *Service {
	return &Service{store: store, tests: tests}
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCart(items), nil
}

// AddItem appends the test with quantity 1, or bumps the quantity when the
// test is already in the cart.
func (s *Service) AddItem(ctx context.Context, userID string, testID uuid.UUID) (*Cart, error) {
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].TestID == testID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		t, err := s.tests.GetTest(ctx, testID)
		if err != nil {
			return nil, fmt.Errorf("test %s: %w", testID, err)
		}
		if t.Active != nil && !*t.Active {
			return nil, fmt.Errorf("test %s is no longer available", t.Code)
		}
		items = append(items, CartItem{
			TestID:   t.ID,
			Code:     t.Code,
			Name:     t.Name,
			Price:    t.Price,
			Quantity: 1,
		})
	}
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, err
	}
	return NewCart(items), nil
}

func (s *Service) RemoveItem(ctx context.Context, userID string, testID uuid.UUID) (*Cart, error) {
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.TestID != testID {
			kept = append(kept, it)
		}
	}
	if err := s.store.Save(ctx, userID, kept); err != nil {
		return nil, err
	}
	return NewCart(kept), nil
}

// UpdateQuantity rejects quantities below one and leaves the stored cart
// untouched on any error.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, testID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].TestID == testID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("test %s is not in the cart", testID)
	}
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, err
	}
	return NewCart(items), nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
