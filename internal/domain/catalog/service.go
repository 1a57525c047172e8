package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	tests Repository
}

func NewService(tests Repository) *Service {
	return &Service{tests: tests}
}

func (s *Service) CreateTest(ctx context.Context, t *LabTest) error {
	if t.Code == "" {
		return fmt.Errorf("code is required")
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if t.Active == nil {
		active := true
		t.Active = &active
	}
	return s.tests.Create(ctx, t)
}

func (s *Service) GetTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return s.tests.GetByID(ctx, id)
}

func (s *Service) GetTestByCode(ctx context.Context, code string) (*LabTest, error) {
	return s.tests.GetByCode(ctx, code)
}

func (s *Service) UpdateTest(ctx context.Context, t *LabTest) error {
	if t.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.tests.Update(ctx, t)
}

func (s *Service) DeactivateTest(ctx context.Context, id uuid.UUID) error {
	return s.tests.Deactivate(ctx, id)
}

func (s *Service) ListTests(ctx context.Context, params map[string]string, limit, offset int) ([]*LabTest, int, error) {
	return s.tests.List(ctx, params, limit, offset)
}
