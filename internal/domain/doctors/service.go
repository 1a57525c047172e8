package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrDuplicateEmail = errors.New("a doctor with this email is already registered")

var validStatuses = map[string]bool{
	StatusPending: true, StatusApproved: true, StatusRejected: true,
}

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

// Register creates a doctor in pending status awaiting admin review.
func (s *Service) Register(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	if existing, err := s.doctors.GetByEmail(ctx, d.Email); err == nil && existing != nil {
		return ErrDuplicateEmail
	}
	d.Status = StatusPending
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Doctor, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid doctor status: %s", status)
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.doctors.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	d.Status = status
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.doctors.GetByID(ctx, id); err != nil {
		return err
	}
	return s.doctors.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, params, limit, offset)
}
