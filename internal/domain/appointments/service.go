package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type Service struct {
	appts Repository
}

func NewService(appts Repository) *Service {
	return &Service{appts: appts}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.appts.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	return s.appts.Update(ctx, a)
}

// ChangeStatus moves an appointment through the status machine. Cancelling
// without a reason records a timestamped default. The stored row is only
// touched when the transition is legal.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string, reason *string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid appointment status: %s", status)
	}
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, status)
	}
	if status == StatusCancelled && (reason == nil || *reason == "") {
		r := CancelReason(time.Now())
		reason = &r
	}
	if err := s.appts.UpdateStatus(ctx, id, status, reason); err != nil {
		return nil, err
	}
	a.Status = status
	a.StatusReason = reason
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.Search(ctx, params, limit, offset)
}
