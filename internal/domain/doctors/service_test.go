package doctors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	d, ok := m.doctors[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	d.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.doctors, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if st, ok := params["status"]; ok && d.Status != st {
			continue
		}
		result = append(result, d)
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	d := &Doctor{Name: "Dr. Amara Obi", Email: "amara@clinic.test"}
	if err := svc.Register(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != StatusPending {
		t.Errorf("expected pending, got %s", d.Status)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	svc.Register(context.Background(), &Doctor{Name: "Dr. Amara Obi", Email: "amara@clinic.test"})

	err := svc.Register(context.Background(), &Doctor{Name: "Someone Else", Email: "amara@clinic.test"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Register(context.Background(), &Doctor{Email: "x@y.test"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Register(context.Background(), &Doctor{Name: "Dr. X"}); err == nil {
		t.Error("expected error for missing email")
	}
}

func TestSetStatus(t *testing.T) {
	svc, _ := newTestService()
	d := &Doctor{Name: "Dr. Amara Obi", Email: "amara@clinic.test"}
	svc.Register(context.Background(), d)

	got, err := svc.SetStatus(context.Background(), d.ID, StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("expected approved, got %s", got.Status)
	}
}

func TestSetStatus_Invalid(t *testing.T) {
	svc, _ := newTestService()
	d := &Doctor{Name: "Dr. Amara Obi", Email: "amara@clinic.test"}
	svc.Register(context.Background(), d)

	if _, err := svc.SetStatus(context.Background(), d.ID, "suspended"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	d := &Doctor{Name: "Dr. Amara Obi", Email: "amara@clinic.test"}
	svc.Register(context.Background(), d)

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.doctors[d.ID]; ok {
		t.Error("expected doctor to be removed")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Delete(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown doctor")
	}
}
