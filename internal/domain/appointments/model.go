package appointments

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusPending   = "PENDING"
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// transitions maps each status to the set it may move to. COMPLETED and
// CANCELLED are terminal.
var transitions = map[string]map[string]bool{
	StatusPending:   {StatusScheduled: true, StatusCancelled: true},
	StatusScheduled: {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	return ok && allowed[to]
}

func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CancelReason builds the default reason recorded when an appointment is
// cancelled without one.
func CancelReason(at time.Time) string {
	return fmt.Sprintf("Appointment has been cancelled on %s", at.Format(time.RFC1123))
}

type Appointment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    string     `db:"patient_id" json:"patient_id"`
	DoctorID     *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	StartTime    *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime      *time.Time `db:"end_time" json:"end_time,omitempty"`
	Reason       *string    `db:"reason" json:"reason,omitempty"`
	Status       string     `db:"status" json:"status"`
	StatusReason *string    `db:"status_reason" json:"status_reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
