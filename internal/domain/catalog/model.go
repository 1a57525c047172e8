package catalog

import (
	"time"

	"github.com/google/uuid"
)

// LabTest is a single orderable laboratory test. Entries are deactivated
// rather than deleted because orders keep references to them.
type LabTest struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	Category    *string   `db:"category" json:"category,omitempty"`
	Active      *bool     `db:"active" json:"active,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
