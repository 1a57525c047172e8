package orders

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Order lifecycle statuses. Orders are never deleted.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Result statuses.
const (
	ResultPending    = "pending"
	ResultProcessing = "processing"
	ResultCompleted  = "completed"
)

type Address struct {
	Line       string `db:"address_line" json:"line"`
	City       string `db:"address_city" json:"city"`
	State      string `db:"address_state" json:"state"`
	PostalCode string `db:"address_postal_code" json:"postal_code"`
}

type PatientInfo struct {
	Name    string  `db:"patient_name" json:"name"`
	Email   string  `db:"patient_email" json:"email"`
	Phone   string  `db:"patient_phone" json:"phone"`
	DOB     string  `db:"patient_dob" json:"dob"`
	Gender  string  `db:"patient_gender" json:"gender"`
	Address Address `json:"address"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate returns one message per invalid field. An empty map means the
// info is acceptable for checkout.
func (p PatientInfo) Validate() map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if p.Email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(p.Email) {
		errs["email"] = "email is not a valid address"
	}
	if p.Phone == "" {
		errs["phone"] = "phone is required"
	}
	if p.DOB == "" {
		errs["dob"] = "date of birth is required"
	}
	if p.Gender == "" {
		errs["gender"] = "gender is required"
	}
	if p.Address.Line == "" {
		errs["address.line"] = "street address is required"
	}
	if p.Address.City == "" {
		errs["address.city"] = "city is required"
	}
	if p.Address.State == "" {
		errs["address.state"] = "state is required"
	}
	if p.Address.PostalCode == "" {
		errs["address.postal_code"] = "postal code is required"
	}
	return errs
}

// OrderItem snapshots a cart line at checkout time.
type OrderItem struct {
	TestID   uuid.UUID `db:"test_id" json:"test_id"`
	Code     string    `db:"code" json:"code"`
	Name     string    `db:"name" json:"name"`
	Price    float64   `db:"price" json:"price"`
	Quantity int       `db:"quantity" json:"quantity"`
}

type TestOrder struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	OrderNumber   string      `db:"order_number" json:"order_number"`
	UserID        string      `db:"user_id" json:"user_id"`
	Patient       PatientInfo `json:"patient"`
	Status        string      `db:"status" json:"status"`
	PaymentStatus string      `db:"payment_status" json:"payment_status"`
	PaymentMethod *string     `db:"payment_method" json:"payment_method,omitempty"`
	PaymentDate   *time.Time  `db:"payment_date" json:"payment_date,omitempty"`
	TransactionID *string     `db:"transaction_id" json:"transaction_id,omitempty"`
	TotalAmount   float64     `db:"total_amount" json:"total_amount"`
	ScheduledDate *string     `db:"scheduled_date" json:"scheduled_date,omitempty"`
	ScheduledTime *string     `db:"scheduled_time" json:"scheduled_time,omitempty"`
	Location      *string     `db:"location" json:"location,omitempty"`
	Tests         []OrderItem `json:"tests"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

type TestResult struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrderID        uuid.UUID `db:"order_id" json:"order_id"`
	TestID         uuid.UUID `db:"test_id" json:"test_id"`
	ResultValue    string    `db:"result_value" json:"result_value"`
	NormalRange    *string   `db:"normal_range" json:"normal_range,omitempty"`
	Unit           *string   `db:"unit" json:"unit,omitempty"`
	Status         string    `db:"status" json:"status"`
	AttachmentName *string   `db:"attachment_name" json:"attachment_name,omitempty"`
	AttachmentType *string   `db:"attachment_type" json:"attachment_type,omitempty"`
	AttachmentURL  *string   `db:"attachment_url" json:"attachment_url,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewOrderNumber builds a short human-readable reference for receipts.
func NewOrderNumber() string {
	return fmt.Sprintf("LAB-%06d", rand.Intn(1000000))
}
