package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/cart"
	"github.com/clinic/clinic/internal/platform/payments"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPaymentDeclined = errors.New("payment was declined")
	ErrTestNotInOrder  = errors.New("test does not belong to this order")
)

// ValidationError carries field-level messages back to the handler, which
// renders them as a 400 with an errors map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// TxRunner wraps a function in a database transaction. Repositories pick the
// transaction up from the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type CheckoutRequest struct {
	Patient       PatientInfo `json:"patient"`
	PaymentMethod string      `json:"payment_method"`
	ScheduledDate *string     `json:"scheduled_date,omitempty"`
	ScheduledTime *string     `json:"scheduled_time,omitempty"`
	Location      *string     `json:"location,omitempty"`
}

type ResultInput struct {
	TestID         uuid.UUID `json:"test_id"`
	ResultValue    string    `json:"result_value"`
	NormalRange    *string   `json:"normal_range,omitempty"`
	Unit           *string   `json:"unit,omitempty"`
	AttachmentName *string   `json:"attachment_name,omitempty"`
	AttachmentType *string   `json:"attachment_type,omitempty"`
	AttachmentURL  *string   `json:"attachment_url,omitempty"`
}

type Service struct {
	orders  OrderRepository
	results ResultRepository
	carts   Carts
	gateway payments.Gateway
	inTx    TxRunner
	log     zerolog.Logger
}

func NewService(orders OrderRepository, results ResultRepository, carts Carts, gateway payments.Gateway, inTx TxRunner, log zerolog.Logger) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{orders: orders, results: results, carts: carts, gateway: gateway, inTx: inTx, log: log}
}

// Checkout validates the patient info, charges the payment, and creates the
// order in one transaction. The cart is cleared only after the order commits;
// any earlier failure leaves cart and orders untouched.
func (s *Service) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*TestOrder, error) {
	if errs := req.Patient.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	crt, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if len(crt.Items) == 0 {
		return nil, ErrEmptyCart
	}

	number := NewOrderNumber()
	first, last := splitName(req.Patient.Name)
	charge, err := s.gateway.CreateCharge(ctx, payments.ChargeRequest{
		Amount:      crt.Total,
		Currency:    "USD",
		Description: fmt.Sprintf("Lab order %s", number),
		Reference:   number,
		Method:      req.PaymentMethod,
		Payer: payments.Payer{
			Email:     req.Patient.Email,
			FirstName: first,
			LastName:  last,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, err)
	}
	if !charge.Approved() {
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, charge.StatusDetail)
	}

	now := time.Now()
	method := req.PaymentMethod
	order := &TestOrder{
		OrderNumber:   number,
		UserID:        userID,
		Patient:       req.Patient,
		Status:        StatusScheduled,
		PaymentStatus: "paid",
		PaymentMethod: &method,
		PaymentDate:   &now,
		TransactionID: &charge.ID,
		TotalAmount:   crt.Total,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Location:      req.Location,
	}
	for _, it := range crt.Items {
		order.Tests = append(order.Tests, OrderItem{
			TestID:   it.TestID,
			Code:     it.Code,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	if err := s.inTx(ctx, func(ctx context.Context) error {
		return s.orders.Create(ctx, order)
	}); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists and the payment went through; a stale cart is
		// recoverable, so log rather than fail the checkout.
		s.log.Error().Err(err).Str("user_id", userID).Str("order", number).Msg("failed to clear cart after checkout")
	}

	s.log.Info().Str("order", number).Str("transaction_id", charge.ID).Float64("amount", crt.Total).Msg("order created")
	return order, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*TestOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) GetOrderByNumber(ctx context.Context, number string) (*TestOrder, error) {
	return s.orders.GetByNumber(ctx, number)
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]*TestOrder, int, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*TestOrder, int, error) {
	return s.orders.List(ctx, params, limit, offset)
}

var validOrderStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true,
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validOrderStatuses[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return err
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// UpsertResult records a result for one of the order's tests. A submission
// for a pair that already has a result replaces it. Submitted results are
// always stored as completed.
func (s *Service) UpsertResult(ctx context.Context, orderID uuid.UUID, in ResultInput) (*TestResult, error) {
	if in.ResultValue == "" {
		return nil, &ValidationError{Fields: map[string]string{"result_value": "result value is required"}}
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, it := range order.Tests {
		if it.TestID == in.TestID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTestNotInOrder
	}

	res := &TestResult{
		OrderID:        orderID,
		TestID:         in.TestID,
		ResultValue:    in.ResultValue,
		NormalRange:    in.NormalRange,
		Unit:           in.Unit,
		Status:         ResultCompleted,
		AttachmentName: in.AttachmentName,
		AttachmentType: in.AttachmentType,
		AttachmentURL:  in.AttachmentURL,
	}
	if err := s.results.Upsert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// OrderTestStatus pairs an order line with its result, if any. Tests with no
// uploaded result display as pending.
type OrderTestStatus struct {
	Test   OrderItem   `json:"test"`
	Status string      `json:"status"`
	Result *TestResult `json:"result,omitempty"`
}

func (s *Service) ResultsForOrder(ctx context.Context, orderID uuid.UUID) ([]OrderTestStatus, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	results, err := s.results.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	byTest := make(map[uuid.UUID]*TestResult, len(results))
	for _, r := range results {
		byTest[r.TestID] = r
	}
	statuses := make([]OrderTestStatus, 0, len(order.Tests))
	for _, it := range order.Tests {
		st := OrderTestStatus{Test: it, Status: ResultPending}
		if r, ok := byTest[it.TestID]; ok {
			st.Status = r.Status
			st.Result = r
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
