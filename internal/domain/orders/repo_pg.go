package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Order Repository ===========

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository { return &orderRepoPG{pool: pool} }

func (r *orderRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const orderCols = `id, order_number, user_id, patient_name, patient_email, patient_phone,
	patient_dob, patient_gender, address_line, address_city, address_state, address_postal_code,
	status, payment_status, payment_method, payment_date, transaction_id, total_amount,
	scheduled_date, scheduled_time, location, created_at, updated_at`

func (r *orderRepoPG) scanOrder(row pgx.Row) (*TestOrder, error) {
	var o TestOrder
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Patient.Name, &o.Patient.Email,
		&o.Patient.Phone, &o.Patient.DOB, &o.Patient.Gender, &o.Patient.Address.Line,
		&o.Patient.Address.City, &o.Patient.Address.State, &o.Patient.Address.PostalCode,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentDate, &o.TransactionID,
		&o.TotalAmount, &o.ScheduledDate, &o.ScheduledTime, &o.Location, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *TestOrder) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO test_order (id, order_number, user_id, patient_name, patient_email,
			patient_phone, patient_dob, patient_gender, address_line, address_city,
			address_state, address_postal_code, status, payment_status, payment_method,
			payment_date, transaction_id, total_amount, scheduled_date, scheduled_time, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		o.ID, o.OrderNumber, o.UserID, o.Patient.Name, o.Patient.Email,
		o.Patient.Phone, o.Patient.DOB, o.Patient.Gender, o.Patient.Address.Line,
		o.Patient.Address.City, o.Patient.Address.State, o.Patient.Address.PostalCode,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.PaymentDate, o.TransactionID,
		o.TotalAmount, o.ScheduledDate, o.ScheduledTime, o.Location)
	if err != nil {
		return err
	}
	for _, it := range o.Tests {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO order_item (order_id, test_id, code, name, price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.TestID, it.Code, it.Name, it.Price, it.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepoPG) loadItems(ctx context.Context, o *TestOrder) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT test_id, code, name, price, quantity FROM order_item WHERE order_id = $1`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.TestID, &it.Code, &it.Name, &it.Price, &it.Quantity); err != nil {
			return err
		}
		o.Tests = append(o.Tests, it)
	}
	return rows.Err()
}

func (r *orderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TestOrder, error) {
	o, err := r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM test_order WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepoPG) GetByNumber(ctx context.Context, number string) (*TestOrder, error) {
	o, err := r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM test_order WHERE order_number = $1`, number))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE test_order SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *orderRepoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*TestOrder, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM test_order WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+orderCols+` FROM test_order WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TestOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	for _, o := range items {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *orderRepoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*TestOrder, int, error) {
	query := `SELECT ` + orderCols + ` FROM test_order WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM test_order WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["email"]; ok {
		query += fmt.Sprintf(` AND patient_email = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_email = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TestOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	for _, o := range items {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// =========== Result Repository ===========

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository { return &resultRepoPG{pool: pool} }

func (r *resultRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const resultCols = `id, order_id, test_id, result_value, normal_range, unit, status,
	attachment_name, attachment_type, attachment_url, created_at, updated_at`

func (r *resultRepoPG) scanResult(row pgx.Row) (*TestResult, error) {
	var res TestResult
	err := row.Scan(&res.ID, &res.OrderID, &res.TestID, &res.ResultValue, &res.NormalRange,
		&res.Unit, &res.Status, &res.AttachmentName, &res.AttachmentType, &res.AttachmentURL,
		&res.CreatedAt, &res.UpdatedAt)
	return &res, err
}

func (r *resultRepoPG) Upsert(ctx context.Context, res *TestResult) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO test_result (id, order_id, test_id, result_value, normal_range, unit,
			status, attachment_name, attachment_type, attachment_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (order_id, test_id) DO UPDATE SET
			result_value = EXCLUDED.result_value,
			normal_range = EXCLUDED.normal_range,
			unit = EXCLUDED.unit,
			status = EXCLUDED.status,
			attachment_name = EXCLUDED.attachment_name,
			attachment_type = EXCLUDED.attachment_type,
			attachment_url = EXCLUDED.attachment_url,
			updated_at = NOW()`,
		res.ID, res.OrderID, res.TestID, res.ResultValue, res.NormalRange, res.Unit,
		res.Status, res.AttachmentName, res.AttachmentType, res.AttachmentURL)
	return err
}

func (r *resultRepoPG) GetByOrderAndTest(ctx context.Context, orderID, testID uuid.UUID) (*TestResult, error) {
	return r.scanResult(r.conn(ctx).QueryRow(ctx,
		`SELECT `+resultCols+` FROM test_result WHERE order_id = $1 AND test_id = $2`, orderID, testID))
}

func (r *resultRepoPG) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*TestResult, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+resultCols+` FROM test_result WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TestResult
	for rows.Next() {
		res, err := r.scanResult(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, rows.Err()
}
