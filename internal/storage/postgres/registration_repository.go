package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losol/eventuras-sub004/internal/domain"
)

// RegistrationRepository loads registrations with their full order graph
// and persists reconciliation results.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *RegistrationRepository) GetRegistration(ctx context.Context, registrationID string) (domain.Registration, error) {
	return r.getRegistration(ctx, registrationID, false)
}

// GetRegistrationForUpdate row-locks the registration for the enclosing
// transaction before loading its orders and lines.
func (r *RegistrationRepository) GetRegistrationForUpdate(ctx context.Context, registrationID string) (domain.Registration, error) {
	return r.getRegistration(ctx, registrationID, true)
}

func (r *RegistrationRepository) getRegistration(ctx context.Context, registrationID string, forUpdate bool) (domain.Registration, error) {
	query := `
SELECT id, event_id, user_id, status, registration_time
FROM registrations
WHERE id = $1`
	if forUpdate {
		query += `
FOR UPDATE`
	}

	var reg domain.Registration
	var status string
	err := dbQueryRow(ctx, r.pool, query, registrationID).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &status, &reg.RegistrationTime)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Registration{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Registration{}, domain.ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	reg.Status = domain.RegistrationStatus(status)

	if err := r.loadOrders(ctx, &reg); err != nil {
		return domain.Registration{}, err
	}
	return reg, nil
}

func (r *RegistrationRepository) loadOrders(ctx context.Context, reg *domain.Registration) error {
	const ordersQuery = `
SELECT id, registration_id, status, order_time
FROM orders
WHERE registration_id = $1
ORDER BY order_time ASC`

	rows, err := dbQuery(ctx, r.pool, ordersQuery, reg.ID)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.RegistrationID, &status, &o.OrderTime); err != nil {
			return fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		index[o.ID] = len(reg.Orders)
		reg.Orders = append(reg.Orders, o)
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterate orders: %w", rows.Err())
	}
	if len(reg.Orders) == 0 {
		return nil
	}

	const linesQuery = `
SELECT l.order_id, l.product_id, COALESCE(l.variant_id, 0), l.quantity
FROM order_lines l
JOIN orders o ON o.id = l.order_id
WHERE o.registration_id = $1
ORDER BY l.id ASC`

	lineRows, err := dbQuery(ctx, r.pool, linesQuery, reg.ID)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID string
		var line domain.OrderLine
		if err := lineRows.Scan(&orderID, &line.ProductID, &line.VariantID, &line.Quantity); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			reg.Orders[i].Lines = append(reg.Orders[i].Lines, line)
		}
	}
	if lineRows.Err() != nil {
		return fmt.Errorf("iterate order lines: %w", lineRows.Err())
	}
	return nil
}

func (r *RegistrationRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.pool, eventID)
}

// ListRegistrations filters by organization and/or user; empty arguments
// mean no restriction on that dimension.
func (r *RegistrationRepository) ListRegistrations(ctx context.Context, organizationID, userID string) ([]domain.Registration, error) {
	const query = `
SELECT r.id, r.event_id, r.user_id, r.status, r.registration_time
FROM registrations r
JOIN events e ON e.id = r.event_id
WHERE ($1 = '' OR e.organization_id = $1)
  AND ($2 = '' OR r.user_id = $2)
ORDER BY r.registration_time ASC`

	rows, err := dbQuery(ctx, r.pool, query, organizationID, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		var status string
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &status, &reg.RegistrationTime); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		reg.Status = domain.RegistrationStatus(status)
		out = append(out, reg)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate registrations: %w", rows.Err())
	}
	return out, nil
}

func (r *RegistrationRepository) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	const stmt = `
INSERT INTO registrations (id, event_id, user_id, status, registration_time)
VALUES ($1, $2, $3, $4, $5)`

	_, err := dbExec(ctx, r.pool, stmt, reg.ID, reg.EventID, reg.UserID, string(reg.Status), reg.RegistrationTime)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, registration_id, status, order_time)
VALUES ($1, $2, $3, $4)`

	if _, err := dbExec(ctx, r.pool, stmt, order.ID, order.RegistrationID, string(order.Status), order.OrderTime); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return r.insertLines(ctx, order.ID, order.Lines)
}

// ReplaceOrderLines swaps the order's line set for the given one in a
// single unit; reconciliation has already merged the delta in.
func (r *RegistrationRepository) ReplaceOrderLines(ctx context.Context, order domain.Order) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		if _, err := dbExec(txCtx, r.pool, `DELETE FROM order_lines WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("clear order lines: %w", err)
		}
		return r.insertLines(txCtx, order.ID, order.Lines)
	})
}

func (r *RegistrationRepository) insertLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	const stmt = `
INSERT INTO order_lines (order_id, product_id, variant_id, quantity)
VALUES ($1, $2, NULLIF($3, 0), $4)`

	for _, line := range lines {
		if _, err := dbExec(ctx, r.pool, stmt, orderID, line.ProductID, line.VariantID, line.Quantity); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *RegistrationRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, registration_id, status, order_time
FROM orders
WHERE id = $1`

	var o domain.Order
	var status string
	err := dbQueryRow(ctx, r.pool, query, orderID).
		Scan(&o.ID, &o.RegistrationID, &status, &o.OrderTime)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *RegistrationRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $2 WHERE id = $1`

	tag, err := dbExec(ctx, r.pool, stmt, orderID, string(status))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// getEvent is shared between the registration and admin repositories.
func getEvent(ctx context.Context, pool *pgxpool.Pool, eventID string) (domain.Event, error) {
	const query = `
SELECT id, organization_id, title, date_start, last_registration_date,
       last_cancellation_date, timezone, allowed_registration_edit_hours,
       allow_modifications_after_last_cancellation_date
FROM events
WHERE id = $1`

	var e domain.Event
	err := dbQueryRow(ctx, pool, query, eventID).Scan(
		&e.ID, &e.OrganizationID, &e.Title, &e.DateStart, &e.LastRegistrationDate,
		&e.LastCancellationDate, &e.Timezone, &e.Policy.AllowedRegistrationEditHours,
		&e.Policy.AllowModificationsAfterLastCancellationDate,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}

	const collectionsQuery = `SELECT collection_id FROM event_collections WHERE event_id = $1 ORDER BY collection_id`
	rows, err := dbQuery(ctx, pool, collectionsQuery, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("list event collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var collectionID string
		if err := rows.Scan(&collectionID); err != nil {
			return domain.Event{}, fmt.Errorf("scan event collection: %w", err)
		}
		e.CollectionIDs = append(e.CollectionIDs, collectionID)
	}
	if rows.Err() != nil {
		return domain.Event{}, fmt.Errorf("iterate event collections: %w", rows.Err())
	}
	return e, nil
}
