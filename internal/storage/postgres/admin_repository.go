package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losol/eventuras-sub004/internal/domain"
)

// AdminRepository persists the catalog side: events and their products.
type AdminRepository struct {
	pool     *pgxpool.Pool
	products *ProductRepository
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool, products: NewProductRepository(pool)}
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		const stmt = `
INSERT INTO events (
	id, organization_id, title, date_start, last_registration_date,
	last_cancellation_date, timezone, allowed_registration_edit_hours,
	allow_modifications_after_last_cancellation_date
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err := dbExec(txCtx, r.pool, stmt,
			event.ID, event.OrganizationID, event.Title, event.DateStart,
			event.LastRegistrationDate, event.LastCancellationDate, event.Timezone,
			event.Policy.AllowedRegistrationEditHours,
			event.Policy.AllowModificationsAfterLastCancellationDate,
		)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("create event: %w", err)
		}

		const collectionStmt = `
INSERT INTO event_collections (event_id, collection_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

		for _, collectionID := range event.CollectionIDs {
			if _, err := dbExec(txCtx, r.pool, collectionStmt, event.ID, collectionID); err != nil {
				return fmt.Errorf("add event collection: %w", err)
			}
		}
		return nil
	})
}

// ListEvents filters by organization; empty means every organization.
func (r *AdminRepository) ListEvents(ctx context.Context, organizationID string) ([]domain.Event, error) {
	const query = `
SELECT id, organization_id, title, date_start, last_registration_date,
       last_cancellation_date, timezone, allowed_registration_edit_hours,
       allow_modifications_after_last_cancellation_date
FROM events
WHERE ($1 = '' OR organization_id = $1)
ORDER BY created_at ASC`

	rows, err := dbQuery(ctx, r.pool, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.Title, &e.DateStart, &e.LastRegistrationDate,
			&e.LastCancellationDate, &e.Timezone, &e.Policy.AllowedRegistrationEditHours,
			&e.Policy.AllowModificationsAfterLastCancellationDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *AdminRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.pool, eventID)
}

func (r *AdminRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	return r.products.CreateProduct(ctx, product)
}

func (r *AdminRepository) ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error) {
	return r.products.ListEventProducts(ctx, eventID)
}
