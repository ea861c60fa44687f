package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losol/eventuras-sub004/internal/domain"
)

// ProductRepository is the live catalog lookup the reconciliation engine
// resolves desired lines against.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetProduct loads a product with its variants and the collection
// memberships of its owning event.
func (r *ProductRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	const query = `
SELECT id, event_id, name, visibility, minimum_quantity, is_mandatory
FROM products
WHERE id = $1`

	p, err := scanProduct(dbQueryRow(ctx, r.pool, query, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}

	if err := r.loadVariants(ctx, []*domain.Product{&p}); err != nil {
		return domain.Product{}, err
	}
	if err := r.loadCollections(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error) {
	const query = `
SELECT id, event_id, name, visibility, minimum_quantity, is_mandatory
FROM products
WHERE event_id = $1
ORDER BY id ASC`

	rows, err := dbQuery(ctx, r.pool, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate products: %w", rows.Err())
	}

	refs := make([]*domain.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := r.loadVariants(ctx, refs); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var created domain.Product
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		const stmt = `
INSERT INTO products (event_id, name, visibility, minimum_quantity, is_mandatory)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

		created = product
		err := dbQueryRow(txCtx, r.pool, stmt,
			product.EventID, product.Name, string(product.Visibility),
			product.MinimumQuantity, product.IsMandatory,
		).Scan(&created.ID)
		if err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("create product: %w", err)
		}

		const variantStmt = `
INSERT INTO product_variants (product_id, name)
VALUES ($1, $2)
RETURNING id`

		for i := range created.Variants {
			created.Variants[i].ProductID = created.ID
			err := dbQueryRow(txCtx, r.pool, variantStmt, created.ID, created.Variants[i].Name).
				Scan(&created.Variants[i].ID)
			if err != nil {
				return fmt.Errorf("create product variant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

func (r *ProductRepository) loadVariants(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	const query = `
SELECT id, product_id, name
FROM product_variants
WHERE product_id = ANY($1)
ORDER BY id ASC`

	rows, err := dbQuery(ctx, r.pool, query, ids)
	if err != nil {
		return fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name); err != nil {
			return fmt.Errorf("scan product variant: %w", err)
		}
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterate product variants: %w", rows.Err())
	}
	return nil
}

func (r *ProductRepository) loadCollections(ctx context.Context, p *domain.Product) error {
	const query = `SELECT collection_id FROM event_collections WHERE event_id = $1 ORDER BY collection_id`

	rows, err := dbQuery(ctx, r.pool, query, p.EventID)
	if err != nil {
		return fmt.Errorf("list product collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var collectionID string
		if err := rows.Scan(&collectionID); err != nil {
			return fmt.Errorf("scan product collection: %w", err)
		}
		p.CollectionIDs = append(p.CollectionIDs, collectionID)
	}
	if rows.Err() != nil {
		return fmt.Errorf("iterate product collections: %w", rows.Err())
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var visibility string
	err := row.Scan(&p.ID, &p.EventID, &p.Name, &visibility, &p.MinimumQuantity, &p.IsMandatory)
	if err != nil {
		return domain.Product{}, err
	}
	p.Visibility = domain.ProductVisibility(visibility)
	return p, nil
}
