package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/losol/eventuras-sub004/internal/domain"
	"github.com/losol/eventuras-sub004/internal/testutil"
)

func TestRegistrationRepository_Integration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	hours := 24
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		OrganizationID: "org-1",
		Title:          "Autumn Summit",
		Timezone:       "Europe/Oslo",
		Policy:         domain.RegistrationPolicy{AllowedRegistrationEditHours: &hours},
	})
	productID := testutil.InsertProduct(t, ctx, pool, domain.Product{
		EventID:    eventID,
		Name:       "Dinner",
		Visibility: domain.VisibilityEvent,
	})
	regID := testutil.InsertRegistration(t, ctx, pool, eventID, "user-1")

	repo := NewRegistrationRepository(pool)

	t.Run("event loads with policy", func(t *testing.T) {
		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if event.Timezone != "Europe/Oslo" {
			t.Fatalf("expected timezone Europe/Oslo, got %q", event.Timezone)
		}
		if event.Policy.AllowedRegistrationEditHours == nil || *event.Policy.AllowedRegistrationEditHours != 24 {
			t.Fatalf("expected edit hours 24, got %v", event.Policy.AllowedRegistrationEditHours)
		}
	})

	t.Run("missing registration returns not found", func(t *testing.T) {
		if _, err := repo.GetRegistration(ctx, uuid.NewString()); err != domain.ErrRegistrationNotFound {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}
	})

	t.Run("malformed id returns invalid id", func(t *testing.T) {
		if _, err := repo.GetRegistration(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	orderID := uuid.NewString()

	t.Run("create order with lines", func(t *testing.T) {
		err := repo.CreateOrder(ctx, domain.Order{
			ID:             orderID,
			RegistrationID: regID,
			Status:         domain.OrderStatusDraft,
			OrderTime:      time.Now().UTC(),
			Lines:          []domain.OrderLine{{ProductID: productID, Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		reg, err := repo.GetRegistrationForUpdate(ctx, regID)
		if err != nil {
			t.Fatalf("get registration: %v", err)
		}
		if len(reg.Orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(reg.Orders))
		}
		if len(reg.Orders[0].Lines) != 1 || reg.Orders[0].Lines[0].Quantity != 2 {
			t.Fatalf("expected one line qty 2, got %+v", reg.Orders[0].Lines)
		}
		if reg.Orders[0].Lines[0].VariantID != 0 {
			t.Fatalf("expected variant id 0 for NULL variant, got %d", reg.Orders[0].Lines[0].VariantID)
		}
	})

	t.Run("replace order lines", func(t *testing.T) {
		err := repo.ReplaceOrderLines(ctx, domain.Order{
			ID:    orderID,
			Lines: []domain.OrderLine{{ProductID: productID, Quantity: 5}},
		})
		if err != nil {
			t.Fatalf("replace lines: %v", err)
		}

		reg, err := repo.GetRegistration(ctx, regID)
		if err != nil {
			t.Fatalf("get registration: %v", err)
		}
		if got := reg.Orders[0].Lines[0].Quantity; got != 5 {
			t.Fatalf("expected qty 5 after replace, got %d", got)
		}
	})

	t.Run("update order status", func(t *testing.T) {
		if err := repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled); err != nil {
			t.Fatalf("update status: %v", err)
		}
		order, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if order.Status != domain.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %s", order.Status)
		}

		if err := repo.UpdateOrderStatus(ctx, uuid.NewString(), domain.OrderStatusDraft); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("list registrations scoping", func(t *testing.T) {
		all, err := repo.ListRegistrations(ctx, "", "")
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 registration, got %d", len(all))
		}

		byOrg, err := repo.ListRegistrations(ctx, "org-1", "")
		if err != nil {
			t.Fatalf("list by org: %v", err)
		}
		if len(byOrg) != 1 {
			t.Fatalf("expected 1 registration for org-1, got %d", len(byOrg))
		}

		none, err := repo.ListRegistrations(ctx, "org-2", "")
		if err != nil {
			t.Fatalf("list by other org: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("expected no registrations for org-2, got %d", len(none))
		}
	})
}

func TestProductRepository_Integration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		OrganizationID: "org-1",
		Title:          "Autumn Summit",
	})

	repo := NewProductRepository(pool)

	product, err := repo.CreateProduct(ctx, domain.Product{
		EventID:     eventID,
		Name:        "T-shirt",
		Visibility:  domain.VisibilityEvent,
		IsMandatory: false,
		Variants:    []domain.ProductVariant{{Name: "S"}, {Name: "M"}},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == 0 || len(product.Variants) != 2 || product.Variants[0].ID == 0 {
		t.Fatalf("expected ids assigned, got %+v", product)
	}

	loaded, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if len(loaded.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(loaded.Variants))
	}

	if _, err := repo.GetProduct(ctx, 99999); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	listed, err := repo.ListEventProducts(ctx, eventID)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(listed) != 1 || len(listed[0].Variants) != 2 {
		t.Fatalf("expected listed product with variants, got %+v", listed)
	}
}
