package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/losol/eventuras-sub004/internal/clock"
	"github.com/losol/eventuras-sub004/internal/domain"
	"github.com/losol/eventuras-sub004/internal/lock"
	"github.com/losol/eventuras-sub004/internal/metrics"
)

// RegistrationRepository is the persistence contract the reconciliation
// flow needs. GetRegistrationForUpdate must return the registration with
// its orders and their lines loaded, row-locked for the enclosing
// transaction.
type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetRegistrationForUpdate(ctx context.Context, registrationID string) (domain.Registration, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	ReplaceOrderLines(ctx context.Context, order domain.Order) error
}

// ProductCatalog resolves live product data, with variants and collection
// memberships loaded.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error)
}

// ReconcileService makes a registration hold exactly a desired set of
// products. The whole reconciliation is computed first and applied as one
// unit; a validation failure discards it entirely.
type ReconcileService struct {
	repo    RegistrationRepository
	catalog ProductCatalog
	policy  *AccessPolicy
	clock   clock.Clock
	locker  lock.Locker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type ReconcileServiceOption func(*ReconcileService)

func WithLocker(l lock.Locker) ReconcileServiceOption {
	return func(s *ReconcileService) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithLogger(logger *slog.Logger) ReconcileServiceOption {
	return func(s *ReconcileService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) ReconcileServiceOption {
	return func(s *ReconcileService) {
		s.metrics = m
	}
}

func NewReconcileService(repo RegistrationRepository, catalog ProductCatalog, policy *AccessPolicy, clk clock.Clock, opts ...ReconcileServiceOption) *ReconcileService {
	svc := &ReconcileService{
		repo:    repo,
		catalog: catalog,
		policy:  policy,
		clock:   clk,
		locker:  lock.Noop{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ProductSelection is one requested (product, variant, quantity) of the
// desired entitlement. Quantity is the absolute target, not a delta.
type ProductSelection struct {
	ProductID int64
	VariantID int64
	Quantity  int
}

type ReconcileInput struct {
	RegistrationID string
	Actor          ActorContext
	Desired        []ProductSelection
}

// ReconcileResult reports the order that absorbed the delta. Order is nil
// when the registration already matched the desired entitlement; callers
// must treat that as "nothing to do", not as an error.
type ReconcileResult struct {
	Order   *domain.Order
	Created bool
}

// Reconcile moves the registration's net entitlement to in.Desired:
// access gate, delta against the current entitlement, application to the
// latest editable order (or a fresh draft order), then quantity
// validation, all inside one transaction under a per-registration lock.
func (s *ReconcileService) Reconcile(ctx context.Context, in ReconcileInput) (ReconcileResult, error) {
	start := s.clock.Now()

	release, err := s.locker.Acquire(ctx, "registration:"+in.RegistrationID)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("acquire registration lock: %w", err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("release registration lock", "registration_id", in.RegistrationID, "error", err)
		}
	}()

	var result ReconcileResult
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reg, err := s.repo.GetRegistrationForUpdate(txCtx, in.RegistrationID)
		if err != nil {
			return err
		}
		event, err := s.repo.GetEvent(txCtx, reg.EventID)
		if err != nil {
			return err
		}

		if err := s.policy.CanUpdate(in.Actor, reg, event); err != nil {
			s.metrics.ObserveAccessDenied()
			return err
		}

		desired, err := s.resolveDesiredLines(txCtx, event, in.Desired)
		if err != nil {
			return err
		}

		current := domain.EntitlementLines(reg)
		changes := domain.Diff(desired, current)
		if len(changes) == 0 {
			s.logger.Info("reconcile no-op", "registration_id", reg.ID)
			s.metrics.ObserveReconcile("noop", s.clock.Now().Sub(start))
			return nil
		}

		order, created := s.targetOrder(reg, changes)

		mutated := replaceOrder(reg, order, created)
		entitlement := domain.NetEntitlement(mutated)
		if err := s.validateEntitlement(txCtx, in.Actor, event, entitlement); err != nil {
			return err
		}

		if created {
			if err := s.repo.CreateOrder(txCtx, order); err != nil {
				return err
			}
		} else if err := s.repo.ReplaceOrderLines(txCtx, order); err != nil {
			return err
		}

		s.logger.Info("reconciled registration",
			"registration_id", reg.ID,
			"order_id", order.ID,
			"created", created,
			"changes", len(changes),
		)
		s.metrics.ObserveReconcile("applied", s.clock.Now().Sub(start))
		result = ReconcileResult{Order: &order, Created: created}
		return nil
	})
	if err != nil {
		s.metrics.ObserveReconcile("failed", s.clock.Now().Sub(start))
		return ReconcileResult{}, err
	}
	return result, nil
}

// resolveDesiredLines turns the requested selections into validated order
// lines backed by live catalog data.
func (s *ReconcileService) resolveDesiredLines(ctx context.Context, event domain.Event, selections []ProductSelection) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0, len(selections))
	for _, sel := range selections {
		product, err := s.catalog.GetProduct(ctx, sel.ProductID)
		if err != nil {
			return nil, err
		}
		if err := CheckVisibility(product, event); err != nil {
			return nil, err
		}
		line, err := BuildLine(product, sel.VariantID, sel.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// targetOrder applies the delta to the latest editable order, or wraps it
// in a new draft order when every existing order is closed.
func (s *ReconcileService) targetOrder(reg domain.Registration, changes []domain.LineChange) (domain.Order, bool) {
	if target := reg.LatestEditableOrder(); target != nil {
		order := *target
		order.Lines = domain.ApplyChanges(order.Lines, changes)
		return order, false
	}

	lines := make([]domain.OrderLine, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, c.Line())
	}
	return domain.Order{
		ID:             uuid.NewString(),
		RegistrationID: reg.ID,
		Status:         domain.OrderStatusDraft,
		OrderTime:      s.clock.Now(),
		Lines:          domain.Sanitize(lines),
	}, true
}

func (s *ReconcileService) validateEntitlement(ctx context.Context, actor ActorContext, event domain.Event, entitlement []domain.EntitlementItem) error {
	if err := CheckNonNegative(entitlement); err != nil {
		return err
	}
	eventProducts, err := s.catalog.ListEventProducts(ctx, event.ID)
	if err != nil {
		return err
	}
	return CheckMinimumQuantities(eventProducts, entitlement, s.policy.HasAdminAccess(actor, event))
}

// replaceOrder returns a copy of the registration with the mutated order
// swapped in (or appended), so the post-mutation entitlement can be
// validated before anything is persisted.
func replaceOrder(reg domain.Registration, order domain.Order, created bool) domain.Registration {
	orders := make([]domain.Order, 0, len(reg.Orders)+1)
	for _, o := range reg.Orders {
		if !created && o.ID == order.ID {
			continue
		}
		orders = append(orders, o)
	}
	orders = append(orders, order)
	reg.Orders = orders
	return reg
}
