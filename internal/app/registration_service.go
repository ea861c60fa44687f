package app

import (
	"context"
	"fmt"

	"github.com/losol/eventuras-sub004/internal/domain"
)

// RegistrationQueryRepository covers the read side plus the order status
// transition used by cancellation.
type RegistrationQueryRepository interface {
	GetRegistration(ctx context.Context, registrationID string) (domain.Registration, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListRegistrations(ctx context.Context, organizationID, userID string) ([]domain.Registration, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// RegistrationService answers entitlement reads and scoped listings, and
// handles order cancellation.
type RegistrationService struct {
	repo   RegistrationQueryRepository
	policy *AccessPolicy
}

func NewRegistrationService(repo RegistrationQueryRepository, policy *AccessPolicy) *RegistrationService {
	return &RegistrationService{repo: repo, policy: policy}
}

// GetEntitlement returns the registrant's current net holdings.
func (s *RegistrationService) GetEntitlement(ctx context.Context, actor ActorContext, registrationID string) ([]domain.EntitlementItem, error) {
	reg, err := s.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.GetEvent(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanRead(actor, reg, event); err != nil {
		return nil, err
	}
	return domain.NetEntitlement(reg), nil
}

// ListRegistrations lists what the actor may see: everything for power
// admins, the current organization for org admins, otherwise only their
// own registrations.
func (s *RegistrationService) ListRegistrations(ctx context.Context, actor ActorContext) ([]domain.Registration, error) {
	scope, err := s.policy.ScopeList(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, scope.OrganizationID, scope.UserID)
}

// CancelOrder transitions an order to cancelled, the only way an order
// ever leaves entitlement accounting. Cancelling a cancelled order is an
// invalid operation.
func (s *RegistrationService) CancelOrder(ctx context.Context, actor ActorContext, orderID string) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Editable() {
		return fmt.Errorf("%w: order %s is %s", domain.ErrOrderNotEditable, order.ID, order.Status)
	}

	reg, err := s.repo.GetRegistration(ctx, order.RegistrationID)
	if err != nil {
		return err
	}
	event, err := s.repo.GetEvent(ctx, reg.EventID)
	if err != nil {
		return err
	}
	if err := s.policy.CanUpdate(actor, reg, event); err != nil {
		return err
	}

	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled)
}
