package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/losol/eventuras-sub004/internal/domain"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context, organizationID string) ([]domain.Event, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// AdminService provisions the catalog the validator consults: events and
// their products. Every mutation is admin-gated.
type AdminService struct {
	repo   AdminRepository
	policy *AccessPolicy
}

func NewAdminService(repo AdminRepository, policy *AccessPolicy) *AdminService {
	return &AdminService{repo: repo, policy: policy}
}

type CreateEventInput struct {
	OrganizationID string
	Title          string
	Event          domain.Event
}

func (s *AdminService) CreateEvent(ctx context.Context, actor ActorContext, in CreateEventInput) (domain.Event, error) {
	if in.Title == "" {
		return domain.Event{}, domain.ErrEventTitleRequired
	}
	if in.OrganizationID == "" {
		return domain.Event{}, fmt.Errorf("%w: organization id required", domain.ErrInvalidID)
	}
	if !actor.IsPowerAdmin() && !actor.IsOrganizationAdmin(in.OrganizationID) {
		return domain.Event{}, fmt.Errorf("%w: event creation requires admin access to organization %s", domain.ErrNotAccessible, in.OrganizationID)
	}

	event := in.Event
	event.ID = uuid.NewString()
	event.OrganizationID = in.OrganizationID
	event.Title = in.Title

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context, actor ActorContext) ([]domain.Event, error) {
	scope, err := s.policy.ScopeList(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, scope.OrganizationID)
}

type CreateProductInput struct {
	EventID         string
	Name            string
	Visibility      domain.ProductVisibility
	MinimumQuantity int
	IsMandatory     bool
	VariantNames    []string
}

func (s *AdminService) CreateProduct(ctx context.Context, actor ActorContext, in CreateProductInput) (domain.Product, error) {
	if in.EventID == "" {
		return domain.Product{}, fmt.Errorf("%w: event id required", domain.ErrInvalidID)
	}
	if in.Name == "" {
		return domain.Product{}, domain.ErrProductNameRequired
	}
	if in.MinimumQuantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: minimum quantity must not be negative", domain.ErrInvalidQuantity)
	}

	event, err := s.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Product{}, err
	}
	if !actor.IsPowerAdmin() && !actor.IsOrganizationAdmin(event.OrganizationID) {
		return domain.Product{}, fmt.Errorf("%w: product creation requires admin access to organization %s", domain.ErrNotAccessible, event.OrganizationID)
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = domain.VisibilityEvent
	}

	product := domain.Product{
		EventID:         in.EventID,
		Name:            in.Name,
		Visibility:      visibility,
		MinimumQuantity: in.MinimumQuantity,
		IsMandatory:     in.IsMandatory,
	}
	for _, name := range in.VariantNames {
		product.Variants = append(product.Variants, domain.ProductVariant{Name: name})
	}

	return s.repo.CreateProduct(ctx, product)
}

func (s *AdminService) ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id required", domain.ErrInvalidID)
	}
	return s.repo.ListEventProducts(ctx, eventID)
}
