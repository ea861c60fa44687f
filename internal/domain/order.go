package domain

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusVerified  OrderStatus = "verified"
	OrderStatusInvoiced  OrderStatus = "invoiced"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a batch of signed product lines placed against a registration.
// Orders are never hard-deleted; cancellation is a status transition and
// cancelled orders stop counting towards the registrant's entitlement.
type Order struct {
	ID             string
	RegistrationID string
	Status         OrderStatus
	OrderTime      time.Time
	Lines          []OrderLine
}

// Editable reports whether the order may still receive line adjustments.
// Verified and invoiced orders stay structurally editable through the
// reconciliation flow; only cancellation closes an order.
func (o Order) Editable() bool {
	return o.Status != OrderStatusCancelled
}
