package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/losol/eventuras-sub004/internal/app"
	"github.com/losol/eventuras-sub004/internal/domain"
)

// Reconciler is the minimal interface needed to reconcile a registration.
type Reconciler interface {
	Reconcile(ctx context.Context, in app.ReconcileInput) (app.ReconcileResult, error)
}

// RegistrationReader covers entitlement reads and scoped listings.
type RegistrationReader interface {
	GetEntitlement(ctx context.Context, actor app.ActorContext, registrationID string) ([]domain.EntitlementItem, error)
	ListRegistrations(ctx context.Context, actor app.ActorContext) ([]domain.Registration, error)
}

// OrderCanceller cancels a single order.
type OrderCanceller interface {
	CancelOrder(ctx context.Context, actor app.ActorContext, orderID string) error
}

// HandleReconcile returns an HTTP handler that moves a registration's net
// entitlement to the requested product selection.
func HandleReconcile(svc Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reconcileRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		desired := make([]app.ProductSelection, 0, len(req.Lines))
		for _, l := range req.Lines {
			desired = append(desired, app.ProductSelection{
				ProductID: l.ProductID,
				VariantID: l.VariantID,
				Quantity:  l.Quantity,
			})
		}

		result, err := svc.Reconcile(r.Context(), app.ReconcileInput{
			RegistrationID: chi.URLParam(r, "id"),
			Actor:          actorFrom(r),
			Desired:        desired,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := reconcileResponse{Changed: result.Order != nil, Created: result.Created}
		if result.Order != nil {
			order := toOrderPayload(*result.Order)
			resp.Order = &order
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleGetEntitlement returns the registrant's current net holdings.
func HandleGetEntitlement(svc RegistrationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.GetEntitlement(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := entitlementResponse{Items: make([]entitlementItemPayload, 0, len(items))}
		for _, item := range items {
			p := entitlementItemPayload{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			}
			if item.Product != nil {
				p.ProductName = item.Product.Name
			}
			if item.Variant != nil {
				p.VariantName = item.Variant.Name
			}
			resp.Items = append(resp.Items, p)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleListRegistrations lists the registrations visible to the caller.
func HandleListRegistrations(svc RegistrationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := svc.ListRegistrations(r.Context(), actorFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]registrationPayload, 0, len(regs))
		for _, reg := range regs {
			resp = append(resp, registrationPayload{
				ID:               reg.ID,
				EventID:          reg.EventID,
				UserID:           reg.UserID,
				Status:           string(reg.Status),
				RegistrationTime: reg.RegistrationTime,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleCancelOrder cancels an order, removing it from entitlement
// accounting.
func HandleCancelOrder(svc OrderCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CancelOrder(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reconcileRequest struct {
	Lines []reconcileLine `json:"lines"`
}

type reconcileLine struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

type reconcileResponse struct {
	Changed bool          `json:"changed"`
	Created bool          `json:"created"`
	Order   *orderPayload `json:"order,omitempty"`
}

type orderPayload struct {
	ID             string             `json:"id"`
	RegistrationID string             `json:"registration_id"`
	Status         string             `json:"status"`
	OrderTime      time.Time          `json:"order_time"`
	Lines          []orderLinePayload `json:"lines"`
}

type orderLinePayload struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

func toOrderPayload(order domain.Order) orderPayload {
	p := orderPayload{
		ID:             order.ID,
		RegistrationID: order.RegistrationID,
		Status:         string(order.Status),
		OrderTime:      order.OrderTime,
		Lines:          make([]orderLinePayload, 0, len(order.Lines)),
	}
	for _, l := range order.Lines {
		p.Lines = append(p.Lines, orderLinePayload{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
		})
	}
	return p
}

type entitlementResponse struct {
	Items []entitlementItemPayload `json:"items"`
}

type entitlementItemPayload struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id,omitempty"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"product_name,omitempty"`
	VariantName string `json:"variant_name,omitempty"`
}

type registrationPayload struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	UserID           string    `json:"user_id"`
	Status           string    `json:"status"`
	RegistrationTime time.Time `json:"registration_time"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
