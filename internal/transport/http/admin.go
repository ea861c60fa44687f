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

// CatalogAdmin is the minimal interface the admin routes need.
type CatalogAdmin interface {
	CreateEvent(ctx context.Context, actor app.ActorContext, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context, actor app.ActorContext) ([]domain.Event, error)
	CreateProduct(ctx context.Context, actor app.ActorContext, in app.CreateProductInput) (domain.Product, error)
	ListEventProducts(ctx context.Context, eventID string) ([]domain.Product, error)
}

// HandleCreateEvent returns an HTTP handler for creating events.
func HandleCreateEvent(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		event, err := svc.CreateEvent(r.Context(), actorFrom(r), app.CreateEventInput{
			OrganizationID: req.OrganizationID,
			Title:          req.Title,
			Event: domain.Event{
				DateStart:            req.DateStart,
				LastRegistrationDate: req.LastRegistrationDate,
				LastCancellationDate: req.LastCancellationDate,
				Timezone:             req.Timezone,
				Policy: domain.RegistrationPolicy{
					AllowedRegistrationEditHours:                req.AllowedRegistrationEditHours,
					AllowModificationsAfterLastCancellationDate: req.AllowModificationsAfterLastCancellationDate,
				},
				CollectionIDs: req.CollectionIDs,
			},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventPayload(event))
	}
}

// HandleListEvents lists the events visible to the caller.
func HandleListEvents(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context(), actorFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]eventPayload, 0, len(events))
		for _, e := range events {
			resp = append(resp, toEventPayload(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleCreateProduct returns an HTTP handler for adding a product to an
// event's catalog.
func HandleCreateProduct(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		product, err := svc.CreateProduct(r.Context(), actorFrom(r), app.CreateProductInput{
			EventID:         chi.URLParam(r, "id"),
			Name:            req.Name,
			Visibility:      domain.ProductVisibility(req.Visibility),
			MinimumQuantity: req.MinimumQuantity,
			IsMandatory:     req.IsMandatory,
			VariantNames:    req.VariantNames,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toProductPayload(product))
	}
}

// HandleListEventProducts lists an event's product catalog.
func HandleListEventProducts(svc CatalogAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListEventProducts(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]productPayload, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductPayload(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type createEventRequest struct {
	OrganizationID                              string     `json:"organization_id"`
	Title                                       string     `json:"title"`
	DateStart                                   *time.Time `json:"date_start,omitempty"`
	LastRegistrationDate                        *time.Time `json:"last_registration_date,omitempty"`
	LastCancellationDate                        *time.Time `json:"last_cancellation_date,omitempty"`
	Timezone                                    string     `json:"timezone,omitempty"`
	AllowedRegistrationEditHours                *int       `json:"allowed_registration_edit_hours,omitempty"`
	AllowModificationsAfterLastCancellationDate bool       `json:"allow_modifications_after_last_cancellation_date,omitempty"`
	CollectionIDs                               []string   `json:"collection_ids,omitempty"`
}

type eventPayload struct {
	ID                                          string     `json:"id"`
	OrganizationID                              string     `json:"organization_id"`
	Title                                       string     `json:"title"`
	DateStart                                   *time.Time `json:"date_start,omitempty"`
	LastRegistrationDate                        *time.Time `json:"last_registration_date,omitempty"`
	LastCancellationDate                        *time.Time `json:"last_cancellation_date,omitempty"`
	Timezone                                    string     `json:"timezone,omitempty"`
	AllowedRegistrationEditHours                *int       `json:"allowed_registration_edit_hours,omitempty"`
	AllowModificationsAfterLastCancellationDate bool       `json:"allow_modifications_after_last_cancellation_date"`
	CollectionIDs                               []string   `json:"collection_ids,omitempty"`
}

func toEventPayload(e domain.Event) eventPayload {
	return eventPayload{
		ID:                   e.ID,
		OrganizationID:       e.OrganizationID,
		Title:                e.Title,
		DateStart:            e.DateStart,
		LastRegistrationDate: e.LastRegistrationDate,
		LastCancellationDate: e.LastCancellationDate,
		Timezone:             e.Timezone,
		AllowedRegistrationEditHours:                e.Policy.AllowedRegistrationEditHours,
		AllowModificationsAfterLastCancellationDate: e.Policy.AllowModificationsAfterLastCancellationDate,
		CollectionIDs: e.CollectionIDs,
	}
}

type createProductRequest struct {
	Name            string   `json:"name"`
	Visibility      string   `json:"visibility,omitempty"`
	MinimumQuantity int      `json:"minimum_quantity,omitempty"`
	IsMandatory     bool     `json:"is_mandatory,omitempty"`
	VariantNames    []string `json:"variant_names,omitempty"`
}

type productPayload struct {
	ID              int64            `json:"id"`
	EventID         string           `json:"event_id"`
	Name            string           `json:"name"`
	Visibility      string           `json:"visibility"`
	MinimumQuantity int              `json:"minimum_quantity"`
	IsMandatory     bool             `json:"is_mandatory"`
	Variants        []variantPayload `json:"variants,omitempty"`
}

type variantPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toProductPayload(p domain.Product) productPayload {
	payload := productPayload{
		ID:              p.ID,
		EventID:         p.EventID,
		Name:            p.Name,
		Visibility:      string(p.Visibility),
		MinimumQuantity: p.MinimumQuantity,
		IsMandatory:     p.IsMandatory,
	}
	for _, v := range p.Variants {
		payload.Variants = append(payload.Variants, variantPayload{ID: v.ID, Name: v.Name})
	}
	return payload
}
