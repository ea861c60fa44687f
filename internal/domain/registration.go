package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusDraft       RegistrationStatus = "draft"
	RegistrationStatusWaitingList RegistrationStatus = "waiting_list"
	RegistrationStatusVerified    RegistrationStatus = "verified"
	RegistrationStatusCancelled   RegistrationStatus = "cancelled"
	RegistrationStatusNotAttended RegistrationStatus = "not_attended"
	RegistrationStatusAttended    RegistrationStatus = "attended"
	RegistrationStatusFinished    RegistrationStatus = "finished"
)

// Registration is a user's attendance record for an event. It owns its
// orders; what the registrant currently holds is never stored but derived
// from the order history (see NetEntitlement).
type Registration struct {
	ID               string
	EventID          string
	UserID           string
	Status           RegistrationStatus
	RegistrationTime time.Time
	Orders           []Order
}

// LatestEditableOrder returns the most recently placed order that can
// still be mutated, or nil when every order is cancelled or none exist.
func (r Registration) LatestEditableOrder() *Order {
	var latest *Order
	for i := range r.Orders {
		o := &r.Orders[i]
		if !o.Editable() {
			continue
		}
		if latest == nil || o.OrderTime.After(latest.OrderTime) {
			latest = o
		}
	}
	return latest
}
