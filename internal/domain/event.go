package domain

import "time"

// RegistrationPolicy configures how long a registrant may keep editing
// their own registration after signing up.
type RegistrationPolicy struct {
	AllowedRegistrationEditHours                *int
	AllowModificationsAfterLastCancellationDate bool
}

// Event is read-only collaborator data: the dates and policy that drive
// the edit-window rules, and the collection memberships that drive
// product visibility.
type Event struct {
	ID                   string
	OrganizationID       string
	Title                string
	DateStart            *time.Time
	LastRegistrationDate *time.Time
	LastCancellationDate *time.Time
	// Timezone is an IANA zone name; empty means UTC.
	Timezone      string
	Policy        RegistrationPolicy
	CollectionIDs []string
}

// Location resolves the event's timezone, falling back to UTC when the
// zone is unset or unknown.
func (e Event) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
