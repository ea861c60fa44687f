package app

// ActorContext exposes the caller's identity and admin scope to the
// access policy. Resolving roles and the current organization is the
// enclosing system's job; the policy only asks these questions.
type ActorContext interface {
	UserID() string
	IsAnonymous() bool
	// IsPowerAdmin reports system/super admin rights, which bypass
	// organization scoping entirely.
	IsPowerAdmin() bool
	IsAdmin() bool
	// IsOrganizationAdmin reports whether the actor administers the given
	// organization under their current organization scope.
	IsOrganizationAdmin(orgID string) bool
	// OrganizationScope is the organization the actor currently acts
	// under; empty when none.
	OrganizationScope() string
}

// Actor is a plain ActorContext carrying pre-resolved claims, the form
// the transport layer and tests use.
type Actor struct {
	ID             string
	Anonymous      bool
	PowerAdmin     bool
	Admin          bool
	OrganizationID string
}

func (a Actor) UserID() string     { return a.ID }
func (a Actor) IsAnonymous() bool  { return a.Anonymous }
func (a Actor) IsPowerAdmin() bool { return a.PowerAdmin }
func (a Actor) IsAdmin() bool      { return a.Admin }

func (a Actor) IsOrganizationAdmin(orgID string) bool {
	return a.Admin && orgID != "" && a.OrganizationID == orgID
}

func (a Actor) OrganizationScope() string { return a.OrganizationID }
