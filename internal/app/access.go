package app

import (
	"fmt"
	"time"

	"github.com/losol/eventuras-sub004/internal/clock"
	"github.com/losol/eventuras-sub004/internal/domain"
)

const (
	editWindowGraceAfterRegistrationDeadline = 24 * time.Hour
	editWindowCutoffBeforeEventStart         = 48 * time.Hour
)

// AccessPolicy gates every read and mutation of a registration. Update
// access for owners is a strict decision list of time-window rules; the
// first rule that reaches a verdict wins.
type AccessPolicy struct {
	clock clock.Clock
}

func NewAccessPolicy(clk clock.Clock) *AccessPolicy {
	return &AccessPolicy{clock: clk}
}

// ruleOutcome is one verdict in the decision list. A rule either grants,
// denies with a reason, or passes to the next rule.
type ruleOutcome int

const (
	rulePass ruleOutcome = iota
	ruleGrant
	ruleDeny
)

type editWindowRule struct {
	name string
	eval func(reg domain.Registration, event domain.Event, now time.Time) (ruleOutcome, string)
}

// editWindowRules is ordered by priority; evaluation stops at the first
// grant or deny.
var editWindowRules = []editWindowRule{
	{
		name: "before_registration_deadline",
		eval: func(_ domain.Registration, event domain.Event, now time.Time) (ruleOutcome, string) {
			if event.LastRegistrationDate == nil {
				return rulePass, ""
			}
			if now.Before(registrationDeadlineCutoff(event)) {
				return ruleGrant, ""
			}
			// Deadline passed: the remaining rules are alternatives for
			// events without a deadline, so fall to the terminal deny.
			return rulePass, ""
		},
	},
	{
		name: "within_edit_hours",
		eval: func(reg domain.Registration, event domain.Event, now time.Time) (ruleOutcome, string) {
			if event.LastRegistrationDate != nil {
				return rulePass, ""
			}
			hours := event.Policy.AllowedRegistrationEditHours
			if hours == nil {
				return rulePass, ""
			}
			cutoff := reg.RegistrationTime.Add(time.Duration(*hours) * time.Hour)
			if now.Before(cutoff) {
				return ruleGrant, ""
			}
			return ruleDeny, "registration too old to edit"
		},
	},
	{
		name: "before_cancellation_window_close",
		eval: func(_ domain.Registration, event domain.Event, now time.Time) (ruleOutcome, string) {
			if event.LastRegistrationDate != nil || event.Policy.AllowedRegistrationEditHours != nil {
				return rulePass, ""
			}
			if !event.Policy.AllowModificationsAfterLastCancellationDate {
				return rulePass, ""
			}
			if event.DateStart == nil || event.LastCancellationDate == nil {
				return rulePass, ""
			}
			if now.Before(event.DateStart.Add(-editWindowCutoffBeforeEventStart)) {
				return ruleGrant, ""
			}
			return rulePass, ""
		},
	},
}

// registrationDeadlineCutoff is midnight of the last registration date in
// the event's own timezone, plus a 24 hour grace period, i.e. the end of
// that calendar day.
func registrationDeadlineCutoff(event domain.Event) time.Time {
	loc := event.Location()
	deadline := event.LastRegistrationDate.In(loc)
	midnight := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(editWindowGraceAfterRegistrationDeadline)
}

// CanUpdate decides whether the actor may mutate the registration. The
// error, when non-nil, wraps domain.ErrNotAccessible with the denial
// reason.
//
// An admin of some other organization is deliberately not denied here:
// ownership and the time-window rules still apply to them as to any
// ordinary user.
func (p *AccessPolicy) CanUpdate(actor ActorContext, reg domain.Registration, event domain.Event) error {
	if actor.IsAnonymous() {
		return fmt.Errorf("%w: anonymous actors may not update registrations", domain.ErrNotAccessible)
	}
	if actor.IsPowerAdmin() {
		return nil
	}
	if actor.IsOrganizationAdmin(event.OrganizationID) {
		return nil
	}
	if actor.UserID() != reg.UserID {
		return fmt.Errorf("%w: not owner, not admin", domain.ErrNotAccessible)
	}

	now := p.clock.Now()
	for _, rule := range editWindowRules {
		outcome, reason := rule.eval(reg, event, now)
		switch outcome {
		case ruleGrant:
			return nil
		case ruleDeny:
			return fmt.Errorf("%w: %s", domain.ErrNotAccessible, reason)
		}
	}
	return fmt.Errorf("%w: no applicable edit-window rule granted access", domain.ErrNotAccessible)
}

// CanRead decides read access: the owner or any in-scope admin.
func (p *AccessPolicy) CanRead(actor ActorContext, reg domain.Registration, event domain.Event) error {
	if actor.IsAnonymous() {
		return fmt.Errorf("%w: anonymous actors may not read registrations", domain.ErrNotAccessible)
	}
	if actor.IsPowerAdmin() || actor.IsOrganizationAdmin(event.OrganizationID) {
		return nil
	}
	if actor.UserID() == reg.UserID {
		return nil
	}
	return fmt.Errorf("%w: not owner, not admin", domain.ErrNotAccessible)
}

// HasAdminAccess reports admin-level access to the event's registrations,
// the scope that waives the minimum-quantity rule.
func (p *AccessPolicy) HasAdminAccess(actor ActorContext, event domain.Event) bool {
	return actor.IsPowerAdmin() || actor.IsOrganizationAdmin(event.OrganizationID)
}

// ListScope narrows listing queries to what the actor may see. Zero-value
// fields mean "no restriction on that dimension".
type ListScope struct {
	OrganizationID string
	UserID         string
}

// ScopeList resolves the listing filter for the actor: power admins see
// everything, organization admins their organization, everyone else only
// their own registrations. Anonymous actors are denied outright.
func (p *AccessPolicy) ScopeList(actor ActorContext) (ListScope, error) {
	switch {
	case actor.IsAnonymous():
		return ListScope{}, fmt.Errorf("%w: anonymous actors may not list registrations", domain.ErrNotAccessible)
	case actor.IsPowerAdmin():
		return ListScope{}, nil
	case actor.IsAdmin():
		return ListScope{OrganizationID: actor.OrganizationScope()}, nil
	default:
		return ListScope{UserID: actor.UserID()}, nil
	}
}
