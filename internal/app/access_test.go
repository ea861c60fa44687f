package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losol/eventuras-sub004/internal/clock"
	"github.com/losol/eventuras-sub004/internal/domain"
)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }

func TestAccessPolicy_CanUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	policy := NewAccessPolicy(clock.NewFixed(now))

	owner := Actor{ID: "user-1"}
	reg := domain.Registration{ID: "reg-1", UserID: "user-1", RegistrationTime: now.Add(-72 * time.Hour)}
	event := domain.Event{ID: "evt-1", OrganizationID: "org-1"}

	t.Run("anonymous denied", func(t *testing.T) {
		err := policy.CanUpdate(Actor{Anonymous: true}, reg, event)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
	})

	t.Run("power admin always granted", func(t *testing.T) {
		err := policy.CanUpdate(Actor{ID: "admin-1", PowerAdmin: true}, reg, event)
		assert.NoError(t, err)
	})

	t.Run("organization admin granted", func(t *testing.T) {
		err := policy.CanUpdate(Actor{ID: "admin-2", Admin: true, OrganizationID: "org-1"}, reg, event)
		assert.NoError(t, err)
	})

	t.Run("admin of another org falls through to ownership", func(t *testing.T) {
		// Wrong-org admins are not denied outright; when they also own the
		// registration the time-window rules still apply to them.
		otherOrgOwner := Actor{ID: "user-1", Admin: true, OrganizationID: "org-2"}
		open := event
		open.LastRegistrationDate = timePtr(now.Add(48 * time.Hour))
		assert.NoError(t, policy.CanUpdate(otherOrgOwner, reg, open))

		stranger := Actor{ID: "user-9", Admin: true, OrganizationID: "org-2"}
		err := policy.CanUpdate(stranger, reg, open)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "not owner, not admin")
	})

	t.Run("non-owner denied", func(t *testing.T) {
		err := policy.CanUpdate(Actor{ID: "user-2"}, reg, event)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "not owner, not admin")
	})

	t.Run("granted before registration deadline", func(t *testing.T) {
		e := event
		e.LastRegistrationDate = timePtr(now.Add(48 * time.Hour))
		assert.NoError(t, policy.CanUpdate(owner, reg, e))
	})

	t.Run("deadline cutoff is end of that day in event timezone", func(t *testing.T) {
		e := event
		e.Timezone = "Europe/Oslo"
		// Deadline day ended in Oslo before "now"; the grace period is over.
		e.LastRegistrationDate = timePtr(time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC))
		err := policy.CanUpdate(owner, reg, e)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "no applicable edit-window rule")

		e.LastRegistrationDate = timePtr(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
		assert.NoError(t, policy.CanUpdate(owner, reg, e))
	})

	t.Run("edit hours grant within window", func(t *testing.T) {
		e := event
		e.Policy.AllowedRegistrationEditHours = intPtr(24)
		fresh := reg
		fresh.RegistrationTime = now.Add(-12 * time.Hour)
		assert.NoError(t, policy.CanUpdate(owner, fresh, e))
	})

	t.Run("edit hours deny when registration too old", func(t *testing.T) {
		e := event
		e.Policy.AllowedRegistrationEditHours = intPtr(24)
		old := reg
		old.RegistrationTime = now.Add(-48 * time.Hour)
		err := policy.CanUpdate(owner, old, e)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "registration too old to edit")
	})

	t.Run("registration deadline takes priority over edit hours", func(t *testing.T) {
		e := event
		e.LastRegistrationDate = timePtr(now.Add(48 * time.Hour))
		e.Policy.AllowedRegistrationEditHours = intPtr(1)
		old := reg
		old.RegistrationTime = now.Add(-48 * time.Hour)
		assert.NoError(t, policy.CanUpdate(owner, old, e))
	})

	t.Run("cancellation-date rule grants until 48h before start", func(t *testing.T) {
		e := event
		e.Policy.AllowModificationsAfterLastCancellationDate = true
		e.DateStart = timePtr(now.Add(72 * time.Hour))
		e.LastCancellationDate = timePtr(now.Add(-24 * time.Hour))
		assert.NoError(t, policy.CanUpdate(owner, reg, e))

		e.DateStart = timePtr(now.Add(24 * time.Hour))
		err := policy.CanUpdate(owner, reg, e)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
	})

	t.Run("cancellation-date rule needs both dates", func(t *testing.T) {
		e := event
		e.Policy.AllowModificationsAfterLastCancellationDate = true
		e.DateStart = timePtr(now.Add(720 * time.Hour))
		err := policy.CanUpdate(owner, reg, e)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "no applicable edit-window rule")
	})

	t.Run("no rule applies denies", func(t *testing.T) {
		err := policy.CanUpdate(owner, reg, event)
		require.ErrorIs(t, err, domain.ErrNotAccessible)
		assert.Contains(t, err.Error(), "no applicable edit-window rule")
	})
}

func TestAccessPolicy_CanRead(t *testing.T) {
	t.Parallel()

	policy := NewAccessPolicy(clock.NewFixed(time.Now()))
	reg := domain.Registration{ID: "reg-1", UserID: "user-1"}
	event := domain.Event{ID: "evt-1", OrganizationID: "org-1"}

	assert.NoError(t, policy.CanRead(Actor{ID: "user-1"}, reg, event))
	assert.NoError(t, policy.CanRead(Actor{ID: "x", PowerAdmin: true}, reg, event))
	assert.NoError(t, policy.CanRead(Actor{ID: "x", Admin: true, OrganizationID: "org-1"}, reg, event))
	assert.ErrorIs(t, policy.CanRead(Actor{ID: "user-2"}, reg, event), domain.ErrNotAccessible)
	assert.ErrorIs(t, policy.CanRead(Actor{Anonymous: true}, reg, event), domain.ErrNotAccessible)
}

func TestAccessPolicy_ScopeList(t *testing.T) {
	t.Parallel()

	policy := NewAccessPolicy(clock.NewFixed(time.Now()))

	t.Run("anonymous denied", func(t *testing.T) {
		_, err := policy.ScopeList(Actor{Anonymous: true})
		require.ErrorIs(t, err, domain.ErrNotAccessible)
	})

	t.Run("power admin unscoped", func(t *testing.T) {
		scope, err := policy.ScopeList(Actor{ID: "x", PowerAdmin: true})
		require.NoError(t, err)
		assert.Equal(t, ListScope{}, scope)
	})

	t.Run("org admin scoped to current organization", func(t *testing.T) {
		scope, err := policy.ScopeList(Actor{ID: "x", Admin: true, OrganizationID: "org-1"})
		require.NoError(t, err)
		assert.Equal(t, ListScope{OrganizationID: "org-1"}, scope)
	})

	t.Run("regular user scoped to self", func(t *testing.T) {
		scope, err := policy.ScopeList(Actor{ID: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, ListScope{UserID: "user-1"}, scope)
	})
}
