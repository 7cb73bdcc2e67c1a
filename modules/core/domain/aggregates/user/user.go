package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	id            uuid.UUID
	email         string
	externalID    string
	firstName     string
	lastName      string
	isActive      bool
	isSystemAdmin bool
	deactivatedAt *time.Time
	deactivatedBy *uuid.UUID
	memberships   []Membership
	createdAt     time.Time
	updatedAt     time.Time
}

func New(email, externalID, firstName, lastName string) User {
	return User{
		email:      normalizeEmail(email),
		externalID: strings.TrimSpace(externalID),
		firstName:  strings.TrimSpace(firstName),
		lastName:   strings.TrimSpace(lastName),
		isActive:   true,
	}
}

func Hydrate(
	id uuid.UUID,
	email string,
	externalID string,
	firstName string,
	lastName string,
	isActive bool,
	isSystemAdmin bool,
	deactivatedAt *time.Time,
	deactivatedBy *uuid.UUID,
	memberships []Membership,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return User{
		id:            id,
		email:         normalizeEmail(email),
		externalID:    strings.TrimSpace(externalID),
		firstName:     strings.TrimSpace(firstName),
		lastName:      strings.TrimSpace(lastName),
		isActive:      isActive,
		isSystemAdmin: isSystemAdmin,
		deactivatedAt: deactivatedAt,
		deactivatedBy: deactivatedBy,
		memberships:   memberships,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (u User) ID() uuid.UUID             { return u.id }
func (u User) Email() string             { return u.email }
func (u User) ExternalID() string        { return u.externalID }
func (u User) FirstName() string         { return u.firstName }
func (u User) LastName() string          { return u.lastName }
func (u User) IsActive() bool            { return u.isActive }
func (u User) IsSystemAdmin() bool       { return u.isSystemAdmin }
func (u User) DeactivatedAt() *time.Time { return u.deactivatedAt }
func (u User) DeactivatedBy() *uuid.UUID { return u.deactivatedBy }
func (u User) Memberships() []Membership { return u.memberships }
func (u User) CreatedAt() time.Time      { return u.createdAt }
func (u User) UpdatedAt() time.Time      { return u.updatedAt }
func (u User) IsZero() bool              { return u.id == uuid.Nil && u.email == "" }

// MembershipIn returns the membership binding the user to the given
// tenant regardless of its activity flag.
func (u User) MembershipIn(tenantID uuid.UUID) (Membership, bool) {
	for _, m := range u.memberships {
		if m.TenantID() == tenantID {
			return m, true
		}
	}
	return Membership{}, false
}

// ActiveMembershipIn returns the membership for the tenant only when the
// grant is currently valid: both the membership and the user must be
// active.
func (u User) ActiveMembershipIn(tenantID uuid.UUID) (Membership, bool) {
	if !u.isActive {
		return Membership{}, false
	}
	m, ok := u.MembershipIn(tenantID)
	if !ok || !m.IsActive() {
		return Membership{}, false
	}
	return m, true
}

// Deactivated returns a copy soft-disabled by the given actor.
// Memberships are not touched here; the service deactivates them in the
// same transaction.
func (u User) Deactivated(by uuid.UUID, at time.Time) User {
	u.isActive = false
	u.deactivatedAt = &at
	u.deactivatedBy = &by
	return u
}

// Reactivated clears the deactivation fields. Memberships stay inactive
// and must be re-enabled one by one.
func (u User) Reactivated() User {
	u.isActive = true
	u.deactivatedAt = nil
	u.deactivatedBy = nil
	return u
}

func (u User) WithName(firstName, lastName string) User {
	u.firstName = strings.TrimSpace(firstName)
	u.lastName = strings.TrimSpace(lastName)
	return u
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
