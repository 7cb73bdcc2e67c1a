package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/planora/planora/pkg/constants"
)

var (
	ErrNoIdentity = errors.New("no identity found in context")
	ErrNoTenantID = errors.New("no tenant id found in context")
)

// Identity is the authenticated caller as asserted by the external
// identity provider: the subject user id plus the tenant ids claimed in
// the token. Authorization decisions never trust these tenant claims
// alone; the access verifier re-checks memberships against the store.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	TenantIDs []uuid.UUID
}

// ClaimsTenant reports whether the identity claims membership in the
// given tenant.
func (i *Identity) ClaimsTenant(tenantID uuid.UUID) bool {
	for _, id := range i.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, constants.IdentityKey, identity)
}

func UseIdentity(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(constants.IdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

// UseTenantID returns the tenant resolved for this request. All
// tenant-scoped queries must route through this id; there is no global
// default tenant.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenantID
	}
	return tenantID, nil
}
