package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/pkg/composables"
)

func TestResolveTenant_HeaderSelectionWins(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	identity := &composables.Identity{
		UserID:    uuid.New(),
		TenantIDs: []uuid.UUID{first, second},
	}

	resolved, err := ResolveTenant(second.String(), identity)
	require.NoError(t, err)
	require.Equal(t, second, resolved)
}

func TestResolveTenant_UnclaimedHeaderFallsBack(t *testing.T) {
	claimed := uuid.New()
	identity := &composables.Identity{
		UserID:    uuid.New(),
		TenantIDs: []uuid.UUID{claimed},
	}

	resolved, err := ResolveTenant(uuid.New().String(), identity)
	require.NoError(t, err)
	require.Equal(t, claimed, resolved)
}

func TestResolveTenant_EmptyHeaderUsesFirstClaim(t *testing.T) {
	first := uuid.New()
	identity := &composables.Identity{
		UserID:    uuid.New(),
		TenantIDs: []uuid.UUID{first, uuid.New()},
	}

	resolved, err := ResolveTenant("", identity)
	require.NoError(t, err)
	require.Equal(t, first, resolved)
}

func TestResolveTenant_MalformedHeaderRejected(t *testing.T) {
	identity := &composables.Identity{
		UserID:    uuid.New(),
		TenantIDs: []uuid.UUID{uuid.New()},
	}

	_, err := ResolveTenant("not-a-uuid", identity)
	require.Error(t, err)
}

func TestResolveTenant_NoClaimsRejected(t *testing.T) {
	identity := &composables.Identity{UserID: uuid.New()}

	_, err := ResolveTenant("", identity)
	require.ErrorIs(t, err, ErrNoTenant)
}
