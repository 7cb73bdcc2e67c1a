package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && r.obj == p.obj && r.act == p.act
`

const testPolicy = `p, TenantAdmin, core.users, read
p, ResourceManager, core.users, read
p, TenantAdmin, core.users, write
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(testModel), 0o600))
	require.NoError(t, os.WriteFile(policyPath, []byte(testPolicy), 0o600))

	svc, err := NewService(Config{ModelPath: modelPath, PolicyPath: policyPath})
	require.NoError(t, err)
	return svc
}

func TestService_Allows(t *testing.T) {
	svc := newTestService(t)

	ok, err := svc.Allows("TenantAdmin", "core.users", "write")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Allows("ResourceManager", "core.users", "write")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.Allows("Viewer", "core.users", "read")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_RolesFor(t *testing.T) {
	svc := newTestService(t)

	require.ElementsMatch(t,
		[]string{"TenantAdmin", "ResourceManager"},
		svc.RolesFor("core.users", "read"),
	)
	require.Equal(t, []string{"TenantAdmin"}, svc.RolesFor("core.users", "write"))

	// Pairs without policy rows resolve to no required roles, which the
	// access verifier treats as membership-only access.
	require.Empty(t, svc.RolesFor("core.users", "approve"))
}

func TestService_RequiresPaths(t *testing.T) {
	_, err := NewService(Config{})
	require.Error(t, err)
}

func TestObjectName(t *testing.T) {
	require.Equal(t, "scheduling.assignments", ObjectName("scheduling", "assignments"))
}
