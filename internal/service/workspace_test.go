package service

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/apitest"
	"github.com/Harshitk-cp/sump-console/internal/onboarding"
	"github.com/Harshitk-cp/sump-console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T, remote *apitest.Remote, storage StorageFactory) *WorkspaceRegistry {
	t.Helper()
	reg, err := NewWorkspaceRegistry(WorkspaceConfig{
		APIURL:  remote.BaseURL(),
		IdleTTL: time.Hour,
		Storage: storage,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func TestNewWorkspaceRegistry_RejectsBadConfig(t *testing.T) {
	_, err := NewWorkspaceRegistry(WorkspaceConfig{APIURL: "http://localhost", IdleTTL: 0}, nil)
	assert.Error(t, err)

	_, err = NewWorkspaceRegistry(WorkspaceConfig{APIURL: "ftp://localhost", IdleTTL: time.Hour}, nil)
	assert.Error(t, err)
}

func TestWorkspaceRegistry_OneWorkspacePerDevice(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg := newTestRegistry(t, remote, nil)
	ctx := context.Background()

	a1, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	a2, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "device-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.NotSame(t, a1.API, b.API)
	assert.Equal(t, 2, reg.Len())
}

func TestWorkspaceRegistry_TenantSurvivesEviction(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg := newTestRegistry(t, remote, NewFileStorageFactory(t.TempDir()))
	ctx := context.Background()

	ws, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	require.NoError(t, ws.Identity.Set("tenant-1"))

	reg.Evict("device-a")
	assert.Equal(t, 0, reg.Len())

	again, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.NotSame(t, ws, again)
	assert.Equal(t, "tenant-1", again.Identity.Get())

	other, err := reg.Get(ctx, "device-b")
	require.NoError(t, err)
	assert.False(t, other.Identity.Has())
}

func TestWorkspaceRegistry_ClosesExpiredWorkspaceOnReplace(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg, err := NewWorkspaceRegistry(WorkspaceConfig{APIURL: remote.BaseURL(), IdleTTL: 20 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	ctx := context.Background()

	stale, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	fresh, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.True(t, stale.closed.Load())
	assert.False(t, fresh.closed.Load())
	assert.Equal(t, 1, reg.Len())
}

func TestMemoryStorageFactory_ReusesStoragePerDevice(t *testing.T) {
	factory := NewMemoryStorageFactory()
	ctx := context.Background()

	require.NoError(t, factory("a").Save(ctx, "tenant-1"))

	got, err := factory("a").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", got)

	got, err = factory("b").Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkspace_ResolveAfterLogin(t *testing.T) {
	remote := apitest.NewRemote(t)
	tenantID, _ := remote.SeedTenant("Acme", "owner", "Passw0rd!")
	reg := newTestRegistry(t, remote, nil)
	ctx := context.Background()

	ws, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.Equal(t, session.Unauthenticated, ws.Resolve(ctx).State)

	_, err = ws.Session.Login(ctx, "owner", "Passw0rd!", tenantID)
	require.NoError(t, err)
	require.NoError(t, ws.Identity.Set(tenantID))

	snap := ws.Resolve(ctx)
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, tenantID, snap.TenantID)
}

func TestWorkspace_WizardLifecycle(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg := newTestRegistry(t, remote, nil)
	ctx := context.Background()

	ws, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)

	w := ws.Wizard()
	assert.Same(t, w, ws.Wizard())
	require.NoError(t, w.Set(onboarding.FieldTenantName, "Acme"))

	ws.DiscardWizard()
	fresh := ws.Wizard()
	assert.NotSame(t, w, fresh)
	assert.Empty(t, fresh.View().Draft.TenantName)
}

func TestWorkspaceRegistry_CloseStopsResolvers(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg, err := NewWorkspaceRegistry(WorkspaceConfig{APIURL: remote.BaseURL(), IdleTTL: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	ws, err := reg.Get(context.Background(), "device-a")
	require.NoError(t, err)

	reg.Close()
	assert.Equal(t, 0, reg.Len())

	before := len(remote.Calls())
	require.NoError(t, ws.Identity.Set("tenant-1"))
	assert.Equal(t, before, len(remote.Calls()))
}

func TestWorkspace_FlashIsOneShot(t *testing.T) {
	remote := apitest.NewRemote(t)
	reg := newTestRegistry(t, remote, nil)

	ws, err := reg.Get(context.Background(), "device-a")
	require.NoError(t, err)

	assert.Empty(t, ws.TakeFlash())
	ws.Flash("Tenant created")
	assert.Equal(t, "Tenant created", ws.TakeFlash())
	assert.Empty(t, ws.TakeFlash())
}
