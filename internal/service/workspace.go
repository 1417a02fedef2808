package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/identity"
	"github.com/Harshitk-cp/sump-console/internal/onboarding"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/Harshitk-cp/sump-console/internal/session"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Workspace is everything the console keeps for one browser: the selected
// tenant, the session state, an API client with its own cookie jar and the
// page controllers built on top of them.
type Workspace struct {
	DeviceID string
	Identity *identity.Store
	Session  *session.Resolver
	API      *apiclient.Client

	Dashboard         *screen.Dashboard
	Environments      *screen.EnvironmentList
	EnvironmentDetail *screen.EnvironmentDetail
	EnvironmentForm   *screen.EnvironmentForm
	UserForm          *screen.UserForm
	UserDetail        *screen.UserDetail
	Settings          *screen.Settings
	Accounts          *screen.TenantAccounts

	logger    *zap.Logger
	mu        sync.Mutex
	wizard    *onboarding.Wizard
	flash     string
	closeOnce sync.Once
	closed    atomic.Bool
}

func newWorkspace(ctx context.Context, deviceID string, client *apiclient.Client, storage domain.IdentityStorage, logger *zap.Logger) *Workspace {
	ids := identity.New(ctx, storage, logger)
	resolver := session.NewResolver(client, ids, logger)

	return &Workspace{
		DeviceID:          deviceID,
		Identity:          ids,
		Session:           resolver,
		API:               client,
		Dashboard:         screen.NewDashboard(client, ids),
		Environments:      screen.NewEnvironmentList(client, ids),
		EnvironmentDetail: screen.NewEnvironmentDetail(client, ids),
		EnvironmentForm:   screen.NewEnvironmentForm(client, ids),
		UserForm:          screen.NewUserForm(client),
		UserDetail:        screen.NewUserDetail(client),
		Settings:          screen.NewSettings(client, resolver, ids, logger),
		Accounts:          screen.NewTenantAccounts(client, ids),
		logger:            logger,
	}
}

// Wizard returns the onboarding wizard, starting a fresh one on first use
// or after the previous one finished.
func (w *Workspace) Wizard() *onboarding.Wizard {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.wizard == nil || w.wizard.View().Status == onboarding.Done {
		w.wizard = onboarding.New(w.API, w.Identity, w.logger)
	}
	return w.wizard
}

// DiscardWizard drops the wizard draft, e.g. when the user leaves setup.
func (w *Workspace) DiscardWizard() {
	w.mu.Lock()
	w.wizard = nil
	w.mu.Unlock()
}

// Flash stores a one-shot notice for the next page this browser renders.
func (w *Workspace) Flash(msg string) {
	w.mu.Lock()
	w.flash = msg
	w.mu.Unlock()
}

// TakeFlash returns the pending notice and forgets it.
func (w *Workspace) TakeFlash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := w.flash
	w.flash = ""
	return msg
}

// Resolve settles the session state for the current request, resolving
// synchronously when no answer is available yet.
func (w *Workspace) Resolve(ctx context.Context) session.Snapshot {
	snap := w.Session.Snapshot()
	if snap.Pending() || snap.TenantID != w.Identity.Get() {
		snap = w.Session.Resolve(ctx)
	}
	return snap
}

func (w *Workspace) Close() {
	w.closeOnce.Do(func() {
		w.Session.Close()
		w.closed.Store(true)
	})
}

// StorageFactory returns the durable identity storage for a device.
type StorageFactory func(deviceID string) domain.IdentityStorage

type WorkspaceConfig struct {
	APIURL  string
	IdleTTL time.Duration
	Storage StorageFactory
	// ClientOptions are applied to every workspace's API client.
	ClientOptions []apiclient.Option
}

// WorkspaceRegistry hands out one Workspace per device id and closes
// workspaces that have been idle longer than IdleTTL.
type WorkspaceRegistry struct {
	cfg    WorkspaceConfig
	cache  *cache.Cache
	mu     sync.Mutex
	logger *zap.Logger
}

func NewWorkspaceRegistry(cfg WorkspaceConfig, logger *zap.Logger) (*WorkspaceRegistry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		return nil, fmt.Errorf("workspace idle ttl must be positive, got %s", cfg.IdleTTL)
	}
	if cfg.Storage == nil {
		cfg.Storage = NewMemoryStorageFactory()
	}
	if _, err := apiclient.New(cfg.APIURL, nil); err != nil {
		return nil, err
	}

	cleanup := cfg.IdleTTL / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	reg := &WorkspaceRegistry{
		cfg:    cfg,
		cache:  cache.New(cfg.IdleTTL, cleanup),
		logger: logger,
	}
	reg.cache.OnEvicted(func(deviceID string, v any) {
		if ws, ok := v.(*Workspace); ok {
			ws.Close()
			logger.Debug("workspace evicted", zap.String("device_id", deviceID))
		}
	})
	return reg, nil
}

// Get returns the device's workspace, creating it on first sight. Every call
// pushes the idle deadline forward.
func (r *WorkspaceRegistry) Get(ctx context.Context, deviceID string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(deviceID); ok {
		ws := v.(*Workspace)
		r.cache.SetDefault(deviceID, ws)
		return ws, nil
	}
	// An expired entry the janitor has not reached yet still needs closing.
	r.cache.Delete(deviceID)

	logger := r.logger.With(zap.String("device_id", deviceID))
	client, err := apiclient.New(r.cfg.APIURL, logger, r.cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	ws := newWorkspace(ctx, deviceID, client, r.cfg.Storage(deviceID), logger)
	ws.Session.Start()
	r.cache.SetDefault(deviceID, ws)
	logger.Debug("workspace created", zap.String("tenant_id", ws.Identity.Get()))
	return ws, nil
}

// Evict closes and forgets one workspace. Its durable tenant id survives.
func (r *WorkspaceRegistry) Evict(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(deviceID)
}

func (r *WorkspaceRegistry) Len() int { return r.cache.ItemCount() }

// Close closes every workspace.
func (r *WorkspaceRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.cache.Items() {
		if ws, ok := item.Object.(*Workspace); ok {
			ws.Close()
		}
	}
	r.cache.Flush()
}
