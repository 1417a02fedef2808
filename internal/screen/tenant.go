package screen

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
	"go.uber.org/zap"
)

const (
	loadTenantFallback       = "Failed to load tenant data"
	loadEnvironmentsFallback = "Failed to load environments"
	loadAccountsFallback     = "Failed to load accounts"
	renameTenantFallback     = "Failed to update tenant name"
	tenantPropertyFallback   = "Failed to update tenant properties"
	logoutAllFallback        = "Failed to sign out other sessions"
)

type Dashboard struct {
	api domain.TenantAPI
	ids TenantSource
}

func NewDashboard(api domain.TenantAPI, ids TenantSource) *Dashboard {
	return &Dashboard{api: api, ids: ids}
}

func (d *Dashboard) Load(ctx context.Context) View[*domain.Tenant] {
	return load(ctx, loadTenantFallback, func(ctx context.Context) (*domain.Tenant, error) {
		tenantID, err := tenantOf(d.ids)
		if err != nil {
			return nil, err
		}
		return d.api.GetTenant(ctx, tenantID)
	}, nil)
}

// EnvironmentList reads environments off the tenant record; the remote API
// has no separate list endpoint.
type EnvironmentList struct {
	api domain.TenantAPI
	ids TenantSource
}

func NewEnvironmentList(api domain.TenantAPI, ids TenantSource) *EnvironmentList {
	return &EnvironmentList{api: api, ids: ids}
}

func (l *EnvironmentList) Load(ctx context.Context) View[[]domain.TenantEnvironmentSummary] {
	return load(ctx, loadEnvironmentsFallback, func(ctx context.Context) ([]domain.TenantEnvironmentSummary, error) {
		tenantID, err := tenantOf(l.ids)
		if err != nil {
			return nil, err
		}
		t, err := l.api.GetTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		return t.Environments, nil
	}, func(envs []domain.TenantEnvironmentSummary) bool { return len(envs) == 0 })
}

type TenantAccounts struct {
	api domain.TenantAccountAPI
	ids TenantSource
}

func NewTenantAccounts(api domain.TenantAccountAPI, ids TenantSource) *TenantAccounts {
	return &TenantAccounts{api: api, ids: ids}
}

func (a *TenantAccounts) Load(ctx context.Context) View[[]domain.TenantAccount] {
	return load(ctx, loadAccountsFallback, func(ctx context.Context) ([]domain.TenantAccount, error) {
		tenantID, err := tenantOf(a.ids)
		if err != nil {
			return nil, err
		}
		return a.api.ListTenantAccounts(ctx, tenantID)
	}, func(accs []domain.TenantAccount) bool { return len(accs) == 0 })
}

// SessionManager is the part of session.Resolver the settings page uses.
type SessionManager interface {
	Sessions(ctx context.Context) ([]domain.Session, error)
	LogoutAll(ctx context.Context) (int, error)
}

type SettingsData struct {
	Tenant *domain.Tenant
	// Sessions is nil when listing failed; SessionsError then says why.
	Sessions      []domain.Session
	SessionsError string
}

type TenantNameInput struct {
	Name string `form:"name" label:"Tenant name" validate:"notblank,min=2"`
}

type Settings struct {
	api      domain.TenantAPI
	sessions SessionManager
	ids      TenantSource
	logger   *zap.Logger
	gate     Gate
}

func NewSettings(api domain.TenantAPI, sessions SessionManager, ids TenantSource, logger *zap.Logger) *Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Settings{api: api, sessions: sessions, ids: ids, logger: logger}
}

func (s *Settings) Load(ctx context.Context) View[SettingsData] {
	return load(ctx, loadTenantFallback, func(ctx context.Context) (SettingsData, error) {
		tenantID, err := tenantOf(s.ids)
		if err != nil {
			return SettingsData{}, err
		}
		t, err := s.api.GetTenant(ctx, tenantID)
		if err != nil {
			return SettingsData{}, err
		}
		data := SettingsData{Tenant: t}
		if s.sessions != nil {
			sessions, err := s.sessions.Sessions(ctx)
			if err != nil {
				s.logger.Warn("failed to list sessions", zap.String("tenant_id", tenantID), zap.Error(err))
				data.SessionsError = Message(err, "Failed to load sessions")
			} else {
				data.Sessions = sessions
			}
		}
		return data, nil
	}, nil)
}

// Rename validates like the onboarding tenant step, then patches the tenant.
func (s *Settings) Rename(ctx context.Context, in TenantNameInput) Outcome {
	return s.mutate(renameTenantFallback, func(tenantID string) error {
		in.Name = strings.TrimSpace(in.Name)
		if err := validate.Struct(in); err != nil {
			return err
		}
		_, err := s.api.UpdateTenant(ctx, tenantID, domain.UpdateTenantRequest{Name: in.Name})
		return err
	}, "/settings")
}

func (s *Settings) SetProperty(ctx context.Context, in PropertyInput) Outcome {
	return s.mutate(tenantPropertyFallback, func(tenantID string) error {
		key, value, err := in.parse()
		if err != nil {
			return err
		}
		_, err = s.api.SetTenantProperty(ctx, tenantID, key, value)
		return err
	}, "/settings")
}

func (s *Settings) DeleteProperty(ctx context.Context, key string) Outcome {
	return s.mutate(tenantPropertyFallback, func(tenantID string) error {
		key, err := propertyKey(key)
		if err != nil {
			return err
		}
		return s.api.DeleteTenantProperty(ctx, tenantID, key)
	}, "/settings")
}

// LogoutAll revokes every session of the signed-in account, this one
// included, so success lands on the login page.
func (s *Settings) LogoutAll(ctx context.Context) (int, Outcome) {
	var revoked int
	out := s.mutate(logoutAllFallback, func(string) error {
		n, err := s.sessions.LogoutAll(ctx)
		revoked = n
		return err
	}, "/login")
	return revoked, out
}

func (s *Settings) mutate(fallback string, fn func(tenantID string) error, redirect string) Outcome {
	err := s.gate.Run(func() error {
		tenantID, err := tenantOf(s.ids)
		if err != nil {
			return err
		}
		return fn(tenantID)
	})
	if err != nil {
		return failed(err, fallback)
	}
	return succeeded(redirect)
}
