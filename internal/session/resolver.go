// Package session decides whether the console holds a valid remote session
// for the currently selected tenant.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
	"go.uber.org/zap"
)

var ErrNoTenant = errors.New("No tenant selected")

type State int

const (
	Unresolved State = iota
	Resolving
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Identity is the read side of identity.Store.
type Identity interface {
	Get() string
	Subscribe(fn func(id string)) func()
}

type Snapshot struct {
	State    State
	TenantID string
	Session  *domain.Session
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated && s.Session != nil
}

// Pending reports whether the state is not settled yet.
func (s Snapshot) Pending() bool {
	return s.State == Unresolved || s.State == Resolving
}

// Resolver owns the session state for one workspace. Every resolution or
// login bumps a generation counter; a result that comes back under an older
// generation, or after Close, is dropped.
type Resolver struct {
	auth   domain.AuthAPI
	ids    Identity
	logger *zap.Logger

	mu          sync.Mutex
	state       State
	session     *domain.Session
	tenantID    string
	gen         uint64
	closed      bool
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewResolver(auth domain.AuthAPI, ids Identity, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		auth:   auth,
		ids:    ids,
		logger: logger,
		state:  Unresolved,
	}
}

// Start performs the initial resolution in the background and re-resolves
// whenever the selected tenant changes.
func (r *Resolver) Start() {
	r.mu.Lock()
	if r.closed || r.unsubscribe != nil {
		r.mu.Unlock()
		return
	}
	r.unsubscribe = r.ids.Subscribe(func(string) { r.resolveAsync() })
	r.mu.Unlock()

	r.resolveAsync()
}

func (r *Resolver) resolveAsync() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.Resolve(context.Background())
	}()
}

// Close stops reacting to identity changes and waits for background
// resolutions to finish. Their results are discarded.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.gen++
	unsubscribe := r.unsubscribe
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	r.wg.Wait()
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Resolver) snapshotLocked() Snapshot {
	return Snapshot{State: r.state, TenantID: r.tenantID, Session: r.session}
}

func (r *Resolver) State() State { return r.Snapshot().State }

func (r *Resolver) Session() *domain.Session { return r.Snapshot().Session }

func (r *Resolver) IsAuthenticated() bool { return r.Snapshot().IsAuthenticated() }

// Resolve fetches the session for the selected tenant. With no tenant it
// settles on Unauthenticated without touching the network. A 401 is the
// normal signed-out answer; other failures are logged and also end in
// Unauthenticated.
func (r *Resolver) Resolve(ctx context.Context) Snapshot {
	r.mu.Lock()
	if r.closed {
		defer r.mu.Unlock()
		return r.snapshotLocked()
	}
	r.gen++
	gen := r.gen
	tenantID := r.ids.Get()
	r.tenantID = tenantID
	if tenantID == "" {
		r.state = Unauthenticated
		r.session = nil
		defer r.mu.Unlock()
		return r.snapshotLocked()
	}
	r.state = Resolving
	r.session = nil
	r.mu.Unlock()

	sess, err := r.auth.GetSession(ctx, tenantID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		return r.snapshotLocked()
	}
	if err != nil {
		if !apiclient.IsStatus(err, http.StatusUnauthorized) {
			r.logger.Error("failed to resolve session",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
		}
		r.state = Unauthenticated
		r.session = nil
		return r.snapshotLocked()
	}
	r.state = Authenticated
	r.session = sess
	return r.snapshotLocked()
}

// Login authenticates against tenantOverride, or the selected tenant when
// tenantOverride is empty. Remote errors are returned unchanged and leave no
// session behind.
func (r *Resolver) Login(ctx context.Context, identifier, password, tenantOverride string) (*domain.LoginResponse, error) {
	tenantID := r.tenantOr(tenantOverride)
	if tenantID == "" {
		return nil, ErrNoTenant
	}

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	resp, err := r.auth.Login(ctx, tenantID, Credentials(identifier, password))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed && gen == r.gen {
		sess := resp.Session
		r.session = &sess
		r.tenantID = tenantID
		r.state = Authenticated
	}
	return resp, nil
}

// Logout asks the remote API to end the session, then clears it locally no
// matter what the API answered.
func (r *Resolver) Logout(ctx context.Context) {
	if tenantID := r.ids.Get(); tenantID != "" {
		if err := r.auth.Logout(ctx, tenantID); err != nil {
			r.logger.Warn("remote logout failed", zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}
	r.signOut()
}

// LogoutAll revokes every session of the account and returns how many were
// revoked. The local session is cleared even when the call fails.
func (r *Resolver) LogoutAll(ctx context.Context) (int, error) {
	tenantID := r.ids.Get()
	if tenantID == "" {
		return 0, ErrNoTenant
	}
	defer r.signOut()

	resp, err := r.auth.LogoutAll(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return resp.Revoked, nil
}

// ForgotPassword asks the remote API to send a reset link for identifier and
// returns its message. It needs no session.
func (r *Resolver) ForgotPassword(ctx context.Context, identifier, tenantOverride string) (string, error) {
	tenantID := r.tenantOr(tenantOverride)
	if tenantID == "" {
		return "", ErrNoTenant
	}
	resp, err := r.auth.ForgotPassword(ctx, tenantID, Recovery(identifier))
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

type resetForm struct {
	Token       string `form:"token" label:"Reset token" validate:"notblank"`
	NewPassword string `form:"new_password" label:"Password" validate:"required,min=8"`
}

// ResetPassword sets a new password with a token from the reset link. The
// password is checked locally first.
func (r *Resolver) ResetPassword(ctx context.Context, token, newPassword, tenantOverride string) (string, error) {
	form := resetForm{Token: strings.TrimSpace(token), NewPassword: newPassword}
	if err := validate.Struct(form); err != nil {
		return "", err
	}
	tenantID := r.tenantOr(tenantOverride)
	if tenantID == "" {
		return "", ErrNoTenant
	}
	resp, err := r.auth.ResetPassword(ctx, tenantID, domain.ResetPasswordRequest{Token: form.Token, NewPassword: form.NewPassword})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (r *Resolver) tenantOr(override string) string {
	if override != "" {
		return override
	}
	return r.ids.Get()
}

// Sessions lists the active sessions of the signed-in account.
func (r *Resolver) Sessions(ctx context.Context) ([]domain.Session, error) {
	tenantID := r.ids.Get()
	if tenantID == "" {
		return nil, ErrNoTenant
	}
	return r.auth.GetSessions(ctx, tenantID)
}

func (r *Resolver) signOut() {
	r.mu.Lock()
	r.gen++
	r.session = nil
	r.state = Unauthenticated
	r.mu.Unlock()
}
