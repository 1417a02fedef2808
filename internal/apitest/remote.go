// Package apitest runs an in-memory stand-in for the SUMP REST API on an
// httptest server. It implements the endpoints the console calls, keeps
// state per server and records every request.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const SessionCookie = "sump_session"

type Call struct {
	Method string
	Path   string
}

type failure struct {
	method  string
	path    string
	status  int
	message string
}

type account struct {
	tenant   *domain.TenantAccount
	password string
}

type user struct {
	domain.EnvironmentAccount
	password string
}

type Remote struct {
	srv *httptest.Server

	mu        sync.Mutex
	tenants   map[string]*domain.Tenant
	envs      map[string]*domain.Environment
	accounts  map[string][]*account
	users     map[string]map[string]*user
	sessions  map[string]*domain.Session
	resets    map[string]*account
	calls     []Call
	failures  []failure
	anonymous bool
}

// NewRemote starts a server that is closed when the test ends.
func NewRemote(t testing.TB) *Remote {
	t.Helper()
	r := &Remote{
		tenants:  make(map[string]*domain.Tenant),
		envs:     make(map[string]*domain.Environment),
		accounts: make(map[string][]*account),
		users:    make(map[string]map[string]*user),
		sessions: make(map[string]*domain.Session),
		resets:   make(map[string]*account),
	}
	r.srv = httptest.NewServer(r.routes())
	t.Cleanup(r.srv.Close)
	return r
}

// BaseURL is what API_URL would be set to.
func (r *Remote) BaseURL() string { return r.srv.URL + "/api/v1" }

// AllowAnonymous turns off session checks on tenant resources.
func (r *Remote) AllowAnonymous() {
	r.mu.Lock()
	r.anonymous = true
	r.mu.Unlock()
}

func (r *Remote) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallCount counts recorded requests with the given method and a path
// starting with prefix (relative to /api/v1).
func (r *Remote) CallCount(method, prefix string) int {
	n := 0
	for _, c := range r.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

// Fail makes the next request matching method and path (relative to
// /api/v1) answer with status and message.
func (r *Remote) Fail(method, path string, status int, message string) {
	r.mu.Lock()
	r.failures = append(r.failures, failure{method: method, path: path, status: status, message: message})
	r.mu.Unlock()
}

// SeedTenant creates a tenant with an owner account and one environment
// and returns their ids.
func (r *Remote) SeedTenant(name, username, password string) (tenantID, environmentID string) {
	resp := r.createTenant(domain.CreateTenantRequest{
		Tenant: domain.NewTenant{Name: name},
		Account: domain.NewOwnerAccount{
			Name:     name + " owner",
			Email:    username + "@example.com",
			Username: username,
			Password: password,
		},
		Environment: &domain.CreateEnvironmentRequest{Name: "default"},
	})
	return resp.TenantID, resp.EnvironmentID
}

// SeedUser creates an environment user directly.
func (r *Remote) SeedUser(environmentID, name, username string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.newUser(environmentID, domain.CreateEnvironmentAccountRequest{
		Name:     name,
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	})
	return u.ID
}

// ResetToken returns the token of the last reset link issued for username.
func (r *Remote) ResetToken(username string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, a := range r.resets {
		if a.tenant.Username == username {
			return token
		}
	}
	return ""
}

func (r *Remote) Tenant(id string) (domain.Tenant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return domain.Tenant{}, false
	}
	return *r.tenantView(t), true
}

func (r *Remote) Environment(id string) (domain.Environment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	env, ok := r.envs[id]
	if !ok {
		return domain.Environment{}, false
	}
	return *env, true
}

func (r *Remote) User(environmentID, id string) (domain.EnvironmentAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[environmentID][id]
	if !ok {
		return domain.EnvironmentAccount{}, false
	}
	return u.EnvironmentAccount, true
}

func (r *Remote) routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(r.record)

	mux.Route("/api/v1", func(api chi.Router) {
		api.Post("/tenants", r.handleCreateTenant)

		api.Route("/tenants/{tenantID}", func(t chi.Router) {
			t.Use(r.requireSession)
			t.Get("/", r.handleGetTenant)
			t.Patch("/", r.handleUpdateTenant)
			t.Delete("/", r.handleDeleteTenant)
			t.Patch("/custom-property", r.handleSetTenantProperty)
			t.Delete("/custom-property", r.handleDeleteTenantProperty)

			t.Get("/accounts", r.handleListAccounts)

			t.Post("/environments", r.handleCreateEnvironment)
			t.Get("/environments/{envID}", r.handleGetEnvironment)
			t.Patch("/environments/{envID}", r.handleUpdateEnvironment)
			t.Delete("/environments/{envID}", r.handleDeleteEnvironment)
			t.Patch("/environments/{envID}/custom-property", r.handleSetEnvironmentProperty)
			t.Delete("/environments/{envID}/custom-property", r.handleDeleteEnvironmentProperty)
		})

		api.Route("/environments/{envID}/accounts", func(u chi.Router) {
			u.Use(r.requireEnvironmentSession)
			u.Post("/", r.handleCreateUser)
			u.Get("/{userID}", r.handleGetUser)
			u.Patch("/{userID}", r.handleUpdateUser)
			u.Delete("/{userID}", r.handleDeleteUser)
			u.Patch("/{userID}/disable", r.handleSetUserDisabled(true))
			u.Patch("/{userID}/enable", r.handleSetUserDisabled(false))
			u.Patch("/{userID}/email", r.handleUpdateUserField("email"))
			u.Patch("/{userID}/phone", r.handleUpdateUserField("phone"))
			u.Patch("/{userID}/username", r.handleUpdateUserField("username"))
			u.Patch("/{userID}/custom-property", r.handleSetUserProperty)
			u.Delete("/{userID}/custom-property", r.handleDeleteUserProperty)
		})

		api.Route("/auth/tenants/{tenantID}", func(a chi.Router) {
			a.Post("/login", r.handleLogin)
			a.Post("/logout", r.handleLogout)
			a.Post("/logout-all", r.handleLogoutAll)
			a.Get("/session", r.handleSession)
			a.Get("/sessions", r.handleSessions)
			a.Post("/forgot-password", r.handleForgotPassword)
			a.Post("/reset-password", r.handleResetPassword)
		})
	})
	return mux
}

func (r *Remote) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, "/api/v1")
		r.mu.Lock()
		r.calls = append(r.calls, Call{Method: req.Method, Path: path})
		var hit *failure
		for i, f := range r.failures {
			if f.method == req.Method && f.path == path {
				hit = &f
				r.failures = append(r.failures[:i], r.failures[i+1:]...)
				break
			}
		}
		r.mu.Unlock()

		if hit != nil {
			writeError(w, hit.status, hit.message)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Remote) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tenantID := chi.URLParam(req, "tenantID")
		r.mu.Lock()
		anonymous := r.anonymous
		_, known := r.tenants[tenantID]
		r.mu.Unlock()

		if !known {
			writeError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		if !anonymous && r.sessionFor(req, tenantID) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Remote) requireEnvironmentSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		anonymous := r.anonymous
		env, known := r.envs[chi.URLParam(req, "envID")]
		var tenantID string
		if known {
			tenantID = env.TenantID
		}
		r.mu.Unlock()

		if !known {
			notFound(w, "Environment")
			return
		}
		if !anonymous && r.sessionFor(req, tenantID) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Remote) sessionFor(req *http.Request, tenantID string) *domain.Session {
	c, err := req.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[c.Value]
	if !ok || s.ContextID != tenantID {
		return nil
	}
	return s
}

func (r *Remote) createTenant(req domain.CreateTenantRequest) domain.CreateTenantResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	t := &domain.Tenant{
		ID:               uuid.NewString(),
		Name:             req.Tenant.Name,
		CustomProperties: domain.NewProperties(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.tenants[t.ID] = t

	acc := &domain.TenantAccount{
		ID:        uuid.NewString(),
		Email:     req.Account.Email,
		Phone:     req.Account.Phone,
		Name:      req.Account.Name,
		Username:  req.Account.Username,
		TenantID:  t.ID,
		Roles:     []domain.Role{{Role: domain.RoleOwner, Target: domain.RoleTargetTenant, TargetID: t.ID}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.accounts[t.ID] = append(r.accounts[t.ID], &account{tenant: acc, password: req.Account.Password})

	resp := domain.CreateTenantResponse{TenantID: t.ID, AccountID: acc.ID}
	if req.Environment != nil {
		env := r.newEnvironment(t.ID, req.Environment.Name)
		resp.EnvironmentID = env.ID
	}
	resp.Session = *r.newSession(t.ID, acc.ID)
	return resp
}

func (r *Remote) newEnvironment(tenantID, name string) *domain.Environment {
	now := time.Now().UTC()
	env := &domain.Environment{
		ID:               uuid.NewString(),
		Name:             name,
		TenantID:         tenantID,
		CustomProperties: domain.NewProperties(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.envs[env.ID] = env
	r.users[env.ID] = make(map[string]*user)
	return env
}

func (r *Remote) newUser(envID string, req domain.CreateEnvironmentAccountRequest) *user {
	now := time.Now().UTC()
	u := &user{
		EnvironmentAccount: domain.EnvironmentAccount{
			ID:               uuid.NewString(),
			Email:            req.Email,
			Phone:            req.Phone,
			Name:             req.Name,
			Username:         req.Username,
			AvatarURL:        req.AvatarURL,
			EnvironmentID:    envID,
			CustomProperties: domain.NewProperties(),
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		password: req.Password,
	}
	if req.CustomProperties != nil {
		u.CustomProperties = *req.CustomProperties
	}
	if r.users[envID] == nil {
		r.users[envID] = make(map[string]*user)
	}
	r.users[envID][u.ID] = u
	return u
}

func (r *Remote) newSession(tenantID, accountID string) *domain.Session {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:           uuid.NewString(),
		AccountType:  domain.AccountTypeTenant,
		AccountID:    accountID,
		ContextType:  domain.ContextTypeTenant,
		ContextID:    tenantID,
		ExpiresAt:    now.Add(24 * time.Hour),
		LastActiveAt: now,
		CreatedAt:    now,
	}
	r.sessions[s.ID] = s
	return s
}

func (r *Remote) tenantView(t *domain.Tenant) *domain.Tenant {
	out := *t
	out.Environments = nil
	var envs []*domain.Environment
	for _, env := range r.envs {
		if env.TenantID == t.ID {
			envs = append(envs, env)
		}
	}
	slices.SortFunc(envs, func(a, b *domain.Environment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	for _, env := range envs {
		out.Environments = append(out.Environments, domain.TenantEnvironmentSummary{ID: env.ID, Name: env.Name})
	}
	return &out
}

func setSessionCookie(w http.ResponseWriter, s *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Expires:  s.ExpiresAt,
	})
}

func decode(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeFieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  []map[string]string{{"field": field, "message": message}},
	})
}

func notFound(w http.ResponseWriter, what string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", what))
}
