package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (r *Remote) handleCreateTenant(w http.ResponseWriter, req *http.Request) {
	var body domain.CreateTenantRequest
	if !decode(w, req, &body) {
		return
	}
	switch {
	case strings.TrimSpace(body.Tenant.Name) == "":
		writeFieldError(w, "tenant.name", "Tenant name is required")
		return
	case len(body.Account.Password) < 8:
		writeFieldError(w, "account.password", "Password must be at least 8 characters")
		return
	}
	if r.usernameTaken(body.Account.Username) {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}
	resp := r.createTenant(body)
	setSessionCookie(w, &resp.Session)
	writeJSON(w, http.StatusCreated, resp)
}

func (r *Remote) usernameTaken(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, accs := range r.accounts {
		for _, a := range accs {
			if a.tenant.Username == username {
				return true
			}
		}
	}
	return false
}

func (r *Remote) handleGetTenant(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	writeJSON(w, http.StatusOK, r.tenantView(r.tenants[chi.URLParam(req, "tenantID")]))
}

func (r *Remote) handleUpdateTenant(w http.ResponseWriter, req *http.Request) {
	var body domain.UpdateTenantRequest
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tenants[chi.URLParam(req, "tenantID")]
	if body.Name != "" {
		t.Name = body.Name
	}
	t.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, r.tenantView(t))
}

func (r *Remote) handleDeleteTenant(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := chi.URLParam(req, "tenantID")
	delete(r.tenants, id)
	for envID, env := range r.envs {
		if env.TenantID == id {
			delete(r.envs, envID)
			delete(r.users, envID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleSetTenantProperty(w http.ResponseWriter, req *http.Request) {
	var body domain.Properties
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tenants[chi.URLParam(req, "tenantID")]
	body.Each(func(k string, v domain.Value) bool {
		t.CustomProperties.Set(k, v)
		return true
	})
	writeJSON(w, http.StatusOK, r.tenantView(t))
}

func (r *Remote) handleDeleteTenantProperty(w http.ResponseWriter, req *http.Request) {
	key, ok := propertyKey(w, req)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tenants[chi.URLParam(req, "tenantID")]
	t.CustomProperties.Delete(key)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleListAccounts(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.TenantAccount{}
	for _, a := range r.accounts[chi.URLParam(req, "tenantID")] {
		out = append(out, *a.tenant)
	}
	writeJSON(w, http.StatusOK, out)
}

func (r *Remote) handleCreateEnvironment(w http.ResponseWriter, req *http.Request) {
	var body domain.CreateEnvironmentRequest
	if !decode(w, req, &body) {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeFieldError(w, "name", "Environment name is required")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	env := r.newEnvironment(chi.URLParam(req, "tenantID"), body.Name)
	if body.CustomProperties != nil {
		env.CustomProperties = *body.CustomProperties
	}
	writeJSON(w, http.StatusCreated, env)
}

// environment returns the environment named in the URL if it belongs to the
// tenant in the URL. Callers hold r.mu.
func (r *Remote) environment(w http.ResponseWriter, req *http.Request) (*domain.Environment, bool) {
	env, ok := r.envs[chi.URLParam(req, "envID")]
	if !ok || env.TenantID != chi.URLParam(req, "tenantID") {
		notFound(w, "Environment")
		return nil, false
	}
	return env, true
}

func (r *Remote) handleGetEnvironment(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if env, ok := r.environment(w, req); ok {
		writeJSON(w, http.StatusOK, env)
	}
}

func (r *Remote) handleUpdateEnvironment(w http.ResponseWriter, req *http.Request) {
	var body domain.UpdateEnvironmentRequest
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	env, ok := r.environment(w, req)
	if !ok {
		return
	}
	if body.Name != "" {
		env.Name = body.Name
	}
	env.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, env)
}

func (r *Remote) handleDeleteEnvironment(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	env, ok := r.environment(w, req)
	if !ok {
		return
	}
	delete(r.envs, env.ID)
	delete(r.users, env.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleSetEnvironmentProperty(w http.ResponseWriter, req *http.Request) {
	var body domain.Properties
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	env, ok := r.environment(w, req)
	if !ok {
		return
	}
	body.Each(func(k string, v domain.Value) bool {
		env.CustomProperties.Set(k, v)
		return true
	})
	writeJSON(w, http.StatusOK, env)
}

func (r *Remote) handleDeleteEnvironmentProperty(w http.ResponseWriter, req *http.Request) {
	key, ok := propertyKey(w, req)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	env, ok := r.environment(w, req)
	if !ok {
		return
	}
	env.CustomProperties.Delete(key)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleCreateUser(w http.ResponseWriter, req *http.Request) {
	var body domain.CreateEnvironmentAccountRequest
	if !decode(w, req, &body) {
		return
	}
	if len(body.Password) < 8 {
		writeFieldError(w, "password", "Password must be at least 8 characters")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	envID := chi.URLParam(req, "envID")
	for _, u := range r.users[envID] {
		if u.Username == body.Username {
			writeError(w, http.StatusConflict, "Username already taken")
			return
		}
	}
	writeJSON(w, http.StatusCreated, r.newUser(envID, body).EnvironmentAccount)
}

// user looks up the user in the URL. Callers hold r.mu.
func (r *Remote) user(w http.ResponseWriter, req *http.Request) (*user, bool) {
	u, ok := r.users[chi.URLParam(req, "envID")][chi.URLParam(req, "userID")]
	if !ok {
		notFound(w, "Account")
		return nil, false
	}
	return u, true
}

func (r *Remote) handleGetUser(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.user(w, req); ok {
		writeJSON(w, http.StatusOK, u.EnvironmentAccount)
	}
}

func (r *Remote) handleUpdateUser(w http.ResponseWriter, req *http.Request) {
	var body domain.UpdateEnvironmentAccountRequest
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.user(w, req)
	if !ok {
		return
	}
	if body.Name != "" {
		u.Name = body.Name
	}
	u.AvatarURL = body.AvatarURL
	u.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, u.EnvironmentAccount)
}

func (r *Remote) handleDeleteUser(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.user(w, req)
	if !ok {
		return
	}
	delete(r.users[u.EnvironmentID], u.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleSetUserDisabled(disabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		u, ok := r.user(w, req)
		if !ok {
			return
		}
		u.Disabled = disabled
		u.DisabledAt = nil
		if disabled {
			now := time.Now().UTC()
			u.DisabledAt = &now
		}
		writeJSON(w, http.StatusOK, u.EnvironmentAccount)
	}
}

func (r *Remote) handleUpdateUserField(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		if !decode(w, req, &body) {
			return
		}
		value := body[field]
		if value == "" {
			writeFieldError(w, field, field+" is required")
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		u, ok := r.user(w, req)
		if !ok {
			return
		}
		switch field {
		case "email":
			u.Email = value
			u.EmailVerified = false
		case "phone":
			u.Phone = value
			u.PhoneVerified = false
		case "username":
			u.Username = value
		}
		writeJSON(w, http.StatusOK, u.EnvironmentAccount)
	}
}

func (r *Remote) handleSetUserProperty(w http.ResponseWriter, req *http.Request) {
	var body domain.Properties
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.user(w, req)
	if !ok {
		return
	}
	body.Each(func(k string, v domain.Value) bool {
		u.CustomProperties.Set(k, v)
		return true
	})
	writeJSON(w, http.StatusOK, u.EnvironmentAccount)
}

func (r *Remote) handleDeleteUserProperty(w http.ResponseWriter, req *http.Request) {
	key, ok := propertyKey(w, req)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.user(w, req)
	if !ok {
		return
	}
	u.CustomProperties.Delete(key)
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body domain.LoginRequest
	if !decode(w, req, &body) {
		return
	}
	tenantID := chi.URLParam(req, "tenantID")

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[tenantID]; !ok {
		writeError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	for _, a := range r.accounts[tenantID] {
		matches := (body.Email != "" && a.tenant.Email == body.Email) ||
			(body.Phone != "" && a.tenant.Phone == body.Phone) ||
			(body.Username != "" && a.tenant.Username == body.Username)
		if !matches {
			continue
		}
		if a.password != body.Password || a.tenant.Disabled {
			break
		}
		s := r.newSession(tenantID, a.tenant.ID)
		setSessionCookie(w, s)
		writeJSON(w, http.StatusOK, domain.LoginResponse{AccountID: a.tenant.ID, Session: *s})
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid credentials")
}

func (r *Remote) handleLogout(w http.ResponseWriter, req *http.Request) {
	if c, err := req.Cookie(SessionCookie); err == nil {
		r.mu.Lock()
		delete(r.sessions, c.Value)
		r.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (r *Remote) handleLogoutAll(w http.ResponseWriter, req *http.Request) {
	s := r.sessionFor(req, chi.URLParam(req, "tenantID"))
	if s == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	r.mu.Lock()
	revoked := 0
	for id, other := range r.sessions {
		if other.AccountID == s.AccountID {
			delete(r.sessions, id)
			revoked++
		}
	}
	r.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, domain.LogoutAllResponse{Revoked: revoked})
}

func (r *Remote) handleSession(w http.ResponseWriter, req *http.Request) {
	s := r.sessionFor(req, chi.URLParam(req, "tenantID"))
	if s == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (r *Remote) handleSessions(w http.ResponseWriter, req *http.Request) {
	s := r.sessionFor(req, chi.URLParam(req, "tenantID"))
	if s == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Session{}
	for _, other := range r.sessions {
		if other.AccountID == s.AccountID {
			out = append(out, *other)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func propertyKey(w http.ResponseWriter, req *http.Request) (string, bool) {
	var body struct {
		CustomProperty string `json:"customProperty"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.CustomProperty == "" {
		writeError(w, http.StatusBadRequest, "customProperty is required")
		return "", false
	}
	return body.CustomProperty, true
}

// handleForgotPassword answers the same way whether or not the account
// exists.
func (r *Remote) handleForgotPassword(w http.ResponseWriter, req *http.Request) {
	var body domain.ForgotPasswordRequest
	if !decode(w, req, &body) {
		return
	}
	tenantID := chi.URLParam(req, "tenantID")

	r.mu.Lock()
	for _, a := range r.accounts[tenantID] {
		if (body.Email != "" && a.tenant.Email == body.Email) ||
			(body.Phone != "" && a.tenant.Phone == body.Phone) ||
			(body.Username != "" && a.tenant.Username == body.Username) {
			for token, other := range r.resets {
				if other == a {
					delete(r.resets, token)
				}
			}
			r.resets[uuid.NewString()] = a
			break
		}
	}
	r.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.ForgotPasswordResponse{Message: "If the account exists, a reset link has been sent"})
}

func (r *Remote) handleResetPassword(w http.ResponseWriter, req *http.Request) {
	var body domain.ResetPasswordRequest
	if !decode(w, req, &body) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.resets[body.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	delete(r.resets, body.Token)
	a.password = body.NewPassword
	writeJSON(w, http.StatusOK, domain.ResetPasswordResponse{Success: true, Message: "Password has been reset"})
}
