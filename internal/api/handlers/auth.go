package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/Harshitk-cp/sump-console/internal/session"
	"github.com/Harshitk-cp/sump-console/internal/validate"
	"go.uber.org/zap"
)

type loginForm struct {
	Identifier string `form:"identifier" label:"Email, phone or username" validate:"notblank"`
	Password   string `form:"password" label:"Password" validate:"required"`
}

type loginPage struct {
	TenantID   string
	Identifier string
}

// Root sends the browser where it belongs: the dashboard when signed in,
// the login page when a tenant is selected, onboarding otherwise.
func (c *Console) Root(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	switch {
	case ws.Resolve(r.Context()).IsAuthenticated():
		redirect(w, r, "/dashboard")
	case ws.Identity.Has():
		redirect(w, r, "/login")
	default:
		redirect(w, r, "/setup")
	}
}

func (c *Console) LoginPage(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	if ws.Identity.Has() && ws.Resolve(r.Context()).IsAuthenticated() {
		redirect(w, r, "/dashboard")
		return
	}
	c.render(w, r, http.StatusOK, "login", "Sign in", "", loginPage{TenantID: ws.Identity.Get()})
}

// Login signs in against the tenant typed into the form, or the selected
// one. On success that tenant becomes the selected tenant.
func (c *Console) Login(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	tenantID := strings.TrimSpace(formValue(r, "tenant_id"))
	form := loginForm{Identifier: formValue(r, "identifier"), Password: formValue(r, "password")}
	data := loginPage{TenantID: tenantID, Identifier: form.Identifier}
	if data.TenantID == "" {
		data.TenantID = ws.Identity.Get()
	}

	if err := validate.Struct(form); err != nil {
		c.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", screen.Message(err, ""), data)
		return
	}

	_, err := ws.Session.Login(r.Context(), form.Identifier, form.Password, tenantID)
	if err != nil {
		msg := screen.Message(err, screen.UnexpectedErrorMessage)
		if errors.Is(err, session.ErrNoTenant) {
			msg = err.Error()
		}
		c.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", msg, data)
		return
	}

	if tenantID != "" {
		if err := ws.Identity.Set(tenantID); err != nil {
			c.logger.Warn("failed to persist tenant id", zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}
	redirect(w, r, "/dashboard")
}

// Logout ends the session. With forget=1 the tenant selection is dropped
// too, which is how a browser switches tenants.
func (c *Console) Logout(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	ws.Session.Logout(r.Context())
	if formValue(r, "forget") == "1" {
		if err := ws.Identity.Clear(); err != nil {
			c.logger.Warn("failed to clear tenant id", zap.Error(err))
		}
	}
	ws.DiscardWizard()
	flashRedirect(w, r, "/login", "You have been signed out.")
}
