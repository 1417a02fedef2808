package handlers

import (
	"fmt"
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/screen"
)

func (c *Console) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := workspace(r).Dashboard.Load(r.Context())
	c.render(w, r, statusOf(view.Status), "dashboard", "Dashboard", "", view)
}

func (c *Console) Environments(w http.ResponseWriter, r *http.Request) {
	view := workspace(r).Environments.Load(r.Context())
	c.render(w, r, statusOf(view.Status), "environments", "Environments", "", view)
}

func (c *Console) Accounts(w http.ResponseWriter, r *http.Request) {
	view := workspace(r).Accounts.Load(r.Context())
	c.render(w, r, statusOf(view.Status), "accounts", "Tenant accounts", "", view)
}

func (c *Console) Settings(w http.ResponseWriter, r *http.Request) {
	c.renderSettings(w, r, http.StatusOK, "")
}

func (c *Console) renderSettings(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	view := workspace(r).Settings.Load(r.Context())
	if view.Status == screen.Error {
		status = statusOf(view.Status)
	}
	c.render(w, r, status, "settings", "Settings", errMsg, view)
}

func (c *Console) RenameTenant(w http.ResponseWriter, r *http.Request) {
	out := workspace(r).Settings.Rename(r.Context(), screen.TenantNameInput{Name: formValue(r, "name")})
	c.settingsOutcome(w, r, out, "Tenant renamed.")
}

func (c *Console) TenantProperties(w http.ResponseWriter, r *http.Request) {
	settings := workspace(r).Settings
	var out screen.Outcome
	if formValue(r, "op") == "delete" {
		out = settings.DeleteProperty(r.Context(), formValue(r, "key"))
	} else {
		out = settings.SetProperty(r.Context(), propertyInput(r))
	}
	c.settingsOutcome(w, r, out, "Properties updated.")
}

func (c *Console) LogoutAll(w http.ResponseWriter, r *http.Request) {
	revoked, out := workspace(r).Settings.LogoutAll(r.Context())
	if !out.OK() {
		c.renderSettings(w, r, http.StatusUnprocessableEntity, out.Message)
		return
	}
	flashRedirect(w, r, out.Redirect, fmt.Sprintf("Signed out of %d sessions.", revoked))
}

func (c *Console) settingsOutcome(w http.ResponseWriter, r *http.Request, out screen.Outcome, notice string) {
	if !out.OK() {
		c.renderSettings(w, r, http.StatusUnprocessableEntity, out.Message)
		return
	}
	flashRedirect(w, r, out.Redirect, notice)
}

func propertyInput(r *http.Request) screen.PropertyInput {
	return screen.PropertyInput{Key: formValue(r, "key"), Value: formValue(r, "value")}
}

// statusOf maps a load failure to 502: the page rendered, the remote API
// did not answer usefully.
func statusOf(s screen.Status) int {
	if s == screen.Error {
		return http.StatusBadGateway
	}
	return http.StatusOK
}
