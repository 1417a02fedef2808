package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/go-chi/chi/v5"
)

type environmentFormPage struct {
	ID     string
	Name   string
	Action string
	Next   string
}

type confirmPage struct {
	Heading  string
	Question string
	Action   string
}

func (c *Console) Environment(w http.ResponseWriter, r *http.Request) {
	c.renderEnvironment(w, r, http.StatusOK, "")
}

func (c *Console) renderEnvironment(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	view := workspace(r).EnvironmentDetail.Load(r.Context(), chi.URLParam(r, "envID"))
	if view.Status == screen.Error {
		status = statusOf(view.Status)
	}
	title := "Environment"
	if view.IsLoaded() {
		title = view.Data.Name
	}
	c.render(w, r, status, "environment", title, errMsg, view)
}

func (c *Console) NewEnvironment(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "environment_form", "New environment", "", environmentFormPage{
		Action: "/environments/new",
		Next:   localPath(r.URL.Query().Get("next")),
	})
}

func (c *Console) EditEnvironment(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	view := workspace(r).EnvironmentForm.Load(r.Context(), envID)
	if !view.IsLoaded() {
		c.render(w, r, statusOf(view.Status), "environment_form", "Rename environment", view.Message,
			environmentFormPage{ID: envID, Action: screen.EnvironmentPath(envID) + "/edit"})
		return
	}
	c.render(w, r, http.StatusOK, "environment_form", "Rename environment", "", environmentFormPage{
		ID:     envID,
		Name:   view.Data.Name,
		Action: screen.EnvironmentPath(envID) + "/edit",
		Next:   localPath(r.URL.Query().Get("next")),
	})
}

// SaveEnvironment handles both create (no envID in the route) and rename.
// A "next" field overrides where the browser lands afterwards.
func (c *Console) SaveEnvironment(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	form := environmentFormPage{
		ID:     envID,
		Name:   formValue(r, "name"),
		Action: "/environments/new",
		Next:   localPath(formValue(r, "next")),
	}
	if envID != "" {
		form.Action = screen.EnvironmentPath(envID) + "/edit"
	}

	var then screen.Continuation[*domain.Environment]
	if form.Next != "" {
		then = func(*domain.Environment) string { return form.Next }
	}
	out := workspace(r).EnvironmentForm.Submit(r.Context(), envID, screen.EnvironmentInput{Name: form.Name}, then)
	if !out.OK() {
		c.render(w, r, http.StatusUnprocessableEntity, "environment_form", "Environment", out.Message, form)
		return
	}
	flashRedirect(w, r, out.Redirect, "Environment saved.")
}

// ConfirmDeleteEnvironment arms the delete and asks for confirmation.
func (c *Console) ConfirmDeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	workspace(r).EnvironmentDetail.RequestDelete(envID)
	c.render(w, r, http.StatusOK, "confirm", "Delete environment", "", confirmPage{
		Heading:  "Delete environment",
		Question: "This removes the environment and every user in it. This cannot be undone.",
		Action:   screen.EnvironmentPath(envID) + "/delete",
	})
}

func (c *Console) DeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	detail := workspace(r).EnvironmentDetail
	if formValue(r, "op") != "confirm" {
		detail.CancelDelete()
		redirect(w, r, screen.EnvironmentPath(envID))
		return
	}
	out := detail.Delete(r.Context(), envID)
	if !out.OK() {
		c.renderEnvironment(w, r, http.StatusUnprocessableEntity, out.Message)
		return
	}
	flashRedirect(w, r, out.Redirect, "Environment deleted.")
}

func (c *Console) EnvironmentProperties(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	detail := workspace(r).EnvironmentDetail
	var out screen.Outcome
	if formValue(r, "op") == "delete" {
		out = detail.DeleteProperty(r.Context(), envID, formValue(r, "key"))
	} else {
		out = detail.SetProperty(r.Context(), envID, propertyInput(r))
	}
	if !out.OK() {
		c.renderEnvironment(w, r, http.StatusUnprocessableEntity, out.Message)
		return
	}
	flashRedirect(w, r, out.Redirect, "Properties updated.")
}
