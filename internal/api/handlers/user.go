package handlers

import (
	"net/http"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/go-chi/chi/v5"
)

type usersPage struct {
	EnvironmentID   string
	EnvironmentName string
	Lookup          string
}

type userPage struct {
	EnvironmentID string
	View          screen.View[*domain.EnvironmentAccount]
}

type userFormPage struct {
	EnvironmentID string
	UserID        string
	Input         screen.UserInput
	Action        string
	Next          string
}

// Users opens a user by id. The remote API has no listing endpoint for
// environment users, so the page is a lookup form.
func (c *Console) Users(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	envID := chi.URLParam(r, "envID")
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		redirect(w, r, screen.UserPath(envID, id))
		return
	}
	env := ws.EnvironmentDetail.Load(r.Context(), envID)
	if !env.IsLoaded() {
		c.render(w, r, statusOf(env.Status), "environment", "Environment", "", env)
		return
	}
	c.render(w, r, http.StatusOK, "users", "Users", "", usersPage{
		EnvironmentID:   envID,
		EnvironmentName: env.Data.Name,
	})
}

func (c *Console) User(w http.ResponseWriter, r *http.Request) {
	c.renderUser(w, r, http.StatusOK, "")
}

func (c *Console) renderUser(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	envID := chi.URLParam(r, "envID")
	view := workspace(r).UserDetail.Load(r.Context(), envID, chi.URLParam(r, "userID"))
	if view.Status == screen.Error {
		status = statusOf(view.Status)
	}
	c.render(w, r, status, "user", "User", errMsg, userPage{EnvironmentID: envID, View: view})
}

func (c *Console) NewUser(w http.ResponseWriter, r *http.Request) {
	envID := chi.URLParam(r, "envID")
	c.render(w, r, http.StatusOK, "user_form", "New user", "", userFormPage{
		EnvironmentID: envID,
		Action:        screen.UsersPath(envID) + "/new",
		Next:          localPath(r.URL.Query().Get("next")),
	})
}

func (c *Console) EditUser(w http.ResponseWriter, r *http.Request) {
	envID, userID := chi.URLParam(r, "envID"), chi.URLParam(r, "userID")
	form := userFormPage{
		EnvironmentID: envID,
		UserID:        userID,
		Action:        screen.UserPath(envID, userID) + "/edit",
		Next:          localPath(r.URL.Query().Get("next")),
	}
	view := workspace(r).UserForm.Load(r.Context(), envID, userID)
	if !view.IsLoaded() {
		c.render(w, r, statusOf(view.Status), "user_form", "Edit user", view.Message, form)
		return
	}
	form.Input = screen.UserInput{Name: view.Data.Name, AvatarURL: view.Data.AvatarURL}
	c.render(w, r, http.StatusOK, "user_form", "Edit user", "", form)
}

// SaveUser creates when the route has no userID and edits otherwise.
func (c *Console) SaveUser(w http.ResponseWriter, r *http.Request) {
	envID, userID := chi.URLParam(r, "envID"), chi.URLParam(r, "userID")
	form := userFormPage{
		EnvironmentID: envID,
		UserID:        userID,
		Input: screen.UserInput{
			Name:      formValue(r, "name"),
			Email:     formValue(r, "email"),
			Username:  formValue(r, "username"),
			Password:  formValue(r, "password"),
			Phone:     formValue(r, "phone"),
			AvatarURL: formValue(r, "avatar_url"),
		},
		Action: screen.UsersPath(envID) + "/new",
		Next:   localPath(formValue(r, "next")),
	}
	if userID != "" {
		form.Action = screen.UserPath(envID, userID) + "/edit"
	}

	var then screen.Continuation[*domain.EnvironmentAccount]
	if form.Next != "" {
		then = func(*domain.EnvironmentAccount) string { return form.Next }
	}
	out := workspace(r).UserForm.Submit(r.Context(), envID, userID, form.Input, then)
	if !out.OK() {
		form.Input.Password = ""
		c.render(w, r, http.StatusUnprocessableEntity, "user_form", "User", out.Message, form)
		return
	}
	flashRedirect(w, r, out.Redirect, "User saved.")
}

func (c *Console) DisableUser(w http.ResponseWriter, r *http.Request) {
	out := workspace(r).UserDetail.Disable(r.Context(), chi.URLParam(r, "envID"), chi.URLParam(r, "userID"))
	c.userOutcome(w, r, out, "User disabled.")
}

func (c *Console) EnableUser(w http.ResponseWriter, r *http.Request) {
	out := workspace(r).UserDetail.Enable(r.Context(), chi.URLParam(r, "envID"), chi.URLParam(r, "userID"))
	c.userOutcome(w, r, out, "User enabled.")
}

func (c *Console) ChangeUserIdentifier(w http.ResponseWriter, r *http.Request) {
	out := workspace(r).UserDetail.ChangeIdentifier(r.Context(),
		chi.URLParam(r, "envID"), chi.URLParam(r, "userID"),
		formValue(r, "kind"), formValue(r, "value"))
	c.userOutcome(w, r, out, "User updated.")
}

func (c *Console) UserProperties(w http.ResponseWriter, r *http.Request) {
	envID, userID := chi.URLParam(r, "envID"), chi.URLParam(r, "userID")
	detail := workspace(r).UserDetail
	var out screen.Outcome
	if formValue(r, "op") == "delete" {
		out = detail.DeleteProperty(r.Context(), envID, userID, formValue(r, "key"))
	} else {
		out = detail.SetProperty(r.Context(), envID, userID, propertyInput(r))
	}
	c.userOutcome(w, r, out, "Properties updated.")
}

func (c *Console) ConfirmDeleteUser(w http.ResponseWriter, r *http.Request) {
	envID, userID := chi.URLParam(r, "envID"), chi.URLParam(r, "userID")
	workspace(r).UserDetail.RequestDelete(userID)
	c.render(w, r, http.StatusOK, "confirm", "Delete user", "", confirmPage{
		Heading:  "Delete user",
		Question: "The user loses access to this environment immediately. This cannot be undone.",
		Action:   screen.UserPath(envID, userID) + "/delete",
	})
}

func (c *Console) DeleteUser(w http.ResponseWriter, r *http.Request) {
	envID, userID := chi.URLParam(r, "envID"), chi.URLParam(r, "userID")
	detail := workspace(r).UserDetail
	if formValue(r, "op") != "confirm" {
		detail.CancelDelete()
		redirect(w, r, screen.UserPath(envID, userID))
		return
	}
	c.userOutcome(w, r, detail.Delete(r.Context(), envID, userID), "User deleted.")
}

func (c *Console) userOutcome(w http.ResponseWriter, r *http.Request, out screen.Outcome, notice string) {
	if !out.OK() {
		c.renderUser(w, r, http.StatusUnprocessableEntity, out.Message)
		return
	}
	flashRedirect(w, r, out.Redirect, notice)
}
