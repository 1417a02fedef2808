package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/onboarding"
)

type setupPage struct {
	onboarding.View
	Number int
}

func (c *Console) SetupPage(w http.ResponseWriter, r *http.Request) {
	v := workspace(r).Wizard().View()
	c.render(w, r, http.StatusOK, "setup", "Create your tenant", v.Error, setupPage{View: v, Number: int(v.Step)})
}

func (c *Console) SetupNext(w http.ResponseWriter, r *http.Request) {
	c.setupStep(w, r, (*onboarding.Wizard).Next)
}

func (c *Console) SetupBack(w http.ResponseWriter, r *http.Request) {
	c.setupStep(w, r, (*onboarding.Wizard).Back)
}

// setupStep copies the posted fields into the draft, then moves. A
// validation error is kept on the wizard and shown after the redirect.
func (c *Console) setupStep(w http.ResponseWriter, r *http.Request, move func(*onboarding.Wizard) error) {
	wiz := workspace(r).Wizard()
	if err := applyDraft(r, wiz); err != nil {
		flashRedirect(w, r, "/setup", setupNotice(err))
		return
	}
	err := move(wiz)
	if err != nil && !errors.Is(err, onboarding.ErrFinalStep) && wiz.View().Error == "" {
		flashRedirect(w, r, "/setup", setupNotice(err))
		return
	}
	redirect(w, r, "/setup")
}

func (c *Console) SetupSubmit(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	wiz := ws.Wizard()
	if err := applyDraft(r, wiz); err != nil {
		flashRedirect(w, r, "/setup", setupNotice(err))
		return
	}

	tenantID, err := wiz.Submit(r.Context())
	if err != nil {
		// Validation and remote failures are recorded on the wizard view.
		if wiz.View().Error == "" {
			ws.Flash(setupNotice(err))
		}
		redirect(w, r, "/setup")
		return
	}
	_ = ws.Resolve(r.Context())
	ws.DiscardWizard()
	flashRedirect(w, r, "/dashboard", "Tenant "+tenantID+" created.")
}

// applyDraft copies posted fields into the draft. Password inputs are never
// rendered back, so a blank one keeps what the draft already holds.
func applyDraft(r *http.Request, wiz *onboarding.Wizard) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, f := range onboarding.Fields {
		if _, ok := r.PostForm[string(f)]; !ok {
			continue
		}
		value := r.PostForm.Get(string(f))
		if value == "" && isPasswordField(f) {
			continue
		}
		if err := wiz.Set(f, value); err != nil {
			return err
		}
	}
	return nil
}

func isPasswordField(f onboarding.Field) bool {
	return f == onboarding.FieldAccountPassword || f == onboarding.FieldAccountPasswordConfirm
}

func setupNotice(err error) string {
	switch {
	case errors.Is(err, onboarding.ErrSubmitInProgress):
		return "Your tenant is still being created."
	case errors.Is(err, onboarding.ErrCompleted):
		return "This tenant has already been created."
	case errors.Is(err, onboarding.ErrNotOnFinalStep):
		return "Finish every step before creating the tenant."
	default:
		return onboarding.UnexpectedErrorMessage
	}
}
