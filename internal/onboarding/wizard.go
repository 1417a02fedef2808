// Package onboarding drives the three-step tenant creation wizard: tenant
// name, owner account, first environment. The wizard is strictly linear and
// only the last step talks to the remote API.
package onboarding

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
	"go.uber.org/zap"
)

const (
	DefaultEnvironmentName = "default"
	UnexpectedErrorMessage = "An unexpected error occurred"
)

var (
	ErrFinalStep        = errors.New("already on the final step")
	ErrNotOnFinalStep   = errors.New("submit is only allowed on the final step")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrCompleted        = errors.New("onboarding already completed")
	ErrUnknownField     = errors.New("unknown field")
)

type Step int

const (
	StepTenant Step = iota + 1
	StepAccount
	StepEnvironment
)

func (s Step) String() string {
	switch s {
	case StepTenant:
		return "tenant"
	case StepAccount:
		return "account"
	case StepEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

type Status int

const (
	Editing Status = iota
	Submitting
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "editing"
	}
}

// Field names double as HTML form input names.
type Field string

const (
	FieldTenantName             Field = "tenant_name"
	FieldAccountName            Field = "account_name"
	FieldAccountEmail           Field = "account_email"
	FieldAccountUsername        Field = "account_username"
	FieldAccountPassword        Field = "account_password"
	FieldAccountPasswordConfirm Field = "account_password_confirm"
	FieldAccountPhone           Field = "account_phone"
	FieldEnvironmentName        Field = "environment_name"
)

// Fields lists every draft field in form order.
var Fields = []Field{
	FieldTenantName,
	FieldAccountName,
	FieldAccountEmail,
	FieldAccountUsername,
	FieldAccountPassword,
	FieldAccountPasswordConfirm,
	FieldAccountPhone,
	FieldEnvironmentName,
}

type Draft struct {
	TenantName             string
	AccountName            string
	AccountEmail           string
	AccountUsername        string
	AccountPassword        string
	AccountPasswordConfirm string
	AccountPhone           string
	EnvironmentName        string
}

func NewDraft() Draft {
	return Draft{EnvironmentName: DefaultEnvironmentName}
}

func (d *Draft) field(f Field) (*string, bool) {
	switch f {
	case FieldTenantName:
		return &d.TenantName, true
	case FieldAccountName:
		return &d.AccountName, true
	case FieldAccountEmail:
		return &d.AccountEmail, true
	case FieldAccountUsername:
		return &d.AccountUsername, true
	case FieldAccountPassword:
		return &d.AccountPassword, true
	case FieldAccountPasswordConfirm:
		return &d.AccountPasswordConfirm, true
	case FieldAccountPhone:
		return &d.AccountPhone, true
	case FieldEnvironmentName:
		return &d.EnvironmentName, true
	}
	return nil, false
}

type tenantForm struct {
	Name string `form:"tenant_name" label:"Tenant name" validate:"notblank,min=2"`
}

type accountForm struct {
	Name            string `form:"account_name" label:"Name" validate:"notblank"`
	Email           string `form:"account_email" label:"Email" validate:"notblank"`
	Username        string `form:"account_username" label:"Username" validate:"notblank,min=3"`
	Password        string `form:"account_password" label:"Password" validate:"notblank,min=8"`
	PasswordConfirm string `form:"account_password_confirm" label:"Passwords" validate:"eqfield=Password"`
}

func (d Draft) tenantForm() tenantForm {
	return tenantForm{Name: strings.TrimSpace(d.TenantName)}
}

func (d Draft) accountForm() accountForm {
	return accountForm{
		Name:            strings.TrimSpace(d.AccountName),
		Email:           strings.TrimSpace(d.AccountEmail),
		Username:        strings.TrimSpace(d.AccountUsername),
		Password:        d.AccountPassword,
		PasswordConfirm: d.AccountPasswordConfirm,
	}
}

func (d Draft) request() domain.CreateTenantRequest {
	envName := strings.TrimSpace(d.EnvironmentName)
	if envName == "" {
		envName = DefaultEnvironmentName
	}
	return domain.CreateTenantRequest{
		Tenant: domain.NewTenant{Name: strings.TrimSpace(d.TenantName)},
		Account: domain.NewOwnerAccount{
			Name:     strings.TrimSpace(d.AccountName),
			Email:    strings.TrimSpace(d.AccountEmail),
			Username: strings.TrimSpace(d.AccountUsername),
			Password: d.AccountPassword,
			Phone:    strings.TrimSpace(d.AccountPhone),
		},
		Environment: &domain.CreateEnvironmentRequest{Name: envName},
	}
}

// IdentityWriter is the write side of identity.Store.
type IdentityWriter interface {
	Set(id string) error
}

// View is a copy of the wizard state for rendering.
type View struct {
	Step       Step
	Status     Status
	Draft      Draft
	Error      string
	ErrorField Field
	TenantID   string
}

type Wizard struct {
	api    domain.TenantAPI
	ids    IdentityWriter
	logger *zap.Logger

	mu       sync.Mutex
	step     Step
	status   Status
	draft    Draft
	errMsg   string
	errField Field
	tenantID string
}

func New(api domain.TenantAPI, ids IdentityWriter, logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		api:    api,
		ids:    ids,
		logger: logger,
		step:   StepTenant,
		draft:  NewDraft(),
	}
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Step:       w.step,
		Status:     w.status,
		Draft:      w.draft,
		Error:      w.errMsg,
		ErrorField: w.errField,
		TenantID:   w.tenantID,
	}
}

// Set updates one draft field and clears the visible error.
func (w *Wizard) Set(f Field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	p, ok := w.draft.field(f)
	if !ok {
		return ErrUnknownField
	}
	*p = value
	w.clearErrorLocked()
	return nil
}

// Next validates the current step and advances. On failure the step stays
// put and the returned *validate.FieldError carries the message.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	if w.step == StepEnvironment {
		return ErrFinalStep
	}
	if err := w.validateLocked(w.step); err != nil {
		return err
	}
	w.step++
	w.clearErrorLocked()
	return nil
}

// Back moves one step towards the start, keeping the draft. It is a no-op
// on the first step.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editableLocked(); err != nil {
		return err
	}
	if w.step > StepTenant {
		w.step--
	}
	w.clearErrorLocked()
	return nil
}

// Submit creates tenant, owner account and environment in one call. On
// success the new tenant becomes the selected one and the draft is
// discarded. On failure the wizard stays on the last step with the draft
// intact and may be submitted again.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	switch {
	case w.status == Submitting:
		w.mu.Unlock()
		return "", ErrSubmitInProgress
	case w.status == Done:
		w.mu.Unlock()
		return "", ErrCompleted
	case w.step != StepEnvironment:
		w.mu.Unlock()
		return "", ErrNotOnFinalStep
	}
	for _, s := range []Step{StepTenant, StepAccount} {
		if err := w.validateLocked(s); err != nil {
			w.step = s
			w.mu.Unlock()
			return "", err
		}
	}
	req := w.draft.request()
	w.status = Submitting
	w.clearErrorLocked()
	w.mu.Unlock()

	resp, err := w.api.CreateTenant(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.status = Failed
		w.errMsg = UnexpectedErrorMessage
		if apiErr, ok := apiclient.AsAPIError(err); ok {
			w.errMsg = apiErr.Message
		} else {
			w.logger.Error("tenant creation failed", zap.Error(err))
		}
		return "", err
	}

	w.status = Done
	w.tenantID = resp.TenantID
	w.draft = NewDraft()
	if w.ids != nil {
		if err := w.ids.Set(resp.TenantID); err != nil {
			w.logger.Warn("failed to persist new tenant id",
				zap.String("tenant_id", resp.TenantID),
				zap.Error(err))
		}
	}
	w.logger.Info("tenant created",
		zap.String("tenant_id", resp.TenantID),
		zap.String("environment_id", resp.EnvironmentID))
	return resp.TenantID, nil
}

func (w *Wizard) editableLocked() error {
	switch w.status {
	case Submitting:
		return ErrSubmitInProgress
	case Done:
		return ErrCompleted
	}
	return nil
}

func (w *Wizard) validateLocked(step Step) error {
	var form any
	switch step {
	case StepTenant:
		form = w.draft.tenantForm()
	case StepAccount:
		form = w.draft.accountForm()
	default:
		return nil
	}
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	if fe, ok := validate.AsFieldError(err); ok {
		w.errMsg = fe.Message
		w.errField = Field(fe.Field)
	}
	return err
}

func (w *Wizard) clearErrorLocked() {
	w.errMsg = ""
	w.errField = ""
	if w.status == Failed {
		w.status = Editing
	}
}
