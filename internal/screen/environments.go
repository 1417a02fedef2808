package screen

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
)

const (
	loadEnvironmentFallback     = "Failed to load environment"
	deleteEnvironmentFallback   = "Failed to delete environment"
	environmentPropertyFallback = "Failed to update environment properties"
)

func EnvironmentPath(envID string) string { return "/environments/" + envID }

type EnvironmentDetail struct {
	api     domain.EnvironmentAPI
	ids     TenantSource
	gate    Gate
	confirm Confirmation
}

func NewEnvironmentDetail(api domain.EnvironmentAPI, ids TenantSource) *EnvironmentDetail {
	return &EnvironmentDetail{api: api, ids: ids}
}

func (d *EnvironmentDetail) Load(ctx context.Context, envID string) View[*domain.Environment] {
	return load(ctx, loadEnvironmentFallback, func(ctx context.Context) (*domain.Environment, error) {
		tenantID, err := tenantOf(d.ids)
		if err != nil {
			return nil, err
		}
		return d.api.GetEnvironment(ctx, tenantID, envID)
	}, nil)
}

// RequestDelete opens the confirmation step for envID.
func (d *EnvironmentDetail) RequestDelete(envID string) { d.confirm.Request(envID) }

// CancelDelete closes the confirmation step; nothing is sent.
func (d *EnvironmentDetail) CancelDelete() { d.confirm.Cancel() }

func (d *EnvironmentDetail) DeletePending(envID string) bool {
	return envID != "" && d.confirm.Pending() == envID
}

// Delete removes a confirmed environment together with all its users.
func (d *EnvironmentDetail) Delete(ctx context.Context, envID string) Outcome {
	err := d.gate.Run(func() error {
		return d.confirm.Confirm(envID, func() error {
			tenantID, err := tenantOf(d.ids)
			if err != nil {
				return err
			}
			return d.api.DeleteEnvironment(ctx, tenantID, envID)
		})
	})
	if err != nil {
		return failed(err, deleteEnvironmentFallback)
	}
	return succeeded("/environments")
}

func (d *EnvironmentDetail) SetProperty(ctx context.Context, envID string, in PropertyInput) Outcome {
	return d.mutate(envID, func(tenantID string) error {
		key, value, err := in.parse()
		if err != nil {
			return err
		}
		_, err = d.api.SetEnvironmentProperty(ctx, tenantID, envID, key, value)
		return err
	})
}

func (d *EnvironmentDetail) DeleteProperty(ctx context.Context, envID, key string) Outcome {
	return d.mutate(envID, func(tenantID string) error {
		key, err := propertyKey(key)
		if err != nil {
			return err
		}
		return d.api.DeleteEnvironmentProperty(ctx, tenantID, envID, key)
	})
}

func (d *EnvironmentDetail) mutate(envID string, fn func(tenantID string) error) Outcome {
	err := d.gate.Run(func() error {
		tenantID, err := tenantOf(d.ids)
		if err != nil {
			return err
		}
		return fn(tenantID)
	})
	if err != nil {
		return failed(err, environmentPropertyFallback)
	}
	return succeeded(EnvironmentPath(envID))
}

type EnvironmentInput struct {
	Name string `form:"name" label:"Environment name" validate:"notblank,min=2"`
}

// EnvironmentForm creates an environment, or renames one when an id is
// given.
type EnvironmentForm struct {
	api  domain.EnvironmentAPI
	ids  TenantSource
	gate Gate
}

func NewEnvironmentForm(api domain.EnvironmentAPI, ids TenantSource) *EnvironmentForm {
	return &EnvironmentForm{api: api, ids: ids}
}

// Load prefills the edit form.
func (f *EnvironmentForm) Load(ctx context.Context, envID string) View[*domain.Environment] {
	return load(ctx, loadEnvironmentFallback, func(ctx context.Context) (*domain.Environment, error) {
		tenantID, err := tenantOf(f.ids)
		if err != nil {
			return nil, err
		}
		return f.api.GetEnvironment(ctx, tenantID, envID)
	}, nil)
}

// Submit validates the name before the tenant, then creates (envID == "")
// or updates. then, when set, decides where to go on success instead of
// the new environment's page.
func (f *EnvironmentForm) Submit(ctx context.Context, envID string, in EnvironmentInput, then Continuation[*domain.Environment]) Outcome {
	var result *domain.Environment
	err := f.gate.Run(func() error {
		in.Name = strings.TrimSpace(in.Name)
		if err := validate.Struct(in); err != nil {
			return err
		}
		tenantID, err := tenantOf(f.ids)
		if err != nil {
			return err
		}
		if envID == "" {
			result, err = f.api.CreateEnvironment(ctx, tenantID, domain.CreateEnvironmentRequest{Name: in.Name})
		} else {
			result, err = f.api.UpdateEnvironment(ctx, tenantID, envID, domain.UpdateEnvironmentRequest{Name: in.Name})
		}
		return err
	})
	if err != nil {
		return failed(err, UnexpectedErrorMessage)
	}
	if then != nil {
		return succeeded(then(result))
	}
	return succeeded(EnvironmentPath(result.ID))
}
