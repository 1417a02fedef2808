package screen

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
)

const (
	loadUserFallback   = "Failed to load user"
	updateUserFallback = "Failed to update user"
	deleteUserFallback = "Failed to delete user"
)

func UsersPath(envID string) string { return EnvironmentPath(envID) + "/users" }

func UserPath(envID, userID string) string { return UsersPath(envID) + "/" + userID }

type UserInput struct {
	Name      string
	Email     string
	Username  string
	Password  string
	Phone     string
	AvatarURL string
}

type createUserForm struct {
	Name     string `form:"name" label:"Name" validate:"notblank"`
	Email    string `form:"email" label:"Email" validate:"notblank"`
	Username string `form:"username" label:"Username" validate:"notblank"`
	Password string `form:"password" label:"Password" validate:"required,min=8"`
}

type editUserForm struct {
	Name      string `form:"name" label:"Name" validate:"notblank"`
	AvatarURL string `form:"avatar_url" label:"Avatar URL" validate:"omitempty,url"`
}

// UserForm creates an environment user, or edits name and avatar of an
// existing one. Email, phone and username have their own endpoints, see
// UserDetail.
type UserForm struct {
	api  domain.UserAPI
	gate Gate
}

func NewUserForm(api domain.UserAPI) *UserForm {
	return &UserForm{api: api}
}

func (f *UserForm) Load(ctx context.Context, envID, userID string) View[*domain.EnvironmentAccount] {
	return load(ctx, loadUserFallback, func(ctx context.Context) (*domain.EnvironmentAccount, error) {
		return f.api.GetUser(ctx, envID, userID)
	}, nil)
}

// Submit creates when userID is empty and edits otherwise. On success it
// goes to the environment page unless then says otherwise.
func (f *UserForm) Submit(ctx context.Context, envID, userID string, in UserInput, then Continuation[*domain.EnvironmentAccount]) Outcome {
	var result *domain.EnvironmentAccount
	err := f.gate.Run(func() error {
		var err error
		if userID == "" {
			result, err = f.create(ctx, envID, in)
		} else {
			result, err = f.edit(ctx, envID, userID, in)
		}
		return err
	})
	if err != nil {
		return failed(err, UnexpectedErrorMessage)
	}
	if then != nil {
		return succeeded(then(result))
	}
	return succeeded(EnvironmentPath(envID))
}

func (f *UserForm) create(ctx context.Context, envID string, in UserInput) (*domain.EnvironmentAccount, error) {
	form := createUserForm{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return f.api.CreateUser(ctx, envID, domain.CreateEnvironmentAccountRequest{
		Name:      form.Name,
		Email:     form.Email,
		Username:  form.Username,
		Password:  form.Password,
		Phone:     strings.TrimSpace(in.Phone),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
	})
}

func (f *UserForm) edit(ctx context.Context, envID, userID string, in UserInput) (*domain.EnvironmentAccount, error) {
	form := editUserForm{
		Name:      strings.TrimSpace(in.Name),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return f.api.UpdateUser(ctx, envID, userID, domain.UpdateEnvironmentAccountRequest{
		Name:      form.Name,
		AvatarURL: form.AvatarURL,
	})
}

type UserDetail struct {
	api     domain.UserAPI
	gate    Gate
	confirm Confirmation
}

func NewUserDetail(api domain.UserAPI) *UserDetail {
	return &UserDetail{api: api}
}

func (d *UserDetail) Load(ctx context.Context, envID, userID string) View[*domain.EnvironmentAccount] {
	return load(ctx, loadUserFallback, func(ctx context.Context) (*domain.EnvironmentAccount, error) {
		return d.api.GetUser(ctx, envID, userID)
	}, nil)
}

func (d *UserDetail) Disable(ctx context.Context, envID, userID string) Outcome {
	return d.mutate(envID, userID, func() error {
		_, err := d.api.DisableUser(ctx, envID, userID)
		return err
	})
}

func (d *UserDetail) Enable(ctx context.Context, envID, userID string) Outcome {
	return d.mutate(envID, userID, func() error {
		_, err := d.api.EnableUser(ctx, envID, userID)
		return err
	})
}

type identifierForm struct {
	Value string `form:"value" validate:"notblank"`
}

// ChangeIdentifier updates email, phone or username through its dedicated
// endpoint. kind is one of "email", "phone", "username".
func (d *UserDetail) ChangeIdentifier(ctx context.Context, envID, userID, kind, value string) Outcome {
	return d.mutate(envID, userID, func() error {
		value = strings.TrimSpace(value)
		label := map[string]string{"email": "Email", "phone": "Phone", "username": "Username"}[kind]
		if label == "" {
			return &validate.FieldError{Field: "kind", Message: "Unknown identifier " + kind}
		}
		if err := validate.Struct(identifierForm{Value: value}); err != nil {
			return &validate.FieldError{Field: kind, Message: label + " is required"}
		}
		var err error
		switch kind {
		case "email":
			_, err = d.api.UpdateUserEmail(ctx, envID, userID, value)
		case "phone":
			_, err = d.api.UpdateUserPhone(ctx, envID, userID, value)
		case "username":
			_, err = d.api.UpdateUserUsername(ctx, envID, userID, value)
		}
		return err
	})
}

func (d *UserDetail) SetProperty(ctx context.Context, envID, userID string, in PropertyInput) Outcome {
	return d.mutate(envID, userID, func() error {
		key, value, err := in.parse()
		if err != nil {
			return err
		}
		_, err = d.api.SetUserProperty(ctx, envID, userID, key, value)
		return err
	})
}

func (d *UserDetail) DeleteProperty(ctx context.Context, envID, userID, key string) Outcome {
	return d.mutate(envID, userID, func() error {
		key, err := propertyKey(key)
		if err != nil {
			return err
		}
		return d.api.DeleteUserProperty(ctx, envID, userID, key)
	})
}

func (d *UserDetail) RequestDelete(userID string) { d.confirm.Request(userID) }

func (d *UserDetail) CancelDelete() { d.confirm.Cancel() }

func (d *UserDetail) DeletePending(userID string) bool {
	return userID != "" && d.confirm.Pending() == userID
}

func (d *UserDetail) Delete(ctx context.Context, envID, userID string) Outcome {
	err := d.gate.Run(func() error {
		return d.confirm.Confirm(userID, func() error {
			return d.api.DeleteUser(ctx, envID, userID)
		})
	})
	if err != nil {
		return failed(err, deleteUserFallback)
	}
	return succeeded(UsersPath(envID))
}

func (d *UserDetail) mutate(envID, userID string, fn func() error) Outcome {
	if err := d.gate.Run(fn); err != nil {
		return failed(err, updateUserFallback)
	}
	return succeeded(UserPath(envID, userID))
}
