package apiclient

import (
	"context"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

func userPath(environmentID string, rest ...string) string {
	return pathOf(append([]string{"environments", environmentID, "accounts"}, rest...)...)
}

func (c *Client) CreateUser(ctx context.Context, environmentID string, req domain.CreateEnvironmentAccountRequest) (*domain.EnvironmentAccount, error) {
	var acc domain.EnvironmentAccount
	if err := c.Post(ctx, userPath(environmentID), req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) GetUser(ctx context.Context, environmentID, accountID string) (*domain.EnvironmentAccount, error) {
	var acc domain.EnvironmentAccount
	if err := c.Get(ctx, userPath(environmentID, accountID), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) UpdateUser(ctx context.Context, environmentID, accountID string, req domain.UpdateEnvironmentAccountRequest) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID), req)
}

func (c *Client) UpdateUserEmail(ctx context.Context, environmentID, accountID, email string) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "email"), map[string]string{"email": email})
}

func (c *Client) UpdateUserPhone(ctx context.Context, environmentID, accountID, phone string) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "phone"), map[string]string{"phone": phone})
}

func (c *Client) UpdateUserUsername(ctx context.Context, environmentID, accountID, username string) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "username"), map[string]string{"username": username})
}

func (c *Client) DisableUser(ctx context.Context, environmentID, accountID string) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "disable"), nil)
}

func (c *Client) EnableUser(ctx context.Context, environmentID, accountID string) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "enable"), nil)
}

func (c *Client) DeleteUser(ctx context.Context, environmentID, accountID string) error {
	return c.Delete(ctx, userPath(environmentID, accountID), nil)
}

func (c *Client) SetUserProperty(ctx context.Context, environmentID, accountID, key string, value domain.Value) (*domain.EnvironmentAccount, error) {
	return c.patchUser(ctx, userPath(environmentID, accountID, "custom-property"), propertyBody(key, value))
}

func (c *Client) DeleteUserProperty(ctx context.Context, environmentID, accountID, key string) error {
	return c.DeleteWithBody(ctx, userPath(environmentID, accountID, "custom-property"), deletePropertyBody{CustomProperty: key}, nil)
}

func (c *Client) patchUser(ctx context.Context, path string, body any) (*domain.EnvironmentAccount, error) {
	var acc domain.EnvironmentAccount
	if err := c.Patch(ctx, path, body, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
