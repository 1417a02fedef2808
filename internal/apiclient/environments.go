package apiclient

import (
	"context"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

func (c *Client) CreateEnvironment(ctx context.Context, tenantID string, req domain.CreateEnvironmentRequest) (*domain.Environment, error) {
	var env domain.Environment
	if err := c.Post(ctx, pathOf("tenants", tenantID, "environments"), req, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) GetEnvironment(ctx context.Context, tenantID, environmentID string) (*domain.Environment, error) {
	var env domain.Environment
	if err := c.Get(ctx, pathOf("tenants", tenantID, "environments", environmentID), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) UpdateEnvironment(ctx context.Context, tenantID, environmentID string, req domain.UpdateEnvironmentRequest) (*domain.Environment, error) {
	var env domain.Environment
	if err := c.Patch(ctx, pathOf("tenants", tenantID, "environments", environmentID), req, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) DeleteEnvironment(ctx context.Context, tenantID, environmentID string) error {
	return c.Delete(ctx, pathOf("tenants", tenantID, "environments", environmentID), nil)
}

func (c *Client) SetEnvironmentProperty(ctx context.Context, tenantID, environmentID, key string, value domain.Value) (*domain.Environment, error) {
	var env domain.Environment
	path := pathOf("tenants", tenantID, "environments", environmentID, "custom-property")
	if err := c.Patch(ctx, path, propertyBody(key, value), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Client) DeleteEnvironmentProperty(ctx context.Context, tenantID, environmentID, key string) error {
	path := pathOf("tenants", tenantID, "environments", environmentID, "custom-property")
	return c.DeleteWithBody(ctx, path, deletePropertyBody{CustomProperty: key}, nil)
}
