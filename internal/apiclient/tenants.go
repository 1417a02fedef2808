package apiclient

import (
	"context"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

// CreateTenant provisions tenant, owner account and environment atomically.
func (c *Client) CreateTenant(ctx context.Context, req domain.CreateTenantRequest) (*domain.CreateTenantResponse, error) {
	var resp domain.CreateTenantResponse
	if err := c.Post(ctx, "/tenants", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := c.Get(ctx, pathOf("tenants", tenantID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTenant(ctx context.Context, tenantID string, req domain.UpdateTenantRequest) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := c.Patch(ctx, pathOf("tenants", tenantID), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTenant(ctx context.Context, tenantID string) error {
	return c.Delete(ctx, pathOf("tenants", tenantID), nil)
}

func (c *Client) SetTenantProperty(ctx context.Context, tenantID, key string, value domain.Value) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := c.Patch(ctx, pathOf("tenants", tenantID, "custom-property"), propertyBody(key, value), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTenantProperty(ctx context.Context, tenantID, key string) error {
	return c.DeleteWithBody(ctx, pathOf("tenants", tenantID, "custom-property"), deletePropertyBody{CustomProperty: key}, nil)
}
