package apiclient

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

func tenantAccountPath(tenantID string, rest ...string) string {
	return pathOf(append([]string{"tenants", tenantID, "accounts"}, rest...)...)
}

func (c *Client) CreateTenantAccount(ctx context.Context, tenantID string, req domain.CreateTenantAccountRequest) (*domain.CreateTenantAccountResponse, error) {
	var resp domain.CreateTenantAccountResponse
	if err := c.Post(ctx, tenantAccountPath(tenantID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListTenantAccounts(ctx context.Context, tenantID string) ([]domain.TenantAccount, error) {
	var accounts []domain.TenantAccount
	if err := c.Get(ctx, tenantAccountPath(tenantID), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) GetTenantAccount(ctx context.Context, tenantID, accountID string) (*domain.TenantAccount, error) {
	var acc domain.TenantAccount
	if err := c.Get(ctx, tenantAccountPath(tenantID, accountID), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindTenantAccount looks an account up by email, phone or username. The
// remote API takes the identification as a GET body.
func (c *Client) FindTenantAccount(ctx context.Context, tenantID string, ident domain.Identification) (*domain.TenantAccount, error) {
	var acc domain.TenantAccount
	path := tenantAccountPath(tenantID, "user-defined-identification")
	if err := c.Do(ctx, http.MethodGet, path, ident, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) UpdateTenantAccount(ctx context.Context, tenantID, accountID string, req domain.UpdateTenantAccountRequest) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID), req)
}

func (c *Client) UpdateTenantAccountEmail(ctx context.Context, tenantID, accountID, email string) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID, "email"), map[string]string{"email": email})
}

func (c *Client) UpdateTenantAccountPhone(ctx context.Context, tenantID, accountID, phone string) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID, "phone"), map[string]string{"phone": phone})
}

func (c *Client) UpdateTenantAccountUsername(ctx context.Context, tenantID, accountID, username string) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID, "username"), map[string]string{"username": username})
}

func (c *Client) DisableTenantAccount(ctx context.Context, tenantID, accountID string) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID, "disable"), nil)
}

func (c *Client) EnableTenantAccount(ctx context.Context, tenantID, accountID string) (*domain.TenantAccount, error) {
	return c.patchTenantAccount(ctx, tenantAccountPath(tenantID, accountID, "enable"), nil)
}

func (c *Client) DeleteTenantAccount(ctx context.Context, tenantID, accountID string) error {
	return c.Delete(ctx, tenantAccountPath(tenantID, accountID), nil)
}

func (c *Client) patchTenantAccount(ctx context.Context, path string, body any) (*domain.TenantAccount, error) {
	var acc domain.TenantAccount
	if err := c.Patch(ctx, path, body, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
