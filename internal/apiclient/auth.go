package apiclient

import (
	"context"

	"github.com/Harshitk-cp/sump-console/internal/domain"
)

func (c *Client) Login(ctx context.Context, tenantID string, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.Post(ctx, pathOf("auth", "tenants", tenantID, "login"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, tenantID string) error {
	return c.Post(ctx, pathOf("auth", "tenants", tenantID, "logout"), nil, nil)
}

func (c *Client) LogoutAll(ctx context.Context, tenantID string) (*domain.LogoutAllResponse, error) {
	var resp domain.LogoutAllResponse
	if err := c.Post(ctx, pathOf("auth", "tenants", tenantID, "logout-all"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetSession(ctx context.Context, tenantID string) (*domain.Session, error) {
	var s domain.Session
	if err := c.Get(ctx, pathOf("auth", "tenants", tenantID, "session"), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) GetSessions(ctx context.Context, tenantID string) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := c.Get(ctx, pathOf("auth", "tenants", tenantID, "sessions"), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) ForgotPassword(ctx context.Context, tenantID string, req domain.ForgotPasswordRequest) (*domain.ForgotPasswordResponse, error) {
	var resp domain.ForgotPasswordResponse
	if err := c.Post(ctx, pathOf("auth", "tenants", tenantID, "forgot-password"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, tenantID string, req domain.ResetPasswordRequest) (*domain.ResetPasswordResponse, error) {
	var resp domain.ResetPasswordResponse
	if err := c.Post(ctx, pathOf("auth", "tenants", tenantID, "reset-password"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
