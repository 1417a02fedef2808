package domain

import "time"

type TenantEnvironmentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Tenant struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name"`
	CustomProperties Properties                 `json:"customProperties"`
	Environments     []TenantEnvironmentSummary `json:"environments,omitempty"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

type NewTenant struct {
	Name             string      `json:"name"`
	CustomProperties *Properties `json:"customProperties,omitempty"`
}

type NewOwnerAccount struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CreateTenantRequest provisions a tenant, its owner account and optionally
// a first environment in one call.
type CreateTenantRequest struct {
	Tenant      NewTenant                 `json:"tenant"`
	Account     NewOwnerAccount           `json:"account"`
	Environment *CreateEnvironmentRequest `json:"environment,omitempty"`
}

type CreateTenantResponse struct {
	TenantID      string  `json:"tenantId"`
	AccountID     string  `json:"accountId"`
	EnvironmentID string  `json:"environmentId"`
	Session       Session `json:"session"`
}

type UpdateTenantRequest struct {
	Name string `json:"name,omitempty"`
}
