package domain

import "time"

type RoleName string

const (
	RoleOwner RoleName = "owner"
	RoleAdmin RoleName = "admin"
	RoleUser  RoleName = "user"
)

type RoleTarget string

const (
	RoleTargetTenant      RoleTarget = "tenant"
	RoleTargetEnvironment RoleTarget = "environment"
)

type Role struct {
	Role     RoleName   `json:"role"`
	Target   RoleTarget `json:"target"`
	TargetID string     `json:"targetId"`
}

// TenantAccount is an administrative account scoped to a tenant.
type TenantAccount struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"emailVerified"`
	Phone         string     `json:"phone,omitempty"`
	PhoneVerified bool       `json:"phoneVerified"`
	Name          string     `json:"name"`
	Username      string     `json:"username"`
	AvatarURL     string     `json:"avatarUrl,omitempty"`
	TenantID      string     `json:"tenantId"`
	Roles         []Role     `json:"roles"`
	Disabled      bool       `json:"disabled"`
	DisabledAt    *time.Time `json:"disabledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// EnvironmentAccount is an end-user account living inside one environment.
type EnvironmentAccount struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailVerified    bool       `json:"emailVerified"`
	Phone            string     `json:"phone,omitempty"`
	PhoneVerified    bool       `json:"phoneVerified"`
	Name             string     `json:"name"`
	Username         string     `json:"username"`
	AvatarURL        string     `json:"avatarUrl,omitempty"`
	EnvironmentID    string     `json:"environmentId"`
	CustomProperties Properties `json:"customProperties"`
	Disabled         bool       `json:"disabled"`
	DisabledAt       *time.Time `json:"disabledAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type CreateEnvironmentAccountRequest struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Username         string      `json:"username"`
	Password         string      `json:"password"`
	Phone            string      `json:"phone,omitempty"`
	AvatarURL        string      `json:"avatarUrl,omitempty"`
	CustomProperties *Properties `json:"customProperties,omitempty"`
}

type UpdateEnvironmentAccountRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type CreateTenantAccountRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Roles     []Role `json:"roles,omitempty"`
}

type CreateTenantAccountResponse struct {
	ID string `json:"id"`
}

type UpdateTenantAccountRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Identification looks an account up by one user-defined handle.
type Identification struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
}
