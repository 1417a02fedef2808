package domain

import "context"

// IdentityStorage is the durable backing of the tenant identity store. Load
// returns "" with a nil error when nothing has been stored yet.
type IdentityStorage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, tenantID string) error
	Remove(ctx context.Context) error
}

type AuthAPI interface {
	Login(ctx context.Context, tenantID string, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, tenantID string) error
	LogoutAll(ctx context.Context, tenantID string) (*LogoutAllResponse, error)
	GetSession(ctx context.Context, tenantID string) (*Session, error)
	GetSessions(ctx context.Context, tenantID string) ([]Session, error)
	ForgotPassword(ctx context.Context, tenantID string, req ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, tenantID string, req ResetPasswordRequest) (*ResetPasswordResponse, error)
}

type TenantAPI interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (*CreateTenantResponse, error)
	GetTenant(ctx context.Context, tenantID string) (*Tenant, error)
	UpdateTenant(ctx context.Context, tenantID string, req UpdateTenantRequest) (*Tenant, error)
	DeleteTenant(ctx context.Context, tenantID string) error
	SetTenantProperty(ctx context.Context, tenantID, key string, value Value) (*Tenant, error)
	DeleteTenantProperty(ctx context.Context, tenantID, key string) error
}

type TenantAccountAPI interface {
	CreateTenantAccount(ctx context.Context, tenantID string, req CreateTenantAccountRequest) (*CreateTenantAccountResponse, error)
	ListTenantAccounts(ctx context.Context, tenantID string) ([]TenantAccount, error)
	GetTenantAccount(ctx context.Context, tenantID, accountID string) (*TenantAccount, error)
	FindTenantAccount(ctx context.Context, tenantID string, ident Identification) (*TenantAccount, error)
	UpdateTenantAccount(ctx context.Context, tenantID, accountID string, req UpdateTenantAccountRequest) (*TenantAccount, error)
	UpdateTenantAccountEmail(ctx context.Context, tenantID, accountID, email string) (*TenantAccount, error)
	UpdateTenantAccountPhone(ctx context.Context, tenantID, accountID, phone string) (*TenantAccount, error)
	UpdateTenantAccountUsername(ctx context.Context, tenantID, accountID, username string) (*TenantAccount, error)
	DisableTenantAccount(ctx context.Context, tenantID, accountID string) (*TenantAccount, error)
	EnableTenantAccount(ctx context.Context, tenantID, accountID string) (*TenantAccount, error)
	DeleteTenantAccount(ctx context.Context, tenantID, accountID string) error
}

type EnvironmentAPI interface {
	CreateEnvironment(ctx context.Context, tenantID string, req CreateEnvironmentRequest) (*Environment, error)
	GetEnvironment(ctx context.Context, tenantID, environmentID string) (*Environment, error)
	UpdateEnvironment(ctx context.Context, tenantID, environmentID string, req UpdateEnvironmentRequest) (*Environment, error)
	DeleteEnvironment(ctx context.Context, tenantID, environmentID string) error
	SetEnvironmentProperty(ctx context.Context, tenantID, environmentID, key string, value Value) (*Environment, error)
	DeleteEnvironmentProperty(ctx context.Context, tenantID, environmentID, key string) error
}

// UserAPI manages environment accounts ("users").
type UserAPI interface {
	CreateUser(ctx context.Context, environmentID string, req CreateEnvironmentAccountRequest) (*EnvironmentAccount, error)
	GetUser(ctx context.Context, environmentID, accountID string) (*EnvironmentAccount, error)
	UpdateUser(ctx context.Context, environmentID, accountID string, req UpdateEnvironmentAccountRequest) (*EnvironmentAccount, error)
	UpdateUserEmail(ctx context.Context, environmentID, accountID, email string) (*EnvironmentAccount, error)
	UpdateUserPhone(ctx context.Context, environmentID, accountID, phone string) (*EnvironmentAccount, error)
	UpdateUserUsername(ctx context.Context, environmentID, accountID, username string) (*EnvironmentAccount, error)
	DisableUser(ctx context.Context, environmentID, accountID string) (*EnvironmentAccount, error)
	EnableUser(ctx context.Context, environmentID, accountID string) (*EnvironmentAccount, error)
	DeleteUser(ctx context.Context, environmentID, accountID string) error
	SetUserProperty(ctx context.Context, environmentID, accountID, key string, value Value) (*EnvironmentAccount, error)
	DeleteUserProperty(ctx context.Context, environmentID, accountID, key string) error
}

// ConsoleAPI is everything the console consumes from the remote API.
type ConsoleAPI interface {
	AuthAPI
	TenantAPI
	TenantAccountAPI
	EnvironmentAPI
	UserAPI
}
