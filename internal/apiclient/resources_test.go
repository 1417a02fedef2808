package apiclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   string
}

func recordingClient(t *testing.T, status int, response string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.WriteHeader(status)
		if response != "" {
			_, _ = io.WriteString(w, response)
		}
	}))
	return c, &calls
}

func TestCreateTenant_Payload(t *testing.T) {
	c, calls := recordingClient(t, http.StatusCreated,
		`{"tenantId":"t-1","accountId":"a-1","environmentId":"e-1","session":{"id":"s-1"}}`)

	resp, err := c.CreateTenant(context.Background(), domain.CreateTenantRequest{
		Tenant:      domain.NewTenant{Name: "Acme"},
		Account:     domain.NewOwnerAccount{Name: "Jo", Email: "jo@acme.io", Username: "jo", Password: "Passw0rd!"},
		Environment: &domain.CreateEnvironmentRequest{Name: "default"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.TenantID)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/v1/tenants", call.path)
	assert.JSONEq(t, `{
		"tenant":{"name":"Acme"},
		"account":{"name":"Jo","email":"jo@acme.io","username":"jo","password":"Passw0rd!"},
		"environment":{"name":"default"}
	}`, call.body)
}

func TestCustomPropertyEndpoints(t *testing.T) {
	c, calls := recordingClient(t, http.StatusOK, `{"id":"e-1","name":"prod","customProperties":{"tier":"gold"}}`)
	ctx := context.Background()

	env, err := c.SetEnvironmentProperty(ctx, "t-1", "e-1", "tier", domain.StringValue("gold"))
	require.NoError(t, err)
	v, ok := env.CustomProperties.Get("tier")
	require.True(t, ok)
	assert.Equal(t, `"gold"`, v.String())

	require.NoError(t, c.DeleteTenantProperty(ctx, "t-1", "tier"))
	require.NoError(t, c.DeleteUserProperty(ctx, "e-1", "u-1", "plan"))

	require.Len(t, *calls, 3)
	assert.Equal(t, recorded{http.MethodPatch, "/api/v1/tenants/t-1/environments/e-1/custom-property", `{"tier":"gold"}`}, (*calls)[0])
	assert.Equal(t, http.MethodDelete, (*calls)[1].method)
	assert.JSONEq(t, `{"customProperty":"tier"}`, (*calls)[1].body)
	assert.Equal(t, "/api/v1/environments/e-1/accounts/u-1/custom-property", (*calls)[2].path)
}

func TestUserSubResources(t *testing.T) {
	c, calls := recordingClient(t, http.StatusOK, `{"id":"u-1","environmentId":"e-1","disabled":true}`)
	ctx := context.Background()

	acc, err := c.DisableUser(ctx, "e-1", "u-1")
	require.NoError(t, err)
	assert.True(t, acc.Disabled)

	_, err = c.UpdateUserEmail(ctx, "e-1", "u-1", "new@example.com")
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, recorded{http.MethodPatch, "/api/v1/environments/e-1/accounts/u-1/disable", ""}, (*calls)[0])
	assert.Equal(t, "/api/v1/environments/e-1/accounts/u-1/email", (*calls)[1].path)
	assert.JSONEq(t, `{"email":"new@example.com"}`, (*calls)[1].body)
}

func TestLogoutAll(t *testing.T) {
	c, calls := recordingClient(t, http.StatusOK, `{"revoked":3}`)

	resp, err := c.LogoutAll(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Revoked)
	assert.Equal(t, "/api/v1/auth/tenants/t-1/logout-all", (*calls)[0].path)
}

func TestFindTenantAccount_SendsIdentificationBody(t *testing.T) {
	c, calls := recordingClient(t, http.StatusOK, `{"id":"a-1","username":"jo","roles":[{"role":"owner","target":"tenant","targetId":"t-1"}]}`)

	acc, err := c.FindTenantAccount(context.Background(), "t-1", domain.Identification{Username: "jo"})
	require.NoError(t, err)
	require.Len(t, acc.Roles, 1)
	assert.Equal(t, domain.RoleOwner, acc.Roles[0].Role)

	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.JSONEq(t, `{"username":"jo"}`, (*calls)[0].body)
}
