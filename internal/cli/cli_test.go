package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harshitk-cp/sump-console/internal/apitest"
	"github.com/Harshitk-cp/sump-console/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerPassword = "Passw0rd!"

type harness struct {
	t      *testing.T
	remote *apitest.Remote
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, remote: apitest.NewRemote(t), dir: t.TempDir()}
}

// run executes one consolectl invocation with stdin and returns stdout and
// stderr joined.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(h.remote.BaseURL(), strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--config-dir", h.dir, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String() + errOut.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

// signIn seeds a tenant and logs its owner in.
func (h *harness) signIn() (tenantID, envID string) {
	h.t.Helper()
	tenantID, envID = h.remote.SeedTenant("Acme", "jodie", ownerPassword)
	h.mustRun("login", "jodie@example.com", "--password", ownerPassword, "--tenant", tenantID)
	return tenantID, envID
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func TestTenant_UseShowClear(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("tenant", "show")
	assert.Contains(t, out, "No tenant selected")

	out = h.mustRun("tenant", "use", "t-42")
	assert.Contains(t, out, "Selected tenant t-42")

	stored, err := identity.NewFileStorage(h.dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t-42", stored)

	out = h.mustRun("tenant", "show")
	assert.Contains(t, out, "t-42")
	assert.Contains(t, out, "unauthenticated")

	h.mustRun("tenant", "clear")
	out = h.mustRun("tenant", "show")
	assert.Contains(t, out, "No tenant selected")
}

func TestLogin_SessionSurvivesBetweenRuns(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.signIn()

	_, err := os.Stat(filepath.Join(h.dir, cookieFile))
	require.NoError(t, err)

	out := h.mustRun("whoami")
	assert.Contains(t, out, tenantID)
	assert.Contains(t, out, "authenticated")
	assert.NotContains(t, out, "unauthenticated")

	out = h.mustRun("tenant", "show")
	assert.Contains(t, out, "Acme")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.remote.SeedTenant("Acme", "jodie", ownerPassword)
	h.mustRun("tenant", "use", tenantID)

	out, err := h.run(ownerPassword+"\n", "login", "jodie")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Signed in to tenant "+tenantID)
}

func TestLogin_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "login", "jodie", "--password", ownerPassword)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tenant selected")
	assert.Zero(t, h.remote.CallCount(http.MethodPost, "/auth"))

	tenantID, _ := h.remote.SeedTenant("Acme", "jodie", ownerPassword)
	_, err = h.run("", "login", "jodie", "--password", "wrong-password", "--tenant", tenantID)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out := h.mustRun("tenant", "show")
	assert.Contains(t, out, "No tenant selected")
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.signIn()

	h.mustRun("logout")
	assert.Equal(t, 1, h.remote.CallCount(http.MethodPost, "/auth/tenants/"+tenantID+"/logout"))

	out := h.mustRun("whoami")
	assert.Contains(t, out, tenantID)
	assert.Contains(t, out, "unauthenticated")

	h.signIn()
	h.mustRun("logout", "--forget")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "unauthenticated")
	assert.NotContains(t, out, tenantID)
}

func TestCommandsRequireSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "env", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tenant selected")

	h.mustRun("tenant", "use", "t-1")
	_, err = h.run("", "env", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
	assert.Zero(t, h.remote.CallCount(http.MethodGet, "/tenants"))
}

func TestSetup_FromFlags(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("setup",
		"--tenant-name", "Acme",
		"--name", "Jo Doe",
		"--email", "jo@acme.io",
		"--username", "jodoe",
		"--password", ownerPassword,
		"--environment", "production")
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "Signed in as the owner account")

	tenantID := lastWord(strings.Split(out, " created")[0])
	tenant, ok := h.remote.Tenant(tenantID)
	require.True(t, ok)
	assert.Equal(t, "Acme", tenant.Name)
	require.Len(t, tenant.Environments, 1)
	assert.Equal(t, "production", tenant.Environments[0].Name)

	out = h.mustRun("env", "list")
	assert.Contains(t, out, "production")
}

func TestSetup_Prompts(t *testing.T) {
	h := newHarness(t)

	stdin := strings.Join([]string{"Acme", "Jo Doe", "jo@acme.io", "jodoe", ownerPassword, ownerPassword}, "\n") + "\n"
	out, err := h.run(stdin, "setup")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Tenant name: ")
	assert.Contains(t, out, "Confirm password: ")
	assert.Equal(t, 1, h.remote.CallCount(http.MethodPost, "/tenants"))

	out = h.mustRun("env", "list")
	assert.Contains(t, out, "default")
}

func TestSetup_ValidationStopsBeforeTheAPI(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "setup", "--tenant-name", "A")
	require.Error(t, err)

	stdin := strings.Join([]string{"Jo Doe", "jo@acme.io", "jodoe", ownerPassword, "different"}, "\n") + "\n"
	_, err = h.run(stdin, "setup", "--tenant-name", "Acme")
	require.Error(t, err)

	assert.Zero(t, h.remote.CallCount(http.MethodPost, "/tenants"))
}

func TestSetup_RemoteErrorIsShown(t *testing.T) {
	h := newHarness(t)
	h.remote.SeedTenant("Other", "jodoe", ownerPassword)

	_, err := h.run("", "setup",
		"--tenant-name", "Acme",
		"--name", "Jo Doe",
		"--email", "jo@acme.io",
		"--username", "jodoe",
		"--password", ownerPassword)
	require.Error(t, err)
	assert.Equal(t, "Username already taken", err.Error())

	out := h.mustRun("tenant", "show")
	assert.Contains(t, out, "No tenant selected")
}

func TestEnv_Lifecycle(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.signIn()

	out := h.mustRun("env", "create", "staging")
	envID := lastWord(out)
	env, ok := h.remote.Environment(envID)
	require.True(t, ok)
	assert.Equal(t, "staging", env.Name)
	assert.Equal(t, tenantID, env.TenantID)

	h.mustRun("env", "rename", envID, "qa")
	env, _ = h.remote.Environment(envID)
	assert.Equal(t, "qa", env.Name)

	h.mustRun("env", "property", "set", envID, "tier", "gold")
	out = h.mustRun("env", "show", envID)
	assert.Contains(t, out, "qa")
	assert.Contains(t, out, "tier")
	assert.Contains(t, out, "gold")

	h.mustRun("env", "property", "delete", envID, "tier")
	env, _ = h.remote.Environment(envID)
	_, ok = env.CustomProperties.Get("tier")
	assert.False(t, ok)

	out = h.mustRun("env", "list")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "qa")
}

func TestEnv_CreateValidatesName(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	_, err := h.run("", "env", "create", " ")
	require.Error(t, err)
	assert.Zero(t, h.remote.CallCount(http.MethodPost, "/tenants"))
}

func TestEnv_DeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	_, envID := h.signIn()

	out, err := h.run("n\n", "env", "delete", envID)
	require.NoError(t, err)
	assert.Contains(t, out, "cannot be undone")
	assert.Contains(t, out, "Cancelled")
	_, ok := h.remote.Environment(envID)
	assert.True(t, ok)

	out, err = h.run("y\n", "env", "delete", envID)
	require.NoError(t, err, out)
	_, ok = h.remote.Environment(envID)
	assert.False(t, ok)

	_, err = h.run("", "env", "show", envID)
	require.Error(t, err)
}

func TestUser_Lifecycle(t *testing.T) {
	h := newHarness(t)
	_, envID := h.signIn()

	out := h.mustRun("user", "create", envID,
		"--name", "Sam", "--email", "sam@example.com", "--username", "sam", "--password", "password123")
	userID := lastWord(out)
	u, ok := h.remote.User(envID, userID)
	require.True(t, ok)
	assert.Equal(t, "sam", u.Username)

	h.mustRun("user", "edit", envID, userID, "--avatar-url", "https://example.com/sam.png")
	u, _ = h.remote.User(envID, userID)
	assert.Equal(t, "Sam", u.Name)
	assert.Equal(t, "https://example.com/sam.png", u.AvatarURL)

	h.mustRun("user", "disable", envID, userID)
	u, _ = h.remote.User(envID, userID)
	assert.True(t, u.Disabled)
	out = h.mustRun("user", "show", envID, userID)
	assert.Contains(t, out, "disabled")

	h.mustRun("user", "enable", envID, userID)
	u, _ = h.remote.User(envID, userID)
	assert.False(t, u.Disabled)

	h.mustRun("user", "identifier", envID, userID, "email", "samuel@example.com")
	u, _ = h.remote.User(envID, userID)
	assert.Equal(t, "samuel@example.com", u.Email)

	h.mustRun("user", "property", "set", envID, userID, "plan", "pro")
	u, _ = h.remote.User(envID, userID)
	_, ok = u.CustomProperties.Get("plan")
	assert.True(t, ok)

	h.mustRun("user", "delete", envID, userID, "--yes")
	_, ok = h.remote.User(envID, userID)
	assert.False(t, ok)
}

func TestUser_CreateValidates(t *testing.T) {
	h := newHarness(t)
	_, envID := h.signIn()

	_, err := h.run("", "user", "create", envID, "--name", "Sam", "--email", "sam@example.com", "--username", "sam", "--password", "short")
	require.Error(t, err)

	_, err = h.run("", "user", "identifier", envID, "u-1", "nickname", "sam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown identifier nickname")

	assert.Zero(t, h.remote.CallCount(http.MethodPost, "/environments"))
	assert.Zero(t, h.remote.CallCount(http.MethodPatch, "/environments"))
}

func TestSessions_ListAndLogoutAll(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.signIn()

	h.mustRun("sessions")
	assert.Equal(t, 1, h.remote.CallCount(http.MethodGet, "/auth/tenants/"+tenantID+"/sessions"))

	out, err := h.run("y\n", "sessions", "--logout-all")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Signed out of")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "unauthenticated")
}

func TestTenant_RenameAndProperties(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.signIn()

	h.mustRun("tenant", "rename", "Acme Corp")
	h.mustRun("tenant", "property", "set", "seats", "25")

	tenant, _ := h.remote.Tenant(tenantID)
	assert.Equal(t, "Acme Corp", tenant.Name)
	v, ok := tenant.CustomProperties.Get("seats")
	require.True(t, ok)
	n, isNumber := v.Number()
	assert.True(t, isNumber)
	assert.Equal(t, float64(25), n)

	_, err := h.run("", "tenant", "rename", "A")
	require.Error(t, err)
}

func TestPassword_ForgotAndReset(t *testing.T) {
	h := newHarness(t)
	tenantID, _ := h.remote.SeedTenant("Acme", "jodie", ownerPassword)

	_, err := h.run("", "password", "forgot", "jodie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No tenant selected")

	out := h.mustRun("password", "forgot", "jodie@example.com", "--tenant", tenantID)
	assert.Contains(t, out, "reset link")
	token := h.remote.ResetToken("jodie")
	require.NotEmpty(t, token)

	_, err = h.run("", "password", "reset", token, "--tenant", tenantID, "--new-password", "short")
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters", err.Error())

	out, err = h.run("N3wPassw0rd\n", "password", "reset", token, "--tenant", tenantID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Password has been reset")

	_, err = h.run("", "login", "jodie", "--password", ownerPassword, "--tenant", tenantID)
	require.Error(t, err)
	h.mustRun("login", "jodie", "--password", "N3wPassw0rd", "--tenant", tenantID)
}
