package screen

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/apitest"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTenant string

func (s staticTenant) Get() string { return string(s) }

type fixture struct {
	remote   *apitest.Remote
	client   *apiclient.Client
	tenantID string
	envID    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	remote := apitest.NewRemote(t)
	remote.AllowAnonymous()
	tenantID, envID := remote.SeedTenant("Acme", "owner", "Passw0rd!")
	client, err := apiclient.New(remote.BaseURL(), zap.NewNop())
	require.NoError(t, err)
	return fixture{remote: remote, client: client, tenantID: tenantID, envID: envID}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "fallback"))
	assert.Equal(t, "Name is required", Message(&validate.FieldError{Field: "name", Message: "Name is required"}, "fallback"))
	assert.Equal(t, "Nope", Message(&apiclient.APIError{StatusCode: 403, Message: "Nope"}, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("dial tcp"), "fallback"))
	assert.Equal(t, NoTenantMessage, Message(ErrNoTenant, "fallback"))
}

func TestGate_RejectsConcurrentRun(t *testing.T) {
	var g Gate
	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = g.Run(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	called := false
	err := g.Run(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, called)
	assert.True(t, g.Busy())

	close(release)
	wg.Wait()
	assert.False(t, g.Busy())
	assert.NoError(t, g.Run(func() error { return nil }))
}

func TestConfirmation(t *testing.T) {
	var c Confirmation
	called := 0
	fn := func() error { called++; return nil }

	assert.ErrorIs(t, c.Confirm("a", fn), ErrNotConfirmed)

	c.Request("a")
	assert.ErrorIs(t, c.Confirm("b", fn), ErrNotConfirmed)
	c.Cancel()
	assert.ErrorIs(t, c.Confirm("a", fn), ErrNotConfirmed)

	c.Request("a")
	assert.NoError(t, c.Confirm("a", fn))
	assert.ErrorIs(t, c.Confirm("a", fn), ErrNotConfirmed)
	assert.Equal(t, 1, called)
}

func TestDashboard_Load(t *testing.T) {
	f := newFixture(t)

	v := NewDashboard(f.client, staticTenant(f.tenantID)).Load(context.Background())
	require.Equal(t, Loaded, v.Status)
	assert.Equal(t, "Acme", v.Data.Name)

	v = NewDashboard(f.client, staticTenant("")).Load(context.Background())
	assert.Equal(t, Error, v.Status)
	assert.Equal(t, NoTenantMessage, v.Message)

	v = NewDashboard(f.client, staticTenant("missing")).Load(context.Background())
	assert.Equal(t, Error, v.Status)
	assert.Equal(t, "Tenant not found", v.Message)
}

func TestDashboard_TransportFailureUsesFallback(t *testing.T) {
	client, err := apiclient.New("http://127.0.0.1:1/api/v1", zap.NewNop())
	require.NoError(t, err)

	v := NewDashboard(client, staticTenant("t-1")).Load(context.Background())
	assert.Equal(t, Error, v.Status)
	assert.Equal(t, "Failed to load tenant data", v.Message)
}

func TestEnvironmentList_LoadedAndEmpty(t *testing.T) {
	f := newFixture(t)
	list := NewEnvironmentList(f.client, staticTenant(f.tenantID))

	v := list.Load(context.Background())
	require.Equal(t, Loaded, v.Status)
	require.Len(t, v.Data, 1)
	assert.Equal(t, "default", v.Data[0].Name)

	require.NoError(t, f.client.DeleteEnvironment(context.Background(), f.tenantID, f.envID))
	v = list.Load(context.Background())
	assert.Equal(t, Empty, v.Status)
}

func TestEnvironmentForm_Validation(t *testing.T) {
	f := newFixture(t)
	form := NewEnvironmentForm(f.client, staticTenant(f.tenantID))

	out := form.Submit(context.Background(), "", EnvironmentInput{Name: "  "}, nil)
	assert.False(t, out.OK())
	assert.Equal(t, "Environment name is required", out.Message)
	assert.Empty(t, out.Redirect)

	out = form.Submit(context.Background(), "", EnvironmentInput{Name: "x"}, nil)
	assert.Equal(t, "Environment name must be at least 2 characters", out.Message)

	out = NewEnvironmentForm(f.client, staticTenant("")).Submit(context.Background(), "", EnvironmentInput{Name: "prod"}, nil)
	assert.Equal(t, "No tenant selected", out.Message)

	assert.Zero(t, f.remote.CallCount(http.MethodPost, "/tenants/"))
}

func TestEnvironmentForm_CreateRedirectsToNewEnvironment(t *testing.T) {
	f := newFixture(t)
	form := NewEnvironmentForm(f.client, staticTenant(f.tenantID))

	out := form.Submit(context.Background(), "", EnvironmentInput{Name: "staging"}, nil)
	require.True(t, out.OK(), out.Message)
	assert.Regexp(t, `^/environments/[0-9a-f-]{36}$`, out.Redirect)
}

func TestEnvironmentForm_EditWithContinuation(t *testing.T) {
	f := newFixture(t)
	form := NewEnvironmentForm(f.client, staticTenant(f.tenantID))

	var got *domain.Environment
	out := form.Submit(context.Background(), f.envID, EnvironmentInput{Name: "production"}, func(env *domain.Environment) string {
		got = env
		return "/somewhere"
	})
	require.True(t, out.OK())
	assert.Equal(t, "/somewhere", out.Redirect)
	assert.Equal(t, "production", got.Name)

	env, _ := f.remote.Environment(f.envID)
	assert.Equal(t, "production", env.Name)
}

func TestEnvironmentForm_ServerError(t *testing.T) {
	f := newFixture(t)
	f.remote.Fail(http.MethodPost, "/tenants/"+f.tenantID+"/environments", http.StatusConflict, "Environment already exists")

	out := NewEnvironmentForm(f.client, staticTenant(f.tenantID)).Submit(context.Background(), "", EnvironmentInput{Name: "dup"}, nil)
	assert.Equal(t, "Environment already exists", out.Message)
	assert.Empty(t, out.Redirect)
}

func TestEnvironmentDetail_DeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	d := NewEnvironmentDetail(f.client, staticTenant(f.tenantID))

	out := d.Delete(context.Background(), f.envID)
	assert.ErrorIs(t, out.Err, ErrNotConfirmed)

	d.RequestDelete(f.envID)
	assert.True(t, d.DeletePending(f.envID))
	d.CancelDelete()
	out = d.Delete(context.Background(), f.envID)
	assert.ErrorIs(t, out.Err, ErrNotConfirmed)
	assert.Zero(t, f.remote.CallCount(http.MethodDelete, "/tenants/"))

	d.RequestDelete(f.envID)
	out = d.Delete(context.Background(), f.envID)
	require.True(t, out.OK(), out.Message)
	assert.Equal(t, "/environments", out.Redirect)

	_, exists := f.remote.Environment(f.envID)
	assert.False(t, exists)
}

func TestEnvironmentDetail_DeleteFailureStaysPut(t *testing.T) {
	f := newFixture(t)
	d := NewEnvironmentDetail(f.client, staticTenant(f.tenantID))
	f.remote.Fail(http.MethodDelete, "/tenants/"+f.tenantID+"/environments/"+f.envID, http.StatusInternalServerError, "")

	d.RequestDelete(f.envID)
	out := d.Delete(context.Background(), f.envID)
	assert.False(t, out.OK())
	assert.Equal(t, apiclient.DefaultErrorMessage, out.Message)
	assert.Empty(t, out.Redirect)
}

func TestEnvironmentDetail_LoadAndProperties(t *testing.T) {
	f := newFixture(t)
	d := NewEnvironmentDetail(f.client, staticTenant(f.tenantID))

	out := d.SetProperty(context.Background(), f.envID, PropertyInput{Key: "tier", Value: `{"level":2}`})
	require.True(t, out.OK(), out.Message)
	assert.Equal(t, "/environments/"+f.envID, out.Redirect)

	v := d.Load(context.Background(), f.envID)
	require.Equal(t, Loaded, v.Status)
	val, ok := v.Data.CustomProperties.Get("tier")
	require.True(t, ok)
	assert.Equal(t, domain.KindObject, val.Kind())

	out = d.SetProperty(context.Background(), f.envID, PropertyInput{Key: " "})
	assert.Equal(t, "Property key is required", out.Message)

	out = d.DeleteProperty(context.Background(), f.envID, "tier")
	require.True(t, out.OK())
	v = d.Load(context.Background(), f.envID)
	assert.Equal(t, 0, v.Data.CustomProperties.Len())

	v = d.Load(context.Background(), "missing")
	assert.Equal(t, Error, v.Status)
	assert.Equal(t, "Environment not found", v.Message)
}

func TestUserForm_CreateValidation(t *testing.T) {
	f := newFixture(t)
	form := NewUserForm(f.client)

	tests := []struct {
		in   UserInput
		want string
	}{
		{UserInput{}, "Name is required"},
		{UserInput{Name: "Jo"}, "Email is required"},
		{UserInput{Name: "Jo", Email: "jo@x.io"}, "Username is required"},
		{UserInput{Name: "Jo", Email: "jo@x.io", Username: "jo"}, "Password is required"},
		{UserInput{Name: "Jo", Email: "jo@x.io", Username: "jo", Password: "short"}, "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		out := form.Submit(context.Background(), f.envID, "", tt.in, nil)
		assert.Equal(t, tt.want, out.Message)
	}
	assert.Zero(t, f.remote.CallCount(http.MethodPost, "/environments/"))
}

func TestUserForm_CreateAndEdit(t *testing.T) {
	f := newFixture(t)
	form := NewUserForm(f.client)

	var created *domain.EnvironmentAccount
	out := form.Submit(context.Background(), f.envID, "", UserInput{
		Name: "Jo", Email: "jo@x.io", Username: "jo", Password: "longenough", Phone: "+15550001111",
	}, func(u *domain.EnvironmentAccount) string {
		created = u
		return UserPath(f.envID, u.ID)
	})
	require.True(t, out.OK(), out.Message)
	require.NotNil(t, created)
	assert.Equal(t, "+15550001111", created.Phone)

	out = form.Submit(context.Background(), f.envID, created.ID, UserInput{Name: "Joanna", AvatarURL: "https://cdn.example.com/jo.png"}, nil)
	require.True(t, out.OK(), out.Message)
	assert.Equal(t, "/environments/"+f.envID, out.Redirect)

	u, _ := f.remote.User(f.envID, created.ID)
	assert.Equal(t, "Joanna", u.Name)
	assert.Equal(t, "https://cdn.example.com/jo.png", u.AvatarURL)
	assert.Equal(t, "jo@x.io", u.Email)

	out = form.Submit(context.Background(), f.envID, created.ID, UserInput{Name: ""}, nil)
	assert.Equal(t, "Name is required", out.Message)
}

func TestUserDetail_Lifecycle(t *testing.T) {
	f := newFixture(t)
	userID := f.remote.SeedUser(f.envID, "Sam", "sam")
	d := NewUserDetail(f.client)
	ctx := context.Background()

	out := d.Disable(ctx, f.envID, userID)
	require.True(t, out.OK())
	assert.Equal(t, UserPath(f.envID, userID), out.Redirect)
	assert.True(t, d.Load(ctx, f.envID, userID).Data.Disabled)

	require.True(t, d.Enable(ctx, f.envID, userID).OK())
	assert.False(t, d.Load(ctx, f.envID, userID).Data.Disabled)

	require.True(t, d.ChangeIdentifier(ctx, f.envID, userID, "email", "sam@new.io").OK())
	assert.Equal(t, "sam@new.io", d.Load(ctx, f.envID, userID).Data.Email)
	assert.Equal(t, "Phone is required", d.ChangeIdentifier(ctx, f.envID, userID, "phone", " ").Message)

	require.True(t, d.SetProperty(ctx, f.envID, userID, PropertyInput{Key: "plan", Value: "pro"}).OK())
	v, _ := d.Load(ctx, f.envID, userID).Data.CustomProperties.Get("plan")
	s, _ := v.Str()
	assert.Equal(t, "pro", s)

	d.RequestDelete(userID)
	out = d.Delete(ctx, f.envID, userID)
	require.True(t, out.OK())
	assert.Equal(t, "/environments/"+f.envID+"/users", out.Redirect)
	assert.Equal(t, Error, d.Load(ctx, f.envID, userID).Status)
}

type fakeSessions struct {
	sessions []domain.Session
	err      error
	revoked  int
}

func (f *fakeSessions) Sessions(context.Context) ([]domain.Session, error) { return f.sessions, f.err }
func (f *fakeSessions) LogoutAll(context.Context) (int, error)             { return f.revoked, f.err }

func TestSettings(t *testing.T) {
	f := newFixture(t)
	sess := &fakeSessions{sessions: []domain.Session{{ID: "s-1"}}, revoked: 2}
	s := NewSettings(f.client, sess, staticTenant(f.tenantID), zap.NewNop())
	ctx := context.Background()

	v := s.Load(ctx)
	require.Equal(t, Loaded, v.Status)
	assert.Equal(t, "Acme", v.Data.Tenant.Name)
	assert.Len(t, v.Data.Sessions, 1)

	assert.Equal(t, "Tenant name must be at least 2 characters", s.Rename(ctx, TenantNameInput{Name: "A"}).Message)

	out := s.Rename(ctx, TenantNameInput{Name: "Acme Corp"})
	require.True(t, out.OK())
	assert.Equal(t, "/settings", out.Redirect)
	tenant, _ := f.remote.Tenant(f.tenantID)
	assert.Equal(t, "Acme Corp", tenant.Name)

	require.True(t, s.SetProperty(ctx, PropertyInput{Key: "region", Value: "eu"}).OK())
	require.True(t, s.DeleteProperty(ctx, "region").OK())

	n, out := s.LogoutAll(ctx)
	require.True(t, out.OK())
	assert.Equal(t, 2, n)
	assert.Equal(t, "/login", out.Redirect)
}

func TestSettings_RenameTransportFailure(t *testing.T) {
	client, err := apiclient.New("http://127.0.0.1:1/api/v1", zap.NewNop())
	require.NoError(t, err)
	s := NewSettings(client, &fakeSessions{}, staticTenant("t-1"), zap.NewNop())

	out := s.Rename(context.Background(), TenantNameInput{Name: "Acme"})
	assert.Equal(t, "Failed to update tenant name", out.Message)
}

func TestSettings_SessionsFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	s := NewSettings(f.client, &fakeSessions{err: errors.New("boom")}, staticTenant(f.tenantID), zap.NewNop())

	v := s.Load(context.Background())
	require.Equal(t, Loaded, v.Status)
	assert.Nil(t, v.Data.Sessions)
	assert.Equal(t, "Failed to load sessions", v.Data.SessionsError)
}

func TestTenantAccounts_Load(t *testing.T) {
	f := newFixture(t)
	v := NewTenantAccounts(f.client, staticTenant(f.tenantID)).Load(context.Background())
	require.Equal(t, Loaded, v.Status)
	require.Len(t, v.Data, 1)
	assert.Equal(t, "owner", v.Data[0].Username)
}
