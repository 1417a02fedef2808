package middleware

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/sump-console/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	workspaceContextKey contextKey = "workspace"
	holderContextKey    contextKey = "workspace_holder"
)

// DeviceCookie identifies a browser across requests. Its value is a UUID.
const DeviceCookie = "sump_console_device"

const deviceCookieMaxAge = 365 * 24 * 60 * 60

func WorkspaceFromContext(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*service.Workspace)
	return ws
}

// WithWorkspace stores ws in ctx. Handlers under test use it to skip the
// cookie round trip.
func WithWorkspace(ctx context.Context, ws *service.Workspace) context.Context {
	return context.WithValue(ctx, workspaceContextKey, ws)
}

type workspaceHolder struct {
	ws *service.Workspace
}

func (h *workspaceHolder) set(ws *service.Workspace) { h.ws = ws }

func (h *workspaceHolder) get() *service.Workspace { return h.ws }

func withHolder(ctx context.Context, h *workspaceHolder) context.Context {
	return context.WithValue(ctx, holderContextKey, h)
}

func holderFrom(ctx context.Context) *workspaceHolder {
	h, _ := ctx.Value(holderContextKey).(*workspaceHolder)
	return h
}

// Workspace attaches the browser's workspace to the request, issuing a new
// device cookie when the browser has none or sends a malformed one.
func Workspace(registry *service.WorkspaceRegistry, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := ""
			if c, err := r.Cookie(DeviceCookie); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					deviceID = id.String()
				}
			}
			if deviceID == "" {
				deviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DeviceCookie,
					Value:    deviceID,
					Path:     "/",
					MaxAge:   deviceCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ws, err := registry.Get(r.Context(), deviceID)
			if err != nil {
				logger.Error("failed to open workspace", zap.String("device_id", deviceID), zap.Error(err))
				http.Error(w, "workspace unavailable", http.StatusInternalServerError)
				return
			}
			if h := holderFrom(r.Context()); h != nil {
				h.set(ws)
			}
			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// RequireSession lets a request through only when a tenant is selected and
// its session resolves as authenticated; everyone else goes to /login.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := WorkspaceFromContext(r.Context())
		if ws == nil || !ws.Identity.Has() || !ws.Resolve(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LeaveSetup drops any unfinished onboarding draft. It wraps every console
// page outside /setup.
func LeaveSetup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ws := WorkspaceFromContext(r.Context()); ws != nil {
			ws.DiscardWizard()
		}
		next.ServeHTTP(w, r)
	})
}
