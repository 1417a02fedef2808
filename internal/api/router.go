package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/api/handlers"
	mw "github.com/Harshitk-cp/sump-console/internal/api/middleware"
	"github.com/Harshitk-cp/sump-console/internal/buildconfig"
	"github.com/Harshitk-cp/sump-console/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger is the health check of the optional identity database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	CookieSecure   bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// App holds the router and the background work it owns.
type App struct {
	Router     *chi.Mux
	Workspaces *service.WorkspaceRegistry
	limiter    *mw.RateLimiter
	startTime  time.Time
	counters   mw.Counters
	stop       chan struct{}
	wg         sync.WaitGroup
}

// NewApp wires the console. db may be nil when tenant ids are kept on disk
// or in memory.
func NewApp(cfg Config, workspaces *service.WorkspaceRegistry, db Pinger, logger *zap.Logger) *App {
	r := chi.NewRouter()
	app := &App{
		Router:     r,
		Workspaces: workspaces,
		limiter:    mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		startTime:  time.Now(),
		stop:       make(chan struct{}),
	}
	console := handlers.NewConsole(logger)
	metricsCollector := mw.NewMetricsCollector(&app.counters)
	limited := mw.RateLimit(app.limiter)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler)

	workspace := mw.Workspace(workspaces, cfg.CookieSecure, logger)

	// Throttled by client IP before a workspace is looked up.
	r.Group(func(r chi.Router) {
		r.Use(limited)
		r.Use(workspace)

		r.Post("/login", console.Login)
		r.Post("/setup/submit", console.SetupSubmit)
	})

	r.Group(func(r chi.Router) {
		r.Use(workspace)

		r.Get("/setup", console.SetupPage)
		r.Post("/setup/next", console.SetupNext)
		r.Post("/setup/back", console.SetupBack)
	})

	r.Group(func(r chi.Router) {
		r.Use(workspace)
		r.Use(mw.LeaveSetup)

		r.Get("/", console.Root)
		r.Get("/login", console.LoginPage)
		r.Post("/logout", console.Logout)

		// Signed-in pages
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession)

			r.Get("/dashboard", console.Dashboard)
			r.Get("/accounts", console.Accounts)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", console.Settings)
				r.Post("/name", console.RenameTenant)
				r.Post("/properties", console.TenantProperties)
				r.Post("/logout-all", console.LogoutAll)
			})

			r.Route("/environments", func(r chi.Router) {
				r.Get("/", console.Environments)
				r.Get("/new", console.NewEnvironment)
				r.Post("/new", console.SaveEnvironment)

				r.Route("/{envID}", func(r chi.Router) {
					r.Get("/", console.Environment)
					r.Get("/edit", console.EditEnvironment)
					r.Post("/edit", console.SaveEnvironment)
					r.Get("/delete", console.ConfirmDeleteEnvironment)
					r.Post("/delete", console.DeleteEnvironment)
					r.Post("/properties", console.EnvironmentProperties)

					r.Route("/users", func(r chi.Router) {
						r.Get("/", console.Users)
						r.Get("/new", console.NewUser)
						r.Post("/new", console.SaveUser)

						r.Route("/{userID}", func(r chi.Router) {
							r.Get("/", console.User)
							r.Get("/edit", console.EditUser)
							r.Post("/edit", console.SaveUser)
							r.Post("/disable", console.DisableUser)
							r.Post("/enable", console.EnableUser)
							r.Post("/identifier", console.ChangeUserIdentifier)
							r.Post("/properties", console.UserProperties)
							r.Get("/delete", console.ConfirmDeleteUser)
							r.Post("/delete", console.DeleteUser)
						})
					})
				})
			})
		})
	})

	return app
}

// Start runs background upkeep until Stop.
func (app *App) Start() {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.limiter.Run(10*time.Minute, app.stop)
	}()
}

// Stop ends background upkeep and closes every workspace.
func (app *App) Stop() {
	close(app.stop)
	app.wg.Wait()
	app.Workspaces.Close()
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		writeJSON(w, http.StatusOK, map[string]any{
			"uptime_seconds":       uptime.Seconds(),
			"uptime_human":         uptime.Round(time.Second).String(),
			"request_count":        app.counters.Requests.Load(),
			"error_count":          app.counters.Errors.Load(),
			"rate_limited_count":   app.counters.RateLimited.Load(),
			"workspaces":           app.Workspaces.Len(),
			"rate_limited_clients": app.limiter.Len(),
			"goroutines":           runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
