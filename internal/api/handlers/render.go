package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/api/middleware"
	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/service"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{
	"login", "setup", "dashboard", "environments", "environment", "environment_form",
	"confirm", "users", "user", "user_form", "settings", "accounts",
}

type propertyRow struct {
	Key   string
	Value string
}

type propertyForm struct {
	Action     string
	Properties domain.Properties
}

var funcs = template.FuncMap{
	"props": func(p domain.Properties) []propertyRow {
		rows := make([]propertyRow, 0, p.Len())
		p.Each(func(key string, v domain.Value) bool {
			rows = append(rows, propertyRow{Key: key, Value: v.String()})
			return true
		})
		return rows
	},
	"propertyForm": func(action string, p domain.Properties) propertyForm {
		return propertyForm{Action: action, Properties: p}
	},
	"when": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("2006-01-02 15:04 UTC")
	},
}

func parsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// page is what every template renders with.
type page struct {
	Title         string
	Flash         string
	Error         string
	TenantID      string
	Authenticated bool
	Data          any
}

// Console serves the HTML pages. Per-browser state lives in the request's
// workspace; Console itself is stateless.
type Console struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

func NewConsole(logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{pages: parsePages(), logger: logger}
}

func workspace(r *http.Request) *service.Workspace {
	return middleware.WorkspaceFromContext(r.Context())
}

func (c *Console) render(w http.ResponseWriter, r *http.Request, status int, name, title, errMsg string, data any) {
	ws := workspace(r)
	p := page{Title: title, Error: errMsg, Data: data}
	if ws != nil {
		p.Flash = ws.TakeFlash()
		p.TenantID = ws.Identity.Get()
		p.Authenticated = ws.Session.IsAuthenticated()
	}

	var buf bytes.Buffer
	if err := c.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		c.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// flashRedirect redirects and shows msg on the next page.
func flashRedirect(w http.ResponseWriter, r *http.Request, to, msg string) {
	if ws := workspace(r); ws != nil && msg != "" {
		ws.Flash(msg)
	}
	redirect(w, r, to)
}

// localPath accepts only same-site absolute paths for post-submit
// continuations.
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}

func formValue(r *http.Request, key string) string {
	return r.PostFormValue(key)
}
