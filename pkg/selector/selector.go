// Package selector serves the interactive database chooser used when
// automatic tenant resolution is ambiguous. The tenant middleware
// redirects undecided requests here with the original URL in the "next"
// parameter; a successful choice is persisted to the session and the user
// is sent back where they came from.
package selector

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Discoverer enumerates the candidate backing databases.
type Discoverer interface {
	Databases(ctx context.Context) ([]string, error)
}

// Sessions reads and writes the persisted database selection.
type Sessions interface {
	Selection(r *http.Request) (string, bool)
	SetSelection(w http.ResponseWriter, r *http.Request, alias string) error
}

// Handler implements GET/POST for the selector endpoint.
type Handler struct {
	disc     Discoverer
	sessions Sessions
	pattern  string
	logger   *slog.Logger
	tmpl     *template.Template
}

// Option configures the handler.
type Option func(*Handler)

// WithPattern marks pattern-based routing active, which makes manual
// selection irrelevant: both verbs redirect to the application root.
func WithPattern(pattern string) Option {
	return func(h *Handler) {
		h.pattern = pattern
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a selector handler.
func New(disc Discoverer, sessions Sessions, opts ...Option) *Handler {
	h := &Handler{
		disc:     disc,
		sessions: sessions,
		logger:   slog.Default(),
		tmpl:     template.Must(template.New("selector").Parse(formTemplate)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the chi router for mounting, e.g. at /select-db/.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Post("/", h.choose)
	return r
}

type formData struct {
	Databases []string
	Current   string
	Next      string
	Invalid   bool
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	if h.pattern != "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	databases, err := h.disc.Databases(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "database discovery failed on selector", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if len(databases) == 0 {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	next := sanitizeNext(r.URL.Query().Get("next"))

	// A single candidate needs no user input: select it silently.
	if len(databases) == 1 {
		if err := h.sessions.SetSelection(w, r, databases[0]); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to persist database selection",
				"alias", databases[0], "error", err)
		}
		http.Redirect(w, r, next, http.StatusFound)
		return
	}

	current, _ := h.sessions.Selection(r)
	h.render(w, r, http.StatusOK, formData{
		Databases: databases,
		Current:   current,
		Next:      next,
	})
}

func (h *Handler) choose(w http.ResponseWriter, r *http.Request) {
	if h.pattern != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	alias := r.PostFormValue("database")
	next := sanitizeNext(r.PostFormValue("next"))

	databases, err := h.disc.Databases(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "database discovery failed on selector", "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if !slices.Contains(databases, alias) {
		current, _ := h.sessions.Selection(r)
		h.render(w, r, http.StatusUnprocessableEntity, formData{
			Databases: databases,
			Current:   current,
			Next:      next,
			Invalid:   true,
		})
		return
	}

	if err := h.sessions.SetSelection(w, r, alias); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to persist database selection",
			"alias", alias, "error", err)
		http.Error(w, "failed to save selection", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render selector form", "error", err)
	}
}

// sanitizeNext confines the redirect target to a local path so the
// selector cannot be used as an open redirect.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	return next
}

const formTemplate = `<!DOCTYPE html>
<html>
<head><title>Select database</title></head>
<body>
<h1>Select database</h1>
{{if .Invalid}}<p class="error">Please choose one of the listed databases.</p>{{end}}
<form method="post" action="">
  <input type="hidden" name="next" value="{{.Next}}">
  <select name="database">
  {{range .Databases}}<option value="{{.}}"{{if eq . $.Current}} selected{{end}}>{{.}}</option>
  {{end}}</select>
  <button type="submit">Select</button>
</form>
</body>
</html>
`
