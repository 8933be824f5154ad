// Package web is the handler layer: it orchestrates the session manager, the
// user service and the upload store for each request and renders the HTML
// pages. Every failure is caught at this boundary and converted into a flash
// message plus a redirect or re-render; nothing propagates to a generic
// platform error page under normal conditions.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/user/limerick-go/apperror"
	"github.com/user/limerick-go/session"
	"github.com/user/limerick-go/users"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the data passed to every rendered page.
type pageData struct {
	Title    string
	LoggedIn bool
	Flashes  []session.Flash
	User     *users.User
}

// parseTemplates parses each page template together with the shared layout.
// Pages are parsed separately because each one defines its own "content"
// block.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{"index", "register", "login", "profile"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}

// render consumes the session's queued flashes, saves the session (so the
// flashes are displayed exactly once and the expiry window is renewed), and
// writes the page. The template is executed into a buffer first so a render
// failure cannot leave a half-written response.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, sess *session.Session, page string, data pageData) {
	data.LoggedIn = sess.LoggedIn()
	data.Flashes = sess.ConsumeFlashes()

	if err := h.sessions.Save(w, sess); err != nil {
		h.log.Error(r.Context(), "failed to save session", "operation", page, "error", err)
	}

	tmpl, ok := h.templates[page]
	if !ok {
		h.log.Error(r.Context(), "unknown template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.Error(r.Context(), "failed to render template", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// redirect saves the session (carrying any queued flashes to the next page)
// and issues a 302 to the given path.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, sess *session.Session, path string) {
	if err := h.sessions.Save(w, sess); err != nil {
		h.log.Error(r.Context(), "failed to save session", "operation", "redirect", "error", err)
	}
	http.Redirect(w, r, path, http.StatusFound)
}

// flashError converts an error into the user-visible flash text. Persistence
// failures keep the original's "Database error occurred" phrasing with the
// raw error appended; anything else becomes a generic error flash.
func flashError(sess *session.Session, err error) {
	if appErr, ok := apperror.FromError(err); ok {
		switch appErr.Type {
		case apperror.PersistenceError:
			sess.AddFlash(appErr.Error(), "error")
			return
		case apperror.NotFoundError, apperror.ValidationError:
			sess.AddFlash(appErr.Message, "error")
			return
		}
	}
	sess.AddFlash(fmt.Sprintf("An error occurred: %v", err), "error")
}
