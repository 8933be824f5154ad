package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/user/limerick-go/apperror"
	"github.com/user/limerick-go/logging"
	"github.com/user/limerick-go/session"
	"github.com/user/limerick-go/upload"
	"github.com/user/limerick-go/users"
)

// Handlers holds the dependencies of the handler layer. Services are injected
// via the constructor; there is no ambient state.
type Handlers struct {
	users            *users.Service
	sessions         *session.Manager
	files            *upload.Store
	acceptedFilename string
	log              logging.Logger
	templates        map[string]*template.Template
}

// NewHandlers creates the handler layer and parses the page templates.
func NewHandlers(userService *users.Service, sessions *session.Manager, files *upload.Store, acceptedFilename string, log logging.Logger) (*Handlers, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		users:            userService,
		sessions:         sessions,
		files:            files,
		acceptedFilename: acceptedFilename,
		log:              log,
		templates:        templates,
	}, nil
}

// loadSession reads the session from the request and logs its state, matching
// the source system's per-request session debug logging.
func (h *Handlers) loadSession(r *http.Request) *session.Session {
	sess := h.sessions.Load(r)
	h.log.Debug(r.Context(), "session state", "username", sess.Username, "flashes", len(sess.Flashes))
	return sess
}

// requireUser is the session gate for profile and download. It returns the
// session and true when a user is logged in; otherwise it flashes the given
// message, redirects to the login page, and returns false. This single
// boolean check is the system's only access control.
func (h *Handlers) requireUser(w http.ResponseWriter, r *http.Request, message string) (*session.Session, bool) {
	sess := h.loadSession(r)
	if !sess.LoggedIn() {
		h.log.Warn(r.Context(), "session has no user", "path", r.URL.Path)
		sess.AddFlash(message, "error")
		h.redirect(w, r, sess, "/login")
		return nil, false
	}
	return sess, true
}

// HandleHome renders the home page. No side effects beyond flash consumption.
func (h *Handlers) HandleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)
		h.render(w, r, sess, "index", pageData{Title: "Home"})
	}
}

// HandleRegisterForm renders the registration form.
func (h *Handlers) HandleRegisterForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)
		h.render(w, r, sess, "register", pageData{Title: "Register"})
	}
}

// HandleRegister processes a registration submission. The insert is
// unconditional; on success a session is established for the new username and
// the client is redirected to the profile page. On failure the form is
// re-rendered (200, not a redirect) with an error flash.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)

		if err := r.ParseForm(); err != nil {
			h.log.Error(r.Context(), "failed to parse form", "operation", "register", "error", err)
			flashError(sess, err)
			h.render(w, r, sess, "register", pageData{Title: "Register"})
			return
		}

		req := users.RegisterRequest{
			Username:  r.PostFormValue("username"),
			Password:  r.PostFormValue("password"),
			FirstName: r.PostFormValue("firstname"),
			LastName:  r.PostFormValue("lastname"),
			Email:     r.PostFormValue("email"),
		}

		user, err := h.users.Register(r.Context(), req)
		if err != nil {
			h.log.Error(r.Context(), "registration failed", "operation", "register", "error", err)
			flashError(sess, err)
			h.render(w, r, sess, "register", pageData{Title: "Register"})
			return
		}

		h.log.Info(r.Context(), "user registered", "username", user.Username)
		sess.Username = user.Username
		sess.ClearFlashes()
		sess.AddFlash("Registration successful!", "success")
		h.redirect(w, r, sess, "/profile")
	}
}

// HandleLoginForm renders the login form.
func (h *Handlers) HandleLoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)
		h.render(w, r, sess, "login", pageData{Title: "Login"})
	}
}

// HandleLogin processes a login submission against the stored credentials.
// A non-match re-renders the form with an "Invalid username or password"
// flash and establishes no session.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)

		if err := r.ParseForm(); err != nil {
			h.log.Error(r.Context(), "failed to parse form", "operation", "login", "error", err)
			flashError(sess, err)
			h.render(w, r, sess, "login", pageData{Title: "Login"})
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		user, err := h.users.Authenticate(r.Context(), username, password)
		if err != nil {
			h.log.Error(r.Context(), "login failed", "operation", "login", "username", username, "error", err)
			flashError(sess, err)
			h.render(w, r, sess, "login", pageData{Title: "Login"})
			return
		}

		h.log.Info(r.Context(), "user logged in", "username", user.Username)
		sess.Username = user.Username
		sess.ClearFlashes()
		sess.AddFlash("Login successful!", "success")
		h.redirect(w, r, sess, "/profile")
	}
}

// HandleProfile renders the logged-in user's profile. A session whose user
// row has disappeared (the session outlived the record) redirects back to
// login with a "User not found" flash.
func (h *Handlers) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.requireUser(w, r, "Please log in to access your profile")
		if !ok {
			return
		}

		user, err := h.users.GetProfile(r.Context(), sess.Username)
		if err != nil {
			h.log.Error(r.Context(), "failed to load profile", "operation", "profile", "username", sess.Username, "error", err)
			flashError(sess, err)
			h.redirect(w, r, sess, "/login")
			return
		}

		h.render(w, r, sess, "profile", pageData{Title: "Profile", User: user})
	}
}

// HandleProfileUpload processes a file upload on the profile page. The file
// is accepted only when its original name exactly equals the configured
// literal; any other name leaves the stored filename and word count unchanged
// and renders the profile with an "Invalid file" flash. On acceptance the
// file is persisted under its sanitized name, its word count computed and
// recorded, and the user row re-fetched so the rendered view reflects the
// update.
func (h *Handlers) HandleProfileUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.requireUser(w, r, "Please log in to access your profile")
		if !ok {
			return
		}

		user, err := h.users.GetProfile(r.Context(), sess.Username)
		if err != nil {
			h.log.Error(r.Context(), "failed to load profile", "operation", "profile", "username", sess.Username, "error", err)
			flashError(sess, err)
			h.redirect(w, r, sess, "/login")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				// No file part attached (or not a multipart body at all):
				// fall through to rendering the profile unchanged, without
				// a flash.
				h.render(w, r, sess, "profile", pageData{Title: "Profile", User: user})
				return
			}
			h.log.Error(r.Context(), "failed to read upload", "operation", "profile", "error", err)
			flashError(sess, apperror.NewIOError("failed to read uploaded file", err))
			h.redirect(w, r, sess, "/login")
			return
		}
		defer file.Close()

		if header.Filename != h.acceptedFilename {
			h.log.Warn(r.Context(), "rejected upload", "operation", "profile", "filename", header.Filename)
			sess.AddFlash(fmt.Sprintf("Invalid file. Please upload %s", h.acceptedFilename), "error")
			h.render(w, r, sess, "profile", pageData{Title: "Profile", User: user})
			return
		}

		updatedUser, err := h.storeUpload(r, sess.Username, header.Filename, file)
		if err != nil {
			h.log.Error(r.Context(), "upload failed", "operation", "profile", "username", sess.Username, "error", err)
			flashError(sess, err)
			h.redirect(w, r, sess, "/login")
			return
		}

		sess.AddFlash("File uploaded successfully!", "success")
		h.render(w, r, sess, "profile", pageData{Title: "Profile", User: updatedUser})
	}
}

// storeUpload persists an accepted file, computes its word count, records
// both on the user row, and re-fetches the row.
func (h *Handlers) storeUpload(r *http.Request, username, filename string, file io.Reader) (*users.User, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, apperror.NewIOError("failed to read uploaded file", err)
	}

	sanitized, err := h.files.Save(filename, content)
	if err != nil {
		return nil, err
	}

	wordCount, err := h.files.CountWords(sanitized)
	if err != nil {
		return nil, err
	}

	if err := h.users.RecordUpload(r.Context(), username, sanitized, wordCount); err != nil {
		return nil, err
	}

	h.log.Info(r.Context(), "file uploaded", "username", username, "filename", sanitized, "word_count", wordCount)
	return h.users.GetProfile(r.Context(), username)
}

// HandleDownload streams a stored file as an attachment. Any logged-in user
// can download any stored file by name; ownership is not checked. A missing
// file or read failure redirects to the profile page with an error flash.
func (h *Handlers) HandleDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.requireUser(w, r, "Please log in to download files")
		if !ok {
			return
		}

		filename := chi.URLParam(r, "filename")
		f, err := h.files.Open(filename)
		if err != nil {
			h.log.Error(r.Context(), "download failed", "operation", "download", "filename", filename, "error", err)
			sess.AddFlash(fmt.Sprintf("An error occurred while downloading the file: %v", err), "error")
			h.redirect(w, r, sess, "/profile")
			return
		}
		defer f.Close()

		if err := h.sessions.Save(w, sess); err != nil {
			h.log.Error(r.Context(), "failed to save session", "operation", "download", "error", err)
		}

		name := filepath.Base(f.Name())
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

		if _, err := io.Copy(w, f); err != nil {
			// Headers are already out; all that is left is logging.
			h.log.Error(r.Context(), "failed to stream file", "operation", "download", "filename", name, "error", err)
		}
	}
}

// HandleLogout destroys the session unconditionally. Logging out without a
// session is not an error.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.loadSession(r)
		sess.Clear()
		h.log.Info(r.Context(), "user logged out")
		sess.AddFlash("You have been logged out", "info")
		h.redirect(w, r, sess, "/login")
	}
}
