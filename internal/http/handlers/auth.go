package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bboard/internal/db"
	"bboard/internal/security"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	renderer
	db *db.DB
}

func NewAuthHandler(database *db.DB, sessions *security.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer: renderer{logger: logger, sessions: sessions},
		db:       database,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", &templateData{Title: "Register"})
}

// Register creates a new account and sends the user to the login page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		h.render(w, r, http.StatusBadRequest, "register.html", &templateData{
			Title:     "Register",
			FormError: "Username and password are required.",
			FormData:  map[string]string{"username": username},
		})
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		h.serverError(w, err)
		return
	}

	if _, err := h.db.CreateUser(username, hash); err != nil {
		if errors.Is(err, db.ErrUsernameTaken) {
			h.render(w, r, http.StatusBadRequest, "register.html", &templateData{
				Title:     "Register",
				FormError: "Username already exists.",
				FormData:  map[string]string{"username": username},
			})
			return
		}
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", &templateData{Title: "Login"})
}

// Login verifies the credentials and attaches the identity to the
// session. Unknown username and wrong password produce the same
// message so the response does not reveal which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.clientError(w, http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.db.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			h.loginFailed(w, r, username)
			return
		}
		h.serverError(w, err)
		return
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		h.loginFailed(w, r, username)
		return
	}

	ident := security.Identity{ID: user.ID, Username: user.Username}
	if err := h.sessions.SignIn(w, r, ident); err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, username string) {
	h.render(w, r, http.StatusUnauthorized, "login.html", &templateData{
		Title:     "Login",
		FormError: "Invalid username or password.",
		FormData:  map[string]string{"username": username},
	})
}

// Logout destroys the session and returns to the board.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
