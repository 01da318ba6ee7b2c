package security

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "bboard_session"
	sessionAge  = 24 * 60 * 60 // seconds
)

// Identity is the authenticated user attached to a session. A nil
// *Identity means the request is unauthenticated.
type Identity struct {
	ID       int
	Username string
}

// SessionManager stores the optional identity in a cookie session.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager builds a cookie-backed session manager signed with
// the given secret.
func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// Current returns the identity attached to the request, or nil when the
// caller is unauthenticated or the session cookie is invalid.
func (m *SessionManager) Current(r *http.Request) *Identity {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}

	id, ok := session.Values["user_id"].(int)
	if !ok {
		return nil
	}
	username, ok := session.Values["username"].(string)
	if !ok {
		return nil
	}

	return &Identity{ID: id, Username: username}
}

// SignIn attaches the identity to the session.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, ident Identity) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values["user_id"] = ident.ID
	session.Values["username"] = ident.Username
	return session.Save(r, w)
}

// SignOut destroys the session.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "user_id")
	delete(session.Values, "username")
	return session.Save(r, w)
}
