package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionManager_SignInAndCurrent(t *testing.T) {
	m := NewSessionManager(testSecret)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.SignIn(w, r, Identity{ID: 7, Username: "alice"}))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	ident := m.Current(next)
	require.NotNil(t, ident)
	assert.Equal(t, 7, ident.ID)
	assert.Equal(t, "alice", ident.Username)
}

func TestSessionManager_CurrentWithoutCookie(t *testing.T) {
	m := NewSessionManager(testSecret)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, m.Current(r))
}

func TestSessionManager_SignOut(t *testing.T) {
	m := NewSessionManager(testSecret)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.SignIn(w, r, Identity{ID: 7, Username: "alice"}))

	out := httptest.NewRecorder()
	signedIn := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range w.Result().Cookies() {
		signedIn.AddCookie(c)
	}
	require.NoError(t, m.SignOut(out, signedIn))

	// The sign-out response must expire the cookie.
	var expired bool
	for _, c := range out.Result().Cookies() {
		if c.Name == sessionName && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired)
}
