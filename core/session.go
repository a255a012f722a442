package core

import (
	"net/http"
	"strings"
)

// Session proves an authenticated browser session. The token is the
// opaque credential issued by the remote API; nothing client-side
// inspects it or tracks its expiry.
type Session struct {
	Token string
}

// Sessions is the explicit session store shared by the route guard, the
// handlers, and the navigation shell. It is a codec over an HttpOnly
// cookie with no max age, so the token lives exactly as long as the
// browser session.
type Sessions struct {
	cookieName string
	secure     bool
}

func NewSessions(secure bool) *Sessions {
	return &Sessions{
		cookieName: "kickoff_session",
		secure:     secure,
	}
}

// Read returns the current session, or false when no token is present.
func (s *Sessions) Read(r *http.Request) (Session, bool) {
	if r == nil {
		return Session{}, false
	}

	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie == nil {
		return Session{}, false
	}

	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return Session{}, false
	}

	return Session{Token: token}, true
}

// Write stores the token for the remainder of the browser session.
func (s *Sessions) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    strings.TrimSpace(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the token on logout.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
