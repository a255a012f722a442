package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "kickoff-session"

// RequireSession guards a route group: with a token present the request
// proceeds and the session rides the gin context; without one the
// browser is sent back to the login page. The check happens once per
// navigation; a token the API later rejects does not re-trigger it.
func RequireSession(sessions *Sessions) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		session, ok := sessions.Read(gctx.Request)
		if !ok {
			gctx.Redirect(http.StatusFound, "/")
			gctx.Abort()

			return
		}

		gctx.Set(sessionContextKey, session)
		gctx.Next()
	}
}

// SessionFrom returns the session the guard attached to the request.
func SessionFrom(gctx *gin.Context) (Session, bool) {
	value, ok := gctx.Get(sessionContextKey)
	if !ok {
		return Session{}, false
	}

	session, ok := value.(Session)

	return session, ok
}
