package middleware

import (
	"github.com/deppfellow/item-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the opaque session token cookie.
	SessionCookieName = "session_id"

	// SessionIDKey stores the session token in Echo context.
	SessionIDKey = "session_id"
)

// SessionMiddleware reads the opaque session cookie so logs and traces can
// be correlated by session. It never rejects a request; endpoints that
// require the cookie validate it themselves.
type SessionMiddleware struct {
	server *server.Server
}

func NewSessionMiddleware(s *server.Server) *SessionMiddleware {
	return &SessionMiddleware{
		server: s,
	}
}

// ReadSession stores the session_id cookie value, if any, under SessionIDKey.
func (sm *SessionMiddleware) ReadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err == nil && cookie.Value != "" {
			c.Set(SessionIDKey, cookie.Value)
		}
		return next(c)
	}
}

// GetSessionID reads the session token stored by ReadSession.
func GetSessionID(c echo.Context) string {
	if sessionID, ok := c.Get(SessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
