package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/models"
)

const (
	sessionCookie = "notes_sid"
	sessionKey    = "session"
	sessionIDKey  = "session_id"
	flashKey      = "flash"
)

func setSession(c *gin.Context, sessionID string, session *auth.Session) {
	c.Set(sessionIDKey, sessionID)
	c.Set(sessionKey, session)
}

// GetSession returns the browser's auth session set by SessionMiddleware
func GetSession(c *gin.Context) (*auth.Session, bool) {
	session, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}

	s, ok := session.(*auth.Session)
	return s, ok
}

// SessionMiddleware attaches the browser's session, issuing a new session
// cookie when the request has none or an unparseable one
func (s *Server) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || !validSessionID(sessionID) {
			sessionID = models.NewSessionID()
			s.setSessionCookie(c, sessionID)
		}

		setSession(c, sessionID, s.sessions.Session(sessionID))
		c.Next()
	}
}

func (s *Server) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, int(s.config.Sessions.MaxAge.Seconds()), "/", "", s.config.HTTP.CookieSecure, true)
}

// newSession returns an auth session under a fresh, not yet issued ID
func (s *Server) newSession() (string, *auth.Session) {
	sessionID := models.NewSessionID()
	return sessionID, s.sessions.Session(sessionID)
}

// adoptSession makes sessionID the browser's session and drops the one the
// request arrived with, so a pre-login cookie never carries a token.
func (s *Server) adoptSession(c *gin.Context, sessionID string, session *auth.Session) {
	if previous := c.GetString(sessionIDKey); previous != "" && previous != sessionID {
		if err := s.sessions.Drop(c.Request.Context(), previous); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drop previous session")
		}
	}

	s.setSessionCookie(c, sessionID)
	setSession(c, sessionID, session)
}

func validSessionID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// GuardMiddleware runs the auth guard for a protected route and redirects
// when it does not allow the request. An empty role only requires a token.
func GuardMiddleware(log zerolog.Logger, required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists {
			c.Redirect(http.StatusFound, models.LoginPath)
			c.Abort()
			return
		}

		decision := auth.Guard(session, required)
		if decision.Outcome == auth.Allow {
			c.Next()
			return
		}

		log.Debug().
			Str("path", c.Request.URL.Path).
			Str("required_role", string(required)).
			Str("outcome", decision.Outcome.String()).
			Str("location", decision.Location).
			Msg("Guard redirect")

		status := http.StatusFound
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			status = http.StatusSeeOther
		}
		c.Redirect(status, decision.Location)
		c.Abort()
	}
}

// setFlash stores a one-time message shown on the next rendered page
func (s *Server) setFlash(c *gin.Context, message string) {
	sessionID := c.GetString(sessionIDKey)
	if sessionID == "" {
		return
	}
	if err := s.sessions.Scope(sessionID).Set(map[string]string{flashKey: message}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to store flash message")
	}
}

// takeFlash returns and removes the pending flash message
func (s *Server) takeFlash(c *gin.Context) string {
	sessionID := c.GetString(sessionIDKey)
	if sessionID == "" {
		return ""
	}

	store := s.sessions.Scope(sessionID)
	message, ok, err := store.Get(flashKey)
	if err != nil || !ok {
		return ""
	}
	if err := store.Delete(flashKey); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear flash message")
	}
	return message
}
