package ui

import (
	"io/fs"
	"net/http"
	"time"

	"glycorisk/domain/core"
	"glycorisk/domain/session"
	"glycorisk/internal/errors"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery(), s.requestLogger())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded static files")
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// sessionMiddleware attaches the browser's session, starting a fresh one
// when the cookie is missing, malformed or expired.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, s.loadSession(c))
		c.Next()
	}
}

func (s *Server) loadSession(c *gin.Context) *session.State {
	if raw, err := c.Cookie(s.cookieName); err == nil {
		if id, err := core.ParseID(raw); err == nil {
			state, err := s.sessions.Load(c.Request.Context(), id)
			if err == nil {
				s.setSessionCookie(c, state.ID)
				return state
			}
			if errors.GetCode(err) != errors.CodeNotFound {
				s.logger.Warn("[Session] load %s failed: %v", id, err)
			}
		}
	}

	state := session.New(core.NewID())
	if err := s.sessions.Save(c.Request.Context(), state); err != nil {
		s.logger.Warn("[Session] save %s failed: %v", state.ID, err)
	}
	s.setSessionCookie(c, state.ID)
	return state
}

// setSessionCookie issues the session cookie with a full max-age; it runs on
// every request so the cookie expires cookieTTL after the last visit.
func (s *Server) setSessionCookie(c *gin.Context, id core.ID) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, id.String(), int(s.cookieTTL.Seconds()), "/", "", s.secureCookie, true)
}

func currentSession(c *gin.Context) *session.State {
	return c.MustGet(sessionContextKey).(*session.State)
}

func (s *Server) saveSession(c *gin.Context, state *session.State) bool {
	if err := s.sessions.Save(c.Request.Context(), state); err != nil {
		s.logger.Error("[Session] save %s failed: %v", state.ID, err)
		c.String(http.StatusInternalServerError, "failed to save session")
		return false
	}
	return true
}
