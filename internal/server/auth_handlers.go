package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/models"
)

// page is the data every template renders from
type page struct {
	Title string
	Role  string
	Flash string
	Error string
	Form  any

	// Dashboards
	Admin       bool
	Path        string
	SearchParam string
	Search      string
	Notes       []client.Note
}

// render writes a template, filling in the session role and pending flash
func (s *Server) render(c *gin.Context, status int, name string, p page) {
	if session, ok := GetSession(c); ok && session.IsAuthenticated() {
		p.Role, _ = session.Role()
	}
	p.Flash = s.takeFlash(c)
	c.HTML(status, name, p)
}

// failureStatus picks the response status for a rejected form
func failureStatus(err error) int {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

// home sends the browser to the dashboard for its role
func (s *Server) home(c *gin.Context) {
	session, _ := GetSession(c)

	decision := auth.Guard(session, "")
	if decision.Outcome != auth.Allow {
		c.Redirect(http.StatusFound, decision.Location)
		return
	}

	role, _ := session.Role()
	c.Redirect(http.StatusFound, models.HomePath(models.Role(role)))
}

// sessionInfo reports the browser session state as JSON
func (s *Server) sessionInfo(c *gin.Context) {
	session, _ := GetSession(c)
	role, _ := session.Role()

	c.JSON(http.StatusOK, gin.H{
		"authenticated": session.IsAuthenticated(),
		"role":          role,
		"home":          models.HomePath(models.Role(role)),
	})
}

func (s *Server) loginPage(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", page{Title: "Log in", Form: auth.Credentials{}})
}

func (s *Server) login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		s.render(c, http.StatusBadRequest, "login.html", page{Title: "Log in", Error: auth.LoginFailedMessage, Form: creds})
		return
	}

	sessionID, session := s.newSession()
	exchange := auth.NewExchange(s.api, s.logger)

	dest, err := exchange.Login(c.Request.Context(), session, creds)
	if err != nil {
		creds.Password = ""
		s.render(c, failureStatus(err), "login.html", page{
			Title: "Log in",
			Error: auth.Message(err, auth.LoginFailedMessage),
			Form:  creds,
		})
		return
	}

	s.adoptSession(c, sessionID, session)
	c.Redirect(http.StatusSeeOther, dest)
}

func (s *Server) signupPage(c *gin.Context) {
	s.render(c, http.StatusOK, "signup.html", page{
		Title: "Sign up",
		Form:  auth.Registration{Role: string(models.RoleUser)},
	})
}

func (s *Server) signup(c *gin.Context) {
	var reg auth.Registration
	if err := c.ShouldBind(&reg); err != nil {
		s.render(c, http.StatusBadRequest, "signup.html", page{Title: "Sign up", Error: auth.SignupFailedMessage, Form: reg})
		return
	}

	sessionID, session := s.newSession()
	exchange := auth.NewExchange(s.api, s.logger)

	dest, err := exchange.Signup(c.Request.Context(), session, reg)
	if err != nil {
		reg.Password = ""
		s.render(c, failureStatus(err), "signup.html", page{
			Title: "Sign up",
			Error: auth.Message(err, auth.SignupFailedMessage),
			Form:  reg,
		})
		return
	}

	s.adoptSession(c, sessionID, session)
	c.Redirect(http.StatusSeeOther, dest)
}

func (s *Server) logout(c *gin.Context) {
	session, _ := GetSession(c)

	if err := session.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear session")
		c.String(http.StatusInternalServerError, "Failed to log out")
		return
	}

	s.setFlash(c, "You have been logged out")
	c.Redirect(http.StatusSeeOther, models.LoginPath)
}
