package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/models"
)

const (
	fetchFailedMessage  = "Failed to fetch notes"
	saveFailedMessage   = "Failed to save note"
	deleteFailedMessage = "Failed to delete note"
	expiredMessage      = "Your session has expired. Please log in again."
)

// backend returns an API client authorized with the browser's token
func (s *Server) backend(c *gin.Context) (*client.Client, *auth.Session) {
	session, _ := GetSession(c)
	return s.api.WithTokenSource(session), session
}

// expireOnUnauthorized ends the browser session when the backend rejects its
// token. It reports whether the request was redirected to login.
func (s *Server) expireOnUnauthorized(c *gin.Context, session *auth.Session, err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return false
	}

	if clearErr := session.Clear(); clearErr != nil {
		s.logger.Error().Err(clearErr).Msg("Failed to clear expired session")
	}
	s.setFlash(c, expiredMessage)
	c.Redirect(http.StatusSeeOther, models.LoginPath)
	return true
}

func (s *Server) userDashboard(c *gin.Context) {
	api, session := s.backend(c)
	search := strings.TrimSpace(c.Query("search"))

	p := page{
		Title:       "My Notes",
		Path:        models.UserDashboardPath,
		SearchParam: "search",
		Search:      search,
	}

	notes, err := api.ListNotes(c.Request.Context(), search)
	if err != nil {
		if s.expireOnUnauthorized(c, session, err) {
			return
		}
		s.logger.Warn().Err(err).Msg("Failed to fetch notes")
		p.Error = fetchFailedMessage
		s.render(c, http.StatusBadGateway, "dashboard.html", p)
		return
	}

	p.Notes = notes
	s.render(c, http.StatusOK, "dashboard.html", p)
}

func (s *Server) adminDashboard(c *gin.Context) {
	api, session := s.backend(c)
	q := strings.TrimSpace(c.Query("q"))

	p := page{
		Title:       "All Notes",
		Admin:       true,
		Path:        models.AdminDashboardPath,
		SearchParam: "q",
		Search:      q,
	}

	notes, err := api.ListAllNotes(c.Request.Context(), q)
	if err != nil {
		if s.expireOnUnauthorized(c, session, err) {
			return
		}
		s.logger.Warn().Err(err).Msg("Failed to fetch all notes")
		p.Error = fetchFailedMessage
		s.render(c, http.StatusBadGateway, "dashboard.html", p)
		return
	}

	p.Notes = notes
	s.render(c, http.StatusOK, "dashboard.html", p)
}

// backToDashboard redirects to the caller's role home after a mutation
func backToDashboard(c *gin.Context, session *auth.Session) {
	role, _ := session.Role()
	c.Redirect(http.StatusSeeOther, models.HomePath(models.Role(role)))
}

// bindNote reads and validates the note form
func (s *Server) bindNote(c *gin.Context) (client.NoteInput, error) {
	var input client.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		return input, err
	}
	input.Title = strings.TrimSpace(input.Title)
	return input, auth.Validate(s.validator, input)
}

func (s *Server) createNote(c *gin.Context) {
	api, session := s.backend(c)

	input, err := s.bindNote(c)
	if err != nil {
		s.setFlash(c, auth.Message(err, saveFailedMessage))
		backToDashboard(c, session)
		return
	}

	if err := api.CreateNote(c.Request.Context(), input); err != nil {
		if s.expireOnUnauthorized(c, session, err) {
			return
		}
		s.logger.Warn().Err(err).Msg("Failed to create note")
		s.setFlash(c, saveFailedMessage)
		backToDashboard(c, session)
		return
	}

	s.setFlash(c, "Note created")
	backToDashboard(c, session)
}

func (s *Server) editNote(c *gin.Context) {
	api, session := s.backend(c)
	id := client.NoteID(c.Param("id"))

	input, err := s.bindNote(c)
	if err != nil {
		s.setFlash(c, auth.Message(err, saveFailedMessage))
		backToDashboard(c, session)
		return
	}

	if err := api.EditNote(c.Request.Context(), id, input); err != nil {
		if s.expireOnUnauthorized(c, session, err) {
			return
		}
		s.logger.Warn().Err(err).Str("note_id", id.String()).Msg("Failed to edit note")
		s.setFlash(c, saveFailedMessage)
		backToDashboard(c, session)
		return
	}

	s.setFlash(c, "Note updated")
	backToDashboard(c, session)
}

func (s *Server) deleteNote(c *gin.Context) {
	api, session := s.backend(c)
	id := client.NoteID(c.Param("id"))

	if err := api.DeleteNote(c.Request.Context(), id); err != nil {
		if s.expireOnUnauthorized(c, session, err) {
			return
		}
		s.logger.Warn().Err(err).Str("note_id", id.String()).Msg("Failed to delete note")
		s.setFlash(c, deleteFailedMessage)
		backToDashboard(c, session)
		return
	}

	s.setFlash(c, "Note deleted")
	backToDashboard(c, session)
}
