package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vidysea/notes/internal/client"
	"github.com/vidysea/notes/internal/models"
)

// Fallback messages shown when the backend gives no usable message
const (
	LoginFailedMessage  = "Login failed"
	SignupFailedMessage = "Signup failed"
)

// Authenticator performs the login and signup network calls
type Authenticator interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.AuthResult, error)
	Signup(ctx context.Context, req client.SignupRequest) (*client.AuthResult, error)
}

// SessionWriter is the write side of a Session used after a successful exchange
type SessionWriter interface {
	Establish(token string, role models.Role) error
}

// Exchange trades credentials for a session. On success the session is
// seeded and the caller receives the dashboard to navigate to. On failure
// the session is left untouched.
type Exchange struct {
	api      Authenticator
	validate *validator.Validate
	log      zerolog.Logger
}

// NewExchange creates a credential exchange over api
func NewExchange(api Authenticator, log zerolog.Logger) *Exchange {
	return &Exchange{
		api:      api,
		validate: NewValidator(),
		log:      log,
	}
}

// Login authenticates and returns the destination dashboard path
func (e *Exchange) Login(ctx context.Context, s SessionWriter, creds Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := Validate(e.validate, creds); err != nil {
		return "", err
	}

	result, err := e.api.Login(ctx, client.LoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		e.log.Debug().Err(err).Str("email", creds.Email).Msg("Login rejected")
		return "", err
	}

	return e.establish(s, result)
}

// Signup registers an account and treats the response as an implicit login
func (e *Exchange) Signup(ctx context.Context, s SessionWriter, reg Registration) (string, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Role == "" {
		reg.Role = string(models.RoleUser)
	}
	if err := Validate(e.validate, reg); err != nil {
		return "", err
	}

	result, err := e.api.Signup(ctx, client.SignupRequest{
		Name:     reg.Name,
		Phone:    reg.Phone,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     reg.Role,
	})
	if err != nil {
		e.log.Debug().Err(err).Str("email", reg.Email).Msg("Signup rejected")
		return "", err
	}

	return e.establish(s, result)
}

func (e *Exchange) establish(s SessionWriter, result *client.AuthResult) (string, error) {
	if err := s.Establish(result.Token, result.Role); err != nil {
		return "", err
	}

	e.log.Info().Str("role", string(result.Role)).Msg("Session established")
	return models.HomePath(result.Role), nil
}

// Message returns the text to show the user for an exchange failure:
// validation messages, else the backend's message, else fallback.
func Message(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
