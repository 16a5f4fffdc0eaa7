package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vidysea/notes/internal/models"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the register request body
type SignupRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResult is what a successful login or signup yields
type AuthResult struct {
	Token string
	Role  models.Role
}

// authEnvelope mirrors {data: {user: {role}, access_token}}
type authEnvelope struct {
	Data *struct {
		User *struct {
			Role string `json:"role"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func (e *authEnvelope) result() (*AuthResult, error) {
	if e.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	if e.Data.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", ErrMalformedResponse)
	}
	if e.Data.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}

	role, err := models.ParseRole(e.Data.User.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &AuthResult{Token: e.Data.AccessToken, Role: role}, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/app/auth/login", nil, req, &env); err != nil {
		return nil, err
	}
	return env.result()
}

// Signup registers a new account. The backend answers with the same
// envelope as login.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/app/auth/register", nil, req, &env); err != nil {
		return nil, err
	}
	return env.result()
}
