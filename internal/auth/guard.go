package auth

import "github.com/vidysea/notes/internal/models"

// Outcome is the result of a guard check
type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToRoleHome
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToRoleHome:
		return "redirect_to_role_home"
	default:
		return "unknown"
	}
}

// Decision tells a protected view whether to render or where to go instead.
// Location is empty for Allow.
type Decision struct {
	Outcome  Outcome
	Location string
}

// SessionReader is the read side of a Session
type SessionReader interface {
	Token() (string, bool)
	Role() (string, bool)
}

// Guard decides whether a protected view may render for the given session.
// An empty required role only demands a token. When a role is required and
// the session's role is missing or unknown, the result is RedirectToLogin
// rather than RedirectToRoleHome. Callers run it on every mount/request; the
// result must not be cached.
func Guard(s SessionReader, required models.Role) Decision {
	token, ok := s.Token()
	if !ok || token == "" {
		return Decision{Outcome: RedirectToLogin, Location: models.LoginPath}
	}

	if required == "" {
		return Decision{Outcome: Allow}
	}

	// A token with no usable role cannot be routed to a home page
	raw, _ := s.Role()
	role, err := models.ParseRole(raw)
	if err != nil {
		return Decision{Outcome: RedirectToLogin, Location: models.LoginPath}
	}

	if role == required {
		return Decision{Outcome: Allow}
	}

	return Decision{Outcome: RedirectToRoleHome, Location: models.HomePath(role)}
}
