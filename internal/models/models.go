package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role is the coarse-grained permission tag the backend assigns to an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Dashboard and auth routes
const (
	LoginPath          = "/auth/login"
	SignupPath         = "/auth/signup"
	UserDashboardPath  = "/dashboard/user"
	AdminDashboardPath = "/dashboard/admin"
)

// ParseRole converts a raw role string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// HomePath returns the dashboard a role lands on after login.
// Anything that is not admin goes to the user dashboard.
func HomePath(r Role) string {
	if r == RoleAdmin {
		return AdminDashboardPath
	}
	return UserDashboardPath
}

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// SessionValue is one key of a browser session's durable key-value storage.
// A browser session is identified by the ULID held in its cookie.
type SessionValue struct {
	BaseModel
	SessionID string    `json:"session_id" gorm:"type:varchar(26);not null;uniqueIndex:idx_session_value_name"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null;uniqueIndex:idx_session_value_name"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewSessionID returns a fresh browser session identifier
func NewSessionID() string {
	return ulid.Make().String()
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&SessionValue{},
	}

	return db.AutoMigrate(models...)
}
