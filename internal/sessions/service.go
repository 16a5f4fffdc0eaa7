package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vidysea/notes/internal/auth"
	"github.com/vidysea/notes/internal/models"
)

// Service stores browser session keys in the database
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new sessions service
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Store is the key-value storage of a single browser session
type Store struct {
	db        *gorm.DB
	sessionID string
}

// Scope returns the storage for the browser session sessionID
func (s *Service) Scope(sessionID string) *Store {
	return &Store{db: s.db, sessionID: sessionID}
}

// Session returns an auth session backed by the browser session sessionID
func (s *Service) Session(sessionID string) *auth.Session {
	return auth.NewSession(s.Scope(sessionID), s.logger)
}

// Get returns the value stored under key
func (st *Store) Get(key string) (string, bool, error) {
	var value models.SessionValue
	err := st.db.Where("session_id = ? AND name = ?", st.sessionID, key).First(&value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session value: %w", err)
	}
	return value.Value, true, nil
}

// Set writes all values in one transaction
func (st *Store) Set(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	rows := make([]models.SessionValue, 0, len(values))
	for name, value := range values {
		rows = append(rows, models.SessionValue{
			SessionID: st.sessionID,
			Name:      name,
			Value:     value,
		})
	}

	return st.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to write session values: %w", err)
		}
		return nil
	})
}

// Delete removes keys in a single statement. Missing keys are not an error.
func (st *Store) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := st.db.Where("session_id = ? AND name IN ?", st.sessionID, keys).
		Delete(&models.SessionValue{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session values: %w", err)
	}
	return nil
}

// Drop deletes every value of the browser session sessionID
func (s *Service) Drop(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.SessionValue{}).Error
	if err != nil {
		return fmt.Errorf("failed to drop session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session value written more than maxAge ago
func (s *Service) PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)

	result := s.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.SessionValue{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
