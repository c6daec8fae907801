package orm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Turn roles, matching genkit's message roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one persisted message of an agent-mode conversation
type Turn struct {
	ID        uint      `gorm:"primaryKey" json:"id,omitempty"`
	SessionID string    `gorm:"size:64;index" json:"session_id"`
	Role      string    `gorm:"size:16" json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptStore reads and writes conversation turns
type TranscriptStore struct {
	db *gorm.DB
}

// NewTranscriptStore wraps an opened database
func NewTranscriptStore(db *gorm.DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

// AppendTurns stores turns in order under sessionID
func (s *TranscriptStore) AppendTurns(ctx context.Context, sessionID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	now := time.Now()
	for i := range turns {
		turns[i].SessionID = sessionID
		if turns[i].CreatedAt.IsZero() {
			turns[i].CreatedAt = now
		}
	}
	if err := s.db.WithContext(ctx).Create(&turns).Error; err != nil {
		return fmt.Errorf("failed to append turns to %s: %w", sessionID, err)
	}
	return nil
}

// ListTurns returns the latest limit turns of sessionID, oldest first.
// A non-positive limit returns the whole session.
func (s *TranscriptStore) ListTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	var turns []Turn
	q := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("failed to list turns of %s: %w", sessionID, err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteSession removes every turn of sessionID
func (s *TranscriptStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&Turn{}).Error
}
