package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/va6996/agentic/orm"
)

// Transcript is the tool-calling agent's memory for one session. The full genkit
// history (tool requests and responses included) is kept in memory; only the
// user/model text of each turn reaches the optional store.
type Transcript struct {
	sessionID string
	store     TurnStore
	limit     int

	mu       sync.RWMutex
	messages []*ai.Message
}

// NewTranscript creates an empty transcript holding at most limit messages
// (non-positive means unbounded). store may be nil.
func NewTranscript(sessionID string, store TurnStore, limit int) *Transcript {
	return &Transcript{sessionID: sessionID, store: store, limit: limit}
}

// SessionID returns the session this transcript belongs to
func (t *Transcript) SessionID() string {
	return t.sessionID
}

// Load replaces the in-memory history with the latest turns from the store
func (t *Transcript) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	turns, err := t.store.ListTurns(ctx, t.sessionID, t.limit)
	if err != nil {
		return err
	}

	messages := make([]*ai.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case orm.RoleUser:
			messages = append(messages, ai.NewUserTextMessage(turn.Content))
		case orm.RoleModel:
			messages = append(messages, ai.NewModelTextMessage(turn.Content))
		}
	}

	t.mu.Lock()
	t.messages = trim(messages, t.limit)
	t.mu.Unlock()
	return nil
}

// Messages returns a copy of the history
func (t *Transcript) Messages() []*ai.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := make([]*ai.Message, len(t.messages))
	copy(cp, t.messages)
	return cp
}

// Len returns the number of messages held in memory
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Commit records a completed turn: history becomes the new in-memory transcript
// (system messages dropped, trimmed to the limit) and the user/reply pair is
// appended to the store.
func (t *Transcript) Commit(ctx context.Context, history []*ai.Message, user, reply string) error {
	kept := make([]*ai.Message, 0, len(history))
	for _, m := range history {
		if m == nil || m.Role == ai.RoleSystem {
			continue
		}
		kept = append(kept, m)
	}

	t.mu.Lock()
	t.messages = trim(kept, t.limit)
	t.mu.Unlock()

	if t.store == nil {
		return nil
	}
	if err := t.store.AppendTurns(ctx, t.sessionID,
		orm.Turn{Role: orm.RoleUser, Content: user},
		orm.Turn{Role: orm.RoleModel, Content: reply},
	); err != nil {
		return fmt.Errorf("failed to persist turn: %w", err)
	}
	return nil
}

// trim keeps the newest limit messages, cut so the history opens with a user
// message: never a model reply or a tool response whose request was dropped.
// A turn longer than limit is kept whole.
func trim(messages []*ai.Message, limit int) []*ai.Message {
	start := 0
	if limit > 0 && len(messages) > limit {
		start = len(messages) - limit
	}
	for i := start; i < len(messages); i++ {
		if messages[i].Role == ai.RoleUser {
			return messages[i:]
		}
	}
	for i := start - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i:]
		}
	}
	return nil
}
