package agents

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agentic/orm"
)

// Agent is the whole surface the host shell sees: one query in, one answer out.
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
}

// Completer produces a candidate answer for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SessionProvider hands out the genkit instance and model for tool-calling generation
type SessionProvider interface {
	Session(ctx context.Context) (*genkit.Genkit, ai.Model, error)
}

// TurnStore persists transcript turns
type TurnStore interface {
	AppendTurns(ctx context.Context, sessionID string, turns ...orm.Turn) error
	ListTurns(ctx context.Context, sessionID string, limit int) ([]orm.Turn, error)
}
