package agents

import (
	"context"
	"fmt"
)

// RouterAgent asks the model first and lets the Router override its answer.
// Backend errors are returned to the caller untouched by any recovery.
type RouterAgent struct {
	llm    Completer
	router *Router
}

// NewRouterAgent creates the deterministic keyword-routing agent
func NewRouterAgent(llm Completer, router *Router) *RouterAgent {
	return &RouterAgent{llm: llm, router: router}
}

// Run completes input with the model, then routes
func (a *RouterAgent) Run(ctx context.Context, input string) (string, error) {
	candidate, err := a.llm.Complete(ctx, input)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return a.router.Decide(ctx, input, candidate)
}
