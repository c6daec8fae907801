package tools

import "context"

// Capability is a deterministic, non-LLM tool the agent can delegate a query to.
type Capability interface {
	// Name returns the unique name of the capability (e.g. "current_datetime")
	Name() string

	// Description tells a model when the capability is useful
	Description() string

	// Invoke answers the query. Capabilities that take no parameters ignore it.
	Invoke(ctx context.Context, query string) (string, error)
}

// Input is the argument shape every capability exposes to a tool-calling model.
type Input struct {
	Query string `json:"query,omitempty" description:"The user's question, verbatim. Optional for tools that take no parameters."`
}
