package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/va6996/agentic/log"
	"github.com/va6996/agentic/tools"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Branch names the policy branch that produced a Decision
type Branch string

const (
	BranchDomain      Branch = "domain"
	BranchFallback    Branch = "fallback"
	BranchPassThrough Branch = "pass_through"
)

// Decision is the outcome of evaluating the policy for one query
type Decision struct {
	Branch     Branch
	Capability string // empty for pass-through
	Matched    string // the keyword or phrase that fired
}

// Router decides whether the model's candidate answer stands or a tool answers instead.
type Router struct {
	domains   []Rule
	fallbacks []Rule
	registry  *tools.Registry
}

// NewRouter validates that every capability named by policy is registered.
func NewRouter(policy Policy, registry *tools.Registry) (*Router, error) {
	if registry == nil {
		return nil, fmt.Errorf("router needs a tool registry")
	}
	r := &Router{registry: registry}

	for _, rules := range []struct {
		src []Rule
		dst *[]Rule
	}{{policy.Domains, &r.domains}, {policy.Fallbacks, &r.fallbacks}} {
		for _, rule := range rules.src {
			if _, ok := registry.Get(rule.Capability); !ok {
				return nil, fmt.Errorf("policy routes to %w: %s", tools.ErrUnknownCapability, rule.Capability)
			}
			*rules.dst = append(*rules.dst, Rule{Capability: rule.Capability, Patterns: lowerAll(rule.Patterns)})
		}
	}
	return r, nil
}

// Route evaluates the branches in order: domain keyword in the query, fallback
// phrase in the candidate, otherwise pass-through. The first match wins.
func (r *Router) Route(query, candidate string) Decision {
	if capability, kw, ok := firstMatch(r.domains, lower(query)); ok {
		return Decision{Branch: BranchDomain, Capability: capability, Matched: kw}
	}
	if capability, phrase, ok := firstMatch(r.fallbacks, lower(candidate)); ok {
		return Decision{Branch: BranchFallback, Capability: capability, Matched: phrase}
	}
	return Decision{Branch: BranchPassThrough}
}

// Decide returns the final response for query: the routed tool's result, or the
// candidate unchanged. The raw query is passed to the tool.
func (r *Router) Decide(ctx context.Context, query, candidate string) (string, error) {
	d := r.Route(query, candidate)
	if d.Branch == BranchPassThrough {
		log.Debugf(ctx, "Router: passing model answer through")
		return candidate, nil
	}

	log.WithField(ctx, "capability", d.Capability).Infof("Router: %s match %q", d.Branch, d.Matched)
	result, err := r.registry.Invoke(ctx, d.Capability, query)
	if err != nil {
		return "", fmt.Errorf("%s tool failed: %w", d.Capability, err)
	}
	return result, nil
}

func firstMatch(rules []Rule, text string) (string, string, bool) {
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(text, pattern) {
				return rule.Capability, pattern, true
			}
		}
	}
	return "", "", false
}

// lower folds case the Unicode way; cases.Caser is not safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		out = append(out, lower(s))
	}
	return out
}
