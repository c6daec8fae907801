package agents

import (
	"github.com/va6996/agentic/tools"
)

// Rule maps a set of substrings to the capability that should answer when one matches.
type Rule struct {
	Capability string
	Patterns   []string
}

// Policy is the static data behind the router: which query topics always go to a
// tool, and which answer phrasings mean the model gave up.
type Policy struct {
	// Domains are matched against the query, in order.
	Domains []Rule
	// Fallbacks are matched against the model's candidate answer, in order.
	Fallbacks []Rule
}

// TemporalKeywords mark a query as being about the current date or time.
var TemporalKeywords = []string{
	"date",
	"time",
	"day",
	"today",
	"current time",
	"what day",
	"clock",
	"month",
	"year",
}

// FallbackPhrases signal that the model could not or would not answer.
var FallbackPhrases = []string{
	"i don't have access to real-time information",
	"i'm unable to provide that information",
	"i don't know",
	"i'm not sure",
	"as an ai language model",
	"i cannot tell you the exact time",
	"i don't have access to current time",
	"i don't have access to current date",
	"i don't have access to a clock",
	"please check the clock",
	"please check your device",
	"i can't access real-time",
	"i can't access the current time",
	"i can't access the current date",
}

// DefaultPolicy routes temporal queries and every fallback phrase to the date/time tool.
func DefaultPolicy() Policy {
	return Policy{
		Domains: []Rule{
			{Capability: tools.DateTimeToolName, Patterns: TemporalKeywords},
		},
		Fallbacks: []Rule{
			{Capability: tools.DateTimeToolName, Patterns: FallbackPhrases},
		},
	}
}
