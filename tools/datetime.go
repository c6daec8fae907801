package tools

import (
	"context"
	"time"

	"github.com/va6996/agentic/log"
)

// DateTimeToolName is the registry name of the wall-clock capability.
const DateTimeToolName = "current_datetime"

// DateTimeLayout renders e.g. "Monday, 05 February 2024, 14:32:07".
const DateTimeLayout = "Monday, 02 January 2006, 15:04:05"

// DateTimeTool reports the current local date and time
type DateTimeTool struct {
	Now func() time.Time
}

// NewDateTimeTool creates a DateTimeTool reading the system clock
func NewDateTimeTool() *DateTimeTool {
	return &DateTimeTool{Now: time.Now}
}

func (t *DateTimeTool) Name() string {
	return DateTimeToolName
}

func (t *DateTimeTool) Description() string {
	return "Returns the current local date and time, e.g. \"Monday, 05 February 2024, 14:32:07\". " +
		"Use it for any question about today's date, the day of the week, the month, the year or the time. Takes no parameters."
}

// Invoke ignores the query; the answer depends only on the clock.
func (t *DateTimeTool) Invoke(ctx context.Context, query string) (string, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	result := now().Format(DateTimeLayout)
	log.Debugf(ctx, "[DateTimeTool] %s", result)
	return result, nil
}
