// Command cmd answers a single query given on the command line and exits,
// e.g. `go run ./cmd what day is it`.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/va6996/agentic/agents"
	"github.com/va6996/agentic/bootstrap"
	"github.com/va6996/agentic/config"
	logcontext "github.com/va6996/agentic/context"
	"github.com/va6996/agentic/log"
)

var errNoQuery = errors.New("usage: cmd <query>")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	if err := log.Init(cfg.Log.Level); err != nil {
		log.Warnf(context.Background(), "Invalid LOG_LEVEL %q, using info", cfg.Log.Level)
	}

	ctx := logcontext.WithRequestID(context.Background(), logcontext.NewRequestID())
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}

	err = ask(ctx, app.Agent, os.Args[1:], os.Stdout)
	if closeErr := app.Close(); closeErr != nil {
		log.Warnf(ctx, "Failed to close transcript store: %v", closeErr)
	}
	if err != nil {
		log.Errorf(ctx, "Query failed: %v", err)
		os.Exit(1)
	}
}

// ask runs the query formed by args and prints the answer
func ask(ctx context.Context, agent agents.Agent, args []string, out io.Writer) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errNoQuery
	}

	log.Infof(ctx, "Running query: %q", query)
	answer, err := agent.Run(ctx, query)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, answer)
	return err
}
