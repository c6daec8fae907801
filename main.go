package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/va6996/agentic/agents"
	"github.com/va6996/agentic/bootstrap"
	"github.com/va6996/agentic/config"
	logcontext "github.com/va6996/agentic/context"
	"github.com/va6996/agentic/log"
)

const (
	prompt    = "You: "
	answerTag = "Agent: "
	exitWord  = "exit"
	goodbye   = "Goodbye!"
	exitHint  = "Type 'exit' to quit."
)

func main() {
	// 0. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	if err := log.Init(cfg.Log.Level); err != nil {
		log.Warnf(context.Background(), "Invalid LOG_LEVEL %q, using info", cfg.Log.Level)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(context.Background(), "Program terminated externally. Exiting...")
		cancel()
	}()

	// 1. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}
	defer closeApp(app)

	if app.Transcript != nil {
		ctx = logcontext.WithSessionID(ctx, app.Transcript.SessionID())
	}

	banner(os.Stdout, app)
	if err := serve(ctx, os.Stdin, os.Stdout, app.Agent); err != nil {
		log.Errorf(context.Background(), "Input failed: %v", err)
		closeApp(app)
		os.Exit(1)
	}
}

func closeApp(app *bootstrap.App) {
	if err := app.Close(); err != nil {
		log.Warnf(context.Background(), "Failed to close transcript store: %v", err)
	}
}

func banner(out io.Writer, app *bootstrap.App) {
	fmt.Fprintf(out, "Welcome to the agent (%s, mode: %s)\n", app.Adapter, app.Mode)
	fmt.Fprintln(out, exitHint)
}

// serve runs the read-answer loop until exit, end of input or cancellation.
func serve(ctx context.Context, in io.Reader, out io.Writer, agent agents.Agent) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			line = l
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if strings.EqualFold(query, exitWord) {
			fmt.Fprintln(out, goodbye)
			return nil
		}

		reqCtx := logcontext.WithRequestID(ctx, logcontext.NewRequestID())
		log.Debugf(reqCtx, "Received query: %s", query)

		answer, err := agent.Run(reqCtx, query)
		if err != nil {
			log.Errorf(reqCtx, "Error processing query: %v", err)
			answer = agents.ErrorPrefix + err.Error()
		}
		fmt.Fprintln(out, answerTag+answer)
	}
}
