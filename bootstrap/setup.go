package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/va6996/agentic/agents"
	"github.com/va6996/agentic/config"
	logcontext "github.com/va6996/agentic/context"
	"github.com/va6996/agentic/log"
	"github.com/va6996/agentic/orm"
	"github.com/va6996/agentic/providers"
	"github.com/va6996/agentic/tools"
	"gorm.io/gorm"
)

// App holds the initialized components of the application
type App struct {
	Agent      agents.Agent
	Adapter    *providers.Adapter
	Registry   *tools.Registry
	Transcript *agents.Transcript
	DB         *gorm.DB
	Mode       string

	closers []func() error
}

// Close releases the transcript store connections. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Setup initializes the application components based on the configuration.
// No backend is contacted here; credentials are first used by the first query.
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	// 1. Provider adapter
	adapter, err := providers.New(cfg.AI)
	if err != nil {
		return nil, err
	}
	log.Infof(ctx, "Using %s", adapter)

	// 2. Tools
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewDateTimeTool()); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	app := &App{
		Adapter:  adapter,
		Registry: registry,
		Mode:     cfg.Agent.Mode,
	}

	// 3. Agent
	switch cfg.Agent.Mode {
	case config.ModeRouter, "":
		router, err := agents.NewRouter(agents.DefaultPolicy(), registry)
		if err != nil {
			return nil, fmt.Errorf("failed to build router: %w", err)
		}
		app.Agent = agents.NewRouterAgent(adapter, router)
		app.Mode = config.ModeRouter

	case config.ModeAgent:
		transcript, db, closer, err := openTranscript(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.Transcript = transcript
		app.DB = db
		if closer != nil {
			app.closers = append(app.closers, closer)
		}
		app.Agent = agents.NewToolAgent(adapter, registry, transcript, cfg.Agent.MaxTurns)

	default:
		return nil, fmt.Errorf("unknown agent mode %q", cfg.Agent.Mode)
	}

	log.Infof(ctx, "Agent ready (mode: %s, tools: %d)", app.Mode, len(registry.List()))
	return app, nil
}

// openTranscript builds the session transcript, backed by the database when a DSN is
// configured. The returned closer releases the store.
func openTranscript(ctx context.Context, cfg *config.Config) (*agents.Transcript, *gorm.DB, func() error, error) {
	sessionID := strings.TrimSpace(cfg.Agent.SessionID)
	if sessionID == "" {
		sessionID = logcontext.NewSessionID()
	}

	if cfg.Transcript.DSN == "" {
		log.Debugf(ctx, "Transcript persistence disabled (session %s)", sessionID)
		return agents.NewTranscript(sessionID, nil, cfg.Transcript.Limit), nil, nil, nil
	}

	var (
		store  agents.TurnStore
		db     *gorm.DB
		closer func() error
	)
	if cfg.Transcript.Driver == orm.DriverRedis {
		redisStore, err := orm.NewRedisTranscriptStore(ctx, cfg.Transcript.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open transcript store: %w", err)
		}
		store, closer = redisStore, redisStore.Close
	} else {
		var err error
		db, err = orm.Open(cfg.Transcript.Driver, cfg.Transcript.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open transcript store: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open transcript store: %w", err)
		}
		store, closer = orm.NewTranscriptStore(db), sqlDB.Close
	}

	transcript := agents.NewTranscript(sessionID, store, cfg.Transcript.Limit)
	if err := transcript.Load(ctx); err != nil {
		_ = closer()
		return nil, nil, nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	log.Infof(ctx, "Resumed session %s with %d messages", sessionID, transcript.Len())
	return transcript, db, closer, nil
}
