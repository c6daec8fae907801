package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/agentic/agents"
	"github.com/va6996/agentic/config"
	"github.com/va6996/agentic/providers"
	"github.com/va6996/agentic/tools"
)

func testConfig(provider, mode string) *config.Config {
	return &config.Config{
		AI:         config.AIConfig{Provider: provider, MaxRetries: 0},
		Agent:      config.AgentConfig{Mode: mode, MaxTurns: 5},
		Transcript: config.TranscriptConfig{Driver: "sqlite", Limit: 50},
	}
}

func TestSetup_RouterMode(t *testing.T) {
	app, err := Setup(context.Background(), testConfig("google", config.ModeRouter))
	require.NoError(t, err)

	assert.Equal(t, config.ModeRouter, app.Mode)
	assert.IsType(t, &agents.RouterAgent{}, app.Agent)
	assert.Equal(t, providers.Google, app.Adapter.Kind())
	assert.Nil(t, app.Transcript)

	_, ok := app.Registry.Get(tools.DateTimeToolName)
	assert.True(t, ok)
	assert.NoError(t, app.Close())
}

func TestSetup_AgentModeInMemory(t *testing.T) {
	cfg := testConfig("anthropic", config.ModeAgent)
	cfg.Agent.SessionID = "fixed-session"

	app, err := Setup(context.Background(), cfg)
	require.NoError(t, err)

	assert.IsType(t, &agents.ToolAgent{}, app.Agent)
	require.NotNil(t, app.Transcript)
	assert.Equal(t, "fixed-session", app.Transcript.SessionID())
	assert.Nil(t, app.DB)
}

func TestSetup_AgentModeGeneratesSession(t *testing.T) {
	app, err := Setup(context.Background(), testConfig("openai", config.ModeAgent))
	require.NoError(t, err)
	assert.Regexp(t, `^sess-`, app.Transcript.SessionID())
}

func TestSetup_AgentModeWithStore(t *testing.T) {
	cfg := testConfig("google", config.ModeAgent)
	cfg.Agent.SessionID = "persisted"
	cfg.Transcript.DSN = "file:bootstrap_setup?mode=memory&cache=shared"

	app, err := Setup(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, app.DB)
	assert.Equal(t, 0, app.Transcript.Len())

	sqlDB, err := app.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	require.NoError(t, app.Close())
	assert.Error(t, sqlDB.Ping())
	assert.Error(t, app.Transcript.Commit(context.Background(), nil, "after", "close"))
	assert.NoError(t, app.Close())
}

func TestSetup_AgentModeWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := mr.RPush("agentic:transcript:resumed",
		`{"session_id":"resumed","role":"user","content":"hello"}`,
		`{"session_id":"resumed","role":"model","content":"hi"}`,
	)
	require.NoError(t, err)

	cfg := testConfig("google", config.ModeAgent)
	cfg.Agent.SessionID = "resumed"
	cfg.Transcript.Driver = "redis"
	cfg.Transcript.DSN = "redis://" + mr.Addr()

	app, err := Setup(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, app.DB)
	assert.Equal(t, 2, app.Transcript.Len())

	require.NoError(t, app.Transcript.Commit(context.Background(), nil, "still", "open"))
	require.NoError(t, app.Close())
	assert.ErrorContains(t, app.Transcript.Commit(context.Background(), nil, "after", "close"), "closed")
}

func TestSetup_Errors(t *testing.T) {
	_, err := Setup(context.Background(), testConfig("mistral", config.ModeRouter))
	var unsupported *providers.UnsupportedProviderError
	assert.True(t, errors.As(err, &unsupported))

	_, err = Setup(context.Background(), testConfig("google", "swarm"))
	assert.ErrorContains(t, err, "unknown agent mode")

	cfg := testConfig("google", config.ModeAgent)
	cfg.Transcript.DSN = "whatever"
	cfg.Transcript.Driver = "mongodb"
	_, err = Setup(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported transcript driver")
}
