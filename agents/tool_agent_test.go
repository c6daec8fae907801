package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/agentic/providers"
	"github.com/va6996/agentic/tools"
)

// fakeSession serves a fixed genkit instance and model, or an error
type fakeSession struct {
	gk    *genkit.Genkit
	model ai.Model
	err   error
}

func (f *fakeSession) Session(ctx context.Context) (*genkit.Genkit, ai.Model, error) {
	return f.gk, f.model, f.err
}

func countRole(msgs []*ai.Message, role ai.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

// defineToolCallingModel answers questions about time by calling current_datetime
// and otherwise reports how many user messages it has seen.
func defineToolCallingModel(t *testing.T, calls *int32) (*genkit.Genkit, ai.Model) {
	t.Helper()
	gk := genkit.Init(context.Background())
	model := genkit.DefineModel(gk, "test/tool-caller", &ai.ModelOptions{
		Supports: &ai.ModelSupports{Multiturn: true, SystemRole: true, Tools: true},
	}, func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
		atomic.AddInt32(calls, 1)
		last := req.Messages[len(req.Messages)-1]

		if last.Role == ai.RoleTool {
			for _, p := range last.Content {
				if p.IsToolResponse() {
					return &ai.ModelResponse{
						Request:      req,
						Message:      ai.NewModelTextMessage(fmt.Sprintf("It is %v", p.ToolResponse.Output)),
						FinishReason: ai.FinishReasonStop,
					}, nil
				}
			}
		}

		if strings.Contains(strings.ToLower(last.Text()), "time") {
			return &ai.ModelResponse{
				Request: req,
				Message: ai.NewModelMessage(ai.NewToolRequestPart(&ai.ToolRequest{
					Name:  tools.DateTimeToolName,
					Input: map[string]any{},
				})),
				FinishReason: ai.FinishReasonStop,
			}, nil
		}

		return &ai.ModelResponse{
			Request:      req,
			Message:      ai.NewModelTextMessage(fmt.Sprintf("seen %d", countRole(req.Messages, ai.RoleUser))),
			FinishReason: ai.FinishReasonStop,
		}, nil
	})
	return gk, model
}

func TestToolAgent_CallsTool(t *testing.T) {
	var calls int32
	gk, model := defineToolCallingModel(t, &calls)
	agent := NewToolAgent(&fakeSession{gk: gk, model: model}, newTestRegistry(t), nil, 3)

	got, err := agent.Run(context.Background(), "What time is it?")
	require.NoError(t, err)
	assert.Equal(t, "It is "+fixedDateTime, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	msgs := agent.Transcript().Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, ai.RoleUser, msgs[0].Role)
	assert.Equal(t, got, msgs[len(msgs)-1].Text())
	assert.Zero(t, countRole(msgs, ai.RoleSystem))
}

func TestToolAgent_TranscriptGrowsAcrossTurns(t *testing.T) {
	var calls int32
	gk, model := defineToolCallingModel(t, &calls)
	store := newMemStore()
	agent := NewToolAgent(&fakeSession{gk: gk, model: model}, newTestRegistry(t), NewTranscript("s", store, 0), 0)

	first, err := agent.Run(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "seen 1", first)

	second, err := agent.Run(context.Background(), "Tell me more")
	require.NoError(t, err)
	assert.Equal(t, "seen 2", second)
	assert.Equal(t, 4, agent.Transcript().Len())

	require.Len(t, store.turns["s"], 4)
	assert.Equal(t, "Tell me more", store.turns["s"][2].Content)
	assert.Equal(t, "seen 2", store.turns["s"][3].Content)
}

func TestToolAgent_ErrorsBecomeText(t *testing.T) {
	t.Run("Session failure", func(t *testing.T) {
		sess := &fakeSession{err: &providers.TransportError{Provider: "google", Err: errors.New("missing API key")}}
		agent := NewToolAgent(sess, newTestRegistry(t), nil, 3)

		got, err := agent.Run(context.Background(), "hi")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, ErrorPrefix))
		assert.Contains(t, got, "missing API key")
		assert.Equal(t, 0, agent.Transcript().Len())
	})

	t.Run("Model failure leaves transcript unchanged", func(t *testing.T) {
		gk := genkit.Init(context.Background())
		fail := false
		model := genkit.DefineModel(gk, "test/flaky", &ai.ModelOptions{
			Supports: &ai.ModelSupports{Multiturn: true, SystemRole: true, Tools: true},
		}, func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
			if fail {
				return nil, errors.New("503 service unavailable")
			}
			return &ai.ModelResponse{Request: req, Message: ai.NewModelTextMessage("ok"), FinishReason: ai.FinishReasonStop}, nil
		})
		agent := NewToolAgent(&fakeSession{gk: gk, model: model}, newTestRegistry(t), nil, 3)

		got, err := agent.Run(context.Background(), "first")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		before := agent.Transcript().Len()

		fail = true
		got, err = agent.Run(context.Background(), "second")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, ErrorPrefix))
		assert.Contains(t, got, "503 service unavailable")
		assert.Equal(t, before, agent.Transcript().Len())
	})

	t.Run("Tool failure", func(t *testing.T) {
		var calls int32
		gk, model := defineToolCallingModel(t, &calls)
		reg := tools.NewRegistry()
		require.NoError(t, reg.Register(&stubTool{name: tools.DateTimeToolName, err: errors.New("clock unavailable")}))
		agent := NewToolAgent(&fakeSession{gk: gk, model: model}, reg, nil, 3)

		got, err := agent.Run(context.Background(), "what time is it")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, ErrorPrefix))
		assert.Contains(t, got, "clock unavailable")
		assert.Equal(t, 0, agent.Transcript().Len())
	})
}
