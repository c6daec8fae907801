package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/va6996/agentic/providers"
)

// MockCompleter
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestRouterAgent_Run(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		candidate string
		want      string
	}{
		{"Model answer passes through", "Tell me a joke", "Why did the chicken cross the road?", "Why did the chicken cross the road?"},
		{"Temporal query uses tool", "What's the date today?", "It is 1999.", fixedDateTime},
		{"Model gives up", "How tall is the tower?", "I don't have access to real-time information.", fixedDateTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(MockCompleter)
			llm.On("Complete", mock.Anything, tt.input).Return(tt.candidate, nil).Once()

			agent := NewRouterAgent(llm, newTestRouter(t))
			got, err := agent.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			llm.AssertExpectations(t)
		})
	}
}

func TestRouterAgent_PropagatesTransportError(t *testing.T) {
	llm := new(MockCompleter)
	transport := &providers.TransportError{Provider: "openai", Err: errors.New("401 unauthorized")}
	llm.On("Complete", mock.Anything, "What time is it?").Return("", transport)

	agent := NewRouterAgent(llm, newTestRouter(t))
	got, err := agent.Run(context.Background(), "What time is it?")

	assert.Empty(t, got)
	var te *providers.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "openai", te.Provider)
}
