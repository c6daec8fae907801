package agents

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/agentic/log"
	"github.com/va6996/agentic/tools"
)

// ErrorPrefix starts every answer the tool-calling agent produces from a failure.
const ErrorPrefix = "Error: "

const toolAgentSystemPrompt = `You are a helpful assistant.
You can call tools. Never guess live facts such as the current date or time:
call the matching tool and answer from its result.
Answer concisely.`

// ToolAgent lets the model decide per turn whether to call a tool, keeping the
// conversation in a Transcript. It never returns an error: failures become an
// answer starting with ErrorPrefix.
type ToolAgent struct {
	llm        SessionProvider
	registry   *tools.Registry
	transcript *Transcript
	maxTurns   int
}

// NewToolAgent creates the model-driven agent
func NewToolAgent(llm SessionProvider, registry *tools.Registry, transcript *Transcript, maxTurns int) *ToolAgent {
	if transcript == nil {
		transcript = NewTranscript("", nil, 0)
	}
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &ToolAgent{
		llm:        llm,
		registry:   registry,
		transcript: transcript,
		maxTurns:   maxTurns,
	}
}

// Transcript exposes the session memory
func (a *ToolAgent) Transcript() *Transcript {
	return a.transcript
}

// Run answers input. Any failure, including a panic inside a tool, is reported as text.
func (a *ToolAgent) Run(ctx context.Context, input string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "ToolAgent: recovered: %v", r)
			answer, err = ErrorPrefix+fmt.Sprint(r), nil
		}
	}()

	reply, err := a.respond(ctx, input)
	if err != nil {
		log.Errorf(ctx, "ToolAgent: %v", err)
		return ErrorPrefix + err.Error(), nil
	}
	return reply, nil
}

func (a *ToolAgent) respond(ctx context.Context, input string) (string, error) {
	gk, model, err := a.llm.Session(ctx)
	if err != nil {
		return "", err
	}
	toolRefs := a.registry.GenkitTools(gk)

	messages := []*ai.Message{ai.NewSystemTextMessage(toolAgentSystemPrompt)}
	messages = append(messages, a.transcript.Messages()...)
	messages = append(messages, ai.NewUserTextMessage(input))

	log.Debugf(ctx, "ToolAgent: generating with %d messages, %d tools", len(messages), len(toolRefs))
	resp, err := genkit.Generate(ctx, gk,
		ai.WithModel(model),
		ai.WithMessages(messages...),
		ai.WithTools(toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
	)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	reply := resp.Text()
	if err := a.transcript.Commit(ctx, resp.History(), input, reply); err != nil {
		log.Warnf(ctx, "ToolAgent: %v", err)
	}
	return reply, nil
}
