// Package compat is a genkit plugin for any backend that speaks the OpenAI
// chat-completions protocol (OpenAI itself, Anthropic's compatibility endpoint).
package compat

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/openai/openai-go/option"
)

// Plugin exposes one OpenAI-compatible backend under its own provider name.
type Plugin struct {
	// Provider is the genkit namespace, e.g. "openai" or "anthropic".
	Provider string
	// APIKey is sent as the bearer token. An empty key is passed through and
	// rejected by the backend when the first request is made.
	APIKey string
	// BaseURL overrides the OpenAI endpoint. Empty keeps the SDK default.
	BaseURL string
	// Models are defined eagerly during Init.
	Models []string

	openAICompatible *compat_oai.OpenAICompatible
}

// Name implements genkit.Plugin.
func (p *Plugin) Name() string {
	return p.Provider
}

// Init implements genkit.Plugin.
func (p *Plugin) Init(ctx context.Context) []api.Action {
	if p.openAICompatible == nil {
		p.openAICompatible = &compat_oai.OpenAICompatible{}
	}

	opts := []option.RequestOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	p.openAICompatible.Opts = opts
	p.openAICompatible.Provider = p.Provider

	actions := p.openAICompatible.Init(ctx)
	for _, id := range p.Models {
		actions = append(actions, p.DefineModel(id).(api.Action))
	}
	return actions
}

// DefineModel defines a chat model with tool support.
func (p *Plugin) DefineModel(id string) ai.Model {
	return p.openAICompatible.DefineModel(p.Provider, id, ai.ModelOptions{
		Label:    p.Provider + " " + id,
		Supports: &compat_oai.Multimodal,
		Versions: []string{id},
	})
}

// Model returns a model by name.
func (p *Plugin) Model(g *genkit.Genkit, name string) ai.Model {
	return p.openAICompatible.Model(g, api.NewName(p.Provider, name))
}

// ListActions returns a list of actions provided by this plugin.
func (p *Plugin) ListActions(ctx context.Context) []api.ActionDesc {
	return p.openAICompatible.ListActions(ctx)
}

// ResolveAction resolves an action by type and name.
func (p *Plugin) ResolveAction(atype api.ActionType, name string) api.Action {
	return p.openAICompatible.ResolveAction(atype, name)
}
