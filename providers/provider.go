// Package providers turns a provider identifier and model name into a uniform
// prompt-in, text-out adapter backed by genkit.
package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/va6996/agentic/config"
	"github.com/va6996/agentic/log"
	"github.com/va6996/agentic/providers/compat"
)

// Kind identifies one supported backend
type Kind string

const (
	Google    Kind = "google"
	OpenAI    Kind = "openai"
	Anthropic Kind = "anthropic"
)

// openFunc initialises genkit with the backend's plugin and resolves the model.
type openFunc func(ctx context.Context, cfg config.AIConfig, model string) (*genkit.Genkit, ai.Model)

// backend describes one provider variant: where its secret lives, which model it
// uses by default and how to reach it.
type backend struct {
	secretEnv    string
	defaultModel string
	open         openFunc
}

var backends = map[Kind]backend{
	Google: {
		secretEnv:    "GOOGLE_API_KEY",
		defaultModel: "gemini-2.5-flash",
		open: func(ctx context.Context, cfg config.AIConfig, model string) (*genkit.Genkit, ai.Model) {
			gk := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{
				APIKey: cfg.Google.APIKey,
			}))
			return gk, googlegenai.GoogleAIModel(gk, model)
		},
	},
	OpenAI: {
		secretEnv:    "OPENAI_API_KEY",
		defaultModel: "gpt-3.5-turbo",
		open: func(ctx context.Context, cfg config.AIConfig, model string) (*genkit.Genkit, ai.Model) {
			return openCompatible(ctx, string(OpenAI), cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, model)
		},
	},
	Anthropic: {
		secretEnv:    "ANTHROPIC_API_KEY",
		defaultModel: "claude-3-opus-20240229",
		open: func(ctx context.Context, cfg config.AIConfig, model string) (*genkit.Genkit, ai.Model) {
			return openCompatible(ctx, string(Anthropic), cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, model)
		},
	},
}

func openCompatible(ctx context.Context, provider, apiKey, baseURL, model string) (*genkit.Genkit, ai.Model) {
	plugin := &compat.Plugin{
		Provider: provider,
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Models:   []string{model},
	}
	gk := genkit.Init(ctx, genkit.WithPlugins(plugin))
	return gk, plugin.Model(gk, model)
}

// SupportedProviders lists the accepted provider identifiers, sorted
func SupportedProviders() []string {
	out := make([]string, 0, len(backends))
	for kind := range backends {
		out = append(out, string(kind))
	}
	sort.Strings(out)
	return out
}

// ParseKind normalises a provider identifier (case-insensitive, trimmed).
func ParseKind(provider string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(provider)))
	if _, ok := backends[kind]; !ok {
		return "", &UnsupportedProviderError{Provider: provider}
	}
	return kind, nil
}

// DefaultModel returns the model used for kind when none is configured
func DefaultModel(kind Kind) string {
	return backends[kind].defaultModel
}

// SecretEnv returns the environment variable holding kind's API key
func SecretEnv(kind Kind) string {
	return backends[kind].secretEnv
}

// Option customises an Adapter
type Option func(*Adapter)

// WithRetry overrides the transient-failure retry budget
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(a *Adapter) {
		a.maxRetries = maxRetries
		a.retryDelay = delay
	}
}

// Adapter is the uniform completion callable for one provider/model pair.
// The backend is initialised on first use, so building an Adapter never
// touches the network and never validates the secret.
type Adapter struct {
	kind       Kind
	model      string
	cfg        config.AIConfig
	open       openFunc
	maxRetries int
	retryDelay time.Duration

	once    sync.Once
	gk      *genkit.Genkit
	m       ai.Model
	initErr error
}

// New selects the backend for cfg.Provider. Unknown identifiers fail with
// *UnsupportedProviderError.
func New(cfg config.AIConfig, opts ...Option) (*Adapter, error) {
	kind, err := ParseKind(cfg.Provider)
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel(kind)
	}

	a := &Adapter{
		kind:       kind,
		model:      model,
		cfg:        cfg,
		open:       backends[kind].open,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// FromModel wraps an already-initialised genkit model, e.g. one defined with
// genkit.DefineModel.
func FromModel(gk *genkit.Genkit, model ai.Model, opts ...Option) *Adapter {
	a := &Adapter{
		kind:  Kind(providerOf(model.Name())),
		model: model.Name(),
		open: func(context.Context, config.AIConfig, string) (*genkit.Genkit, ai.Model) {
			return gk, model
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func providerOf(name string) string {
	if i := strings.Index(name, "/"); i > 0 {
		return name[:i]
	}
	return name
}

// Kind returns the selected provider
func (a *Adapter) Kind() Kind {
	return a.kind
}

// Model returns the model name in use
func (a *Adapter) Model() string {
	return a.model
}

// String identifies the adapter without revealing its secret
func (a *Adapter) String() string {
	return fmt.Sprintf("%s/%s", a.kind, a.model)
}

// Session returns the genkit instance and model, initialising them on first call.
func (a *Adapter) Session(ctx context.Context) (*genkit.Genkit, ai.Model, error) {
	a.once.Do(func() {
		// Plugins panic on unusable credentials; report that as a call-time failure.
		defer func() {
			if r := recover(); r != nil {
				a.initErr = &TransportError{Provider: string(a.kind), Err: fmt.Errorf("initialising backend: %v", r)}
			}
		}()

		log.Infof(ctx, "Initialising %s backend (model: %s)", a.kind, a.model)
		a.gk, a.m = a.open(context.WithoutCancel(ctx), a.cfg, a.model)
		if a.m == nil {
			a.initErr = &TransportError{Provider: string(a.kind), Err: fmt.Errorf("model %q not found", a.model)}
		}
	})
	if a.initErr != nil {
		return nil, nil, a.initErr
	}
	return a.gk, a.m, nil
}

// Complete sends prompt to the backend and returns the text of its answer.
// Transient failures are retried up to the configured budget; anything else
// comes back as *TransportError.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	gk, model, err := a.Session(ctx)
	if err != nil {
		return "", err
	}

	attempts := a.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			log.Warnf(ctx, "Retrying %s (attempt %d/%d) after: %v", a, attempt, attempts, lastErr)
			select {
			case <-ctx.Done():
				return "", &TransportError{Provider: string(a.kind), Err: ctx.Err()}
			case <-time.After(time.Duration(attempt-1) * a.retryDelay):
			}
		}

		resp, err := genkit.Generate(ctx, gk,
			ai.WithModel(model),
			ai.WithMessages(ai.NewUserTextMessage(prompt)),
		)
		if err == nil {
			text := resp.Text()
			log.Debugf(ctx, "%s answered with %d chars", a, len(text))
			return text, nil
		}

		lastErr = err
		if !IsTransient(err) {
			break
		}
	}

	log.Errorf(ctx, "%s failed: %v", a, lastErr)
	return "", &TransportError{Provider: string(a.kind), Err: lastErr}
}
