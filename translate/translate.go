// Package translate performs the remote translation call for one chunk.
//
// Every backend satisfies Invoker: an OpenAI-compatible chat completion
// endpoint (SEA-LION, Groq, Ollama or any custom OpenAI server) reached
// through Client, or a translator AWS Lambda function reached through
// LambdaInvoker. Calls are blocking and never retried; any failure is
// reported as an error wrapping ErrRemoteCall.
package translate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/seatrans/seatrans/prompt"
)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderSeaLion      = "sealion"
	ProviderGroq         = "groq"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
	ProviderLambda       = "lambda"
)

// SEA-LION models accepted by the sealion provider.
const (
	ModelGemmaSeaLion = "aisingapore/Gemma-SEA-LION-v4-27B-IT"
	ModelLlamaSeaLion = "aisingapore/Llama-SEA-LION-v3-70B-IT"
)

// DefaultModel is used when no model is given for the sealion provider.
const DefaultModel = ModelGemmaSeaLion

// SeaLionModels is the allow-list for the sealion provider.
var SeaLionModels = []string{ModelGemmaSeaLion, ModelLlamaSeaLion}

// ---------------------------------------------------------------------------
// Invoker
// ---------------------------------------------------------------------------

// ErrRemoteCall is wrapped by every error returned from an Invoker:
// network failure, bad status, malformed response or empty content.
var ErrRemoteCall = errors.New("remote call failed")

// Invoker performs one blocking translation call.
type Invoker interface {
	Invoke(ctx context.Context, req prompt.Request, model string) (string, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, req prompt.Request, model string) (string, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, req prompt.Request, model string) (string, error) {
	return f(ctx, req, model)
}

// remoteErr returns ErrRemoteCall with a short description.
func remoteErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRemoteCall, fmt.Sprintf(format, args...))
}

// wrapRemote is remoteErr with a cause. Both ErrRemoteCall and cause stay
// in the chain, so a cancelled context still matches context.Canceled.
func wrapRemote(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteCall, fmt.Sprintf(format, args...), cause)
}

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for a translation backend.
type Provider struct {
	// ID is the provider identifier (sealion, groq, ...).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the OpenAI-compatible API base URL (without /chat/completions).
	BaseURL string
	// APIKey is the bearer token (empty for local services).
	APIKey string
	// Model is the default model identifier.
	Model string
	// Models is the model allow-list. Empty means any model is accepted.
	Models []string
	// Function is the AWS Lambda function name or ARN (lambda provider only).
	Function string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
	// NeedsKey reports whether calls fail without an API key.
	NeedsKey bool
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderSeaLion: {
			ID:       ProviderSeaLion,
			Name:     "SEA-LION",
			BaseURL:  "https://api.sea-lion.ai/v1",
			Model:    DefaultModel,
			Models:   SeaLionModels,
			Timeout:  120 * time.Second,
			NeedsKey: true,
		},
		ProviderGroq: {
			ID:       ProviderGroq,
			Name:     "Groq",
			BaseURL:  "https://api.groq.com/openai/v1",
			Model:    "llama-3.3-70b-versatile",
			Timeout:  60 * time.Second,
			NeedsKey: true,
		},
		ProviderOllama: {
			ID:      ProviderOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Timeout: 300 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:      ProviderCustomOpenAI,
			Name:    "Custom OpenAI",
			Timeout: 120 * time.Second,
		},
		ProviderLambda: {
			ID:      ProviderLambda,
			Name:    "AWS Lambda translator",
			Model:   DefaultModel,
			Timeout: 300 * time.Second,
		},
	}
}

// ProviderIDs returns the known provider IDs, sorted.
func ProviderIDs() []string {
	ids := make([]string, 0, len(DefaultProviders()))
	for id := range DefaultProviders() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveProvider looks up a provider by ID (case-insensitive).
func ResolveProvider(id string) (Provider, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = ProviderSeaLion
	}
	prov, ok := DefaultProviders()[id]
	if !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (available: %s)", id, strings.Join(ProviderIDs(), ", "))
	}
	return prov, nil
}

// ValidateModel returns the model to use with prov. An empty model selects
// the provider default; a model outside a non-empty allow-list is rejected.
func ValidateModel(prov Provider, model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = prov.Model
	}
	if model == "" {
		return "", fmt.Errorf("provider %s has no default model, a model must be given", prov.ID)
	}
	if len(prov.Models) == 0 {
		return model, nil
	}
	for _, m := range prov.Models {
		if m == model {
			return model, nil
		}
	}
	return "", fmt.Errorf("unsupported model %q for %s (options: %s)", model, prov.Name, strings.Join(prov.Models, ", "))
}

// Validate checks that prov has everything needed to make a call.
func (p Provider) Validate() error {
	switch p.ID {
	case ProviderLambda:
		if p.Function == "" {
			return fmt.Errorf("provider %s requires a function name", p.ID)
		}
	default:
		if p.BaseURL == "" {
			return fmt.Errorf("provider %s requires a base URL", p.ID)
		}
		if p.NeedsKey && p.APIKey == "" {
			return fmt.Errorf("provider %s requires an API key", p.ID)
		}
	}
	return nil
}

// NewInvoker returns the Invoker for prov.
func NewInvoker(ctx context.Context, prov Provider) (Invoker, error) {
	if err := prov.Validate(); err != nil {
		return nil, err
	}
	if prov.ID == ProviderLambda {
		return NewLambdaInvoker(ctx, prov.Function)
	}
	return NewClient(prov), nil
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
