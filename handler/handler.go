// Package handler provides the AWS Lambda handlers for seatrans.
//
// One function serves two event shapes:
//
//   - document events {text|url, targetLanguage, model, chunkChars,
//     poolSize, bilingual} run the whole pipeline and return
//     {translation, chunks};
//   - chunk events {system, content, model} translate one prompt and
//     return {translation}. This is the shape translate.LambdaInvoker
//     sends, so a document function can fan out to chunk functions.
//
// Failures are reported in the response "error" field rather than as
// Lambda function errors.
package handler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/seatrans/seatrans/dispatch"
	"github.com/seatrans/seatrans/fetch"
	"github.com/seatrans/seatrans/langmeta"
	"github.com/seatrans/seatrans/pipeline"
	"github.com/seatrans/seatrans/prompt"
	"github.com/seatrans/seatrans/settings"
	"github.com/seatrans/seatrans/translate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is a document translation event.
type Request struct {
	Text           string `json:"text,omitempty"`
	URL            string `json:"url,omitempty"`
	TargetLanguage string `json:"targetLanguage"`
	Model          string `json:"model,omitempty"`
	ChunkChars     int    `json:"chunkChars,omitempty"`
	PoolSize       int    `json:"poolSize,omitempty"`
	Bilingual      bool   `json:"bilingual,omitempty"`
}

// Response is the result of a document translation event.
type Response struct {
	Translation string `json:"translation,omitempty"`
	Chunks      int    `json:"chunks,omitempty"`
	Language    string `json:"language,omitempty"`
	Model       string `json:"model,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Handler holds the collaborators shared across invocations.
type Handler struct {
	Provider translate.Provider
	Invoker  translate.Invoker
	Fetch    func(ctx context.Context, source string) (string, error)
	// PoolSize is used when an event does not set poolSize.
	PoolSize int
	Logger   logrus.FieldLogger
}

// New returns a handler translating through inv with the given provider
// settings (used for model validation).
func New(prov translate.Provider, inv translate.Invoker, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Provider: prov,
		Invoker:  inv,
		Fetch:    fetch.Download,
		PoolSize: dispatch.DefaultPoolSize,
		Logger:   logger,
	}
}

// Route decodes a raw event and dispatches it to Handle or HandleChunk.
func (h *Handler) Route(ctx context.Context, event []byte) (any, error) {
	var probe struct {
		System *string `json:"system"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}

	if probe.System != nil {
		var req translate.LambdaRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return nil, fmt.Errorf("decoding chunk event: %w", err)
		}
		return h.HandleChunk(ctx, req)
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("decoding document event: %w", err)
	}
	return h.Handle(ctx, req)
}

// Handle translates a whole document.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	lang, err := langmeta.Lookup(req.TargetLanguage)
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}
	model, err := translate.ValidateModel(h.Provider, req.Model)
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}

	text := req.Text
	switch {
	case text != "" && req.URL != "":
		return &Response{Error: "only one of text and url may be set"}, nil
	case text == "" && req.URL == "":
		return &Response{Error: "text or url is required"}, nil
	case req.URL != "":
		if !fetch.IsURL(req.URL) {
			return &Response{Error: fmt.Sprintf("url must be http or https: %q", req.URL)}, nil
		}
		text, err = h.Fetch(ctx, req.URL)
		if err != nil {
			return &Response{Error: fmt.Sprintf("download failed: %v", err)}, nil
		}
	}

	cfg := pipeline.DefaultConfig(lang.Name, model)
	if req.ChunkChars != 0 {
		cfg.MaxCharsPerChunk = req.ChunkChars
	}
	if req.PoolSize != 0 {
		cfg.PoolSize = req.PoolSize
	} else if h.PoolSize > 0 {
		cfg.PoolSize = h.PoolSize
	}
	cfg.Bilingual = req.Bilingual
	cfg.Logger = h.Logger

	start := time.Now()
	out, err := pipeline.Run(ctx, text, cfg, h.Invoker)
	if err != nil {
		h.Logger.WithError(err).WithField("lang", lang.Name).Warn("translation failed")
		return &Response{Error: err.Error()}, nil
	}
	h.Logger.WithFields(logrus.Fields{
		"lang":    lang.Name,
		"model":   model,
		"chunks":  out.Chunks,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("document translated")

	return &Response{
		Translation: out.Text,
		Chunks:      out.Chunks,
		Language:    lang.Name,
		Model:       model,
	}, nil
}

// HandleChunk translates a single prompt.
func (h *Handler) HandleChunk(ctx context.Context, req translate.LambdaRequest) (*translate.LambdaResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return &translate.LambdaResponse{Error: "content is required"}, nil
	}
	model, err := translate.ValidateModel(h.Provider, req.Model)
	if err != nil {
		return &translate.LambdaResponse{Error: err.Error()}, nil
	}

	out, err := h.Invoker.Invoke(ctx, prompt.Request{System: req.System, Content: req.Content}, model)
	if err != nil {
		return &translate.LambdaResponse{Error: err.Error()}, nil
	}
	return &translate.LambdaResponse{Translation: out}, nil
}

// ---------------------------------------------------------------------------
// Environment wiring
// ---------------------------------------------------------------------------

// Environment variables read by FromEnv.
const (
	EnvProvider = "SEATRANS_PROVIDER"
	EnvBaseURL  = "SEATRANS_BASE_URL"
	EnvPoolSize = "SEATRANS_POOL_SIZE"
)

// FromEnv builds a handler from the function environment. The provider
// defaults to sealion and may not be lambda.
func FromEnv(ctx context.Context, logger logrus.FieldLogger) (*Handler, error) {
	prov, err := translate.ResolveProvider(os.Getenv(EnvProvider))
	if err != nil {
		return nil, err
	}
	if prov.ID == translate.ProviderLambda {
		return nil, fmt.Errorf("%s=%s is not allowed inside a function", EnvProvider, prov.ID)
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		prov.BaseURL = base
	}
	prov.APIKey = settings.ResolveAPIKey(prov.ID, "")

	inv, err := translate.NewInvoker(ctx, prov)
	if err != nil {
		return nil, err
	}
	h := New(prov, inv, logger)
	h.PoolSize = poolSizeFromEnv()
	return h, nil
}

func poolSizeFromEnv() int {
	n, err := strconv.Atoi(os.Getenv(EnvPoolSize))
	if err != nil || n <= 0 {
		return dispatch.DefaultPoolSize
	}
	return n
}
