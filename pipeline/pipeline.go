// Package pipeline runs a whole document through chunking, concurrent
// translation and ordered assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seatrans/seatrans/assemble"
	"github.com/seatrans/seatrans/chunker"
	"github.com/seatrans/seatrans/dispatch"
	"github.com/seatrans/seatrans/prompt"
	"github.com/seatrans/seatrans/translate"
)

// ErrNoLanguage is returned when no target language is configured.
var ErrNoLanguage = errors.New("target language is required")

// Config holds the settings for one run.
type Config struct {
	// TargetLanguage is the language name embedded in the prompt.
	TargetLanguage string
	// Model is passed to the invoker unchanged.
	Model string
	// MaxCharsPerChunk is the chunk budget in characters (default 3500).
	MaxCharsPerChunk int
	// PoolSize is the maximum number of concurrent calls (default 8).
	PoolSize int
	// Bilingual interleaves each original chunk with its translation.
	Bilingual bool
	// Template is the system prompt template. Empty uses the default.
	Template string

	// OnChunks is called once after chunking, before any remote call.
	OnChunks func(chunks []chunker.Chunk)
	// OnProgress is called after each chunk is translated.
	OnProgress func(done, total int)
	// Logger receives debug logs. Nil discards them.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a config with the default budget and pool size.
func DefaultConfig(targetLanguage, model string) Config {
	return Config{
		TargetLanguage:   targetLanguage,
		Model:            model,
		MaxCharsPerChunk: chunker.DefaultMaxChars,
		PoolSize:         dispatch.DefaultPoolSize,
	}
}

// Validate checks the config before any work starts.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TargetLanguage) == "" {
		return ErrNoLanguage
	}
	if c.MaxCharsPerChunk <= 0 {
		return &chunker.ConfigError{Field: "max chars per chunk", Value: c.MaxCharsPerChunk, Err: chunker.ErrInvalidBudget}
	}
	if c.PoolSize <= 0 {
		return &chunker.ConfigError{Field: "pool size", Value: c.PoolSize, Err: dispatch.ErrInvalidPoolSize}
	}
	return prompt.ValidateTemplate(c.Template)
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Outcome is the result of a successful run.
type Outcome struct {
	// Text is the assembled document.
	Text string
	// Chunks is the number of chunks translated.
	Chunks int
	// SourceChars is the total character count of all chunks.
	SourceChars int
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Run translates text with inv. Any failure aborts the run and no partial
// text is returned.
func Run(ctx context.Context, text string, cfg Config, inv translate.Invoker) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("pipeline: no invoker configured")
	}

	start := time.Now()
	log := cfg.logger().WithFields(logrus.Fields{"lang": cfg.TargetLanguage, "model": cfg.Model})

	chunks, err := chunker.Split(text, cfg.MaxCharsPerChunk)
	if err != nil {
		return nil, err
	}
	stats := chunker.Stats(chunks, cfg.MaxCharsPerChunk)
	log.WithFields(logrus.Fields{
		"chunks":   stats.Chunks,
		"chars":    stats.TotalChars,
		"largest":  stats.Largest,
		"oversize": stats.Oversize,
	}).Debug("text chunked")
	if cfg.OnChunks != nil {
		cfg.OnChunks(chunks)
	}

	table, err := dispatch.Run(ctx, chunks, dispatch.Options{
		Language:   cfg.TargetLanguage,
		Model:      cfg.Model,
		PoolSize:   cfg.PoolSize,
		Invoker:    inv,
		Builder:    prompt.Builder{Template: cfg.Template},
		OnProgress: cfg.OnProgress,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("translating: %w", err)
	}

	out, err := assemble.Assemble(table, len(chunks), cfg.Bilingual)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	log.WithField("elapsed", elapsed.Round(time.Millisecond)).Debug("pipeline finished")
	return &Outcome{
		Text:        out,
		Chunks:      len(chunks),
		SourceChars: stats.TotalChars,
		Elapsed:     elapsed,
	}, nil
}
