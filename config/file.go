// Package config loads .seatrans.yaml configuration files.
//
// A .seatrans.yaml file in the working directory (or one passed with
// --config) supplies defaults for the translate and chunk commands.
// Flags given explicitly on the command line always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seatrans/seatrans/langmeta"
	"github.com/seatrans/seatrans/translate"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .seatrans.yaml structure. Zero values mean
// "not set".
type File struct {
	// Provider is the translation backend ID (default "sealion").
	Provider string `yaml:"provider,omitempty"`
	// Language is the target language name or code.
	Language string `yaml:"language,omitempty"`
	// Model is the model identifier.
	Model string `yaml:"model,omitempty"`
	// Input is the source URL or file path.
	Input string `yaml:"input,omitempty"`
	// Output is the output file path.
	Output string `yaml:"output,omitempty"`
	// ChunkChars is the chunk budget in characters.
	ChunkChars int `yaml:"chunk_chars,omitempty"`
	// PoolSize is the number of concurrent requests.
	PoolSize int `yaml:"pool_size,omitempty"`
	// Bilingual interleaves source and translation. Nil means unset.
	Bilingual *bool `yaml:"bilingual,omitempty"`
	// Prompt is the prompt template name from prompts.json.
	Prompt string `yaml:"prompt,omitempty"`

	// --- provider overrides ---

	// BaseURL overrides the provider API base URL.
	BaseURL string `yaml:"base_url,omitempty"`
	// Function is the Lambda function (lambda provider).
	Function string `yaml:"function,omitempty"`
	// Proxy is an HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
	// Timeout is the per-request timeout, e.g. "90s".
	Timeout string `yaml:"timeout,omitempty"`

	// timeout is the parsed Timeout.
	timeout time.Duration
}

// FileName is the default config file name.
const FileName = ".seatrans.yaml"

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// LoadFromDir loads .seatrans.yaml from dir. Returns nil if it doesn't exist.
func LoadFromDir(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return Load(path)
}

// Load reads and validates the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate(path string) error {
	if f.Provider != "" {
		prov, err := translate.ResolveProvider(f.Provider)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		f.Provider = prov.ID
	}
	if f.Language != "" {
		lang, err := langmeta.Lookup(f.Language)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		f.Language = lang.Name
	}
	if f.ChunkChars < 0 {
		return fmt.Errorf("%s: chunk_chars must be positive, got %d", path, f.ChunkChars)
	}
	if f.PoolSize < 0 {
		return fmt.Errorf("%s: pool_size must be positive, got %d", path, f.PoolSize)
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s: invalid timeout %q", path, f.Timeout)
		}
		f.timeout = d
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, or 0 when unset.
func (f *File) TimeoutDuration() time.Duration {
	if f == nil {
		return 0
	}
	return f.timeout
}

// IsBilingual reports the bilingual setting and whether it was set.
func (f *File) IsBilingual() (value, set bool) {
	if f == nil || f.Bilingual == nil {
		return false, false
	}
	return *f.Bilingual, true
}
