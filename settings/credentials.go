// Package settings provides storage for seatrans user settings: provider
// credentials and translation prompt templates.
//
// All settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/seatrans/  (default: ~/.local/share/seatrans/)
//
// Files stored:
//   - auth.json     API keys and endpoints per provider
//   - prompts.json  system prompt templates (customizable by user)
//
// auth.json is a JSON object keyed by provider ID. File permissions are
// 0600 (owner read/write only).
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. provider environment variable (SEA_LION_API_KEY, GROQ_API_KEY, ...)
//     or SEATRANS_API_KEY, after loading a .env file if present
//  3. This credential store
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	dataDirName = "seatrans"
	fileName    = "auth.json"
)

// GenericKeyEnv is checked for every provider after the provider variable.
const GenericKeyEnv = "SEATRANS_API_KEY"

// Info is the entry stored per provider in auth.json.
type Info struct {
	// Type is "api" for API keys, "lambda" for function targets.
	Type string `json:"type"`

	Key string `json:"key,omitempty"`

	// Custom endpoint URL (custom-openai)
	BaseURL string `json:"baseUrl,omitempty"`

	// Function name or ARN (lambda)
	Function string `json:"function,omitempty"`
}

// IsAPI returns true if this is an API key entry.
func (i *Info) IsAPI() bool {
	return i.Type == "api"
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File paths
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for seatrans.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// PromptsFilePath returns the path to prompts.json.
func PromptsFilePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompts.json"), nil
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the entry for a provider, or nil if not found.
func Get(providerID string) *Info {
	return Load()[providerID]
}

// Set stores an entry for a provider (upsert).
func Set(providerID string, info *Info) error {
	store := Load()
	store[providerID] = info
	return Save(store)
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// SetAPIKey stores an API key for a provider.
func SetAPIKey(providerID, key string) error {
	return Set(providerID, &Info{Type: "api", Key: key})
}

// SetAPIKeyWithBaseURL stores an API key and base URL for custom-openai.
func SetAPIKeyWithBaseURL(providerID, key, baseURL string) error {
	return Set(providerID, &Info{Type: "api", Key: key, BaseURL: baseURL})
}

// SetFunction stores the Lambda function used by the lambda provider.
func SetFunction(providerID, function string) error {
	return Set(providerID, &Info{Type: "lambda", Function: function})
}

// GetAPIKey retrieves the stored API key for a provider.
func GetAPIKey(providerID string) string {
	info := Get(providerID)
	if info == nil || !info.IsAPI() {
		return ""
	}
	return info.Key
}

// GetBaseURL retrieves the stored base URL for a provider.
func GetBaseURL(providerID string) string {
	if info := Get(providerID); info != nil {
		return info.BaseURL
	}
	return ""
}

// GetFunction retrieves the stored Lambda function for a provider.
func GetFunction(providerID string) string {
	if info := Get(providerID); info != nil {
		return info.Function
	}
	return ""
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// LoadEnv loads variables from the given .env files (default ".env") into
// the process environment. Variables already set are not overridden and a
// missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading %v: %w", existing, err)
	}
	return nil
}

// EnvVarForProvider returns the provider-specific API key variable.
func EnvVarForProvider(providerID string) string {
	switch providerID {
	case "sealion":
		return "SEA_LION_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	case "custom-openai":
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// ResolveAPIKey returns the API key for a provider following the lookup
// order: flag, environment, credential store.
func ResolveAPIKey(providerID, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := EnvVarForProvider(providerID); env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if v := os.Getenv(GenericKeyEnv); v != "" {
		return v
	}
	return GetAPIKey(providerID)
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
