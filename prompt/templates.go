package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Template names shipped in prompts.json.
const (
	TemplateDefault  = "default"
	TemplateLiterary = "literary"
)

// LiteraryTemplate keeps dialogue and archaic style intact, for books.
const LiteraryTemplate = "You are a literary translator. Translate the following English text into " +
	Placeholder + ". Keep the author's tone, dialogue punctuation, paragraph breaks and line breaks. " +
	"Do not summarize, explain or add notes. Output ONLY the translation."

// Templates holds the system prompts loaded from prompts.json.
type Templates struct {
	Prompts map[string]string `json:"prompts"`
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() *Templates {
	return &Templates{Prompts: map[string]string{
		TemplateDefault:  DefaultTemplate,
		TemplateLiterary: LiteraryTemplate,
	}}
}

// Get returns the named template, falling back to the built-in ones.
func (t *Templates) Get(name string) (string, error) {
	if name == "" {
		name = TemplateDefault
	}
	if t != nil {
		if p, ok := t.Prompts[name]; ok && p != "" {
			if err := ValidateTemplate(p); err != nil {
				return "", fmt.Errorf("prompt template %q: %w", name, err)
			}
			return p, nil
		}
	}
	if p, ok := DefaultTemplates().Prompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown prompt template %q (available: %v)", name, t.Names())
}

// Names lists the available template names, sorted.
func (t *Templates) Names() []string {
	set := make(map[string]bool)
	for name := range DefaultTemplates().Prompts {
		set[name] = true
	}
	if t != nil {
		for name := range t.Prompts {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTemplates reads templates from path. A missing file is created with
// the built-in templates.
func LoadTemplates(path string) (*Templates, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefaultTemplates(path); err != nil {
			return nil, err
		}
		return DefaultTemplates(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var t Templates
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file %s: %w", path, err)
	}
	if t.Prompts == nil {
		t.Prompts = make(map[string]string)
	}
	return &t, nil
}

func writeDefaultTemplates(path string) error {
	data, err := json.MarshalIndent(DefaultTemplates(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling default prompts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating prompts directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing default prompts file: %w", err)
	}
	return nil
}
