// Package prompt builds the chat request sent to a translation provider
// for a single chunk of text.
//
// A request is a system instruction naming the target language plus the
// chunk text as user content. Building is pure: the same chunk and language
// always yield the same request.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is replaced with the target language name in templates.
const Placeholder = "{{targetLang}}"

// DefaultTemplate is the built-in system instruction.
const DefaultTemplate = "You are a precise translator. Translate the following English text into " +
	Placeholder + ". Preserve formatting and line breaks. Output ONLY the translation."

// ErrNoPlaceholder is returned for a template that never names the target
// language.
var ErrNoPlaceholder = errors.New("prompt template has no " + Placeholder + " placeholder")

// ValidateTemplate checks that tmpl embeds the target language. A blank
// template is valid and selects DefaultTemplate.
func ValidateTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" || strings.Contains(tmpl, Placeholder) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNoPlaceholder, truncate(tmpl, 60))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Chat roles used by OpenAI-compatible endpoints.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Request is the payload for one translation call.
type Request struct {
	// System is the instruction with the target language filled in.
	System string
	// Content is the text to translate, passed through unchanged.
	Content string
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages returns the request as a system message followed by a user message.
func (r Request) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: r.System},
		{Role: RoleUser, Content: r.Content},
	}
}

// Builder renders requests from a system template.
// The zero value uses DefaultTemplate. Templates should be checked with
// ValidateTemplate before building.
type Builder struct {
	Template string
}

// Build wraps chunkText into a request for targetLanguage.
func (b Builder) Build(chunkText, targetLanguage string) Request {
	tmpl := b.Template
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}
	return Request{
		System:  strings.ReplaceAll(tmpl, Placeholder, targetLanguage),
		Content: chunkText,
	}
}

// Build wraps chunkText into a request using the default template.
func Build(chunkText, targetLanguage string) Request {
	return Builder{}.Build(chunkText, targetLanguage)
}
