package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild_Default(t *testing.T) {
	req := Build("Hello world.\nSecond line.", "thai")

	want := "You are a precise translator. Translate the following English text into thai. " +
		"Preserve formatting and line breaks. Output ONLY the translation."
	if req.System != want {
		t.Errorf("System = %q, want %q", req.System, want)
	}
	if req.Content != "Hello world.\nSecond line." {
		t.Errorf("Content = %q, chunk text must pass through unchanged", req.Content)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build("Some chunk.", "thai")
	b := Build("Some chunk.", "thai")
	if a != b {
		t.Fatalf("Build is not deterministic: %#v vs %#v", a, b)
	}
	if c := Build("Some chunk.", "tamil"); c == a {
		t.Fatalf("different languages produced identical requests")
	}
}

func TestBuilder_Template(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "empty uses default", template: "", want: strings.ReplaceAll(DefaultTemplate, Placeholder, "vietnamese")},
		{name: "blank uses default", template: "  \n", want: strings.ReplaceAll(DefaultTemplate, Placeholder, "vietnamese")},
		{name: "custom", template: "Into {{targetLang}} please; {{targetLang}} only.", want: "Into vietnamese please; vietnamese only."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Builder{Template: tt.template}.Build("x", "vietnamese")
			if got.System != tt.want {
				t.Errorf("System = %q, want %q", got.System, tt.want)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantErr  bool
	}{
		{name: "empty", template: ""},
		{name: "default", template: DefaultTemplate},
		{name: "custom", template: "Into {{targetLang}}."},
		{name: "no placeholder", template: "Translate.", wantErr: true},
		{name: "misspelled placeholder", template: "Into {{targetlang}}.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplate(tt.template)
			if tt.wantErr {
				if !errors.Is(err, ErrNoPlaceholder) {
					t.Fatalf("ValidateTemplate() = %v, want ErrNoPlaceholder", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateTemplate() error: %v", err)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	msgs := Request{System: "sys", Content: "text"}.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != "sys" {
		t.Errorf("first message = %#v", msgs[0])
	}
	if msgs[1].Role != RoleUser || msgs[1].Content != "text" {
		t.Errorf("second message = %#v", msgs[1])
	}
}

func TestLoadTemplates_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prompts.json")

	tmpl, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("prompts.json was not created: %v", err)
	}
	got, err := tmpl.Get("")
	if err != nil || got != DefaultTemplate {
		t.Fatalf("Get(\"\") = %q, %v", got, err)
	}

	// Second load reads the file back.
	again, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() second call error: %v", err)
	}
	if again.Prompts[TemplateLiterary] != LiteraryTemplate {
		t.Errorf("literary template not persisted: %q", again.Prompts[TemplateLiterary])
	}
}

func TestLoadTemplates_CustomAndFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	data := `{"prompts": {"terse": "To {{targetLang}}.", "default": ""}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() error: %v", err)
	}

	if got, _ := tmpl.Get("terse"); got != "To {{targetLang}}." {
		t.Errorf("Get(terse) = %q", got)
	}
	// An empty override falls back to the built-in template.
	if got, _ := tmpl.Get(TemplateDefault); got != DefaultTemplate {
		t.Errorf("Get(default) = %q, want built-in", got)
	}
	if _, err := tmpl.Get("missing"); err == nil {
		t.Error("Get(missing) expected error")
	}

	names := tmpl.Names()
	want := []string{"default", "literary", "terse"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestLoadTemplates_RejectsTemplateWithoutLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	data := `{"prompts": {"literary": "You are a literary translator. Output ONLY the translation."}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() error: %v", err)
	}
	got, err := tmpl.Get(TemplateLiterary)
	if !errors.Is(err, ErrNoPlaceholder) {
		t.Fatalf("Get(literary) = %q, %v; want ErrNoPlaceholder", got, err)
	}
}

func TestLoadTemplates_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTemplates(path); err == nil {
		t.Fatal("expected parse error")
	}
}
