package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFromDir_Missing(t *testing.T) {
	f, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromDir() error: %v", err)
	}
	if f != nil {
		t.Fatalf("LoadFromDir() = %#v, want nil", f)
	}
}

func TestLoadFromDir_Full(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
provider: SeaLion
language: Thai
model: aisingapore/Llama-SEA-LION-v3-70B-IT
input: book.txt
output: out/thai.txt
chunk_chars: 2000
pool_size: 4
bilingual: true
prompt: literary
proxy: http://proxy:3128
timeout: 90s
`)

	f, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error: %v", err)
	}
	if f.Provider != "sealion" {
		t.Errorf("Provider = %q, want normalized sealion", f.Provider)
	}
	if f.Language != "thai" {
		t.Errorf("Language = %q, want normalized thai", f.Language)
	}
	if f.ChunkChars != 2000 || f.PoolSize != 4 {
		t.Errorf("ChunkChars/PoolSize = %d/%d", f.ChunkChars, f.PoolSize)
	}
	if v, set := f.IsBilingual(); !v || !set {
		t.Errorf("IsBilingual() = %v, %v", v, set)
	}
	if f.TimeoutDuration() != 90*time.Second {
		t.Errorf("TimeoutDuration() = %v", f.TimeoutDuration())
	}
	if f.Prompt != "literary" || f.Output != "out/thai.txt" || f.Input != "book.txt" {
		t.Errorf("unexpected file: %#v", f)
	}
}

func TestLoad_Partial(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "language: vi\n")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Language != "vietnamese" {
		t.Errorf("Language = %q", f.Language)
	}
	if _, set := f.IsBilingual(); set {
		t.Error("bilingual should be unset")
	}
	if f.TimeoutDuration() != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0", f.TimeoutDuration())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "language: [thai\n",
		"bad language":   "language: klingon\n",
		"bad provider":   "provider: skynet\n",
		"negative chunk": "chunk_chars: -5\n",
		"negative pool":  "pool_size: -1\n",
		"bad timeout":    "timeout: soon\n",
		"zero timeout":   "timeout: 0s\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if name != "bad yaml" && !strings.Contains(err.Error(), path) {
				t.Errorf("error %q should name the file", err)
			}
		})
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() of a missing explicit path should fail")
	}
}

func TestNilFileAccessors(t *testing.T) {
	var f *File
	if f.TimeoutDuration() != 0 {
		t.Error("nil TimeoutDuration should be 0")
	}
	if _, set := f.IsBilingual(); set {
		t.Error("nil IsBilingual should be unset")
	}
}
