package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const sample = `It was a bright cold day in April, and the clocks were striking thirteen. ` +
	`Winston Smith, his chin nuzzled into his breast, slipped quickly through the glass doors! ` +
	`Did he hear something? The hallway smelt of boiled cabbage and old rag mats.
At one end of it a coloured poster, too large for indoor display, had been tacked to the wall. ` +
	`It depicted simply an enormous face, more than a metre wide. Short. Shorter! Ok?`

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: " \n\t ", want: nil},
		{name: "no terminator", text: "Hello world", want: []string{"Hello world"}},
		{
			name: "mixed terminators",
			text: "Hello world! How are you? Fine.",
			want: []string{"Hello world!", "How are you?", "Fine."},
		},
		{
			name: "newline is a boundary",
			text: "First line.\n\nSecond line.",
			want: []string{"First line.", "Second line."},
		},
		{
			name: "punctuation without whitespace does not split",
			text: "Version 1.2.3 is out. See www.example.com now.",
			want: []string{"Version 1.2.3 is out.", "See www.example.com now."},
		},
		{
			name: "trailing whitespace dropped",
			text: "One. Two.   ",
			want: []string{"One.", "Two."},
		},
		{
			name: "no-break space is a boundary",
			text: "Hello.\u00a0World.",
			want: []string{"Hello.", "World."},
		},
		{
			name: "unicode and vertical whitespace",
			text: "One!\u3000Two?\vThree.\u2028Four.",
			want: []string{"One!", "Two?", "Three.", "Four."},
		},
		{
			name: "ellipsis",
			text: "Wait... what? Yes.",
			want: []string{"Wait...", "what?", "Yes."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplit_ConcreteScenario(t *testing.T) {
	chunks, err := Split("Hello world! How are you? Fine.", 10)
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}

	want := []string{"Hello world!", "How are you?", "Fine."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %#v", len(chunks), len(want), chunks)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has Index %d", i, c.Index)
		}
		if c.Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, c.Text, want[i])
		}
		if c.CharLength != utf8.RuneCountInString(want[i]) {
			t.Errorf("chunk %d CharLength = %d, want %d", i, c.CharLength, utf8.RuneCountInString(want[i]))
		}
	}
}

func TestSplit_PacksSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{
			name:     "everything fits",
			text:     "One. Two. Three.",
			maxChars: 100,
			want:     []string{"One. Two. Three."},
		},
		{
			name: "separator counted per sentence",
			// "One." + 1 = 5, "Two." + 1 = 5 -> 10 fits exactly
			text:     "One. Two. Six.",
			maxChars: 10,
			want:     []string{"One. Two.", "Six."},
		},
		{
			name:     "oversize sentence stands alone between small ones",
			text:     "Hi. " + strings.Repeat("a", 30) + ". Yo.",
			maxChars: 12,
			want:     []string{"Hi.", strings.Repeat("a", 30) + ".", "Yo."},
		},
		{
			name:     "multi-line sentences are joined with a space",
			text:     "Line one.\nLine two.",
			maxChars: 100,
			want:     []string{"Line one. Line two."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.maxChars)
			if err != nil {
				t.Fatalf("Split() error: %v", err)
			}
			var got []string
			for _, c := range chunks {
				got = append(got, c.Text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q, %d) = %#v, want %#v", tt.text, tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		chunks, err := Split(text, 10)
		if err != nil {
			t.Fatalf("Split(%q) error: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestSplit_InvalidBudget(t *testing.T) {
	for _, max := range []int{0, -1, -3500} {
		_, err := Split("Hello.", max)
		if err == nil {
			t.Fatalf("Split(max=%d) expected error", max)
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Split(max=%d) error %T is not *ConfigError", max, err)
		}
		if cfgErr.Value != max {
			t.Errorf("ConfigError.Value = %d, want %d", cfgErr.Value, max)
		}
		if !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("Split(max=%d) error does not wrap ErrInvalidBudget", max)
		}
	}
}

func TestSplit_BudgetHolds(t *testing.T) {
	for _, max := range []int{1, 5, 20, 40, 80, 150, 400, 5000} {
		chunks, err := Split(sample, max)
		if err != nil {
			t.Fatalf("Split(max=%d) error: %v", max, err)
		}
		for _, c := range chunks {
			if c.CharLength <= max {
				continue
			}
			if n := len(Sentences(c.Text)); n != 1 {
				t.Errorf("max=%d: chunk %d has %d chars and %d sentences; only single-sentence chunks may overflow",
					max, c.Index, c.CharLength, n)
			}
		}
	}
}

func TestSplit_NoContentLoss(t *testing.T) {
	for _, max := range []int{1, 30, 120, 5000} {
		chunks, err := Split(sample, max)
		if err != nil {
			t.Fatalf("Split(max=%d) error: %v", max, err)
		}
		var got []string
		for _, c := range chunks {
			got = append(got, Sentences(c.Text)...)
		}
		want := Sentences(sample)
		if len(got) != len(want) {
			t.Fatalf("max=%d: got %d sentences back, want %d", max, len(got), len(want))
		}
		for i := range want {
			if strings.Join(strings.Fields(got[i]), " ") != strings.Join(strings.Fields(want[i]), " ") {
				t.Errorf("max=%d: sentence %d = %q, want %q", max, i, got[i], want[i])
			}
		}
	}
}

func TestSplit_CountMonotonic(t *testing.T) {
	prev := -1
	// Walk budgets from large to small: chunk count never decreases.
	for max := 600; max >= 1; max -= 7 {
		chunks, err := Split(sample, max)
		if err != nil {
			t.Fatalf("Split(max=%d) error: %v", max, err)
		}
		if prev >= 0 && len(chunks) < prev {
			t.Fatalf("max=%d produced %d chunks, fewer than %d at a larger budget", max, len(chunks), prev)
		}
		prev = len(chunks)
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	// 5 runes + terminator, but 16 bytes in UTF-8.
	text := "สวัสดี. สวัสดี."
	chunks, err := Split(text, 16)
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 (rune counting): %#v", len(chunks), chunks)
	}
}

func TestStats(t *testing.T) {
	chunks := []Chunk{
		{Index: 0, Text: "abc", CharLength: 3},
		{Index: 1, Text: strings.Repeat("x", 12), CharLength: 12},
		{Index: 2, Text: "de", CharLength: 2},
	}
	got := Stats(chunks, 10)
	want := Summary{Chunks: 3, TotalChars: 17, Largest: 12, Oversize: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
