package sources

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"short", "Short text.", 100, "Short text."},
		{"exact", "abcde", 5, "abcde"},
		{"no terminator", "abcdefghij", 5, "abcde..."},
		{"early terminator", "Hi. abcdefghijklmnop", 10, "Hi. abcdef..."},
		{"late terminator", "abcdefgh. ijklmnop", 10, "abcdefgh."},
		{"question", "abcdefgh? ijklmnop", 10, "abcdefgh?"},
		{"zero limit", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncate_LongInputStaysNearLimit(t *testing.T) {
	text := strings.Repeat("word ", 200)
	got := Truncate(text, 400)
	if n := utf8.RuneCountInString(got); n > 403 {
		t.Errorf("len = %d, want <= 403", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}

	sentences := strings.Repeat("This is a sentence. ", 50)
	got = Truncate(sentences, 400)
	if n := utf8.RuneCountInString(got); n > 400 {
		t.Errorf("len = %d, want <= 400", n)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("expected sentence boundary, got %q", got)
	}
}

func TestTruncate_Multibyte(t *testing.T) {
	text := strings.Repeat("é", 20)
	got := Truncate(text, 10)
	if got != strings.Repeat("é", 10)+"..." {
		t.Errorf("got %q", got)
	}
}

func TestTruncate_ThousandToFourHundred(t *testing.T) {
	// Terminator at rune 300, past the 280 threshold.
	withStop := strings.Repeat("a", 300) + "." + strings.Repeat("b", 699)
	got := Truncate(withStop, 400)
	if want := strings.Repeat("a", 300) + "."; got != want {
		t.Errorf("got %d runes ending %q, want cut at the terminator", utf8.RuneCountInString(got), got[len(got)-5:])
	}
	if n := utf8.RuneCountInString(got); n > 400 {
		t.Errorf("len = %d, want <= 400", n)
	}

	plain := strings.Repeat("x", 1000)
	got = Truncate(plain, 400)
	if want := strings.Repeat("x", 400) + "..."; got != want {
		t.Errorf("got %d runes, want the first 400 plus an ellipsis", utf8.RuneCountInString(got))
	}
	if n := utf8.RuneCountInString(got); n != 403 {
		t.Errorf("len = %d, want 403", n)
	}
}
