package news

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestArticle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr bool
	}{
		{"both empty", Article{}, true},
		{"whitespace only", Article{Title: "  ", Content: "\n\t"}, true},
		{"title only", Article{Title: "Headline"}, false},
		{"content only", Article{Content: "Body text"}, false},
		{"both set", Article{Title: "Headline", Content: "Body"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEmptyArticle) {
				t.Fatalf("expected ErrEmptyArticle, got %v", err)
			}
		})
	}
}

func TestArticle_Clamp(t *testing.T) {
	a := Article{
		Title:   strings.Repeat("t", 250),
		Content: strings.Repeat("é", 5000),
	}
	c := a.Clamp()
	if n := utf8.RuneCountInString(c.Title); n != MaxTitleLength {
		t.Errorf("title length = %d, want %d", n, MaxTitleLength)
	}
	if n := utf8.RuneCountInString(c.Content); n != MaxContentLength {
		t.Errorf("content length = %d, want %d", n, MaxContentLength)
	}
	if !utf8.ValidString(c.Content) {
		t.Error("clamped content is not valid UTF-8")
	}
}

func TestSourceFailure_Error(t *testing.T) {
	f := Timeout("openai", "deadline exceeded")
	want := "source openai: Timeout: deadline exceeded"
	if f.Error() != want {
		t.Errorf("got %q, want %q", f.Error(), want)
	}
	if RemoteError("x", nil).Detail != "unknown error" {
		t.Error("nil error should produce a placeholder detail")
	}
}

func TestVerdictFor(t *testing.T) {
	if VerdictFor(LabelReal) != VerdictTrustworthy {
		t.Error("Real should map to Trustworthy")
	}
	if VerdictFor(LabelFake) != VerdictUntrustworthy {
		t.Error("Fake should map to Untrustworthy")
	}
}
