package news

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Caller-side clamps applied before an article enters the ensemble.
const (
	MaxTitleLength   = 200
	MaxContentLength = 4000
)

// ErrEmptyArticle is returned when both title and content are blank.
var ErrEmptyArticle = errors.New("either title or content is required")

var articleValidate = validator.New()

// Article is the immutable input of one analysis.
type Article struct {
	Title   string `json:"title" validate:"required_without=Content"`
	Content string `json:"content" validate:"required_without=Title"`
}

// Validate rejects articles whose title and content are both empty.
func (a Article) Validate() error {
	trimmed := Article{
		Title:   strings.TrimSpace(a.Title),
		Content: strings.TrimSpace(a.Content),
	}
	if err := articleValidate.Struct(trimmed); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrEmptyArticle
		}
		return err
	}
	return nil
}

// Clamp returns a copy with title and content cut to the caller limits.
func (a Article) Clamp() Article {
	return Article{
		Title:   clampRunes(strings.TrimSpace(a.Title), MaxTitleLength),
		Content: clampRunes(strings.TrimSpace(a.Content), MaxContentLength),
	}
}

func clampRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
