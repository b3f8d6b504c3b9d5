package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/truthly/internal/extract"
	"github.com/abhisek/truthly/internal/news"
)

func addArticleFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Article headline")
	cmd.Flags().String("content", "", "Article body text")
	cmd.Flags().String("url", "", "Fetch the article from a web page")
	cmd.Flags().String("file", "", `Read the article from a file ("-" for stdin); JSON {"title","content"} or plain text`)
	cmd.Flags().Bool("json", false, "Print the verdict as JSON")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsMutuallyExclusive("url", "content")
	cmd.MarkFlagsMutuallyExclusive("file", "content")
}

// readArticle builds the article from whichever input flag was given, then
// validates and clamps it.
func readArticle(cmd *cobra.Command) (news.Article, error) {
	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")
	rawURL, _ := cmd.Flags().GetString("url")
	file, _ := cmd.Flags().GetString("file")

	var article news.Article
	switch {
	case rawURL != "":
		res, err := extract.New(nil).Extract(cmd.Context(), rawURL)
		if err != nil {
			return news.Article{}, fmt.Errorf("extract %s: %w", rawURL, err)
		}
		article = res.Article
	case file != "":
		a, err := readArticleFile(cmd.InOrStdin(), file)
		if err != nil {
			return news.Article{}, err
		}
		article = a
	default:
		article = news.Article{Title: title, Content: content}
	}
	if title != "" {
		article.Title = title
	}

	if err := article.Validate(); err != nil {
		return news.Article{}, err
	}
	return article.Clamp(), nil
}

func readArticleFile(stdin io.Reader, path string) (news.Article, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return news.Article{}, fmt.Errorf("read article: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "{") {
		var a news.Article
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			return news.Article{}, fmt.Errorf("decode article JSON: %w", err)
		}
		return a, nil
	}

	// Plain text: first line is the headline.
	title, body, _ := strings.Cut(text, "\n")
	return news.Article{Title: strings.TrimSpace(title), Content: strings.TrimSpace(body)}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
