// Package extract fetches a web page and pulls out the article it carries.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/abhisek/truthly/internal/news"
)

// ErrInsufficientContent is returned when a page has too little text to be
// analyzed.
var ErrInsufficientContent = errors.New("insufficient content extracted")

const (
	userAgent      = "Mozilla/5.0 (compatible; truthly/1.0; +https://github.com/abhisek/truthly)"
	minContentLen  = 150
	minParagraph   = 30
	minContentRune = 100
	minWords       = 20
)

// noise is removed before any text is read.
const noise = "script, style, nav, header, footer, aside, noscript, iframe, " +
	".advertisement, .ads, .ad, .promo, .social-share, .social, .share, .comments, " +
	".related-articles, .sidebar, .newsletter, .subscription, .menu, .navigation, " +
	".trending, .recommended"

// contentSelectors are tried in order; the first yielding enough text wins.
var contentSelectors = []string{
	"article .content, article .body, article .text",
	".article-body, .article-content, .article-text",
	".story-content, .story-body, .story-text",
	".post-content, .post-body, .post-text",
	".entry-content, .entry-body",
	`[data-module="ArticleBody"]`,
	"main article, main .content",
	".content .text, .main-content",
	"article", ".content", "main",
}

// siteSuffix matches trailing " | Site Name" style decorations.
var siteSuffix = regexp.MustCompile(`\s+[|\-–]\s+.*$`)

// Result is an extracted article plus how it was found.
type Result struct {
	Article   news.Article
	URL       string
	Selector  string
	WordCount int
}

// Extractor downloads pages.
type Extractor struct {
	client *http.Client
}

// New creates an extractor. A nil client gets a 10s timeout.
func New(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Extractor{client: client}
}

// Extract fetches rawURL and returns its title and body text, clamped to
// article limits.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid URL format: %s", rawURL)
	}

	doc, err := e.fetchDocument(ctx, u.String())
	if err != nil {
		return nil, err
	}

	res := Parse(doc)
	res.URL = u.String()
	if res.WordCount <= minWords || len([]rune(res.Article.Content)) <= minContentRune {
		return nil, fmt.Errorf("%w (%d words)", ErrInsufficientContent, res.WordCount)
	}
	return res, nil
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// Parse extracts an article from an already loaded document.
func Parse(doc *goquery.Document) *Result {
	doc.Find(noise).Remove()

	res := &Result{}
	title := firstNonEmpty(
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find(`meta[name="twitter:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
	title = siteSuffix.ReplaceAllString(strings.TrimSpace(title), "")

	var content string
	for _, sel := range contentSelectors {
		var parts []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		candidate := collapse(strings.Join(parts, " "))
		if len(candidate) > minContentLen {
			content, res.Selector = candidate, sel
			break
		}
	}

	if content == "" {
		var paragraphs []string
		doc.Find("body p").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); len(text) > minParagraph {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			content, res.Selector = collapse(strings.Join(paragraphs, " ")), "body paragraphs"
		} else {
			content, res.Selector = collapse(doc.Find("body").Text()), "body"
		}
	}

	res.Article = news.Article{Title: title, Content: content}.Clamp()
	for _, w := range strings.Fields(res.Article.Content) {
		if len([]rune(w)) > 2 {
			res.WordCount++
		}
	}
	return res
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
