// Package renderer turns stored content into safe HTML.
package renderer

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	ugc    = newUGCPolicy()
	strict = bluemonday.StrictPolicy()
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// newUGCPolicy allows what editors produce, plus the classes chroma emits
// for highlighted code.
func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("span", "pre", "code", "div")
	p.AllowAttrs("style").OnElements("span", "p")
	p.AllowStyles("text-align").OnElements("p")
	p.AllowElements("figure", "figcaption")
	return p
}

// NewHTMLWriterWithChroma returns an org writer that highlights source
// blocks with chroma.
func NewHTMLWriterWithChroma() *org.HTMLWriter {
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = func(source, lang string, inline bool, params map[string]string) string {
		var w bytes.Buffer
		lexer := lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			return source
		}
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.Format(&w, styles.Get("friendly"), iterator); err != nil {
			return source
		}
		return w.String()
	}
	return w
}

// OrgToHTML renders org-mode source.
func OrgToHTML(src string) (string, error) {
	out, err := org.New().Parse(strings.NewReader(src), "").Write(NewHTMLWriterWithChroma())
	if err != nil {
		return "", fmt.Errorf("error converting org-mode content to HTML: %w", err)
	}
	return Sanitize(out), nil
}

// MarkdownToHTML renders GitHub flavoured markdown.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("error converting markdown to HTML: %w", err)
	}
	return Sanitize(buf.String()), nil
}

// Sanitize removes scripts, event handlers and other unsafe markup from
// editor HTML.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// StripTags removes all markup and decodes entities.
func StripTags(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// Excerpt returns the text of s cut to n characters, with "..." appended
// when it was cut.
func Excerpt(s string, n int) string {
	text := strings.Join(strings.Fields(StripTags(s)), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
