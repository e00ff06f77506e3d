// Package parser reads and writes the Markdown files that hold news articles.
package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// summaryRunes caps the summary derived from the body.
const summaryRunes = 200

// FrontMatter is the YAML header of an article file.
type FrontMatter struct {
	Title     string `yaml:"title"`
	Kategori  string `yaml:"kategori,omitempty"`
	Status    string `yaml:"status,omitempty"`
	Tanggal   string `yaml:"tanggal,omitempty"`
	Ringkasan string `yaml:"ringkasan,omitempty"`
}

// Article is a parsed article file.
type Article struct {
	FrontMatter
	// HasFrontMatter is false when the header was missing or unreadable.
	HasFrontMatter bool
	Body           string
}

// ParseArticle splits front matter and body. A missing title falls back to
// the first H1 and a missing summary to the first paragraph. Invalid YAML is
// not an error: the whole file is treated as body.
func ParseArticle(data []byte) (*Article, error) {
	fm, body, ok := splitFrontMatter(data)
	a := &Article{FrontMatter: fm, HasFrontMatter: ok, Body: body}
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		a.Title = firstHeading(body)
	}
	if a.Ringkasan == "" {
		a.Ringkasan = firstParagraph(body)
	}
	a.Status = strings.ToLower(strings.TrimSpace(a.Status))
	a.Kategori = strings.TrimSpace(a.Kategori)
	a.Tanggal = strings.TrimSpace(a.Tanggal)
	return a, nil
}

// Render serialises an article back to front matter plus body.
func Render(fm FrontMatter, body string) ([]byte, error) {
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n")
	buf.WriteString(strings.TrimLeft(body, "\n\r"))
	if body != "" && !strings.HasSuffix(body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func splitFrontMatter(data []byte) (FrontMatter, string, bool) {
	const delim = "---"
	var fm FrontMatter
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data), false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, string(data), false
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(after), "\n\r")

	if err := yaml.Unmarshal(block, &fm); err != nil {
		return FrontMatter{}, string(data), false
	}
	return fm, body, true
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// firstParagraph returns the first non-heading text block, flattened to one
// line and cut to summaryRunes.
func firstParagraph(body string) string {
	var parts []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if len(parts) > 0 {
				return truncate(strings.Join(parts, " "))
			}
		case strings.HasPrefix(trimmed, "#"):
			if len(parts) > 0 {
				return truncate(strings.Join(parts, " "))
			}
		default:
			parts = append(parts, trimmed)
		}
	}
	return truncate(strings.Join(parts, " "))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= summaryRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:summaryRunes])) + "…"
}
