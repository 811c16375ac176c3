// Package markdown parses and serializes the experience document format:
// a YAML frontmatter block followed by a free-text markdown body, with an
// optional embedded Q&A section used during refinement.
package markdown

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	meta "github.com/yuin/goldmark-meta"
	"gopkg.in/yaml.v3"
)

// Document is a parsed experience file: frontmatter metadata plus body text.
type Document struct {
	Meta Meta
	Body string
}

const frontmatterDelimiter = "---"

// maxFallbackTitleLen caps the first-line fallback of ExtractTitle.
const maxFallbackTitleLen = 50

// Parse splits a document into frontmatter metadata and body. A document
// without a frontmatter block yields empty metadata and the full text as
// body. Malformed YAML frontmatter is an error naming the document.
func Parse(name, raw string) (Document, error) {
	if !hasFrontmatter(raw) {
		return Document{Meta: Meta{}, Body: raw}, nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(raw), &buf, parser.WithContext(pctx)); err != nil {
		return Document{}, errors.Wrapf(err, "failed to parse document %q", name)
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return Document{}, errors.Wrapf(err, "malformed frontmatter in %q", name)
	}

	return Document{
		Meta: normalizeMeta(metaData),
		Body: stripFrontmatter(raw),
	}, nil
}

// Serialize is the inverse of Parse. Empty metadata yields the bare body.
func Serialize(body string, metadata Meta) (string, error) {
	if len(metadata) == 0 {
		return body, nil
	}

	encoded, err := yaml.Marshal(map[string]interface{}(metadata))
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize frontmatter")
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.Write(encoded)
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// ExtractTitle returns the text of the first level-1 heading. If the body
// has no such heading, the first line truncated to 50 runes is returned.
// An empty body yields an empty string.
func ExtractTitle(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}

	source := []byte(body)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			title = string(heading.Text(source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if title != "" {
		return title
	}

	firstLine := strings.TrimSpace(strings.SplitN(trimmed, "\n", 2)[0])
	runes := []rune(firstLine)
	if len(runes) > maxFallbackTitleLen {
		return string(runes[:maxFallbackTitleLen])
	}
	return firstLine
}

func hasFrontmatter(raw string) bool {
	return strings.HasPrefix(raw, frontmatterDelimiter+"\n") ||
		strings.HasPrefix(raw, frontmatterDelimiter+"\r\n")
}

// stripFrontmatter removes the leading YAML block and returns the body
func stripFrontmatter(raw string) string {
	lines := strings.Split(raw, "\n")
	end := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			end = i
			break
		}
	}

	if end == -1 {
		return raw
	}

	return strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
}
