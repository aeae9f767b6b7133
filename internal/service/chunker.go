package service

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ChunkText splits text into fixed-size character windows with overlap.
// The window advances by size-overlap so adjacent chunks share context.
func ChunkText(s string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(s)
	length := len(runes)
	var chunks []string
	start := 0
	for start < length {
		end := start + size
		if end > length {
			end = length
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == length {
			break
		}
		start = end - overlap
	}
	return chunks
}

// splitSections divides a document into retrievable sections that play the
// role pages play for paginated sources. Markdown is split at level 1 and 2
// headings; anything else is a single section.
func splitSections(filename string, content []byte) []string {
	if !strings.HasSuffix(strings.ToLower(filename), ".md") {
		return []string{string(content)}
	}
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var sections []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(current, "\n\n"))
		if joined != "" {
			sections = append(sections, joined)
		}
		current = nil
	}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level <= 2 {
			flush()
		}
		if txt := nodeText(node, content); txt != "" {
			current = append(current, txt)
		}
	}
	flush()
	if len(sections) == 0 {
		return []string{strings.TrimSpace(string(content))}
	}
	return sections
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			for i := 0; i < t.Lines().Len(); i++ {
				line := t.Lines().At(i)
				sb.Write(line.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// Subject inference from NCERT textbook filename prefixes, used when a
// sweep or CLI ingest has no explicit subject.
var subjectPrefixes = map[string]string{
	"leph": "Physics",
	"lebo": "Biology",
	"lemh": "Math",
}

func InferSubject(filename string) string {
	lower := strings.ToLower(filename)
	for prefix, subject := range subjectPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return subject
		}
	}
	return "General"
}
