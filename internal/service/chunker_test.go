package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTextWindowAdvance(t *testing.T) {
	chunks := ChunkText("abcdefghij", 4, 1)
	require.Equal(t, []string{"abcd", "defg", "ghij"}, chunks)
}

func TestChunkTextShorterThanWindow(t *testing.T) {
	chunks := ChunkText("abc", 800, 120)
	require.Equal(t, []string{"abc"}, chunks)
}

func TestChunkTextExactWindow(t *testing.T) {
	chunks := ChunkText("abcd", 4, 1)
	require.Equal(t, []string{"abcd"}, chunks)
}

func TestChunkTextEmpty(t *testing.T) {
	require.Empty(t, ChunkText("", 800, 120))
}

func TestChunkTextInvalidOverlapIgnored(t *testing.T) {
	chunks := ChunkText("abcdefgh", 4, 4)
	require.Equal(t, []string{"abcd", "efgh"}, chunks)
}

func TestChunkTextMultibyte(t *testing.T) {
	text := strings.Repeat("α", 10)
	chunks := ChunkText(text, 4, 1)
	require.Len(t, chunks, 3)
	for _, chunk := range chunks[:2] {
		require.Equal(t, 4, len([]rune(chunk)))
	}
}

func TestChunkTextOverlapSharesSuffix(t *testing.T) {
	chunks := ChunkText(strings.Repeat("x", 2000), 800, 120)
	require.Len(t, chunks, 3)
	require.Equal(t, 800, len(chunks[0]))
	require.Equal(t, 800, len(chunks[1]))
	// 2000 - (800 + 680) leaves 520 plus the 120 overlap.
	require.Equal(t, 640, len(chunks[2]))
}

func TestInferSubject(t *testing.T) {
	cases := map[string]string{
		"leph101.txt":   "Physics",
		"LEPH202.md":    "Physics",
		"lebo105.txt":   "Biology",
		"lemh101.txt":   "Math",
		"notes.txt":     "General",
		"chemistry.txt": "General",
	}
	for name, want := range cases {
		require.Equal(t, want, InferSubject(name), name)
	}
}

func TestSplitSectionsPlainText(t *testing.T) {
	sections := splitSections("leph101.txt", []byte("line one\nline two"))
	require.Equal(t, []string{"line one\nline two"}, sections)
}

func TestSplitSectionsMarkdownHeadings(t *testing.T) {
	md := "# Electrostatics\n\nCharge is quantized.\n\n## Coulomb's Law\n\nForce between charges.\n\n### Derivation\n\nStill part of the law section.\n"
	sections := splitSections("chapter.md", []byte(md))
	require.Len(t, sections, 2)
	require.Contains(t, sections[0], "Electrostatics")
	require.Contains(t, sections[0], "Charge is quantized.")
	require.Contains(t, sections[1], "Coulomb's Law")
	require.Contains(t, sections[1], "Still part of the law section.")
}

func TestSplitSectionsMarkdownWithoutHeadings(t *testing.T) {
	sections := splitSections("plain.md", []byte("just a paragraph"))
	require.Equal(t, []string{"just a paragraph"}, sections)
}
