package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukits/ragtutor/internal/model"
)

func TestBuildBlockOrder(t *testing.T) {
	retrieved := []model.RetrievedResult{
		{Text: "first chunk", Meta: model.ChunkMeta{Subject: "Physics"}},
		{Text: "second chunk", Meta: model.ChunkMeta{Subject: "Physics"}},
	}
	out := Build("What is torque?", retrieved, "STRATEGY PAYLOAD")

	require.True(t, strings.HasPrefix(out, SystemInstructions))
	require.True(t, strings.HasSuffix(out, "\nAnswer:"))

	positions := []int{
		strings.Index(out, "Context:"),
		strings.Index(out, "[Source 1]\nfirst chunk"),
		strings.Index(out, "[Source 2]\nsecond chunk"),
		strings.Index(out, "STRATEGY PAYLOAD"),
		strings.Index(out, "Question: What is torque?"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "block %d missing", i)
		if i > 0 {
			require.Greater(t, pos, positions[i-1], "block %d out of order", i)
		}
	}
}

func TestBuildWithoutPayload(t *testing.T) {
	out := Build("q", []model.RetrievedResult{{Text: "chunk"}}, "")
	require.Contains(t, out, "[Source 1]\nchunk")
	require.Contains(t, out, "\n\nQuestion: q\nAnswer:")
	require.NotContains(t, out, "\n\n\n")
}

func TestBuildWithEmptyContext(t *testing.T) {
	out := Build("q", nil, "")
	require.Contains(t, out, "Context:\n")
	require.True(t, strings.HasSuffix(out, "Question: q\nAnswer:"))
}

func TestNormalizeSubject(t *testing.T) {
	require.Equal(t, "Physics", NormalizeSubject("physics"))
	require.Equal(t, "Physics", NormalizeSubject("Class 12 Physics"))
	require.Equal(t, "Biology", NormalizeSubject("biology"))
	require.Equal(t, "Biology", NormalizeSubject("bio"))
	require.Equal(t, "Math", NormalizeSubject("Mathematics"))
	require.Equal(t, "Math", NormalizeSubject(""))
}
