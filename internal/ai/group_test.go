package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	answer string
	err    error
	calls  int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.calls++
	return g.answer, g.err
}

type scriptedEmbedder struct {
	vectors [][]float32
	err     error
	calls   int
}

func (e *scriptedEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	res, err := e.EmbedBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (e *scriptedEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	e.calls++
	return e.vectors, e.err
}

func (e *scriptedEmbedder) ModelName() string {
	return "scripted"
}

func TestGroupGeneratorFirstSuccessWins(t *testing.T) {
	first := &scriptedGenerator{answer: "from first"}
	second := &scriptedGenerator{answer: "from second"}
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "first", Generator: first},
		{Name: "second", Generator: second},
	})

	res, err := g.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	require.Equal(t, "from first", res)
	require.Equal(t, 0, second.calls)
}

func TestGroupGeneratorFallsThroughOnError(t *testing.T) {
	first := &scriptedGenerator{err: errors.New("quota exceeded")}
	second := &scriptedGenerator{answer: "backup answer"}
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "first", Generator: first},
		{Name: "second", Generator: second},
	})

	res, err := g.Generate(context.Background(), "prompt", 0.2)
	require.NoError(t, err)
	require.Equal(t, "backup answer", res)
	require.Equal(t, 1, first.calls)
}

func TestGroupGeneratorAllFailReturnsLastError(t *testing.T) {
	lastErr := errors.New("second failed")
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "first", Generator: &scriptedGenerator{err: errors.New("first failed")}},
		{Name: "second", Generator: &scriptedGenerator{err: lastErr}},
	})

	_, err := g.Generate(context.Background(), "prompt", 0.2)
	require.ErrorIs(t, err, lastErr)
}

func TestGroupGeneratorEmptyIsNil(t *testing.T) {
	require.Nil(t, NewGroupGenerator(nil))
}

func TestGroupGeneratorOnlyNilEntriesUnavailable(t *testing.T) {
	g := NewGroupGenerator([]GeneratorEntry{{Name: "empty"}})
	_, err := g.Generate(context.Background(), "prompt", 0.2)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGroupEmbedderFallsThroughOnError(t *testing.T) {
	first := &scriptedEmbedder{err: errors.New("down")}
	second := &scriptedEmbedder{vectors: [][]float32{{1, 2}}}
	g := NewGroupEmbedder([]EmbedderEntry{
		{Name: "first", Embedder: first},
		{Name: "second", Embedder: second},
	})

	res, err := g.EmbedBatch(context.Background(), []string{"text"}, "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1, 2}}, res)
	require.Equal(t, 1, first.calls)
}

func TestGroupEmbedderModelName(t *testing.T) {
	g := NewGroupEmbedder([]EmbedderEntry{
		{Name: "a", Embedder: &scriptedEmbedder{}},
		{Name: "b", Embedder: &scriptedEmbedder{}},
	})
	require.Equal(t, "a|b", g.ModelName())
}
