package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/model"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
	"github.com/edukits/ragtutor/internal/retriever"
	"github.com/edukits/ragtutor/internal/vectorstore"
)

type countingStore struct {
	candidates  []vectorstore.ScoredChunk
	addCalls    int
	searchCalls int
	resetCalls  int
	added       []string
	metas       []model.ChunkMeta
}

func (f *countingStore) Add(ctx context.Context, chunks []string, metas []model.ChunkMeta) (int, error) {
	f.addCalls++
	f.added = append(f.added, chunks...)
	f.metas = append(f.metas, metas...)
	return len(chunks), nil
}

func (f *countingStore) Search(ctx context.Context, embedding []float32, limit int) ([]vectorstore.ScoredChunk, error) {
	f.searchCalls++
	if limit > len(f.candidates) {
		limit = len(f.candidates)
	}
	return f.candidates[:limit], nil
}

func (f *countingStore) Count(ctx context.Context) (int, error) {
	return len(f.candidates), nil
}

func (f *countingStore) Reset(ctx context.Context) error {
	f.resetCalls++
	f.candidates = nil
	return nil
}

type countingEmbedder struct {
	calls int
}

func (f *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	return []float32{1}, nil
}

func (f *countingEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

func (f *countingEmbedder) ModelName() string {
	return "counting"
}

type stubGenerator struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.calls++
	g.prompt = prompt
	return g.answer, g.err
}

func newAnswerService(store *countingStore, embedder *countingEmbedder, gen ai.IGenerator) *AnswerService {
	return NewAnswerService(retriever.New(store, embedder), gen, AnswerConfig{
		DefaultK:           6,
		DefaultTemperature: 0.2,
		IncludeSources:     true,
	})
}

func TestAnswerEmptyQuestionShortCircuits(t *testing.T) {
	store := &countingStore{}
	embedder := &countingEmbedder{}
	gen := &stubGenerator{answer: "unused"}
	svc := newAnswerService(store, embedder, gen)

	_, err := svc.Answer(context.Background(), model.AskRequest{Question: "   "})
	require.ErrorIs(t, err, appErr.ErrEmptyQuestion)
	require.Equal(t, 0, embedder.calls)
	require.Equal(t, 0, store.searchCalls)
	require.Equal(t, 0, gen.calls)
}

func TestAnswerWithoutGenerator(t *testing.T) {
	svc := newAnswerService(&countingStore{}, &countingEmbedder{}, nil)

	result, err := svc.Answer(context.Background(), model.AskRequest{Question: "What is torque?"})
	require.NoError(t, err)
	require.Equal(t, answerNotConfigured, result.Answer)
}

func TestAnswerGeneratorUnavailable(t *testing.T) {
	gen := &stubGenerator{err: ai.ErrUnavailable}
	svc := newAnswerService(&countingStore{}, &countingEmbedder{}, gen)

	result, err := svc.Answer(context.Background(), model.AskRequest{Question: "What is torque?"})
	require.NoError(t, err)
	require.Equal(t, answerNotConfigured, result.Answer)
}

func TestAnswerGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream exploded")}
	svc := newAnswerService(&countingStore{}, &countingEmbedder{}, gen)

	result, err := svc.Answer(context.Background(), model.AskRequest{Question: "What is torque?"})
	require.NoError(t, err)
	require.Equal(t, answerGenerationFailed, result.Answer)
}

func TestAnswerBlankGenerationFallsBack(t *testing.T) {
	gen := &stubGenerator{answer: "  \n "}
	svc := newAnswerService(&countingStore{}, &countingEmbedder{}, gen)

	result, err := svc.Answer(context.Background(), model.AskRequest{Question: "What is torque?"})
	require.NoError(t, err)
	require.Equal(t, answerGenerationFailed, result.Answer)
}

func TestAnswerReportsStrategyAndSources(t *testing.T) {
	store := &countingStore{
		candidates: []vectorstore.ScoredChunk{
			{
				Text:  "Torque is the moment of force.",
				Meta:  model.ChunkMeta{Subject: "Physics", Source: "leph101.txt", Page: 7, ID: 3},
				Score: 0.95,
			},
		},
	}
	gen := &stubGenerator{answer: "Torque is r cross F."}
	svc := newAnswerService(store, &countingEmbedder{}, gen)

	result, err := svc.Answer(context.Background(), model.AskRequest{
		Question:          "Calculate the torque on the rod.",
		Subject:           "Physics",
		UseDynamic:        true,
		UseChainOfThought: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Torque is r cross F.", result.Answer)
	require.Equal(t, "dynamic", result.Strategy)
	require.True(t, result.UsedDynamic)
	require.True(t, result.UsedChainOfThought)
	require.False(t, result.UsedZeroShot)
	require.Equal(t, "problem_solving", result.QuestionType)
	require.Equal(t, 6, result.UsedK)
	require.InDelta(t, 0.2, float64(result.Temperature), 1e-6)
	require.Len(t, result.Sources, 1)
	require.Equal(t, "leph101.txt", result.Sources[0].Source)
	require.Equal(t, 7, result.Sources[0].Page)
	require.Contains(t, gen.prompt, "[Source 1]\nTorque is the moment of force.")
	require.Contains(t, gen.prompt, "Question: Calculate the torque on the rod.")
}

func TestAnswerHonorsRequestOverrides(t *testing.T) {
	temp := float32(0.9)
	gen := &stubGenerator{answer: "ok"}
	svc := newAnswerService(&countingStore{}, &countingEmbedder{}, gen)

	result, err := svc.Answer(context.Background(), model.AskRequest{
		Question:    "What is torque?",
		K:           2,
		Temperature: &temp,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.UsedK)
	require.InDelta(t, 0.9, float64(result.Temperature), 1e-6)
}
