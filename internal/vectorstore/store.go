package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/config"
	"github.com/edukits/ragtutor/internal/model"
)

// ScoredChunk is one nearest-neighbor hit. Score is the inner product of
// unit vectors, i.e. cosine similarity.
type ScoredChunk struct {
	Text  string
	Meta  model.ChunkMeta
	Score float32
}

// Store owns the chunk texts, their metadata and the vector index as one
// persistent unit. Add embeds the batch itself so stored vectors always come
// from the same embedder the retriever queries with.
type Store interface {
	Add(ctx context.Context, chunks []string, metas []model.ChunkMeta) (int, error)
	Search(ctx context.Context, embedding []float32, limit int) ([]ScoredChunk, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

type Factory func(args interface{}, embedder ai.IEmbedder) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.VectorStoreConfig, embedder ai.IEmbedder) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("vector_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported vector store type: %s", cfg.Type)
	}
	return factory(cfg.Data, embedder)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("vector store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode vector store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode vector store config: %w", err)
	}
	return nil
}

const normEpsilon = 1e-12

// Normalize returns the unit-length copy of vec. The epsilon keeps the
// all-zero vector from dividing by zero.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum) + normEpsilon
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func normalizeAll(vecs [][]float32) [][]float32 {
	out := make([][]float32, 0, len(vecs))
	for _, v := range vecs {
		out = append(out, Normalize(v))
	}
	return out
}
