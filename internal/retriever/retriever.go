package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/model"
	"github.com/edukits/ragtutor/internal/vectorstore"
)

// Retriever embeds a question and ranks index chunks against it. Subject
// filtering happens after the index search, over an oversampled candidate
// pool, so a single index query serves both filtered and unfiltered paths.
type Retriever struct {
	store    vectorstore.Store
	embedder ai.IEmbedder
}

func New(store vectorstore.Store, embedder ai.IEmbedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// poolSize oversamples by 10x (floor 50) so that a subject filter rarely
// under-fills the result on a reasonably balanced corpus.
func poolSize(k, total int) int {
	pool := k * 10
	if pool < 50 {
		pool = 50
	}
	if pool > total {
		pool = total
	}
	return pool
}

// Search returns up to k chunks ranked by similarity. An empty query or an
// empty index yields an empty result, not an error. When subject is set,
// matching chunks are preferred; if the pool cannot fill k with matches the
// remainder is backfilled with off-subject candidates in score order, so the
// caller always sees k results when the index holds that many.
func (r *Retriever) Search(ctx context.Context, query string, k int, subject string) ([]model.RetrievedResult, error) {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil, nil
	}
	total, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count index: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	embedding, err := r.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embedding = vectorstore.Normalize(embedding)

	pool := poolSize(k, total)
	candidates, err := r.store.Search(ctx, embedding, pool)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]model.RetrievedResult, 0, k)
	seen := make(map[int64]bool, k)
	for _, cand := range candidates {
		if subject != "" && cand.Meta.Subject != subject {
			continue
		}
		results = append(results, toResult(cand))
		seen[cand.Meta.ID] = true
		if len(results) >= k {
			break
		}
	}
	if len(results) < k && subject != "" {
		for _, cand := range candidates {
			if seen[cand.Meta.ID] {
				continue
			}
			results = append(results, toResult(cand))
			seen[cand.Meta.ID] = true
			if len(results) >= k {
				break
			}
		}
		logutil.GetLogger(ctx).Debug("subject filter backfilled",
			zap.String("subject", subject),
			zap.Int("k", k),
			zap.Int("pool", len(candidates)),
		)
	}
	return results, nil
}

func toResult(cand vectorstore.ScoredChunk) model.RetrievedResult {
	return model.RetrievedResult{
		Text:     cand.Text,
		Meta:     cand.Meta,
		Distance: 1 - cand.Score,
	}
}
