package vectorstore

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/model"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
)

const (
	indexFileName    = "index.gob"
	metadataFileName = "metadata.jsonl"
	textsFileName    = "texts.jsonl"
	stateFileName    = "state.json"
)

type fileConfig struct {
	Dir string `json:"dir"`
}

// fileStore keeps the whole corpus in memory and mirrors it into four files
// in one directory: the serialized index, metadata and texts as JSONL (one
// object per line, positionally aligned), and a state file holding the id
// counter. Every mutation rewrites all four via temp-file-then-rename so a
// crash never leaves the index ahead of the metadata.
type fileStore struct {
	mu       sync.Mutex
	dir      string
	embedder ai.IEmbedder

	loaded bool
	index  *flatIndex
	metas  []model.ChunkMeta
	texts  []string
	nextID int64
}

type storeState struct {
	NextID int64 `json:"next_id"`
}

type textLine struct {
	Text string `json:"text"`
}

func init() {
	Register("file", createFileStore)
}

func createFileStore(args interface{}, embedder ai.IEmbedder) (Store, error) {
	cfg := &fileConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("vector_store.dir is required for file store")
	}
	if embedder == nil {
		return nil, fmt.Errorf("file store requires an embedder")
	}
	return &fileStore{dir: cfg.Dir, embedder: embedder}, nil
}

func (s *fileStore) Add(ctx context.Context, chunks []string, metas []model.ChunkMeta) (int, error) {
	if len(chunks) != len(metas) {
		return 0, fmt.Errorf("%w: %d chunks vs %d metadata entries", appErr.ErrInvalid, len(chunks), len(metas))
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return 0, err
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}
	embeddings = normalizeAll(embeddings)

	dim := len(embeddings[0])
	for _, emb := range embeddings {
		if len(emb) != dim {
			return 0, fmt.Errorf("%w: got %d and %d within one batch", appErr.ErrDimensionMismatch, dim, len(emb))
		}
	}
	index := s.index
	if index == nil {
		index = newFlatIndex(dim)
	} else if index.dim != dim {
		return 0, fmt.Errorf("%w: existing %d vs new %d", appErr.ErrDimensionMismatch, index.dim, dim)
	}

	// Build the successor state first; memory is only swapped after the
	// files hit disk, so a persistence failure mutates nothing.
	next := &flatIndex{dim: index.dim, vectors: index.vectors}
	if err := next.add(embeddings); err != nil {
		return 0, err
	}
	newMetas := append(s.metas[:len(s.metas):len(s.metas)], metas...)
	newTexts := append(s.texts[:len(s.texts):len(s.texts)], chunks...)
	nextID := s.nextID
	for i := len(s.metas); i < len(newMetas); i++ {
		newMetas[i].ID = nextID
		nextID++
	}
	if err := s.persistLocked(next, newMetas, newTexts, nextID); err != nil {
		return 0, err
	}
	s.index = next
	s.metas = newMetas
	s.texts = newTexts
	s.nextID = nextID
	logutil.GetLogger(ctx).Info("chunks indexed",
		zap.Int("added", len(chunks)),
		zap.Int("total", next.count()),
		zap.Int("dimension", next.dim),
	)
	return len(chunks), nil
}

func (s *fileStore) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	if s.index == nil || s.index.count() == 0 {
		return nil, nil
	}
	rows := s.index.search(embedding, limit)
	out := make([]ScoredChunk, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScoredChunk{
			Text:  s.texts[row.row],
			Meta:  s.metas[row.row],
			Score: row.score,
		})
	}
	return out, nil
}

func (s *fileStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return 0, err
	}
	if s.index == nil {
		return 0, nil
	}
	return s.index.count(), nil
}

func (s *fileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range []string{indexFileName, metadataFileName, textsFileName, stateFileName} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	s.index = nil
	s.metas = nil
	s.texts = nil
	s.nextID = 0
	s.loaded = true
	logutil.GetLogger(ctx).Info("vector store reset", zap.String("dir", s.dir))
	return nil
}

// ensureLoadedLocked reads the persisted state on first use. A missing
// directory or missing files mean an empty store, not an error.
func (s *fileStore) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	indexPath := filepath.Join(s.dir, indexFileName)
	if f, err := os.Open(indexPath); err == nil {
		index, derr := readFlatIndex(f)
		f.Close()
		if derr != nil {
			return derr
		}
		s.index = index
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("open index: %w", err)
	}

	metas, err := readMetadataFile(filepath.Join(s.dir, metadataFileName))
	if err != nil {
		return err
	}
	texts, err := readTextsFile(filepath.Join(s.dir, textsFileName))
	if err != nil {
		return err
	}
	nextID := int64(len(texts))
	if data, err := os.ReadFile(filepath.Join(s.dir, stateFileName)); err == nil {
		var state storeState
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		nextID = state.NextID
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read state: %w", err)
	}

	count := 0
	if s.index != nil {
		count = s.index.count()
	}
	if count != len(metas) || count != len(texts) {
		return fmt.Errorf("corrupt vector store: %d vectors, %d metadata, %d texts", count, len(metas), len(texts))
	}
	if nextID < int64(len(texts)) {
		return fmt.Errorf("corrupt vector store: next_id %d below chunk count %d", nextID, len(texts))
	}
	s.metas = metas
	s.texts = texts
	s.nextID = nextID
	s.loaded = true
	logutil.GetLogger(ctx).Info("vector store loaded", zap.String("dir", s.dir), zap.Int("chunks", count))
	return nil
}

// persistLocked writes all four files to temp names, then renames them into
// place. Renames happen only after every write succeeded.
func (s *fileStore) persistLocked(index *flatIndex, metas []model.ChunkMeta, texts []string, nextID int64) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	written := make([]string, 0, 4)
	cleanup := func() {
		for _, tmp := range written {
			_ = os.Remove(tmp)
		}
	}

	writeTmp := func(name string, write func(*os.File) error) error {
		tmp := filepath.Join(s.dir, name+".tmp")
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", name, err)
		}
		written = append(written, tmp)
		return nil
	}

	err := writeTmp(indexFileName, func(f *os.File) error { return index.writeTo(f) })
	if err == nil {
		err = writeTmp(metadataFileName, func(f *os.File) error {
			enc := json.NewEncoder(f)
			for _, meta := range metas {
				if err := enc.Encode(meta); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err == nil {
		err = writeTmp(textsFileName, func(f *os.File) error {
			enc := json.NewEncoder(f)
			for _, text := range texts {
				if err := enc.Encode(textLine{Text: text}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err == nil {
		err = writeTmp(stateFileName, func(f *os.File) error {
			return json.NewEncoder(f).Encode(storeState{NextID: nextID})
		})
	}
	if err != nil {
		cleanup()
		return err
	}
	for _, tmp := range written {
		final := tmp[:len(tmp)-len(".tmp")]
		if err := os.Rename(tmp, final); err != nil {
			cleanup()
			return fmt.Errorf("rename %s: %w", filepath.Base(final), err)
		}
	}
	return nil
}

func readMetadataFile(path string) ([]model.ChunkMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	var metas []model.ChunkMeta
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var meta model.ChunkMeta
		if err := json.Unmarshal(line, &meta); err != nil {
			return nil, fmt.Errorf("decode metadata line %d: %w", len(metas)+1, err)
		}
		metas = append(metas, meta)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return metas, nil
}

func readTextsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open texts: %w", err)
	}
	defer f.Close()
	var texts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry textLine
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("decode texts line %d: %w", len(texts)+1, err)
		}
		texts = append(texts, entry.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}
	return texts, nil
}
