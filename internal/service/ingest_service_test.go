package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
)

type memFile struct {
	*bytes.Reader
}

func (m *memFile) Close() error {
	return nil
}

func newMemFile(content string) *memFile {
	return &memFile{Reader: bytes.NewReader([]byte(content))}
}

func newTestIngestService(store *countingStore, readOnly bool) *IngestService {
	return NewIngestService(store, nil, IngestConfig{
		ChunkSize:    800,
		ChunkOverlap: 120,
		ReadOnly:     readOnly,
	})
}

func TestIngestReadOnly(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, true)

	_, err := svc.Ingest(context.Background(), "Physics", []IngestFile{{Name: "leph101.txt", Reader: newMemFile("text"), Size: 4}})
	require.ErrorIs(t, err, appErr.ErrReadOnly)

	_, err = svc.IngestContent(context.Background(), "Physics", "leph101.txt", []byte("text"))
	require.ErrorIs(t, err, appErr.ErrReadOnly)

	require.ErrorIs(t, svc.Reset(context.Background()), appErr.ErrReadOnly)
	require.Equal(t, 0, store.addCalls)
	require.Equal(t, 0, store.resetCalls)
}

func TestIngestContentChunksAndTagsMetadata(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, false)

	content := bytes.Repeat([]byte("a"), 1000)
	added, err := svc.IngestContent(context.Background(), "Physics", "leph101.txt", content)
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Len(t, store.added, 2)
	require.Equal(t, "Physics", store.metas[0].Subject)
	require.Equal(t, "leph101.txt", store.metas[0].Source)
	require.Equal(t, 1, store.metas[0].Page)
}

func TestIngestContentInfersSubjectFromFilename(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, false)

	_, err := svc.IngestContent(context.Background(), "", "lebo105.txt", []byte("cells divide"))
	require.NoError(t, err)
	require.Equal(t, "Biology", store.metas[0].Subject)
}

func TestIngestContentEmptyIsNoop(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, false)

	added, err := svc.IngestContent(context.Background(), "Physics", "leph101.txt", []byte("   \n "))
	require.NoError(t, err)
	require.Equal(t, 0, added)
	require.Equal(t, 0, store.addCalls)
}

func TestIngestContentSplitsMarkdownSections(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, false)

	md := "# One\n\nfirst section body\n\n# Two\n\nsecond section body"
	added, err := svc.IngestContent(context.Background(), "Physics", "chapter.md", []byte(md))
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Equal(t, 1, store.metas[0].Page)
	require.Equal(t, 2, store.metas[1].Page)
}

func TestIngestArchivesAndIndexes(t *testing.T) {
	store := &countingStore{}
	svc := newTestIngestService(store, false)

	result, err := svc.Ingest(context.Background(), "", []IngestFile{
		{Name: "leph101.txt", Reader: newMemFile("electric charge"), Size: 15},
		{Name: "lemh102.txt", Reader: newMemFile("matrix algebra"), Size: 14},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Files)
	require.Equal(t, 2, result.ChunksAdded)
	require.Equal(t, "Physics", store.metas[0].Subject)
	require.Equal(t, "Math", store.metas[1].Subject)
}
