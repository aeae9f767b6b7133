package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/docstore"
	"github.com/edukits/ragtutor/internal/model"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
	"github.com/edukits/ragtutor/internal/vectorstore"
)

type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	ReadOnly     bool
}

type IngestResult struct {
	Files       int `json:"files"`
	ChunksAdded int `json:"chunks_added"`
}

// IngestService turns raw documents into indexed chunks. The original file is
// archived to the doc store before indexing so a failed index run can be
// replayed from the archive.
type IngestService struct {
	store vectorstore.Store
	docs  docstore.Store
	cfg   IngestConfig
}

func NewIngestService(store vectorstore.Store, docs docstore.Store, cfg IngestConfig) *IngestService {
	return &IngestService{store: store, docs: docs, cfg: cfg}
}

type IngestFile struct {
	Name   string
	Reader docstore.ReadSeekCloser
	Size   int64
}

func (s *IngestService) Ingest(ctx context.Context, subject string, files []IngestFile) (*IngestResult, error) {
	if s.cfg.ReadOnly {
		return nil, appErr.ErrReadOnly
	}
	result := &IngestResult{}
	for _, file := range files {
		added, err := s.ingestOne(ctx, subject, file)
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", file.Name, err)
		}
		result.Files++
		result.ChunksAdded += added
	}
	return result, nil
}

func (s *IngestService) ingestOne(ctx context.Context, subject string, file IngestFile) (int, error) {
	if file.Name == "" {
		return 0, fmt.Errorf("file name is required")
	}
	if subject == "" {
		subject = InferSubject(file.Name)
	}
	if s.docs != nil {
		if err := s.docs.Save(ctx, file.Name, file.Reader, file.Size); err != nil {
			return 0, fmt.Errorf("archive document: %w", err)
		}
	}
	if _, err := file.Reader.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	content, err := io.ReadAll(file.Reader)
	if err != nil {
		return 0, err
	}
	added, err := s.IngestContent(ctx, subject, file.Name, content)
	if err != nil {
		return 0, err
	}
	logutil.GetLogger(ctx).Info("document ingested",
		zap.String("file", file.Name),
		zap.String("subject", subject),
		zap.Int("chunks", added),
	)
	return added, nil
}

// IngestContent chunks and indexes a document already in memory. Sections are
// numbered from 1 and recorded as the page of every chunk they produce.
func (s *IngestService) IngestContent(ctx context.Context, subject string, name string, content []byte) (int, error) {
	if s.cfg.ReadOnly {
		return 0, appErr.ErrReadOnly
	}
	if subject == "" {
		subject = InferSubject(name)
	}
	var chunks []string
	var metas []model.ChunkMeta
	for sectionIdx, section := range splitSections(name, bytes.TrimSpace(content)) {
		for _, chunk := range ChunkText(section, s.cfg.ChunkSize, s.cfg.ChunkOverlap) {
			if strings.TrimSpace(chunk) == "" {
				continue
			}
			chunks = append(chunks, chunk)
			metas = append(metas, model.ChunkMeta{
				Subject: subject,
				Source:  name,
				Page:    sectionIdx + 1,
			})
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	return s.store.Add(ctx, chunks, metas)
}

func (s *IngestService) Reset(ctx context.Context) error {
	if s.cfg.ReadOnly {
		return appErr.ErrReadOnly
	}
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("vector index reset")
	return nil
}

func (s *IngestService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
