package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/service"
)

const processedDirName = "processed"

// IngestSweepJob scans a watch directory for dropped-in documents, indexes
// them and moves each processed file aside so the next sweep skips it.
type IngestSweepJob struct {
	dir    string
	ingest *service.IngestService
}

func NewIngestSweepJob(dir string, ingest *service.IngestService) *IngestSweepJob {
	return &IngestSweepJob{dir: dir, ingest: ingest}
}

func (j *IngestSweepJob) Name() string {
	return "ingest_sweep"
}

func (j *IngestSweepJob) Run(ctx context.Context) error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	processedDir := filepath.Join(j.dir, processedDirName)
	for _, entry := range entries {
		if entry.IsDir() || !ingestable(entry.Name()) {
			continue
		}
		if err := j.sweepOne(ctx, entry.Name(), processedDir); err != nil {
			logutil.GetLogger(ctx).Error("sweep file failed",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (j *IngestSweepJob) sweepOne(ctx context.Context, name string, processedDir string) error {
	f, err := os.Open(filepath.Join(j.dir, name))
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	_, err = j.ingest.Ingest(ctx, "", []service.IngestFile{{
		Name:   name,
		Reader: f,
		Size:   info.Size(),
	}})
	f.Close()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	return os.Rename(filepath.Join(j.dir, name), filepath.Join(processedDir, name))
}

func ingestable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return true
	}
	return false
}
