package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edukits/ragtutor/internal/pkg/errcode"
	"github.com/edukits/ragtutor/internal/pkg/response"
	"github.com/edukits/ragtutor/internal/service"
)

const maxUploadFiles = 16

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Ingest accepts a multipart form with an optional "subject" field and one or
// more "files" parts. Files without a subject fall back to filename inference.
func (h *IngestHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "multipart form required")
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		response.Error(c, errcode.ErrInvalid, "at least one file is required")
		return
	}
	if len(uploads) > maxUploadFiles {
		response.Error(c, errcode.ErrTooMany, "too many files")
		return
	}
	subject := strings.TrimSpace(c.PostForm("subject"))

	files := make([]service.IngestFile, 0, len(uploads))
	for _, upload := range uploads {
		f, err := upload.Open()
		if err != nil {
			response.Error(c, errcode.ErrIngestFailed, "open uploaded file failed")
			return
		}
		defer f.Close()
		files = append(files, service.IngestFile{
			Name:   upload.Filename,
			Reader: f,
			Size:   upload.Size,
		})
	}
	result, err := h.ingest.Ingest(c.Request.Context(), subject, files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *IngestHandler) Reset(c *gin.Context) {
	if err := h.ingest.Reset(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": "reset"})
}

func (h *IngestHandler) Health(c *gin.Context) {
	count, err := h.ingest.Count(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": "ok", "chunks": count})
}
