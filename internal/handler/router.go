package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edukits/ragtutor/internal/middleware"
)

type RouterDeps struct {
	Ask    *AskHandler
	Ingest *IngestHandler

	// WriteWindow rate-limits the mutating endpoints; zero disables it.
	WriteWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/ask", deps.Ask.Ask)
	api.GET("/health", deps.Ingest.Health)

	writes := api.Group("")
	if deps.WriteWindow > 0 {
		writes.Use(middleware.RateLimit(deps.WriteWindow))
	}
	writes.POST("/ingest", deps.Ingest.Ingest)
	writes.POST("/reset_index", deps.Ingest.Reset)
}
