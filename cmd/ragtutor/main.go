package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/config"
	"github.com/edukits/ragtutor/internal/docstore"
	"github.com/edukits/ragtutor/internal/embedcache"
	"github.com/edukits/ragtutor/internal/handler"
	"github.com/edukits/ragtutor/internal/job"
	"github.com/edukits/ragtutor/internal/middleware"
	"github.com/edukits/ragtutor/internal/retriever"
	"github.com/edukits/ragtutor/internal/schedule"
	"github.com/edukits/ragtutor/internal/service"
	"github.com/edukits/ragtutor/internal/vectorstore"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "ragtutor",
		Short: "ragtutor retrieval-augmented answer server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run ragtutor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			app, err := buildApp(cfg)
			if err != nil {
				return err
			}
			return runServer(cfg, app)
		},
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "index documents from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			app, err := buildApp(cfg)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			return runIngest(app, subject, args)
		},
	}
	ingestCmd.Flags().String("subject", "", "subject for all files (inferred from filenames when empty)")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "drop all indexed chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			app, err := buildApp(cfg)
			if err != nil {
				return err
			}
			return app.ingestService.Reset(context.Background())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd, ingestCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

type app struct {
	answerService *service.AnswerService
	ingestService *service.IngestService
}

func buildApp(cfg *config.Config) (*app, error) {
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.Embed.Provider, cfg.AI.Embed.Data)
	if err != nil {
		return nil, fmt.Errorf("init embed provider: %w", err)
	}
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.Embed.Model)
	embedder = embedcache.WrapLruCacheToEmbedder(
		embedder,
		cfg.AI.EmbedCacheSize,
		time.Duration(cfg.AI.EmbedCacheTTLHours)*time.Hour,
	)

	store, err := vectorstore.New(cfg.VectorStore, embedder)
	if err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	docs, err := docstore.New(cfg.DocStore)
	if err != nil {
		return nil, fmt.Errorf("init doc store: %w", err)
	}

	entries := make([]ai.GeneratorEntry, 0, len(cfg.AI.Generate))
	for _, target := range cfg.AI.Generate {
		provider, err := ai.NewProvider(target.Provider, target.Data)
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", target.Provider, err)
		}
		entries = append(entries, ai.GeneratorEntry{
			Name:      fmt.Sprintf("%s/%s", target.Provider, target.Model),
			Generator: ai.NewGenerator(provider, target.Model),
		})
	}
	generator := ai.NewGroupGenerator(entries)

	answerService := service.NewAnswerService(
		retriever.New(store, embedder),
		generator,
		service.AnswerConfig{
			DefaultK:           cfg.MaxRetrieve,
			DefaultTemperature: cfg.TemperatureDefault,
			IncludeSources:     cfg.IncludeSources,
			Timeout:            time.Duration(cfg.AI.Timeout) * time.Second,
		},
	)
	ingestService := service.NewIngestService(store, docs, service.IngestConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		ReadOnly:     cfg.ReadOnly,
	})
	return &app{
		answerService: answerService,
		ingestService: ingestService,
	}, nil
}

func runIngest(app *app, subject string, paths []string) error {
	ctx := context.Background()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return err
		}
		result, err := app.ingestService.Ingest(ctx, subject, []service.IngestFile{{
			Name:   info.Name(),
			Reader: f,
			Size:   info.Size(),
		}})
		f.Close()
		if err != nil {
			return err
		}
		logutil.GetLogger(ctx).Info("file indexed",
			zap.String("file", path),
			zap.Int("chunks", result.ChunksAdded),
		)
	}
	return nil
}

func runServer(cfg *config.Config, app *app) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.Bool("read_only", cfg.ReadOnly),
	)

	deps := handler.RouterDeps{
		Ask:         handler.NewAskHandler(app.answerService),
		Ingest:      handler.NewIngestHandler(app.ingestService),
		WriteWindow: time.Duration(cfg.WriteRateLimitSecs) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.IngestWatch.Dir != "" && !cfg.ReadOnly {
		sweep := job.NewIngestSweepJob(cfg.IngestWatch.Dir, app.ingestService)
		if err := scheduler.AddJob(sweep, cfg.IngestWatch.Cron); err != nil {
			return fmt.Errorf("schedule ingest sweep: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
