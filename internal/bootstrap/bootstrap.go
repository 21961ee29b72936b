package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YoanLn/Kiwi/internal/config"
	"github.com/YoanLn/Kiwi/internal/core/ports"
	"github.com/YoanLn/Kiwi/internal/core/usecase"
	"github.com/YoanLn/Kiwi/internal/core/verify"
	"github.com/YoanLn/Kiwi/internal/infrastructure/chunking"
	"github.com/YoanLn/Kiwi/internal/infrastructure/export/excel"
	"github.com/YoanLn/Kiwi/internal/infrastructure/extractor/cascade"
	"github.com/YoanLn/Kiwi/internal/infrastructure/extractor/pdfnative"
	"github.com/YoanLn/Kiwi/internal/infrastructure/index/qdrant"
	"github.com/YoanLn/Kiwi/internal/infrastructure/queue/nats"
	"github.com/YoanLn/Kiwi/internal/infrastructure/repository/postgres"
	"github.com/YoanLn/Kiwi/internal/infrastructure/resilience"
	"github.com/YoanLn/Kiwi/internal/infrastructure/storage/localfs"
	"github.com/YoanLn/Kiwi/internal/infrastructure/vision/gemini"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.DocumentRepository
	Exporter *excel.Service

	IngestUC  ports.DocumentIngestor
	VerifyUC  ports.DocumentVerifier
	ProcessUC ports.DocumentProcessor
	ReviewUC  ports.DocumentReviewer
	SearchUC  ports.DocumentSearcher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	extraKeywords, err := config.LoadVerifyRules(cfg.VerifyRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load verification rules: %w", err)
	}
	classifier := verify.NewClassifier(extraKeywords)
	pipeline := verify.NewPipeline(classifier, nil)

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	source, augmenter := buildVision(cfg, executor, logger)

	index := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	exporter := excel.NewService(repo, logger)

	verifyUC := usecase.NewVerifyDocumentUseCase(source, augmenter, pipeline, logger)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue, logger)
	processUC := usecase.NewProcessVerificationUseCase(repo, storage, verifyUC, chunker, index, logger)
	reviewUC := usecase.NewReviewDocumentUseCase(repo, storage, source, classifier, nil, logger)
	searchUC := usecase.NewSearchDocumentsUseCase(index, cfg.SearchTopK, logger)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Repo:     repo,
		Exporter: exporter,

		IngestUC:  ingestUC,
		VerifyUC:  verifyUC,
		ProcessUC: processUC,
		ReviewUC:  reviewUC,
		SearchUC:  searchUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// buildVision assembles the extraction cascade and the optional field
// augmenter. Without a vision endpoint the cascade still handles native
// PDF text layers and UTF-8 plaintext; OCR rungs simply stay empty.
func buildVision(cfg config.Config, executor *resilience.Executor, logger *slog.Logger) (ports.TextSource, ports.FieldAugmenter) {
	var (
		remote    ports.RemoteOCR
		augmenter ports.FieldAugmenter
	)
	if cfg.VisionURL != "" {
		client := gemini.New(gemini.Config{
			BaseURL:        cfg.VisionURL,
			APIKey:         cfg.VisionAPIKey,
			Model:          cfg.VisionModel,
			OCRTimeout:     time.Duration(cfg.VisionOCRTimeoutSeconds) * time.Second,
			AugmentTimeout: time.Duration(cfg.VisionAugmentTimeoutSeconds) * time.Second,
		}, executor)
		remote = gemini.NewOCR(client)
		augmenter = gemini.NewAugmenter(client)
	}

	source := cascade.New(pdfnative.New(), nil, remote, logger)
	return source, augmenter
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
