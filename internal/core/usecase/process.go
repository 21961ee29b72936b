package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
)

// ProcessVerificationUseCase is the worker path: load the document row,
// open the stored bytes, verify, persist the outcome and index the
// transcript when the outcome allows it.
type ProcessVerificationUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	verifier *VerifyDocumentUseCase
	chunker  ports.Chunker
	index    ports.SearchIndex
	logger   *slog.Logger
}

func NewProcessVerificationUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	verifier *VerifyDocumentUseCase,
	chunker ports.Chunker,
	index ports.SearchIndex,
	logger *slog.Logger,
) *ProcessVerificationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessVerificationUseCase{
		repo:     repo,
		storage:  storage,
		verifier: verifier,
		chunker:  chunker,
		index:    index,
		logger:   logger,
	}
}

func (uc *ProcessVerificationUseCase) ProcessByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	outcome, err := uc.runVerification(ctx, doc)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveOutcome(ctx, doc.ID, *outcome); err != nil {
		return fmt.Errorf("save verification outcome: %w", err)
	}

	uc.indexTranscript(ctx, doc, outcome)
	return nil
}

func (uc *ProcessVerificationUseCase) runVerification(ctx context.Context, doc *domain.Document) (*domain.Outcome, error) {
	content, err := uc.loadContent(ctx, doc.StoragePath)
	if err != nil {
		return nil, err
	}
	return uc.verifier.Run(ctx, doc.ID, content, domain.NormalizeCategory(doc.DeclaredType), doc.Filename, doc.MimeType)
}

func (uc *ProcessVerificationUseCase) loadContent(ctx context.Context, storagePath string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}
	return content, nil
}

// indexTranscript pushes the extracted text into the lexical index. Index
// trouble is logged, never surfaced: the outcome is already persisted and
// a re-run would repeat the whole verification anyway.
func (uc *ProcessVerificationUseCase) indexTranscript(ctx context.Context, doc *domain.Document, outcome *domain.Outcome) {
	if !outcome.ShouldIndex || uc.index == nil {
		return
	}
	chunks := uc.chunker.Split(outcome.Text.Text)
	if len(chunks) == 0 {
		return
	}
	if err := uc.index.IndexDocumentText(ctx, doc, chunks); err != nil {
		uc.logger.Warn("lexical indexing failed",
			"document_id", doc.ID,
			"chunks", len(chunks),
			"error", err,
		)
		return
	}
	uc.logger.Info("document indexed", "document_id", doc.ID, "chunks", len(chunks))
}

func (uc *ProcessVerificationUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessVerificationUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
