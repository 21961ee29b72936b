package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
)

// IngestDocumentUseCase accepts an upload: store the bytes, record the
// metadata row, publish the verification job.
type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	logger  *slog.Logger
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	logger *slog.Logger,
) *IngestDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	claimID, declaredType, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("missing claim id"))
	}
	if !domain.KnownCategory(declaredType) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("unknown document type %q", declaredType))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s_%s", claimID, id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:           id,
		ClaimID:      claimID,
		DeclaredType: string(domain.NormalizeCategory(declaredType)),
		Filename:     filename,
		MimeType:     mimeType,
		StoragePath:  storageKey,
		Status:       domain.StatusUploaded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishVerificationRequested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish verification job: %w", err)
	}

	uc.logger.Info("document uploaded",
		"document_id", doc.ID,
		"claim_id", claimID,
		"declared_type", doc.DeclaredType,
		"filename", filename,
	)
	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
