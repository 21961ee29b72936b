package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
	"github.com/YoanLn/Kiwi/internal/core/verify"
)

// VerifyDocumentUseCase runs the full verification pipeline over raw bytes:
// file inspection, text extraction, optional field augmentation, then the
// deterministic classify/extract/validate/decide/score stages.
type VerifyDocumentUseCase struct {
	source    ports.TextSource
	augmenter ports.FieldAugmenter
	pipeline  *verify.Pipeline
	logger    *slog.Logger
}

func NewVerifyDocumentUseCase(
	source ports.TextSource,
	augmenter ports.FieldAugmenter,
	pipeline *verify.Pipeline,
	logger *slog.Logger,
) *VerifyDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyDocumentUseCase{
		source:    source,
		augmenter: augmenter,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Verify handles the synchronous path where no stored document row exists.
// The filename doubles as the report identifier.
func (uc *VerifyDocumentUseCase) Verify(
	ctx context.Context,
	content []byte,
	declaredType, filename, mimeType string,
) (*domain.Outcome, error) {
	if !domain.KnownCategory(declaredType) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "verify document",
			fmt.Errorf("unknown document type %q", declaredType))
	}
	return uc.Run(ctx, filename, content, domain.NormalizeCategory(declaredType), filename, mimeType)
}

// Run executes verification for a known document id. The declared category
// must already be normalized.
func (uc *VerifyDocumentUseCase) Run(
	ctx context.Context,
	docID string,
	content []byte,
	declared domain.Category,
	filename, mimeType string,
) (*domain.Outcome, error) {
	meta := verify.Inspect(content, mimeType, filename)
	text := uc.source.ExtractText(ctx, content, meta)

	aug := uc.augment(ctx, docID, declared, text)

	outcome, err := uc.pipeline.Run(docID, meta, declared, text, aug)
	if err != nil {
		return nil, fmt.Errorf("run verification pipeline: %w", err)
	}

	uc.logger.Info("document verified",
		"document_id", docID,
		"declared_type", declared,
		"detected_type", outcome.DetectedCategory,
		"status", outcome.Status,
		"confidence", outcome.Confidence,
		"extraction_method", text.Method,
		"issues", len(outcome.Issues),
	)
	return outcome, nil
}

// augment asks the external field augmenter for supplementary values. It
// is advisory: absence, empty text or failure all yield a zero value.
func (uc *VerifyDocumentUseCase) augment(
	ctx context.Context,
	docID string,
	declared domain.Category,
	text domain.ExtractedText,
) domain.Augmentation {
	if uc.augmenter == nil || text.IsEmpty() {
		return domain.Augmentation{}
	}
	aug, err := uc.augmenter.Augment(ctx, text.Text, declared)
	if err != nil {
		uc.logger.Warn("field augmentation unavailable, continuing without it",
			"document_id", docID,
			"error", err,
		)
		return domain.Augmentation{}
	}
	return aug
}
