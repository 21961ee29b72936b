package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
	"github.com/YoanLn/Kiwi/internal/core/verify"
)

// Coherence deductions per issue type found by the parse pass.
const (
	coherenceInvalidPenalty    = 0.30
	coherenceSuspiciousPenalty = 0.20
	coherenceMismatchPenalty   = 0.10
)

// ReviewDocumentUseCase runs the deep review workflow over a stored
// document: a parse pass (extraction plus validators), a completeness pass
// (required-field coverage) and a coherence pass (internal consistency),
// folded through the generalized decision ladder. All passes are
// deterministic; re-running a review yields the identical outcome.
type ReviewDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	source     ports.TextSource
	classifier *verify.Classifier
	now        func() time.Time
	logger     *slog.Logger
}

func NewReviewDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	source ports.TextSource,
	classifier *verify.Classifier,
	now func() time.Time,
	logger *slog.Logger,
) *ReviewDocumentUseCase {
	if classifier == nil {
		classifier = verify.NewClassifier(nil)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewDocumentUseCase{
		repo:       repo,
		storage:    storage,
		source:     source,
		classifier: classifier,
		now:        now,
		logger:     logger,
	}
}

func (uc *ReviewDocumentUseCase) Review(ctx context.Context, documentID string) (*domain.ReviewOutcome, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	content, err := uc.loadContent(ctx, doc.StoragePath)
	if err != nil {
		return nil, err
	}

	declared := domain.NormalizeCategory(doc.DeclaredType)
	profile, err := verify.ProfileFor(declared)
	if err != nil {
		return nil, err
	}

	meta := verify.Inspect(content, doc.MimeType, doc.Filename)
	text := uc.source.ExtractText(ctx, content, meta)

	// Parse pass: classification, field extraction, validators.
	detected, _, _ := uc.classifier.Classify(text.Text)
	extraction := verify.ExtractFields(text.Text)
	issues := verify.Validate(profile, meta, declared, detected, text, extraction.Fields, uc.now())

	signals := verify.ReviewSignals{
		InvalidDocumentType: detected == domain.CategoryUnrelated && !text.IsEmpty(),
		CompletenessScore:   completenessScore(profile, extraction.Fields),
		CoherenceScore:      coherenceScore(issues),
	}

	status, needsHuman, summary := verify.DecideReview(issues, signals)

	outcome := &domain.ReviewOutcome{
		DocumentID:        doc.ID,
		Status:            status,
		Valid:             status == domain.VerificationVerified || status == domain.VerificationPartiallyCompliant,
		NeedsHumanReview:  needsHuman,
		Issues:            issues,
		Fields:            extraction.Fields,
		CompletenessScore: signals.CompletenessScore,
		CoherenceScore:    signals.CoherenceScore,
		Summary:           summary,
	}

	uc.logger.Info("document reviewed",
		"document_id", doc.ID,
		"status", status,
		"needs_human_review", needsHuman,
		"completeness", signals.CompletenessScore,
		"coherence", signals.CoherenceScore,
	)
	return outcome, nil
}

func (uc *ReviewDocumentUseCase) loadContent(ctx context.Context, storagePath string) ([]byte, error) {
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

// completenessScore is the fraction of the profile's required fields that
// parsed to a non-blank value. Profiles without required fields are
// complete by definition.
func completenessScore(profile verify.Profile, fields domain.Fields) float64 {
	if len(profile.RequiredFields) == 0 {
		return 1.0
	}
	present := 0
	for _, key := range profile.RequiredFields {
		if fields.Present(key) {
			present++
		}
	}
	return float64(present) / float64(len(profile.RequiredFields))
}

// coherenceScore starts from a fully coherent document and deducts for
// findings that indicate internal contradiction rather than mere absence.
func coherenceScore(issues []domain.Issue) float64 {
	score := 1.0
	for _, issue := range issues {
		switch issue.Type {
		case domain.IssueInvalid:
			score -= coherenceInvalidPenalty
		case domain.IssueSuspicious:
			score -= coherenceSuspiciousPenalty
		case domain.IssueMismatch:
			score -= coherenceMismatchPenalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}
