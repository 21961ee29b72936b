package ports

import (
	"context"
	"io"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, claimID, declaredType, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentVerifier runs the full verification pipeline over raw bytes.
type DocumentVerifier interface {
	Verify(ctx context.Context, content []byte, declaredType, filename, mimeType string) (*domain.Outcome, error)
}

// DocumentProcessor is the inbound contract for asynchronous verification.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReviewer runs the multi-pass deep review workflow.
type DocumentReviewer interface {
	Review(ctx context.Context, documentID string) (*domain.ReviewOutcome, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentSearcher serves lexical search over indexed verified documents.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
}
