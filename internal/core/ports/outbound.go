package ports

import (
	"context"
	"io"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByClaim(ctx context.Context, claimID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveOutcome(ctx context.Context, id string, outcome domain.Outcome) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes verification jobs.
type MessageQueue interface {
	PublishVerificationRequested(ctx context.Context, documentID string) error
	SubscribeVerificationRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextSource turns raw document bytes into a best-effort transcript. It
// never fails: extraction trouble degrades to the no-text sentinel.
type TextSource interface {
	ExtractText(ctx context.Context, content []byte, meta domain.FileMeta) domain.ExtractedText
}

// RemoteOCR is the hosted text extractor behind the cascade's last step.
type RemoteOCR interface {
	ExtractText(ctx context.Context, content []byte, filename, mimeType string) (string, error)
}

// LocalOCR is an optional on-host OCR engine for images. Nil when absent.
type LocalOCR interface {
	Recognize(ctx context.Context, content []byte) (string, error)
}

// FieldAugmenter supplements regex extraction with model-derived values.
// Advisory only: failure or absence must not change pipeline control flow.
type FieldAugmenter interface {
	Augment(ctx context.Context, text string, hint domain.Category) (domain.Augmentation, error)
}

// Chunker splits text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// SearchIndex stores extracted text of eligible verified documents and
// serves lexical search over it.
type SearchIndex interface {
	IndexDocumentText(ctx context.Context, doc *domain.Document, chunks []string) error
	SearchLexical(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
}
