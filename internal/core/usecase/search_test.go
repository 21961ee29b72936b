package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

type searchIndexFake struct {
	query  string
	limit  int
	filter domain.SearchFilter
	chunks []domain.RetrievedChunk
	err    error
}

func (f *searchIndexFake) IndexDocumentText(context.Context, *domain.Document, []string) error {
	return errors.New("not implemented")
}

func (f *searchIndexFake) SearchLexical(_ context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.query = query
	f.limit = limit
	f.filter = filter
	return f.chunks, nil
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	uc := NewSearchDocumentsUseCase(&searchIndexFake{}, 5, quietLogger())

	_, err := uc.Search(context.Background(), "   ", 5, domain.SearchFilter{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearchAppliesDefaultLimit(t *testing.T) {
	index := &searchIndexFake{}
	uc := NewSearchDocumentsUseCase(index, 7, quietLogger())

	if _, err := uc.Search(context.Background(), "iban", 0, domain.SearchFilter{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if index.limit != 7 {
		t.Fatalf("limit = %d, want default 7", index.limit)
	}
}

func TestSearchCapsLimit(t *testing.T) {
	index := &searchIndexFake{}
	uc := NewSearchDocumentsUseCase(index, 5, quietLogger())

	if _, err := uc.Search(context.Background(), "iban", 500, domain.SearchFilter{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if index.limit != maxSearchLimit {
		t.Fatalf("limit = %d, want cap %d", index.limit, maxSearchLimit)
	}
}

func TestSearchForwardsFilterAndResults(t *testing.T) {
	index := &searchIndexFake{chunks: []domain.RetrievedChunk{
		{DocumentID: "doc-1", Filename: "rib.pdf", Category: "bank-details", Text: "IBAN FR14...", Score: 1.8},
	}}
	uc := NewSearchDocumentsUseCase(index, 5, quietLogger())

	chunks, err := uc.Search(context.Background(), "  iban dupont ", 3, domain.SearchFilter{Category: "bank-details"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if index.query != "iban dupont" {
		t.Fatalf("query = %q, want trimmed", index.query)
	}
	if index.filter.Category != "bank-details" {
		t.Fatalf("filter = %+v", index.filter)
	}
	if len(chunks) != 1 || chunks[0].DocumentID != "doc-1" {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestSearchPropagatesIndexError(t *testing.T) {
	uc := NewSearchDocumentsUseCase(&searchIndexFake{err: errors.New("qdrant down")}, 5, quietLogger())

	_, err := uc.Search(context.Background(), "iban", 5, domain.SearchFilter{})
	if err == nil {
		t.Fatal("expected index error to propagate")
	}
}
