package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

type processRepoFake struct {
	doc       *domain.Document
	getErr    error
	statusLog []string
	errorLog  []string
	saved     *domain.Outcome
	saveErr   error
}

func (f *processRepoFake) Create(context.Context, *domain.Document) error {
	return errors.New("not implemented")
}

func (f *processRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil || f.doc.ID != id {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *processRepoFake) ListByClaim(context.Context, string) ([]domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusLog = append(f.statusLog, string(status))
	f.errorLog = append(f.errorLog, errMessage)
	return nil
}

func (f *processRepoFake) SaveOutcome(_ context.Context, _ string, outcome domain.Outcome) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &outcome
	return nil
}

type processStorageFake struct {
	content []byte
	openErr error
}

func (f *processStorageFake) Save(context.Context, string, io.Reader) error {
	return errors.New("not implemented")
}

func (f *processStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

type chunkerFake struct {
	chunks []string
}

func (f *chunkerFake) Split(string) []string {
	return f.chunks
}

type indexFake struct {
	indexedDocID  string
	indexedChunks []string
	indexErr      error
}

func (f *indexFake) IndexDocumentText(_ context.Context, doc *domain.Document, chunks []string) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexedDocID = doc.ID
	f.indexedChunks = chunks
	return nil
}

func (f *indexFake) SearchLexical(context.Context, string, int, domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	return nil, errors.New("not implemented")
}

func storedBankDocument() *domain.Document {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Document{
		ID:           "doc-1",
		ClaimID:      "claim-7",
		DeclaredType: "bank-details",
		Filename:     "rib.txt",
		MimeType:     "text/plain",
		StoragePath:  "claim-7/doc-1_rib.txt",
		Status:       domain.StatusUploaded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newProcessUseCase(repo *processRepoFake, storage *processStorageFake, chunker *chunkerFake, index *indexFake) *ProcessVerificationUseCase {
	source := &verifySourceFake{text: nativeText(bankDetailsText)}
	verifier := newVerifyUseCase(source, nil)
	return NewProcessVerificationUseCase(repo, storage, verifier, chunker, index, quietLogger())
}

func TestProcessByIDPersistsOutcomeAndIndexes(t *testing.T) {
	repo := &processRepoFake{doc: storedBankDocument()}
	index := &indexFake{}
	uc := newProcessUseCase(repo, &processStorageFake{content: []byte(bankDetailsText)}, &chunkerFake{chunks: []string{"c1", "c2"}}, index)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v", err)
	}

	if len(repo.statusLog) != 1 || repo.statusLog[0] != "processing" {
		t.Fatalf("status log = %v, want [processing]", repo.statusLog)
	}
	if repo.saved == nil {
		t.Fatal("expected outcome saved")
	}
	if repo.saved.Status != domain.VerificationVerified {
		t.Fatalf("saved status = %s, want verified", repo.saved.Status)
	}
	if !repo.saved.ShouldIndex {
		t.Fatal("expected ShouldIndex for compliant bank details")
	}
	if index.indexedDocID != "doc-1" {
		t.Fatalf("indexed doc = %q, want doc-1", index.indexedDocID)
	}
	if len(index.indexedChunks) != 2 {
		t.Fatalf("indexed chunks = %d, want 2", len(index.indexedChunks))
	}
}

func TestProcessByIDMarksFailedWhenStorageOpenFails(t *testing.T) {
	repo := &processRepoFake{doc: storedBankDocument()}
	uc := newProcessUseCase(repo, &processStorageFake{openErr: errors.New("disk gone")}, &chunkerFake{}, &indexFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatal("expected error when storage open fails")
	}
	if len(repo.statusLog) != 2 || repo.statusLog[1] != "failed" {
		t.Fatalf("status log = %v, want [processing failed]", repo.statusLog)
	}
	if !strings.Contains(repo.errorLog[1], "open stored document") {
		t.Fatalf("failure message = %q", repo.errorLog[1])
	}
}

func TestProcessByIDUnknownDocument(t *testing.T) {
	repo := &processRepoFake{}
	uc := newProcessUseCase(repo, &processStorageFake{}, &chunkerFake{}, &indexFake{})

	err := uc.ProcessByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if len(repo.statusLog) != 0 {
		t.Fatalf("status log = %v, want no status changes", repo.statusLog)
	}
}

func TestProcessByIDIndexFailureIsAdvisory(t *testing.T) {
	repo := &processRepoFake{doc: storedBankDocument()}
	index := &indexFake{indexErr: errors.New("qdrant down")}
	uc := newProcessUseCase(repo, &processStorageFake{content: []byte(bankDetailsText)}, &chunkerFake{chunks: []string{"c1"}}, index)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID: %v, want nil despite index failure", err)
	}
	if repo.saved == nil {
		t.Fatal("expected outcome saved before indexing")
	}
}

func TestProcessByIDSaveOutcomeError(t *testing.T) {
	repo := &processRepoFake{doc: storedBankDocument(), saveErr: errors.New("write denied")}
	uc := newProcessUseCase(repo, &processStorageFake{content: []byte(bankDetailsText)}, &chunkerFake{}, &indexFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil || !strings.Contains(err.Error(), "save verification outcome") {
		t.Fatalf("expected save outcome error, got %v", err)
	}
}
