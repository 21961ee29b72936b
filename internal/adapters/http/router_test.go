package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/YoanLn/Kiwi/internal/config"
	"github.com/YoanLn/Kiwi/internal/core/domain"
)

type ingestorFake struct {
	err error
}

func (f ingestorFake) Upload(_ context.Context, claimID, declaredType, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Document{
		ID:           "doc-1",
		ClaimID:      claimID,
		DeclaredType: string(domain.NormalizeCategory(declaredType)),
		Filename:     filename,
		MimeType:     mimeType,
		StoragePath:  claimID + "/doc-1_" + filename,
		Status:       domain.StatusUploaded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

type verifierFake struct {
	outcome *domain.Outcome
	err     error
}

func (f verifierFake) Verify(context.Context, []byte, string, string, string) (*domain.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type reviewerFake struct {
	outcome *domain.ReviewOutcome
	err     error
}

func (f reviewerFake) Review(context.Context, string) (*domain.ReviewOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type searcherFake struct {
	chunks []domain.RetrievedChunk
	err    error
}

func (f searcherFake) Search(context.Context, string, int, domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type repoFake struct {
	doc *domain.Document
	err error
}

func (f repoFake) Create(context.Context, *domain.Document) error { return errors.New("not implemented") }

func (f repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f repoFake) ListByClaim(context.Context, string) ([]domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (f repoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return errors.New("not implemented")
}

func (f repoFake) SaveOutcome(context.Context, string, domain.Outcome) error {
	return errors.New("not implemented")
}

type exporterFake struct {
	data []byte
	err  error
}

func (f exporterFake) ExportClaimXLSX(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func verifiedOutcome() *domain.Outcome {
	return &domain.Outcome{
		Status:           domain.VerificationVerified,
		Compliant:        true,
		Confidence:       84,
		DeclaredCategory: domain.CategoryBankDetails,
		DetectedCategory: domain.CategoryBankDetails,
	}
}

func newTestHandler(cfg config.Config) http.Handler {
	router := NewRouter(
		cfg,
		ingestorFake{},
		verifierFake{outcome: verifiedOutcome()},
		reviewerFake{outcome: &domain.ReviewOutcome{DocumentID: "doc-1", Status: domain.VerificationVerified, Valid: true}},
		searcherFake{chunks: []domain.RetrievedChunk{{DocumentID: "doc-1", Text: "IBAN FR14"}}},
		repoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusVerified}},
		exporterFake{data: []byte("xlsx-bytes")},
		nil,
	)
	return router.Handler()
}

// multipartBody builds a form with one file part plus the given fields.
func multipartBody(fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	part, _ := writer.CreateFormFile("file", filename)
	_, _ = part.Write([]byte(content))
	_ = writer.Close()
	return body, writer.FormDataContentType()
}
