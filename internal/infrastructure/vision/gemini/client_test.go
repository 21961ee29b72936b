package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	cfg := resilience.DefaultConfig()
	cfg.BreakerEnabled = false
	cfg.RetryMaxAttempts = 1
	return resilience.NewExecutor(cfg)
}

func TestOCRSendsEncodedContent(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ocr" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"text":"  Numéro de police: POL-1  "}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "secret", Model: "vision-1"}, testExecutor())
	ocr := NewOCR(client)

	text, err := ocr.ExtractText(context.Background(), []byte("raw-bytes"), "scan.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != "Numéro de police: POL-1" {
		t.Fatalf("text = %q, want trimmed transcript", text)
	}
	wantContent := base64.StdEncoding.EncodeToString([]byte("raw-bytes"))
	if captured["content"] != wantContent || captured["filename"] != "scan.pdf" || captured["mime_type"] != "application/pdf" {
		t.Fatalf("unexpected request payload: %v", captured)
	}
}

func TestOCRServerErrorIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, testExecutor())
	_, err := NewOCR(client).ExtractText(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("503 must map to ErrTemporary, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestOCRClientErrorIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported mime type", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, testExecutor())
	_, err := NewOCR(client).ExtractText(context.Background(), []byte("x"), "a.bin", "application/octet-stream")
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("422 must not map to ErrTemporary, got %v", err)
	}
}

func TestOCRRetriesRetryableStatus(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "try again", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"text":"second attempt"}`))
	}))
	defer server.Close()

	cfg := resilience.DefaultConfig()
	cfg.BreakerEnabled = false
	cfg.RetryMaxAttempts = 2
	cfg.RetryInitialBackoff = time.Millisecond
	client := New(Config{BaseURL: server.URL}, resilience.NewExecutor(cfg))

	text, err := NewOCR(client).ExtractText(context.Background(), []byte("x"), "a.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != "second attempt" || attempts != 2 {
		t.Fatalf("text = %q after %d attempts, want retry success", text, attempts)
	}
}

func TestAugmentNormalizesCategoryAndFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/extract" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"category": "insurance_policy",
			"confidence": 0.88,
			"fields": {"policy_number": " POL-42 ", "holder_name": "   "},
			"field_confidences": {"policy_number": 0.9}
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, testExecutor())
	aug, err := NewAugmenter(client).Augment(context.Background(), "some text", domain.CategoryPolicy)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	if aug.DetectedCategory != domain.CategoryPolicy || aug.DetectedConfidence != 0.88 {
		t.Fatalf("augmentation = %+v, want normalized policy @ 0.88", aug)
	}
	if aug.Fields[domain.FieldPolicyNumber] != "POL-42" {
		t.Fatalf("policy_number = %q, want trimmed POL-42", aug.Fields[domain.FieldPolicyNumber])
	}
	if aug.Fields.Present(domain.FieldHolderName) {
		t.Fatalf("blank field values must be dropped")
	}
}

func TestAugmentDropsUnknownCategoryLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"category": "tax_return",
			"confidence": 0.97,
			"fields": {"policy_number": "POL-7"}
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, testExecutor())
	aug, err := NewAugmenter(client).Augment(context.Background(), "some text", domain.CategoryPolicy)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	if aug.DetectedCategory != "" || aug.DetectedConfidence != 0 {
		t.Fatalf("out-of-vocabulary label must be dropped with its confidence, got %+v", aug)
	}
	if aug.Fields[domain.FieldPolicyNumber] != "POL-7" {
		t.Fatalf("fields must survive a dropped label, got %+v", aug.Fields)
	}
}

func TestNoopAugmenter(t *testing.T) {
	aug, err := NoopAugmenter{}.Augment(context.Background(), "anything", domain.CategoryIdentity)
	if err != nil {
		t.Fatalf("Augment() error = %v", err)
	}
	if aug.DetectedCategory != "" || len(aug.Fields) != 0 {
		t.Fatalf("noop augmentation must be empty, got %+v", aug)
	}
}
