package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

func TestIndexDocumentTextEnsuresCollectionOnce(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", ClaimID: "claim-9", DeclaredType: "policy", Filename: "policy.pdf"}
	chunks := []string{"first chunk text", "second chunk text"}

	if err := client.IndexDocumentText(context.Background(), doc, chunks); err != nil {
		t.Fatalf("first IndexDocumentText() error = %v", err)
	}
	if err := client.IndexDocumentText(context.Background(), doc, chunks); err != nil {
		t.Fatalf("second IndexDocumentText() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexDocumentTextBuildsSparsePoints(t *testing.T) {
	var captured struct {
		Points []struct {
			Vector  map[string]sparseVector `json:"vector"`
			Payload map[string]any          `json:"payload"`
		} `json:"points"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Fatalf("decode upsert body: %v", err)
			}
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", ClaimID: "claim-9", DeclaredType: "bank_details", Filename: "rib.pdf"}
	if err := client.IndexDocumentText(context.Background(), doc, []string{"IBAN FR14"}); err != nil {
		t.Fatalf("IndexDocumentText() error = %v", err)
	}

	if len(captured.Points) != 1 {
		t.Fatalf("expected one point, got %d", len(captured.Points))
	}
	point := captured.Points[0]
	if len(point.Vector[sparseVectorName].Indices) == 0 {
		t.Fatalf("point must carry a %q sparse vector", sparseVectorName)
	}
	if point.Payload["doc_id"] != "doc-1" || point.Payload["claim_id"] != "claim-9" || point.Payload["category"] != "bank_details" {
		t.Fatalf("unexpected payload: %v", point.Payload)
	}
}

func TestSearchLexicalMapsHitsAndFilter(t *testing.T) {
	var capturedFilter map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/docs/points/query" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode query body: %v", err)
		}
		capturedFilter, _ = body["filter"].(map[string]any)
		_, _ = w.Write([]byte(`{"result":{"points":[
			{"score":1.5,"payload":{"doc_id":"doc-1","filename":"rib.pdf","category":"bank_details","text":"IBAN FR14"}}
		]}}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	hits, err := client.SearchLexical(context.Background(), "iban", 5, domain.SearchFilter{Category: "bank_details"})
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentID != "doc-1" || hits[0].Score != 1.5 {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if capturedFilter == nil {
		t.Fatalf("category filter must be forwarded")
	}
}

func TestSearchLexicalBlankQueryShortCircuits(t *testing.T) {
	client := New("http://unreachable.invalid", "docs")
	hits, err := client.SearchLexical(context.Background(), "   ", 5, domain.SearchFilter{})
	if err != nil || hits != nil {
		t.Fatalf("blank query must not hit the backend, got (%v, %v)", hits, err)
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	doc := &domain.Document{ID: "doc-1", Filename: "a.pdf"}
	err := client.IndexDocumentText(context.Background(), doc, []string{"text"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}
