package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")
	t.Setenv("VISION_OCR_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.NATSSubject != "documents.verify" {
		t.Fatalf("expected default subject documents.verify, got %q", cfg.NATSSubject)
	}
	if cfg.APIRateLimitRPS != 20 || cfg.APIRateLimitBurst != 40 {
		t.Fatalf("expected default rate limit 20/40, got %v/%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if cfg.VisionOCRTimeoutSeconds != 60 {
		t.Fatalf("expected default ocr timeout 60, got %d", cfg.VisionOCRTimeoutSeconds)
	}
}

func TestLoadParsesOverridesAndIgnoresGarbage(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("SEARCH_TOP_K", "12")

	cfg := Load()
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rps override 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 40 {
		t.Fatalf("unparsable int must fall back to default, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.SearchTopK != 12 {
		t.Fatalf("expected search top k 12, got %d", cfg.SearchTopK)
	}
}

func TestLoadVerifyRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := []byte("extra_keywords:\n  bank_details:\n    - swift\n  policy:\n    - avenant\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	extra, err := LoadVerifyRules(path)
	if err != nil {
		t.Fatalf("LoadVerifyRules() error = %v", err)
	}
	if len(extra[domain.CategoryBankDetails]) != 1 || extra[domain.CategoryBankDetails][0] != "swift" {
		t.Fatalf("unexpected bank keywords: %v", extra[domain.CategoryBankDetails])
	}
	if len(extra[domain.CategoryPolicy]) != 1 {
		t.Fatalf("unexpected policy keywords: %v", extra[domain.CategoryPolicy])
	}
}

func TestLoadVerifyRulesUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("extra_keywords:\n  tax_return:\n    - impots\n"), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	if _, err := LoadVerifyRules(path); err == nil {
		t.Fatalf("expected error for unknown category label")
	}
}

func TestLoadVerifyRulesEmptyPath(t *testing.T) {
	extra, err := LoadVerifyRules("")
	if err != nil || extra != nil {
		t.Fatalf("empty path must be a no-op, got (%v, %v)", extra, err)
	}
}
