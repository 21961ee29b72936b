package verify

import (
	"math"
	"testing"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

func TestClassifyNoHitsReturnsUnrelated(t *testing.T) {
	c := NewClassifier(nil)
	cat, conf, hits := c.Classify("nothing to see here, just a grocery list")
	if cat != domain.CategoryUnrelated {
		t.Fatalf("category = %s, want unrelated", cat)
	}
	if conf != 0.35 {
		t.Fatalf("confidence = %v, want 0.35", conf)
	}
	if len(hits) != 0 {
		t.Fatalf("hits = %v, want empty", hits)
	}
}

func TestClassifyCountsDistinctKeywordsOnce(t *testing.T) {
	c := NewClassifier(nil)
	// "iban" appears three times but counts once; "bic" adds a second hit.
	cat, conf, hits := c.Classify("IBAN iban IBAN and BIC")
	if cat != domain.CategoryBankDetails {
		t.Fatalf("category = %s, want bank-details", cat)
	}
	if hits[domain.CategoryBankDetails] != 2 {
		t.Fatalf("bank-details hits = %d, want 2", hits[domain.CategoryBankDetails])
	}
	// base 0.55 + 0.10*min(2,4) + 0.10*min(2-0,3) = 0.95
	if math.Abs(conf-0.95) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.95", conf)
	}
}

func TestClassifyConfidenceClampedAtMax(t *testing.T) {
	c := NewClassifier(nil)
	text := "policy number insurance policy coverage premium prime couverture"
	_, conf, _ := c.Classify(text)
	if conf > 0.95 {
		t.Fatalf("confidence = %v, want <= 0.95", conf)
	}
}

func TestClassifyTieBreaksByRegistrationOrder(t *testing.T) {
	c := NewClassifier(nil)
	// One hit each for policy ("coverage") and bank-details ("iban");
	// policy registers first so it must win the tie.
	cat, _, hits := c.Classify("coverage and iban")
	if hits[domain.CategoryPolicy] != 1 || hits[domain.CategoryBankDetails] != 1 {
		t.Fatalf("hits = %v, want one each", hits)
	}
	if cat != domain.CategoryPolicy {
		t.Fatalf("category = %s, want policy (first registered)", cat)
	}
}

func TestClassifyBilingualKeywords(t *testing.T) {
	c := NewClassifier(nil)
	cat, _, _ := c.Classify("Déclaration de sinistre - numéro de sinistre: ABC-123")
	if cat != domain.CategoryClaimForm {
		t.Fatalf("category = %s, want claim-form", cat)
	}
}

func TestClassifyExtraKeywords(t *testing.T) {
	c := NewClassifier(map[domain.Category][]string{
		domain.CategoryRepairEstimate: {"carrosserie"},
	})
	cat, _, _ := c.Classify("réparation carrosserie")
	if cat != domain.CategoryRepairEstimate {
		t.Fatalf("category = %s, want repair-estimate", cat)
	}
}
