package verify

import (
	"testing"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

func TestMergeAugmentedFillsOnlyHoles(t *testing.T) {
	extraction := domain.Extraction{Fields: domain.Fields{
		domain.FieldHolderName:  "Jean Dupont",
		domain.FieldBankAccount: "",
	}}
	aug := domain.Augmentation{Fields: domain.Fields{
		domain.FieldHolderName:   "J. Dupont",
		domain.FieldBankAccount:  referenceIBAN,
		domain.FieldPolicyNumber: "POL-1",
		domain.FieldClaimNumber:  "",
	}}

	merged := MergeAugmented(extraction, aug)

	if got := merged.Fields[domain.FieldHolderName]; got != "Jean Dupont" {
		t.Fatalf("holder_name = %q, regex value must win", got)
	}
	if got := merged.Fields[domain.FieldBankAccount]; got != referenceIBAN {
		t.Fatalf("bank_account = %q, empty regex value must be filled", got)
	}
	if got := merged.Fields[domain.FieldPolicyNumber]; got != "POL-1" {
		t.Fatalf("policy_number = %q, missing key must be filled", got)
	}
	if merged.Fields.Present(domain.FieldClaimNumber) {
		t.Fatalf("empty augmenter value must not create a field")
	}
}

func TestMergeAugmentedEmptyAugmentationIsNoop(t *testing.T) {
	extraction := domain.Extraction{Fields: domain.Fields{domain.FieldHolderName: "x"}}
	merged := MergeAugmented(extraction, domain.Augmentation{})
	if len(merged.Fields) != 1 || merged.Fields[domain.FieldHolderName] != "x" {
		t.Fatalf("merged = %v, want unchanged", merged.Fields)
	}
}

func TestResolveCategoryOverridesOnlyWeakSignal(t *testing.T) {
	cases := []struct {
		name     string
		ruleCat  domain.Category
		ruleConf float64
		aug      domain.Augmentation
		wantCat  domain.Category
		wantConf float64
	}{
		{
			name:     "strong rule signal is kept",
			ruleCat:  domain.CategoryPolicy,
			ruleConf: 0.75,
			aug:      domain.Augmentation{DetectedCategory: domain.CategoryClaimForm, DetectedConfidence: 0.9},
			wantCat:  domain.CategoryPolicy,
			wantConf: 0.75,
		},
		{
			name:     "weak rule yields to confident augmenter",
			ruleCat:  domain.CategoryUnrelated,
			ruleConf: 0.35,
			aug:      domain.Augmentation{DetectedCategory: domain.CategoryMedicalReport, DetectedConfidence: 0.8},
			wantCat:  domain.CategoryMedicalReport,
			wantConf: 0.8,
		},
		{
			name:     "augmenter below rule confidence is ignored",
			ruleCat:  domain.CategoryPolicy,
			ruleConf: 0.55,
			aug:      domain.Augmentation{DetectedCategory: domain.CategoryClaimForm, DetectedConfidence: 0.4},
			wantCat:  domain.CategoryPolicy,
			wantConf: 0.55,
		},
		{
			name:     "augmenter confidence capped",
			ruleCat:  domain.CategoryPolicy,
			ruleConf: 0.55,
			aug:      domain.Augmentation{DetectedCategory: domain.CategoryClaimForm, DetectedConfidence: 0.99},
			wantCat:  domain.CategoryClaimForm,
			wantConf: 0.95,
		},
		{
			name:     "unknown augmenter category is ignored",
			ruleCat:  domain.CategoryPolicy,
			ruleConf: 0.55,
			aug:      domain.Augmentation{DetectedCategory: domain.Category("made-up"), DetectedConfidence: 0.99},
			wantCat:  domain.CategoryPolicy,
			wantConf: 0.55,
		},
		{
			name:     "absent augmenter category is ignored",
			ruleCat:  domain.CategoryPolicy,
			ruleConf: 0.55,
			aug:      domain.Augmentation{},
			wantCat:  domain.CategoryPolicy,
			wantConf: 0.55,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cat, conf := ResolveCategory(c.ruleCat, c.ruleConf, c.aug)
			if cat != c.wantCat || conf != c.wantConf {
				t.Fatalf("ResolveCategory() = (%s, %v), want (%s, %v)", cat, conf, c.wantCat, c.wantConf)
			}
		})
	}
}
