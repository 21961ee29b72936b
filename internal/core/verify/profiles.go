package verify

import (
	"errors"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// Profile is the static per-category validation configuration: which fields
// must be present and which tolerances apply. Profiles are immutable and
// registered once at process start.
type Profile struct {
	RequiredFields      []string
	AllowEmptyText      bool
	MustBeImage         bool
	AcceptIfImageNoText bool
	EligibleForIndex    bool
}

var profiles = map[domain.Category]Profile{
	domain.CategoryIdentity: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldIDNumber, domain.FieldDateOfBirth},
		EligibleForIndex: true,
	},
	domain.CategoryBankDetails: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldBankAccount},
		EligibleForIndex: true,
	},
	domain.CategoryPolicy: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldPolicyNumber},
		EligibleForIndex: true,
	},
	domain.CategoryClaimForm: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldIncidentDate, domain.FieldClaimNumber},
		EligibleForIndex: true,
	},
	domain.CategoryIncidentReport: {
		RequiredFields:   []string{domain.FieldIncidentDate, domain.FieldIncidentLocation},
		EligibleForIndex: true,
	},
	domain.CategoryProofOfOwnership: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldPurchaseDate},
		EligibleForIndex: true,
	},
	domain.CategoryRepairEstimate: {
		RequiredFields:   []string{domain.FieldProviderName, domain.FieldAmountTotal},
		EligibleForIndex: true,
	},
	domain.CategoryMedicalReport: {
		RequiredFields:   []string{domain.FieldHolderName, domain.FieldMedicalDate},
		EligibleForIndex: true,
	},
	// Evidence photos tolerate empty OCR and stay out of the text index.
	domain.CategoryDamageEvidence: {
		AllowEmptyText:      true,
		MustBeImage:         true,
		AcceptIfImageNoText: true,
	},
	domain.CategoryUnrelated: {
		AllowEmptyText: true,
	},
}

// ProfileFor returns the validation profile for a normalized category. A
// category without a profile is a configuration fault, not an input defect,
// so it surfaces as an error instead of a silent default.
func ProfileFor(category domain.Category) (Profile, error) {
	p, ok := profiles[category]
	if !ok {
		return Profile{}, domain.WrapError(domain.ErrUnknownCategory, "lookup profile", errors.New(string(category)))
	}
	return p, nil
}
