package domain

// Category is the normalized document category used throughout the
// verification pipeline. Caller-facing labels (including legacy aliases)
// are mapped onto this closed set before anything else runs.
type Category string

const (
	CategoryIdentity         Category = "identity"
	CategoryBankDetails      Category = "bank-details"
	CategoryPolicy           Category = "policy"
	CategoryClaimForm        Category = "claim-form"
	CategoryIncidentReport   Category = "incident-report"
	CategoryProofOfOwnership Category = "proof-of-ownership"
	CategoryRepairEstimate   Category = "repair-estimate"
	CategoryMedicalReport    Category = "medical-report"
	CategoryDamageEvidence   Category = "damage-evidence"
	CategoryUnrelated        Category = "unrelated"
)

// Categories lists every normalized category in registration order. The
// classifier iterates this slice so tie-breaks are deterministic.
var Categories = []Category{
	CategoryPolicy,
	CategoryClaimForm,
	CategoryIncidentReport,
	CategoryProofOfOwnership,
	CategoryRepairEstimate,
	CategoryMedicalReport,
	CategoryIdentity,
	CategoryBankDetails,
	CategoryDamageEvidence,
	CategoryUnrelated,
}

var categoryAliases = map[string]Category{
	"identity":           CategoryIdentity,
	"id_document":        CategoryIdentity,
	"bank-details":       CategoryBankDetails,
	"bank_details":       CategoryBankDetails,
	"policy":             CategoryPolicy,
	"insurance_policy":   CategoryPolicy,
	"claim-form":         CategoryClaimForm,
	"claim_form":         CategoryClaimForm,
	"incident-report":    CategoryIncidentReport,
	"incident_report":    CategoryIncidentReport,
	"police_report":      CategoryIncidentReport,
	"proof-of-ownership": CategoryProofOfOwnership,
	"proof_of_ownership": CategoryProofOfOwnership,
	"invoice":            CategoryProofOfOwnership,
	"repair-estimate":    CategoryRepairEstimate,
	"repair_estimate":    CategoryRepairEstimate,
	"medical-report":     CategoryMedicalReport,
	"medical_report":     CategoryMedicalReport,
	"damage-evidence":    CategoryDamageEvidence,
	"evidence_of_damage": CategoryDamageEvidence,
	"photos":             CategoryDamageEvidence,
	"unrelated":          CategoryUnrelated,
	"other":              CategoryUnrelated,
}

// NormalizeCategory maps a caller-facing document type label onto the
// normalized category set. Unknown labels normalize to unrelated.
func NormalizeCategory(label string) Category {
	if c, ok := categoryAliases[label]; ok {
		return c
	}
	return CategoryUnrelated
}

// KnownCategory reports whether label maps to a category other than the
// unrelated fallback (or is the unrelated label itself).
func KnownCategory(label string) bool {
	_, ok := categoryAliases[label]
	return ok
}
