package domain

import "strings"

// FileMeta is what the inspector learned about raw upload bytes. Signature
// evidence wins over the declared mime type.
type FileMeta struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	IsPDF    bool   `json:"is_pdf"`
	IsImage  bool   `json:"is_image"`
}

type ExtractionMethod string

const (
	MethodNative    ExtractionMethod = "native"
	MethodOCRLocal  ExtractionMethod = "ocr-local"
	MethodOCRRemote ExtractionMethod = "ocr-remote"
	MethodNone      ExtractionMethod = "none"
)

// NoTextSentinel is the placeholder recorded when no usable text could be
// extracted from a document. IsEmpty treats it as blank text.
const NoTextSentinel = "[No text content extracted from document]"

// ExtractedText is the transcript produced by the extraction cascade. It is
// built once per document and never mutated afterwards.
type ExtractedText struct {
	Text      string           `json:"text"`
	Method    ExtractionMethod `json:"method"`
	CharCount int              `json:"char_count"`
}

func (e ExtractedText) IsEmpty() bool {
	normalized := strings.ToLower(strings.TrimSpace(e.Text))
	return normalized == "" || strings.Contains(normalized, "no text content extracted")
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type IssueType string

const (
	IssueMissing    IssueType = "missing"
	IssueInvalid    IssueType = "invalid"
	IssueMismatch   IssueType = "mismatch"
	IssueUnreadable IssueType = "unreadable"
	IssueSuspicious IssueType = "suspicious"
	IssueUnrelated  IssueType = "unrelated"
)

// Issue is a single typed, severity-tagged finding from a validator pass.
// Issues are append-only per run; ordering is insertion order.
type Issue struct {
	Field       string    `json:"field"`
	Type        IssueType `json:"issue_type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Suggestion  string    `json:"suggestion,omitempty"`
}

// Known scalar field keys the extractor can produce. The map is open for
// augmenter-supplied keys but these are the ones the pipeline reasons about.
const (
	FieldHolderName       = "holder_name"
	FieldIDNumber         = "id_number"
	FieldDateOfBirth      = "date_of_birth"
	FieldExpiryDate       = "expiry_date"
	FieldAddress          = "address"
	FieldBankAccount      = "bank_account"
	FieldBankName         = "bank_name"
	FieldBankBIC          = "bank_bic"
	FieldPolicyNumber     = "policy_number"
	FieldClaimNumber      = "claim_number"
	FieldIncidentDate     = "incident_date"
	FieldIncidentLocation = "incident_location"
	FieldPurchaseDate     = "purchase_date"
	FieldProviderName     = "provider_name"
	FieldMedicalDate      = "medical_date"
	FieldAmountTotal      = "amount_total"
)

// Fields holds scalar extracted values keyed by field name.
type Fields map[string]string

// Present reports whether key holds a non-blank value.
func (f Fields) Present(key string) bool {
	return strings.TrimSpace(f[key]) != ""
}

// Amount is one money token found in the text, with an optional currency hint.
type Amount struct {
	Raw      string `json:"raw"`
	Currency string `json:"currency,omitempty"`
}

// Extraction groups everything the field extractor pulled from the text.
type Extraction struct {
	Fields  Fields   `json:"fields"`
	Dates   []string `json:"dates,omitempty"`
	Amounts []Amount `json:"amounts,omitempty"`
}

// Augmentation is the advisory result of the optional external field
// augmenter. Absence or failure of the augmenter leaves it zero-valued.
type Augmentation struct {
	DetectedCategory   Category           `json:"detected_category,omitempty"`
	DetectedConfidence float64            `json:"detected_confidence,omitempty"`
	Fields             Fields             `json:"fields,omitempty"`
	FieldConfidences   map[string]float64 `json:"field_confidences,omitempty"`
}

type VerificationStatus string

const (
	VerificationVerified           VerificationStatus = "verified"
	VerificationRejected           VerificationStatus = "rejected"
	VerificationNeedsReview        VerificationStatus = "needs_review"
	VerificationPartiallyCompliant VerificationStatus = "partially_compliant"
)

// Outcome is the terminal artifact of one verification run. It is either
// fully populated or not produced at all.
type Outcome struct {
	Status       VerificationStatus `json:"status"`
	Compliant    bool               `json:"is_compliant"`
	Confidence   int                `json:"confidence"`
	Issues       []Issue            `json:"issues"`
	Extraction   Extraction         `json:"extraction"`
	ShouldIndex  bool               `json:"should_index"`
	Analysis     string             `json:"analysis"`
	IssueSummary string             `json:"issue_summary,omitempty"`

	DeclaredCategory   Category         `json:"declared_category"`
	DetectedCategory   Category         `json:"detected_category"`
	DetectedConfidence float64          `json:"detected_confidence"`
	Text               ExtractedText    `json:"text_meta"`
	KeywordHits        map[Category]int `json:"keyword_hits,omitempty"`
}

// ReviewOutcome is the result of the multi-pass deep review workflow.
type ReviewOutcome struct {
	DocumentID        string             `json:"document_id"`
	Status            VerificationStatus `json:"status"`
	Valid             bool               `json:"is_valid"`
	NeedsHumanReview  bool               `json:"needs_human_review"`
	Issues            []Issue            `json:"issues"`
	Fields            Fields             `json:"fields,omitempty"`
	CompletenessScore float64            `json:"completeness_score"`
	CoherenceScore    float64            `json:"coherence_score"`
	Summary           string             `json:"summary"`
}
