package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusVerified   DocumentStatus = "verified"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the persisted record of one uploaded claim document together
// with the latest verification outcome attached to it.
type Document struct {
	ID           string         `json:"id"`
	ClaimID      string         `json:"claim_id,omitempty"`
	DeclaredType string         `json:"declared_type"`
	Filename     string         `json:"filename"`
	MimeType     string         `json:"mime_type"`
	StoragePath  string         `json:"storage_path"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`

	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	Confidence         int                `json:"confidence"`
	Compliant          bool               `json:"is_compliant"`
	ComplianceIssues   string             `json:"compliance_issues,omitempty"`
	Analysis           string             `json:"analysis,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
