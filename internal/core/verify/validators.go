package verify

import (
	"fmt"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

const maxPlausibleAgeYears = 120

// Validate runs the four validator passes in fixed order and returns the
// ordered concatenation of their findings.
func Validate(
	profile Profile,
	meta domain.FileMeta,
	declared, detected domain.Category,
	text domain.ExtractedText,
	fields domain.Fields,
	now time.Time,
) []domain.Issue {
	issues := validateFormat(profile, meta, text)
	issues = append(issues, validateCategoryMatch(declared, detected, text)...)
	issues = append(issues, validateRequiredFields(profile, fields)...)
	issues = append(issues, validateSemantics(declared, fields, now)...)
	return issues
}

func validateFormat(profile Profile, meta domain.FileMeta, text domain.ExtractedText) []domain.Issue {
	var issues []domain.Issue

	if profile.MustBeImage && !meta.IsImage {
		issues = append(issues, domain.Issue{
			Field:       "file",
			Type:        domain.IssueInvalid,
			Severity:    domain.SeverityHigh,
			Description: "Expected an image file for photo evidence, but received a non-image document.",
			Suggestion:  "Upload a JPG/PNG/WebP photo.",
		})
	}

	if text.IsEmpty() && !profile.AllowEmptyText {
		issues = append(issues, domain.Issue{
			Field:       "ocr_text",
			Type:        domain.IssueUnreadable,
			Severity:    domain.SeverityHigh,
			Description: "OCR extracted no usable text from this document.",
			Suggestion:  "Upload a clearer scan/photo or a digital PDF.",
		})
	}

	return issues
}

func validateCategoryMatch(declared, detected domain.Category, text domain.ExtractedText) []domain.Issue {
	// Hard reject only when there is real text and it is clearly unrelated.
	if detected == domain.CategoryUnrelated && !text.IsEmpty() && declared != domain.CategoryUnrelated {
		return []domain.Issue{{
			Field:       "document_type",
			Type:        domain.IssueUnrelated,
			Severity:    domain.SeverityCritical,
			Description: "Document content appears unrelated to insurance documents.",
			Suggestion:  "Upload the correct document type.",
		}}
	}

	// Mismatch is informational: flag for review, never a hard reject.
	if declared != domain.CategoryUnrelated && detected != declared && detected != domain.CategoryUnrelated {
		return []domain.Issue{{
			Field:       "document_type",
			Type:        domain.IssueMismatch,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Detected type looks like '%s' but user selected '%s'.", detected, declared),
			Suggestion:  "Confirm the selected document type or upload the right document.",
		}}
	}
	return nil
}

func validateRequiredFields(profile Profile, fields domain.Fields) []domain.Issue {
	var issues []domain.Issue
	for _, field := range profile.RequiredFields {
		if fields.Present(field) {
			continue
		}
		issues = append(issues, domain.Issue{
			Field:       field,
			Type:        domain.IssueMissing,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("Required field '%s' not found in the document text.", field),
			Suggestion:  "Upload a clearer document where this field is visible.",
		})
	}
	return issues
}

func validateSemantics(declared domain.Category, fields domain.Fields, now time.Time) []domain.Issue {
	var issues []domain.Issue
	today := now.UTC().Truncate(24 * time.Hour)

	if declared == domain.CategoryBankDetails && fields.Present(domain.FieldBankAccount) {
		if !ValidIBAN(fields[domain.FieldBankAccount]) {
			issues = append(issues, domain.Issue{
				Field:       domain.FieldBankAccount,
				Type:        domain.IssueInvalid,
				Severity:    domain.SeverityHigh,
				Description: "IBAN format/check digits look invalid.",
				Suggestion:  "Upload a bank document that clearly shows the IBAN.",
			})
		}
	}

	if dob, ok := ParseDateLoose(fields[domain.FieldDateOfBirth]); ok {
		if dob.After(today) {
			issues = append(issues, domain.Issue{
				Field:       domain.FieldDateOfBirth,
				Type:        domain.IssueInvalid,
				Severity:    domain.SeverityHigh,
				Description: "Date of birth is in the future.",
			})
		}
		if today.Year()-dob.Year() > maxPlausibleAgeYears {
			issues = append(issues, domain.Issue{
				Field:       domain.FieldDateOfBirth,
				Type:        domain.IssueSuspicious,
				Severity:    domain.SeverityMedium,
				Description: "Date of birth looks unusually old; may be OCR error.",
			})
		}
	}

	if exp, ok := ParseDateLoose(fields[domain.FieldExpiryDate]); ok {
		if exp.Before(today) && declared == domain.CategoryIdentity {
			issues = append(issues, domain.Issue{
				Field:       domain.FieldExpiryDate,
				Type:        domain.IssueInvalid,
				Severity:    domain.SeverityMedium,
				Description: "ID document appears expired.",
				Suggestion:  "Upload a valid, unexpired ID if required.",
			})
		}
	}

	return issues
}
