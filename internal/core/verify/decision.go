package verify

import "github.com/YoanLn/Kiwi/internal/core/domain"

// decisionInput carries the signals the decision ladder looks at.
type decisionInput struct {
	profile  Profile
	declared domain.Category
	critical bool
	high     bool
	medium   bool
}

type decisionRule struct {
	name      string
	applies   func(decisionInput) bool
	status    domain.VerificationStatus
	compliant bool
}

// decisionLadder is the ordered precedence table; first matching rule wins.
var decisionLadder = []decisionRule{
	{
		name:    "critical-rejects",
		applies: func(in decisionInput) bool { return in.critical },
		status:  domain.VerificationRejected,
	},
	{
		// Evidence photos with no legible text are deliberately acceptable.
		name: "evidence-photo-exception",
		applies: func(in decisionInput) bool {
			return in.declared == domain.CategoryDamageEvidence &&
				in.profile.AcceptIfImageNoText && !in.high
		},
		status:    domain.VerificationVerified,
		compliant: true,
	},
	{
		name:    "high-needs-review",
		applies: func(in decisionInput) bool { return in.high },
		status:  domain.VerificationPartiallyCompliant,
	},
	{
		name:      "medium-accept-with-notes",
		applies:   func(in decisionInput) bool { return in.medium },
		status:    domain.VerificationPartiallyCompliant,
		compliant: true,
	},
	{
		name:      "clean-verified",
		applies:   func(decisionInput) bool { return true },
		status:    domain.VerificationVerified,
		compliant: true,
	},
}

// Decide maps the ordered issue list onto a final verification status and a
// compliance flag by walking the precedence table top to bottom.
func Decide(profile Profile, declared domain.Category, issues []domain.Issue) (domain.VerificationStatus, bool) {
	in := decisionInput{
		profile:  profile,
		declared: declared,
		critical: hasSeverity(issues, domain.SeverityCritical),
		high:     hasSeverity(issues, domain.SeverityHigh),
		medium:   hasSeverity(issues, domain.SeverityMedium),
	}
	for _, rule := range decisionLadder {
		if rule.applies(in) {
			return rule.status, rule.compliant
		}
	}
	// The ladder ends in a catch-all; this is unreachable.
	return domain.VerificationRejected, false
}

// Review-round thresholds for the multi-pass workflow.
const (
	minCompletenessScore = 0.70
	minCoherenceScore    = 0.70
)

// ReviewSignals are the extra findings contributed by the deep-review
// passes on top of the issue list.
type ReviewSignals struct {
	InvalidDocumentType bool
	CompletenessScore   float64
	CoherenceScore      float64
}

// DecideReview generalizes the ladder for the multi-pass workflow: an
// explicitly invalid document type short-circuits to rejection, critical
// issues reject, high issues or weak completeness/coherence route to human
// review, medium issues accept with notes. The second return value reports
// whether a human needs to look at the document.
func DecideReview(issues []domain.Issue, signals ReviewSignals) (domain.VerificationStatus, bool, string) {
	switch {
	case signals.InvalidDocumentType:
		return domain.VerificationRejected, false, "REJECTED - Document is not a valid insurance document type"
	case hasSeverity(issues, domain.SeverityCritical):
		return domain.VerificationRejected, true, "INVALID - Critical issues detected"
	case hasSeverity(issues, domain.SeverityHigh):
		return domain.VerificationNeedsReview, true, "NEEDS_REVIEW - Significant issues found"
	case signals.CompletenessScore < minCompletenessScore:
		return domain.VerificationNeedsReview, true, "INCOMPLETE - Missing required information"
	case signals.CoherenceScore < minCoherenceScore:
		return domain.VerificationNeedsReview, true, "NEEDS_REVIEW - Data inconsistencies detected"
	case hasSeverity(issues, domain.SeverityMedium):
		return domain.VerificationPartiallyCompliant, false, "VALID_WITH_NOTES - Valid with minor issues"
	default:
		return domain.VerificationVerified, false, "VALID - Document passed all checks"
	}
}

func hasSeverity(issues []domain.Issue, severity domain.Severity) bool {
	for _, issue := range issues {
		if issue.Severity == severity {
			return true
		}
	}
	return false
}
