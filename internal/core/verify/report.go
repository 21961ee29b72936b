package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

const (
	maxPreviewFields = 6
	maxTopKeywords   = 4
	maxReportIssues  = 10
)

// Fields worth surfacing in the report preview, in display order.
var previewFields = []string{
	domain.FieldHolderName,
	domain.FieldIDNumber,
	domain.FieldDateOfBirth,
	domain.FieldBankAccount,
	domain.FieldPolicyNumber,
	domain.FieldClaimNumber,
	domain.FieldIncidentDate,
}

// IssueSummary renders a one-line, semicolon-joined digest of at most
// maxItems issues. Returns "" when there are none.
func IssueSummary(issues []domain.Issue, maxItems int) string {
	if len(issues) == 0 {
		return ""
	}
	if maxItems <= 0 || maxItems > len(issues) {
		maxItems = len(issues)
	}
	parts := make([]string, 0, maxItems)
	for _, issue := range issues[:maxItems] {
		parts = append(parts, fmt.Sprintf("%s %s: %s",
			strings.ToUpper(string(issue.Severity)), issue.Field, issue.Description))
	}
	return strings.Join(parts, "; ")
}

// AnalysisReport renders the fixed-structure multi-line analysis string.
// Purely presentational; no side effects.
func AnalysisReport(
	docID string,
	declared, detected domain.Category,
	detectedConf float64,
	text domain.ExtractedText,
	fields domain.Fields,
	issues []domain.Issue,
	keywordHits map[domain.Category]int,
) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document %s verification report\n", docID)
	fmt.Fprintf(&b, "- Selected type: %s\n", declared)
	fmt.Fprintf(&b, "- Detected type: %s (conf=%.2f)\n", detected, detectedConf)
	fmt.Fprintf(&b, "- Extraction method: %s, chars=%d, empty=%t\n", text.Method, text.CharCount, text.IsEmpty())

	previews := make([]string, 0, maxPreviewFields)
	for _, key := range previewFields {
		if fields.Present(key) {
			previews = append(previews, fmt.Sprintf("%s=%s", key, fields[key]))
		}
		if len(previews) == maxPreviewFields {
			break
		}
	}
	if len(previews) > 0 {
		fmt.Fprintf(&b, "- Extracted: %s\n", strings.Join(previews, ", "))
	}

	if top := topKeywordHits(keywordHits, maxTopKeywords); len(top) > 0 {
		fmt.Fprintf(&b, "- Keyword hits: %s\n", strings.Join(top, ", "))
	}

	if len(issues) == 0 {
		b.WriteString("- Issues: none")
		return b.String()
	}

	b.WriteString("- Issues:")
	for i, issue := range issues {
		if i == maxReportIssues {
			break
		}
		fmt.Fprintf(&b, "\n  * [%s] %s (%s) %s", issue.Severity, issue.Field, issue.Type, issue.Description)
		if issue.Suggestion != "" {
			fmt.Fprintf(&b, " | suggestion: %s", issue.Suggestion)
		}
	}
	return b.String()
}

func topKeywordHits(hits map[domain.Category]int, limit int) []string {
	if len(hits) == 0 {
		return nil
	}
	type hit struct {
		cat   domain.Category
		count int
	}
	sorted := make([]hit, 0, len(hits))
	for cat, count := range hits {
		sorted = append(sorted, hit{cat, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].cat < sorted[j].cat
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]string, 0, len(sorted))
	for _, h := range sorted {
		out = append(out, fmt.Sprintf("%s:%d", h.cat, h.count))
	}
	return out
}
