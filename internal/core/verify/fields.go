package verify

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

var (
	ibanRE   = regexp.MustCompile(`\b([A-Z]{2}\d{2}[A-Z0-9]{11,30})\b`)
	bicRE    = regexp.MustCompile(`\b([A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?)\b`)
	dateRE   = regexp.MustCompile(`\b(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})\b`)
	amountRE = regexp.MustCompile(`(?i)\b(\d{1,3}(?:[ ,]\d{3})*(?:[.,]\d{2})?)\s?(€|eur|usd|\$)?\b`)
	spacesRE = regexp.MustCompile(`\s+`)
)

// Day-first variants come before ISO so ambiguous numeric dates resolve the
// way the source documents write them.
var dateLayouts = []string{
	"02/01/2006", "02-01-2006", "02.01.2006",
	"02/01/06", "02-01-06", "02.01.06",
	"2006-01-02", "2006/01/02", "2006.01.02",
}

type labelPattern struct {
	field    string
	patterns []*regexp.Regexp
}

var labelPatterns = []labelPattern{
	{domain.FieldHolderName, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:name|nom)\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)(?:account holder|titulaire)\s*[:\-]\s*(.+)`),
	}},
	{domain.FieldPolicyNumber, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:policy number|num(?:e|é)ro de police)\s*[:\-]\s*([A-Z0-9\-/]+)`),
	}},
	{domain.FieldClaimNumber, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:claim number|num(?:e|é)ro de sinistre)\s*[:\-]\s*([A-Z0-9\-/]+)`),
	}},
	{domain.FieldIncidentLocation, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:location|lieu)\s*[:\-]\s*(.+)`),
	}},
}

const (
	minLabelValueLen = 3
	maxLabelValueLen = 119
	maxAmounts       = 10
)

// ExtractFields runs deterministic regex extraction over the transcript.
// The IBAN checksum is not applied here; structural matching only.
func ExtractFields(text string) domain.Extraction {
	out := domain.Extraction{Fields: domain.Fields{}}

	// IBAN matching runs over the text with whitespace stripped so account
	// numbers broken across groups of four still match.
	compact := spacesRE.ReplaceAllString(strings.ToUpper(text), "")
	if m := ibanRE.FindStringSubmatch(compact); m != nil {
		out.Fields[domain.FieldBankAccount] = m[1]
	}

	if m := bicRE.FindStringSubmatch(strings.ToUpper(text)); m != nil {
		out.Fields[domain.FieldBankBIC] = m[1]
	}

	out.Dates = extractDates(text)
	out.Amounts = extractAmounts(text)

	for _, lp := range labelPatterns {
		for _, re := range lp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			val := NormalizeSpaces(m[1])
			if len(val) >= minLabelValueLen && len(val) <= maxLabelValueLen {
				out.Fields[lp.field] = val
				break
			}
		}
	}

	return out
}

func extractDates(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range dateRE.FindAllStringSubmatch(text, -1) {
		d, ok := ParseDateLoose(m[1])
		if !ok {
			continue
		}
		seen[d.Format("2006-01-02")] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func extractAmounts(text string) []domain.Amount {
	var amounts []domain.Amount
	for _, m := range amountRE.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		if len(raw) < 3 {
			continue
		}
		amounts = append(amounts, domain.Amount{
			Raw:      raw,
			Currency: strings.ToLower(m[2]),
		})
		if len(amounts) == maxAmounts {
			break
		}
	}
	return amounts
}

// ParseDateLoose tries the fixed layout list in order and reports whether
// the candidate parsed at all.
func ParseDateLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// NormalizeSpaces collapses runs of whitespace into single spaces.
func NormalizeSpaces(s string) string {
	return strings.TrimSpace(spacesRE.ReplaceAllString(s, " "))
}
