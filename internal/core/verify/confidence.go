package verify

import (
	"math"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// ocrQualityCharSaturation is the transcript length at which extraction
// quality counts as perfect.
const ocrQualityCharSaturation = 1200.0

var severityPenalty = map[domain.Severity]float64{
	domain.SeverityCritical: 35,
	domain.SeverityHigh:     18,
	domain.SeverityMedium:   8,
	domain.SeverityLow:      3,
}

const unknownSeverityPenalty = 6

// Score computes the bounded confidence for one verification run. The
// result is an integer in [0,98]; the system never claims full certainty.
func Score(
	profile Profile,
	declared, detected domain.Category,
	detectedConf float64,
	text domain.ExtractedText,
	fields domain.Fields,
	issues []domain.Issue,
) int {
	ocrQuality := math.Min(1.0, float64(text.CharCount)/ocrQualityCharSaturation)

	completeness := 1.0
	if len(profile.RequiredFields) > 0 {
		found := 0
		for _, field := range profile.RequiredFields {
			if fields.Present(field) {
				found++
			}
		}
		completeness = float64(found) / float64(len(profile.RequiredFields))
	}

	score := 25 + 35*detectedConf + 25*completeness + 15*ocrQuality

	for _, issue := range issues {
		if pen, ok := severityPenalty[issue.Severity]; ok {
			score -= pen
		} else {
			score -= unknownSeverityPenalty
		}
	}

	if declared != domain.CategoryUnrelated && detected != declared && detected != domain.CategoryUnrelated {
		score -= 10
	}
	if text.IsEmpty() && !profile.AllowEmptyText {
		score -= 15
	}

	score = math.Max(0, math.Min(98, score))
	return int(math.Round(score))
}
