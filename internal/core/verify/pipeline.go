package verify

import (
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

const summaryIssueCap = 8

// Pipeline composes the deterministic verification stages over an already
// extracted transcript. It performs no I/O and is safe for concurrent use;
// every intermediate value is local to the call.
type Pipeline struct {
	classifier *Classifier
	now        func() time.Time
}

// NewPipeline builds a pipeline around a classifier. A nil now function
// defaults to wall-clock time.
func NewPipeline(classifier *Classifier, now func() time.Time) *Pipeline {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &Pipeline{classifier: classifier, now: now}
}

// Run executes classification, field extraction, augmenter merge,
// validation, decision, scoring and reporting. The returned outcome is
// always fully populated; the only error is a profile-registry invariant
// violation for an unmapped category.
func (p *Pipeline) Run(
	docID string,
	meta domain.FileMeta,
	declared domain.Category,
	text domain.ExtractedText,
	aug domain.Augmentation,
) (*domain.Outcome, error) {
	profile, err := ProfileFor(declared)
	if err != nil {
		return nil, err
	}

	detected, detectedConf, keywordHits := p.classifier.Classify(text.Text)
	extraction := MergeAugmented(ExtractFields(text.Text), aug)
	detected, detectedConf = ResolveCategory(detected, detectedConf, aug)

	issues := Validate(profile, meta, declared, detected, text, extraction.Fields, p.now())
	status, compliant := Decide(profile, declared, issues)
	confidence := Score(profile, declared, detected, detectedConf, text, extraction.Fields, issues)

	return &domain.Outcome{
		Status:       status,
		Compliant:    compliant,
		Confidence:   confidence,
		Issues:       issues,
		Extraction:   extraction,
		ShouldIndex:  profile.EligibleForIndex && compliant,
		Analysis:     AnalysisReport(docID, declared, detected, detectedConf, text, extraction.Fields, issues, keywordHits),
		IssueSummary: IssueSummary(issues, summaryIssueCap),

		DeclaredCategory:   declared,
		DetectedCategory:   detected,
		DetectedConfidence: detectedConf,
		Text:               text,
		KeywordHits:        keywordHits,
	}, nil
}
