package verify

import "github.com/YoanLn/Kiwi/internal/core/domain"

// Augmenter output may not override the rule-based classifier unless the
// rule-based confidence is below this threshold.
const classifierOverrideThreshold = 0.65

// MergeAugmented folds augmenter fields into the regex extraction under the
// fill-nulls-only rule: a non-empty regex value is never replaced.
func MergeAugmented(extraction domain.Extraction, aug domain.Augmentation) domain.Extraction {
	if len(aug.Fields) == 0 {
		return extraction
	}
	if extraction.Fields == nil {
		extraction.Fields = domain.Fields{}
	}
	for key, val := range aug.Fields {
		if val == "" {
			continue
		}
		if !extraction.Fields.Present(key) {
			extraction.Fields[key] = val
		}
	}
	return extraction
}

// ResolveCategory applies the augmenter's detected category as a soft signal:
// it only wins when the rule-based signal is weak and the augmenter is at
// least as confident.
func ResolveCategory(ruleCat domain.Category, ruleConf float64, aug domain.Augmentation) (domain.Category, float64) {
	if aug.DetectedCategory == "" {
		return ruleCat, ruleConf
	}
	if _, err := ProfileFor(aug.DetectedCategory); err != nil {
		return ruleCat, ruleConf
	}
	if ruleConf < classifierOverrideThreshold && aug.DetectedConfidence >= ruleConf {
		conf := aug.DetectedConfidence
		if conf > maxConfidence {
			conf = maxConfidence
		}
		return aug.DetectedCategory, conf
	}
	return ruleCat, ruleConf
}
