package verify

import (
	"strings"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// Keyword lists are bilingual (EN/FR) because the source documents come from
// French insurance claims as often as not. Hits are counted per distinct
// keyword, not per occurrence.
var defaultKeywords = map[domain.Category][]string{
	domain.CategoryPolicy: {
		"policy number", "insurance policy", "police d'assurance",
		"numero de police", "numéro de police", "coverage", "couverture",
		"premium", "prime",
	},
	domain.CategoryClaimForm: {
		"claim number", "claim form", "declaration de sinistre",
		"déclaration de sinistre", "formulaire de reclamation",
		"formulaire de réclamation", "numero de sinistre",
		"numéro de sinistre", "declaration of loss",
	},
	domain.CategoryIncidentReport: {
		"police report", "rapport de police", "accident report",
		"incident report", "constat", "proces verbal", "procès verbal",
		"procès-verbal",
	},
	domain.CategoryProofOfOwnership: {
		"invoice", "facture", "receipt", "recu", "reçu", "bill of sale",
		"acte de vente", "proof of ownership", "preuve de propriete",
		"preuve de propriété",
	},
	domain.CategoryRepairEstimate: {
		"repair estimate", "devis", "quote", "repair invoice",
		"facture de reparation", "facture de réparation", "atelier", "garage",
	},
	domain.CategoryMedicalReport: {
		"medical report", "rapport medical", "rapport médical", "diagnosis",
		"diagnostic", "hospital", "hopital", "hôpital", "doctor", "medecin",
		"médecin", "patient", "facture medicale", "facture médicale",
	},
	domain.CategoryIdentity: {
		"passport", "passeport", "identity card", "carte d'identite",
		"carte d'identité", "carte nationale", "driver license",
		"permis de conduire", "national id", "republique francaise",
		"république française",
	},
	domain.CategoryBankDetails: {
		"iban", "bic", "rib", "bank details", "coordonnees bancaires",
		"coordonnées bancaires", "account number", "numero de compte",
		"numéro de compte", "bank account",
	},
	domain.CategoryDamageEvidence: {
		"damage", "dommage", "photo", "evidence", "degat", "dégât",
		"sinistre", "bris",
	},
}

const (
	noHitConfidence = 0.35
	maxConfidence   = 0.95
)

// Classifier detects the document category from extracted text by keyword
// matching. Safe for concurrent use once built.
type Classifier struct {
	keywords map[domain.Category][]string
}

// NewClassifier builds a classifier from the default bilingual keyword
// table, with optional extra keywords per category merged in.
func NewClassifier(extra map[domain.Category][]string) *Classifier {
	keywords := make(map[domain.Category][]string, len(defaultKeywords))
	for cat, kws := range defaultKeywords {
		keywords[cat] = append([]string(nil), kws...)
	}
	for cat, kws := range extra {
		for _, kw := range kws {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords[cat] = append(keywords[cat], kw)
			}
		}
	}
	return &Classifier{keywords: keywords}
}

// Classify returns the best-matching category, a confidence in [0,0.95] and
// the raw keyword hit counts. Ties break by registration order of the
// category table. No hits at all means unrelated at a fixed low confidence.
func (c *Classifier) Classify(text string) (domain.Category, float64, map[domain.Category]int) {
	t := strings.ToLower(text)

	hits := make(map[domain.Category]int)
	for _, cat := range domain.Categories {
		count := 0
		for _, kw := range c.keywords[cat] {
			if strings.Contains(t, kw) {
				count++
			}
		}
		if count > 0 {
			hits[cat] = count
		}
	}

	if len(hits) == 0 {
		return domain.CategoryUnrelated, noHitConfidence, map[domain.Category]int{}
	}

	best := domain.CategoryUnrelated
	bestCount := 0
	for _, cat := range domain.Categories {
		if hits[cat] > bestCount {
			best = cat
			bestCount = hits[cat]
		}
	}
	second := 0
	for cat, count := range hits {
		if cat != best && count > second {
			second = count
		}
	}

	conf := 0.55 + 0.10*float64(minInt(bestCount, 4)) + 0.10*float64(minInt(bestCount-second, 3))
	if conf < 0 {
		conf = 0
	}
	if conf > maxConfidence {
		conf = maxConfidence
	}
	return best, conf, hits
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
