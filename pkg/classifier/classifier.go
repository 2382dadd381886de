package classifier

import (
	"context"
	"strings"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

// Keyword is a simple rule-based severity classifier. It scans symptom text
// for known phrases, highest severity first, and falls back to low when
// nothing matches. It is deliberately replaceable: anything implementing
// scheduler.Classifier can stand in for it.
type Keyword struct {
	critical []string
	medium   []string
	fallback models.Severity
}

// NewKeyword returns a classifier with the stock symptom rules.
func NewKeyword() *Keyword {
	return &Keyword{
		critical: []string{
			"chest pain", "shortness of breath", "head injury",
			"unconscious", "severe bleeding", "stroke",
		},
		medium: []string{
			"fever", "persistent cough", "abdominal pain",
			"broken bone", "deep cut",
		},
		fallback: models.SeverityLow,
	}
}

// Classify maps symptom text to a severity class. It never fails; the error
// return exists for classifiers backed by remote services.
func (k *Keyword) Classify(_ context.Context, symptoms string) (models.Severity, error) {
	text := strings.ToLower(symptoms)

	for _, phrase := range k.critical {
		if strings.Contains(text, phrase) {
			return models.SeverityCritical, nil
		}
	}
	for _, phrase := range k.medium {
		if strings.Contains(text, phrase) {
			return models.SeverityMedium, nil
		}
	}
	return k.fallback, nil
}
