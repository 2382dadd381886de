package classifier

import (
	"context"
	"testing"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

func TestKeywordClassify(t *testing.T) {
	k := NewKeyword()

	cases := []struct {
		symptoms string
		want     models.Severity
	}{
		{"sudden chest pain and sweating", models.SeverityCritical},
		{"Shortness of Breath after climbing stairs", models.SeverityCritical},
		{"fell off a ladder, head injury", models.SeverityCritical},
		{"high fever since yesterday", models.SeverityMedium},
		{"persistent cough for two weeks", models.SeverityMedium},
		{"abdominal pain after eating", models.SeverityMedium},
		{"sore throat", models.SeverityLow},
		{"", models.SeverityLow},
	}

	for _, tc := range cases {
		got, err := k.Classify(context.Background(), tc.symptoms)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", tc.symptoms, err)
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.symptoms, got, tc.want)
		}
	}
}
