package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

// BuildOrder computes the triage order for a batch of patients: severity
// first (critical before medium before low), then arrival time, then original
// input position. The sort is stable, so identical inputs always produce the
// identical order.
func BuildOrder(patients []models.Patient) ([]string, error) {
	for _, p := range patients {
		if !p.Severity.Valid() {
			return nil, fmt.Errorf("%w: patient %s has unrecognized severity %q", ErrInvalidInput, p.ID, p.Severity)
		}
	}

	idx := make([]int, len(patients))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := patients[idx[a]], patients[idx[b]]
		if pa.Severity.Rank() != pb.Severity.Rank() {
			return pa.Severity.Rank() < pb.Severity.Rank()
		}
		ta, tb := arrivalOf(pa), arrivalOf(pb)
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		// Equal severity and arrival: keep input order.
		return idx[a] < idx[b]
	})

	order := make([]string, len(patients))
	for i, j := range idx {
		order[i] = patients[j].ID
	}
	return order, nil
}

func arrivalOf(p models.Patient) time.Time {
	if p.ArrivalTime != nil {
		return *p.ArrivalTime
	}
	return time.Time{}
}
