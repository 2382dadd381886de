package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/arnavshah/triage-api-go/pkg/models"
	"github.com/google/uuid"
)

// Classifier derives a severity class from free-text symptoms. It is only
// consulted for patients whose request omitted an explicit severity.
type Classifier interface {
	Classify(ctx context.Context, symptoms string) (models.Severity, error)
}

// History is the durable request log. Writes are best-effort: a failed
// write is logged and never alters the scheduling response.
type History interface {
	SaveSchedule(ctx context.Context, rec *HistoryRecord) error
}

// HistoryRecord is one append-only entry in the schedule history.
type HistoryRecord struct {
	RequestID string
	CreatedAt time.Time
	Patients  []models.Patient
	Staff     []models.StaffMember
	Result    *models.ScheduleResult
}

// Service coordinates one scheduling request: validation, severity
// derivation, triage ordering, assignment, wait estimation and the history
// write. All working state is request-scoped, so a single Service is safe
// for concurrent use.
type Service struct {
	Classifier Classifier
	History    History
	Times      ServiceTimes
	Config     AssignConfig

	// PersistTimeout bounds the background history write.
	PersistTimeout time.Duration

	// Now is the clock used for default arrival times; swapped in tests.
	Now func() time.Time
}

// NewService creates a Service with default tuning.
func NewService(classifier Classifier, history History) *Service {
	return &Service{
		Classifier:     classifier,
		History:        history,
		Times:          DefaultServiceTimes(),
		Config:         DefaultAssignConfig(),
		PersistTimeout: 5 * time.Second,
		Now:            time.Now,
	}
}

// Schedule computes one atomic scheduling decision. Identical input always
// yields an identical result.
func (s *Service) Schedule(ctx context.Context, input models.ScheduleInput) (*models.ScheduleResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	patients, err := s.normalize(ctx, input.Patients)
	if err != nil {
		return nil, err
	}

	order, err := BuildOrder(patients)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}

	placements := NewAssigner(s.Config, s.Times).Assign(order, byID, input.Staff)
	assignments := Annotate(placements)

	result := &models.ScheduleResult{
		TriageOrder: order,
		Assignments: assignments,
		Summary:     summarize(placements, input.Staff),
	}

	if s.History != nil {
		go s.persist(patients, input.Staff, result)
	}

	return result, nil
}

// validate rejects malformed requests before any algorithmic work begins.
func validate(input models.ScheduleInput) error {
	if len(input.Patients) == 0 {
		return fmt.Errorf("%w: at least one patient is required", ErrInvalidInput)
	}
	if len(input.Staff) == 0 {
		return fmt.Errorf("%w: at least one staff member is required", ErrInvalidInput)
	}

	patientIDs := make(map[string]bool, len(input.Patients))
	for _, p := range input.Patients {
		if p.ID == "" {
			return fmt.Errorf("%w: patient is missing an id", ErrInvalidInput)
		}
		if p.Name == "" {
			return fmt.Errorf("%w: patient %s is missing a name", ErrInvalidInput, p.ID)
		}
		if patientIDs[p.ID] {
			return fmt.Errorf("%w: duplicate patient id %s", ErrInvalidInput, p.ID)
		}
		patientIDs[p.ID] = true
		if p.Severity != "" && !p.Severity.Valid() {
			return fmt.Errorf("%w: patient %s has unrecognized severity %q", ErrInvalidInput, p.ID, p.Severity)
		}
	}

	staffIDs := make(map[string]bool, len(input.Staff))
	for _, st := range input.Staff {
		if st.ID == "" {
			return fmt.Errorf("%w: staff member is missing an id", ErrInvalidInput)
		}
		if staffIDs[st.ID] {
			return fmt.Errorf("%w: duplicate staff id %s", ErrInvalidInput, st.ID)
		}
		staffIDs[st.ID] = true
	}
	return nil
}

// normalize fills the defaults the core assumes: every patient gets an
// arrival time (receipt time when omitted) and a severity, classifying
// symptoms when the request left severity blank.
func (s *Service) normalize(ctx context.Context, patients []models.Patient) ([]models.Patient, error) {
	receipt := s.Now()
	out := make([]models.Patient, len(patients))
	for i, p := range patients {
		if p.ArrivalTime == nil {
			t := receipt
			p.ArrivalTime = &t
		}
		if p.Severity == "" {
			if s.Classifier == nil {
				return nil, fmt.Errorf("%w: patient %s has no severity and no classifier is configured", ErrClassifierUnavailable, p.ID)
			}
			sev, err := s.Classifier.Classify(ctx, p.Symptoms)
			if err != nil {
				return nil, fmt.Errorf("%w: classifying patient %s: %v", ErrClassifierUnavailable, p.ID, err)
			}
			p.Severity = sev
		}
		out[i] = p
	}
	return out, nil
}

// summarize produces the human-readable outcome line for the response.
func summarize(placements []Placement, staff []models.StaffMember) string {
	assigned := 0
	for _, pl := range placements {
		if pl.Assigned {
			assigned++
		}
	}
	unassigned := len(placements) - assigned

	available := 0
	for _, st := range staff {
		if st.IsAvailable() {
			available++
		}
	}

	if available == 0 {
		return fmt.Sprintf("No staff available: all %d patients are waiting for capacity.", len(placements))
	}
	if unassigned > 0 {
		return fmt.Sprintf("Assigned %d of %d patients across %d staff; %d could not be placed.",
			assigned, len(placements), available, unassigned)
	}
	return fmt.Sprintf("Assigned all %d patients across %d staff.", assigned, available)
}

// persist writes the history record in the background with a bounded
// timeout. One attempt only; a retry loop could duplicate history rows.
func (s *Service) persist(patients []models.Patient, staff []models.StaffMember, result *models.ScheduleResult) {
	ctx, cancel := context.WithTimeout(context.Background(), s.PersistTimeout)
	defer cancel()

	rec := &HistoryRecord{
		RequestID: uuid.NewString(),
		CreatedAt: s.Now(),
		Patients:  patients,
		Staff:     staff,
		Result:    result,
	}
	if err := s.History.SaveSchedule(ctx, rec); err != nil {
		log.Printf("history write failed for request %s: %v", rec.RequestID, err)
	}
}
