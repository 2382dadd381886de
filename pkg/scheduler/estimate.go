package scheduler

import "github.com/arnavshah/triage-api-go/pkg/models"

// ServiceTimes holds the expected treatment minutes per severity class.
// These are the defaults used when a patient carries no explicit
// treatment_duration; override via SERVICE_MINUTES_* environment variables
// in cmd/server.
type ServiceTimes struct {
	Critical int
	Medium   int
	Low      int
}

// DefaultServiceTimes returns the documented per-severity defaults.
func DefaultServiceTimes() ServiceTimes {
	return ServiceTimes{Critical: 15, Medium: 25, Low: 35}
}

// For returns the expected service minutes for one patient: their own
// treatment_duration when supplied, else the default for their severity.
func (s ServiceTimes) For(p models.Patient) int {
	if p.TreatmentDuration > 0 {
		return p.TreatmentDuration
	}
	switch p.Severity {
	case models.SeverityCritical:
		return s.Critical
	case models.SeverityMedium:
		return s.Medium
	default:
		return s.Low
	}
}

// Annotate converts placements into wire assignments. An unassigned patient
// keeps both doctor_id and wait_time_minutes null; reporting a numeric wait
// for a patient nobody is treating would be a lie.
func Annotate(placements []Placement) []models.Assignment {
	assignments := make([]models.Assignment, 0, len(placements))
	for _, pl := range placements {
		asgn := models.Assignment{PatientID: pl.PatientID}
		if pl.Assigned {
			staffID := pl.StaffID
			wait := pl.WaitMinutes
			asgn.DoctorID = &staffID
			asgn.WaitTimeMinutes = &wait
		}
		assignments = append(assignments, asgn)
	}
	return assignments
}
