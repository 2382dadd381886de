package models

import "time"

// Severity is the triage priority bucket for a patient
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank of a severity; lower means more urgent
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}

// Valid reports whether the severity is one of the recognized classes
func (s Severity) Valid() bool {
	return s == SeverityCritical || s == SeverityMedium || s == SeverityLow
}

// Patient represents a person waiting in the ER
type Patient struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Symptoms          string     `json:"symptoms,omitempty"`
	Severity          Severity   `json:"severity,omitempty"`
	ArrivalTime       *time.Time `json:"arrival_time,omitempty"`
	TreatmentDuration int        `json:"treatment_duration,omitempty"` // minutes
}

// StaffMember represents a doctor or nurse available for assignment
type StaffMember struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Capability string `json:"capability,omitempty"` // e.g. "trauma"; empty means generalist
	Available  *bool  `json:"available,omitempty"`  // defaults to true when omitted
	Load       int    `json:"load,omitempty"`       // work units already assigned before this request
}

// IsAvailable reports whether the staff member can take new patients
func (s StaffMember) IsAvailable() bool {
	return s.Available == nil || *s.Available
}

// Assignment pairs a patient with a staff member. DoctorID and
// WaitTimeMinutes are nil together when no staff could be assigned;
// an unassigned patient never carries a numeric wait estimate.
type Assignment struct {
	PatientID       string  `json:"patient_id"`
	DoctorID        *string `json:"doctor_id"`
	WaitTimeMinutes *int    `json:"wait_time_minutes"`
}

// ScheduleInput is the data structure for the triage endpoint
type ScheduleInput struct {
	Patients []Patient     `json:"patients"`
	Staff    []StaffMember `json:"staff"`
}

// ScheduleResult is the complete outcome of one scheduling request
type ScheduleResult struct {
	TriageOrder []string     `json:"triage_order"`
	Assignments []Assignment `json:"assignments"`
	Summary     string       `json:"summary"`
}
