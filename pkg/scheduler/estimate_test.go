package scheduler

import (
	"testing"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

func TestServiceTimes_For(t *testing.T) {
	times := DefaultServiceTimes()

	cases := []struct {
		name    string
		patient models.Patient
		want    int
	}{
		{"critical default", models.Patient{Severity: models.SeverityCritical}, 15},
		{"medium default", models.Patient{Severity: models.SeverityMedium}, 25},
		{"low default", models.Patient{Severity: models.SeverityLow}, 35},
		{"explicit duration wins", models.Patient{Severity: models.SeverityCritical, TreatmentDuration: 90}, 90},
	}

	for _, tc := range cases {
		if got := times.For(tc.patient); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestAnnotate_UnassignedKeepsNullSentinels(t *testing.T) {
	placements := []Placement{
		{PatientID: "P1", StaffID: "D1", WaitMinutes: 10, Assigned: true},
		{PatientID: "P2"},
	}

	assignments := Annotate(placements)

	if assignments[0].DoctorID == nil || *assignments[0].DoctorID != "D1" {
		t.Errorf("assigned patient lost its doctor: %+v", assignments[0])
	}
	if assignments[0].WaitTimeMinutes == nil || *assignments[0].WaitTimeMinutes != 10 {
		t.Errorf("assigned patient lost its wait estimate: %+v", assignments[0])
	}

	if assignments[1].DoctorID != nil {
		t.Errorf("unassigned patient must have a null doctor, got %v", *assignments[1].DoctorID)
	}
	if assignments[1].WaitTimeMinutes != nil {
		t.Errorf("unassigned patient must never carry a numeric wait, got %v", *assignments[1].WaitTimeMinutes)
	}
}
