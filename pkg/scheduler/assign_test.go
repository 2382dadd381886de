package scheduler

import (
	"reflect"
	"testing"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

func patientMap(patients ...models.Patient) map[string]models.Patient {
	m := make(map[string]models.Patient, len(patients))
	for _, p := range patients {
		m[p.ID] = p
	}
	return m
}

func newTestAssigner() *Assigner {
	return NewAssigner(DefaultAssignConfig(), DefaultServiceTimes())
}

func TestAssign_SinglePatientZeroWait(t *testing.T) {
	patients := patientMap(models.Patient{ID: "P1", Severity: models.SeverityCritical})
	staff := []models.StaffMember{{ID: "D1"}}

	placements := newTestAssigner().Assign([]string{"P1"}, patients, staff)

	if len(placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placements))
	}
	pl := placements[0]
	if !pl.Assigned || pl.StaffID != "D1" {
		t.Errorf("expected P1 assigned to D1, got %+v", pl)
	}
	if pl.WaitMinutes != 0 {
		t.Errorf("first patient on an idle doctor should wait 0, got %d", pl.WaitMinutes)
	}
}

func TestAssign_AlternatesAcrossLeastLoaded(t *testing.T) {
	patients := patientMap(
		models.Patient{ID: "P1", Severity: models.SeverityCritical},
		models.Patient{ID: "P2", Severity: models.SeverityCritical},
		models.Patient{ID: "P3", Severity: models.SeverityCritical},
		models.Patient{ID: "P4", Severity: models.SeverityCritical},
	)
	staff := []models.StaffMember{{ID: "D1"}, {ID: "D2"}}

	placements := newTestAssigner().Assign([]string{"P1", "P2", "P3", "P4"}, patients, staff)

	perStaff := make(map[string]int)
	for _, pl := range placements {
		if !pl.Assigned {
			t.Fatalf("patient %s unexpectedly unassigned", pl.PatientID)
		}
		perStaff[pl.StaffID]++
	}

	if perStaff["D1"] != 2 || perStaff["D2"] != 2 {
		t.Errorf("expected an even 2/2 split, got %v", perStaff)
	}

	// Lowest id wins the first pick, then strict alternation.
	want := []string{"D1", "D2", "D1", "D2"}
	for i, pl := range placements {
		if pl.StaffID != want[i] {
			t.Errorf("placement %d went to %s, want %s", i, pl.StaffID, want[i])
		}
	}
}

func TestAssign_NoStaff(t *testing.T) {
	patients := patientMap(models.Patient{ID: "P1", Severity: models.SeverityCritical})

	placements := newTestAssigner().Assign([]string{"P1"}, patients, nil)

	if len(placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placements))
	}
	if placements[0].Assigned {
		t.Errorf("no staff means no assignment, got %+v", placements[0])
	}
}

func TestAssign_UnavailableStaffSkipped(t *testing.T) {
	off := false
	patients := patientMap(models.Patient{ID: "P1", Severity: models.SeverityMedium})
	staff := []models.StaffMember{
		{ID: "D1", Available: &off},
		{ID: "D2"},
	}

	placements := newTestAssigner().Assign([]string{"P1"}, patients, staff)

	if placements[0].StaffID != "D2" {
		t.Errorf("unavailable staff must never receive patients, got %+v", placements[0])
	}
}

func TestAssign_CriticalPrefersTraumaStaff(t *testing.T) {
	patients := patientMap(
		models.Patient{ID: "P1", Severity: models.SeverityCritical},
		models.Patient{ID: "P2", Severity: models.SeverityLow},
	)
	staff := []models.StaffMember{
		{ID: "D1"},
		{ID: "D2", Capability: "trauma"},
	}

	placements := newTestAssigner().Assign([]string{"P1", "P2"}, patients, staff)

	if placements[0].StaffID != "D2" {
		t.Errorf("critical patient should go to the trauma doctor, got %s", placements[0].StaffID)
	}
	if placements[1].StaffID != "D1" {
		t.Errorf("low patient should go to the idle generalist, got %s", placements[1].StaffID)
	}
}

func TestAssign_CriticalFallsBackWithoutTraumaStaff(t *testing.T) {
	patients := patientMap(models.Patient{ID: "P1", Severity: models.SeverityCritical})
	staff := []models.StaffMember{{ID: "D1", Capability: "pediatrics"}}

	placements := newTestAssigner().Assign([]string{"P1"}, patients, staff)

	if !placements[0].Assigned || placements[0].StaffID != "D1" {
		t.Errorf("critical patient must fall back to the least-loaded generalist, got %+v", placements[0])
	}
}

func TestAssign_StartingLoadBiasesSelection(t *testing.T) {
	patients := patientMap(models.Patient{ID: "P1", Severity: models.SeverityMedium})
	staff := []models.StaffMember{
		{ID: "D1", Load: 3},
		{ID: "D2"},
	}

	placements := newTestAssigner().Assign([]string{"P1"}, patients, staff)

	if placements[0].StaffID != "D2" {
		t.Errorf("pre-loaded staff should lose the tie, got %s", placements[0].StaffID)
	}
}

func TestAssign_WaitsMonotonicPerStaff(t *testing.T) {
	patients := patientMap(
		models.Patient{ID: "P1", Severity: models.SeverityCritical},
		models.Patient{ID: "P2", Severity: models.SeverityCritical},
		models.Patient{ID: "P3", Severity: models.SeverityCritical},
	)
	staff := []models.StaffMember{{ID: "D1"}}

	placements := newTestAssigner().Assign([]string{"P1", "P2", "P3"}, patients, staff)

	prev := -1
	for _, pl := range placements {
		if pl.WaitMinutes < prev {
			t.Errorf("waits must be monotonic within one staff queue: %d after %d", pl.WaitMinutes, prev)
		}
		prev = pl.WaitMinutes
	}

	if placements[1].WaitMinutes != 15 {
		t.Errorf("second critical patient should wait one critical service slot, got %d", placements[1].WaitMinutes)
	}
}

func TestAssign_TreatmentDurationOverridesDefault(t *testing.T) {
	patients := patientMap(
		models.Patient{ID: "P1", Severity: models.SeverityCritical, TreatmentDuration: 40},
		models.Patient{ID: "P2", Severity: models.SeverityCritical},
	)
	staff := []models.StaffMember{{ID: "D1"}}

	placements := newTestAssigner().Assign([]string{"P1", "P2"}, patients, staff)

	if placements[1].WaitMinutes != 40 {
		t.Errorf("second patient should queue behind the explicit 40 minute treatment, got %d", placements[1].WaitMinutes)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	patients := patientMap(
		models.Patient{ID: "P1", Severity: models.SeverityCritical},
		models.Patient{ID: "P2", Severity: models.SeverityMedium},
		models.Patient{ID: "P3", Severity: models.SeverityLow},
		models.Patient{ID: "P4", Severity: models.SeverityMedium},
	)
	order := []string{"P1", "P2", "P4", "P3"}
	staff := []models.StaffMember{{ID: "D3"}, {ID: "D1"}, {ID: "D2", Capability: "trauma"}}

	first := newTestAssigner().Assign(order, patients, staff)
	second := newTestAssigner().Assign(order, patients, staff)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different placements:\n%+v\n%+v", first, second)
	}
}
