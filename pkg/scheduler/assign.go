package scheduler

import (
	"container/heap"

	"github.com/arnavshah/triage-api-go/pkg/models"
)

// AssignConfig tunes the load-balancing pass.
type AssignConfig struct {
	// LoadWeight is the number of load units one assignment adds to a
	// staff member.
	LoadWeight int

	// TraumaTags lists capability tags treated as acute-care. Critical
	// patients prefer staff carrying one of these tags when any is
	// available.
	TraumaTags []string
}

// DefaultAssignConfig returns the assignment tuning used in production.
func DefaultAssignConfig() AssignConfig {
	return AssignConfig{
		LoadWeight: 1,
		TraumaTags: []string{"trauma"},
	}
}

// Placement records where one patient landed during the assignment pass.
// A Placement with Assigned=false has no staff and no measurable wait.
type Placement struct {
	PatientID   string
	StaffID     string
	WaitMinutes int
	Assigned    bool
}

// staffState is the mutable per-request view of one staff member.
type staffState struct {
	id         string
	capability string
	load       int // balancing units, seeded from the inbound load field
	queuedMins int // minutes of work assigned within this request
	version    int // bumped on every update; stale heap entries are skipped
}

// staffHeap is a min-heap over (load, id). Entries carry the version they
// were pushed with, so updated staff can be re-pushed without removal.
type staffHeap struct {
	entries []heapEntry
}

type heapEntry struct {
	st      *staffState
	load    int
	version int
}

func (h *staffHeap) Len() int { return len(h.entries) }

func (h *staffHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.load != b.load {
		return a.load < b.load
	}
	return a.st.id < b.st.id
}

func (h *staffHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *staffHeap) Push(x any) { h.entries = append(h.entries, x.(heapEntry)) }

func (h *staffHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}

// popLive pops entries until one matches its staff member's current version.
// Returns nil when the heap is exhausted.
func (h *staffHeap) popLive() *staffState {
	for h.Len() > 0 {
		e := heap.Pop(h).(heapEntry)
		if e.version == e.st.version {
			return e.st
		}
	}
	return nil
}

func (h *staffHeap) push(st *staffState) {
	heap.Push(h, heapEntry{st: st, load: st.load, version: st.version})
}

// Assigner matches an ordered patient queue against a staff pool, balancing
// load greedily: each patient goes to the least-loaded available staff
// member, with staff id as the final tie-break so the result is
// deterministic.
type Assigner struct {
	Config AssignConfig
	Times  ServiceTimes
}

// NewAssigner creates an assigner with the given tuning.
func NewAssigner(cfg AssignConfig, times ServiceTimes) *Assigner {
	return &Assigner{Config: cfg, Times: times}
}

// Assign walks the triage order and produces one Placement per patient, in
// triage order. Unavailable staff never enter the pool. When the pool is
// empty every placement comes back unassigned; partial capacity yields a
// partial result, never an error.
func (a *Assigner) Assign(order []string, patients map[string]models.Patient, staff []models.StaffMember) []Placement {
	general := &staffHeap{}
	trauma := &staffHeap{}

	states := make([]*staffState, 0, len(staff))
	for _, s := range staff {
		if !s.IsAvailable() {
			continue
		}
		st := &staffState{id: s.ID, capability: s.Capability, load: s.Load}
		states = append(states, st)
		general.push(st)
		if a.isTraumaTag(s.Capability) {
			trauma.push(st)
		}
	}

	placements := make([]Placement, 0, len(order))
	for _, pid := range order {
		p := patients[pid]

		var pick *staffState
		if p.Severity == models.SeverityCritical {
			pick = trauma.popLive()
		}
		if pick == nil {
			pick = general.popLive()
		}

		if pick == nil {
			placements = append(placements, Placement{PatientID: pid})
			continue
		}

		placements = append(placements, Placement{
			PatientID:   pid,
			StaffID:     pick.id,
			WaitMinutes: pick.queuedMins,
			Assigned:    true,
		})

		pick.queuedMins += a.Times.For(p)
		pick.load += a.Config.LoadWeight
		pick.version++
		general.push(pick)
		if a.isTraumaTag(pick.capability) {
			trauma.push(pick)
		}
	}
	return placements
}

func (a *Assigner) isTraumaTag(capability string) bool {
	for _, tag := range a.Config.TraumaTags {
		if capability == tag {
			return true
		}
	}
	return false
}
