package models

import (
	"fmt"
	"strconv"
	"time"
)

type TableStatus string

const (
	StatusIdle      TableStatus = "idle"
	StatusPreparing TableStatus = "preparing"
	StatusReady     TableStatus = "ready"
	StatusPaused    TableStatus = "paused"
)

type RestrictionType string

const (
	RestrictionNone         RestrictionType = ""
	RestrictionAlergia      RestrictionType = "alergia"
	RestrictionIntolerancia RestrictionType = "intolerancia"
	RestrictionGravidez     RestrictionType = "gravidez"
)

// ValidRestrictionType -> reports whether a restriction type is known
func ValidRestrictionType(t RestrictionType) bool {
	switch t {
	case RestrictionNone, RestrictionAlergia, RestrictionIntolerancia, RestrictionGravidez:
		return true
	}
	return false
}

type Restriction struct {
	Type        RestrictionType `json:"type"`
	Description string          `json:"description"`
}

// Table is one physical table. The roster is fixed at startup; a table is
// recycled between services, never destroyed.
type Table struct {
	ID             string      `json:"id"`
	Number         string      `json:"number"`
	Menu           *string     `json:"menu"`
	Pairing        *string     `json:"pairing"`
	Pax            *int        `json:"pax"`
	Language       *string     `json:"language"`
	Status         TableStatus `json:"status"`
	CurrentMoment  int         `json:"current_moment"`
	TotalMoments   int         `json:"total_moments"`
	StartTime      *time.Time  `json:"start_time"`
	LastMomentTime *time.Time  `json:"last_moment_time"`
	MomentsHistory MomentLogs  `json:"moments_history"`
	Restriction    Restriction `json:"restriction"`
}

// ServiceStep is the floor-staff screen for a table. Derived from field
// presence, never stored, so it cannot drift from the table itself.
type ServiceStep string

const (
	StepMenu    ServiceStep = "menu"
	StepGuests  ServiceStep = "guests"
	StepPairing ServiceStep = "pairing"
	StepService ServiceStep = "service"
)

func (t *Table) Step() ServiceStep {
	if t.Menu == nil {
		return StepMenu
	}
	if !t.Seated() {
		return StepGuests
	}
	if t.Pairing == nil {
		return StepPairing
	}
	return StepService
}

// Seated -> true once the arrival sentinel has been logged
func (t *Table) Seated() bool {
	for i := range t.MomentsHistory {
		if t.MomentsHistory[i].MomentNumber == SeatedMoment {
			return true
		}
	}
	return false
}

// CurrentLog returns the log entry for the moment in progress, nil before
// the first advance.
func (t *Table) CurrentLog() *MomentLog {
	if t.CurrentMoment == 0 {
		return nil
	}
	for i := len(t.MomentsHistory) - 1; i >= 0; i-- {
		if t.MomentsHistory[i].MomentNumber == t.CurrentMoment {
			return &t.MomentsHistory[i]
		}
	}
	return nil
}

// Reset clears every service field back to the provisioned state. ID and
// Number survive.
func (t *Table) Reset() {
	t.Menu = nil
	t.Pairing = nil
	t.Pax = nil
	t.Language = nil
	t.Status = StatusIdle
	t.CurrentMoment = 0
	t.TotalMoments = 0
	t.StartTime = nil
	t.LastMomentTime = nil
	t.MomentsHistory = nil
	t.Restriction = Restriction{}
}

// Clone returns a deep copy, safe to hand to callers and to broadcast.
func (t *Table) Clone() Table {
	out := *t
	out.MomentsHistory = t.MomentsHistory.Clone()
	return out
}

// DisplayMoments -> how many momentos the guest experiences. The first and
// last courses each span two guest-facing moments, so a 7-course menu is
// served as 9 momentos.
func (t *Table) DisplayMoments() int {
	if t.TotalMoments == 0 {
		return 0
	}
	return t.TotalMoments + 2
}

// MomentLabel renders the guest-facing number of a course. Course 1 covers
// moments 1&2, the final course covers the closing pair, middle courses
// shift up by one: a 7-course menu reads 1&2, 3, 4, 5, 6, 7, 8&9.
func MomentLabel(moment, total int) string {
	if total <= 0 || moment < 1 || moment > total {
		return strconv.Itoa(moment)
	}
	switch moment {
	case 1:
		return "1&2"
	case total:
		return fmt.Sprintf("%d&%d", total+1, total+2)
	}
	return strconv.Itoa(moment + 1)
}
