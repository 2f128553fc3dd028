package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMomentLabelPairedEndpoints(t *testing.T) {
	// 7-course menu is served as 9 guest-facing momentos
	total := 7
	assert.Equal(t, "1&2", MomentLabel(1, total))
	assert.Equal(t, "3", MomentLabel(2, total))
	assert.Equal(t, "7", MomentLabel(6, total))
	assert.Equal(t, "8&9", MomentLabel(7, total))

	// 9-course menu -> 11 momentos
	assert.Equal(t, "1&2", MomentLabel(1, 9))
	assert.Equal(t, "10&11", MomentLabel(9, 9))

	// Out of range falls back to the raw number
	assert.Equal(t, "0", MomentLabel(0, 7))
	assert.Equal(t, "8", MomentLabel(8, 7))
}

func TestDisplayMoments(t *testing.T) {
	table := Table{TotalMoments: 7}
	assert.Equal(t, 9, table.DisplayMoments())

	table.TotalMoments = 0
	assert.Equal(t, 0, table.DisplayMoments())
}

func TestStepDerivation(t *testing.T) {
	table := Table{ID: "t-10", Number: "10", Status: StatusIdle}
	assert.Equal(t, StepMenu, table.Step())

	menu := "Menu 9 momentos"
	table.Menu = &menu
	table.TotalMoments = 7
	assert.Equal(t, StepGuests, table.Step())

	table.MomentsHistory = append(table.MomentsHistory, NewSeatedLog(time.Now()))
	assert.Equal(t, StepPairing, table.Step())

	pairing := "Essencial"
	table.Pairing = &pairing
	assert.Equal(t, StepService, table.Step())
}

func TestSeatedLogSentinel(t *testing.T) {
	at := time.Now()
	log := NewSeatedLog(at)

	assert.Equal(t, SeatedMoment, log.MomentNumber)
	assert.Equal(t, "Seated", log.MomentName)
	assert.Equal(t, at, *log.StartTime)
	assert.Equal(t, at, *log.ReadyTime)
	assert.Equal(t, at, *log.FinishTime)
}

func TestCurrentLog(t *testing.T) {
	now := time.Now()
	table := Table{CurrentMoment: 2}
	table.MomentsHistory = MomentLogs{
		NewSeatedLog(now),
		{MomentNumber: 1, MomentName: "Moluscos", StartTime: &now},
		{MomentNumber: 2, MomentName: "Peixe", StartTime: &now},
	}

	cur := table.CurrentLog()
	assert.NotNil(t, cur)
	assert.Equal(t, "Peixe", cur.MomentName)

	table.CurrentMoment = 0
	assert.Nil(t, table.CurrentLog())
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	table := Table{
		ID:     "t-10",
		Number: "10",
		MomentsHistory: MomentLogs{
			{MomentNumber: 1, MomentName: "Moluscos", StartTime: &now},
		},
	}

	clone := table.Clone()
	clone.MomentsHistory[0].MomentName = "changed"

	assert.Equal(t, "Moluscos", table.MomentsHistory[0].MomentName)
}

func TestResetKeepsIdentity(t *testing.T) {
	menu := "Menu 9 momentos"
	pax := 4
	now := time.Now()
	table := Table{
		ID:             "t-10",
		Number:         "10",
		Menu:           &menu,
		Pax:            &pax,
		Status:         StatusReady,
		CurrentMoment:  3,
		TotalMoments:   7,
		StartTime:      &now,
		LastMomentTime: &now,
		MomentsHistory: MomentLogs{NewSeatedLog(now)},
		Restriction:    Restriction{Type: RestrictionAlergia, Description: "marisco"},
	}

	table.Reset()

	assert.Equal(t, "t-10", table.ID)
	assert.Equal(t, "10", table.Number)
	assert.Nil(t, table.Menu)
	assert.Nil(t, table.Pax)
	assert.Equal(t, StatusIdle, table.Status)
	assert.Zero(t, table.CurrentMoment)
	assert.Zero(t, table.TotalMoments)
	assert.Nil(t, table.StartTime)
	assert.Empty(t, table.MomentsHistory)
	assert.Equal(t, Restriction{}, table.Restriction)
}

func TestMomentLogsValueScanRoundTrip(t *testing.T) {
	now := time.Now().Round(time.Second)
	logs := MomentLogs{
		NewSeatedLog(now),
		{MomentNumber: 1, MomentName: "Moluscos", StartTime: &now, ReadyTime: &now},
	}

	value, err := logs.Value()
	assert.NoError(t, err)

	var decoded MomentLogs
	assert.NoError(t, decoded.Scan(value))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "Moluscos", decoded[1].MomentName)
	assert.NotNil(t, decoded[1].ReadyTime)
	assert.Nil(t, decoded[1].FinishTime)
}
