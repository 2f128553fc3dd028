package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SeatedMoment marks the arrival sentinel entry, logged before course
// timing begins.
const SeatedMoment = -1

// MomentLog is one course served at one table. The entry for the current
// moment is stamped in place as the kitchen and the floor progress.
type MomentLog struct {
	MomentNumber int        `json:"moment_number"`
	MomentName   string     `json:"moment_name"`
	StartTime    *time.Time `json:"start_time"`
	ReadyTime    *time.Time `json:"ready_time"`
	FinishTime   *time.Time `json:"finish_time"`
}

// NewSeatedLog builds the sentinel entry with all three timestamps set to
// the arrival time.
func NewSeatedLog(at time.Time) MomentLog {
	t := at
	return MomentLog{
		MomentNumber: SeatedMoment,
		MomentName:   "Seated",
		StartTime:    &t,
		ReadyTime:    &t,
		FinishTime:   &t,
	}
}

type MomentLogs []MomentLog

// Clone copies the slice so archived history can never alias a live table.
func (m MomentLogs) Clone() MomentLogs {
	if m == nil {
		return nil
	}
	out := make(MomentLogs, len(m))
	copy(out, m)
	return out
}

// Value / Scan store the history as a JSON text column on the archive rows.

func (m MomentLogs) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MomentLogs) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported moments history column type %T", value)
	}
	return json.Unmarshal(raw, m)
}
