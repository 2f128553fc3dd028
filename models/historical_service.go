package models

import "time"

// HistoricalService is the immutable archive of one finished service,
// written exactly once when a table is closed. Owns its own copy of the
// moment history so later table recycling cannot corrupt it.
type HistoricalService struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TableNumber    string     `gorm:"type:varchar(50);not null" json:"table_number"`
	MenuName       string     `gorm:"type:varchar(255);not null" json:"menu_name"`
	Pairing        *string    `gorm:"type:varchar(255)" json:"pairing"`
	StartTime      time.Time  `gorm:"not null" json:"start_time"`
	EndTime        time.Time  `gorm:"not null" json:"end_time"`
	MomentsHistory MomentLogs `gorm:"type:text" json:"moments_history"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}
