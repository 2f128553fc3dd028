package services

import (
	"time"

	"github.com/mymichelin/momentos-app/models"
)

// DelayThreshold flags a course as delayed once the kitchen has held it
// this long without plating it.
const DelayThreshold = 8 * time.Minute

// KitchenDuration -> time from fire to plate-ready; open-ended until ready
func KitchenDuration(log models.MomentLog, now time.Time) time.Duration {
	if log.StartTime == nil {
		return 0
	}
	end := now
	if log.ReadyTime != nil {
		end = *log.ReadyTime
	}
	return end.Sub(*log.StartTime)
}

// FloorDuration -> time from plate-ready to served; open-ended until served
func FloorDuration(log models.MomentLog, now time.Time) time.Duration {
	if log.ReadyTime == nil {
		return 0
	}
	end := now
	if log.FinishTime != nil {
		end = *log.FinishTime
	}
	return end.Sub(*log.ReadyTime)
}

// IsDelayed -> course still unready past the threshold
func IsDelayed(log models.MomentLog, now time.Time) bool {
	if log.MomentNumber == models.SeatedMoment || log.StartTime == nil || log.ReadyTime != nil {
		return false
	}
	return now.Sub(*log.StartTime) > DelayThreshold
}

// TableElapsed -> total service time so far for a started table
func TableElapsed(t models.Table, now time.Time) time.Duration {
	if t.StartTime == nil {
		return 0
	}
	end := now
	if t.LastMomentTime != nil {
		end = *t.LastMomentTime
	}
	return end.Sub(*t.StartTime)
}

// TableDashboard is one live row of the admin dashboard, recomputed on
// demand; it carries no state of its own.
type TableDashboard struct {
	TableID        string  `json:"table_id"`
	Number         string  `json:"number"`
	Status         string  `json:"status"`
	CurrentMoment  int     `json:"current_moment"`
	TotalMoments   int     `json:"total_moments"`
	MomentLabel    string  `json:"moment_label"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Delayed        bool    `json:"delayed"`
}

// AnalyticsSummary mirrors the four admin dashboard cards.
type AnalyticsSummary struct {
	AvgKitchenSeconds float64  `json:"avg_kitchen_seconds"`
	AvgServiceSeconds float64  `json:"avg_service_seconds"`
	DelayedTables     []string `json:"delayed_tables"`
	TopMenu           string   `json:"top_menu"`
	ServicesArchived  int      `json:"services_archived"`
}

type AnalyticsService struct {
	Store *Store
}

func NewAnalyticsService(store *Store) *AnalyticsService {
	return &AnalyticsService{Store: store}
}

// Dashboard projects the live roster into dashboard rows. Only tables with
// a started service appear.
func (as *AnalyticsService) Dashboard(now time.Time) []TableDashboard {
	var rows []TableDashboard
	for _, t := range as.Store.Tables() {
		if t.StartTime == nil {
			continue
		}
		delayed := false
		if cur := t.CurrentLog(); cur != nil {
			delayed = IsDelayed(*cur, now)
		}
		rows = append(rows, TableDashboard{
			TableID:        t.ID,
			Number:         t.Number,
			Status:         string(t.Status),
			CurrentMoment:  t.CurrentMoment,
			TotalMoments:   t.TotalMoments,
			MomentLabel:    models.MomentLabel(t.CurrentMoment, t.TotalMoments),
			ElapsedSeconds: TableElapsed(t, now).Seconds(),
			Delayed:        delayed,
		})
	}
	return rows
}

// MenuAverageDuration averages the total service duration across archived
// services that share a menu name. Zero when nothing is archived for it.
func (as *AnalyticsService) MenuAverageDuration(menuName string) (time.Duration, error) {
	logs, err := as.Store.History()
	if err != nil {
		return 0, err
	}
	var total time.Duration
	count := 0
	for _, l := range logs {
		if l.MenuName != menuName {
			continue
		}
		total += l.EndTime.Sub(l.StartTime)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return total / time.Duration(count), nil
}

// Summary aggregates the archive plus the live delays for the admin view.
func (as *AnalyticsService) Summary(now time.Time) (AnalyticsSummary, error) {
	logs, err := as.Store.History()
	if err != nil {
		return AnalyticsSummary{}, err
	}

	var kitchenTotal, serviceTotal time.Duration
	kitchenCount := 0
	menuCounts := make(map[string]int)
	for _, l := range logs {
		serviceTotal += l.EndTime.Sub(l.StartTime)
		menuCounts[l.MenuName]++
		for _, m := range l.MomentsHistory {
			if m.MomentNumber == models.SeatedMoment || m.StartTime == nil || m.ReadyTime == nil {
				continue
			}
			kitchenTotal += m.ReadyTime.Sub(*m.StartTime)
			kitchenCount++
		}
	}

	summary := AnalyticsSummary{ServicesArchived: len(logs)}
	if kitchenCount > 0 {
		summary.AvgKitchenSeconds = (kitchenTotal / time.Duration(kitchenCount)).Seconds()
	}
	if len(logs) > 0 {
		summary.AvgServiceSeconds = (serviceTotal / time.Duration(len(logs))).Seconds()
	}

	top, topCount := "", 0
	for name, count := range menuCounts {
		if count > topCount {
			top, topCount = name, count
		}
	}
	summary.TopMenu = top

	for _, row := range as.Dashboard(now) {
		if row.Delayed {
			summary.DelayedTables = append(summary.DelayedTables, row.Number)
		}
	}
	return summary, nil
}
