package services

import (
	"time"

	"github.com/mymichelin/momentos-app/hub"
)

// ElapsedMonitor re-broadcasts the live dashboard projection on a fixed
// tick so every admin view shows fresh elapsed times and delay flags.
// Purely read-only: a missed tick only affects display freshness.
type ElapsedMonitor struct {
	Analytics *AnalyticsService
	StopChan  chan struct{}
	Interval  time.Duration
}

func NewElapsedMonitor(analytics *AnalyticsService) *ElapsedMonitor {
	return &ElapsedMonitor{
		Analytics: analytics,
		StopChan:  make(chan struct{}),
		Interval:  1 * time.Second,
	}
}

func (em *ElapsedMonitor) Start() {
	go func() {
		ticker := time.NewTicker(em.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				em.tick()
			case <-em.StopChan:
				return
			}
		}
	}()
}

func (em *ElapsedMonitor) Stop() {
	close(em.StopChan)
}

func (em *ElapsedMonitor) tick() {
	rows := em.Analytics.Dashboard(time.Now())
	if len(rows) == 0 {
		return
	}
	hub.BroadcastDashboard(rows)
}
