package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mymichelin/momentos-app/hub"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/utils"
)

// SelectMenu binds a menu to a table. Allowed while no moment has started;
// the course count and names are copied now, so later menu edits never
// touch a running service. Re-selecting restarts the whole pre-service
// walk, guests and pairing included. An unknown menu id is a silent no-op.
func (s *Store) SelectMenu(tableID, menuID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	menu := s.findMenuLocked(menuID)
	if menu == nil {
		utils.InfoLogger.Printf("SelectMenu ignored, unknown menu %q for table %s", menuID, t.Number)
		return t.Clone(), nil
	}
	if t.CurrentMoment > 0 {
		return models.Table{}, ErrMenuLocked
	}

	name := menu.Name
	t.Menu = &name
	t.TotalMoments = len(menu.Moments)
	t.CurrentMoment = 0
	t.Status = models.StatusIdle
	t.MomentsHistory = nil
	t.Pairing = nil
	t.Pax = nil
	t.Language = nil

	s.broadcastTablesLocked()
	utils.InfoLogger.Printf("Table %s menu set to %q (%d courses)", t.Number, name, t.TotalMoments)
	return t.Clone(), nil
}

// RecordSeated logs the guests' arrival: a sentinel history entry with all
// three timestamps at now, independent of course timing. The kitchen is
// told who just sat down.
func (s *Store) RecordSeated(tableID string, pax int, language string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if t.Menu == nil {
		return models.Table{}, ErrNoMenuSelected
	}
	if t.Seated() {
		return models.Table{}, ErrAlreadySeated
	}
	if t.Pairing != nil {
		return models.Table{}, ErrPairingChosen
	}
	if pax < 1 {
		return models.Table{}, ErrInvalidPax
	}

	t.MomentsHistory = append(t.MomentsHistory, models.NewSeatedLog(time.Now()))
	t.Pax = &pax
	if language != "" {
		lang := language
		t.Language = &lang
	}

	s.notify(models.RoleCozinha, "Mesa "+t.Number,
		fmt.Sprintf("Sentada: %d pax · %s · %s", pax, languageOrDefault(t.Language), *t.Menu))
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// SelectPairing records the beverage accompaniment. No status change.
func (s *Store) SelectPairing(tableID, pairing string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if !t.Seated() {
		return models.Table{}, ErrNotSeated
	}

	p := pairing
	t.Pairing = &p
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// AdvanceMoment is the core transition: close out the moment being served
// and hand the next course to the kitchen. Rejected while the kitchen is
// still preparing or the service is paused. Advancing past the final
// course closes the service instead.
func (s *Store) AdvanceMoment(tableID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if t.Menu == nil {
		return models.Table{}, ErrNoMenuSelected
	}
	if t.Status == models.StatusPreparing {
		return models.Table{}, ErrKitchenBusy
	}
	if t.Status == models.StatusPaused {
		return models.Table{}, ErrServicePaused
	}

	now := time.Now()
	if cur := t.CurrentLog(); cur != nil && cur.FinishTime == nil {
		finish := now
		cur.FinishTime = &finish
	}

	next := t.CurrentMoment + 1
	if next > t.TotalMoments {
		return s.finishLocked(t)
	}

	name := s.momentNameLocked(t, next)
	start := now
	t.MomentsHistory = append(t.MomentsHistory, models.MomentLog{
		MomentNumber: next,
		MomentName:   name,
		StartTime:    &start,
	})
	if t.CurrentMoment == 0 {
		begin := now
		t.StartTime = &begin
	}
	last := now
	t.LastMomentTime = &last
	t.CurrentMoment = next
	t.Status = models.StatusPreparing

	s.notify(models.RoleCozinha, "Mesa "+t.Number,
		fmt.Sprintf("Momento %s: %s", models.MomentLabel(next, t.TotalMoments), name))
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// MarkReady is the kitchen's half of the handshake: the current moment is
// plated and the floor can pick it up. Only valid mid-preparation, so a
// double tap is rejected.
func (s *Store) MarkReady(tableID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if t.Status != models.StatusPreparing {
		return models.Table{}, ErrNotPreparing
	}

	now := time.Now()
	if cur := t.CurrentLog(); cur != nil && cur.ReadyTime == nil {
		ready := now
		cur.ReadyTime = &ready
	}
	t.Status = models.StatusReady

	body := "Pronto para retirada"
	if cur := t.CurrentLog(); cur != nil {
		body = "Pronto para retirada: " + cur.MomentName
	}
	s.notify(models.RoleSala, "Mesa "+t.Number, body)
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// Pause suspends an idle service. Pausing while the kitchen is preparing
// or a plated course awaits pickup is rejected, it would hide active work.
func (s *Store) Pause(tableID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if t.Status != models.StatusIdle {
		return models.Table{}, ErrPauseUnavailable
	}

	t.Status = models.StatusPaused
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// Resume lifts a pause back to idle. Timestamps and the in-flight log are
// untouched in both directions.
func (s *Store) Resume(tableID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if t.Status != models.StatusPaused {
		return models.Table{}, ErrNotPaused
	}

	t.Status = models.StatusIdle
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// FinishService closes a table's service, normally or forced. A started
// service is archived first; a table that never started is just reset, no
// snapshot is written.
func (s *Store) FinishService(tableID string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	return s.finishLocked(t)
}

// SetRestriction updates the dietary restriction record. Pure data, no
// status effect; a description without a type is kept as pending.
func (s *Store) SetRestriction(tableID string, rType models.RestrictionType, description string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTableLocked(tableID)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	if !models.ValidRestrictionType(rType) {
		return models.Table{}, ErrRestrictionType
	}

	t.Restriction = models.Restriction{Type: rType, Description: description}
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

func (s *Store) finishLocked(t *models.Table) (models.Table, error) {
	if t.StartTime != nil {
		archived := models.HistoricalService{
			ID:             uuid.NewString(),
			TableNumber:    t.Number,
			MenuName:       stringOrEmpty(t.Menu),
			Pairing:        clonePtr(t.Pairing),
			StartTime:      *t.StartTime,
			EndTime:        time.Now(),
			MomentsHistory: t.MomentsHistory.Clone(),
		}
		if s.DB != nil {
			if err := s.DB.Create(&archived).Error; err != nil {
				utils.ErrorLogger.Printf("Error archiving service for table %s: %v", t.Number, err)
			} else {
				s.broadcastLogs()
			}
		}
		s.notify(models.RoleCozinha, "Mesa "+t.Number, "Serviço encerrado")
		utils.InfoLogger.Printf("Table %s service finished, archived as %s", t.Number, archived.ID)
	}

	t.Reset()
	s.broadcastTablesLocked()
	return t.Clone(), nil
}

// History returns the archived services, oldest first.
func (s *Store) History() ([]models.HistoricalService, error) {
	var logs []models.HistoricalService
	if s.DB == nil {
		return logs, nil
	}
	if err := s.DB.Order("end_time ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) broadcastLogs() {
	logs, err := s.History()
	if err != nil {
		utils.ErrorLogger.Printf("Error loading archive for broadcast: %v", err)
		return
	}
	hub.BroadcastLogs(logs)
}

// momentNameLocked copies the course name from the bound menu. A menu
// edited or removed mid-service falls back to a numbered placeholder so the
// history never loses an entry.
func (s *Store) momentNameLocked(t *models.Table, moment int) string {
	if menu := s.findMenuByNameLocked(*t.Menu); menu != nil && moment >= 1 && moment <= len(menu.Moments) {
		return menu.Moments[moment-1]
	}
	return fmt.Sprintf("Momento %d", moment)
}

func languageOrDefault(lang *string) string {
	if lang == nil || *lang == "" {
		return "idioma n/d"
	}
	return *lang
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
