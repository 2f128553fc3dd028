package services

import (
	"errors"
	"sync"

	"github.com/mymichelin/momentos-app/hub"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/utils"
	"gorm.io/gorm"
)

// Validation errors surfaced to the invoking device. State is never
// mutated on rejection.
var (
	ErrTableNotFound      = errors.New("table not found")
	ErrMenuNotFound       = errors.New("menu not found")
	ErrNoMenuSelected     = errors.New("no menu selected for this table")
	ErrMenuLocked         = errors.New("menu cannot change once the service has started")
	ErrAlreadySeated      = errors.New("guests already seated")
	ErrPairingChosen      = errors.New("pairing already chosen")
	ErrNotSeated          = errors.New("guests not seated yet")
	ErrInvalidPax         = errors.New("party size must be at least 1")
	ErrKitchenBusy        = errors.New("kitchen is still preparing the current moment")
	ErrServicePaused      = errors.New("service is paused")
	ErrNotPreparing       = errors.New("no moment in preparation")
	ErrPauseUnavailable   = errors.New("only an idle service can be paused")
	ErrNotPaused          = errors.New("service is not paused")
	ErrMenuActive         = errors.New("cannot delete an active menu, deactivate it first")
	ErrRestrictionType    = errors.New("unknown restriction type")
	ErrEmptyMenuName      = errors.New("menu name is required")
	ErrEmptyMoment        = errors.New("every moment needs a name")
)

// Store owns the table roster and menu list. All mutations run under one
// mutex (single writer at a time) and finish by re-broadcasting a full
// snapshot of the touched collection over the hub, so every connected view
// converges on the same state.
type Store struct {
	DB       *gorm.DB
	mu       sync.Mutex
	tables   []models.Table
	menus    []models.Menu
	pairings []string
}

// NewStore provisions one empty table per roster number. The roster is
// fixed for the life of the process.
func NewStore(db *gorm.DB, tableNumbers []string, menus []models.Menu, pairings []string) *Store {
	s := &Store{
		DB:       db,
		pairings: append([]string(nil), pairings...),
	}
	for _, num := range tableNumbers {
		s.tables = append(s.tables, models.Table{
			ID:     "t-" + num,
			Number: num,
			Status: models.StatusIdle,
		})
	}
	for _, m := range menus {
		s.menus = append(s.menus, m.Clone())
	}
	return s
}

// Tables returns a deep-copied snapshot of the roster.
func (s *Store) Tables() []models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotTablesLocked()
}

// TableByID returns a copy of one table.
func (s *Store) TableByID(id string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTableLocked(id)
	if t == nil {
		return models.Table{}, ErrTableNotFound
	}
	return t.Clone(), nil
}

// Pairings -> the fixed pairing options offered to the floor
func (s *Store) Pairings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pairings...)
}

func (s *Store) findTableLocked(id string) *models.Table {
	for i := range s.tables {
		if s.tables[i].ID == id {
			return &s.tables[i]
		}
	}
	return nil
}

func (s *Store) findMenuLocked(id string) *models.Menu {
	for i := range s.menus {
		if s.menus[i].ID == id {
			return &s.menus[i]
		}
	}
	return nil
}

func (s *Store) findMenuByNameLocked(name string) *models.Menu {
	for i := range s.menus {
		if s.menus[i].Name == name {
			return &s.menus[i]
		}
	}
	return nil
}

func (s *Store) snapshotTablesLocked() []models.Table {
	out := make([]models.Table, len(s.tables))
	for i := range s.tables {
		out[i] = s.tables[i].Clone()
	}
	return out
}

func (s *Store) snapshotMenusLocked() []models.Menu {
	out := make([]models.Menu, len(s.menus))
	for i := range s.menus {
		out[i] = s.menus[i].Clone()
	}
	return out
}

func (s *Store) broadcastTablesLocked() {
	hub.BroadcastTables(s.snapshotTablesLocked())
}

func (s *Store) broadcastMenusLocked() {
	hub.BroadcastMenus(s.snapshotMenusLocked())
}

// notify persists the alert trail and hands delivery to the dispatcher.
// Both halves are best-effort: a full notification failure never fails the
// transition that caused it.
func (s *Store) notify(role, title, body string) {
	if s.DB != nil {
		n := models.Notification{TargetRole: role, Title: title, Body: body}
		if err := s.DB.Create(&n).Error; err != nil {
			utils.ErrorLogger.Printf("Error saving notification: %v", err)
		}
	}
	hub.Notify(role, title, body)
}
