package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/utils"
)

// MenuUpdate is a partial edit; nil fields are left alone.
type MenuUpdate struct {
	Name     *string
	Moments  []string
	IsActive *bool
}

// Menus returns a deep-copied snapshot of the full menu list.
func (s *Store) Menus() []models.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotMenusLocked()
}

// ActiveMenus -> only menus the floor may select for a new table
func (s *Store) ActiveMenus() []models.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Menu
	for i := range s.menus {
		if s.menus[i].IsActive {
			out = append(out, s.menus[i].Clone())
		}
	}
	return out
}

// CreateMenu registers a new menu, inactive until the admin activates it.
func (s *Store) CreateMenu(name string, moments []string) (models.Menu, error) {
	if strings.TrimSpace(name) == "" {
		return models.Menu{}, ErrEmptyMenuName
	}
	if len(moments) == 0 {
		return models.Menu{}, ErrEmptyMoment
	}
	for _, m := range moments {
		if strings.TrimSpace(m) == "" {
			return models.Menu{}, ErrEmptyMoment
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	menu := models.Menu{
		ID:       fmt.Sprintf("m%d", time.Now().UnixMilli()),
		Name:     name,
		Moments:  append([]string(nil), moments...),
		IsActive: false,
	}
	s.menus = append(s.menus, menu)

	s.broadcastMenusLocked()
	utils.InfoLogger.Printf("Menu %q created with %d moments", name, len(moments))
	return menu.Clone(), nil
}

// UpdateMenu applies a partial edit. Tables already mid-service keep the
// course count they copied at selection time.
func (s *Store) UpdateMenu(id string, upd MenuUpdate) (models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	menu := s.findMenuLocked(id)
	if menu == nil {
		return models.Menu{}, ErrMenuNotFound
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return models.Menu{}, ErrEmptyMenuName
		}
		menu.Name = *upd.Name
	}
	if upd.Moments != nil {
		for _, m := range upd.Moments {
			if strings.TrimSpace(m) == "" {
				return models.Menu{}, ErrEmptyMoment
			}
		}
		menu.Moments = append([]string(nil), upd.Moments...)
	}
	if upd.IsActive != nil {
		menu.IsActive = *upd.IsActive
	}

	s.broadcastMenusLocked()
	return menu.Clone(), nil
}

// DeleteMenu removes a menu from the list. An active menu is protected:
// it must be deactivated first.
func (s *Store) DeleteMenu(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.menus {
		if s.menus[i].ID != id {
			continue
		}
		if s.menus[i].IsActive {
			return ErrMenuActive
		}
		name := s.menus[i].Name
		s.menus = append(s.menus[:i], s.menus[i+1:]...)
		s.broadcastMenusLocked()
		utils.InfoLogger.Printf("Menu %q deleted", name)
		return nil
	}
	return ErrMenuNotFound
}
