package models

// Menu is a named, ordered sequence of course names. Only active menus can
// be chosen for a new table; editing a menu never retouches tables already
// mid-service, since the count and names are copied at selection time.
type Menu struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Moments  []string `json:"moments"`
	IsActive bool     `json:"is_active"`
}

// Clone returns a deep copy with its own moments slice.
func (m *Menu) Clone() Menu {
	out := *m
	out.Moments = append([]string(nil), m.Moments...)
	return out
}
