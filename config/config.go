package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/mymichelin/momentos-app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the archive store. Default is an in-memory SQLite database,
// which keeps archives session-scoped like the rest of the state; set
// DB_DRIVER=mysql with DB_DSN for a shared LAN archive that outlives the
// process.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")

	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}
}

// Seed is the session bootstrap: the fixed table roster, the starting
// menus, and the pairing options.
type Seed struct {
	TableNumbers []string      `json:"table_numbers"`
	Menus        []models.Menu `json:"menus"`
	Pairings     []string      `json:"pairings"`
}

// DefaultSeed mirrors the restaurant's floor plan and the two house menus.
func DefaultSeed() Seed {
	return Seed{
		TableNumbers: []string{
			"10", "11", "20", "21", "40", "41", "50", "1", "2", "3",
			"51", "52", "53", "54", "55", "56", "57",
		},
		Menus: []models.Menu{
			{
				ID:   "m1",
				Name: "Menu 9 momentos",
				Moments: []string{
					"Crocante de sementes & coalhada", "Moluscos", "Peixe", "Verão",
					"Carne", "Arroz con leche", "Bolo de milho & rosquilha de chocolate",
				},
				IsActive: true,
			},
			{
				ID:   "m2",
				Name: "Menu 11 momentos",
				Moments: []string{
					"Crocante de sementes & coalhada", "Moluscos", "Lagostim", "Peixe",
					"Verão", "Carne", "Texturas de abóbora", "Arroz con leche",
					"Bolo de milho & rosquilha de chocolate",
				},
				IsActive: true,
			},
		},
		Pairings: []string{"Essencial", "Gastronômico", "À Carta", "Sem Pairing"},
	}
}

// LoadSeed reads SEED_FILE when set, otherwise returns the defaults.
// A broken seed file falls back to the defaults rather than refusing to
// start the floor.
func LoadSeed() Seed {
	path := os.Getenv("SEED_FILE")
	if path == "" {
		return DefaultSeed()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return DefaultSeed()
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil || len(seed.TableNumbers) == 0 {
		return DefaultSeed()
	}
	return seed
}

// AdminPasswordHash returns the bcrypt hash of the shared admin secret.
func AdminPasswordHash() ([]byte, error) {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "senha"
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// RoleLimit caps concurrent device connections per role; the floor runs at
// most five sala devices and two cozinha devices by default, admin is
// unlimited.
func RoleLimit(role string) int {
	switch role {
	case models.RoleSala:
		return envInt("SALA_MAX_CONN", 5)
	case models.RoleCozinha:
		return envInt("COZINHA_MAX_CONN", 2)
	}
	return 0
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
