package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mymichelin/momentos-app/config"
	"github.com/mymichelin/momentos-app/hub"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/router"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open archive database: %v", err)
	}
	autoMigrate(db)

	seed := config.LoadSeed()
	store := services.NewStore(db, seed.TableNumbers, seed.Menus, seed.Pairings)
	utils.InfoLogger.Printf("Provisioned %d tables, %d menus", len(seed.TableNumbers), len(seed.Menus))

	adminHash, err := config.AdminPasswordHash()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to hash admin password: %v", err)
	}

	hub.SetRoleLimit(models.RoleSala, config.RoleLimit(models.RoleSala))
	hub.SetRoleLimit(models.RoleCozinha, config.RoleLimit(models.RoleCozinha))

	// 1s tick keeps elapsed times and delay flags fresh on every view
	monitor := services.NewElapsedMonitor(services.NewAnalyticsService(store))
	monitor.Start()
	defer monitor.Stop()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(store, db, adminHash)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.HistoricalService{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
