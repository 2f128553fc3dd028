package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mymichelin/momentos-app/controllers"
	"github.com/mymichelin/momentos-app/middlewares"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/services"
	"gorm.io/gorm"
)

func SetupRouter(store *services.Store, db *gorm.DB, adminHash []byte) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Attached before any route so every handler chain carries it
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	analytics := services.NewAnalyticsService(store)

	userCtrl := controllers.NewUserController(adminHash)
	tableCtrl := controllers.NewTableController(store)
	menuCtrl := controllers.NewMenuController(store)
	adminCtrl := controllers.NewAdminController(store, analytics)
	notificationCtrl := controllers.NewNotificationController(db)
	wsCtrl := controllers.NewWSController(store)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// Sync bus endpoint; token travels in the query string
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Handle)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// Read access for every logged-in view
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.GET("/pairings", menuCtrl.GetPairings)

	// Restrictions can be edited by any role with write access
	auth.PATCH("/tables/:table_id/restriction", tableCtrl.SetRestriction)

	// Floor staff drive the service forward
	sala := auth.Group("/")
	sala.Use(middlewares.RequireRoles(models.RoleSala))
	{
		sala.POST("/tables/:table_id/menu", tableCtrl.SelectMenu)
		sala.POST("/tables/:table_id/seat", tableCtrl.RecordSeated)
		sala.POST("/tables/:table_id/pairing", tableCtrl.SelectPairing)
		sala.POST("/tables/:table_id/advance", tableCtrl.AdvanceMoment)
		sala.POST("/tables/:table_id/pause", tableCtrl.PauseService)
		sala.POST("/tables/:table_id/resume", tableCtrl.ResumeService)
		sala.POST("/tables/:table_id/finish", tableCtrl.FinishService)
	}

	// Kitchen closes the loop
	cozinha := auth.Group("/")
	cozinha.Use(middlewares.RequireRoles(models.RoleCozinha))
	{
		cozinha.POST("/tables/:table_id/ready", tableCtrl.MarkReady)
	}

	// Admin: menu administration, analytics, history, notification trail
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRoles())
	{
		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		admin.GET("/history", adminCtrl.GetHistory)
		admin.GET("/analytics", adminCtrl.GetAnalytics)
		admin.GET("/dashboard", adminCtrl.GetDashboard)
		admin.GET("/menus/average", adminCtrl.GetMenuAverage)

		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)
	}

	return r
}
