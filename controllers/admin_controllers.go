package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
)

type AdminController struct {
	Store     *services.Store
	Analytics *services.AnalyticsService
}

func NewAdminController(store *services.Store, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{Store: store, Analytics: analytics}
}

// GetHistory -> archived services, oldest first
func (ac *AdminController) GetHistory(c *gin.Context) {
	logs, err := ac.Store.History()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service history", logs)
}

// GetAnalytics -> the dashboard summary cards
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	summary, err := ac.Analytics.Summary(time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Analytics summary", summary)
}

// GetDashboard -> the live per-table rows, same payload the monitor ticks
func (ac *AdminController) GetDashboard(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Live dashboard", ac.Analytics.Dashboard(time.Now()))
}

// GetMenuAverage -> average archived duration for one menu name
func (ac *AdminController) GetMenuAverage(c *gin.Context) {
	name := c.Query("menu")
	if name == "" {
		utils.RespondJSON(c, http.StatusBadRequest, "query parameter 'menu' is required", nil)
		return
	}
	avg, err := ac.Analytics.MenuAverageDuration(name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu average duration", gin.H{
		"menu":            name,
		"average_seconds": avg.Seconds(),
	})
}
