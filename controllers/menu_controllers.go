package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
)

type MenuController struct {
	Store *services.Store
}

func NewMenuController(store *services.Store) *MenuController {
	return &MenuController{Store: store}
}

// GetAllMenus -> menu list; ?active=true narrows to selectable menus
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	if c.Query("active") == "true" {
		utils.RespondJSON(c, http.StatusOK, "Active menus", mc.Store.ActiveMenus())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", mc.Store.Menus())
}

// CreateMenu -> admin registers a new menu, inactive until toggled
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body struct {
		Name    string   `json:"name" binding:"required"`
		Moments []string `json:"moments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Store.CreateMenu(body.Name, body.Moments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> partial edit, including the activation toggle
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var body struct {
		Name     *string  `json:"name"`
		Moments  []string `json:"moments"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Store.UpdateMenu(c.Param("menu_id"), services.MenuUpdate{
		Name:     body.Name,
		Moments:  body.Moments,
		IsActive: body.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> refused while the menu is active
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	if err := mc.Store.DeleteMenu(c.Param("menu_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": c.Param("menu_id")})
}

// GetPairings -> the fixed pairing options
func (mc *MenuController) GetPairings(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Pairing options", mc.Store.Pairings())
}
