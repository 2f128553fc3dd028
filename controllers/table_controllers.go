package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
)

type TableController struct {
	Store *services.Store
}

func NewTableController(store *services.Store) *TableController {
	return &TableController{Store: store}
}

// GetAllTables -> full roster snapshot
func (tc *TableController) GetAllTables(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of tables", tc.Store.Tables())
}

// GetTableByID -> one table, with the derived floor step for the UI
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, err := tc.Store.TableByID(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table": table,
		"step":  table.Step(),
	})
}

// SelectMenu -> bind a menu to the table before the service starts
func (tc *TableController) SelectMenu(c *gin.Context) {
	var body struct {
		MenuID string `json:"menu_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.SelectMenu(c.Param("table_id"), body.MenuID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu selected", table)
}

// RecordSeated -> log the guests' arrival
func (tc *TableController) RecordSeated(c *gin.Context) {
	var body struct {
		Pax      int    `json:"pax" binding:"required,gte=1"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.RecordSeated(c.Param("table_id"), body.Pax, body.Language)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guests seated", table)
}

// SelectPairing -> record the beverage accompaniment
func (tc *TableController) SelectPairing(c *gin.Context) {
	var body struct {
		Pairing string `json:"pairing" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.SelectPairing(c.Param("table_id"), body.Pairing)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pairing selected", table)
}

// AdvanceMoment -> floor sends the next course to the kitchen
func (tc *TableController) AdvanceMoment(c *gin.Context) {
	table, err := tc.Store.AdvanceMoment(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Moment advanced", table)
}

// MarkReady -> kitchen reports the current moment plated
func (tc *TableController) MarkReady(c *gin.Context) {
	table, err := tc.Store.MarkReady(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Moment ready", table)
}

// PauseService / ResumeService -> floor-only idle toggle
func (tc *TableController) PauseService(c *gin.Context) {
	table, err := tc.Store.Pause(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service paused", table)
}

func (tc *TableController) ResumeService(c *gin.Context) {
	table, err := tc.Store.Resume(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service resumed", table)
}

// FinishService -> archive and recycle the table (forced close included)
func (tc *TableController) FinishService(c *gin.Context) {
	table, err := tc.Store.FinishService(c.Param("table_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service finished", table)
}

// SetRestriction -> dietary restriction record, any authenticated role
func (tc *TableController) SetRestriction(c *gin.Context) {
	var body struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.SetRestriction(c.Param("table_id"),
		models.RestrictionType(body.Type), body.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restriction updated", table)
}

// respondServiceError maps store errors onto HTTP: missing references are
// 404, rejected transitions are 409, the rest of the validation set is 400.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableNotFound), errors.Is(err, services.ErrMenuNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrKitchenBusy),
		errors.Is(err, services.ErrServicePaused),
		errors.Is(err, services.ErrNotPreparing),
		errors.Is(err, services.ErrPauseUnavailable),
		errors.Is(err, services.ErrNotPaused),
		errors.Is(err, services.ErrMenuLocked),
		errors.Is(err, services.ErrMenuActive),
		errors.Is(err, services.ErrAlreadySeated),
		errors.Is(err, services.ErrPairingChosen):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusBadRequest, err)
	}
}
