package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/utils"
	"golang.org/x/crypto/bcrypt"
)

// UserController handles the three fixed device profiles. Sala and cozinha
// log in by username alone; admin needs the shared secret.
type UserController struct {
	AdminHash []byte
}

func NewUserController(adminHash []byte) *UserController {
	return &UserController{AdminHash: adminHash}
}

// Login -> issue a role-bearing token for the device
func (uc *UserController) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var role string
	switch strings.ToLower(body.Username) {
	case models.RoleSala:
		role = models.RoleSala
	case models.RoleCozinha:
		role = models.RoleCozinha
	case "adm", models.RoleAdmin:
		if err := bcrypt.CompareHashAndPassword(uc.AdminHash, []byte(body.Password)); err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("credenciais inválidas"))
			return
		}
		role = models.RoleAdmin
	default:
		utils.RespondError(c, http.StatusUnauthorized, errors.New("credenciais inválidas"))
		return
	}

	token, err := utils.GenerateToken(role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Device logged in as %s", role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  role,
	})
}
