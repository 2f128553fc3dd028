package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mymichelin/momentos-app/controllers"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/utils"
)

func setupDBForNotifications(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:notif_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		panic(err)
	}
	return db
}

func setupNotificationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	notifCtrl := controllers.NewNotificationController(db)
	router.GET("/admin/notifications", notifCtrl.GetAllNotifications)
	router.DELETE("/admin/notifications/:notif_id", notifCtrl.DeleteNotification)
	return router
}

func TestGetAllNotificationsFiltersByRole(t *testing.T) {
	utils.InitLogger()
	db := setupDBForNotifications(t)

	db.Create(&models.Notification{TargetRole: models.RoleSala, Title: "Mesa 3", Body: "Pronto para retirada: Snacks"})
	db.Create(&models.Notification{TargetRole: models.RoleCozinha, Title: "Mesa 3", Body: "Momento 3: Peixe"})
	db.Create(&models.Notification{TargetRole: models.RoleCozinha, Title: "Mesa 7", Body: "Sentada: 2 pax"})

	router := setupNotificationRouter(db)

	req, _ := http.NewRequest("GET", "/admin/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"].([]interface{}), 3)

	req, _ = http.NewRequest("GET", "/admin/notifications?role=cozinha", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	for _, raw := range data {
		assert.Equal(t, "cozinha", raw.(map[string]interface{})["target_role"])
	}
}

func TestDeleteNotification(t *testing.T) {
	utils.InitLogger()
	db := setupDBForNotifications(t)

	notif := models.Notification{TargetRole: models.RoleSala, Title: "Mesa 1", Body: "Serviço encerrado"}
	db.Create(&notif)

	router := setupNotificationRouter(db)

	w := postJSON(t, router, "DELETE", fmt.Sprintf("/admin/notifications/%d", notif.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
