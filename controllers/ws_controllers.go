package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mymichelin/momentos-app/hub"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// LAN-only deployment
		return true
	},
}

// settingsFrame is the only inbound message a view sends: its own mute
// toggle for the audible channel.
type settingsFrame struct {
	Event string `json:"event"`
	Data  struct {
		SoundEnabled bool `json:"sound_enabled"`
	} `json:"data"`
}

type WSController struct {
	Store *services.Store
}

func NewWSController(store *services.Store) *WSController {
	return &WSController{Store: store}
}

// Handle upgrades the connection, registers it under its role, pushes the
// current snapshots so the view converges immediately, then serves the
// mute toggle until disconnect.
func (wc *WSController) Handle(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)
	if !models.ValidRole(role) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	if err := hub.RegisterClient(ws, role); err != nil {
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		ws.Close()
		return
	}
	utils.InfoLogger.Printf("View connected as %s (%d active)", role, hub.ClientCount(role))

	// Initial state push, so a reconnecting view never acts on stale data.
	hub.Send(ws, hub.Message{Event: hub.EventTableSync, Data: wc.Store.Tables()})
	hub.Send(ws, hub.Message{Event: hub.EventMenuSync, Data: wc.Store.Menus()})
	if logs, err := wc.Store.History(); err == nil {
		hub.Send(ws, hub.Message{Event: hub.EventLogSync, Data: logs})
	}

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}
		var frame settingsFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		if frame.Event == "settings" {
			hub.SetSound(ws, frame.Data.SoundEnabled)
		}
	}

	hub.UnregisterClient(ws)
	utils.InfoLogger.Printf("View disconnected (%s)", role)
}
