package handler

import (
	"encoding/json"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"closetshop/internal/infrastructure/websocket"
	"closetshop/internal/usecase"
	"closetshop/pkg/logger"
)

// WebSocketHandler attaches live-view clients to the hub. Each client gets
// the current view on connect and every reconciled view afterwards.
type WebSocketHandler struct {
	hub        *websocket.Hub
	controller *usecase.SyncController
	upgrader   gorillaws.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, controller *usecase.SyncController) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		controller: controller,
		upgrader: gorillaws.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Unable to upgrade live view connection: %v", err)
		return err
	}

	client := websocket.NewClient(conn)
	h.hub.Register(client)

	if snapshot, err := json.Marshal(h.controller.View()); err == nil {
		select {
		case client.Send <- snapshot:
		default:
		}
	}

	go client.WritePump()
	go client.ReadPump(h.hub)

	return nil
}
