// Package controllers file: controllers/websocket_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-ref-assist/websocket"
)

// WebSocketController upgrades /ws requests onto the hub.
type WebSocketController struct {
	Hub  *websocket.Hub
	Auth *AuthController
}

// NewWebSocketController creates an instance of WebSocketController
func NewWebSocketController(hub *websocket.Hub, auth *AuthController) *WebSocketController {
	return &WebSocketController{Hub: hub, Auth: auth}
}

// ServeWs attaches the client as operator or viewer depending on its session.
func (wc *WebSocketController) ServeWs(c *gin.Context) {
	wc.Hub.ServeWs(c.Writer, c.Request, wc.Auth.IsOperator(c))
}
