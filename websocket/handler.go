// Package websocket: upgrade entry point and inbound action dispatch.
// file: websocket/handler.go
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"go-ref-assist/logger"
	"go-ref-assist/models"
	"go-ref-assist/services"
)

// Inbound actions.
const (
	ActionToggleCamera     = "toggleCamera"
	ActionToggleDetection  = "toggleDetection"
	ActionBeginRecognition = "beginRecognition"
	ActionSelectCard       = "selectCard"
	ActionIssueCard        = "issueCard"
	ActionSetLanguage      = "setLanguage"
	ActionRequestState     = "requestState"
)

// cameraRequestTimeout bounds a permission request started over the socket.
const cameraRequestTimeout = 30 * time.Second

// ActionHandler is the console the socket drives.
type ActionHandler interface {
	ToggleCamera(ctx context.Context) (models.CameraState, error)
	ToggleDetectionMode() models.DetectionMode
	BeginRecognition() error
	SelectCard(card models.CardType) error
	IssueCard(card models.CardType, reason string) (*models.Incident, error)
	SetLanguage(lang models.Language) error
	State() models.ConsoleState
	Language() models.Language
}

var _ ActionHandler = (*services.Assistant)(nil)

// InboundMessage represents the JSON structure of messages from clients.
type InboundMessage struct {
	Action   string `json:"action"`
	CardType string `json:"cardType,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Language string `json:"language,omitempty"`
}

// ServeWs upgrades the request and starts the pumps. Only operator
// connections may send actions; the rest are viewers.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, operator bool) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		id:       uuid.NewString(),
		conn:     wsConn,
		send:     make(chan []byte, sendBuffer),
		hub:      h,
		operator: operator,
	}
	h.register(c)
	h.sendState(c)

	go c.readPump()
	go c.writePump()
}

func (h *Hub) sendState(c *Connection) {
	if h.handler == nil {
		return
	}
	msg, err := encode(ActionState, map[string]interface{}{"state": h.handler.State()})
	if err != nil {
		logger.Error.Printf("[Hub.sendState] Error marshalling state: %v", err)
		return
	}
	h.sendTo(c, msg)
}

// handleIncoming processes an inbound JSON message. Failures are already
// surfaced to every viewer as notices by the handler.
func (h *Hub) handleIncoming(c *Connection, msg InboundMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s from %s", msg.Action, c.id)

	if msg.Action == ActionRequestState {
		h.sendState(c)
		return
	}
	if h.handler == nil {
		return
	}
	if !c.operator {
		logger.Warn.Printf("[handleIncoming] viewer %s attempted %q; ignoring", c.id, msg.Action)
		return
	}

	var err error
	switch msg.Action {
	case ActionToggleCamera:
		ctx, cancel := context.WithTimeout(context.Background(), cameraRequestTimeout)
		_, err = h.handler.ToggleCamera(ctx)
		cancel()
	case ActionToggleDetection:
		h.handler.ToggleDetectionMode()
	case ActionBeginRecognition:
		err = h.handler.BeginRecognition()
	case ActionSelectCard:
		err = h.handler.SelectCard(models.CardType(msg.CardType))
	case ActionIssueCard:
		_, err = h.handler.IssueCard(models.CardType(msg.CardType), msg.Reason)
	case ActionSetLanguage:
		err = h.handler.SetLanguage(models.Language(msg.Language))
	default:
		logger.Debug.Printf("Unhandled action: %s", msg.Action)
		return
	}
	if err != nil {
		logger.Info.Printf("[handleIncoming] %s from %s rejected: %v", msg.Action, c.id, err)
	}
}
