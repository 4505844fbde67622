// Package websocket: Hub methods that push assistant events to viewers.
// file: websocket/messenger.go
package websocket

import (
	"encoding/json"

	"go-ref-assist/logger"
	"go-ref-assist/models"
	"go-ref-assist/services"
)

var (
	_ Messenger            = (*Hub)(nil)
	_ services.Broadcaster = (*Hub)(nil)
)

// Outbound actions.
const (
	ActionState               = "state"
	ActionNotice              = "notice"
	ActionDetection           = "detection"
	ActionRecognitionProgress = "recognitionProgress"
	ActionIncidentIssued      = "incidentIssued"
	ActionReviewCleared       = "reviewCleared"
)

// Messenger is an interface for broadcasting messages.
type Messenger interface {
	BroadcastMessage(action string, msg map[string]interface{})
	BroadcastRaw(msg []byte)
}

func encode(action string, msg map[string]interface{}) ([]byte, error) {
	if msg == nil {
		msg = make(map[string]interface{}, 1)
	}
	msg["action"] = action
	return json.Marshal(msg)
}

// BroadcastMessage stamps the action on msg and sends it to every connection.
func (h *Hub) BroadcastMessage(action string, msg map[string]interface{}) {
	m, err := encode(action, msg)
	if err != nil {
		logger.Error.Printf("[Hub.BroadcastMessage] Error marshalling %s message: %v", action, err)
		return
	}
	h.SendBroadcastMessage(m)
}

// BroadcastRaw sends a pre-encoded JSON message.
func (h *Hub) BroadcastRaw(msg []byte) {
	h.SendBroadcastMessage(msg)
}

func (h *Hub) BroadcastState(state models.ConsoleState) {
	h.BroadcastMessage(ActionState, map[string]interface{}{"state": state})
}

func (h *Hub) BroadcastNotice(notice models.Notice) {
	logger.Debug.Printf("[Hub.BroadcastNotice] %s: %s", notice.Title, notice.Message)
	h.BroadcastMessage(ActionNotice, map[string]interface{}{"notice": notice})
}

func (h *Hub) BroadcastDetection(d models.Detection) {
	h.BroadcastMessage(ActionDetection, map[string]interface{}{"detection": d})
}

func (h *Hub) BroadcastProgress(session models.RecognitionSession) {
	h.BroadcastMessage(ActionRecognitionProgress, map[string]interface{}{"session": session})
}

func (h *Hub) BroadcastIncident(inc models.Incident) {
	h.BroadcastMessage(ActionIncidentIssued, map[string]interface{}{"incident": inc})
}

func (h *Hub) BroadcastReviewCleared(generation uint64, applied bool) {
	h.BroadcastMessage(ActionReviewCleared, map[string]interface{}{
		"generation": generation,
		"applied":    applied,
	})
}
