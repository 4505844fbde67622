// Package websocket test_helpers.go
package websocket

import "go-ref-assist/metrics"

// InitTest returns a hub with its broadcast loop running and no origin
// restrictions. Call Close when done.
func InitTest(handler ActionHandler) *Hub {
	h := NewHub(handler, nil, metrics.Nop{})
	go h.HandleMessages()
	return h
}
