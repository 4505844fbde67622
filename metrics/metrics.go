// Package metrics records operational metrics for the referee assistant.
// file: metrics/metrics.go
package metrics

import "time"

// Recorder receives domain events worth counting. Implementations must be
// safe for concurrent use and must not block the caller for long.
type Recorder interface {
	IncidentIssued(cardType string)
	ReviewCleared(applied bool)
	RecognitionCompleted(elapsed time.Duration, matched bool)
	CameraTransition(state string)
	CameraFailure(reason string)
	Connections(count int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncidentIssued(string) {}
func (Nop) ReviewCleared(bool) {}
func (Nop) RecognitionCompleted(time.Duration, bool) {}
func (Nop) CameraTransition(string) {}
func (Nop) CameraFailure(string) {}
func (Nop) Connections(int) {}

// Multi fans every event out to several recorders.
type Multi []Recorder

func (m Multi) IncidentIssued(cardType string) {
	for _, r := range m {
		r.IncidentIssued(cardType)
	}
}

func (m Multi) ReviewCleared(applied bool) {
	for _, r := range m {
		r.ReviewCleared(applied)
	}
}

func (m Multi) RecognitionCompleted(elapsed time.Duration, matched bool) {
	for _, r := range m {
		r.RecognitionCompleted(elapsed, matched)
	}
}

func (m Multi) CameraTransition(state string) {
	for _, r := range m {
		r.CameraTransition(state)
	}
}

func (m Multi) CameraFailure(reason string) {
	for _, r := range m {
		r.CameraFailure(reason)
	}
}

func (m Multi) Connections(count int) {
	for _, r := range m {
		r.Connections(count)
	}
}
