// Package models - camera, detection and console state types.
// File: models/camera.go
package models

import "time"

// CameraState is the media acquisition lifecycle.
type CameraState string

const (
	CameraIdle       CameraState = "idle"
	CameraRequesting CameraState = "requesting"
	CameraActive     CameraState = "active"
)

// DetectionMode selects which overlay the detection simulator draws.
type DetectionMode string

const (
	DetectFace   DetectionMode = "face"
	DetectJersey DetectionMode = "jersey"
)

// Toggle returns the other mode.
func (m DetectionMode) Toggle() DetectionMode {
	if m == DetectFace {
		return DetectJersey
	}
	return DetectFace
}

// Frame is one captured video frame. Pixel data is not carried; nothing
// downstream analyses it.
type Frame struct {
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// Rect is an axis-aligned box in frame pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a frame coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection is a purely cosmetic overlay for one frame.
type Detection struct {
	Mode        DetectionMode `json:"mode"`
	FrameSeq    uint64        `json:"frameSeq"`
	FrameWidth  int           `json:"frameWidth"`
	FrameHeight int           `json:"frameHeight"`
	Box         Rect          `json:"box"`
	Stroke      string        `json:"stroke"`
	Landmarks   []Point       `json:"landmarks,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	Glyph       string        `json:"glyph,omitempty"`
}

// RecognitionSession is a transient scan in progress.
type RecognitionSession struct {
	ID        string    `json:"id"`
	Scanning  bool      `json:"scanning"`
	Progress  int       `json:"progress"`
	StartedAt time.Time `json:"startedAt"`
}

// Language selects message formatting.
type Language string

const (
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

// Valid reports whether the language is supported.
func (l Language) Valid() bool {
	return l == LangArabic || l == LangEnglish
}

// NoticeLevel distinguishes informational and destructive notifications.
type NoticeLevel string

const (
	NoticeInfo        NoticeLevel = "info"
	NoticeDestructive NoticeLevel = "destructive"
)

// Notice is a user-facing notification.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// ConsoleState is everything the presentation layer can read in one go.
type ConsoleState struct {
	CameraState      CameraState         `json:"cameraState"`
	CameraActive     bool                `json:"cameraActive"`
	DetectionMode    DetectionMode       `json:"detectionMode"`
	Recognition      *RecognitionSession `json:"recognition"`
	RecognizedPlayer *Player             `json:"recognizedPlayer"`
	SelectedCardType CardType            `json:"selectedCardType"`
	Language         Language            `json:"language"`
	Review           ReviewState         `json:"review"`
	IncidentCount    int                 `json:"incidentCount"`
}
