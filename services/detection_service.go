// Package services: services/detection_service.go
package services

import (
	"sync"

	"go-ref-assist/logger"
	"go-ref-assist/models"
)

const (
	faceStroke   = "#FFD700"
	jerseyStroke = "#00FFFF"
	jerseyFill   = "rgba(0, 255, 255, 0.2)"
	jerseyGlyph  = "#"
)

// DetectionService draws cosmetic overlays on live frames. It never
// touches the match store.
type DetectionService struct {
	provider DetectionProvider

	// OnDetection receives one overlay per frame.
	OnDetection func(models.Detection)

	mu   sync.Mutex
	mode models.DetectionMode
	stop chan struct{}
	done chan struct{}
}

// NewDetectionService starts in face mode.
func NewDetectionService(provider DetectionProvider) *DetectionService {
	return &DetectionService{provider: provider, mode: models.DetectFace}
}

// Mode returns the current overlay mode.
func (s *DetectionService) Mode() models.DetectionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ToggleMode flips between face and jersey and returns the new mode.
func (s *DetectionService) ToggleMode() models.DetectionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	logger.Debug.Printf("[DetectionService.ToggleMode] mode is now %s", s.mode)
	return s.mode
}

// Annotate builds the overlay for one frame.
func (s *DetectionService) Annotate(f models.Frame, mode models.DetectionMode) models.Detection {
	w, h := float64(f.Width), float64(f.Height)
	d := models.Detection{Mode: mode, FrameSeq: f.Seq, FrameWidth: f.Width, FrameHeight: f.Height}

	if mode == models.DetectJersey {
		d.Box = models.Rect{
			X:      w*0.4 + s.provider.Jitter()*w*0.05,
			Y:      h*0.5 + s.provider.Jitter()*h*0.05,
			Width:  w * 0.2,
			Height: h * 0.15,
		}
		d.Stroke = jerseyStroke
		d.Fill = jerseyFill
		d.Glyph = jerseyGlyph
		return d
	}

	box := models.Rect{
		X:      w*0.3 + s.provider.Jitter()*w*0.2,
		Y:      h*0.2 + s.provider.Jitter()*h*0.2,
		Width:  w * 0.2,
		Height: h * 0.3,
	}
	d.Box = box
	d.Stroke = faceStroke
	d.Landmarks = []models.Point{
		{X: box.X + box.Width*0.3, Y: box.Y + box.Height*0.3},
		{X: box.X + box.Width*0.7, Y: box.Y + box.Height*0.3},
		{X: box.X + box.Width*0.5, Y: box.Y + box.Height*0.7},
	}
	return d
}

// Run annotates frames until the channel closes or Stop is called.
// A running loop is replaced.
func (s *DetectionService) Run(frames <-chan models.Frame) {
	s.Stop()
	if frames == nil {
		return
	}

	stop, done := make(chan struct{}), make(chan struct{})
	s.mu.Lock()
	s.stop, s.done = stop, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			case f, ok := <-frames:
				if !ok {
					logger.Debug.Println("[DetectionService.Run] frame source closed")
					return
				}
				d := s.Annotate(f, s.Mode())
				if s.OnDetection != nil {
					s.OnDetection(d)
				}
			}
		}
	}()
}

// Stop ends the loop and waits for it to exit.
func (s *DetectionService) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
