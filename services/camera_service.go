// Package services: services/camera_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-ref-assist/config"
	"go-ref-assist/logger"
	"go-ref-assist/metrics"
	"go-ref-assist/models"
)

// Constraints are the capture preferences passed to the device.
type Constraints struct {
	FacingMode  string
	IdealWidth  int
	IdealHeight int
	FPS         int
}

// CameraDevice is a frame source.
//
// Start blocks while access is negotiated and then returns a channel that
// stays open until Stop. ctx only bounds the negotiation. Stop is idempotent.
type CameraDevice interface {
	Start(ctx context.Context, c Constraints) (<-chan models.Frame, error)
	Stop() error
}

var errCameraAborted = fmt.Errorf("%w: camera stopped while requesting access", ErrPreconditionNotMet)

// CameraService drives the Idle -> Requesting -> Active lifecycle.
type CameraService struct {
	device      CameraDevice
	constraints Constraints
	recorder    metrics.Recorder

	mu        sync.Mutex
	state     models.CameraState
	frames    <-chan models.Frame
	attempt   uint64
	listeners []func(models.CameraState)
}

// NewCameraService creates an idle camera.
func NewCameraService(device CameraDevice, constraints Constraints, recorder metrics.Recorder) *CameraService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &CameraService{
		device:      device,
		constraints: constraints,
		recorder:    recorder,
		state:       models.CameraIdle,
	}
}

// OnStateChange registers fn to run after every transition.
func (s *CameraService) OnStateChange(fn func(models.CameraState)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *CameraService) transitioned(state models.CameraState) {
	s.mu.Lock()
	listeners := append([]func(models.CameraState){}, s.listeners...)
	s.mu.Unlock()

	s.recorder.CameraTransition(string(state))
	for _, fn := range listeners {
		fn(state)
	}
}

// State returns the lifecycle state.
func (s *CameraService) State() models.CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether frames are flowing.
func (s *CameraService) Active() bool {
	return s.State() == models.CameraActive
}

// Frames returns the live frame channel, or nil when not active.
func (s *CameraService) Frames() <-chan models.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Start requests the device. Calling it while requesting or active is a no-op.
// Failures are reported as ErrPermissionDenied or ErrDeviceUnavailable and
// leave the camera idle.
func (s *CameraService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != models.CameraIdle {
		s.mu.Unlock()
		return nil
	}
	s.state = models.CameraRequesting
	s.attempt++
	attempt := s.attempt
	s.mu.Unlock()
	s.transitioned(models.CameraRequesting)

	frames, err := s.device.Start(ctx, s.constraints)

	s.mu.Lock()
	if s.attempt != attempt {
		// Stop ran while we were waiting on the device.
		s.mu.Unlock()
		if err == nil {
			_ = s.device.Stop()
		}
		logger.Info.Println("[CameraService.Start] request superseded by stop")
		return errCameraAborted
	}
	if err != nil {
		s.state = models.CameraIdle
		s.mu.Unlock()
		err = classifyCameraError(err)
		s.recorder.CameraFailure(cameraFailureReason(err))
		logger.Warn.Printf("[CameraService.Start] camera request failed: %v", err)
		s.transitioned(models.CameraIdle)
		return err
	}
	s.state = models.CameraActive
	s.frames = frames
	s.mu.Unlock()

	logger.Info.Printf("[CameraService.Start] camera active (%s, %dx%d @ %dfps)",
		s.constraints.FacingMode, s.constraints.IdealWidth, s.constraints.IdealHeight, s.constraints.FPS)
	s.transitioned(models.CameraActive)
	return nil
}

// Stop releases the device and returns to idle. It is safe to call in any state.
func (s *CameraService) Stop() error {
	s.mu.Lock()
	if s.state == models.CameraIdle {
		s.mu.Unlock()
		return nil
	}
	wasActive := s.state == models.CameraActive
	s.state = models.CameraIdle
	s.frames = nil
	s.attempt++
	s.mu.Unlock()

	var err error
	if wasActive {
		err = s.device.Stop()
		if err != nil {
			logger.Warn.Printf("[CameraService.Stop] device stop failed: %v", err)
		}
	}
	logger.Info.Println("[CameraService.Stop] camera stopped")
	s.transitioned(models.CameraIdle)
	return err
}

// Toggle starts an idle camera and stops a running one.
func (s *CameraService) Toggle(ctx context.Context) error {
	if s.State() == models.CameraIdle {
		return s.Start(ctx)
	}
	return s.Stop()
}

func classifyCameraError(err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrDeviceUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}

func cameraFailureReason(err error) string {
	if errors.Is(err, ErrPermissionDenied) {
		return "permission_denied"
	}
	return "device_unavailable"
}

// SimulatedCamera produces blank frames at the requested rate. Policy
// decides whether access is granted.
type SimulatedCamera struct {
	Policy string
	// OpenDelay simulates the permission prompt.
	OpenDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulatedCamera returns a camera governed by policy.
func NewSimulatedCamera(policy string) *SimulatedCamera {
	return &SimulatedCamera{Policy: policy}
}

// Start implements CameraDevice.
func (c *SimulatedCamera) Start(ctx context.Context, cons Constraints) (<-chan models.Frame, error) {
	if c.OpenDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.OpenDelay):
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch c.Policy {
	case config.CameraDeny:
		return nil, ErrPermissionDenied
	case config.CameraUnavailable:
		return nil, ErrDeviceUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil, fmt.Errorf("%w: device already in use", ErrDeviceUnavailable)
	}

	fps := cons.FPS
	if fps <= 0 {
		fps = 15
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	frames := make(chan models.Frame, 1)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	go func() {
		defer close(done)
		defer close(frames)
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		var seq uint64
		for {
			select {
			case <-runCtx.Done():
				return
			case now := <-ticker.C:
				seq++
				f := models.Frame{Seq: seq, Timestamp: now, Width: cons.IdealWidth, Height: cons.IdealHeight}
				select {
				case frames <- f:
				default:
					// consumer is behind; drop the frame
				}
			}
		}
	}()
	return frames, nil
}

// Stop implements CameraDevice.
func (c *SimulatedCamera) Stop() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
