// file: services/camera_service_test.go
package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ref-assist/config"
	"go-ref-assist/models"
)

var testConstraints = Constraints{FacingMode: "environment", IdealWidth: 1280, IdealHeight: 720, FPS: 15}

type stateLog struct {
	mu     sync.Mutex
	states []models.CameraState
}

func (l *stateLog) record(s models.CameraState) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []models.CameraState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.CameraState(nil), l.states...)
}

// Test: start and stop walk through every state once
func TestCameraService_StartStop(t *testing.T) {
	dev := &fakeDevice{}
	cam := NewCameraService(dev, testConstraints, nil)
	log := &stateLog{}
	cam.OnStateChange(log.record)

	require.NoError(t, cam.Start(context.Background()))
	assert.True(t, cam.Active())
	assert.NotNil(t, cam.Frames())

	require.NoError(t, cam.Start(context.Background()), "start while active is a no-op")
	require.NoError(t, cam.Stop())
	require.NoError(t, cam.Stop(), "stop is idempotent")

	assert.Equal(t, models.CameraIdle, cam.State())
	assert.Nil(t, cam.Frames())
	assert.Equal(t, []models.CameraState{models.CameraRequesting, models.CameraActive, models.CameraIdle}, log.all())
	starts, stops := dev.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

// Test: refused permission is reported as such and leaves the camera idle
func TestCameraService_PermissionDenied(t *testing.T) {
	cam := NewCameraService(&fakeDevice{err: ErrPermissionDenied}, testConstraints, nil)
	log := &stateLog{}
	cam.OnStateChange(log.record)

	err := cam.Start(context.Background())

	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, models.CameraIdle, cam.State())
	assert.Equal(t, []models.CameraState{models.CameraRequesting, models.CameraIdle}, log.all())
}

// Test: raw device errors are classified as unavailable
func TestCameraService_UnknownErrorIsDeviceUnavailable(t *testing.T) {
	cam := NewCameraService(&fakeDevice{err: errors.New("NotReadableError")}, testConstraints, nil)

	err := cam.Start(context.Background())

	assert.True(t, errors.Is(err, ErrDeviceUnavailable))
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.False(t, cam.Active())
}

// Test: toggle alternates between start and stop
func TestCameraService_Toggle(t *testing.T) {
	cam := NewCameraService(&fakeDevice{}, testConstraints, nil)

	require.NoError(t, cam.Toggle(context.Background()))
	assert.True(t, cam.Active())
	require.NoError(t, cam.Toggle(context.Background()))
	assert.False(t, cam.Active())
}

// Test: stopping during the permission prompt releases the late handle
func TestCameraService_StopWhileRequesting(t *testing.T) {
	dev := &fakeDevice{release: make(chan struct{})}
	cam := NewCameraService(dev, testConstraints, nil)

	errc := make(chan error, 1)
	go func() { errc <- cam.Start(context.Background()) }()
	require.Eventually(t, func() bool { return cam.State() == models.CameraRequesting }, time.Second, time.Millisecond)

	require.NoError(t, cam.Stop())
	close(dev.release)

	err := <-errc
	assert.True(t, errors.Is(err, ErrPreconditionNotMet))
	assert.Equal(t, models.CameraIdle, cam.State())
	starts, stops := dev.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

// Test: cancelling the request context abandons the request
func TestCameraService_ContextCancelledWhileRequesting(t *testing.T) {
	dev := &fakeDevice{release: make(chan struct{})}
	cam := NewCameraService(dev, testConstraints, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cam.Start(ctx)

	assert.True(t, errors.Is(err, ErrDeviceUnavailable))
	assert.Equal(t, models.CameraIdle, cam.State())
}

// Test: simulated camera policies map onto the error taxonomy
func TestSimulatedCamera_Policies(t *testing.T) {
	_, err := NewSimulatedCamera(config.CameraDeny).Start(context.Background(), testConstraints)
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	_, err = NewSimulatedCamera(config.CameraUnavailable).Start(context.Background(), testConstraints)
	assert.True(t, errors.Is(err, ErrDeviceUnavailable))
}

// Test: simulated camera streams frames until stopped
func TestSimulatedCamera_Frames(t *testing.T) {
	dev := NewSimulatedCamera(config.CameraAllow)
	frames, err := dev.Start(context.Background(), Constraints{IdealWidth: 640, IdealHeight: 480, FPS: 100})
	require.NoError(t, err)

	select {
	case f := <-frames:
		assert.Equal(t, 640, f.Width)
		assert.Equal(t, 480, f.Height)
		assert.Greater(t, f.Seq, uint64(0))
	case <-time.After(time.Second):
		t.Fatal("expected a frame")
	}

	_, err = dev.Start(context.Background(), testConstraints)
	assert.True(t, errors.Is(err, ErrDeviceUnavailable), "device is single-use while running")

	require.NoError(t, dev.Stop())
	require.NoError(t, dev.Stop())
	for range frames {
		// drain until closed
	}
}

// Test: the request context does not bound the frame stream
func TestSimulatedCamera_OutlivesRequestContext(t *testing.T) {
	dev := NewSimulatedCamera(config.CameraAllow)
	ctx, cancel := context.WithCancel(context.Background())
	frames, err := dev.Start(ctx, Constraints{IdealWidth: 64, IdealHeight: 64, FPS: 100})
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-frames:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected frames after the request context ended")
	}
	require.NoError(t, dev.Stop())
}

// Test: the simulated prompt honours cancellation
func TestSimulatedCamera_OpenDelayCancelled(t *testing.T) {
	dev := &SimulatedCamera{Policy: config.CameraAllow, OpenDelay: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := dev.Start(ctx, testConstraints)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
