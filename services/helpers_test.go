// file: services/helpers_test.go
package services

import (
	"context"
	"sync"
	"time"

	"go-ref-assist/models"
)

var testEpoch = time.Date(2025, time.April, 25, 20, 0, 0, 0, time.UTC)

// twoPlayerMatch is the Ahmed/Sara roster used across the scenarios.
func twoPlayerMatch() models.Match {
	return models.Match{
		ID: "m-1",
		HomeTeam: models.Team{ID: "a", Name: "TeamA", Players: []models.Player{
			{ID: "p-ahmed", Name: "Ahmed", JerseyNumber: 7, Team: "TeamA"},
		}},
		AwayTeam: models.Team{ID: "b", Name: "TeamB", Players: []models.Player{
			{ID: "p-sara", Name: "Sara", JerseyNumber: 9, Team: "TeamB"},
		}},
		Status: models.MatchOngoing,
	}
}

func ahmed() *models.Player {
	p := twoPlayerMatch().HomeTeam.Players[0]
	return &p
}

// fixedProvider returns scripted values for every provider.
type fixedProvider struct {
	mu         sync.Mutex
	increments []int
	next       int
	pick       int
	confidence float64
	jitter     float64
}

func (p *fixedProvider) NextIncrement() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.increments) == 0 {
		return 10
	}
	v := p.increments[p.next%len(p.increments)]
	p.next++
	return v
}

func (p *fixedProvider) PickIndex(n int) int { return p.pick % n }

func (p *fixedProvider) Confidence() float64 {
	if p.confidence == 0 {
		return 0.85
	}
	return p.confidence
}

func (p *fixedProvider) Jitter() float64 { return p.jitter }

// fakeCameraStatus is a switchable CameraStatus.
type fakeCameraStatus struct {
	mu     sync.Mutex
	active bool
}

func (c *fakeCameraStatus) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *fakeCameraStatus) set(active bool) {
	c.mu.Lock()
	c.active = active
	c.mu.Unlock()
}

// fakeDevice is a CameraDevice that never produces frames on its own.
type fakeDevice struct {
	mu      sync.Mutex
	err     error
	frames  chan models.Frame
	starts  int
	stops   int
	release chan struct{} // when set, Start blocks until closed
}

func (d *fakeDevice) Start(ctx context.Context, _ Constraints) (<-chan models.Frame, error) {
	if d.release != nil {
		select {
		case <-d.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	if d.err != nil {
		return nil, d.err
	}
	d.frames = make(chan models.Frame)
	return d.frames, nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	if d.frames != nil {
		close(d.frames)
		d.frames = nil
	}
	return nil
}

func (d *fakeDevice) counts() (starts, stops int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.stops
}

// recordingBroadcaster keeps everything the assistant pushes.
type recordingBroadcaster struct {
	mu         sync.Mutex
	states     []models.ConsoleState
	notices    []models.Notice
	detections []models.Detection
	progress   []models.RecognitionSession
	incidents  []models.Incident
	cleared    []bool
}

func (b *recordingBroadcaster) BroadcastState(s models.ConsoleState) {
	b.mu.Lock()
	b.states = append(b.states, s)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastNotice(n models.Notice) {
	b.mu.Lock()
	b.notices = append(b.notices, n)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastDetection(d models.Detection) {
	b.mu.Lock()
	b.detections = append(b.detections, d)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastProgress(s models.RecognitionSession) {
	b.mu.Lock()
	b.progress = append(b.progress, s)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastIncident(inc models.Incident) {
	b.mu.Lock()
	b.incidents = append(b.incidents, inc)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) BroadcastReviewCleared(_ uint64, applied bool) {
	b.mu.Lock()
	b.cleared = append(b.cleared, applied)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) lastNotice() models.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return models.Notice{}
	}
	return b.notices[len(b.notices)-1]
}

func (b *recordingBroadcaster) noticeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}
