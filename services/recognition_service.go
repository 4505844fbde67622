// Package services: services/recognition_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go-ref-assist/logger"
	"go-ref-assist/metrics"
	"go-ref-assist/models"
)

// recognitionTarget is the progress value that resolves a scan.
const recognitionTarget = 100

// CameraStatus reports whether frames are flowing.
type CameraStatus interface {
	Active() bool
}

// RecognitionService runs the simulated player scan. At most one session
// exists at a time; ticks from a cancelled session are ignored.
type RecognitionService struct {
	store     *MatchStore
	camera    CameraStatus
	provider  RecognitionProvider
	scheduler Scheduler
	recorder  metrics.Recorder
	tick      time.Duration

	// OnProgress runs after every tick that leaves the session open.
	OnProgress func(models.RecognitionSession)
	// OnRecognized runs when a scan resolves to a player.
	OnRecognized func(models.Player)

	mu        sync.Mutex
	session   *models.RecognitionSession
	timer     Timer
	resolving string // id of a finished session not yet written to the store
}

// NewRecognitionService creates an idle service.
func NewRecognitionService(store *MatchStore, camera CameraStatus, provider RecognitionProvider,
	scheduler Scheduler, recorder metrics.Recorder, tick time.Duration) *RecognitionService {
	if scheduler == nil {
		scheduler = DefaultScheduler
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	return &RecognitionService{
		store:     store,
		camera:    camera,
		provider:  provider,
		scheduler: scheduler,
		recorder:  recorder,
		tick:      tick,
	}
}

// Begin starts a scan. It fails if the camera is off or a scan is running;
// a rejected call leaves the running session untouched.
func (s *RecognitionService) Begin() error {
	if !s.camera.Active() {
		logger.Warn.Println("[RecognitionService.Begin] rejected: camera inactive")
		return ErrCameraInactive
	}

	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		logger.Warn.Println("[RecognitionService.Begin] rejected: scan already running")
		return ErrRecognitionInProgress
	}
	session := &models.RecognitionSession{
		ID:        uuid.NewString(),
		Scanning:  true,
		StartedAt: s.scheduler.Now(),
	}
	s.session = session
	s.resolving = ""
	id := session.ID
	s.timer = s.scheduler.AfterFunc(s.tick, func() { s.step(id) })
	snapshot := *session
	s.mu.Unlock()

	s.store.SetRecognizedPlayer(nil)
	logger.Info.Printf("[RecognitionService.Begin] session %s started", id)
	if s.OnProgress != nil {
		s.OnProgress(snapshot)
	}
	return nil
}

func (s *RecognitionService) step(id string) {
	s.mu.Lock()
	if s.session == nil || s.session.ID != id {
		s.mu.Unlock()
		logger.Debug.Printf("[RecognitionService.step] ignoring tick for stale session %s", id)
		return
	}

	s.session.Progress += s.provider.NextIncrement()
	if s.session.Progress < recognitionTarget {
		snapshot := *s.session
		s.timer = s.scheduler.AfterFunc(s.tick, func() { s.step(id) })
		s.mu.Unlock()
		if s.OnProgress != nil {
			s.OnProgress(snapshot)
		}
		return
	}

	started := s.session.StartedAt
	s.session = nil
	s.timer = nil
	s.resolving = id
	s.mu.Unlock()

	s.resolve(id, started)
}

func (s *RecognitionService) resolve(id string, started time.Time) {
	defer s.finishResolving(id)
	elapsed := s.scheduler.Now().Sub(started)

	if !s.camera.Active() {
		logger.Info.Printf("[RecognitionService.resolve] session %s ended with camera off, no player selected", id)
		return
	}
	roster := s.store.Roster()
	if len(roster) == 0 {
		logger.Warn.Printf("[RecognitionService.resolve] session %s ended with empty roster", id)
		s.recorder.RecognitionCompleted(elapsed, false)
		return
	}

	player := roster[s.provider.PickIndex(len(roster))]
	if !s.store.SetRecognizedPlayerIf(player, func() bool { return s.stillResolving(id) }) {
		logger.Info.Printf("[RecognitionService.resolve] session %s cancelled before its result was recorded", id)
		return
	}
	s.recorder.RecognitionCompleted(elapsed, true)
	logger.Info.Printf("[RecognitionService.resolve] session %s recognized %s", id, PlayerLabel(player))
	if s.OnRecognized != nil {
		s.OnRecognized(player)
	}
}

// stillResolving reports whether session id may still record its player.
// Called with the store lock held.
func (s *RecognitionService) stillResolving(id string) bool {
	s.mu.Lock()
	current := s.resolving == id
	s.mu.Unlock()
	return current && s.camera.Active()
}

func (s *RecognitionService) finishResolving(id string) {
	s.mu.Lock()
	if s.resolving == id {
		s.resolving = ""
	}
	s.mu.Unlock()
}

// Session returns a copy of the running session, or nil.
func (s *RecognitionService) Session() *models.RecognitionSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Scanning reports whether a session is running.
func (s *RecognitionService) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Cancel ends the running session without selecting a player.
func (s *RecognitionService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolving = ""
	if s.session == nil {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	logger.Info.Printf("[RecognitionService.Cancel] session %s cancelled at %d%%", s.session.ID, s.session.Progress)
	s.session = nil
	s.timer = nil
}
