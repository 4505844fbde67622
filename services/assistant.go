// Package services: services/assistant.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-ref-assist/config"
	"go-ref-assist/logger"
	"go-ref-assist/metrics"
	"go-ref-assist/models"
)

// Broadcaster pushes console events to connected viewers.
type Broadcaster interface {
	BroadcastState(state models.ConsoleState)
	BroadcastNotice(notice models.Notice)
	BroadcastDetection(d models.Detection)
	BroadcastProgress(session models.RecognitionSession)
	BroadcastIncident(inc models.Incident)
	BroadcastReviewCleared(generation uint64, applied bool)
}

// IncidentPublisher forwards recorded incidents to downstream consumers.
type IncidentPublisher interface {
	PublishIncident(ctx context.Context, matchID string, inc models.Incident) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastState(models.ConsoleState) {}
func (nopBroadcaster) BroadcastNotice(models.Notice) {}
func (nopBroadcaster) BroadcastDetection(models.Detection) {}
func (nopBroadcaster) BroadcastProgress(models.RecognitionSession) {}
func (nopBroadcaster) BroadcastIncident(models.Incident) {}
func (nopBroadcaster) BroadcastReviewCleared(uint64, bool) {}

// AssistantOptions collects everything the Assistant is built from. Zero
// values fall back to production defaults.
type AssistantOptions struct {
	Match       models.Match
	Language    models.Language
	Device      CameraDevice
	Constraints Constraints

	Recognition RecognitionProvider
	Analysis    AnalysisProvider
	Detection   DetectionProvider

	Scheduler Scheduler
	Recorder  metrics.Recorder
	Publisher IncidentPublisher

	ReviewDelay       time.Duration
	RecognitionTick   time.Duration
	ReviewClearPolicy string
	PublishTimeout    time.Duration
}

// Assistant is the single controller for one match. The presentation layer
// talks only to it; it owns the store and every service.
type Assistant struct {
	store       *MatchStore
	camera      *CameraService
	detection   *DetectionService
	recognition *RecognitionService
	cards       *CardService
	publisher   IncidentPublisher
	pubTimeout  time.Duration

	mu          sync.RWMutex
	broadcaster Broadcaster

	// life is held shared by every operation and exclusively by Close, so
	// nothing starts once teardown has begun.
	life   sync.RWMutex
	closed bool

	publishing sync.WaitGroup
}

// NewAssistant wires the services together.
func NewAssistant(opts AssistantOptions) *Assistant {
	if opts.Recognition == nil || opts.Analysis == nil || opts.Detection == nil {
		p := NewSimulatedProvider(0)
		if opts.Recognition == nil {
			opts.Recognition = p
		}
		if opts.Analysis == nil {
			opts.Analysis = p
		}
		if opts.Detection == nil {
			opts.Detection = p
		}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = DefaultScheduler
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Nop{}
	}
	if opts.Device == nil {
		opts.Device = NewSimulatedCamera(config.CameraAllow)
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 2 * time.Second
	}

	a := &Assistant{
		store:       NewMatchStore(opts.Match, opts.Language),
		publisher:   opts.Publisher,
		pubTimeout:  opts.PublishTimeout,
		broadcaster: nopBroadcaster{},
	}
	a.camera = NewCameraService(opts.Device, opts.Constraints, opts.Recorder)
	a.detection = NewDetectionService(opts.Detection)
	a.recognition = NewRecognitionService(a.store, a.camera, opts.Recognition,
		opts.Scheduler, opts.Recorder, opts.RecognitionTick)
	a.cards = NewCardService(a.store, opts.Analysis, opts.Scheduler, opts.Recorder, CardOptions{
		ReviewDelay: opts.ReviewDelay,
		ClearPolicy: opts.ReviewClearPolicy,
	})

	a.store.SetChangeListener(a.pushState)
	a.camera.OnStateChange(a.cameraChanged)
	a.detection.OnDetection = func(d models.Detection) { a.out().BroadcastDetection(d) }
	a.recognition.OnProgress = func(s models.RecognitionSession) { a.out().BroadcastProgress(s) }
	a.recognition.OnRecognized = func(p models.Player) {
		a.out().BroadcastNotice(PlayerRecognizedNotice(a.store.Language(), p))
	}
	a.cards.OnReviewCleared = func(gen uint64, applied bool) { a.out().BroadcastReviewCleared(gen, applied) }
	return a
}

// SetBroadcaster attaches the push channel. nil detaches it.
func (a *Assistant) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	a.mu.Lock()
	a.broadcaster = b
	a.mu.Unlock()
}

func (a *Assistant) out() Broadcaster {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.broadcaster
}

func (a *Assistant) pushState() {
	a.out().BroadcastState(a.State())
}

func (a *Assistant) cameraChanged(state models.CameraState) {
	switch state {
	case models.CameraActive:
		a.detection.Run(a.camera.Frames())
	case models.CameraIdle:
		a.recognition.Cancel()
		a.detection.Stop()
	}
	a.pushState()
}

// errAssistantClosed rejects operations after Close.
var errAssistantClosed = fmt.Errorf("%w: assistant closed", ErrPreconditionNotMet)

// enter admits an operation unless the assistant is closed. The caller must
// call the returned release func when done.
func (a *Assistant) enter() (func(), error) {
	a.life.RLock()
	if a.closed {
		a.life.RUnlock()
		return nil, errAssistantClosed
	}
	return a.life.RUnlock, nil
}

// fail turns err into a notice for every viewer and hands it back.
func (a *Assistant) fail(err error) error {
	a.out().BroadcastNotice(NoticeFor(err, a.store.Language()))
	return err
}

// ToggleCamera starts or stops the camera and returns the resulting state.
func (a *Assistant) ToggleCamera(ctx context.Context) (models.CameraState, error) {
	release, err := a.enter()
	if err != nil {
		return a.camera.State(), a.fail(err)
	}
	defer release()

	if err := a.camera.Toggle(ctx); err != nil {
		return a.camera.State(), a.fail(err)
	}
	return a.camera.State(), nil
}

// ToggleDetectionMode flips the overlay mode.
func (a *Assistant) ToggleDetectionMode() models.DetectionMode {
	release, err := a.enter()
	if err != nil {
		return a.detection.Mode()
	}
	defer release()

	mode := a.detection.ToggleMode()
	a.pushState()
	return mode
}

// BeginRecognition starts a player scan.
func (a *Assistant) BeginRecognition() error {
	release, err := a.enter()
	if err != nil {
		return a.fail(err)
	}
	defer release()

	if err := a.recognition.Begin(); err != nil {
		return a.fail(err)
	}
	return nil
}

// SelectCard records the pending card choice.
func (a *Assistant) SelectCard(card models.CardType) error {
	release, err := a.enter()
	if err != nil {
		return a.fail(err)
	}
	defer release()

	if err := a.store.SelectCard(card); err != nil {
		return a.fail(err)
	}
	return nil
}

// IssueCard records an incident against the recognized player. An empty
// card falls back to the pending selection.
func (a *Assistant) IssueCard(card models.CardType, reason string) (*models.Incident, error) {
	release, err := a.enter()
	if err != nil {
		return nil, a.fail(err)
	}
	defer release()

	if card == models.CardNone {
		card = a.store.SelectedCard()
	}
	inc, err := a.cards.IssueCard(a.store.RecognizedPlayer(), card, reason)
	if err != nil {
		return nil, a.fail(err)
	}

	out := a.out()
	out.BroadcastIncident(*inc)
	out.BroadcastNotice(CardIssuedNotice(a.store.Language()))
	a.publish(*inc)
	return inc, nil
}

func (a *Assistant) publish(inc models.Incident) {
	if a.publisher == nil {
		return
	}
	matchID := a.store.MatchID()
	a.publishing.Add(1)
	go func() {
		defer a.publishing.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.pubTimeout)
		defer cancel()
		if err := a.publisher.PublishIncident(ctx, matchID, inc); err != nil {
			logger.Error.Printf("[Assistant.publish] incident %s not published: %v", inc.ID, err)
		}
	}()
}

// SetLanguage switches the language used for notices and analysis text.
func (a *Assistant) SetLanguage(lang models.Language) error {
	release, err := a.enter()
	if err != nil {
		return a.fail(err)
	}
	defer release()

	if err := a.store.SetLanguage(lang); err != nil {
		return a.fail(err)
	}
	return nil
}

// State returns everything a viewer renders.
func (a *Assistant) State() models.ConsoleState {
	snap := a.store.Snapshot()
	cameraState := a.camera.State()
	return models.ConsoleState{
		CameraState:      cameraState,
		CameraActive:     cameraState == models.CameraActive,
		DetectionMode:    a.detection.Mode(),
		Recognition:      a.recognition.Session(),
		RecognizedPlayer: snap.RecognizedPlayer,
		SelectedCardType: snap.SelectedCard,
		Language:         snap.Language,
		Review:           snap.Review,
		IncidentCount:    snap.IncidentCount,
	}
}

// Match returns a copy of the match document.
func (a *Assistant) Match() models.Match {
	return a.store.Match()
}

// Incidents returns the incident log, most recent first.
func (a *Assistant) Incidents() []models.Incident {
	return a.store.Incidents()
}

// Report returns the final match report.
func (a *Assistant) Report() models.FinalReport {
	return a.store.Report()
}

// Language returns the current message language.
func (a *Assistant) Language() models.Language {
	return a.store.Language()
}

// Close cancels every timer, releases the camera and waits for in-flight
// publishes. It is safe to call more than once.
func (a *Assistant) Close() {
	a.life.Lock()
	if a.closed {
		a.life.Unlock()
		return
	}
	a.closed = true
	a.life.Unlock()

	a.recognition.Cancel()
	a.cards.Close()
	if err := a.camera.Stop(); err != nil {
		logger.Warn.Printf("[Assistant.Close] camera stop: %v", err)
	}
	a.detection.Stop()
	a.publishing.Wait()
	logger.Info.Println("[Assistant.Close] assistant closed")
}
