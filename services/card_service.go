// Package services: services/card_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-ref-assist/config"
	"go-ref-assist/logger"
	"go-ref-assist/metrics"
	"go-ref-assist/models"
)

// CardOptions tunes the review lifecycle.
type CardOptions struct {
	// ReviewDelay is how long a review stays open after an incident.
	ReviewDelay time.Duration
	// ClearPolicy is config.ReviewClearGuarded or config.ReviewClearLegacy.
	ClearPolicy string
}

// CardService turns an operator's card decision into an incident with a
// simulated VAR analysis, then closes the review after ReviewDelay.
type CardService struct {
	store     *MatchStore
	analysis  AnalysisProvider
	scheduler Scheduler
	recorder  metrics.Recorder
	opts      CardOptions

	// OnReviewCleared, when set, runs after each delayed clear fires.
	OnReviewCleared func(gen uint64, applied bool)

	mu      sync.Mutex
	pending map[uint64]Timer
	closed  bool
}

// NewCardService wires the workflow to its store and collaborators.
func NewCardService(store *MatchStore, analysis AnalysisProvider, scheduler Scheduler,
	recorder metrics.Recorder, opts CardOptions) *CardService {
	if scheduler == nil {
		scheduler = DefaultScheduler
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if opts.ReviewDelay <= 0 {
		opts.ReviewDelay = 3000 * time.Millisecond
	}
	if opts.ClearPolicy == "" {
		opts.ClearPolicy = config.ReviewClearGuarded
	}
	return &CardService{
		store:     store,
		analysis:  analysis,
		scheduler: scheduler,
		recorder:  recorder,
		opts:      opts,
		pending:   make(map[uint64]Timer),
	}
}

// IssueCard records an incident against player and opens a review of it.
// A nil player or a missing card type changes nothing.
func (s *CardService) IssueCard(player *models.Player, card models.CardType, reason string) (*models.Incident, error) {
	if player == nil {
		logger.Warn.Println("[CardService.IssueCard] rejected: no player")
		return nil, ErrNoPlayerRecognized
	}
	if !card.Valid() {
		logger.Warn.Printf("[CardService.IssueCard] rejected: card type %q", card)
		return nil, ErrInvalidCardType
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: card service closed", ErrPreconditionNotMet)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate incident id: %w", err)
	}

	lang := s.store.Language()
	confidence := s.analysis.Confidence()
	incident := models.Incident{
		ID:                 id.String(),
		Timestamp:          s.scheduler.Now(),
		Player:             *player,
		CardType:           card,
		Reason:             reason,
		AIAnalysis:         AnalysisText(lang, card, confidence),
		VideoEvidence:      VideoEvidencePlaceholder,
		RecommendedCard:    card,
		RuleReference:      RuleReference(lang),
		DecisionConfidence: confidence,
	}

	review := s.store.RecordIncident(incident)
	s.scheduleClear(review.Generation)
	s.recorder.IncidentIssued(string(card))

	logger.Info.Printf("[CardService.IssueCard] %s card for %s (confidence %.3f, generation %d)",
		card, PlayerLabel(*player), confidence, review.Generation)
	return &incident, nil
}

func (s *CardService) scheduleClear(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending[gen] = s.scheduler.AfterFunc(s.opts.ReviewDelay, func() {
		s.clear(gen)
	})
}

func (s *CardService) clear(gen uint64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, gen)
	s.mu.Unlock()

	applied := s.store.ClearReview(gen, s.opts.ClearPolicy != config.ReviewClearLegacy)
	s.recorder.ReviewCleared(applied)
	if applied {
		logger.Debug.Printf("[CardService.clear] review generation %d cleared", gen)
	}
	if s.OnReviewCleared != nil {
		s.OnReviewCleared(gen, applied)
	}
}

// PendingClears returns how many delayed clears have not fired yet.
func (s *CardService) PendingClears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close stops every pending clear. Further IssueCard calls are rejected.
func (s *CardService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for gen, t := range s.pending {
		t.Stop()
		delete(s.pending, gen)
	}
	logger.Debug.Println("[CardService.Close] pending review clears cancelled")
}
