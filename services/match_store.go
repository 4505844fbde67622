// Package services: services/match_store.go
package services

import (
	"sync"

	"go-ref-assist/logger"
	"go-ref-assist/models"
)

// StoreSnapshot is the store's part of the console state.
type StoreSnapshot struct {
	RecognizedPlayer *models.Player
	SelectedCard     models.CardType
	Language         models.Language
	Review           models.ReviewState
	IncidentCount    int
}

// MatchStore is the single owner of the match document and the operator's
// working slots. Every read returns a copy; every write notifies the change
// listener after the lock is released.
type MatchStore struct {
	mu         sync.RWMutex
	match      models.Match
	recognized *models.Player
	selected   models.CardType
	lang       models.Language
	onChange   func()
}

// NewMatchStore takes ownership of a copy of match.
func NewMatchStore(match models.Match, lang models.Language) *MatchStore {
	if !lang.Valid() {
		lang = models.LangArabic
	}
	return &MatchStore{match: match.Clone(), lang: lang}
}

// SetChangeListener registers fn to run after every mutation.
func (s *MatchStore) SetChangeListener(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *MatchStore) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Match returns a deep copy of the match document.
func (s *MatchStore) Match() models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match.Clone()
}

// MatchID returns the match identifier.
func (s *MatchStore) MatchID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match.ID
}

// Incidents returns the log, most recent first.
func (s *MatchStore) Incidents() []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Incident{}, s.match.Incidents...)
}

// Roster returns home then away players.
func (s *MatchStore) Roster() []models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match.Roster()
}

// Review returns the current review state.
func (s *MatchStore) Review() models.ReviewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match.VARAnalysis.Clone()
}

// Report derives the final report from the incident log.
func (s *MatchStore) Report() models.FinalReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := models.FinalReport{
		IncidentReviews:    append([]models.Incident{}, s.match.Incidents...),
		RefereePerformance: s.match.FinalReport.RefereePerformance,
	}
	for _, inc := range s.match.Incidents {
		switch inc.CardType {
		case models.CardYellow:
			report.YellowCards++
		case models.CardRed:
			report.RedCards++
		}
	}
	report.Summary = ReportSummary(s.lang, s.match, report.YellowCards, report.RedCards)
	return report
}

// Snapshot returns the operator slots and review in one consistent read.
func (s *MatchStore) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := StoreSnapshot{
		SelectedCard:  s.selected,
		Language:      s.lang,
		Review:        s.match.VARAnalysis.Clone(),
		IncidentCount: len(s.match.Incidents),
	}
	if s.recognized != nil {
		p := *s.recognized
		snap.RecognizedPlayer = &p
	}
	return snap
}

// Language returns the message language.
func (s *MatchStore) Language() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the message language.
func (s *MatchStore) SetLanguage(lang models.Language) error {
	if !lang.Valid() {
		return ErrInvalidLanguage
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	s.notify()
	return nil
}

// RecognizedPlayer returns the current recognition outcome, or nil.
func (s *MatchStore) RecognizedPlayer() *models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recognized == nil {
		return nil
	}
	p := *s.recognized
	return &p
}

// SetRecognizedPlayer writes the recognition slot; nil clears it.
func (s *MatchStore) SetRecognizedPlayer(p *models.Player) {
	s.mu.Lock()
	if p == nil {
		s.recognized = nil
	} else {
		cp := *p
		s.recognized = &cp
	}
	s.mu.Unlock()
	s.notify()
}

// SetRecognizedPlayerIf writes p only if still reports true. still runs
// under the store lock, so no writer can interleave between the check and
// the write. It must not call back into the store.
func (s *MatchStore) SetRecognizedPlayerIf(p models.Player, still func() bool) bool {
	s.mu.Lock()
	if !still() {
		s.mu.Unlock()
		return false
	}
	cp := p
	s.recognized = &cp
	s.mu.Unlock()
	s.notify()
	return true
}

// SelectedCard returns the pending card selection.
func (s *MatchStore) SelectedCard() models.CardType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectCard records the pending card selection. CardNone clears it.
func (s *MatchStore) SelectCard(card models.CardType) error {
	if card != models.CardNone && !card.Valid() {
		return ErrInvalidCardType
	}
	s.mu.Lock()
	s.selected = card
	s.mu.Unlock()
	s.notify()
	return nil
}

// RecordIncident prepends inc to the log and opens a review of it in the
// same critical section. It returns the new review state.
func (s *MatchStore) RecordIncident(inc models.Incident) models.ReviewState {
	s.mu.Lock()
	s.match.Incidents = append([]models.Incident{inc}, s.match.Incidents...)
	current := inc
	s.match.VARAnalysis = models.ReviewState{
		IsReviewing:         true,
		CurrentIncident:     &current,
		RecommendedDecision: inc.RecommendedCard,
		Confidence:          inc.DecisionConfidence,
		RuleReference:       inc.RuleReference,
		Generation:          s.match.VARAnalysis.Generation + 1,
	}
	review := s.match.VARAnalysis.Clone()
	s.mu.Unlock()

	logger.Debug.Printf("[MatchStore.RecordIncident] incident %s recorded, review generation %d", inc.ID, review.Generation)
	s.notify()
	return review
}

// ClearReview ends the review opened at generation gen and clears the
// recognized player and pending card. When guarded is set, a clear for a
// superseded generation is a no-op. It reports whether the clear applied.
func (s *MatchStore) ClearReview(gen uint64, guarded bool) bool {
	s.mu.Lock()
	current := s.match.VARAnalysis.Generation
	if guarded && gen != current {
		s.mu.Unlock()
		logger.Debug.Printf("[MatchStore.ClearReview] skipping stale clear: generation %d, current %d", gen, current)
		return false
	}
	s.match.VARAnalysis = s.match.VARAnalysis.Inactive()
	s.recognized = nil
	s.selected = models.CardNone
	s.mu.Unlock()

	s.notify()
	return true
}
