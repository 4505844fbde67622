// file: services/match_store_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ref-assist/models"
)

func sampleIncident(id string, card models.CardType) models.Incident {
	return models.Incident{
		ID:                 id,
		Timestamp:          testEpoch,
		Player:             *ahmed(),
		CardType:           card,
		RecommendedCard:    card,
		RuleReference:      RuleReferenceEN,
		DecisionConfidence: 0.8,
	}
}

// Test: the log and the review change together
func TestMatchStore_RecordIncidentIsAtomic(t *testing.T) {
	store := NewMatchStore(twoPlayerMatch(), models.LangEnglish)
	var consistent []bool
	store.SetChangeListener(func() {
		m := store.Match()
		if !m.VARAnalysis.IsReviewing {
			return
		}
		consistent = append(consistent, len(m.Incidents) > 0 && m.Incidents[0].ID == m.VARAnalysis.CurrentIncident.ID)
	})

	r1 := store.RecordIncident(sampleIncident("a", models.CardYellow))
	r2 := store.RecordIncident(sampleIncident("b", models.CardRed))

	assert.Equal(t, []bool{true, true}, consistent)
	assert.Equal(t, uint64(1), r1.Generation)
	assert.Equal(t, uint64(2), r2.Generation)
	assert.Equal(t, models.CardRed, r2.RecommendedDecision)
	assert.Equal(t, 0.8, r2.Confidence)
}

// Test: a guarded clear only applies to the current generation
func TestMatchStore_ClearReview(t *testing.T) {
	store := NewMatchStore(twoPlayerMatch(), models.LangEnglish)
	store.RecordIncident(sampleIncident("a", models.CardYellow))
	store.RecordIncident(sampleIncident("b", models.CardYellow))

	assert.False(t, store.ClearReview(1, true))
	assert.True(t, store.Review().IsReviewing)

	assert.True(t, store.ClearReview(2, true))
	review := store.Review()
	assert.False(t, review.IsReviewing)
	assert.Equal(t, uint64(2), review.Generation, "generation survives a clear")

	assert.True(t, store.ClearReview(1, false), "unguarded clears always apply")
}

// Test: readers get copies
func TestMatchStore_ReadsAreCopies(t *testing.T) {
	store := NewMatchStore(twoPlayerMatch(), models.LangEnglish)
	store.RecordIncident(sampleIncident("a", models.CardYellow))
	store.SetRecognizedPlayer(ahmed())

	m := store.Match()
	m.Incidents[0].Reason = "edited"
	m.HomeTeam.Players[0].Name = "edited"
	m.VARAnalysis.CurrentIncident.Reason = "edited"
	p := store.RecognizedPlayer()
	p.Name = "edited"

	fresh := store.Match()
	assert.Empty(t, fresh.Incidents[0].Reason)
	assert.Equal(t, "Ahmed", fresh.HomeTeam.Players[0].Name)
	assert.Empty(t, fresh.VARAnalysis.CurrentIncident.Reason)
	assert.Equal(t, "Ahmed", store.RecognizedPlayer().Name)
}

// Test: snapshot carries every operator slot
func TestMatchStore_Snapshot(t *testing.T) {
	store := NewMatchStore(twoPlayerMatch(), models.Language("xx"))
	assert.Equal(t, models.LangArabic, store.Language(), "unknown language falls back to Arabic")

	store.SetRecognizedPlayer(ahmed())
	require.NoError(t, store.SelectCard(models.CardRed))
	require.NoError(t, store.SetLanguage(models.LangEnglish))
	store.RecordIncident(sampleIncident("a", models.CardRed))

	snap := store.Snapshot()
	require.NotNil(t, snap.RecognizedPlayer)
	assert.Equal(t, "p-ahmed", snap.RecognizedPlayer.ID)
	assert.Equal(t, models.CardRed, snap.SelectedCard)
	assert.Equal(t, models.LangEnglish, snap.Language)
	assert.True(t, snap.Review.IsReviewing)
	assert.Equal(t, 1, snap.IncidentCount)
}

// Test: invalid slot writes are rejected without notifying
func TestMatchStore_RejectsInvalidWrites(t *testing.T) {
	store := NewMatchStore(twoPlayerMatch(), models.LangEnglish)
	calls := 0
	store.SetChangeListener(func() { calls++ })

	assert.True(t, errors.Is(store.SelectCard("green"), ErrInvalidCardType))
	assert.True(t, errors.Is(store.SetLanguage("fr"), ErrInvalidLanguage))
	assert.Equal(t, 0, calls)

	require.NoError(t, store.SelectCard(models.CardNone))
	assert.Equal(t, 1, calls)
}

// Test: the report counts cards from the log
func TestMatchStore_Report(t *testing.T) {
	store := NewMatchStore(DefaultMatch(testEpoch), models.LangEnglish)
	store.RecordIncident(sampleIncident("new", models.CardRed))

	report := store.Report()

	assert.Len(t, report.IncidentReviews, 4)
	assert.Equal(t, "new", report.IncidentReviews[0].ID)
	assert.Equal(t, 2, report.YellowCards)
	assert.Equal(t, 2, report.RedCards)
	assert.Equal(t, models.RefereePerformance{Accuracy: 92, TimeEfficiency: 88, ConsistencyScore: 90}, report.RefereePerformance)
	assert.Contains(t, report.Summary, "1 - 1")
	assert.Contains(t, report.Summary, "4 incidents, 2 yellow cards, 2 red cards")
}
