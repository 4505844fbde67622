// Package services: services/fixtures.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go-ref-assist/logger"
	"go-ref-assist/models"
)

// ErrInvalidMatch is returned when a match fixture fails validation.
var ErrInvalidMatch = errors.New("invalid match fixture")

// DefaultMatch returns the built-in mock match: Al Hilal v Al Nassr at 1-1
// with three incidents already on record.
func DefaultMatch(now time.Time) models.Match {
	const hilal, nassr = "الهلال", "النصر"
	home := models.Team{ID: "1", Name: hilal, Players: []models.Player{
		{ID: "1", Name: "محمد العويس", JerseyNumber: 1, Team: hilal},
		{ID: "2", Name: "ياسر الشهراني", JerseyNumber: 13, Team: hilal},
		{ID: "3", Name: "علي البليهي", JerseyNumber: 4, Team: hilal},
	}}
	away := models.Team{ID: "2", Name: nassr, Players: []models.Player{
		{ID: "4", Name: "وليد عبدالله", JerseyNumber: 1, Team: nassr},
		{ID: "5", Name: "سلطان الغنام", JerseyNumber: 2, Team: nassr},
		{ID: "6", Name: "عبدالله مادو", JerseyNumber: 5, Team: nassr},
	}}

	kickoff := time.Date(2025, time.April, 25, 20, 0, 0, 0, time.UTC)
	incidents := []models.Incident{
		{
			ID:                 "3",
			Timestamp:          kickoff.Add(45 * time.Minute),
			Player:             away.Players[2],
			CardType:           models.CardRed,
			Reason:             "تدخل عنيف يعرض سلامة المنافس للخطر",
			AIAnalysis:         "تحليل متعدد الزوايا يؤكد خطورة التدخل واستحقاق البطاقة الحمراء وفقاً لقوانين اللعبة",
			VideoEvidence:      "video-url-3",
			RecommendedCard:    models.CardRed,
			RuleReference:      "المادة 12.3 - اللعب العنيف",
			DecisionConfidence: 0.96,
		},
		{
			ID:                 "2",
			Timestamp:          kickoff.Add(30 * time.Minute),
			Player:             away.Players[1],
			CardType:           models.CardYellow,
			Reason:             "اعتراض على قرار الحكم",
			AIAnalysis:         "تحليل الفيديو يظهر اعتراض واضح على قرار الحكم مما يستوجب البطاقة الصفراء",
			VideoEvidence:      "video-url-2",
			RecommendedCard:    models.CardYellow,
			RuleReference:      "المادة 12.2 - سوء السلوك",
			DecisionConfidence: 0.88,
		},
		{
			ID:                 "1",
			Timestamp:          kickoff.Add(15 * time.Minute),
			Player:             home.Players[1],
			CardType:           models.CardYellow,
			Reason:             "تدخل قوي من الخلف",
			AIAnalysis:         "تحليل الحالة يؤكد صحة قرار البطاقة الصفراء وفقاً للمادة 12.1 من قوانين اللعبة - تدخل متهور",
			VideoEvidence:      "video-url-1",
			RecommendedCard:    models.CardYellow,
			RuleReference:      "المادة 12.1 - الأخطاء وسوء السلوك",
			DecisionConfidence: 0.92,
		},
	}

	return models.Match{
		ID:          "1",
		HomeTeam:    home,
		AwayTeam:    away,
		Date:        now,
		Venue:       "ملعب الملك فهد الدولي",
		Competition: "دوري روشن السعودي",
		Score:       models.Score{HomeScore: 1, AwayScore: 1},
		Status:      models.MatchOngoing,
		Incidents:   incidents,
		FinalReport: models.FinalReport{
			RefereePerformance: models.RefereePerformance{Accuracy: 92, TimeEfficiency: 88, ConsistencyScore: 90},
		},
	}
}

// LoadMatch reads a match fixture from a JSON file.
func LoadMatch(path string) (models.Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error.Printf("[LoadMatch] failed to read %s: %v", path, err)
		return models.Match{}, fmt.Errorf("read match file: %w", err)
	}

	var m models.Match
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Error.Printf("[LoadMatch] failed to parse %s: %v", path, err)
		return models.Match{}, fmt.Errorf("%w: %v", ErrInvalidMatch, err)
	}
	if err := ValidateMatch(m); err != nil {
		return models.Match{}, err
	}
	// A fixture never starts mid-review.
	m.VARAnalysis = models.ReviewState{}
	logger.Info.Printf("[LoadMatch] loaded match %s (%s v %s, %d incidents)",
		m.ID, m.HomeTeam.Name, m.AwayTeam.Name, len(m.Incidents))
	return m, nil
}

// ValidateMatch checks the roster invariants.
func ValidateMatch(m models.Match) error {
	if m.ID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidMatch)
	}
	seen := make(map[string]bool)
	for _, p := range m.Roster() {
		if p.ID == "" {
			return fmt.Errorf("%w: player without id", ErrInvalidMatch)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidMatch, p.ID)
		}
		seen[p.ID] = true
		if p.JerseyNumber <= 0 {
			return fmt.Errorf("%w: player %q has jersey number %d", ErrInvalidMatch, p.ID, p.JerseyNumber)
		}
	}
	for _, inc := range m.Incidents {
		if !inc.CardType.Valid() {
			return fmt.Errorf("%w: incident %q has card type %q", ErrInvalidMatch, inc.ID, inc.CardType)
		}
	}
	return nil
}
