// Package models - incident and review records.
// File: models/incident.go
package models

import "time"

// CardType is the disciplinary card category. The zero value means "no card".
type CardType string

const (
	CardNone   CardType = ""
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// Valid reports whether c is one of the issuable categories.
func (c CardType) Valid() bool {
	return c == CardYellow || c == CardRed
}

// Incident is a recorded card issuance. It is created once and never edited.
type Incident struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Player             Player    `json:"player"`
	CardType           CardType  `json:"cardType"`
	Reason             string    `json:"reason,omitempty"`
	AIAnalysis         string    `json:"aiAnalysis"`
	VideoEvidence      string    `json:"videoEvidence,omitempty"`
	RecommendedCard    CardType  `json:"recommendedCard"`
	RuleReference      string    `json:"ruleReference"`
	DecisionConfidence float64   `json:"decisionConfidence"`
}

// ReviewState is the transient "under review" projection of the latest incident.
// Generation increases on every new review so delayed clears can tell
// whether they are still current.
type ReviewState struct {
	IsReviewing         bool      `json:"isReviewing"`
	CurrentIncident     *Incident `json:"currentIncident"`
	RecommendedDecision CardType  `json:"recommendedDecision"`
	Confidence          float64   `json:"confidence"`
	RuleReference       string    `json:"ruleReference"`
	Generation          uint64    `json:"generation"`
}

// Inactive returns the empty review state, keeping the generation counter.
func (r ReviewState) Inactive() ReviewState {
	return ReviewState{Generation: r.Generation}
}

// Clone copies the review, including the incident it points at.
func (r ReviewState) Clone() ReviewState {
	out := r
	if r.CurrentIncident != nil {
		inc := *r.CurrentIncident
		out.CurrentIncident = &inc
	}
	return out
}
