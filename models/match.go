// Package models defines data structures used across the application.
// File: models/match.go
package models

import "time"

// ----------------------- roster model -----------------------

// Player is a member of a team roster. Players are never mutated once created.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber int    `json:"jerseyNumber"`
	Team         string `json:"team"` // display name of the player's team
}

// Team is one side of a match.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// ------------------------ match model -----------------------

// MatchStatus describes where a match is in its lifecycle.
type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchOngoing   MatchStatus = "ongoing"
	MatchCompleted MatchStatus = "completed"
)

// Score is the home/away goal pair.
type Score struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// RefereePerformance holds the aggregate metrics shown in the final report.
type RefereePerformance struct {
	Accuracy         int `json:"accuracy"`
	TimeEfficiency   int `json:"timeEfficiency"`
	ConsistencyScore int `json:"consistencyScore"`
}

// FinalReport is the end-of-match summary.
type FinalReport struct {
	Summary            string             `json:"summary"`
	IncidentReviews    []Incident         `json:"incidentReviews"`
	YellowCards        int                `json:"yellowCards"`
	RedCards           int                `json:"redCards"`
	RefereePerformance RefereePerformance `json:"refereePerformance"`
}

// Match is the serialization unit for everything the service knows about a game.
type Match struct {
	ID          string      `json:"id"`
	HomeTeam    Team        `json:"homeTeam"`
	AwayTeam    Team        `json:"awayTeam"`
	Date        time.Time   `json:"date"`
	Venue       string      `json:"venue"`
	Competition string      `json:"competition"`
	Score       Score       `json:"score"`
	Status      MatchStatus `json:"status"`
	Incidents   []Incident  `json:"incidents"` // most recent first
	VARAnalysis ReviewState `json:"varAnalysis"`
	FinalReport FinalReport `json:"finalReport"`
}

// Roster returns the home players followed by the away players.
func (m *Match) Roster() []Player {
	roster := make([]Player, 0, len(m.HomeTeam.Players)+len(m.AwayTeam.Players))
	roster = append(roster, m.HomeTeam.Players...)
	roster = append(roster, m.AwayTeam.Players...)
	return roster
}

// FindPlayer looks a player up by ID across both rosters.
func (m *Match) FindPlayer(id string) (Player, bool) {
	for _, p := range m.Roster() {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Clone returns a deep copy so callers can't reach back into shared slices.
func (m Match) Clone() Match {
	out := m
	out.HomeTeam = m.HomeTeam.clone()
	out.AwayTeam = m.AwayTeam.clone()
	out.Incidents = cloneIncidents(m.Incidents)
	out.VARAnalysis = m.VARAnalysis.Clone()
	out.FinalReport.IncidentReviews = cloneIncidents(m.FinalReport.IncidentReviews)
	return out
}

func (t Team) clone() Team {
	out := t
	out.Players = append([]Player(nil), t.Players...)
	return out
}

func cloneIncidents(in []Incident) []Incident {
	if in == nil {
		return nil
	}
	return append([]Incident(nil), in...)
}
