package game

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Side is one competitor of a game.
type Side struct {
	TeamID       string
	Name         string
	DisplayName  string
	Abbreviation string
	Logo         string
	Score        int
	Winner       bool
}

// Game is one sporting event as reported by the score provider, keyed by the
// provider's event id. Snapshots are overwritten every poll cycle and never
// deleted.
type Game struct {
	EventID      string
	Name         string
	ShortName    string
	Week         int
	Season       int
	SeasonType   int
	Status       string
	StatusDetail string
	Home         Side
	Away         Side
	Kickoff      time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func (g Game) IsCompleted() bool {
	return NormalizeStatus(g.Status) == StatusCompleted
}

func (g Game) IsInProgress() bool {
	return NormalizeStatus(g.Status) == StatusInProgress
}

// HasStarted reports whether the game's kickoff has passed; picks referencing
// a started game are locked.
func (g Game) HasStarted(now time.Time) bool {
	return !g.Kickoff.IsZero() && !now.Before(g.Kickoff)
}

// ResolveWinner determines the winning team of a completed game. A winner
// exists only when the game is COMPLETED and exactly one side carries the
// provider's winner flag; a completed game with no flagged winner (a tie, or
// provider data gap) resolves to none and stays unresolved.
func ResolveWinner(g Game) (string, bool) {
	if !g.IsCompleted() {
		return "", false
	}
	if g.Home.Winner == g.Away.Winner {
		return "", false
	}
	if g.Home.Winner {
		return g.Home.TeamID, true
	}
	return g.Away.TeamID, true
}
