package domain

import (
	"time"
)

// LegendLeagueID is the league identifier of the single highest competitive
// bracket. Only players currently in it produce trophy events.
const LegendLeagueID = 29000022

// PlayerSnapshot is the last known state of a tracked player, the baseline
// for delta detection. At most one row exists per PlayerTag.
type PlayerSnapshot struct {
	PlayerTag      string
	PlayerName     string
	LastTrophies   int
	LastAttackWins int
	UpdatedAt      time.Time
}

type EventType string

const (
	EventAttack  EventType = "ATTACK"
	EventDefense EventType = "DEFENSE"
)

// TrophyEvent is one immutable trophy-count change. ID is assigned by the
// event store on append.
type TrophyEvent struct {
	ID             int64
	PlayerTag      string
	PlayerName     string
	ClanTag        string // empty when the player is clanless
	Type           EventType
	Diff           int
	TrophiesResult int
	Timestamp      time.Time
}

// Classify maps a trophy diff to an event type. A zero diff produces no
// event and returns ok=false.
func Classify(diff int) (EventType, bool) {
	switch {
	case diff > 0:
		return EventAttack, true
	case diff < 0:
		return EventDefense, true
	default:
		return "", false
	}
}
