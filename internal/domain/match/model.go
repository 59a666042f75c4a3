package match

import (
	"strings"
	"time"
)

// Event is one upstream match in a round.
type Event struct {
	ID        int64
	HomeTeam  string
	AwayTeam  string
	Kickoff   time.Time
	Venue     string
	Status    string
	HomeScore *int
	AwayScore *int
}

// finishedStatuses is the completion set; normal time, extra time and
// penalty-shootout finishes are treated identically.
var finishedStatuses = map[string]struct{}{
	"finished":        {},
	"ft":              {},
	"after overtime":  {},
	"after penalties": {},
}

func IsFinishedStatus(status string) bool {
	_, ok := finishedStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// IncidentKind classifies the incidents the engine consumes.
type IncidentKind string

const (
	IncidentGoal       IncidentKind = "goal"
	IncidentYellowCard IncidentKind = "yellow"
	IncidentRedCard    IncidentKind = "red"
	IncidentOther      IncidentKind = "other"
)

// Incident is one discrete in-match event (goal or card).
type Incident struct {
	Kind        IncidentKind
	IsHome      bool
	Minute      int
	ExtraMinute int
	Scorer      string
	IsPenalty   bool
	IsOwnGoal   bool
	Cancelled   bool
}

// Half buckets a minute: minute 45 (plus any stoppage) still belongs to
// the first half, minute 46 onwards to the second.
type Half string

const (
	HalfFirst  Half = "first"
	HalfSecond Half = "second"
)

func HalfForMinute(minute int) Half {
	if minute <= 45 {
		return HalfFirst
	}
	return HalfSecond
}
