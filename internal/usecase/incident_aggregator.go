package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halfstats/ingestor/internal/domain/match"
)

// GoalHalf is one side's scoring for one half: the goal count and the
// chronological display string of its goal events.
type GoalHalf struct {
	Count  int
	Events string
}

type GoalSide struct {
	First  GoalHalf
	Second GoalHalf
}

// GoalSummary buckets a match's goals by side and half.
type GoalSummary struct {
	Home GoalSide
	Away GoalSide
}

func (s *GoalSummary) side(isHome bool) *GoalSide {
	if isHome {
		return &s.Home
	}
	return &s.Away
}

// AggregateGoals filters incidents to non-cancelled goals, buckets them
// by side and half, and renders each bucket as a chronologically sorted
// "minute[+extra]' scorer" listing.
func AggregateGoals(incidents []match.Incident) GoalSummary {
	type bucket struct {
		minute, extra int
		display       string
	}
	buckets := map[bool]map[match.Half][]bucket{
		true:  {match.HalfFirst: nil, match.HalfSecond: nil},
		false: {match.HalfFirst: nil, match.HalfSecond: nil},
	}

	for _, incident := range incidents {
		if incident.Kind != match.IncidentGoal || incident.Cancelled {
			continue
		}
		half := match.HalfForMinute(incident.Minute)
		buckets[incident.IsHome][half] = append(buckets[incident.IsHome][half], bucket{
			minute:  incident.Minute,
			extra:   incident.ExtraMinute,
			display: goalDisplay(incident),
		})
	}

	var out GoalSummary
	for _, isHome := range []bool{true, false} {
		for _, half := range []match.Half{match.HalfFirst, match.HalfSecond} {
			entries := buckets[isHome][half]
			sort.SliceStable(entries, func(i, j int) bool {
				if entries[i].minute != entries[j].minute {
					return entries[i].minute < entries[j].minute
				}
				return entries[i].extra < entries[j].extra
			})

			displays := make([]string, len(entries))
			for i, entry := range entries {
				displays[i] = entry.display
			}
			goalHalf := GoalHalf{Count: len(entries), Events: strings.Join(displays, "; ")}

			side := out.side(isHome)
			if half == match.HalfFirst {
				side.First = goalHalf
			} else {
				side.Second = goalHalf
			}
		}
	}
	return out
}

func goalDisplay(incident match.Incident) string {
	var b strings.Builder
	if incident.ExtraMinute > 0 {
		fmt.Fprintf(&b, "%d+%d'", incident.Minute, incident.ExtraMinute)
	} else {
		fmt.Fprintf(&b, "%d'", incident.Minute)
	}
	fmt.Fprintf(&b, " %s", incident.Scorer)
	if incident.IsPenalty {
		b.WriteString(" (p)")
	}
	if incident.IsOwnGoal {
		b.WriteString(" (og)")
	}
	return b.String()
}
