package sofascore

import (
	"strings"
	"time"

	"github.com/halfstats/ingestor/internal/domain/match"
)

// StatEntry is one period-tagged block of the statistics payload,
// flattened out of the provider's nesting conventions. Items holds
// every statistic reachable from the block itself; Groups holds tagged
// subgroups for blocks whose own tag does not classify.
type StatEntry struct {
	Tag    string
	Items  []StatItem
	Groups []StatEntry
}

// StatItem is one named statistic with untyped home/away values
// (numbers or percentage-formatted text).
type StatItem struct {
	Name string
	Home any
	Away any
}

func flattenStatistics(root map[string]any) []StatEntry {
	entries := listOfMaps(root["statistics"])
	if len(entries) == 0 && len(root) > 0 {
		entries = []map[string]any{root}
	}

	out := make([]StatEntry, 0, len(entries))
	for _, entry := range entries {
		flat := StatEntry{
			Tag:   stringAny(entry, "period", "name", "groupName"),
			Items: blockItems(entry),
		}
		for _, group := range listOfMaps(entry["groups"]) {
			flat.Groups = append(flat.Groups, StatEntry{
				Tag:   stringAny(group, "groupName", "name"),
				Items: blockItems(group),
			})
		}
		if flat.Tag == "" && len(flat.Items) == 0 && len(flat.Groups) == 0 {
			continue
		}
		out = append(out, flat)
	}
	return out
}

// blockItems walks the three nesting conventions the provider uses:
// grouped items, then direct items, then an intermediate "statistics"
// wrapper. When the same label appears in more than one shape, later
// shapes win downstream, so the order is part of the contract.
func blockItems(block map[string]any) []StatItem {
	out := make([]StatItem, 0, 16)
	for _, group := range listOfMaps(block["groups"]) {
		out = appendItems(out, group["statisticsItems"])
	}
	out = appendItems(out, block["statisticsItems"])
	for _, inner := range listOfMaps(block["statistics"]) {
		out = appendItems(out, inner["statisticsItems"])
	}
	return out
}

func appendItems(dst []StatItem, raw any) []StatItem {
	for _, item := range listOfMaps(raw) {
		name := stringAny(item, "name", "title", "key")
		if name == "" {
			continue
		}
		dst = append(dst, StatItem{
			Name: name,
			Home: item["home"],
			Away: item["away"],
		})
	}
	return dst
}

func parseEvent(raw map[string]any) (match.Event, bool) {
	id, ok := int64Value(raw["id"])
	if !ok || id <= 0 {
		return match.Event{}, false
	}

	event := match.Event{
		ID:       id,
		HomeTeam: stringAny(mapValue(raw["homeTeam"]), "name"),
		AwayTeam: stringAny(mapValue(raw["awayTeam"]), "name"),
		Venue:    stringAny(mapValue(raw["venue"]), "name"),
		Status:   stringAny(mapValue(raw["status"]), "type"),
	}
	if ts, ok := int64Value(raw["startTimestamp"]); ok && ts > 0 {
		event.Kickoff = time.Unix(ts, 0).UTC()
	}
	event.HomeScore = scoreCurrent(raw["homeScore"])
	event.AwayScore = scoreCurrent(raw["awayScore"])
	return event, true
}

func scoreCurrent(raw any) *int {
	value, ok := int64Value(mapValue(raw)["current"])
	if !ok {
		return nil
	}
	out := int(value)
	return &out
}

func parseIncident(raw map[string]any) match.Incident {
	timeInfo := mapValue(raw["time"])

	minute, ok := intAny(timeInfo, "minute")
	if !ok {
		minute, _ = intAny(raw, "minute")
	}
	extra, ok := intAny(timeInfo, "addedTime", "injuryTime")
	if !ok {
		extra, _ = intAny(raw, "addedTime")
	}

	incident := match.Incident{
		Kind:        incidentKind(raw),
		IsHome:      boolValue(raw["isHome"]),
		Minute:      minute,
		ExtraMinute: extra,
		Cancelled:   boolValue(raw["cancelled"]) || boolValue(raw["isCancelled"]),
	}

	if incident.Kind == match.IncidentGoal {
		player := mapValue(raw["player"])
		scorer := mapValue(raw["scorer"])
		incident.Scorer = firstNonEmpty(
			stringAny(player, "name"),
			stringAny(player, "shortName"),
			stringAny(scorer, "name"),
			stringAny(scorer, "shortName"),
			stringAny(raw, "playerName", "scorerName"),
		)
		incident.IsPenalty = boolValue(raw["isPenalty"]) ||
			strings.EqualFold(stringAny(raw, "shotType"), "penalty")
		incident.IsOwnGoal = boolValue(raw["isOwnGoal"])
	}

	return incident
}

func incidentKind(raw map[string]any) match.IncidentKind {
	tag := strings.ToLower(stringAny(raw, "type", "incidentType"))
	switch {
	case tag == "goal":
		return match.IncidentGoal
	case strings.Contains(tag, "red"):
		return match.IncidentRedCard
	case strings.Contains(tag, "yellow"):
		return match.IncidentYellowCard
	case tag == "card":
		color := strings.ToLower(stringAny(mapValue(raw["card"]), "color"))
		if strings.Contains(color, "red") {
			return match.IncidentRedCard
		}
		if strings.Contains(color, "yellow") {
			return match.IncidentYellowCard
		}
	}
	return match.IncidentOther
}

func mapValue(raw any) map[string]any {
	value, _ := raw.(map[string]any)
	return value
}

func listOfMaps(raw any) []map[string]any {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if value, ok := item.(map[string]any); ok {
			out = append(out, value)
		}
	}
	return out
}

func firstPresent(src map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := src[key]; ok && value != nil {
			if items, isList := value.([]any); isList && len(items) == 0 {
				continue
			}
			return value
		}
	}
	return nil
}

func stringAny(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := src[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func intAny(src map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		if value, ok := int64Value(src[key]); ok {
			return int(value), true
		}
	}
	return 0, false
}

func int64Value(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case float64:
		return int64(typed), true
	case float32:
		return int64(typed), true
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	default:
		return 0, false
	}
}

func boolValue(raw any) bool {
	value, _ := raw.(bool)
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
