package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/halfstats/ingestor/external/sofascore"
	"github.com/halfstats/ingestor/internal/domain/match"
	"github.com/halfstats/ingestor/internal/domain/stats"
)

// AliasTable maps each canonical statistic to the upstream label
// variants that resolve to it. Matching is case-insensitive and
// diacritic-insensitive.
type AliasTable map[stats.Key][]string

func DefaultAliasTable() AliasTable {
	return AliasTable{
		stats.KeyPossession:    {"ball possession", "possession"},
		stats.KeyShotsTotal:    {"total shots", "shots total", "shots"},
		stats.KeyShotsOnTarget: {"shots on target", "on target shots", "shots on target (inc. blocked)", "shots on target (inc blocked)"},
		stats.KeyCorners:       {"corner kicks", "corners"},
		stats.KeySaves:         {"saves", "goalkeeper saves"},
		stats.KeyBigChances:    {"big chances", "big chances created"},
		stats.KeyXG:            {"expected goals (xg)", "expected goals", "xg"},
		stats.KeyYellowCards:   {"yellow cards", "yellow card"},
		stats.KeyRedCards:      {"red cards", "red card"},
	}
}

// StatNormalizer resolves raw provider statistics into the canonical
// per-half, per-side set, deriving card counts and possession when the
// statistics blocks leave them unresolved.
type StatNormalizer struct {
	labelToKey map[string]stats.Key
}

func NewStatNormalizer(table AliasTable) *StatNormalizer {
	labels := make(map[string]stats.Key, len(table)*3)
	for key, variants := range table {
		for _, variant := range variants {
			labels[foldLabel(variant)] = key
		}
	}
	return &StatNormalizer{labelToKey: labels}
}

func (n *StatNormalizer) Normalize(entries []sofascore.StatEntry, incidents []match.Incident) stats.Normalized {
	out := stats.NewNormalized()

	for _, entry := range entries {
		if half, ok := classifyPeriod(entry.Tag); ok {
			n.feed(&out, half, entry.Items)
			continue
		}
		// Unclassified blocks get one more chance through their tagged
		// subgroups before being discarded.
		for _, group := range entry.Groups {
			if half, ok := classifyPeriod(group.Tag); ok {
				n.feed(&out, half, group.Items)
			}
		}
	}

	n.applyCardFallback(&out, incidents)
	completePossession(&out.First)
	completePossession(&out.Second)
	return out
}

func (n *StatNormalizer) feed(out *stats.Normalized, half match.Half, items []sofascore.StatItem) {
	split := &out.First
	if half == match.HalfSecond {
		split = &out.Second
	}
	for _, item := range items {
		key, ok := n.labelToKey[foldLabel(item.Name)]
		if !ok {
			continue
		}
		if v := stats.FromRaw(item.Home); v.Known() {
			split.Home[key] = v
		}
		if v := stats.FromRaw(item.Away); v.Known() {
			split.Away[key] = v
		}
	}
}

// applyCardFallback counts card incidents per half and side, and uses
// the counts only where the statistics blocks left cards unresolved.
func (n *StatNormalizer) applyCardFallback(out *stats.Normalized, incidents []match.Incident) {
	type counts struct{ yellow, red int }
	tally := map[match.Half]map[bool]*counts{
		match.HalfFirst:  {true: {}, false: {}},
		match.HalfSecond: {true: {}, false: {}},
	}
	for _, incident := range incidents {
		c := tally[match.HalfForMinute(incident.Minute)][incident.IsHome]
		switch incident.Kind {
		case match.IncidentYellowCard:
			c.yellow++
		case match.IncidentRedCard:
			c.red++
		}
	}

	apply := func(side stats.SideStats, c *counts) {
		if !side.Get(stats.KeyYellowCards).Known() {
			side[stats.KeyYellowCards] = stats.Number(float64(c.yellow))
		}
		if !side.Get(stats.KeyRedCards).Known() {
			side[stats.KeyRedCards] = stats.Number(float64(c.red))
		}
	}
	apply(out.First.Home, tally[match.HalfFirst][true])
	apply(out.First.Away, tally[match.HalfFirst][false])
	apply(out.Second.Home, tally[match.HalfSecond][true])
	apply(out.Second.Away, tally[match.HalfSecond][false])
}

// completePossession derives one side's possession as the complement of
// the other when exactly one side resolved.
func completePossession(split *stats.HalfSplit) {
	home, homeKnown := split.Home.Get(stats.KeyPossession).Float()
	away, awayKnown := split.Away.Get(stats.KeyPossession).Float()
	switch {
	case homeKnown && !awayKnown:
		split.Away[stats.KeyPossession] = stats.Number(100 - home)
	case awayKnown && !homeKnown:
		split.Home[stats.KeyPossession] = stats.Number(100 - away)
	}
}

func classifyPeriod(tag string) (match.Half, bool) {
	folded := foldLabel(tag)
	switch {
	case strings.Contains(folded, "first") || strings.Contains(folded, "1st"):
		return match.HalfFirst, true
	case strings.Contains(folded, "second") || strings.Contains(folded, "2nd"):
		return match.HalfSecond, true
	default:
		return match.HalfFirst, false
	}
}

var labelFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLabel lowercases and strips diacritics so alias comparison
// tolerates accented upstream labels.
func foldLabel(label string) string {
	folded, _, err := transform.String(labelFolder, label)
	if err != nil {
		folded = label
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
