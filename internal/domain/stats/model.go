package stats

import (
	"strconv"
	"strings"
)

// Key identifies one canonical statistic tracked per half and side.
type Key string

const (
	KeyPossession    Key = "possession"
	KeyShotsTotal    Key = "shotsTotal"
	KeyShotsOnTarget Key = "shotsOnTarget"
	KeyCorners       Key = "corners"
	KeySaves         Key = "saves"
	KeyBigChances    Key = "bigChances"
	KeyXG            Key = "xG"
	KeyYellowCards   Key = "yellowCards"
	KeyRedCards      Key = "redCards"
)

// Keys lists every canonical statistic in a stable order.
func Keys() []Key {
	return []Key{
		KeyPossession, KeyShotsTotal, KeyShotsOnTarget, KeyCorners,
		KeySaves, KeyBigChances, KeyXG, KeyYellowCards, KeyRedCards,
	}
}

// Value is a statistic that is either resolved to a number or
// explicitly unknown. Unknown is distinct from zero and passes through
// formatting as a sentinel.
type Value struct {
	known  bool
	number float64
}

func Unknown() Value {
	return Value{}
}

func Number(n float64) Value {
	return Value{known: true, number: n}
}

// FromRaw resolves an untyped upstream value. Numbers are taken as is,
// percentage-formatted text drops its "%" suffix, anything unparseable
// stays unknown.
func FromRaw(raw any) Value {
	switch typed := raw.(type) {
	case float64:
		return Number(typed)
	case float32:
		return Number(float64(typed))
	case int:
		return Number(float64(typed))
	case int64:
		return Number(float64(typed))
	case string:
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(typed), "%"))
		if text == "" {
			return Unknown()
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Unknown()
		}
		return Number(n)
	default:
		return Unknown()
	}
}

func (v Value) Known() bool {
	return v.known
}

func (v Value) Float() (float64, bool) {
	return v.number, v.known
}

// SideStats holds one side's resolved statistics for a single half.
// Missing keys read as unknown.
type SideStats map[Key]Value

func (s SideStats) Get(k Key) Value {
	if v, ok := s[k]; ok {
		return v
	}
	return Unknown()
}

// HalfSplit pairs both sides' statistics within one half.
type HalfSplit struct {
	Home SideStats
	Away SideStats
}

// Normalized is the full per-half, per-side statistic set for a match.
type Normalized struct {
	First  HalfSplit
	Second HalfSplit
}

func NewNormalized() Normalized {
	return Normalized{
		First:  HalfSplit{Home: SideStats{}, Away: SideStats{}},
		Second: HalfSplit{Home: SideStats{}, Away: SideStats{}},
	}
}
