package filter

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// SpellQuery holds the optional spell filters. Nil fields do not constrain
// the result.
type SpellQuery struct {
	Level         *int    `form:"level" json:"level,omitempty" binding:"omitempty,min=0,max=9"`
	Ritual        *bool   `form:"ritual" json:"ritual,omitempty"`
	School        *string `form:"school" json:"school,omitempty"`
	CastingTime   *string `form:"casting_time" json:"casting_time,omitempty"`
	Range         *string `form:"range" json:"range,omitempty"`
	ComponentV    *bool   `form:"component_v" json:"component_v,omitempty"`
	ComponentS    *bool   `form:"component_s" json:"component_s,omitempty"`
	ComponentM    *bool   `form:"component_m" json:"component_m,omitempty"`
	Duration      *string `form:"duration" json:"duration,omitempty"`
	Concentration *bool   `form:"concentration" json:"concentration,omitempty"`
}

// FilterSpells returns the spells matching q, preserving order.
func FilterSpells(records []Record, q SpellQuery) []Record {
	return SpellMatcher(q).Apply(records)
}

// SpellMatcher builds the predicates for q in a fixed field order.
//
// Level, school, casting time, range and duration pass records that lack
// the field. Ritual, the three components and concentration read a missing
// flag as false, so both true and false filters exclude records.
func SpellMatcher(q SpellQuery) Matcher {
	var m Matcher

	if q.Level != nil {
		want := strconv.Itoa(*q.Level)
		m = append(m, Predicate{"level", lenient(SpellLevel, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.Ritual != nil {
		m = append(m, Predicate{"ritual", exactBool(SpellRitual, *q.Ritual)})
	}

	if q.School != nil {
		want := *q.School
		m = append(m, Predicate{"school", lenient(SpellSchool, func(v Value) bool {
			return strings.EqualFold(v.Str, want)
		})})
	}

	if q.CastingTime != nil {
		want := *q.CastingTime
		m = append(m, Predicate{"casting_time", lenient(SpellCastingTimes, func(v Value) bool {
			_, ok := v.Set[want]
			return ok
		})})
	}

	if q.Range != nil {
		want := *q.Range
		m = append(m, Predicate{"range", lenient(SpellRange, func(v Value) bool {
			return strings.EqualFold(v.Str, want)
		})})
	}

	if q.ComponentV != nil {
		m = append(m, Predicate{"component_v", exactBool(SpellVerbal, *q.ComponentV)})
	}
	if q.ComponentS != nil {
		m = append(m, Predicate{"component_s", exactBool(SpellSomatic, *q.ComponentS)})
	}
	if q.ComponentM != nil {
		m = append(m, Predicate{"component_m", exactBool(SpellMaterial, *q.ComponentM)})
	}

	if q.Duration != nil {
		want := *q.Duration
		m = append(m, Predicate{"duration", lenient(SpellDurations, func(v Value) bool {
			_, ok := v.Set[want]
			return ok
		})})
	}

	if q.Concentration != nil {
		m = append(m, Predicate{"concentration", exactBool(SpellConcentration, *q.Concentration)})
	}

	return m
}

// SpellLevel reads "level" as a non-negative integer.
func SpellLevel(r gjson.Result) Value {
	n, ok := unsigned(r.Get("level"))
	if !ok {
		return AbsentValue()
	}
	return StrValue(strconv.FormatUint(n, 10))
}

// SpellRitual reads meta.ritual, false when missing.
func SpellRitual(r gjson.Result) Value {
	return boolOrFalse(r.Get("meta.ritual"))
}

func SpellSchool(r gjson.Result) Value {
	s := r.Get("school")
	if s.Type != gjson.String {
		return AbsentValue()
	}
	return StrValue(s.Str)
}

// CastingTime is one entry of a spell's "time" list.
type CastingTime struct {
	Number    uint64
	Unit      string
	Condition string
}

// Category classifies the entry. Condition does not take part.
func (t CastingTime) Category() string {
	return CastingTimeCategory(t.Number, t.Unit)
}

// SpellTimes reads the "time" list. A missing or non-integer number
// counts as zero. ok is false when the record has no time list.
func SpellTimes(r gjson.Result) (times []CastingTime, ok bool) {
	list := r.Get("time")
	if !list.IsArray() {
		return nil, false
	}
	list.ForEach(func(_, el gjson.Result) bool {
		n, _ := unsigned(el.Get("number"))
		times = append(times, CastingTime{
			Number:    n,
			Unit:      el.Get("unit").Str,
			Condition: el.Get("condition").Str,
		})
		return true
	})
	return times, true
}

// SpellCastingTimes reads the set of casting-time categories. An empty
// time list yields an empty set, which matches no category.
func SpellCastingTimes(r gjson.Result) Value {
	times, ok := SpellTimes(r)
	if !ok {
		return AbsentValue()
	}
	v := SetValue()
	for _, t := range times {
		v.Set[t.Category()] = struct{}{}
	}
	return v
}

// SpellRange reads range.type.
func SpellRange(r gjson.Result) Value {
	t := r.Get("range.type")
	if t.Type != gjson.String {
		return AbsentValue()
	}
	return StrValue(t.Str)
}

func SpellVerbal(r gjson.Result) Value {
	return boolOrFalse(r.Get("components.v"))
}

func SpellSomatic(r gjson.Result) Value {
	return boolOrFalse(r.Get("components.s"))
}

// SpellMaterial reads components.m. Material components with a description
// are stored as an object and count as true; any other non-boolean value is
// false.
func SpellMaterial(r gjson.Result) Value {
	m := r.Get("components.m")
	if m.IsObject() {
		return BoolValue(true)
	}
	return boolOrFalse(m)
}

// SpellDurations reads the set of duration entry types. Entries without a
// type contribute "".
func SpellDurations(r gjson.Result) Value {
	list := r.Get("duration")
	if !list.IsArray() {
		return AbsentValue()
	}
	v := SetValue()
	list.ForEach(func(_, el gjson.Result) bool {
		v.Set[el.Get("type").Str] = struct{}{}
		return true
	})
	return v
}

// SpellConcentration is true when any duration entry requires
// concentration.
func SpellConcentration(r gjson.Result) Value {
	list := r.Get("duration")
	if !list.IsArray() {
		return BoolValue(false)
	}
	found := false
	list.ForEach(func(_, el gjson.Result) bool {
		found = el.Get("concentration").Type == gjson.True
		return !found
	})
	return BoolValue(found)
}
