package filter

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultSpeedType is the movement mode read when a query sets Speed
// without SpeedType.
const DefaultSpeedType = "walk"

// MonsterQuery holds the optional monster filters. Nil fields do not
// constrain the result.
type MonsterQuery struct {
	Type        *string `form:"type" json:"type,omitempty"`
	CR          *string `form:"cr" json:"cr,omitempty"`
	Size        *string `form:"size" json:"size,omitempty"`
	Alignment   *string `form:"alignment" json:"alignment,omitempty"`
	AC          *string `form:"ac" json:"ac,omitempty"`
	HP          *string `form:"hp" json:"hp,omitempty"`
	Speed       *string `form:"speed" json:"speed,omitempty"`
	SpeedType   *string `form:"speed_type" json:"speed_type,omitempty"`
	Environment *string `form:"environment" json:"environment,omitempty"`
}

// FilterMonsters returns the monsters matching q, preserving order.
func FilterMonsters(records []Record, q MonsterQuery) []Record {
	return MonsterMatcher(q).Apply(records)
}

// MonsterMatcher builds the predicates for q in a fixed field order.
//
// Missing or oddly shaped record data never excludes a monster. The only
// way a present field can fail regardless of the record is an unknown size
// or alignment name in the query.
func MonsterMatcher(q MonsterQuery) Matcher {
	var m Matcher

	if q.Type != nil {
		want := *q.Type
		m = append(m, Predicate{"type", lenient(MonsterType, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.CR != nil {
		want := *q.CR
		m = append(m, Predicate{"cr", lenient(MonsterCR, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.Size != nil {
		code := SizeCode(*q.Size)
		if code == "" {
			m = append(m, Predicate{"size", never})
		} else {
			m = append(m, Predicate{"size", lenient(MonsterSize, func(v Value) bool {
				return v.Str == code
			})})
		}
	}

	if q.Alignment != nil {
		required := AlignmentLetters(*q.Alignment)
		if required == nil {
			m = append(m, Predicate{"alignment", never})
		} else {
			m = append(m, Predicate{"alignment", lenient(MonsterAlignment, func(v Value) bool {
				return v.Contains(required)
			})})
		}
	}

	if q.AC != nil {
		want := *q.AC
		m = append(m, Predicate{"ac", lenient(MonsterAC, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.HP != nil {
		want := *q.HP
		m = append(m, Predicate{"hp", lenient(MonsterHP, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.Speed != nil {
		want := *q.Speed
		mode := DefaultSpeedType
		if q.SpeedType != nil && *q.SpeedType != "" {
			mode = *q.SpeedType
		}
		extract := func(r gjson.Result) Value { return MonsterSpeed(r, mode) }
		m = append(m, Predicate{"speed", lenient(extract, func(v Value) bool {
			return v.Str == want
		})})
	}

	if q.Environment != nil {
		needle := strings.ToLower(*q.Environment)
		m = append(m, Predicate{"environment", lenient(MonsterEnvironment, func(v Value) bool {
			for env := range v.Set {
				if strings.Contains(strings.ToLower(env), needle) {
					return true
				}
			}
			return false
		})})
	}

	return m
}

// MonsterType reads "type" as a string or as {"type": "..."}.
func MonsterType(r gjson.Result) Value {
	return stringOrSubfield(r.Get("type"), "type")
}

// MonsterCR reads "cr" as a number, a string, or {"cr": ...}.
func MonsterCR(r gjson.Result) Value {
	cr := r.Get("cr")
	if cr.IsObject() {
		return scalarString(cr.Get("cr"))
	}
	return scalarString(cr)
}

// MonsterSize reads the first size letter.
func MonsterSize(r gjson.Result) Value {
	size := r.Get("size")
	if size.IsArray() {
		size = size.Get("0")
	}
	if size.Type != gjson.String {
		return AbsentValue()
	}
	return StrValue(size.Str)
}

// MonsterAlignment reads the alignment letters as a set. Any array is a
// set, possibly empty; only a missing or non-array field is Absent.
func MonsterAlignment(r gjson.Result) Value {
	al := r.Get("alignment")
	if !al.IsArray() {
		return AbsentValue()
	}
	v := SetValue()
	al.ForEach(func(_, el gjson.Result) bool {
		if el.Type == gjson.String {
			v.Set[el.Str] = struct{}{}
		}
		return true
	})
	return v
}

// MonsterAC reads "ac" as a number, or the first entry of an array that is
// a number or an object with a numeric "ac".
func MonsterAC(r gjson.Result) Value {
	ac := r.Get("ac")
	if !ac.IsArray() {
		return numberString(ac)
	}
	out := AbsentValue()
	ac.ForEach(func(_, el gjson.Result) bool {
		out = numberOrSubfield(el, "ac")
		return out.IsAbsent()
	})
	return out
}

// MonsterHP reads "hp" as a number or {"average": n}.
func MonsterHP(r gjson.Result) Value {
	return numberOrSubfield(r.Get("hp"), "average")
}

// MonsterSpeed reads the speed for one movement mode. Keyed objects may
// hold a number or {"number": n, "condition": ...}; a plain string or
// number is returned as-is whatever the mode.
func MonsterSpeed(r gjson.Result, mode string) Value {
	speed := r.Get("speed")
	switch {
	case speed.IsObject():
		v := Field(speed, mode)
		if v.Type == gjson.String {
			return StrValue(v.Str)
		}
		return numberOrSubfield(v, "number")
	default:
		return scalarString(speed)
	}
}

// MonsterEnvironment reads the environment names as a set.
func MonsterEnvironment(r gjson.Result) Value {
	return stringSet(r.Get("environment"))
}
