package filter

import (
	"encoding/json"
	"sort"
)

// Record is one raw monster or spell entry. It is never decoded into a
// fixed struct; fields are read on demand and the bytes are returned as-is.
type Record = json.RawMessage

// Kind tags a canonical Value.
type Kind uint8

const (
	Absent Kind = iota
	String
	Bool
	Set
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Set:
		return "set"
	default:
		return "unknown"
	}
}

// Value is the normalized projection of a record field. Only the payload
// matching Kind is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Bool bool
	Set  map[string]struct{}
}

// AbsentValue is returned when a field is missing or has an unexpected shape.
func AbsentValue() Value { return Value{} }

func StrValue(s string) Value { return Value{Kind: String, Str: s} }

func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

func SetValue(items ...string) Value {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return Value{Kind: Set, Set: set}
}

func (v Value) IsAbsent() bool { return v.Kind == Absent }

// Contains reports whether every element of want is in the set.
// A non-set value contains nothing.
func (v Value) Contains(want map[string]struct{}) bool {
	if v.Kind != Set {
		return false
	}
	for k := range want {
		if _, ok := v.Set[k]; !ok {
			return false
		}
	}
	return true
}

// Members returns the set contents sorted, mostly for logs and tests.
func (v Value) Members() []string {
	out := make([]string, 0, len(v.Set))
	for k := range v.Set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
