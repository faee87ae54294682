// Package filter decides whether raw monster and spell records satisfy a
// typed query.
//
// Each query field becomes one named Predicate. A record matches when every
// predicate built from the query holds; a query with no fields set builds no
// predicates and therefore matches everything. Field extraction tolerates the
// several JSON shapes each field takes across data sources and reports
// anything unrecognized as Absent.
package filter

import "github.com/tidwall/gjson"

// Predicate is the check for a single query field.
type Predicate struct {
	Name  string
	Match func(gjson.Result) bool
}

// Matcher is the AND of its predicates, evaluated in order.
type Matcher []Predicate

// Match reports whether rec satisfies every predicate.
func (m Matcher) Match(rec Record) bool {
	if len(m) == 0 {
		return true
	}
	return m.matchResult(gjson.ParseBytes(rec))
}

func (m Matcher) matchResult(r gjson.Result) bool {
	for _, p := range m {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

// Names lists predicate names in evaluation order.
func (m Matcher) Names() []string {
	names := make([]string, len(m))
	for i, p := range m {
		names[i] = p.Name
	}
	return names
}

// Apply returns the records that match, in input order. The input slice is
// not modified.
func (m Matcher) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if m.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func never(gjson.Result) bool { return false }

// lenient passes records whose extracted value is Absent and otherwise
// defers to ok.
func lenient(extract func(gjson.Result) Value, ok func(Value) bool) func(gjson.Result) bool {
	return func(r gjson.Result) bool {
		v := extract(r)
		if v.IsAbsent() {
			return true
		}
		return ok(v)
	}
}

// exactBool compares a boolean extraction that never yields Absent.
func exactBool(extract func(gjson.Result) Value, want bool) func(gjson.Result) bool {
	return func(r gjson.Result) bool {
		return extract(r).Bool == want
	}
}
