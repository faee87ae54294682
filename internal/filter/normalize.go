package filter

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Shared extraction helpers. Each returns AbsentValue for any shape it does
// not recognize; none of them fail.

// Field looks a key up without interpreting it as a gjson path, so
// caller-supplied keys containing dots or wildcards stay literal.
func Field(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	var found gjson.Result
	r.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
			return false
		}
		return true
	})
	return found
}

// stringOrSubfield accepts a bare string or an object carrying the string
// under key.
func stringOrSubfield(r gjson.Result, key string) Value {
	switch {
	case r.Type == gjson.String:
		return StrValue(r.Str)
	case r.IsObject():
		if sub := r.Get(key); sub.Type == gjson.String {
			return StrValue(sub.Str)
		}
	}
	return AbsentValue()
}

// numberString stringifies a JSON number using its source text.
func numberString(r gjson.Result) Value {
	if r.Type != gjson.Number {
		return AbsentValue()
	}
	return StrValue(r.String())
}

// scalarString accepts a number or a string.
func scalarString(r gjson.Result) Value {
	if r.Type == gjson.String {
		return StrValue(r.Str)
	}
	return numberString(r)
}

// numberOrSubfield accepts a bare number or an object carrying a number
// under key.
func numberOrSubfield(r gjson.Result, key string) Value {
	if r.Type == gjson.Number {
		return numberString(r)
	}
	if r.IsObject() {
		return numberString(r.Get(key))
	}
	return AbsentValue()
}

// unsigned reads a non-negative integer. Fractions, exponents and other
// types are rejected.
func unsigned(r gjson.Result) (uint64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.ParseUint(r.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// boolOrFalse reads a JSON boolean, treating everything else as false.
func boolOrFalse(r gjson.Result) Value {
	return BoolValue(r.Type == gjson.True)
}

// stringSet collects the string elements of an array, or a single string.
// Non-string elements are skipped. No strings at all is Absent.
func stringSet(r gjson.Result) Value {
	var items []string
	switch {
	case r.Type == gjson.String:
		items = append(items, r.Str)
	case r.IsArray():
		r.ForEach(func(_, el gjson.Result) bool {
			if el.Type == gjson.String {
				items = append(items, el.Str)
			}
			return true
		})
	}
	if len(items) == 0 {
		return AbsentValue()
	}
	return SetValue(items...)
}
