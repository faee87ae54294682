// Package schema derives filterable field names from JSON-schema documents.
//
// The allowlist only feeds the generic key=value matcher kept for the older
// /monsters/match endpoint; the typed filters in package filter do not use it.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"

	"lorehub/internal/filter"
)

const MonsterSchemaFile = "monsters.schema.json"

var filterableTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
}

// AllowedFields collects property names typed string, number or boolean,
// from "properties" and from "items.properties" for array schemas.
func AllowedFields(doc []byte) map[string]struct{} {
	allowed := make(map[string]struct{})
	root := gjson.ParseBytes(doc)
	for _, path := range []string{"properties", "items.properties"} {
		props := root.Get(path)
		if !props.IsObject() {
			continue
		}
		props.ForEach(func(name, prop gjson.Result) bool {
			t := prop.Get("type")
			if t.Type == gjson.String && filterableTypes[t.Str] {
				allowed[name.Str] = struct{}{}
			}
			return true
		})
	}
	return allowed
}

// Sorted returns the set's names in lexical order.
func Sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load reads a schema document from dir.
func Load(dir, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("schema %s: invalid json", name)
	}
	return b, nil
}

// MatchFields is the generic matcher: every allowlisted param must equal
// the record field, and the field must be a JSON string. Params outside the
// allowlist are ignored.
func MatchFields(rec filter.Record, params map[string]string, allowed map[string]struct{}) bool {
	r := gjson.ParseBytes(rec)
	for key, want := range params {
		if _, ok := allowed[key]; !ok {
			continue
		}
		got := filter.Field(r, key)
		if got.Type != gjson.String || got.Str != want {
			return false
		}
	}
	return true
}

// FilterFields applies MatchFields to each record, preserving order.
func FilterFields(records []filter.Record, params map[string]string, allowed map[string]struct{}) []filter.Record {
	out := make([]filter.Record, 0, len(records))
	for _, rec := range records {
		if MatchFields(rec, params, allowed) {
			out = append(out, rec)
		}
	}
	return out
}
