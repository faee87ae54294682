package models

import "strings"

// Kind names a record collection. The value doubles as the wrapper key in
// data files ({"monster": [...]}).
type Kind string

const (
	KindMonster Kind = "monster"
	KindSpell   Kind = "spell"
)

var Kinds = []Kind{KindMonster, KindSpell}

// WrapperKey is the key holding the record array in a data file.
func (k Kind) WrapperKey() string { return string(k) }

// ResponseKey is the key holding the record array in API responses.
func (k Kind) ResponseKey() string { return string(k) + "s" }

// ParseKind accepts singular or plural names, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == k.ResponseKey() {
			return k, true
		}
	}
	return "", false
}

// StoredRecord is one row of the records table.
type StoredRecord struct {
	Kind     Kind   `json:"kind"`
	Source   string `json:"source"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
}
