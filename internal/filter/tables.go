package filter

import "strings"

// Casting-time categories accepted by SpellQuery.CastingTime.
const (
	CastAction          = "action"
	CastBonusAction     = "bonus action"
	CastReaction        = "reaction"
	CastOneMinute       = "1 minute"
	CastTenMinutes      = "10 minute"
	CastOneHour         = "1 hour"
	CastMoreThanOneHour = "more than one hour"
	CastOther           = "other"
)

// CastingTimeCategories lists every category in a stable order.
var CastingTimeCategories = []string{
	CastAction,
	CastBonusAction,
	CastReaction,
	CastOneMinute,
	CastTenMinutes,
	CastOneHour,
	CastMoreThanOneHour,
	CastOther,
}

type castKey struct {
	number uint64
	unit   string
}

var castingTimeCategories = map[castKey]string{
	{1, "action"}:   CastAction,
	{1, "bonus"}:    CastBonusAction,
	{1, "reaction"}: CastReaction,
	{1, "minute"}:   CastOneMinute,
	{10, "minute"}:  CastTenMinutes,
	{1, "hour"}:     CastOneHour,
}

// sizeCodes maps lowercased size names to the letters used in bestiary files.
var sizeCodes = map[string]string{
	"tiny":       "T",
	"small":      "S",
	"medium":     "M",
	"large":      "L",
	"huge":       "H",
	"gargantuan": "G",
}

// alignmentSets maps lowercased alignment names to the letters a record
// must carry.
var alignmentSets = map[string][]string{
	"lawful good":     {"L", "G"},
	"neutral good":    {"N", "G"},
	"chaotic good":    {"C", "G"},
	"lawful neutral":  {"L", "N"},
	"neutral":         {"N"},
	"true neutral":    {"N"},
	"chaotic neutral": {"C", "N"},
	"lawful evil":     {"L", "E"},
	"neutral evil":    {"N", "E"},
	"chaotic evil":    {"C", "E"},
	"unaligned":       {"U"},
	"any alignment":   {"A"},
}

// CastingTimeCategory classifies a casting time. The table is closed:
// anything it does not name is CastOther.
func CastingTimeCategory(number uint64, unit string) string {
	if c, ok := castingTimeCategories[castKey{number, unit}]; ok {
		return c
	}
	if unit == "hour" && number > 1 {
		return CastMoreThanOneHour
	}
	return CastOther
}

// SizeCode returns the size letter for a size name, or "" when unknown.
func SizeCode(name string) string {
	return sizeCodes[strings.ToLower(strings.TrimSpace(name))]
}

// AlignmentLetters returns the letters required by an alignment name, or
// nil when unknown.
func AlignmentLetters(name string) map[string]struct{} {
	letters, ok := alignmentSets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	return SetValue(letters...).Set
}
