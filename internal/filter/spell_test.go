package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

var spellbook = records(
	`{"name":"Alarm","level":1,"school":"A","time":[{"number":1,"unit":"minute"}],"range":{"type":"point","distance":{"type":"feet","amount":30}},"components":{"v":true,"s":true,"m":"a tiny bell and a piece of fine silver wire"},"duration":[{"type":"timed","duration":{"type":"hour","amount":8}}],"meta":{"ritual":true}}`,
	`{"name":"Healing Word","level":1,"school":"V","time":[{"number":1,"unit":"bonus"}],"range":{"type":"point","distance":{"type":"feet","amount":60}},"components":{"v":true},"duration":[{"type":"instant"}]}`,
	`{"name":"Bless","level":1,"school":"E","time":[{"number":1,"unit":"action"}],"range":{"type":"point"},"components":{"v":true,"s":true,"m":{"text":"a sprinkling of holy water"}},"duration":[{"type":"timed","concentration":true}]}`,
	`{"name":"Wish","level":9,"school":"C","time":[{"number":1,"unit":"action"}],"range":{"type":"special"},"components":{"v":true},"duration":[{"type":"instant"}]}`,
	`{"name":"Blank"}`,
)

func TestFilterSpellsEmptyQueryReturnsEverything(t *testing.T) {
	assert.Equal(t, spellbook, FilterSpells(spellbook, SpellQuery{}))
}

func TestFilterSpellsIdempotent(t *testing.T) {
	q := SpellQuery{Level: ptr(1), ComponentS: ptr(true)}
	once := FilterSpells(spellbook, q)
	assert.Equal(t, []string{"Alarm", "Bless"}, names(t, once))
	assert.Equal(t, once, FilterSpells(once, q))
}

func TestSpellLevel(t *testing.T) {
	assert.Equal(t, []string{"Wish", "Blank"}, names(t, FilterSpells(spellbook, SpellQuery{Level: ptr(9)})))
	assert.Equal(t, []string{"Blank"}, names(t, FilterSpells(spellbook, SpellQuery{Level: ptr(0)})))
}

func TestSpellRitualTriState(t *testing.T) {
	ritual := records(`{"name":"R","meta":{"ritual":true}}`)
	plain := records(`{"name":"P"}`)

	assert.Len(t, FilterSpells(ritual, SpellQuery{Ritual: ptr(true)}), 1)
	assert.Empty(t, FilterSpells(ritual, SpellQuery{Ritual: ptr(false)}))
	assert.Len(t, FilterSpells(plain, SpellQuery{Ritual: ptr(false)}), 1)
	assert.Empty(t, FilterSpells(plain, SpellQuery{Ritual: ptr(true)}))
}

func TestSpellSchoolAndRangeCaseInsensitive(t *testing.T) {
	got := FilterSpells(spellbook, SpellQuery{School: ptr("e")})
	assert.Equal(t, []string{"Bless", "Blank"}, names(t, got))

	got = FilterSpells(spellbook, SpellQuery{Range: ptr("SPECIAL")})
	assert.Equal(t, []string{"Wish", "Blank"}, names(t, got))
}

func TestCastingTimeCategory(t *testing.T) {
	tests := []struct {
		number uint64
		unit   string
		want   string
	}{
		{1, "action", "action"},
		{1, "bonus", "bonus action"},
		{1, "reaction", "reaction"},
		{1, "minute", "1 minute"},
		{10, "minute", "10 minute"},
		{1, "hour", "1 hour"},
		{2, "hour", "more than one hour"},
		{24, "hour", "more than one hour"},
		{2, "action", "other"},
		{5, "minute", "other"},
		{0, "hour", "other"},
		{8, "day", "other"},
		{0, "", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CastingTimeCategory(tt.number, tt.unit), "%d %s", tt.number, tt.unit)
	}
}

func TestSpellCastingTimeFilter(t *testing.T) {
	got := FilterSpells(spellbook, SpellQuery{CastingTime: ptr("bonus action")})
	assert.Equal(t, []string{"Healing Word", "Blank"}, names(t, got))

	got = FilterSpells(spellbook, SpellQuery{CastingTime: ptr("1")})
	assert.Equal(t, []string{"Blank"}, names(t, got), "raw numbers are not categories")

	long := records(
		`{"name":"Long","time":[{"number":8,"unit":"hour"}]}`,
		`{"name":"Odd","time":[{"number":1.5,"unit":"hour"}]}`,
		`{"name":"None","time":[]}`,
	)
	assert.Equal(t, []string{"Long"}, names(t, FilterSpells(long, SpellQuery{CastingTime: ptr("more than one hour")})))
	assert.Equal(t, []string{"Odd"}, names(t, FilterSpells(long, SpellQuery{CastingTime: ptr("other")})))
}

func TestSpellTimesReadsCondition(t *testing.T) {
	times, ok := SpellTimes(gjson.Parse(`{"time":[{"number":1,"unit":"minute","condition":"ritual"}]}`))
	assert.True(t, ok)
	assert.Equal(t, []CastingTime{{Number: 1, Unit: "minute", Condition: "ritual"}}, times)
	assert.Equal(t, "1 minute", times[0].Category())

	_, ok = SpellTimes(gjson.Parse(`{}`))
	assert.False(t, ok)
}

func TestSpellMaterialComponent(t *testing.T) {
	assert.Equal(t, BoolValue(true), SpellMaterial(gjson.Parse(`{"components":{"m":{"text":"a sprig of holly"}}}`)))
	assert.Equal(t, BoolValue(false), SpellMaterial(gjson.Parse(`{"components":{"m":false}}`)))
	assert.Equal(t, BoolValue(true), SpellMaterial(gjson.Parse(`{"components":{"m":true}}`)))
	assert.Equal(t, BoolValue(false), SpellMaterial(gjson.Parse(`{"components":{"m":"a bell"}}`)))
	assert.Equal(t, BoolValue(false), SpellMaterial(gjson.Parse(`{}`)))
}

func TestSpellComponentsExactBothWays(t *testing.T) {
	assert.Equal(t, []string{"Alarm", "Healing Word", "Bless", "Wish"},
		names(t, FilterSpells(spellbook, SpellQuery{ComponentV: ptr(true)})))
	assert.Equal(t, []string{"Blank"},
		names(t, FilterSpells(spellbook, SpellQuery{ComponentV: ptr(false)})))
	assert.Equal(t, []string{"Healing Word", "Wish", "Blank"},
		names(t, FilterSpells(spellbook, SpellQuery{ComponentS: ptr(false)})))
	assert.Equal(t, []string{"Bless"},
		names(t, FilterSpells(spellbook, SpellQuery{ComponentM: ptr(true)})))
	assert.Equal(t, []string{"Alarm", "Healing Word", "Wish", "Blank"},
		names(t, FilterSpells(spellbook, SpellQuery{ComponentM: ptr(false)})))
}

func TestSpellDuration(t *testing.T) {
	got := FilterSpells(spellbook, SpellQuery{Duration: ptr("timed")})
	assert.Equal(t, []string{"Alarm", "Bless", "Blank"}, names(t, got))

	got = FilterSpells(spellbook, SpellQuery{Duration: ptr("Timed")})
	assert.Equal(t, []string{"Blank"}, names(t, got))
}

func TestSpellConcentration(t *testing.T) {
	rec := records(`{"name":"C","duration":[{"type":"timed","concentration":true}]}`)
	assert.Len(t, FilterSpells(rec, SpellQuery{Concentration: ptr(true)}), 1)
	assert.Empty(t, FilterSpells(rec, SpellQuery{Concentration: ptr(false)}))

	assert.Equal(t, []string{"Alarm", "Healing Word", "Wish", "Blank"},
		names(t, FilterSpells(spellbook, SpellQuery{Concentration: ptr(false)})))
}

// Spell flags read a missing value as false, unlike the monster fields
// and the other spell fields which let missing data through.
func TestSpellAbsenceAsymmetry(t *testing.T) {
	blank := records(`{"name":"Blank"}`)

	lenientQueries := []SpellQuery{
		{Level: ptr(3)},
		{School: ptr("N")},
		{CastingTime: ptr("reaction")},
		{Range: ptr("self")},
		{Duration: ptr("permanent")},
	}
	for _, q := range lenientQueries {
		assert.Len(t, FilterSpells(blank, q), 1, "%+v", q)
	}

	strictQueries := []SpellQuery{
		{Ritual: ptr(true)},
		{ComponentV: ptr(true)},
		{ComponentS: ptr(true)},
		{ComponentM: ptr(true)},
		{Concentration: ptr(true)},
	}
	for _, q := range strictQueries {
		assert.Empty(t, FilterSpells(blank, q), "%+v", q)
	}
}

func TestSpellMatcherOrder(t *testing.T) {
	q := SpellQuery{
		Concentration: ptr(true),
		Duration:      ptr("timed"),
		ComponentM:    ptr(true),
		ComponentS:    ptr(true),
		ComponentV:    ptr(true),
		Range:         ptr("self"),
		CastingTime:   ptr("action"),
		School:        ptr("A"),
		Ritual:        ptr(false),
		Level:         ptr(2),
	}
	assert.Equal(t, []string{
		"level", "ritual", "school", "casting_time", "range",
		"component_v", "component_s", "component_m", "duration", "concentration",
	}, SpellMatcher(q).Names())
}
