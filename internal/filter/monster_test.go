package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func ptr[T any](v T) *T { return &v }

func records(raw ...string) []Record {
	out := make([]Record, len(raw))
	for i, r := range raw {
		out[i] = Record(r)
	}
	return out
}

func names(t *testing.T, recs []Record) []string {
	t.Helper()
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, gjson.GetBytes(r, "name").String())
	}
	return out
}

var bestiary = records(
	`{"name":"Aboleth","type":"aberration","cr":"10","size":["L"],"alignment":["L","E"],"ac":[{"ac":17,"from":["natural armor"]}],"hp":{"average":135,"formula":"18d10 + 36"},"speed":{"walk":10,"swim":40},"environment":["underdark","underwater"]}`,
	`{"name":"Goblin","type":{"type":"humanoid","tags":["goblinoid"]},"cr":"1/4","size":["S"],"alignment":["N","E"],"ac":[15],"hp":{"average":7},"speed":{"walk":30},"environment":["forest","grassland","hill","underdark"]}`,
	`{"name":"Owlbear","type":"monstrosity","cr":3,"size":["L"],"alignment":["U"],"ac":13,"hp":59,"speed":"40 ft.","environment":"forest"}`,
	`{"name":"Shapeless"}`,
)

func TestFilterMonstersEmptyQueryReturnsEverything(t *testing.T) {
	got := FilterMonsters(bestiary, MonsterQuery{})
	assert.Equal(t, bestiary, got)

	for _, rec := range bestiary {
		assert.Equal(t, []Record{rec}, FilterMonsters([]Record{rec}, MonsterQuery{}))
	}
}

func TestFilterMonstersDoesNotMutateInput(t *testing.T) {
	in := append([]Record(nil), bestiary...)
	before := make([]string, len(in))
	for i, r := range in {
		before[i] = string(r)
	}

	_ = FilterMonsters(in, MonsterQuery{Type: ptr("humanoid")})

	require.Len(t, in, len(before))
	for i, r := range in {
		assert.Equal(t, before[i], string(r))
	}
}

func TestFilterMonstersPreservesOrderAndIsIdempotent(t *testing.T) {
	q := MonsterQuery{Environment: ptr("Underdark")}
	once := FilterMonsters(bestiary, q)
	assert.Equal(t, []string{"Aboleth", "Goblin", "Shapeless"}, names(t, once))
	assert.Equal(t, once, FilterMonsters(once, q))
}

func TestMonsterTypeShapes(t *testing.T) {
	recs := records(
		`{"name":"A","type":"Aberration"}`,
		`{"name":"B","type":{"type":"Aberration"}}`,
		`{"name":"C","type":"Beast"}`,
	)
	got := FilterMonsters(recs, MonsterQuery{Type: ptr("Aberration")})
	assert.Equal(t, []string{"A", "B"}, names(t, got))
}

func TestMonsterSize(t *testing.T) {
	recs := records(`{"name":"M","size":["M"]}`)

	assert.Len(t, FilterMonsters(recs, MonsterQuery{Size: ptr("Medium")}), 1)
	assert.Len(t, FilterMonsters(recs, MonsterQuery{Size: ptr("medium")}), 1)
	assert.Empty(t, FilterMonsters(recs, MonsterQuery{Size: ptr("Large")}))
	assert.Empty(t, FilterMonsters(recs, MonsterQuery{Size: ptr("Unknown")}))
}

func TestMonsterUnknownSizeMatchesNothingEvenWithoutData(t *testing.T) {
	got := FilterMonsters(bestiary, MonsterQuery{Size: ptr("Colossal")})
	assert.Empty(t, got)
}

func TestMonsterAlignment(t *testing.T) {
	recs := records(`{"name":"Paladin","alignment":["L","G"]}`)

	assert.Len(t, FilterMonsters(recs, MonsterQuery{Alignment: ptr("Lawful Good")}), 1)
	assert.Empty(t, FilterMonsters(recs, MonsterQuery{Alignment: ptr("Lawful Neutral")}))
	assert.Empty(t, FilterMonsters(recs, MonsterQuery{Alignment: ptr("Sideways")}))

	// An array with no letters is an empty set, not a missing field.
	tokenless := records(
		`{"name":"Blank","alignment":[]}`,
		`{"name":"Special","alignment":[{"special":"any alignment"}]}`,
		`{"name":"Missing"}`,
	)
	got := FilterMonsters(tokenless, MonsterQuery{Alignment: ptr("Lawful Good")})
	assert.Equal(t, []string{"Missing"}, names(t, got))
	assert.Equal(t, Set, MonsterAlignment(gjson.Parse(`{"alignment":[]}`)).Kind)
}

func TestMonsterAlignmentNeutralIsSubset(t *testing.T) {
	got := FilterMonsters(bestiary, MonsterQuery{Alignment: ptr("Neutral")})
	assert.Equal(t, []string{"Goblin", "Shapeless"}, names(t, got))
}

func TestMonsterNumericFields(t *testing.T) {
	tests := []struct {
		name string
		q    MonsterQuery
		want []string
	}{
		{"cr string", MonsterQuery{CR: ptr("1/4")}, []string{"Goblin", "Shapeless"}},
		{"cr number", MonsterQuery{CR: ptr("3")}, []string{"Owlbear", "Shapeless"}},
		{"ac object list", MonsterQuery{AC: ptr("17")}, []string{"Aboleth", "Shapeless"}},
		{"ac number list", MonsterQuery{AC: ptr("15")}, []string{"Goblin", "Shapeless"}},
		{"ac bare number", MonsterQuery{AC: ptr("13")}, []string{"Owlbear", "Shapeless"}},
		{"hp average", MonsterQuery{HP: ptr("135")}, []string{"Aboleth", "Shapeless"}},
		{"hp bare number", MonsterQuery{HP: ptr("59")}, []string{"Owlbear", "Shapeless"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(t, FilterMonsters(bestiary, tt.q)))
		})
	}
}

func TestMonsterSpeed(t *testing.T) {
	tests := []struct {
		name string
		q    MonsterQuery
		want []string
	}{
		{"walk by default", MonsterQuery{Speed: ptr("30")}, []string{"Goblin", "Shapeless"}},
		{"swim", MonsterQuery{Speed: ptr("40"), SpeedType: ptr("swim")}, []string{"Aboleth", "Goblin", "Shapeless"}},
		{"plain string", MonsterQuery{Speed: ptr("40 ft.")}, []string{"Owlbear", "Shapeless"}},
		{"speed type alone", MonsterQuery{SpeedType: ptr("fly")}, []string{"Aboleth", "Goblin", "Owlbear", "Shapeless"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(t, FilterMonsters(bestiary, tt.q)))
		})
	}
}

func TestMonsterSpeedConditionalObject(t *testing.T) {
	r := gjson.Parse(`{"speed":{"walk":30,"fly":{"number":60,"condition":"(hover)"}}}`)
	assert.Equal(t, StrValue("60"), MonsterSpeed(r, "fly"))
	assert.Equal(t, StrValue("30"), MonsterSpeed(r, "walk"))
	assert.True(t, MonsterSpeed(r, "burrow").IsAbsent())
}

func TestMonsterEnvironmentCaseInsensitiveSubstring(t *testing.T) {
	got := FilterMonsters(bestiary, MonsterQuery{Environment: ptr("FOR")})
	assert.Equal(t, []string{"Goblin", "Owlbear", "Shapeless"}, names(t, got))

	got = FilterMonsters(bestiary, MonsterQuery{Environment: ptr("arctic")})
	assert.Equal(t, []string{"Shapeless"}, names(t, got))
}

// Missing record data never excludes a monster; only unknown query
// vocabulary does.
func TestMonsterAbsentFieldsAreLenient(t *testing.T) {
	q := MonsterQuery{
		Type:        ptr("dragon"),
		CR:          ptr("17"),
		Size:        ptr("Huge"),
		Alignment:   ptr("Chaotic Evil"),
		AC:          ptr("19"),
		HP:          ptr("200"),
		Speed:       ptr("80"),
		Environment: ptr("mountain"),
	}
	got := FilterMonsters(bestiary, q)
	assert.Equal(t, []string{"Shapeless"}, names(t, got))

	odd := records(`{"name":"Odd","type":{"tags":["x"]},"size":[3],"ac":[{"from":["shield"]}],"hp":{"formula":"2d6"},"alignment":{"special":"any"}}`)
	assert.Len(t, FilterMonsters(odd, q), 1)
}

func TestMonsterMatcherOrder(t *testing.T) {
	q := MonsterQuery{
		Environment: ptr("x"),
		Speed:       ptr("1"),
		HP:          ptr("1"),
		AC:          ptr("1"),
		Alignment:   ptr("Neutral"),
		Size:        ptr("Tiny"),
		CR:          ptr("1"),
		Type:        ptr("x"),
	}
	assert.Equal(t,
		[]string{"type", "cr", "size", "alignment", "ac", "hp", "speed", "environment"},
		MonsterMatcher(q).Names())
	assert.Empty(t, MonsterMatcher(MonsterQuery{}).Names())
}

func TestMonsterExtractors(t *testing.T) {
	r := gjson.Parse(`{"cr":{"cr":"13","lair":"14"},"alignment":["C","G"]}`)
	assert.Equal(t, StrValue("13"), MonsterCR(r))
	assert.Equal(t, []string{"C", "G"}, MonsterAlignment(r).Members())
	assert.True(t, MonsterType(r).IsAbsent())
	assert.True(t, MonsterEnvironment(r).IsAbsent())
}
