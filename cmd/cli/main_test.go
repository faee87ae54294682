package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorehub/internal/filter"
	"lorehub/internal/reference"
	"lorehub/pkg/models"
)

type fixtureLoader map[models.Kind][]filter.Record

func (f fixtureLoader) Records(_ context.Context, kind models.Kind) []filter.Record {
	return f[kind]
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reference.NewHandler(fixtureLoader{
		models.KindMonster: {
			filter.Record(`{"name":"Goblin","source":"MM","type":{"type":"humanoid"}}`),
			filter.Record(`{"name":"Aboleth","source":"MM","type":"aberration"}`),
		},
		models.KindSpell: {
			filter.Record(`{"name":"Light","level":0}`),
			filter.Record(`{"name":"Shield","level":1}`),
		},
	}, nil, t.TempDir(), nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMonstersCommand(t *testing.T) {
	srv := newAPI(t)
	out, err := run(t, "--api", srv.URL, "monsters", "--type", "humanoid")
	require.NoError(t, err)
	assert.Equal(t, "Goblin (MM)\n", out)
}

func TestSpellsCommandJSON(t *testing.T) {
	srv := newAPI(t)
	out, err := run(t, "--api", srv.URL, "-o", "json", "spells", "--level", "0")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Light","level":0}]`, out)
}

func TestSpellsCommandReportsServerError(t *testing.T) {
	srv := newAPI(t)
	_, err := run(t, "--api", srv.URL, "spells", "--level", "12")
	assert.ErrorContains(t, err, "invalid query")
}

func TestCollectOnlyChangedFlags(t *testing.T) {
	cmd := newMonstersCmd()
	require.NoError(t, cmd.Flags().Set("speed-type", "fly"))
	require.NoError(t, cmd.Flags().Set("speed", "60"))
	assert.Equal(t, url.Values{"speed": {"60"}, "speed_type": {"fly"}}, collect(cmd, monsterFlags))
}

func TestDecodeQuery(t *testing.T) {
	var q filter.SpellQuery
	require.NoError(t, decodeQuery(url.Values{"level": {"3"}, "ritual": {"true"}}, &q))
	require.NotNil(t, q.Level)
	assert.Equal(t, 3, *q.Level)
	assert.True(t, *q.Ritual)
	assert.Nil(t, q.School)

	assert.Error(t, decodeQuery(url.Values{"level": {"12"}}, &filter.SpellQuery{}))
	assert.Error(t, decodeQuery(url.Values{"ritual": {"maybe"}}, &filter.SpellQuery{}))
}

func TestPairs(t *testing.T) {
	vals, err := pairs([]string{"name=Goblin", "source=MM"})
	require.NoError(t, err)
	assert.Equal(t, "Goblin", vals.Get("name"))

	_, err = pairs([]string{"oops"})
	assert.Error(t, err)
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://example.test:8443/api", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.test:8443/ws", u)
}

func TestCastingTimeHelpListsCategories(t *testing.T) {
	usage := newSpellsCmd().Flags().Lookup("casting-time").Usage
	for _, c := range filter.CastingTimeCategories {
		assert.Contains(t, usage, c)
	}
	assert.NotContains(t, usage, "1 action")
}
