package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCogs struct{}

func (fakeCogs) Active() []string   { return []string{"basic", "dev"} }
func (fakeCogs) Inactive() []string { return []string{"fun"} }

func get(t *testing.T, h http.Handler, path string, v any) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if v != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
	}
	return rec
}

func TestServer(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	counts := &config.Counts{}
	counts.Set(2, 5)

	surface := command.NewSurface(true)
	noop := func(*command.SlashContext) error { return nil }
	require.NoError(t, surface.Add("basic",
		&command.Command{Name: "ping", Description: "ping", Kind: command.Slash, Slash: noop},
		&command.Command{Name: "prefix", Description: "prefix", Kind: command.Slash, Slash: noop},
	))

	s := New(Options{
		Cogs:    fakeCogs{},
		Surface: surface,
		Counts:  counts,
		Start:   start,
		Status:  func() string { return "idle" },
		Guilds:  func() int { return 3 },
	})
	s.now = func() time.Time { return start.Add(3661 * time.Second) }
	h := s.Router()

	var health healthResponse
	rec := get(t, h, "/health", &health)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Database)

	var cogs cogsResponse
	get(t, h, "/cogs", &cogs)
	assert.Equal(t, []string{"basic", "dev"}, cogs.Active)
	assert.Equal(t, []string{"fun"}, cogs.Inactive)
	assert.ElementsMatch(t, []string{"ping", "prefix"}, cogs.Commands["basic"])
	assert.Empty(t, cogs.Commands["dev"])
	assert.NotContains(t, cogs.Commands, "fun")

	var stats statsResponse
	get(t, h, "/stats", &stats)
	assert.Equal(t, "01:01:01", stats.Uptime)
	assert.Equal(t, int64(3661), stats.UptimeSeconds)
	assert.Equal(t, 2, stats.Cogs)
	assert.Equal(t, 5, stats.Commands)
	assert.Equal(t, "idle", stats.Status)
	require.NotNil(t, stats.Guilds)
	assert.Equal(t, int64(3), *stats.Guilds)

	rec = get(t, h, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerWithoutCogs(t *testing.T) {
	var cogs cogsResponse
	get(t, New(Options{}).Router(), "/cogs", &cogs)
	assert.Empty(t, cogs.Active)
	assert.NotNil(t, cogs.Active)
	assert.Nil(t, cogs.Commands)

	var stats statsResponse
	get(t, New(Options{}).Router(), "/stats", &stats)
	assert.Nil(t, stats.Guilds)
}
