package lcu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"leaguehelper/internal/build"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const champSelectFixture = `{
	"gameId": 1,
	"localPlayerCellId": 2,
	"myTeam": [
		{"cellId": 1, "championId": 0, "summonerId": 11, "assignedPosition": "top", "spell1Id": 4, "spell2Id": 12},
		{"cellId": 2, "championId": 103, "summonerId": 22, "assignedPosition": "middle", "spell1Id": 4, "spell2Id": 14}
	]
}`

const spellsFixture = `[
	{"id": 4, "name": "Flash", "gameModes": ["CLASSIC", "ARAM"]},
	{"id": 11, "name": "Smite", "gameModes": ["CLASSIC"]},
	{"id": 32, "name": "Mark", "gameModes": ["ARAM"]}
]`

type recorded struct {
	method string
	path   string
	body   map[string]any
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newTestClient(t *testing.T) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}

	mux := http.NewServeMux()
	record := func(r *http.Request) {
		call := recorded{method: r.Method, path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &call.body)
		}
		rec.mu.Lock()
		rec.calls = append(rec.calls, call)
		rec.mu.Unlock()
	}

	mux.HandleFunc("/lol-gameflow/v1/gameflow-phase", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"ChampSelect"`))
	})
	mux.HandleFunc("/lol-champ-select/v1/session", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(champSelectFixture))
	})
	mux.HandleFunc("/lol-gameflow/v1/session", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gameData": {"queue": {"gameMode": "ARAM"}}}`))
	})
	mux.HandleFunc("/lol-game-data/assets/v1/summoner-spells.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(spellsFixture))
	})
	mux.HandleFunc("/lol-perks/v1/pages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			record(r)
			w.Write([]byte(`{"id": 99, "name": "[LH] Ahri Mid", "current": true}`))
			return
		}
		w.Write([]byte(`[
			{"id": 1, "name": "Default", "isDeletable": false},
			{"id": 2, "name": "Mine", "isDeletable": true},
			{"id": 3, "name": "[LH] Annie Mid", "isDeletable": true}
		]`))
	})
	mux.HandleFunc("/lol-perks/v1/pages/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/lol-perks/v1/inventory", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ownedPageCount": 2}`))
	})
	mux.HandleFunc("/lol-champ-select/v1/session/my-selection", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/lol-summoner/v1/current-summoner", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summonerId": 22, "puuid": "abc", "gameName": "Faker"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL)), rec
}

func TestGameflowPhase(t *testing.T) {
	client, _ := newTestClient(t)

	phase, err := client.GameflowPhase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseChampSelect, phase)

	assert.True(t, PhaseGameStart.InGame())
	assert.False(t, PhaseChampSelect.InGame())
}

func TestChampSelectSession(t *testing.T) {
	client, _ := newTestClient(t)

	session, err := client.ChampSelectSession(context.Background())
	require.NoError(t, err)

	me, ok := session.Player(22)
	require.True(t, ok)
	assert.Equal(t, 103, me.ChampionID)
	assert.Equal(t, build.RoleMid, me.Role())
	assert.Equal(t, build.SummonerSpells{First: 4, Second: 14}, me.Spells())

	local, ok := session.LocalPlayer()
	require.True(t, ok)
	assert.Equal(t, me, local)

	_, ok = session.Player(33)
	assert.False(t, ok)
}

func TestSpellRules(t *testing.T) {
	client, _ := newTestClient(t)

	rules, err := client.SpellRules(context.Background())
	require.NoError(t, err)
	assert.True(t, rules.Known)
	assert.True(t, rules.Allows(4))
	assert.True(t, rules.Allows(32))
	assert.False(t, rules.Allows(11))
}

func TestNewSpellRules(t *testing.T) {
	var spells []SummonerSpell
	require.NoError(t, json.Unmarshal([]byte(spellsFixture), &spells))

	assert.False(t, NewSpellRules("", spells).Known)
	assert.False(t, NewSpellRules("ARENA", spells).Known, "a mode no spell lists is unknown")

	classic := NewSpellRules("CLASSIC", spells)
	assert.True(t, classic.Known)
	assert.Equal(t, map[int]bool{32: true}, classic.Disallowed)
}

func TestPageInventory(t *testing.T) {
	client, _ := newTestClient(t)

	inv, err := client.PageInventory(context.Background())
	require.NoError(t, err)
	assert.Len(t, inv.Pages, 3)
	assert.Equal(t, 2, inv.Owned)
	assert.Equal(t, 2, inv.Max)
	assert.True(t, inv.Full())
}

func TestPageMutations(t *testing.T) {
	client, rec := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreatePage(ctx, PerksPage{
		ID:              5,
		Name:            "[LH] Ahri Mid",
		PrimaryStyleID:  8100,
		SubStyleID:      8300,
		SelectedPerkIDs: []int{8112, 8143, 8136, 8135, 8306, 8345, 5008, 5008, 5002},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)

	require.NoError(t, client.DeletePage(ctx, 3))
	require.NoError(t, client.SetSpells(ctx, build.SummonerSpells{First: 4, Second: 7}))

	calls := rec.all()
	require.Len(t, calls, 3)

	post := calls[0]
	assert.Equal(t, http.MethodPost, post.method)
	assert.Equal(t, "[LH] Ahri Mid", post.body["name"])
	assert.Equal(t, true, post.body["current"])
	assert.NotContains(t, post.body, "id")

	del := calls[1]
	assert.Equal(t, http.MethodDelete, del.method)
	assert.Equal(t, "/lol-perks/v1/pages/3", del.path)

	patch := calls[2]
	assert.Equal(t, http.MethodPatch, patch.method)
	assert.Equal(t, map[string]any{"spell1Id": float64(4), "spell2Id": float64(7)}, patch.body)
}

func TestNotConnected(t *testing.T) {
	client := NewClient()

	_, err := client.GameflowPhase(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, build.ErrTransport))
	assert.True(t, errors.Is(err, ErrLeagueNotRunning))
	assert.False(t, client.IsConnected(context.Background()))
}

func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"No active delegate"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.ChampSelectSession(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, build.ErrTransport))
	assert.Contains(t, err.Error(), "status 404")
}

func TestConnect(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "riot" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"summonerId": 22}`))
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	client := NewClient()
	require.NoError(t, client.Connect(context.Background(), &Credentials{Port: u.Port(), Password: "secret"}))
	assert.True(t, client.IsConnected(context.Background()))
	assert.Equal(t, u.Port(), client.Credentials().Port)

	err = client.Connect(context.Background(), &Credentials{Port: u.Port(), Password: "wrong"})
	assert.Error(t, err)
	assert.Nil(t, client.Credentials())
}
