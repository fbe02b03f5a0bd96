package reconcile

import (
	"context"
	"errors"
	"sync"

	"leaguehelper/internal/build"
	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/lcu"
)

const localSummoner = 22

// fakeClient is an in-memory live client
type fakeClient struct {
	mu sync.Mutex

	phase      lcu.Phase
	phaseErr   error
	session    *lcu.ChampSelectSession
	sessionErr error
	rules      lcu.SpellRules

	pages     []lcu.PerksPage
	maxPages  int
	nextID    int64
	createErr error

	created  []lcu.PerksPage
	deleted  []int64
	setCalls []build.SummonerSpells
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		phase:    lcu.PhaseChampSelect,
		session:  championSelect(103, "middle", 4, 14),
		rules:    lcu.SpellRules{Known: true, Disallowed: map[int]bool{}},
		pages:    []lcu.PerksPage{{ID: 1, Name: "Default", IsDeletable: false}},
		maxPages: 3,
		nextID:   100,
	}
}

func championSelect(championID int, position string, spell1, spell2 int) *lcu.ChampSelectSession {
	return &lcu.ChampSelectSession{
		LocalPlayerCellID: 1,
		MyTeam: []lcu.ChampSelectPlayer{
			{CellID: 0, SummonerID: 11, ChampionID: 86, AssignedPosition: "top"},
			{CellID: 1, SummonerID: localSummoner, ChampionID: championID, AssignedPosition: position, Spell1ID: spell1, Spell2ID: spell2},
		},
	}
}

func (f *fakeClient) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.deleted) + len(f.setCalls)
}

func (f *fakeClient) owned() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.pages {
		if p.IsDeletable {
			n++
		}
	}
	return n
}

func (f *fakeClient) GameflowPhase(ctx context.Context) (lcu.Phase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase, f.phaseErr
}

func (f *fakeClient) ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeClient) SpellRules(ctx context.Context) (lcu.SpellRules, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules, nil
}

func (f *fakeClient) PageInventory(ctx context.Context) (*lcu.PageInventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := &lcu.PageInventory{Pages: append([]lcu.PerksPage(nil), f.pages...), Max: f.maxPages}
	for _, p := range f.pages {
		if p.IsDeletable {
			inv.Owned++
		}
	}
	return inv, nil
}

func (f *fakeClient) CreatePage(ctx context.Context, page lcu.PerksPage) (*lcu.PerksPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	owned := 0
	for _, p := range f.pages {
		if p.IsDeletable {
			owned++
		}
	}
	if owned >= f.maxPages {
		return nil, errors.New("max pages reached")
	}
	f.nextID++
	page.ID = f.nextID
	page.IsDeletable = true
	f.pages = append(f.pages, page)
	f.created = append(f.created, page)
	return &page, nil
}

func (f *fakeClient) DeletePage(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pages {
		if p.ID == id {
			f.pages = append(f.pages[:i], f.pages[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("no such page")
}

func (f *fakeClient) SetSpells(ctx context.Context, spells build.SummonerSpells) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, spells)
	return nil
}

func record(role build.Role, confidence float64, spells build.SummonerSpells) build.Record {
	return build.Record{
		Role: role,
		RunePage: build.RunePage{
			PrimaryTree:     8100,
			SecondaryTree:   8300,
			Runes:           []int{8112, 8143, 8136, 8135, 8306, 8345, 5008, 5008, 5002},
			ConfidenceScore: confidence,
		},
		SkillOrder:     "Q>W>E",
		SummonerSpells: spells,
	}
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		PatchVersion: "14.23.1",
		VendorPatch:  "14_23",
		Entries: []catalog.Entry{
			{Champion: ddragon.Champion{Key: 62, ID: "MonkeyKing", Name: "Wukong"}, Records: []build.Record{}},
			{Champion: ddragon.Champion{Key: 103, ID: "Ahri", Name: "Ahri"}, Records: []build.Record{
				record(build.RoleMid, 0.5, build.SummonerSpells{First: 4, Second: 14}),
				record(build.RoleSupport, 0.3, build.SummonerSpells{First: 4, Second: 3}),
			}},
		},
	}
}

func newTestReconciler(client *fakeClient, fallback bool) *Reconciler {
	return New(Config{
		Session:      client,
		Inventory:    client,
		Selection:    client,
		Catalog:      testCatalog(),
		SummonerID:   localSummoner,
		RoleFallback: fallback,
	})
}
