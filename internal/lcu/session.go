package lcu

import (
	"context"
	"net/http"

	"leaguehelper/internal/build"
)

// Phase is the gameflow phase reported by the client
type Phase string

const (
	PhaseNone         Phase = "None"
	PhaseLobby        Phase = "Lobby"
	PhaseMatchmaking  Phase = "Matchmaking"
	PhaseReadyCheck   Phase = "ReadyCheck"
	PhaseChampSelect  Phase = "ChampSelect"
	PhaseGameStart    Phase = "GameStart"
	PhaseInProgress   Phase = "InProgress"
	PhaseWaitingStats Phase = "WaitingForStats"
	PhasePreEndOfGame Phase = "PreEndOfGame"
	PhaseEndOfGame    Phase = "EndOfGame"
	PhaseReconnect    Phase = "Reconnect"
)

// InGame reports phases where a match is loading or being played
func (p Phase) InGame() bool {
	switch p {
	case PhaseGameStart, PhaseInProgress, PhaseReconnect:
		return true
	}
	return false
}

// GameflowPhase returns the current gameflow phase
func (c *Client) GameflowPhase(ctx context.Context) (Phase, error) {
	var phase string
	if err := c.do(ctx, http.MethodGet, "/lol-gameflow/v1/gameflow-phase", nil, &phase); err != nil {
		return "", err
	}
	return Phase(phase), nil
}

// ChampSelectSession represents the champion select session data
type ChampSelectSession struct {
	GameID            int64               `json:"gameId"`
	Timer             ChampSelectTimer    `json:"timer"`
	MyTeam            []ChampSelectPlayer `json:"myTeam"`
	LocalPlayerCellID int                 `json:"localPlayerCellId"`
}

type ChampSelectTimer struct {
	Phase            string `json:"phase"`
	TotalTimeInPhase int    `json:"totalTimeInPhase"`
	TimeLeftInPhase  int    `json:"timeLeftInPhase"`
}

type ChampSelectPlayer struct {
	CellID           int    `json:"cellId"`
	ChampionID       int    `json:"championId"`
	SummonerID       int64  `json:"summonerId"`
	AssignedPosition string `json:"assignedPosition"`
	Spell1ID         int    `json:"spell1Id"`
	Spell2ID         int    `json:"spell2Id"`
	Team             int    `json:"team"`
}

// Role maps the assigned position to a role. Blind pick has none.
func (p ChampSelectPlayer) Role() build.Role {
	return build.RoleFromPosition(p.AssignedPosition)
}

// Spells returns the equipped summoner spells
func (p ChampSelectPlayer) Spells() build.SummonerSpells {
	return build.SummonerSpells{First: p.Spell1ID, Second: p.Spell2ID}
}

// Player finds a summoner on the local team
func (s *ChampSelectSession) Player(summonerID int64) (ChampSelectPlayer, bool) {
	for _, p := range s.MyTeam {
		if p.SummonerID == summonerID {
			return p, true
		}
	}
	return ChampSelectPlayer{}, false
}

// LocalPlayer returns the player in the local cell
func (s *ChampSelectSession) LocalPlayer() (ChampSelectPlayer, bool) {
	for _, p := range s.MyTeam {
		if p.CellID == s.LocalPlayerCellID {
			return p, true
		}
	}
	return ChampSelectPlayer{}, false
}

// ChampSelectSession returns the current champion select session
func (c *Client) ChampSelectSession(ctx context.Context) (*ChampSelectSession, error) {
	var session ChampSelectSession
	if err := c.do(ctx, http.MethodGet, "/lol-champ-select/v1/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GameMode returns the queue's game mode (e.g. CLASSIC, ARAM)
func (c *Client) GameMode(ctx context.Context) (string, error) {
	var session struct {
		GameData struct {
			Queue struct {
				GameMode string `json:"gameMode"`
			} `json:"queue"`
		} `json:"gameData"`
	}
	if err := c.do(ctx, http.MethodGet, "/lol-gameflow/v1/session", nil, &session); err != nil {
		return "", err
	}
	return session.GameData.Queue.GameMode, nil
}

// SummonerSpell is a spell definition from the client's game data
type SummonerSpell struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	GameModes []string `json:"gameModes"`
}

// SpellRules describes which spells a game mode forbids. When Known is
// false the mode declared nothing and spells should be left alone.
type SpellRules struct {
	Known      bool
	Disallowed map[int]bool
}

// Allows reports whether a spell may be selected
func (r SpellRules) Allows(id int) bool {
	return !r.Disallowed[id]
}

// NewSpellRules derives the rules for mode from the spell list. A mode no
// spell lists is unknown; otherwise every spell not listing it is disallowed.
func NewSpellRules(mode string, spells []SummonerSpell) SpellRules {
	if mode == "" {
		return SpellRules{}
	}

	disallowed := make(map[int]bool)
	listed := false
	for _, spell := range spells {
		allowed := false
		for _, m := range spell.GameModes {
			if m == mode {
				allowed = true
				break
			}
		}
		if allowed {
			listed = true
		} else {
			disallowed[spell.ID] = true
		}
	}

	if !listed {
		return SpellRules{}
	}
	return SpellRules{Known: true, Disallowed: disallowed}
}

// SummonerSpells returns every summoner spell the client knows
func (c *Client) SummonerSpells(ctx context.Context) ([]SummonerSpell, error) {
	var spells []SummonerSpell
	if err := c.do(ctx, http.MethodGet, "/lol-game-data/assets/v1/summoner-spells.json", nil, &spells); err != nil {
		return nil, err
	}
	return spells, nil
}

// SpellRules returns the spell rules of the current game mode
func (c *Client) SpellRules(ctx context.Context) (SpellRules, error) {
	mode, err := c.GameMode(ctx)
	if err != nil {
		return SpellRules{}, err
	}
	spells, err := c.SummonerSpells(ctx)
	if err != nil {
		return SpellRules{}, err
	}
	return NewSpellRules(mode, spells), nil
}

// SetSpells updates the local player's summoner spells
func (c *Client) SetSpells(ctx context.Context, spells build.SummonerSpells) error {
	body := map[string]int{
		"spell1Id": spells.First,
		"spell2Id": spells.Second,
	}
	return c.do(ctx, http.MethodPatch, "/lol-champ-select/v1/session/my-selection", body, nil)
}
