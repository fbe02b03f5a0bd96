// Package reconcile keeps the client's rune page and summoner spells in line
// with the catalog build for the champion being played.
package reconcile

import (
	"context"
	"errors"
	"time"

	"leaguehelper/internal/build"
	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/lcu"
	"leaguehelper/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default poll intervals
const (
	DefaultPollInterval   = 2500 * time.Millisecond
	DefaultInGameInterval = 30 * time.Second
	DefaultPageMarker     = "LH"
)

// SessionProvider reads the live client session
type SessionProvider interface {
	GameflowPhase(ctx context.Context) (lcu.Phase, error)
	ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error)
	SpellRules(ctx context.Context) (lcu.SpellRules, error)
}

// InventoryProvider reads and mutates the rune page inventory
type InventoryProvider interface {
	PageInventory(ctx context.Context) (*lcu.PageInventory, error)
	CreatePage(ctx context.Context, page lcu.PerksPage) (*lcu.PerksPage, error)
	DeletePage(ctx context.Context, id int64) error
}

// SelectionProvider changes the local player's selection
type SelectionProvider interface {
	SetSpells(ctx context.Context, spells build.SummonerSpells) error
}

// BuildLookup finds the build for a champion and role
type BuildLookup interface {
	Lookup(championKey int, role build.Role, fallback bool) (ddragon.Champion, build.Record, error)
}

// Selection identifies what the player has locked in
type Selection struct {
	ChampionID int
	Role       build.Role
}

// State is threaded through every tick. The zero value is Idle.
type State struct {
	Tracking    bool
	LastApplied Selection
}

// Idle reports whether nothing is currently applied
func (s State) Idle() bool {
	return !s.Tracking
}

// Config wires a Reconciler
type Config struct {
	Session   SessionProvider
	Inventory InventoryProvider
	Selection SelectionProvider
	Catalog   BuildLookup

	// SummonerID identifies the local player in the champ select roster.
	// Zero falls back to the session's local cell.
	SummonerID int64

	PollInterval   time.Duration
	InGameInterval time.Duration
	RoleFallback   bool
	PageMarker     string
	FlashSlot      FlashSlot

	Logger *zap.Logger
}

// Reconciler runs the poll loop
type Reconciler struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Reconciler, filling unset intervals and marker with defaults
func New(cfg Config) *Reconciler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.InGameInterval <= 0 {
		cfg.InGameInterval = DefaultInGameInterval
	}
	if cfg.PageMarker == "" {
		cfg.PageMarker = DefaultPageMarker
	}
	return &Reconciler{
		cfg:    cfg,
		logger: logging.OrNop(cfg.Logger).Named("reconcile"),
	}
}

// Run ticks until ctx is done. A value on nudges triggers an early tick.
func (r *Reconciler) Run(ctx context.Context, nudges <-chan struct{}) error {
	var state State

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-nudges:
			timer.Stop()
		}

		var wait time.Duration
		state, wait = r.Tick(ctx, state)
		timer.Reset(wait)
	}
}

// Tick runs one reconciliation step and returns the next state and how long
// to wait before the next tick.
func (r *Reconciler) Tick(ctx context.Context, state State) (State, time.Duration) {
	phase, err := r.cfg.Session.GameflowPhase(ctx)
	if err != nil {
		// The client may have restarted; forget what was applied
		r.logger.Warn("failed to read gameflow phase", zap.String("op", "phase"), zap.Error(err))
		return State{}, r.cfg.PollInterval
	}

	switch {
	case phase == lcu.PhaseChampSelect:
		return r.champSelect(ctx, state), r.cfg.PollInterval
	case phase.InGame():
		return State{}, r.cfg.InGameInterval
	default:
		return State{}, r.cfg.PollInterval
	}
}

func (r *Reconciler) champSelect(ctx context.Context, state State) State {
	session, err := r.cfg.Session.ChampSelectSession(ctx)
	if err != nil {
		r.logger.Warn("failed to read champ select session", zap.String("op", "session"), zap.Error(err))
		return State{}
	}

	me, ok := r.localPlayer(session)
	if !ok || me.ChampionID == 0 {
		return state
	}

	sel := Selection{ChampionID: me.ChampionID, Role: me.Role()}
	if state.Tracking && state.LastApplied == sel {
		return state
	}

	if err := r.apply(ctx, sel, me.Spells()); err != nil {
		return state
	}
	return State{Tracking: true, LastApplied: sel}
}

// localPlayer finds the player by summoner ID, or by the local cell when no
// summoner ID is configured.
func (r *Reconciler) localPlayer(session *lcu.ChampSelectSession) (lcu.ChampSelectPlayer, bool) {
	if r.cfg.SummonerID == 0 {
		return session.LocalPlayer()
	}
	return session.Player(r.cfg.SummonerID)
}

// apply writes the rune page and spells for sel. The state only advances when
// every step succeeded.
func (r *Reconciler) apply(ctx context.Context, sel Selection, current build.SummonerSpells) error {
	log := r.logger.With(
		zap.String("apply_id", uuid.NewString()),
		zap.Int("champion_id", sel.ChampionID),
		zap.String("role", sel.Role.String()),
	)

	champ, record, err := r.cfg.Catalog.Lookup(sel.ChampionID, sel.Role, r.cfg.RoleFallback)
	if err != nil {
		if errors.Is(err, build.ErrNoBuildFound) {
			log.Info("no build found", zap.String("op", "lookup"), zap.Error(err))
		} else {
			log.Warn("build lookup failed", zap.String("op", "lookup"), zap.Error(err))
		}
		return err
	}
	log = log.With(zap.String("champion", champ.Name), zap.String("build_role", record.Role.String()))

	page := PageFor(r.cfg.PageMarker, champ.Name, record)
	if err := r.applyPage(ctx, log, page); err != nil {
		log.Warn("failed to apply rune page", zap.String("op", "pages"), zap.Error(err))
		return err
	}

	rules, err := r.cfg.Session.SpellRules(ctx)
	if err != nil {
		log.Warn("failed to read spell rules", zap.String("op", "spells"), zap.Error(err))
		return err
	}

	spells := ReconcileSpells(current, record.SummonerSpells, rules, r.cfg.FlashSlot)
	if spells != current {
		if err := r.cfg.Selection.SetSpells(ctx, spells); err != nil {
			log.Warn("failed to set summoner spells", zap.String("op", "spells"), zap.Error(err))
			return err
		}
	}

	log.Info("applied build",
		zap.String("page", page.Name),
		zap.Int("spell1", spells.First),
		zap.Int("spell2", spells.Second))
	return nil
}
