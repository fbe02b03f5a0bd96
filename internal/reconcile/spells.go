package reconcile

import (
	"fmt"

	"leaguehelper/internal/build"
	"leaguehelper/internal/lcu"
)

// SpellFlash is Flash's summoner spell ID
const SpellFlash = 4

// FlashSlot is the slot Flash is kept in
type FlashSlot int

const (
	FlashFirst FlashSlot = iota
	FlashSecond
)

// ParseFlashSlot parses "first" or "second"
func ParseFlashSlot(s string) (FlashSlot, error) {
	switch s {
	case "", "first":
		return FlashFirst, nil
	case "second":
		return FlashSecond, nil
	}
	return FlashFirst, fmt.Errorf("unknown flash slot %q", s)
}

// ReconcileSpells computes the spells to select. Unknown rules leave the
// current spells alone. Otherwise every recommended spell the mode allows
// replaces the current spell in its slot, and Flash is moved to its slot.
// A result holding the same spell twice is rejected in favor of current.
func ReconcileSpells(current, recommended build.SummonerSpells, rules lcu.SpellRules, flash FlashSlot) build.SummonerSpells {
	if !rules.Known {
		return current
	}

	result := current
	if rules.Allows(recommended.First) {
		result.First = recommended.First
	}
	if rules.Allows(recommended.Second) {
		result.Second = recommended.Second
	}

	if result.First == result.Second {
		return current
	}
	return NormalizeFlash(result, flash)
}

// NormalizeFlash swaps the pair so Flash sits in the given slot
func NormalizeFlash(spells build.SummonerSpells, flash FlashSlot) build.SummonerSpells {
	switch {
	case flash == FlashFirst && spells.Second == SpellFlash:
		return build.SummonerSpells{First: spells.Second, Second: spells.First}
	case flash == FlashSecond && spells.First == SpellFlash:
		return build.SummonerSpells{First: spells.Second, Second: spells.First}
	}
	return spells
}
