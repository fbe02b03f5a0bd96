package ugg

import (
	"fmt"

	"leaguehelper/internal/build"
	"leaguehelper/internal/ddragon"
)

// RuneTrees resolves rune tree IDs for a patch
type RuneTrees interface {
	Tree(id int) (ddragon.RuneTree, bool)
}

// Normalize turns one role node into a validated build record. Failures are
// wrapped in a *build.RecordError naming the champion and role.
func Normalize(node RoleNode, trees RuneTrees, champion string) (build.Record, error) {
	record, err := normalize(node.Data, trees)
	if err != nil {
		return build.Record{}, &build.RecordError{Champion: champion, Role: node.Role, Err: err}
	}
	record.Role = node.Role
	return record, nil
}

func normalize(data RoleData, trees RuneTrees) (build.Record, error) {
	page, err := runePage(data, trees)
	if err != nil {
		return build.Record{}, err
	}

	starting, err := data.StartingBuild()
	if err != nil {
		return build.Record{}, err
	}
	core, err := data.CoreBuild()
	if err != nil {
		return build.Record{}, err
	}
	itemSets := append([]build.ItemSet{starting, core}, data.ItemOptions()...)

	skillOrder, err := data.SkillOrder()
	if err != nil {
		return build.Record{}, err
	}

	spells, err := data.SummonerSpells()
	if err != nil {
		return build.Record{}, err
	}

	return build.Record{
		RunePage:       page,
		ItemSets:       itemSets,
		SkillOrder:     skillOrder,
		SummonerSpells: spells,
	}, nil
}

func runePage(data RoleData, trees RuneTrees) (build.RunePage, error) {
	played, err := data.RuneGamesPlayed()
	if err != nil {
		return build.RunePage{}, err
	}
	won, err := data.RuneGamesWon()
	if err != nil {
		return build.RunePage{}, err
	}
	primaryID, err := data.PrimaryTree()
	if err != nil {
		return build.RunePage{}, err
	}
	secondaryID, err := data.SecondaryTree()
	if err != nil {
		return build.RunePage{}, err
	}
	picks, err := data.RunePicks()
	if err != nil {
		return build.RunePage{}, err
	}
	shards, err := data.StatShards()
	if err != nil {
		return build.RunePage{}, err
	}

	primary, ok := trees.Tree(primaryID)
	if !ok {
		return build.RunePage{}, fmt.Errorf("%w: unknown primary rune tree %d", build.ErrInvalidReference, primaryID)
	}
	secondary, ok := trees.Tree(secondaryID)
	if !ok {
		return build.RunePage{}, fmt.Errorf("%w: unknown secondary rune tree %d", build.ErrInvalidReference, secondaryID)
	}
	if primaryID == secondaryID {
		return build.RunePage{}, fmt.Errorf("%w: secondary rune tree %d repeats the primary", build.ErrInvalidReference, secondaryID)
	}

	runes, err := OrderRunes(picks, primary, secondary)
	if err != nil {
		return build.RunePage{}, err
	}
	runes = append(runes, shards...)

	if len(runes) != build.RunePageSize {
		return build.RunePage{}, fmt.Errorf("%w: got %d of %d runes", build.ErrIncompleteRunePage, len(runes), build.RunePageSize)
	}

	return build.RunePage{
		PrimaryTree:     primaryID,
		SecondaryTree:   secondaryID,
		Runes:           runes,
		ConfidenceScore: build.ConfidenceScore(float64(won), float64(played)),
	}, nil
}

// OrderRunes arranges vendor rune picks into slot order: one pick for every
// primary slot, then at most one pick for each secondary slot after the
// keystone row. Picks matching no remaining slot are dropped.
func OrderRunes(picks []int, primary, secondary ddragon.RuneTree) ([]int, error) {
	runes := append([]int(nil), picks...)
	placed := 0

	for slot := range primary.Slots {
		j := findInSlot(runes, placed, primary, slot)
		if j < 0 {
			return nil, fmt.Errorf("%w: no pick for %s slot %d", build.ErrIncompleteRunePage, primary.Name, slot)
		}
		runes[placed], runes[j] = runes[j], runes[placed]
		placed++
	}

	for slot := 1; slot < len(secondary.Slots); slot++ {
		j := findInSlot(runes, placed, secondary, slot)
		if j < 0 {
			continue
		}
		runes[placed], runes[j] = runes[j], runes[placed]
		placed++
	}

	return runes[:placed], nil
}

// findInSlot returns the index of the first unplaced rune in the slot, or -1
func findInSlot(runes []int, from int, tree ddragon.RuneTree, slot int) int {
	for j := from; j < len(runes); j++ {
		if tree.SlotContains(slot, runes[j]) {
			return j
		}
	}
	return -1
}
