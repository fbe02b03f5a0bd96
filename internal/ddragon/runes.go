package ddragon

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// runeTreeData mirrors one tree of runesReforged.json
type runeTreeData struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Key  string `json:"key"`
			Name string `json:"name"`
		} `json:"runes"`
	} `json:"slots"`
}

// statShardNames covers shard IDs, which runesReforged.json does not list
var statShardNames = map[int]string{
	5008: "Adaptive Force",
	5005: "Attack Speed",
	5007: "Ability Haste",
	5002: "Armor",
	5003: "Magic Resist",
	5001: "Health Scaling",
	5010: "Move Speed",
	5011: "Health",
	5013: "Tenacity and Slow Resist",
}

// RuneTree is one rune path. Slots are in canonical order; slot 0 is the keystone row.
type RuneTree struct {
	ID    int
	Name  string
	Slots [][]int
}

// SlotContains reports whether runeID is a valid pick for the given slot
func (t RuneTree) SlotContains(slot, runeID int) bool {
	if slot < 0 || slot >= len(t.Slots) {
		return false
	}
	for _, id := range t.Slots[slot] {
		if id == runeID {
			return true
		}
	}
	return false
}

// RuneTreeIndex is the immutable rune reference for one version
type RuneTreeIndex struct {
	version string
	trees   []RuneTree
	byID    map[int]int
	names   map[int]string
}

// NewRuneTreeIndex builds an index over trees. Names are optional.
func NewRuneTreeIndex(version string, trees []RuneTree, names map[int]string) *RuneTreeIndex {
	idx := &RuneTreeIndex{
		version: version,
		trees:   trees,
		byID:    make(map[int]int, len(trees)),
		names:   make(map[int]string, len(names)+len(statShardNames)),
	}
	for i, tree := range trees {
		idx.byID[tree.ID] = i
	}
	for id, name := range statShardNames {
		idx.names[id] = name
	}
	for id, name := range names {
		idx.names[id] = name
	}
	return idx
}

// Version returns the reference data version the index was built from
func (x *RuneTreeIndex) Version() string {
	return x.version
}

// Tree looks up a tree by ID
func (x *RuneTreeIndex) Tree(id int) (RuneTree, bool) {
	i, ok := x.byID[id]
	if !ok {
		return RuneTree{}, false
	}
	return x.trees[i], true
}

// RuneName returns the rune name for a given ID
func (x *RuneTreeIndex) RuneName(id int) string {
	if name, ok := x.names[id]; ok {
		return name
	}
	return fmt.Sprintf("Rune %d", id)
}

// TreeName returns the rune tree name for a given ID
func (x *RuneTreeIndex) TreeName(id int) string {
	if tree, ok := x.Tree(id); ok && tree.Name != "" {
		return tree.Name
	}
	return fmt.Sprintf("Tree %d", id)
}

// RuneTrees fetches runesReforged.json for a version
func (c *Client) RuneTrees(ctx context.Context, version string) (*RuneTreeIndex, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/%s/runesReforged.json", c.baseURL, version, c.locale)

	var data []runeTreeData
	if err := c.getJSON(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch runes: %w", err)
	}

	trees := make([]RuneTree, 0, len(data))
	names := make(map[int]string)
	for _, t := range data {
		tree := RuneTree{ID: t.ID, Name: t.Name, Slots: make([][]int, 0, len(t.Slots))}
		names[t.ID] = t.Name
		for _, slot := range t.Slots {
			ids := make([]int, 0, len(slot.Runes))
			for _, r := range slot.Runes {
				ids = append(ids, r.ID)
				names[r.ID] = r.Name
			}
			tree.Slots = append(tree.Slots, ids)
		}
		trees = append(trees, tree)
	}

	c.logger.Info("loaded rune trees", zap.Int("trees", len(trees)), zap.String("version", version))
	return NewRuneTreeIndex(version, trees, names), nil
}
