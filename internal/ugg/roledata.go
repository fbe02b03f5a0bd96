package ugg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"leaguehelper/internal/build"

	"github.com/tidwall/gjson"
)

// Item set slots inside the stats array
const (
	startingBuildIndex = 2
	coreBuildIndex     = 3
)

// Ordinal names for the situational item option groups
var optionOrdinals = []string{"Fourth", "Fifth", "Sixth"}

// RoleData is the positional stats node U.GG returns for one champion role.
// Every accessor names the index path it reads; the first index is always
// the stats array at position 0.
type RoleData struct {
	node gjson.Result
}

// ParseRoleData wraps a raw role node
func ParseRoleData(raw []byte) RoleData {
	return RoleData{node: gjson.ParseBytes(raw)}
}

// RuneGamesPlayed reads [0][0][0]
func (d RoleData) RuneGamesPlayed() (int, error) {
	return d.intAt("0.0.0", "rune games played")
}

// RuneGamesWon reads [0][0][1]
func (d RoleData) RuneGamesWon() (int, error) {
	return d.intAt("0.0.1", "rune games won")
}

// PrimaryTree reads [0][0][2]
func (d RoleData) PrimaryTree() (int, error) {
	return d.intAt("0.0.2", "primary rune tree")
}

// SecondaryTree reads [0][0][3]
func (d RoleData) SecondaryTree() (int, error) {
	return d.intAt("0.0.3", "secondary rune tree")
}

// RunePicks reads [0][0][4], the chosen runes in vendor order
func (d RoleData) RunePicks() ([]int, error) {
	return d.intsAt("0.0.4", "rune picks")
}

// StatShards reads [0][8][2]. Shards are sent as strings.
func (d RoleData) StatShards() ([]int, error) {
	r := d.node.Get("0.8.2")
	if !r.IsArray() {
		return nil, build.Missing("stat shards")
	}

	var shards []int
	for i, v := range r.Array() {
		id, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, build.Missing("stat shard %d", i)
		}
		shards = append(shards, id)
	}
	return shards, nil
}

// SummonerSpells reads [0][1][2][0] and [0][1][2][1]
func (d RoleData) SummonerSpells() (build.SummonerSpells, error) {
	first, err := d.intAt("0.1.2.0", "first summoner spell")
	if err != nil {
		return build.SummonerSpells{}, err
	}
	second, err := d.intAt("0.1.2.1", "second summoner spell")
	if err != nil {
		return build.SummonerSpells{}, err
	}
	return build.SummonerSpells{First: first, Second: second}, nil
}

// StartingBuild reads [0][2] as [won, played, [items]]
func (d RoleData) StartingBuild() (build.ItemSet, error) {
	return d.itemSet(startingBuildIndex, "Starting Build")
}

// CoreBuild reads [0][3] as [won, played, [items]]
func (d RoleData) CoreBuild() (build.ItemSet, error) {
	return d.itemSet(coreBuildIndex, "Core Build")
}

// ItemOptions reads [0][5], a list of option groups for the fourth through
// sixth item. Each option is [item, ...]; only the item is kept. The groups
// are optional and unreadable data yields no sets.
func (d RoleData) ItemOptions() []build.ItemSet {
	r := d.node.Get("0.5")
	if !r.IsArray() {
		return nil
	}

	var sets []build.ItemSet
	for i, group := range r.Array() {
		ordinal := "Unknown"
		if i < len(optionOrdinals) {
			ordinal = optionOrdinals[i]
		}

		set := build.ItemSet{
			Label: ordinal + " Item Options (ordered by games played)",
			Items: []int{},
		}
		for _, option := range group.Array() {
			if id, ok := asInt(option.Get("0")); ok {
				set.Items = append(set.Items, id)
			}
		}
		sets = append(sets, set)
	}
	return sets
}

// SkillOrder reads [0][4][3], a string of ability letters, and joins each
// letter with ">"
func (d RoleData) SkillOrder() (string, error) {
	r := d.node.Get("0.4.3")
	if r.Type != gjson.String || r.String() == "" {
		return "", build.Missing("skill order")
	}

	var steps []string
	for _, c := range r.String() {
		steps = append(steps, string(c))
	}
	return strings.Join(steps, build.SkillSeparator), nil
}

func (d RoleData) itemSet(index int, name string) (build.ItemSet, error) {
	prefix := strconv.Itoa(index)
	won, err := d.intAt("0."+prefix+".0", name+" games won")
	if err != nil {
		return build.ItemSet{}, err
	}
	played, err := d.intAt("0."+prefix+".1", name+" games played")
	if err != nil {
		return build.ItemSet{}, err
	}
	items, err := d.intsAt("0."+prefix+".2", name+" items")
	if err != nil {
		return build.ItemSet{}, err
	}

	// The vendor ratio is played over won and is reported as-is.
	return build.ItemSet{
		Label: fmt.Sprintf("%s - %.2f%% win rate", name, float64(played)/float64(won)*100),
		Items: items,
	}, nil
}

func (d RoleData) intAt(path, field string) (int, error) {
	id, ok := asInt(d.node.Get(path))
	if !ok {
		return 0, build.Missing("%s", field)
	}
	return id, nil
}

func (d RoleData) intsAt(path, field string) ([]int, error) {
	r := d.node.Get(path)
	if !r.IsArray() {
		return nil, build.Missing("%s", field)
	}

	ids := []int{}
	for _, v := range r.Array() {
		if id, ok := asInt(v); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func asInt(r gjson.Result) (int, bool) {
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		return 0, false
	}
	return int(r.Int()), true
}
