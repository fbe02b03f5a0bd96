// Package itemset exports catalog builds as League item-set files under the
// game install's Config/Champions directory.
package itemset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"leaguehelper/internal/build"
	"leaguehelper/internal/ddragon"
)

const (
	defaultType     = "custom"
	defaultScope    = "any"
	defaultSortRank = 9999999999
)

// Document is one exported item set
type Document struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Map         string  `json:"map"`
	Mode        string  `json:"mode"`
	Priority    bool    `json:"priority"`
	SortRank    int64   `json:"sortrank"`
	Blocks      []Block `json:"blocks"`
	ChampionKey string  `json:"championKey"`
}

// Block is a labeled group of items
type Block struct {
	RecMath             bool   `json:"recMath"`
	MinSummonerLevel    int    `json:"minSummonerLevel"`
	MaxSummonerLevel    int    `json:"maxSummonerLevel"`
	ShowIfSummonerSpell string `json:"showIfSummonerSpell"`
	HideIfSummonerSpell string `json:"hideIfSummonerSpell"`
	Type                string `json:"type"`
	Items               []Item `json:"items"`
}

// Item is a single item entry. IDs are strings in the game's format.
type Item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Title is the document title for a champion and role
func Title(marker, champion string, role build.Role) string {
	return fmt.Sprintf("[%s] - %s %s", marker, champion, role)
}

// FromRecord projects a build record onto an item set document. The skill
// order is appended to the first block's label; record is not modified.
func FromRecord(marker string, champion ddragon.Champion, record build.Record) Document {
	doc := Document{
		Title:       Title(marker, champion.Name, record.Role),
		Type:        defaultType,
		Map:         defaultScope,
		Mode:        defaultScope,
		SortRank:    defaultSortRank,
		Blocks:      make([]Block, 0, len(record.ItemSets)),
		ChampionKey: champion.ID,
	}

	for i, set := range record.ItemSets {
		label := set.Label
		if i == 0 {
			label += fmt.Sprintf(" [Skill Order: %s]", record.SkillOrder)
		}
		doc.Blocks = append(doc.Blocks, newBlock(label, set.Items))
	}
	return doc
}

func newBlock(label string, items []int) Block {
	b := Block{
		MinSummonerLevel: -1,
		MaxSummonerLevel: -1,
		Type:             label,
		Items:            make([]Item, 0, len(items)),
	}
	for _, id := range items {
		b.Items = append(b.Items, Item{ID: fmt.Sprint(id), Count: 1})
	}
	return b
}

// Marshal encodes the document as indented JSON without HTML escaping,
// so skill orders keep their literal ">".
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
