// Package build holds the canonical build model shared by the vendor
// normalizer, the catalog and the session reconciler.
package build

import "sort"

// RunePageSize is the number of selected perks on a complete page:
// 4 primary picks, 2 secondary picks and 3 stat shards.
const RunePageSize = 9

// RunePage is a validated rune selection in canonical slot order
type RunePage struct {
	PrimaryTree     int     `json:"primaryTree"`
	SecondaryTree   int     `json:"secondaryTree"`
	Runes           []int   `json:"runes"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// ItemSet is one labeled block of recommended items
type ItemSet struct {
	Label string `json:"label"`
	Items []int  `json:"items"`
}

// SummonerSpells is a spell pair in slot order
type SummonerSpells struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Contains reports whether either slot holds the spell
func (s SummonerSpells) Contains(id int) bool {
	return s.First == id || s.Second == id
}

// Record is the normalized build for one character and role
type Record struct {
	Role           Role           `json:"role"`
	RunePage       RunePage       `json:"runePage"`
	ItemSets       []ItemSet      `json:"itemSets"`
	SkillOrder     string         `json:"skillOrder"`
	SummonerSpells SummonerSpells `json:"summonerSpells"`
}

// SkillSeparator joins skill order tokens
const SkillSeparator = ">"

// SortRecords orders records by descending confidence. Ties keep role order
// so repeated assemblies produce identical output.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].RunePage.ConfidenceScore, records[j].RunePage.ConfidenceScore
		if a != b {
			return a > b
		}
		return records[i].Role < records[j].Role
	})
}
