package main

import (
	"bytes"
	"strings"
	"testing"

	"leaguehelper/internal/build"
	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"

	"github.com/stretchr/testify/assert"
)

var testRunes = ddragon.NewRuneTreeIndex("14.23.1",
	[]ddragon.RuneTree{{ID: 8100, Name: "Domination"}, {ID: 8300, Name: "Inspiration"}},
	map[int]string{8112: "Electrocute"})

func TestPrintEntry_RoleOrder(t *testing.T) {
	entry := catalog.Entry{
		Champion: ddragon.Champion{Key: 103, ID: "Ahri", Name: "Ahri"},
		Records: []build.Record{
			{Role: build.RoleMid, SkillOrder: "Q>E>W", RunePage: build.RunePage{ConfidenceScore: 0.5}},
			{Role: build.RoleJungle, SkillOrder: "Q>W>E", RunePage: build.RunePage{ConfidenceScore: 0.1}},
			{Role: build.RoleSupport, SkillOrder: "E>Q>W", RunePage: build.RunePage{ConfidenceScore: 0.2}},
		},
	}

	var buf bytes.Buffer
	printEntry(&buf, entry, testRunes)
	out := buf.String()

	jungle := strings.Index(out, "Jungle")
	support := strings.Index(out, "Support")
	mid := strings.Index(out, "Mid")
	assert.True(t, jungle >= 0 && jungle < support && support < mid, out)
	assert.NotContains(t, out, "Top")
}

func TestPrintEntry_NoBuilds(t *testing.T) {
	var buf bytes.Buffer
	printEntry(&buf, catalog.Entry{Champion: ddragon.Champion{ID: "MonkeyKing", Name: "Wukong"}}, testRunes)
	assert.Equal(t, "Wukong (MonkeyKing)\n  no builds\n", buf.String())
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "1056 2003", joinInts([]int{1056, 2003}))
	assert.Equal(t, "", joinInts(nil))
}

func TestPrintEntry_UnknownRoleAndRuneNames(t *testing.T) {
	entry := catalog.Entry{
		Champion: ddragon.Champion{Key: 103, ID: "Ahri", Name: "Ahri"},
		Records: []build.Record{
			{Role: build.RoleMid, RunePage: build.RunePage{PrimaryTree: 8100, SecondaryTree: 8300, Runes: []int{8112, 5008}}},
			{Role: build.RoleUnknown, RunePage: build.RunePage{PrimaryTree: 8100, SecondaryTree: 1, Runes: []int{9999}}},
		},
	}

	var buf bytes.Buffer
	printEntry(&buf, entry, testRunes)
	out := buf.String()

	assert.Contains(t, out, "Unknown")
	assert.Less(t, strings.Index(out, "Unknown"), strings.Index(out, "Mid"))
	assert.Contains(t, out, "Domination / Inspiration: Electrocute, Adaptive Force")
	assert.Contains(t, out, "Domination / Tree 1: Rune 9999")
}
