package itemset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"leaguehelper/internal/build"
	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahri = ddragon.Champion{Key: 103, ID: "Ahri", Name: "Ahri"}

func ahriMid() build.Record {
	return build.Record{
		Role: build.RoleMid,
		ItemSets: []build.ItemSet{
			{Label: "Starting Build - 181.82% win rate", Items: []int{1056, 2003}},
			{Label: "Core Build - 192.31% win rate", Items: []int{6655, 3020}},
		},
		SkillOrder:     "Q>E>W",
		SummonerSpells: build.SummonerSpells{First: 4, Second: 14},
	}
}

func TestFromRecord_Golden(t *testing.T) {
	data, err := FromRecord("LH", ahri, ahriMid()).Marshal()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "ahri_mid", data)
}

func TestFromRecord_DoesNotModifyRecord(t *testing.T) {
	record := ahriMid()
	doc := FromRecord("LH", ahri, record)

	assert.Equal(t, "Starting Build - 181.82% win rate [Skill Order: Q>E>W]", doc.Blocks[0].Type)
	assert.Equal(t, "Core Build - 192.31% win rate", doc.Blocks[1].Type)
	assert.Equal(t, "Starting Build - 181.82% win rate", record.ItemSets[0].Label)
}

func TestFromRecord_NoItemSets(t *testing.T) {
	doc := FromRecord("LH", ahri, build.Record{Role: build.RoleTop})

	assert.Equal(t, "[LH] - Ahri Top", doc.Title)
	assert.NotNil(t, doc.Blocks)
	assert.Empty(t, doc.Blocks)
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "LH", nil)

	path, err := w.Write(ahri, ahriMid(), "14_23")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Config", "Champions", "Ahri", "Recommended", "LH_Ahri-Mid-14_23.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "[LH] - Ahri Mid"`)
}

func TestWriter_DeleteOld(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "LH", nil)

	recommended := filepath.Join(dir, "Config", "Champions", "Ahri", "Recommended")
	require.NoError(t, os.MkdirAll(recommended, 0o755))
	for _, name := range []string{"LH_Ahri-Mid-14_22.json", "LH_Ahri-Top-14_22.json", "Mine.json", "LH_notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(recommended, name), []byte("{}"), 0o644))
	}

	removed, err := w.DeleteOld()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := os.ReadDir(recommended)
	require.NoError(t, err)
	var names []string
	for _, e := range left {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"Mine.json", "LH_notes.txt"}, names)
}

func TestWriter_DeleteOldMissingDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "nowhere"), "LH", nil)

	removed, err := w.DeleteOld()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestWriter_Export(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "LH", nil)

	stale := w.Path("Ahri", build.RoleMid, "14_22")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	top := ahriMid()
	top.Role = build.RoleTop
	cat := &catalog.Catalog{
		PatchVersion: "14.23.1",
		VendorPatch:  "14_23",
		Entries: []catalog.Entry{
			{Champion: ddragon.Champion{Key: 1, ID: "Annie", Name: "Annie"}},
			{Champion: ahri, Records: []build.Record{ahriMid(), top}},
		},
	}

	written, err := w.Export(context.Background(), cat)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, w.Path("Ahri", build.RoleMid, "14_23"))
	assert.FileExists(t, w.Path("Ahri", build.RoleTop, "14_23"))
	assert.NoDirExists(t, filepath.Join(dir, "Config", "Champions", "Annie"))
}

func TestWriter_ExportCancelled(t *testing.T) {
	w := NewWriter(t.TempDir(), "LH", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cat := &catalog.Catalog{Entries: []catalog.Entry{{Champion: ahri, Records: []build.Record{ahriMid()}}}}
	written, err := w.Export(ctx, cat)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, written)
}
