// Package catalog assembles and queries the per-patch build catalog.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"leaguehelper/internal/build"
	"leaguehelper/internal/ddragon"
)

// ErrNotFound is returned by stores when no catalog exists for a version
var ErrNotFound = errors.New("catalog not found")

// Entry holds every surviving role build for one champion, best first
type Entry struct {
	Champion ddragon.Champion `json:"champion"`
	Records  []build.Record   `json:"records"`
}

// Catalog is the immutable set of builds for one patch, sorted by champion key
type Catalog struct {
	// PatchVersion is the reference data version, e.g. "14.23.1"
	PatchVersion string `json:"patchVersion"`
	// VendorPatch is the statistics patch, e.g. "14_23"
	VendorPatch string  `json:"vendorPatch"`
	Entries     []Entry `json:"entries"`
}

// Entry finds the entry for a champion key
func (c *Catalog) Entry(championKey int) (Entry, bool) {
	i := sort.Search(len(c.Entries), func(i int) bool {
		return c.Entries[i].Champion.Key >= championKey
	})
	if i < len(c.Entries) && c.Entries[i].Champion.Key == championKey {
		return c.Entries[i], true
	}
	return Entry{}, false
}

// EntryByName finds an entry by champion ID or display name
func (c *Catalog) EntryByName(name string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Champion.ID == name || e.Champion.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup returns the build for a champion and role. With fallback set, a
// champion without that role yields its highest confidence build instead.
// Records with an unknown role are never returned.
func (c *Catalog) Lookup(championKey int, role build.Role, fallback bool) (ddragon.Champion, build.Record, error) {
	entry, ok := c.Entry(championKey)
	if !ok {
		return ddragon.Champion{}, build.Record{}, fmt.Errorf("%w: champion %d", build.ErrNoBuildFound, championKey)
	}

	if role != build.RoleUnknown {
		for _, r := range entry.Records {
			if r.Role == role {
				return entry.Champion, r, nil
			}
		}
	}

	if fallback {
		// Records are sorted by confidence
		for _, r := range entry.Records {
			if r.Role != build.RoleUnknown {
				return entry.Champion, r, nil
			}
		}
	}

	return entry.Champion, build.Record{}, fmt.Errorf("%w: %s %s", build.ErrNoBuildFound, entry.Champion.Name, role)
}

// Len returns the number of champions in the catalog
func (c *Catalog) Len() int {
	return len(c.Entries)
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Champion.Key < entries[j].Champion.Key
	})
}
