package reconcile

import (
	"context"
	"fmt"
	"strings"

	"leaguehelper/internal/build"
	"leaguehelper/internal/lcu"

	"go.uber.org/zap"
)

// PageName is the canonical name of a page this tool owns
func PageName(marker, champion string, role build.Role) string {
	return fmt.Sprintf("[%s] %s %s", marker, champion, role)
}

// Owned reports whether a page name carries the ownership marker
func Owned(marker, name string) bool {
	return strings.HasPrefix(name, "["+marker+"]")
}

// PageFor builds the client page for a record
func PageFor(marker, champion string, record build.Record) lcu.PerksPage {
	return lcu.PerksPage{
		Name:            PageName(marker, champion, record.Role),
		PrimaryStyleID:  record.RunePage.PrimaryTree,
		SubStyleID:      record.RunePage.SecondaryTree,
		SelectedPerkIDs: append([]int(nil), record.RunePage.Runes...),
		Current:         true,
	}
}

// StalePages returns the deletable pages carrying the marker, in inventory order
func StalePages(inv *lcu.PageInventory, marker string) []lcu.PerksPage {
	var stale []lcu.PerksPage
	for _, p := range inv.Pages {
		if p.IsDeletable && Owned(marker, p.Name) {
			stale = append(stale, p)
		}
	}
	return stale
}

// PlanEviction picks the page to delete so a new one fits. It returns false
// when the inventory has room. A full inventory prefers a marked page, then
// the first deletable page, and fails with ErrInventoryFull when none is
// deletable.
func PlanEviction(inv *lcu.PageInventory, marker string) (lcu.PerksPage, bool, error) {
	if !inv.Full() {
		return lcu.PerksPage{}, false, nil
	}

	if stale := StalePages(inv, marker); len(stale) > 0 {
		return stale[0], true, nil
	}

	for _, p := range inv.Pages {
		if p.IsDeletable {
			return p, true, nil
		}
	}

	return lcu.PerksPage{}, false, fmt.Errorf("%w: %d of %d pages owned, none deletable", build.ErrInventoryFull, inv.Owned, inv.Max)
}

// applyPage deletes every marked page, makes room if the inventory is still
// full, then creates page.
func (r *Reconciler) applyPage(ctx context.Context, log *zap.Logger, page lcu.PerksPage) error {
	inv, err := r.cfg.Inventory.PageInventory(ctx)
	if err != nil {
		return err
	}

	for _, p := range StalePages(inv, r.cfg.PageMarker) {
		if err := r.cfg.Inventory.DeletePage(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to delete page %q: %w", p.Name, err)
		}
		log.Debug("deleted stale page", zap.Int64("page_id", p.ID), zap.String("page", p.Name))
	}

	inv, err = r.cfg.Inventory.PageInventory(ctx)
	if err != nil {
		return err
	}

	evict, ok, err := PlanEviction(inv, r.cfg.PageMarker)
	if err != nil {
		return err
	}
	if ok {
		if err := r.cfg.Inventory.DeletePage(ctx, evict.ID); err != nil {
			return fmt.Errorf("failed to evict page %q: %w", evict.Name, err)
		}
		log.Info("evicted page to make room", zap.Int64("page_id", evict.ID), zap.String("page", evict.Name))
	}

	if _, err := r.cfg.Inventory.CreatePage(ctx, page); err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}
