package lcu

import (
	"context"
	"fmt"
	"net/http"
)

// PerksPage is a rune page in the client
type PerksPage struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"name"`
	PrimaryStyleID  int    `json:"primaryStyleId"`
	SubStyleID      int    `json:"subStyleId"`
	SelectedPerkIDs []int  `json:"selectedPerkIds"`
	Current         bool   `json:"current"`
	IsDeletable     bool   `json:"isDeletable,omitempty"`
	IsEditable      bool   `json:"isEditable,omitempty"`
}

// PageInventory is a snapshot of the player's rune pages. Owned counts the
// player's own (deletable) pages; Max is how many they may own.
type PageInventory struct {
	Pages []PerksPage
	Owned int
	Max   int
}

// Full reports whether no page can be created without deleting one
func (inv *PageInventory) Full() bool {
	return inv.Owned >= inv.Max
}

// PerksPages lists every rune page, including the built-in ones
func (c *Client) PerksPages(ctx context.Context) ([]PerksPage, error) {
	var pages []PerksPage
	if err := c.do(ctx, http.MethodGet, "/lol-perks/v1/pages", nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// PageInventory reads the pages and the owned page capacity
func (c *Client) PageInventory(ctx context.Context) (*PageInventory, error) {
	pages, err := c.PerksPages(ctx)
	if err != nil {
		return nil, err
	}

	var inventory struct {
		OwnedPageCount int `json:"ownedPageCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/lol-perks/v1/inventory", nil, &inventory); err != nil {
		return nil, err
	}

	inv := &PageInventory{Pages: pages, Max: inventory.OwnedPageCount}
	for _, p := range pages {
		if p.IsDeletable {
			inv.Owned++
		}
	}
	return inv, nil
}

// CreatePage creates a rune page and makes it current
func (c *Client) CreatePage(ctx context.Context, page PerksPage) (*PerksPage, error) {
	page.ID = 0
	page.Current = true

	var created PerksPage
	if err := c.do(ctx, http.MethodPost, "/lol-perks/v1/pages", page, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePage deletes a rune page
func (c *Client) DeletePage(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/lol-perks/v1/pages/%d", id), nil, nil)
}
