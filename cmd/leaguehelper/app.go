package main

import (
	"context"
	"fmt"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/store"
	"leaguehelper/internal/ugg"
)

// app holds the collaborators shared by every command
type app struct {
	reference *ddragon.Client
	vendor    *ugg.Fetcher
	store     store.Store
}

// newApp wires the reference and vendor clients from cfg and opens the
// catalog store. Close must be called when done.
func newApp(ctx context.Context) (*app, error) {
	refOpts := []ddragon.Option{
		ddragon.WithLocale(cfg.Locale),
		ddragon.WithLogger(logger),
		ddragon.WithTimeout(cfg.Sources.Timeout),
	}
	if cfg.Sources.DDragonURL != "" {
		refOpts = append(refOpts, ddragon.WithBaseURL(cfg.Sources.DDragonURL))
	}

	vendorOpts := []ugg.Option{
		ugg.WithLogger(logger),
		ugg.WithTimeout(cfg.Sources.Timeout),
	}
	if cfg.Sources.UGGStatsURL != "" {
		vendorOpts = append(vendorOpts, ugg.WithStatsBaseURL(cfg.Sources.UGGStatsURL))
	}
	if cfg.Sources.UGGPatchesURL != "" {
		vendorOpts = append(vendorOpts, ugg.WithPatchesURL(cfg.Sources.UGGPatchesURL))
	}
	if cfg.Sources.UGGHomeURL != "" {
		vendorOpts = append(vendorOpts, ugg.WithHomePageURL(cfg.Sources.UGGHomeURL))
	}

	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	return &app{
		reference: ddragon.NewClient(refOpts...),
		vendor:    ugg.NewFetcher(vendorOpts...),
		store:     s,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) builder() *catalog.Builder {
	return &catalog.Builder{
		Reference:   a.reference,
		Vendor:      a.vendor,
		Store:       a.store,
		Logger:      logger,
		Concurrency: cfg.Catalog.Concurrency,
	}
}

// loadCatalog returns the catalog for the latest game version, building it
// when the store has none.
func (a *app) loadCatalog(ctx context.Context, force bool) (*catalog.Catalog, error) {
	return a.builder().LoadOrBuild(ctx, force)
}

// versionedStore is implemented by backends that can enumerate snapshots
type versionedStore interface {
	Versions(ctx context.Context) ([]string, error)
	Prune(ctx context.Context, keep string) (int64, error)
}

func (a *app) versioned() (versionedStore, error) {
	s := a.store
	if c, ok := s.(*store.Cached); ok {
		s = c.Unwrap()
	}
	v, ok := s.(versionedStore)
	if !ok {
		return nil, fmt.Errorf("store driver %q cannot list catalogs", cfg.Store.Driver)
	}
	return v, nil
}
