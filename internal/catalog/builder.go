package catalog

import (
	"context"
	"errors"
	"fmt"

	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/ugg"

	"go.uber.org/zap"
)

// ReferenceData provides the patch-scoped game data
type ReferenceData interface {
	LatestVersion(ctx context.Context) (string, error)
	Champions(ctx context.Context, version string) ([]ddragon.Champion, error)
	RuneTrees(ctx context.Context, version string) (*ddragon.RuneTreeIndex, error)
}

// VendorData provides build statistics
type VendorData interface {
	RoleSource
	CurrentPatchVersion(ctx context.Context) (string, error)
}

// Store persists catalogs keyed by PatchVersion. Load returns ErrNotFound on a miss.
type Store interface {
	Load(ctx context.Context, version string) (*Catalog, error)
	Save(ctx context.Context, c *Catalog) error
}

// Builder loads a cached catalog or assembles a fresh one
type Builder struct {
	Reference   ReferenceData
	Vendor      VendorData
	Store       Store
	Logger      *zap.Logger
	Concurrency int
}

// LoadOrBuild returns the catalog for the latest reference version, reading
// the store first unless force is set. Store failures are logged and never
// fatal; reference data being unavailable is.
func (b *Builder) LoadOrBuild(ctx context.Context, force bool) (*Catalog, error) {
	logger := b.logger()

	version, err := b.Reference.LatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game version: %w", err)
	}

	if !force && b.Store != nil {
		c, err := b.Store.Load(ctx, version)
		switch {
		case err == nil:
			logger.Info("loaded cached catalog", zap.String("version", version), zap.Int("champions", c.Len()))
			return c, nil
		case errors.Is(err, ErrNotFound):
			logger.Info("no cached catalog", zap.String("version", version))
		default:
			logger.Warn("failed to load cached catalog", zap.String("version", version), zap.Error(err))
		}
	}

	c, err := b.Build(ctx, version)
	if err != nil {
		return nil, err
	}

	if b.Store != nil {
		if err := b.Store.Save(ctx, c); err != nil {
			logger.Warn("failed to save catalog", zap.String("version", version), zap.Error(err))
		}
	}
	return c, nil
}

// Build assembles a catalog for a reference version without touching the store
func (b *Builder) Build(ctx context.Context, version string) (*Catalog, error) {
	logger := b.logger()

	patch, err := b.Vendor.CurrentPatchVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !ugg.MatchesVersion(patch, version) {
		logger.Warn("build statistics lag the game version",
			zap.String("version", version), zap.String("vendor_patch", patch))
	}

	champions, err := b.Reference.Champions(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load champions: %w", err)
	}

	trees, err := b.Reference.RuneTrees(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load rune trees: %w", err)
	}

	assembler := &Assembler{
		Source:      b.Vendor,
		Trees:       trees,
		Logger:      logger,
		Concurrency: b.Concurrency,
	}
	return assembler.Assemble(ctx, version, patch, champions)
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger.Named("catalog")
}
