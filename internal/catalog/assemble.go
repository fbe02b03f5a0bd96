package catalog

import (
	"context"
	"sync"

	"leaguehelper/internal/build"
	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/ugg"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of champions fetched at once
const DefaultConcurrency = 5

// RoleSource returns the per-role vendor nodes for a champion
type RoleSource interface {
	RoleData(ctx context.Context, championKey int, patch string) ([]ugg.RoleNode, error)
}

// Assembler fans out fetch and normalization across champions
type Assembler struct {
	Source      RoleSource
	Trees       ugg.RuneTrees
	Logger      *zap.Logger
	Concurrency int
}

// Assemble builds a catalog for the given champions. A champion whose fetch
// fails is logged and left out. A champion whose roles all fail to normalize
// is kept with no records. The result only depends on the vendor data, never
// on completion order.
func (a *Assembler) Assemble(ctx context.Context, version, vendorPatch string, champions []ddragon.Champion) (*Catalog, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := a.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		entries = make([]Entry, 0, len(champions))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, champ := range champions {
		champ := champ
		eg.Go(func() error {
			entry, ok := a.assembleChampion(egCtx, logger, vendorPatch, champ)
			if !ok {
				return nil
			}
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}

	// Tasks never fail, so Wait only reports cancellation through ctx
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortEntries(entries)

	logger.Info("catalog assembled",
		zap.String("version", version),
		zap.String("vendor_patch", vendorPatch),
		zap.Int("champions", len(entries)),
		zap.Int("dropped", len(champions)-len(entries)))

	return &Catalog{
		PatchVersion: version,
		VendorPatch:  vendorPatch,
		Entries:      entries,
	}, nil
}

func (a *Assembler) assembleChampion(ctx context.Context, logger *zap.Logger, patch string, champ ddragon.Champion) (Entry, bool) {
	log := logger.With(zap.String("champion", champ.Name), zap.Int("champion_key", champ.Key))

	nodes, err := a.Source.RoleData(ctx, champ.Key, patch)
	if err != nil {
		log.Warn("dropping champion", zap.Error(err))
		return Entry{}, false
	}
	if len(nodes) == 0 {
		log.Warn("dropping champion with no role data")
		return Entry{}, false
	}

	records := make([]build.Record, 0, len(nodes))
	seen := make(map[build.Role]bool, len(nodes))
	for _, node := range nodes {
		if seen[node.Role] {
			log.Debug("skipping duplicate role", zap.String("role", node.Role.String()), zap.String("key", node.Key))
			continue
		}

		record, err := ugg.Normalize(node, a.Trees, champ.Name)
		if err != nil {
			log.Warn("skipping role", zap.String("role", node.Role.String()), zap.Error(err))
			continue
		}
		seen[node.Role] = true
		records = append(records, record)
	}

	build.SortRecords(records)
	return Entry{Champion: champ, Records: records}, true
}
