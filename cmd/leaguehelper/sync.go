package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaguehelper/internal/catalog"
	"leaguehelper/internal/lcu"
	"leaguehelper/internal/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	healthCheckInterval = 2 * time.Second
	reconnectDelay      = 2 * time.Second
)

var errDisconnected = errors.New("league client disconnected")

var forceRebuild bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply builds during champion select until interrupted",
	Long: `Waits for the League client, then reconciles the rune page and summoner
spells with the catalog every time champion select changes. Survives client
restarts; stop it with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&forceRebuild, "rebuild", false, "Rebuild the catalog even if one is stored")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	flash, err := reconcile.ParseFlashSlot(cfg.Reconcile.FlashSlot)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cat, err := a.loadCatalog(ctx, forceRebuild)
	if err != nil {
		return err
	}

	for {
		creds, err := waitForClient(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		err = runSession(ctx, creds, cat, flash)
		if ctx.Err() != nil {
			return nil
		}
		logger.Info("League disconnected. Waiting for reconnection...", zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

// waitForClient blocks until the client's lockfile is readable
func waitForClient(ctx context.Context) (*lcu.Credentials, error) {
	path, err := lcu.FindLockfile(cfg.InstallDir)
	if err != nil {
		if cfg.InstallDir == "" {
			return nil, fmt.Errorf("%w: set install_dir or --install-dir", err)
		}
		path = cfg.LockfilePath()
	}

	logger.Info("Waiting for League...", zap.String("lockfile", path))
	return lcu.WaitForLockfile(ctx, path)
}

// runSession drives the reconciler for one client lifetime. It returns when
// the client goes away or ctx is cancelled.
func runSession(ctx context.Context, creds *lcu.Credentials, cat *catalog.Catalog, flash reconcile.FlashSlot) error {
	client := lcu.NewClient(lcu.WithLogger(logger))
	if err := client.Connect(ctx, creds); err != nil {
		return err
	}
	defer client.Disconnect()

	me, err := client.CurrentSummoner(ctx)
	if err != nil {
		return err
	}
	logger.Info("League connected",
		zap.String("port", creds.Port),
		zap.String("summoner", me.GameName+"#"+me.TagLine))

	stream := lcu.NewEventStream(logger)
	if err := stream.Connect(ctx, creds); err != nil {
		logger.Warn("event stream unavailable, polling only", zap.Error(err))
	}
	defer stream.Close()

	r := reconcile.New(reconcile.Config{
		Session:        client,
		Inventory:      client,
		Selection:      client,
		Catalog:        cat,
		SummonerID:     me.SummonerID,
		PollInterval:   cfg.Reconcile.PollInterval,
		InGameInterval: cfg.Reconcile.InGameInterval,
		RoleFallback:   cfg.Reconcile.RoleFallback,
		PageMarker:     cfg.Reconcile.PageMarker,
		FlashSlot:      flash,
		Logger:         logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Run(gctx, stream.Nudges())
	})
	g.Go(func() error {
		return watchClient(gctx, client, stream)
	})
	return g.Wait()
}

// watchClient returns errDisconnected once the client stops answering or
// the event stream drops.
func watchClient(ctx context.Context, client *lcu.Client, stream *lcu.EventStream) error {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stream.Done():
			return errDisconnected
		case <-ticker.C:
			if !client.IsConnected(ctx) {
				return errDisconnected
			}
		}
	}
}
