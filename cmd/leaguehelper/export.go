package main

import (
	"errors"
	"fmt"

	"leaguehelper/internal/itemset"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every build as a League item set",
	Long: `Replaces previously exported item sets under <install dir>/Config/Champions
with one file per champion and role from the current catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.InstallDir == "" {
			return errors.New("install directory unknown: set install_dir or --install-dir")
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cat, err := a.loadCatalog(ctx, false)
		if err != nil {
			return err
		}

		w := itemset.NewWriter(cfg.InstallDir, cfg.Reconcile.PageMarker, logger)
		n, err := w.Export(ctx, cat)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d item sets for patch %s\n", n, cat.VendorPatch)
		return nil
	},
}
