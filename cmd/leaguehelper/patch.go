package main

import (
	"fmt"

	"leaguehelper/internal/ugg"

	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Show the current game version and u.gg patch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.reference.LatestVersion(ctx)
		if err != nil {
			return err
		}
		patch, err := a.vendor.CurrentPatchVersion(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Data Dragon: %s\n", version)
		fmt.Fprintf(out, "u.gg:        %s\n", patch)
		if !ugg.MatchesVersion(patch, version) {
			fmt.Fprintln(out, "u.gg has not caught up with the latest patch yet")
		}
		return nil
	},
}
