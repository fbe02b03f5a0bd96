package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"leaguehelper/internal/build"
	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	catalogForce bool
	keepVersion  string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build and inspect the build catalog",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the catalog for the latest game version and store it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cat, err := a.loadCatalog(ctx, catalogForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog %s (u.gg %s): %d champions\n", cat.PatchVersion, cat.VendorPatch, cat.Len())
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <champion>",
	Short: "Print every role's build for a champion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		entry, ok := cat.EntryByName(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", build.ErrNoBuildFound, args[0])
		}

		runes, err := a.reference.RuneTrees(ctx, cat.PatchVersion)
		if err != nil {
			logger.Warn("rune names unavailable", zap.String("version", cat.PatchVersion), zap.Error(err))
			runes = ddragon.NewRuneTreeIndex(cat.PatchVersion, nil, nil)
		}
		printEntry(cmd.OutOrStdout(), entry, runes)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored catalog versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.versioned()
		if err != nil {
			return err
		}
		versions, err := v.Versions(ctx)
		if err != nil {
			return err
		}
		for _, version := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		}
		return nil
	},
}

var catalogPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every stored catalog except the latest (or --keep)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.versioned()
		if err != nil {
			return err
		}

		keep := keepVersion
		if keep == "" {
			keep, err = a.reference.LatestVersion(ctx)
			if err != nil {
				return err
			}
		}

		n, err := v.Prune(ctx, keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d catalogs, kept %s\n", n, keep)
		return nil
	},
}

func init() {
	catalogBuildCmd.Flags().BoolVar(&catalogForce, "force", false, "Rebuild even if the version is already stored")
	catalogPruneCmd.Flags().StringVar(&keepVersion, "keep", "", "Version to keep (default: latest)")

	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogPruneCmd)
}

// runeNames resolves rune and tree IDs for display
type runeNames interface {
	RuneName(id int) string
	TreeName(id int) string
}

// printEntry writes the champion's records in role order, Unknown first
func printEntry(out io.Writer, entry catalog.Entry, names runeNames) {
	fmt.Fprintf(out, "%s (%s)\n", entry.Champion.Name, entry.Champion.ID)
	if len(entry.Records) == 0 {
		fmt.Fprintln(out, "  no builds")
		return
	}

	byRole := make(map[build.Role]build.Record, len(entry.Records))
	for _, r := range entry.Records {
		byRole[r.Role] = r
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	role := build.RoleUnknown
	for {
		if r, ok := byRole[role]; ok {
			runes := make([]string, len(r.RunePage.Runes))
			for i, id := range r.RunePage.Runes {
				runes[i] = names.RuneName(id)
			}
			fmt.Fprintf(w, "\n%s\tconfidence %.3f\n", role, r.RunePage.ConfidenceScore)
			fmt.Fprintf(w, "  runes\t%s / %s: %s\n", names.TreeName(r.RunePage.PrimaryTree), names.TreeName(r.RunePage.SecondaryTree), strings.Join(runes, ", "))
			fmt.Fprintf(w, "  spells\t%d %d\n", r.SummonerSpells.First, r.SummonerSpells.Second)
			fmt.Fprintf(w, "  skills\t%s\n", r.SkillOrder)
			for _, set := range r.ItemSets {
				fmt.Fprintf(w, "  %s\t%s\n", set.Label, joinInts(set.Items))
			}
		}
		if !role.Next() {
			break
		}
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}
