package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/app"
)

// bootStore boots the application without migrations and fails when the
// store cannot be reached.
func bootStore(ctx context.Context) (*app.Application, error) {
	a := app.New()
	if err := a.Boot(ctx); err != nil {
		return nil, err
	}
	if err := a.DB.Ping(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("document store (%s): %w", a.DB.Driver(), err)
	}
	return a, nil
}

// storefront migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ensure document store indexes (unique blogpost.slug and friends)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running migrations…")
		fresh, err := migrations.Run(ctx, a.DB)
		for _, name := range fresh {
			fmt.Fprintf(out, "  ✓ %s\n", name)
		}
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			fmt.Fprintln(out, "Nothing to migrate.")
		}
		return nil
	},
}

// storefront migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show which migrations have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		report, err := migrations.Report(ctx, a.DB)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
		for _, s := range report {
			state, batch := "pending", "-"
			if s.Applied {
				state, batch = "applied", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, batch)
		}
		return w.Flush()
	},
}

var seedForce bool

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all seeders (sample products)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Running seeders…")
		if err := seeders.RunAll(ctx, a.DB, seeders.Options{Force: seedForce}, out); err != nil {
			return err
		}
		fmt.Fprintln(out, "✅ Seeding complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVarP(&seedForce, "force", "f", false, "Replace existing data")
}
