package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// newApp wires the storefront routes and, when AUTO_MIGRATE is on, index
// migrations at boot.
func newApp() *app.Application {
	return app.New().
		Routes(routes.RegisterAPI).
		OnBoot(func(ctx context.Context, db docstore.Database) error {
			if !config.AutoMigrate() {
				return nil
			}
			_, err := migrations.Run(ctx, db)
			return err
		})
}

// storefront serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server (and the gRPC health port when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a := newApp()
		if err := a.Boot(ctx); err != nil {
			return err
		}
		defer a.Close(context.Background())

		return a.Serve(ctx)
	},
}

// storefront route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		a.WithStore(docstore.NewMemory("routes"))
		a.Limiter = cache.NewMemoryCounter()

		r, err := a.Router()
		if err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout(), r.Routes())
	},
}

func printRoutes(out io.Writer, infos []router.RouteInfo) error {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No named routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
