package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

var (
	exportDisk   string
	exportPrefix string
)

// storefront export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON snapshot of every collection to a storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		cfg := storage.ConfigFromEnv()
		if exportDisk != "" {
			cfg.Default = exportDisk
		}
		disk, err := storage.NewManager(cfg).Default(ctx)
		if err != nil {
			return err
		}

		files, err := services.NewExportService(a.DB, disk).Export(ctx, exportPrefix)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "COLLECTION\tDOCUMENTS\tLOCATION")
		for _, f := range files {
			fmt.Fprintf(w, "%s\t%d\t%s\n", f.Collection, f.Documents, f.URL)
		}
		return w.Flush()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDisk, "disk", "", "Storage disk (local or s3); defaults to STORAGE_DISK")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "exports", "Path prefix on the disk")
}
