package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goinsights/goinsights/internal/daemon"
	"github.com/goinsights/goinsights/internal/demo"
)

func init() { //nolint: gochecknoinits
	demoCmd.AddCommand(demoImportCmd)
	rootCmd.AddCommand(demoCmd)
}

var (
	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Manage demo content",
	}

	demoImportCmd = &cobra.Command{
		Use:   "import",
		Short: "Create the demo queries and the eCommerce dashboard unless they exist",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			defer func() {
				if sqlDB, errDB := db.DB(); errDB == nil {
					_ = sqlDB.Close()
				}
			}()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			demo.ImportQueriesAndDashboards(ctx, db, demo.Fixtures)

			log.Info().Msg("demo import finished")

			return nil
		},
	}
)
