package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"holoholo/storage/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(cfg.DBConnStr); err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(cfg.DBConnStr)
			if err != nil {
				return err
			}
			logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step unless given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(cfg.DBConnStr, steps); err != nil {
				return err
			}
			logger.Info().Int("steps", steps).Msg("migrations rolled back")
			return nil
		},
	})
	return cmd
}
