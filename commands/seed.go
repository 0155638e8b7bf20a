package commands

import (
	"errors"
	"path"

	"github.com/spf13/cobra"

	"holoholo/auth"
	"holoholo/service"
	"holoholo/storage/postgres"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var skipCatalog bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and the sample catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.AdminPassword == "" {
				return errors.New("ADMIN_PASSWORD is not set in environment")
			}
			ctx := logger.WithContext(cmd.Context())

			db, err := postgres.Open(ctx, cfg.DBConnStr)
			if err != nil {
				return err
			}
			defer db.Close()
			store := postgres.NewStore(db)

			accounts := service.NewAccounts(store.Users, auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL))
			created, err := accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				return err
			}
			logger.Info().Str("username", cfg.AdminUsername).Bool("created", created).Msg("admin account")

			if skipCatalog {
				return nil
			}
			n, err := store.SeedCatalog(ctx, path.Join("/", cfg.ImageDir))
			if err != nil {
				return err
			}
			logger.Info().Int("products", n).Msg("sample catalog seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipCatalog, "admin-only", false, "only create the admin account")
	return cmd
}
