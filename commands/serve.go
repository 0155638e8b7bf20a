package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"holoholo/auth"
	"holoholo/cart"
	"holoholo/config"
	"holoholo/server"
	"holoholo/service"
	"holoholo/storage/postgres"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DBConnStr); err != nil {
			return err
		}
		logger.Info().Msg("migrations applied")
	}

	db, err := postgres.Open(ctx, cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer db.Close()
	store := postgres.NewStore(db)
	logger.Info().Msg("connected to database")

	cartStore, closeCart, err := newCartStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCart()

	tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL)
	carts := cart.NewManager(cartStore, store.Products)

	router := server.NewRouter(server.Deps{
		Logger:       logger,
		Tokens:       tokens,
		Carts:        carts,
		Catalog:      service.NewCatalog(store.Products, store.Categories, store.Reviews),
		Orders:       service.NewOrders(store, store.Orders, carts),
		Reviews:      service.NewReviews(store.Reviews),
		Accounts:     service.NewAccounts(store.Users, tokens),
		Admin:        service.NewAdmin(store.Users, store.Categories, store.Products, store.Orders),
		DB:           store,
		SecureCookie: !cfg.IsDevelopment(),
	})
	return server.Run(ctx, cfg.ServerPort, router, logger)
}

func newCartStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cart.Store, func(), error) {
	if cfg.CartBackend == "memory" {
		logger.Warn().Msg("carts are kept in process memory and are lost on restart")
		return cart.NewMemoryStore(cfg.CartTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
	return cart.NewRedisStore(client, cfg.CartTTL), func() { client.Close() }, nil
}
