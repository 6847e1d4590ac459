package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/auth"
	"github.com/example/jetsetgo/internal/booking"
	"github.com/example/jetsetgo/internal/config"
	"github.com/example/jetsetgo/internal/db"
	"github.com/example/jetsetgo/internal/hotels"
	"github.com/example/jetsetgo/internal/mailer"
	"github.com/example/jetsetgo/internal/migrate"
	"github.com/example/jetsetgo/internal/searchcache"
	"github.com/example/jetsetgo/internal/web"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the booking API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			authStore := auth.NewStore(d, cfg.CookieHashKey, cfg.CookieBlockKey)

			client := amadeus.New(amadeus.Options{
				BaseURL:      cfg.AmadeusBaseURL,
				Key:          cfg.AmadeusKey,
				Secret:       cfg.AmadeusSecret,
				SafetyMargin: cfg.TokenSafetyMargin,
			})

			cache := searchcache.New(cfg.RedisAddr, cfg.SearchCacheTTL)
			defer cache.Close()

			ws := &web.Server{
				Amadeus:    client,
				Hotels:     hotels.NewService(client, cfg.LookupTimeout, cfg.ProviderTimeout),
				Booking:    booking.NewService(client, booking.NewStore()),
				Auth:       authStore,
				Mailer:     mailer.New(cfg.ResendAPIKey, cfg.MailFrom),
				Cache:      cache,
				CORSOrigin: cfg.CORSOrigin,
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
