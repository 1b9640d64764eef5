package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/staff-portal/internal/api"
	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/service"
	"github.com/99minutos/staff-portal/internal/infrastructure/credential"
	"github.com/99minutos/staff-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var inMemory bool

// demoAccounts are seeded when serving from memory.
var demoAccounts = []ports.RegisterInput{
	{Username: "John Doe", Email: "john.doe@test.com", Password: "Admin123!", Role: domain.RoleAdmin},
	{Username: "Joana Doe", Email: "joana.doe@test.com", Password: "Employee1!", Role: domain.RoleEmployee},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var store *backend
		if inMemory {
			store = openMemory()
		} else {
			var err error
			if store, err = openPersistent(ctx); err != nil {
				return err
			}
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			store.close(closeCtx)
		}()

		authService := service.NewAuthService(store.users, logger.Component("auth"))
		if inMemory {
			for _, account := range demoAccounts {
				if _, err := authService.Register(ctx, account); err != nil {
					return err
				}
			}
			log.Info().Int("accounts", len(demoAccounts)).Msg("seeded demo accounts")
		}

		var verifier ports.CredentialVerifier = authService
		if cfg.Credential.Endpoint != "" {
			verifier = credential.NewHTTPVerifier(cfg.Credential.Endpoint, &http.Client{Timeout: cfg.Credential.Timeout})
			log.Info().Str("endpoint", cfg.Credential.Endpoint).Msg("verifying credentials remotely")
		}

		e, err := api.NewRouter(api.Deps{
			Config:      cfg,
			Log:         log,
			Verifier:    verifier,
			AuthService: authService,
			Revocations: store.revocations,
			Ready:       store.ready,
		})
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep accounts and revocations in memory and seed demo accounts")
}
