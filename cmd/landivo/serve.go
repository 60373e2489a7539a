package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"landivo/internal/config"
	"landivo/internal/database"
	"landivo/internal/httpapi"
	"landivo/internal/logging"
	"landivo/internal/mail"
	"landivo/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		port        int
		autoMigrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("auto-migrate") {
				cfg.AutoMigrate = autoMigrate
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, closer := logging.New(cfg.Log)
	defer closer.Close()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	if cfg.AutoMigrate {
		applied, err := database.Migrate(db)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %v", err)
		}
		log.Info("migrations applied", "count", len(applied))
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           httpapi.NewRouter(service.New(db, mailer, log), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %v", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMailer returns a Mailjet mailer when keys are configured and a
// simulated one otherwise.
func newMailer(cfg *config.Config, log logging.Logger) (mail.Mailer, error) {
	if !cfg.MailjetEnabled() {
		log.Info("mailjet keys not set, simulating email delivery")
		return mail.NewSimulated(log), nil
	}
	m, err := mail.NewMailjet(log,
		mail.WithKeys(cfg.MailjetPublicKey, cfg.MailjetPrivateKey),
		mail.WithSender(cfg.MailSender),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mailjet: %v", err)
	}
	return m, nil
}
