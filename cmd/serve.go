package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davidshroff27/leadscout/internal/api"
	"github.com/davidshroff27/leadscout/internal/bot"
	"github.com/davidshroff27/leadscout/internal/config"
	"github.com/davidshroff27/leadscout/internal/directory"
	"github.com/davidshroff27/leadscout/internal/hunter"
	"github.com/davidshroff27/leadscout/internal/logging"
	"github.com/davidshroff27/leadscout/internal/metrics"
	"github.com/davidshroff27/leadscout/internal/relay"
	"github.com/davidshroff27/leadscout/internal/store"
	"github.com/davidshroff27/leadscout/internal/store/memory"
	"github.com/davidshroff27/leadscout/internal/store/postgres"
	"github.com/davidshroff27/leadscout/internal/telegram"
)

const defaultChatGreeting = "Hi I am Levi. I am your assistent, send me a task.\n\n@hackers_assemble"

// newServeCmd creates and configures the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the bot and the ops HTTP server",
		Long: `Starts the Telegram long-poll loop and the operational HTTP server
(health, readiness, metrics and status). Runs until interrupted.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	allow, err := bot.LoadAllowList(cfg.Access.AllowListPath)
	if err != nil {
		return fmt.Errorf("load allow list: %w", err)
	}

	words, err := relay.LoadWords(cfg.Relay.CreditsPath)
	if err != nil {
		logger.Warn("credit words unavailable, relay output passes through unfiltered",
			zap.String("path", cfg.Relay.CreditsPath), zap.Error(err))
	}
	censor := relay.NewCensor(words, cfg.Relay.Replacement, cfg.Relay.Signature)

	leads, err := buildLeadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer leads.Close()

	fetcher := directory.NewCollyFetcher(directory.FetcherConfig{
		UserAgent: cfg.Directory.UserAgent,
		Timeout:   cfg.DirectoryTimeout(),
	})
	scraper := directory.NewScraper(cfg.Directory.BaseURL, fetcher, logger)
	finder := hunter.NewClient(cfg.Hunter.BaseURL, cfg.HunterTimeout(), logger)
	completions := relay.NewClient(relay.ClientConfig{
		BaseURL:     cfg.Relay.BaseURL,
		Token:       cfg.Relay.Token,
		Model:       cfg.Relay.Model,
		MaxTokens:   cfg.Relay.MaxTokens,
		Temperature: cfg.Relay.Temperature,
		Timeout:     cfg.RelayTimeout(),
	})

	tg := telegram.NewClient(
		cfg.Telegram.APIBaseURL,
		cfg.Telegram.Token,
		time.Duration(cfg.Telegram.PollTimeoutSeconds)*time.Second,
		logger,
	)

	machine := bot.NewMachine(
		bot.Config{
			MaxMessageLength: cfg.Telegram.MaxMessageLength,
			MaxPages:         cfg.Directory.MaxPages,
			JoinURL:          cfg.Telegram.JoinURL,
			PurchaseURL:      cfg.Telegram.PurchaseURL,
			ChatGreeting:     defaultChatGreeting,
		},
		allow, scraper, finder, completions, censor, tg, leads, logger,
	)

	dispatcher := telegram.NewDispatcher(tg, machine, cfg.Telegram.PollTimeoutSeconds, logger)

	opsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(machine.Sessions(), logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("ops server listening", zap.String("addr", opsServer.Addr))
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("ops server: %w", err)
		}
	}()
	go func() {
		logger.Info("bot poll loop starting")
		errCh <- dispatcher.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stop()
			shutdownOps(opsServer, logger)
			return err
		}
	}

	shutdownOps(opsServer, logger)
	return nil
}

func buildLeadStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Provider {
	case "postgres":
		st, err := postgres.NewStore(ctx, postgres.Config{DSN: cfg.Store.DSN})
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		logger.Info("lead store ready", zap.String("provider", "postgres"))
		return st, nil
	case "memory":
		logger.Info("lead store ready", zap.String("provider", "memory"))
		return memory.NewStore(), nil
	case "", "none":
		logger.Info("lead persistence disabled")
		return store.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}
}

func shutdownOps(srv *http.Server, logger *zap.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown failed", zap.Error(err))
	}
}
