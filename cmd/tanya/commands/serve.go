package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wicaksana/tanya/config"
	"github.com/wicaksana/tanya/dialogue"
	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/kb"
	"github.com/wicaksana/tanya/logger"
	"github.com/wicaksana/tanya/server"
	"github.com/wicaksana/tanya/session"
	"github.com/wicaksana/tanya/transcript"
)

// ServeCmd starts the tanya HTTP/WebSocket server
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tanya dialogue server",
	Long:  `Load the configuration and knowledge base, then serve the query API and WebSocket chat endpoint until interrupted.`,
	RunE:  runServe,
}

var serveConfigPath string

func init() {
	ServeCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Config file path (overrides the default lookup)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	// Re-initialize with the configured output format
	if err := logger.Initialize(cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	base, err := kb.Load(cfg.Knowledge.Path)
	if err != nil {
		return errors.Wrap(err, "failed to load knowledge base")
	}
	for _, warning := range base.Warnings() {
		logger.Warnw("Knowledge warning", "warning", warning)
	}

	engine, sessions, store, err := buildEngine(cfg, base)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	printStartupBanner(cfg.Server.Port, cfg.Knowledge.Path, base.Languages())

	srv := server.New(cfg, base, engine, sessions)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadConfig honors --config when given, otherwise the default lookup chain.
func loadConfig() (*config.Config, error) {
	if serveConfigPath != "" {
		return config.LoadFromFile(serveConfigPath)
	}
	return config.Load()
}

// buildEngine wires the session store, optional transcript store, and the
// resolution engine. Shared by serve and ask.
func buildEngine(cfg *config.Config, base *kb.KnowledgeBase) (*dialogue.Engine, *session.Manager, *transcript.Store, error) {
	sessions := session.NewManager(cfg.Session.MaxSessions, cfg.SessionTTL())

	opts := dialogue.Options{FallbackTimeout: cfg.FallbackTimeout()}

	var store *transcript.Store
	if cfg.Transcript.Enabled {
		var err error
		store, err = transcript.Open(cfg.Transcript.Path, logger.Named("transcript"))
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "failed to open transcript store")
		}
		opts.Recorder = store
	}

	return dialogue.NewEngine(base, sessions, opts), sessions, store, nil
}
