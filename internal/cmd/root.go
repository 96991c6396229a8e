package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/config"
	"github.com/KuzscoTech/maas-management/internal/errors"
	"github.com/KuzscoTech/maas-management/internal/log"
	"github.com/KuzscoTech/maas-management/internal/platform"
	"github.com/KuzscoTech/maas-management/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "maas",
	Short: "Management console for the MAAS platform",
	Long: `maas is the management console for the Multi-Agent-as-a-Service platform.
It manages environments, agents, and tasks, and keeps an authenticated
session alive across invocations: tokens are persisted locally, refreshed
proactively, and recovered transparently when a request hits an expired
token.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig   string
	flagAPIURL   string
	flagLogLevel string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is $HOME/.maas/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "platform API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// app bundles everything a command needs: configuration, the API client,
// and the session manager with its refresh scheduler attached.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	client *platform.Client
	mgr    *session.Manager
	sched  *session.Scheduler
}

var (
	appOnce     sync.Once
	appInstance *app
	appErr      error
)

// getApp wires the application exactly once per process.
func getApp() (*app, error) {
	appOnce.Do(func() {
		appInstance, appErr = buildApp()
	})
	return appInstance, appErr
}

func buildApp() (*app, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.Log.Level)
	logCfg.Format = log.ParseFormat(cfg.Log.Format)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	client := platform.NewClient(cfg.APIURL,
		platform.WithTimeout(cfg.Timeout.Std()),
		platform.WithLogger(logger),
	)

	store, err := session.NewFileStore(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	mgr := session.NewManager(client, store, session.WithLogger(logger))
	sched := session.NewScheduler(mgr, cfg.RefreshInterval.Std(), logger)
	mgr.AttachScheduler(sched)

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		mgr:    mgr,
		sched:  sched,
	}, nil
}

// requireSession wires the app and restores the persisted session. Commands
// that talk to protected endpoints go through here so a stale-but-refreshable
// token is recovered before the first real request.
func requireSession(ctx context.Context) (*app, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}

	a.mgr.InitializeAuth(ctx)
	if !a.mgr.IsAuthenticated() {
		return nil, errors.NewNotLoggedInError()
	}
	return a, nil
}
