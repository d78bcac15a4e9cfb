// Package cli wires the cobra command tree to the planner store. Running the
// binary without a subcommand starts the TUI.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dayplan/internal/config"
	"dayplan/internal/logging"
	"dayplan/internal/planner"
	"dayplan/internal/storage"
	"dayplan/internal/ui"
)

// app holds what PersistentPreRunE opened for the running command.
type app struct {
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
	store     *planner.Store
}

var (
	current *app

	configPath  string
	backendFlag string
	dataFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Personal to-do list and calendar planner",
	Long: `dayplan keeps a list of dated tasks and a set of categories in a single
data file and shows them as a filterable list or a month calendar.

Run without a subcommand to open the interactive planner.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: openApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(current.store, current.cfg, current.logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is $DAYPLAN_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: json or sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "data file or database path (overrides config)")
}

// Execute runs the command tree and releases the store afterwards, whether
// or not the command succeeded.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeApp())
}

func openApp(cmd *cobra.Command, args []string) error {
	if skipsApp(cmd) {
		return nil
	}
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if dataFlag != "" {
		if cfg.Backend == storage.BackendSQLite {
			cfg.DBPath = dataFlag
		} else {
			cfg.DataPath = dataFlag
		}
	}

	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	logger = logger.With("cmd", cmd.Name())

	gw, err := storage.Open(cfg.Backend, cfg.StoragePath())
	if err != nil {
		logCloser.Close()
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store, err := planner.Open(gw, logger)
	if err != nil {
		gw.Close()
		logger.Error("load failed", "path", cfg.StoragePath(), "err", err)
		logCloser.Close()
		return fmt.Errorf("failed to load data: %w", err)
	}

	current = &app{cfg: cfg, logger: logger, logCloser: logCloser, store: store}
	return nil
}

// skipsApp reports whether cmd only prints text and needs no config, log or
// data file.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func closeApp() error {
	if current == nil {
		return nil
	}
	a := current
	current = nil
	return errors.Join(a.store.Close(), a.logCloser.Close())
}

// resolveID accepts a full task id or a unique prefix of one.
func resolveID(store *planner.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, err := store.Get(ref); err == nil {
		return ref, nil
	}
	var match string
	for _, t := range store.List() {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("id prefix %q is ambiguous", ref)
		}
		match = t.ID
	}
	if match == "" || ref == "" {
		return "", &planner.NotFoundError{Kind: "task", Key: ref}
	}
	return match, nil
}
