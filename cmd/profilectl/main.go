package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmcdole/profilekeeper/pkg/logging"
	"github.com/mmcdole/profilekeeper/pkg/profiles"
	"github.com/mmcdole/profilekeeper/pkg/redissource"
)

var version = "dev" // Will be set during build

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand
type app struct {
	cfgFile     string
	storePath   string
	debug       bool
	showVersion bool
	user        string
	password    string

	config Config
	store  *profiles.Store
	closer func() error
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "Player profile store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `profilectl manages player profiles kept in a single JSON collection.

Configuration may come from a JSON file (--config) and PROFILECTL_* environment
variables:
{
    "store_path": "resources/data/users.json",
    "lock_store": false,
    "redis_url": "",
    "redis_key": "profilekeeper:profiles",
    "app_log_path": "",
    "audit_log_path": "log/profiles-audit.log",
    "log_level": "info"
}`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.showVersion {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "profilectl %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&a.storePath, "store", "", "path to the profile collection (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&a.user, "user", "u", "", "user id")
	rootCmd.PersistentFlags().StringVarP(&a.password, "password", "p", "", "password")
	rootCmd.Flags().BoolVarP(&a.showVersion, "version", "v", false, "show version information")

	rootCmd.AddCommand(
		newRegisterCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newScoreCmd(a),
		newAvatarCmd(a),
		newLevelScoreCmd(a),
		newLevelPathCmd(a),
		newTypeCmd(a),
	)

	return rootCmd
}

func (a *app) setup() error {
	cfgFile := a.cfgFile
	if cfgFile != "" && !filepath.IsAbs(cfgFile) {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		cfgFile = abs
	}

	if err := LoadConfig(cfgFile, &a.config); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.storePath != "" {
		a.config.StorePath = a.storePath
	}
	level := logging.ParseLevel(a.config.LogLevel)
	if a.debug {
		level = logging.LogLevelDebug
	}

	if err := logging.Initialize(a.config.AuditLogPath, a.config.AppLogPath, level); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	source, err := a.openSource()
	if err != nil {
		return err
	}

	a.store = profiles.NewStore(source)
	if err := a.store.Load(); err != nil {
		if !errors.Is(err, profiles.ErrNoCollection) {
			// Refuse to continue: the next write would replace the unreadable collection
			return err
		}
		logging.App.Warn("Starting with an empty profile collection", "location", source.Location())
	}
	return nil
}

func (a *app) openSource() (profiles.Source, error) {
	if a.config.RedisURL != "" {
		cfg := redissource.DefaultConfig()
		cfg.URL = a.config.RedisURL
		if a.config.RedisKey != "" {
			cfg.Key = a.config.RedisKey
		}
		src, err := redissource.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		a.closer = src.Close
		return src, nil
	}

	var opts []profiles.FileSourceOption
	if a.config.LockStore {
		opts = append(opts, profiles.WithLocking())
	}
	return profiles.NewFileSource(a.config.StorePath, opts...), nil
}

func (a *app) teardown() error {
	var err error
	if a.closer != nil {
		err = a.closer()
		a.closer = nil
	}
	if cerr := logging.Audit.Close(); err == nil {
		err = cerr
	}
	if cerr := logging.App.Close(); err == nil {
		err = cerr
	}
	return err
}

// session authenticates the --user/--password pair
func (a *app) session() (*profiles.Session, error) {
	if a.user == "" {
		return nil, fmt.Errorf("--user is required")
	}
	return profiles.Authenticate(a.store, a.user, a.password)
}
