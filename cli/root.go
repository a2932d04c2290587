// Package cli implements saloonctl, a command line client that opens a
// saloon store directly and runs one operation per invocation.
package cli

import (
	"context"
	"fmt"

	"github.com/saloonhub/saloonstore/config"
	"github.com/saloonhub/saloonstore/saloon/service"
	"github.com/saloonhub/saloonstore/storage/kv"
	"github.com/saloonhub/saloonstore/storage/kv/plugins"
	"github.com/saloonhub/saloonstore/utils/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Caller     string
	Driver     string
	StorePath  string
	LogLevel   string
}

// NewRootCommand creates the root command for saloonctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "saloonctl",
		Short: "Manage saloons and the services they offer",
		Long: `Manage saloons and the services they offer.

Every command opens the configured store, performs one operation and
prints the result as JSON. Commands that change a saloon act on behalf
of --caller, which must match the saloon's owner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Caller, "caller", "", "owner token of the caller")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", fmt.Sprintf("storage driver, one of %v", plugins.Names()))
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store-path", "", "path of the store")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewAddServiceCommand(opts))
	cmd.AddCommand(NewDeleteServiceCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))

	return cmd
}

// config loads the configuration and applies flag overrides
func (opts *RootOptions) config() (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)

	if err != nil {
		return config.Config{}, err
	}

	if opts.Driver != "" {
		cfg.Storage.Driver = opts.Driver
	}

	if opts.StorePath != "" {
		cfg.Storage.Path = opts.StorePath
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// run opens the store, runs fn against it and closes it again.
// The context passed to fn carries the caller as a log field.
func (opts *RootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, s *service.Service, out output) error) error {
	cfg, err := opts.config()

	if err != nil {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}

	logger, err := log.New(cfg.Log.Level, cfg.Log.Development)

	if err != nil {
		return WrapExitError(ExitFailure, "could not build logger", err)
	}

	defer logger.Sync()

	store, err := openStore(cfg.Storage)

	if err != nil {
		return WrapExitError(ExitFailure, "could not open store", err)
	}

	s, err := service.New(service.Config{
		Store:        store,
		Logger:       logger,
		MaxValueSize: cfg.MaxValueSize,
	})

	if err != nil {
		store.Close()

		return WrapExitError(ExitFailure, "could not open saloon store", err)
	}

	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("could not close store", zap.Error(err))
		}
	}()

	ctx := log.WithLogger(cmd.Context(), logger)
	ctx = log.WithFields(ctx, zap.String("caller", opts.Caller), zap.String("command", cmd.Name()))

	return fn(ctx, s, output{w: cmd.OutOrStdout()})
}

func openStore(storage config.StorageConfig) (kv.Store, error) {
	plugin := plugins.Plugin(storage.Driver)

	if plugin == nil {
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}

	return plugin.NewStore(kv.PluginOptions{"path": storage.Path})
}
