package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"masjid/internal/backend"
	"masjid/internal/cli"
	"masjid/internal/config"
	applog "masjid/internal/log"
)

var Version = "dev"

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.Backend
}

func main() {
	a := &app{}
	if err := execute(a, newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and closes the backend however the command ended.
func execute(a *app, cmd *cobra.Command) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return cmd.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "masjid-admin",
		Short:         "Maintenance tasks for the masjid ledger",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()
			a.logger = applog.NewForLevel(applog.ComponentAdmin, os.Getenv("LOG_LEVEL"))
			a.cfg = config.Load()
			return a.cfg.Validate()
		},
	}

	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(reconcileCmd(a))
	rootCmd.AddCommand(summaryCmd(a))

	return rootCmd
}

// openBackend builds the configured backend once per invocation.
func (a *app) openBackend(cmd *cobra.Command) (*backend.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	// Events are published only by the server.
	bcfg.AMQPURL = ""
	b, err := backend.NewFactory(a.logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}
	a.backend = b
	return b, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	b := a.backend
	a.backend = nil
	return b.Close()
}
