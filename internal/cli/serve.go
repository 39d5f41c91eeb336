package cli

import (
	"fmt"

	"geoflow-cli/internal/config"
	"geoflow-cli/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func newServeCmd(cfg config.Config) *cobra.Command {
	var (
		addr   string
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local GeoFlow server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cfg.LogLevel)
			store, err := server.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			log.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("serving")
			return server.New(store, log).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", cfg.Addr, "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path")
	return cmd
}

func newSeedCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo catalog and project in a fresh database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := server.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded demo catalog; project id: %s\n", server.DemoProjectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path")
	return cmd
}
