package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gamegraph/config"
	"gamegraph/graphdb"
	"gamegraph/ingest"
	"gamegraph/server"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "gamegraph-server",
	Short: "Serve Steam game recommendations over HTTP",
	Long: `gamegraph-server loads a Steam catalog once and answers read-only
recommendation, similarity and query requests.

Examples:
  gamegraph-server --data datasets/steam.csv --addr :8080
  curl 'localhost:8080/api/games/Portal/recommendations?kinds=genre,tag&max_price=10'`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (toml, yaml or json)")
	rootCmd.Flags().String("data", "", "path to the Steam catalog CSV")
	rootCmd.Flags().String("addr", "", "listen address")
	rootCmd.Flags().String("log-level", "", "log level (trace, debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	for key, flag := range map[string]string{
		"data.path":   "data",
		"server.addr": "addr",
		"log.level":   "log-level",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind --%s", flag)
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := config.ConfigureLogging(logrus.StandardLogger(), cfg.Log); err != nil {
		return err
	}
	log := logrus.WithField("component", "Main")

	graph, err := ingest.LoadGameGraph(cfg.Data.Path)
	if err != nil {
		return err
	}
	db := graphdb.NewGameDB(graph, cfg.Options())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(db).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	log.Info("Server exited")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
