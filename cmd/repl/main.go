package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gamegraph/config"
	"gamegraph/display"
	"gamegraph/graphdb"
	"gamegraph/ingest"
)

var (
	configFile string
	guided     bool
)

var rootCmd = &cobra.Command{
	Use:   "gamegraph",
	Short: "Interactive Steam game recommendations",
	Long: `gamegraph loads a Steam catalog into a game attribute graph and recommends
games that share developers, genres, categories and tags with the ones you played.

Examples:
  gamegraph                          # query shell, type .help for statements
  gamegraph --guided                 # answer questions instead of writing queries
  gamegraph --data datasets/steam.csv --log-level debug`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (toml, yaml or json)")
	rootCmd.Flags().String("data", "", "path to the Steam catalog CSV")
	rootCmd.Flags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&guided, "guided", false, "ask questions in a loop instead of reading queries")
}

func run(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("data.path", cmd.Flags().Lookup("data")); err != nil {
		return errors.Wrap(err, "bind --data")
	}
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return errors.Wrap(err, "bind --log-level")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := logrus.StandardLogger()
	if err := config.ConfigureLogging(logger, cfg.Log); err != nil {
		return err
	}
	format, err := display.ParseFormat(cfg.Display.Format)
	if err != nil {
		return err
	}

	graph, err := ingest.LoadGameGraph(cfg.Data.Path)
	if err != nil {
		return err
	}
	db := graphdb.NewGameDB(graph, cfg.Options())

	rs := newReplState(db, format, os.Stdin, os.Stdout, logger)
	if guided {
		rs.runGuided()
	} else {
		rs.runREPL()
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, pterm.Red("Error: "+err.Error()))
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, pterm.Yellow("Hint: "+hint))
		}
		os.Exit(1)
	}
}
