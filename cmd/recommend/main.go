package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"algolia-recommend/client"
	"algolia-recommend/config"
	"algolia-recommend/logging"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg    *config.Config
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "recommend",
		Short: "Query the recommendations API",
		Long: `recommend sends batched recommendation requests and prints the JSON answer.

Settings come from recommend.yaml (or the file named by RECOMMEND_CONFIG)
and RECOMMEND_* environment variables.

Examples:
  recommend trending-items products --max 5
  recommend related products 42 --model bought-together
  recommend trending-facets products brand
  recommend hosts
  recommend registry announce https://APPID-dsn.algolia.net`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			c, err := config.NewClient(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			a.client = c
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "", "Override log.level (trace, debug, info, warn, error, disabled)")

	root.AddCommand(newTrendingItemsCmd(a))
	root.AddCommand(newRelatedCmd(a))
	root.AddCommand(newTrendingFacetsCmd(a))
	root.AddCommand(newHostsCmd(a))
	root.AddCommand(newRegistryCmd(a))
	return root
}

// loadConfig reads settings and sets up logging.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	lc := cfg.Logging()
	lc.Output = cmd.ErrOrStderr()
	logging.Init(lc)

	a.cfg = cfg
	return nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
