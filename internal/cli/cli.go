// Package cli implements netctl, a command-line client for querying a
// logistics network loaded from a seed file.
//
// Every command reads the seed named by --seed (JSON or TOML), builds the
// network in memory and prints its answer to stdout. --json switches to
// machine-readable output.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"logistics-network-service/internal/adapters/repositories"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/services"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type options struct {
	seedPath string
	jsonOut  bool
	verbose  bool
}

// NewRootCommand builds the netctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "netctl",
		Short:         "Query a logistics network: routes, paths, traversals and dispatch plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel.String()
			if opts.verbose {
				level = log.DebugLevel.String()
			}
			cmd.SetContext(obs.WithLogger(cmd.Context(), obs.NewLogger(os.Stderr, level)))
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.seedPath, "seed", "s", "data/seeds/network.json", "seed file (.json or .toml)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRouteCmd(opts))
	root.AddCommand(newPathCmd(opts))
	root.AddCommand(newTraverseCmd(opts))
	root.AddCommand(newNeighborsCmd(opts))
	root.AddCommand(newReachableCmd(opts))
	root.AddCommand(newLocationsCmd(opts))
	root.AddCommand(newPlanCmd(opts))

	return root
}

// Execute runs netctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout).ExecuteContext(ctx)
}

func loadNetwork(ctx context.Context, opts *options) (*services.Network, error) {
	network, _, err := loadSeed(ctx, opts)
	return network, err
}

// loadSeed builds the network and returns the seed repository so callers
// can also read its cargo.
func loadSeed(ctx context.Context, opts *options) (*services.Network, *repositories.SeedRepository, error) {
	seed, err := repositories.ReadSeed(opts.seedPath)
	if err != nil {
		return nil, nil, err
	}
	repo := repositories.NewSeedRepository(seed)
	network, err := services.LoadNetwork(ctx, repo)
	if err != nil {
		return nil, nil, err
	}
	obs.FromContext(ctx).Debug("network loaded", "seed", opts.seedPath, "locations", network.Size(), "links", network.LinkCount())
	return network, repo, nil
}

func printResult(cmd *cobra.Command, opts *options, v any, text string) error {
	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func joinStops(stops []string) string {
	return strings.Join(stops, " -> ")
}
