package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
)

// Version is set at build time.
var Version = "dev"

// app holds global flags and state shared by all commands.
type app struct {
	cfgFile  string
	envFile  string
	network  string
	jsonOut  bool
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "harness",
		Short: "Deploy the fund-me contracts and their mocks",
		Long: `harness runs deploy tasks against a configured network.

On development networks (hardhat, localhost) a MockV3Aggregator price feed is
deployed first; on public networks the configured price feed is used.

Configuration (in order of priority):
  1. Command-line flags (--network, --config)
  2. Environment variables (HARNESS_*, SEPOLIA_URL, PRIVATE_KEY, ETHERSCAN_API_KEY)
  3. .env file in the working directory
  4. Config file (./harness.yaml or ./config/harness.yaml)

Get started:
  $ harness deploy                    # deploy on the in-process hardhat chain
  $ harness deploy --network sepolia  # deploy on Sepolia
  $ harness deployments list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./harness.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to import")
	rootCmd.PersistentFlags().StringVarP(&a.network, "network", "n", "", "network to use (default from config)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(
		newDeployCmd(a),
		newNetworksCmd(a),
		newDeploymentsCmd(a),
		newAccountsCmd(a),
		newPriceFeedCmd(a),
		newConfigCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup configures logging and loads configuration.
func (a *app) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return apierrors.ErrInvalidConfig.WithMessagef("invalid log level %q", a.logLevel)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(a.logger)

	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(config.Options{ConfigFile: a.cfgFile, EnvFile: a.envFile})
	if err != nil {
		return apierrors.ErrInvalidConfig.Wrap(err)
	}
	a.cfg = cfg
	return nil
}

// selectedNetwork returns the network chosen by flag, or the default network.
func (a *app) selectedNetwork() (string, config.NetworkConfig, error) {
	name := a.network
	if name == "" {
		name = a.cfg.DefaultNetwork
	}
	nc, ok := a.cfg.Network(name)
	if !ok {
		return "", config.NetworkConfig{}, apierrors.ErrUnknownNetwork.WithMessagef(
			"network %q is not configured (available: %s)", name, strings.Join(a.cfg.NetworkNames(), ", "))
	}
	return name, nc, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "harness version %s\n", Version)
		},
	}
}

// Output helpers

// printJSON outputs data as formatted JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError prints an error message.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	if w != os.Stderr {
		red.DisableColor()
	}
	fmt.Fprintf(w, "%s %s\n", red.Sprint("Error:"), err.Error())
}

// newTable creates a table writer for command output.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	return table
}
