// Package cmd provides the CLI commands for cloudprice.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cloudprice/clouds/pricingapi"
	"cloudprice/clouds/psdb"
	"cloudprice/core/engine"
	"cloudprice/internal/cache"
	"cloudprice/internal/config"
	"cloudprice/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cloudprice",
	Short: "Look up normalized cloud instance and volume pricing",
	Long: `cloudprice resolves instance and storage prices across AWS, GCP,
and managed database offerings through one normalized catalog.

Examples:
  cloudprice price aws ec2 m5.xlarge --region us-east-1
  cloudprice price gcp compute n2-standard-4 --region us-central1 --purchase-type committed-use
  cloudprice matrix planetscale psdb --region us-east
  cloudprice volume aws ebs --region us-east-1 --volume-type gp3 --size 1000`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON or HCL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file if given, applies the verbose
// flag, and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return cfg, nil
}

// newEngine wires the adapters from config.
func newEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	querier := pricingapi.NewClient(
		cfg.Upstream.Endpoint,
		cfg.Upstream.APIKey,
		cache.NewMemory(),
		time.Duration(cfg.Upstream.CacheTTLSeconds)*time.Second,
		cfg.Upstream.CacheVersion,
	)
	managed := psdb.NewClient(cfg.Managed.BaseURL)
	return engine.New(cfg, querier, managed), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cloudprice version 0.1.0")
	},
}
