// Package cmd - volume command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
)

var (
	volumeRegion  string
	volumeType    string
	storageType   string
	volumeSize    float64
	volumeMonthly bool
)

// volumeCmd represents the volume command
var volumeCmd = &cobra.Command{
	Use:   "volume <provider> <product>",
	Short: "Resolve the hourly price of a storage volume",
	Long: `Resolve the hourly price of a storage volume by type and size.

Examples:
  cloudprice volume aws ebs --region us-east-1 --volume-type gp3 --size 1000
  cloudprice volume aws ebs --region us-east-1 --volume-type io2 --storage-type iops --size 48
  cloudprice volume gcp gcs --region us-central1 --volume-type localssd --size 750`,
	Args: cobra.ExactArgs(2),
	RunE: runVolume,
}

func init() {
	volumeCmd.Flags().StringVarP(&volumeRegion, "region", "r", "", "pricing region")
	volumeCmd.Flags().StringVar(&volumeType, "volume-type", "", "volume type (gp3, io2, localssd, ...)")
	volumeCmd.Flags().StringVar(&storageType, "storage-type", "", "rate dimension (storage, iops)")
	volumeCmd.Flags().Float64Var(&volumeSize, "size", 0, "volume size in GB (or thousands of IOPS)")
	volumeCmd.Flags().BoolVarP(&volumeMonthly, "monthly", "m", false, "also print the monthly price")
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	hourly, err := eng.VolumePrice(ctx,
		catalog.Provider(args[0]), catalog.ProductLine(args[1]),
		catalog.Options{
			Region:      volumeRegion,
			VolumeType:  volumeType,
			StorageType: storageType,
			VolumeSize:  volumeSize,
		})
	if err != nil {
		return err
	}

	fmt.Printf("%s: $%s/hour\n", volumeType, hourly.StringFixed(6))
	if volumeMonthly {
		fmt.Printf("%s: $%s/month\n", volumeType, hourly.Mul(pricing.HoursPerMonth).StringFixed(2))
	}
	return nil
}

// regionsCmd lists managed database regions
var regionsCmd = &cobra.Command{
	Use:   "regions [provider]",
	Short: "List managed database regions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		provider := catalog.Provider("")
		if len(args) > 0 {
			provider = catalog.Provider(args[0])
		}

		regions, err := eng.ManagedRegions(context.Background(), provider)
		if err != nil {
			return err
		}
		for _, r := range regions {
			fmt.Println(r)
		}
		return nil
	},
}
