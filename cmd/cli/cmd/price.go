// Package cmd - price command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
)

var (
	priceRegion   string
	purchaseType  string
	purchaseTerm  string
	offeringClass string
	paymentOption string
	platform      string
	cudType       string
	dataSizeGB    float64
	shards        int
	extraReplicas int
	extraGateways int
	gatewaySKU    string
	showMonthly   bool
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <provider> <product> <instance-type>",
	Short: "Resolve the hourly price of one instance type",
	Long: `Resolve the hourly price of a single named instance type.

Examples:
  cloudprice price aws ec2 m5.xlarge --region us-east-1
  cloudprice price aws ec2 m5.xlarge --region us-east-1 --purchase-type reserved --term 3yr
  cloudprice price planetscale psdb PS-80 --shards 2 --data-size 50`,
	Args: cobra.ExactArgs(3),
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVarP(&priceRegion, "region", "r", "", "pricing region")
	priceCmd.Flags().StringVar(&purchaseType, "purchase-type", "", "purchase type (ondemand, reserved, committed-use, preemptible)")
	priceCmd.Flags().StringVar(&purchaseTerm, "term", "", "purchase term (1yr, 3yr)")
	priceCmd.Flags().StringVar(&offeringClass, "offering-class", "", "reserved offering class (standard, convertible)")
	priceCmd.Flags().StringVar(&paymentOption, "payment-option", "", "reserved payment option (no_upfront, partial_upfront, all_upfront)")
	priceCmd.Flags().StringVar(&platform, "platform", "", "operating platform (linux, windows, rhel, suse)")
	priceCmd.Flags().StringVar(&cudType, "cud-type", "", "committed-use type (flexi, resource)")
	priceCmd.Flags().Float64Var(&dataSizeGB, "data-size", 0, "managed cluster data size in GB")
	priceCmd.Flags().IntVar(&shards, "shards", 0, "managed cluster shard count")
	priceCmd.Flags().IntVar(&extraReplicas, "extra-replicas", 0, "managed cluster extra replicas")
	priceCmd.Flags().IntVar(&extraGateways, "extra-gateways", 0, "managed cluster extra gateway replicas")
	priceCmd.Flags().StringVar(&gatewaySKU, "gateway-sku", "", "override gateway SKU name")
	priceCmd.Flags().BoolVarP(&showMonthly, "monthly", "m", false, "also print the monthly price")
}

func runPrice(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	provider := catalog.Provider(args[0])
	product := catalog.ProductLine(args[1])
	instanceType := args[2]

	opts := catalog.Options{
		Region:               priceRegion,
		PurchaseType:         purchaseType,
		PurchaseTerm:         purchaseTerm,
		OfferingClass:        offeringClass,
		PaymentOption:        paymentOption,
		Platform:             platform,
		CUDType:              cudType,
		DataSizeGB:           dataSizeGB,
		Shards:               shards,
		ExtraReplicas:        extraReplicas,
		ExtraGatewayReplicas: extraGateways,
	}

	if gatewaySKU != "" {
		rate, err := eng.GatewayRate(ctx, gatewaySKU)
		if err != nil {
			return err
		}
		opts.GatewayOverridePrice = rate
	}

	hourly, err := eng.SingleInstancePrice(ctx, provider, product, instanceType, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s: $%s/hour\n", instanceType, hourly.StringFixed(6))
	if showMonthly {
		fmt.Printf("%s: $%s/month\n", instanceType, hourly.Mul(pricing.HoursPerMonth).StringFixed(2))
	}
	return nil
}
