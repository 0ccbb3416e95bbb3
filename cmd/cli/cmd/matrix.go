// Package cmd - matrix command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cloudprice/core/catalog"
)

var (
	matrixRegion        string
	matrixPurchaseType  string
	matrixTerm          string
	matrixOfferingClass string
	matrixPayment       string
	matrixPlatform      string
	matrixCUDType       string
	matrixFormat        string
)

// matrixCmd represents the matrix command
var matrixCmd = &cobra.Command{
	Use:   "matrix <provider> <product>",
	Short: "Build the regional price matrix for a product line",
	Long: `Price every configured instance type of a product in one region
and print the ordered matrix.

Examples:
  cloudprice matrix aws ec2 --region us-east-1
  cloudprice matrix gcp compute --region us-central1 --purchase-type preemptible
  cloudprice matrix planetscale psdb --region us-east --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runMatrix,
}

func init() {
	matrixCmd.Flags().StringVarP(&matrixRegion, "region", "r", "", "pricing region")
	matrixCmd.Flags().StringVar(&matrixPurchaseType, "purchase-type", "", "purchase type")
	matrixCmd.Flags().StringVar(&matrixTerm, "term", "", "purchase term (1yr, 3yr)")
	matrixCmd.Flags().StringVar(&matrixOfferingClass, "offering-class", "", "reserved offering class")
	matrixCmd.Flags().StringVar(&matrixPayment, "payment-option", "", "reserved payment option")
	matrixCmd.Flags().StringVar(&matrixPlatform, "platform", "", "operating platform")
	matrixCmd.Flags().StringVar(&matrixCUDType, "cud-type", "", "committed-use type")
	matrixCmd.Flags().StringVarP(&matrixFormat, "format", "f", "table", "output format (table, json)")
}

func runMatrix(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	matrix, err := eng.RegionalMatrix(ctx,
		catalog.Provider(args[0]), catalog.ProductLine(args[1]),
		catalog.Options{
			Region:        matrixRegion,
			PurchaseType:  matrixPurchaseType,
			PurchaseTerm:  matrixTerm,
			OfferingClass: matrixOfferingClass,
			PaymentOption: matrixPayment,
			Platform:      matrixPlatform,
			CUDType:       matrixCUDType,
		})
	if err != nil {
		return err
	}

	if matrixFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matrix.Table())
	}

	for _, row := range matrix.Table() {
		fmt.Println(strings.Join(row, "\t"))
	}
	return nil
}
