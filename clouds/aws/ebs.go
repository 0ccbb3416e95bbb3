package aws

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/clouds/pricingapi"
	"cloudprice/core/catalog"
	"cloudprice/internal/logging"
)

// ebsVolumeTypes is the fixed set fetched for every region.
var ebsVolumeTypes = []string{"gp3", "gp2", "io2", "io1"}

// iopsVolumeTypes marks the volume types carrying a provisioned IOPS
// rate alongside storage.
var iopsVolumeTypes = map[string]bool{"gp3": true, "io2": true}

// EBSAdapter fetches EBS volume pricing.
type EBSAdapter struct {
	api pricingapi.Querier
}

// NewEBSAdapter creates an EBS adapter over the given pricing querier.
func NewEBSAdapter(api pricingapi.Querier) *EBSAdapter {
	return &EBSAdapter{api: api}
}

// Fetch retrieves per-GB and per-IOPS monthly rates for the standard
// volume types in each region. Individual lookup failures are logged
// and leave that volume type out of the result; the call itself never
// fails.
func (a *EBSAdapter) Fetch(ctx context.Context, regions []string) []catalog.RegionVolumePricing {
	out := make([]catalog.RegionVolumePricing, 0, len(regions))
	for _, region := range regions {
		rec := catalog.RegionVolumePricing{
			Region:  region,
			Volumes: make(map[string]catalog.VolumeRates, len(ebsVolumeTypes)),
		}
		for _, vt := range ebsVolumeTypes {
			rates, err := a.fetchVolumeType(ctx, region, vt)
			if err != nil {
				logging.Warn("ebs price lookup failed",
					zap.String("region", region),
					zap.String("volume_type", vt),
					zap.Error(err))
				continue
			}
			rec.Volumes[vt] = rates
		}
		out = append(out, rec)
	}
	return out
}

func (a *EBSAdapter) fetchVolumeType(ctx context.Context, region, volumeType string) (catalog.VolumeRates, error) {
	var rates catalog.VolumeRates

	storage, err := a.api.Products(ctx, pricingapi.Query{
		Filter: pricingapi.ProductFilter{
			Vendor:        "aws",
			Service:       "AmazonEC2",
			ProductFamily: "Storage",
			Region:        region,
			Attributes: []pricingapi.AttributeFilter{
				{Key: "volumeApiName", Value: volumeType},
			},
		},
		Price: pricingapi.PriceFilter{PurchaseOption: "on_demand"},
	})
	if err != nil {
		return rates, err
	}
	rates.PerGBMonth = firstPrice(storage)

	if !iopsVolumeTypes[volumeType] {
		return rates, nil
	}

	iops, err := a.api.Products(ctx, pricingapi.Query{
		Filter: pricingapi.ProductFilter{
			Vendor:        "aws",
			Service:       "AmazonEC2",
			ProductFamily: "System Operation",
			Region:        region,
			Attributes: []pricingapi.AttributeFilter{
				{Key: "volumeApiName", Value: volumeType},
				{Key: "group", Value: "EBS IOPS"},
			},
		},
		Price: pricingapi.PriceFilter{PurchaseOption: "on_demand"},
	})
	if err != nil {
		return rates, err
	}
	rate := firstPrice(iops)
	rates.PerIOPSMonth = rate

	// The service reports one io2 IOPS rate; all three provisioned
	// tiers carry it until tiered rates are exposed upstream.
	if volumeType == "io2" {
		rates.PerTier1IOPSMonth = rate
		rates.PerTier2IOPSMonth = rate
		rates.PerTier3IOPSMonth = rate
	}
	return rates, nil
}

// firstPrice returns the first parseable price of the first record, or
// zero.
func firstPrice(records []pricingapi.Record) decimal.Decimal {
	for _, r := range records {
		for _, raw := range r.Prices {
			if price, err := decimal.NewFromString(raw); err == nil {
				return price
			}
		}
	}
	return decimal.Zero
}
