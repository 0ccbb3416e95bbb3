package gcp

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/clouds/pricingapi"
	"cloudprice/core/catalog"
	"cloudprice/internal/logging"
)

// fallbackPerTBMonth is used when the service returns no usable local
// SSD rate.
var fallbackPerTBMonth = decimal.RequireFromString("81.920")

// LocalSSDAdapter fetches local SSD capacity pricing.
type LocalSSDAdapter struct {
	api pricingapi.Querier
}

// NewLocalSSDAdapter creates a local SSD adapter over the given
// pricing querier.
func NewLocalSSDAdapter(api pricingapi.Querier) *LocalSSDAdapter {
	return &LocalSSDAdapter{api: api}
}

// Fetch retrieves the per-TB monthly local SSD rate for a region. On
// upstream failure or when no on-demand SSD product matches, the
// hardcoded fallback rate is returned so callers always get a price.
func (a *LocalSSDAdapter) Fetch(ctx context.Context, region string) catalog.LocalSSDPricing {
	records, err := a.api.Products(ctx, pricingapi.Query{
		Filter: pricingapi.ProductFilter{
			Vendor:  "gcp",
			Service: "Compute Engine",
			Region:  region,
			Attributes: []pricingapi.AttributeFilter{
				{Key: "resourceGroup", Value: "LocalSSD"},
			},
		},
		Price:          pricingapi.PriceFilter{PurchaseOption: "OnDemand"},
		WithAttributes: true,
	})
	if err != nil {
		logging.Warn("local ssd price lookup failed, using fallback rate",
			zap.String("region", region), zap.Error(err))
		return catalog.LocalSSDPricing{PerTBMonth: fallbackPerTBMonth}
	}

	if perGB, ok := onDemandSSDRate(records); ok {
		return catalog.LocalSSDPricing{PerTBMonth: perGB.Mul(decimal.NewFromInt(1024))}
	}

	logging.Warn("no local ssd product matched, using fallback rate",
		zap.String("region", region))
	return catalog.LocalSSDPricing{PerTBMonth: fallbackPerTBMonth}
}

// onDemandSSDRate scans for the plain on-demand local storage product,
// skipping preemptible and reserved variants.
func onDemandSSDRate(records []pricingapi.Record) (decimal.Decimal, bool) {
	for _, r := range records {
		desc := r.Attributes["description"]
		if !strings.HasPrefix(desc, "SSD backed Local Storage") {
			continue
		}
		if strings.Contains(desc, "Preemptible") || strings.Contains(desc, "Reserved") {
			continue
		}
		if len(r.Prices) == 0 {
			continue
		}
		if rate, err := decimal.NewFromString(r.Prices[0]); err == nil && rate.IsPositive() {
			return rate, true
		}
	}
	return decimal.Zero, false
}
