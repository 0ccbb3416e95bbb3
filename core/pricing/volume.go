package pricing

import (
	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

// io2 IOPS tier boundaries, in thousands of provisioned IOPS.
const (
	io2Tier1Limit = 32
	io2Tier2Limit = 64
)

// EBSVolumeHourly resolves the hourly price of an EBS volume from a
// region's fetched rates. The monthly per-unit rate is scaled by the
// volume size and converted at 730 hours.
func EBSVolumeHourly(rec catalog.RegionVolumePricing, opts catalog.Options) (decimal.Decimal, error) {
	rates, ok := rec.Volumes[opts.VolumeType]
	if !ok {
		return decimal.Zero, errors.NoPrice(opts.VolumeType)
	}

	var rate decimal.Decimal
	switch opts.StorageType {
	case "iops":
		if opts.VolumeType == "io2" {
			rate = io2TierRate(rates, opts.VolumeSize)
		} else {
			rate = rates.PerIOPSMonth
		}
	default:
		rate = rates.PerGBMonth
	}

	if rate.IsZero() {
		return decimal.Zero, errors.NoPrice(opts.VolumeType)
	}

	size := decimal.NewFromFloat(opts.VolumeSize)
	return rate.Mul(size).Div(HoursPerMonth), nil
}

// io2TierRate picks the IOPS tier by provisioned volume: tier 1 below
// 32k, tier 2 below 64k, tier 3 above.
func io2TierRate(rates catalog.VolumeRates, size float64) decimal.Decimal {
	switch {
	case size < io2Tier1Limit:
		return rates.PerTier1IOPSMonth
	case size < io2Tier2Limit:
		return rates.PerTier2IOPSMonth
	default:
		return rates.PerTier3IOPSMonth
	}
}

// LocalSSDHourly resolves the hourly price of GCP local SSD capacity
// from the per-TB monthly rate.
func LocalSSDHourly(rec catalog.LocalSSDPricing, volumeSize float64) (decimal.Decimal, error) {
	if rec.PerTBMonth.IsZero() {
		return decimal.Zero, errors.NoPrice("localssd")
	}

	perGB := rec.PerTBMonth.Div(decimal.NewFromInt(1024))
	size := decimal.NewFromFloat(volumeSize)
	return perGB.Mul(size).Div(HoursPerMonth), nil
}
