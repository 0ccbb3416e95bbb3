package pricing

import (
	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

// HoursPerMonth is the flat hour count used to convert between hourly
// and monthly rates for every provider.
var HoursPerMonth = decimal.NewFromInt(730)

// HourlyCost resolves the hourly price of a product under the given
// options. A product whose relevant price is missing or zero yields a
// no-price error; zero is treated as an upstream data defect, never a
// real rate.
func HourlyCost(line catalog.ProductLine, p *catalog.Product, opts catalog.Options) (decimal.Decimal, error) {
	switch line {
	case catalog.ProductEC2:
		return ec2Hourly(p, opts)
	case catalog.ProductCompute:
		return computeHourly(p, opts)
	case catalog.ProductPSDB:
		monthly, err := ManagedMonthlyCost(p, opts)
		if err != nil {
			return decimal.Zero, err
		}
		return monthly.Div(HoursPerMonth), nil
	}
	return decimal.Zero, errors.Newf(errors.TypeInternal, "no hourly cost resolver for product line %q", line)
}

// MonthlyCost resolves the monthly price of a product as the hourly
// rate at 730 hours, for every line. Managed database products price
// monthly-first internally, but the emitted monthly is still derived
// from the resolved hourly so the two figures always agree.
func MonthlyCost(line catalog.ProductLine, p *catalog.Product, opts catalog.Options) (decimal.Decimal, error) {
	hourly, err := HourlyCost(line, p, opts)
	if err != nil {
		return decimal.Zero, err
	}
	return hourly.Mul(HoursPerMonth), nil
}

func ec2Hourly(p *catalog.Product, opts catalog.Options) (decimal.Decimal, error) {
	platform := opts.Platform
	if platform == "" {
		platform = "linux"
	}

	set, ok := p.PriceSetFor(opts.Region, platform)
	if !ok {
		return decimal.Zero, errors.NoPrice(p.InstanceType)
	}

	switch opts.PurchaseType {
	case "", "ondemand":
		if set.OnDemand.IsZero() {
			return decimal.Zero, errors.NoPrice(p.InstanceType)
		}
		return set.OnDemand, nil
	case "reserved":
		key := ReservedKey(opts.PurchaseTerm, opts.OfferingClass, opts.PaymentOption)
		price, ok := set.Reserved[key]
		if !ok || price.IsZero() {
			return decimal.Zero, errors.NoPrice(p.InstanceType)
		}
		return price, nil
	}
	return decimal.Zero, errors.NoPrice(p.InstanceType)
}

func computeHourly(p *catalog.Product, opts catalog.Options) (decimal.Decimal, error) {
	set, ok := p.PriceSetFor(opts.Region, "linux")
	if !ok {
		return decimal.Zero, errors.NoPrice(p.InstanceType)
	}

	switch opts.PurchaseType {
	case "", "ondemand":
		if set.OnDemand.IsZero() {
			return decimal.Zero, errors.NoPrice(p.InstanceType)
		}
		return set.OnDemand, nil
	case "committed-use", "committed":
		key := CommittedUseKey(opts.PurchaseTerm, opts.CUDType)
		price, ok := set.Reserved[key]
		if !ok || price.IsZero() {
			return decimal.Zero, errors.NoPrice(p.InstanceType)
		}
		return price, nil
	case "preemptible":
		if set.Preemptible.IsZero() {
			return decimal.Zero, errors.NoPrice(p.InstanceType)
		}
		return set.Preemptible, nil
	}
	return decimal.Zero, errors.NoPrice(p.InstanceType)
}
