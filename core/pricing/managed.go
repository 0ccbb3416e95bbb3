package pricing

import (
	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

// Managed database clusters run three tablets plus three gateways by
// default; shard and replica counts scale the replica portion of the
// monthly rate.
const (
	defaultTablets  = 3
	defaultGateways = 3
	includedDataGB  = 10
)

var (
	three = decimal.NewFromInt(3)

	// extraDataPerGBMonth is the monthly charge per GB past the
	// included allowance.
	extraDataPerGBMonth = decimal.RequireFromString("1.50")

	// managedClassMonthly is the managed fee schedule in monthly
	// dollars per vCPU.
	managedClassMonthly = map[catalog.InstanceClass]decimal.Decimal{
		catalog.ClassMemory:  decimal.RequireFromString("30.66"),
		catalog.ClassCompute: decimal.RequireFromString("20.44"),
		catalog.ClassGeneral: decimal.RequireFromString("22.63"),
		catalog.ClassMetal:   decimal.RequireFromString("30.66"),
	}

	// managedStorageTBMonth is the monthly managed fee per TB of
	// stored data. Metal clusters with bundled storage pay none.
	managedStorageTBMonth = decimal.NewFromInt(100)
)

// ManagedMonthlyCost computes the monthly price of a managed database
// cluster from its base rate and the sizing options. The base rate
// already covers one shard with three replicas and three gateways;
// adjustments replace or extend those portions.
func ManagedMonthlyCost(p *catalog.Product, opts catalog.Options) (decimal.Decimal, error) {
	if p.MonthlyRate.IsZero() {
		return decimal.Zero, errors.NoPrice(p.InstanceType)
	}

	shards := int64(opts.Shards)
	if shards < 1 {
		shards = 1
	}
	shardCount := decimal.NewFromInt(shards)

	result := p.MonthlyRate

	if shards > 1 {
		base := p.ReplicaRate.Mul(three)
		result = result.Sub(base).Add(base.Mul(shardCount))
	}

	if opts.ExtraReplicas > 0 {
		result = result.Add(p.ReplicaRate.Mul(decimal.NewFromInt(int64(opts.ExtraReplicas))))
	}

	if opts.ExtraGatewayReplicas > 0 {
		result = result.Add(p.GatewayRate.Mul(decimal.NewFromInt(int64(opts.ExtraGatewayReplicas))))
	}

	if opts.GatewayOverridePrice.IsPositive() {
		totalGateways := decimal.NewFromInt(defaultGateways + int64(opts.ExtraGatewayReplicas))
		result = result.Sub(p.GatewayRate.Mul(shardCount).Mul(totalGateways).Div(three))
		result = result.Add(opts.GatewayOverridePrice.Mul(shardCount).Mul(totalGateways).Div(three))
	}

	if opts.DataSizeGB > includedDataGB {
		extra := decimal.NewFromFloat(opts.DataSizeGB - includedDataGB)
		result = result.Add(extra.Mul(extraDataPerGBMonth))
	}

	return result, nil
}

// ManagedClassHourly returns the hourly managed fee per vCPU for an
// instance class.
func ManagedClassHourly(class catalog.InstanceClass) (decimal.Decimal, error) {
	rate, ok := managedClassMonthly[class]
	if !ok {
		return decimal.Zero, errors.NotFound("instance class", string(class))
	}
	return rate.Div(HoursPerMonth), nil
}

// ManagedTabletHourly returns the hourly managed fee for a cluster's
// tablets: the class rate scaled by vCPU count and tablet count.
func ManagedTabletHourly(class catalog.InstanceClass, vcpu decimal.Decimal, extraReplicas int) (decimal.Decimal, error) {
	rate, err := ManagedClassHourly(class)
	if err != nil {
		return decimal.Zero, err
	}
	tablets := decimal.NewFromInt(defaultTablets + int64(extraReplicas))
	return rate.Mul(vcpu).Mul(tablets), nil
}

// ManagedGatewayHourly returns the hourly managed fee for a cluster's
// gateways, billed at the compute class rate.
func ManagedGatewayHourly(vcpu decimal.Decimal, extraReplicas int) (decimal.Decimal, error) {
	rate, err := ManagedClassHourly(catalog.ClassCompute)
	if err != nil {
		return decimal.Zero, err
	}
	gateways := decimal.NewFromInt(defaultGateways + int64(extraReplicas))
	return rate.Mul(vcpu).Mul(gateways), nil
}

// ManagedStorageHourly returns the hourly managed storage fee for the
// given data size. Metal clusters bundle storage and pay nothing.
func ManagedStorageHourly(class catalog.InstanceClass, dataSizeGB float64) decimal.Decimal {
	if class == catalog.ClassMetal {
		return decimal.Zero
	}
	tb := decimal.NewFromFloat(dataSizeGB).Div(decimal.NewFromInt(1024))
	return managedStorageTBMonth.Div(HoursPerMonth).Mul(tb)
}
