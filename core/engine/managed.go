package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cloudprice/clouds/psdb"
	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
	"cloudprice/internal/errors"
)

// ManagedRegions lists managed database region slugs, optionally
// filtered to one parent cloud provider.
func (e *Engine) ManagedRegions(ctx context.Context, provider catalog.Provider) ([]string, error) {
	regions, err := e.managed.Regions(ctx)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(regions))
	for _, r := range regions {
		if provider != "" && catalog.Provider(r.Provider) != provider {
			continue
		}
		slugs = append(slugs, r.Slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// ManagedSKUNames lists the priced cluster SKU names available in a
// managed region.
func (e *Engine) ManagedSKUNames(ctx context.Context, region string) ([]string, error) {
	if region == "" {
		region = defaultManagedRegion
	}
	skus, err := e.managed.ClusterSKUs(ctx, region)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skus))
	for _, sku := range skus {
		if sku.Rate == nil {
			continue
		}
		names = append(names, sku.Name)
	}
	return names, nil
}

// ManagedTabletHourly returns the hourly managed fee for the tablets
// of the named cluster size.
func (e *Engine) ManagedTabletHourly(ctx context.Context, region, instanceType string, extraReplicas int) (decimal.Decimal, error) {
	sku, err := e.findClusterSKU(ctx, region, instanceType)
	if err != nil {
		return decimal.Zero, err
	}
	products := psdb.BuildProducts([]psdb.ClusterSKU{*sku}, nil)
	if len(products) == 0 {
		return decimal.Zero, errors.NoPrice(instanceType)
	}
	return pricing.ManagedTabletHourly(products[0].Class, products[0].VCPU, extraReplicas)
}

// ManagedGatewayHourly returns the hourly managed fee for a cluster's
// gateways. The name may be a gateway SKU or a cluster size, in which
// case the cluster's default gateway is priced.
func (e *Engine) ManagedGatewayHourly(ctx context.Context, gatewaySKU string, extraReplicas int) (decimal.Decimal, error) {
	if !strings.Contains(gatewaySKU, "VTG") {
		cluster, err := e.findClusterSKU(ctx, "", gatewaySKU)
		if err != nil {
			return decimal.Zero, err
		}
		gatewaySKU = cluster.DefaultGateway
	}
	skus, err := e.managed.GatewaySKUs(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, sku := range skus {
		if sku.Name == gatewaySKU {
			return pricing.ManagedGatewayHourly(sku.CPU, extraReplicas)
		}
	}
	return decimal.Zero, errors.NotFound("gateway sku", gatewaySKU)
}

// ManagedStorageHourly returns the hourly managed storage fee for the
// given data size on the named cluster size.
func (e *Engine) ManagedStorageHourly(ctx context.Context, region, instanceType string, dataSizeGB float64) (decimal.Decimal, error) {
	sku, err := e.findClusterSKU(ctx, region, instanceType)
	if err != nil {
		return decimal.Zero, err
	}
	products := psdb.BuildProducts([]psdb.ClusterSKU{*sku}, nil)
	if len(products) == 0 {
		return decimal.Zero, errors.NoPrice(instanceType)
	}
	return pricing.ManagedStorageHourly(products[0].Class, dataSizeGB), nil
}

// ManagedClassRateHourly returns the static hourly managed fee per
// vCPU for an instance class.
func (e *Engine) ManagedClassRateHourly(class catalog.InstanceClass) (decimal.Decimal, error) {
	return pricing.ManagedClassHourly(class)
}

// GatewayRate resolves a gateway SKU name to its monthly rate, used to
// override a cluster's default gateway pricing.
func (e *Engine) GatewayRate(ctx context.Context, gatewaySKU string) (decimal.Decimal, error) {
	skus, err := e.managed.GatewaySKUs(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, sku := range skus {
		if sku.Name == gatewaySKU {
			return sku.Rate, nil
		}
	}
	return decimal.Zero, errors.NotFound("gateway sku", gatewaySKU)
}

func (e *Engine) findClusterSKU(ctx context.Context, region, name string) (*psdb.ClusterSKU, error) {
	if region == "" {
		region = defaultManagedRegion
	}
	skus, err := e.managed.ClusterSKUs(ctx, region)
	if err != nil {
		return nil, err
	}
	for i := range skus {
		if skus[i].Name == name && skus[i].Rate != nil {
			return &skus[i], nil
		}
	}
	return nil, errors.NotFound("cluster sku", name)
}
