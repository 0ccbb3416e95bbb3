package psdb

import (
	"strings"

	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

// bytesPerGB converts the API's byte counts to GB.
var bytesPerGB = decimal.NewFromInt(1 << 30)

// BuildProducts normalizes cluster SKUs into catalog products.
// Unpriced SKUs are skipped; a non-empty name filter keeps only the
// listed SKUs.
func BuildProducts(skus []ClusterSKU, names []string) []catalog.Product {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	var products []catalog.Product
	for _, sku := range skus {
		if sku.Rate == nil {
			continue
		}
		if len(keep) > 0 && !keep[sku.Name] {
			continue
		}
		products = append(products, catalog.Product{
			InstanceType:   sku.Name,
			VCPU:           sku.CPU,
			Memory:         sku.RAM.Div(bytesPerGB),
			OnboardStorage: int(sku.Storage.Div(bytesPerGB).IntPart()),
			Class:          classifySKU(sku),
			MonthlyRate:    *sku.Rate,
			ReplicaRate:    sku.ReplicaRate,
			GatewayRate:    sku.GatewayRate,
			DefaultGateway: sku.DefaultGateway,
		})
	}
	return products
}

// classifySKU maps a cluster SKU to its instance class. The metal flag
// wins; otherwise the second segment of the t-shirt size carries a
// sub-code naming the class.
func classifySKU(sku ClusterSKU) catalog.InstanceClass {
	if sku.Metal {
		return catalog.ClassMetal
	}
	parts := strings.Split(sku.TShirtSize, ".")
	if len(parts) > 1 {
		switch parts[1] {
		case "m1":
			return catalog.ClassMemory
		case "g1":
			return catalog.ClassGeneral
		case "c1":
			return catalog.ClassCompute
		}
	}
	return catalog.ClassGeneral
}

// ParentCloud resolves a managed region slug to its parent cloud
// provider and region, parsed from the region's display name (for
// example "AWS us-east-1").
func ParentCloud(regions []Region, slug string) (catalog.Provider, string, error) {
	for _, r := range regions {
		if r.Slug != slug {
			continue
		}
		fields := strings.Fields(r.DisplayName)
		if len(fields) < 2 {
			return "", "", errors.Newf(errors.TypeInternal,
				"managed region %q has unparseable display name %q", slug, r.DisplayName)
		}
		return catalog.Provider(strings.ToLower(fields[0])), fields[1], nil
	}
	return "", "", errors.NotFound("managed region", slug)
}

// MatchCloudInstance cross-references a cluster's shape against parent
// cloud candidates: exact vCPU, memory, and class equality, with small
// shapes clamped up to the provider minimum of 2 vCPU / 16 GB. The
// last candidate in fetch order wins a tie; no match returns false.
func MatchCloudInstance(vcpu, memory decimal.Decimal, class catalog.InstanceClass, candidates []catalog.Product) (catalog.Product, bool) {
	two := decimal.NewFromInt(2)
	sixteen := decimal.NewFromInt(16)
	if vcpu.LessThan(two) {
		vcpu = two
	}
	if memory.LessThan(sixteen) {
		memory = sixteen
	}

	var match catalog.Product
	found := false
	for _, c := range candidates {
		if c.VCPU.Equal(vcpu) && c.Memory.Equal(memory) && c.Class == class {
			match = c
			found = true
		}
	}
	return match, found
}

// Enrich fills each product's parent-cloud cross-reference from the
// candidate list. Products without a match keep an empty reference.
func Enrich(products []catalog.Product, candidates []catalog.Product) {
	for i := range products {
		p := &products[i]
		if m, ok := MatchCloudInstance(p.VCPU, p.Memory, p.Class, candidates); ok {
			p.ProviderInstanceType = m.InstanceType
		}
	}
}
