// Package gcp fetches and normalizes GCP pricing: Compute Engine
// machine types and local SSD capacity.
package gcp

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/clouds/pricingapi"
	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
	"cloudprice/internal/logging"
)

const (
	smallBatchThreshold = 3
	batchSize           = 10

	// localSSDUnitGB is the size of one local SSD device.
	localSSDUnitGB = 375
)

// z3MachineSuffixes are the catalog name variants tried for z3 types
// requested without an lssd qualifier, in order.
var z3MachineSuffixes = []string{"-highlssd", "-standardlssd", "-lssd"}

// memoryPerCore maps a machine profile to its GB-per-vCPU ratio, used
// when the service omits memory attributes.
var memoryPerCore = map[string]decimal.Decimal{
	"standard": decimal.NewFromInt(4),
	"highmem":  decimal.NewFromInt(8),
	"highcpu":  decimal.RequireFromString("0.9"),
}

// committedUseDiscounts maps term then commitment type to the discount
// applied to the on-demand rate.
var committedUseDiscounts = map[string]map[string]decimal.Decimal{
	"1yr": {
		"flexi":    decimal.RequireFromString("0.18"),
		"resource": decimal.RequireFromString("0.37"),
	},
	"3yr": {
		"flexi":    decimal.RequireFromString("0.46"),
		"resource": decimal.RequireFromString("0.55"),
	},
}

// ComputeAdapter fetches Compute Engine machine pricing.
type ComputeAdapter struct {
	api pricingapi.Querier
}

// NewComputeAdapter creates a compute adapter over the given pricing
// querier.
func NewComputeAdapter(api pricingapi.Querier) *ComputeAdapter {
	return &ComputeAdapter{api: api}
}

// Fetch retrieves and normalizes pricing for the given machine types.
// Large requests are batched; types missing from a batch response are
// retried individually, where z3 name variants are also tried. A
// single-type request surfaces its error instead of dropping the type.
func (a *ComputeAdapter) Fetch(ctx context.Context, machineTypes []string, opts catalog.Options) ([]catalog.Product, error) {
	if len(machineTypes) <= smallBatchThreshold {
		return a.fetchSequential(ctx, machineTypes, opts, len(machineTypes) == 1)
	}
	return a.fetchBatched(ctx, machineTypes, opts)
}

func (a *ComputeAdapter) fetchSequential(ctx context.Context, machineTypes []string, opts catalog.Options, strict bool) ([]catalog.Product, error) {
	var products []catalog.Product
	for _, mt := range machineTypes {
		p, err := a.fetchOne(ctx, mt, opts)
		if err != nil {
			if strict {
				return nil, err
			}
			logging.Warn("gcp compute price lookup failed",
				zap.String("machine_type", mt), zap.Error(err))
			continue
		}
		if p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}

// fetchOne tries each catalog name candidate for a machine type until
// one returns a positively priced record.
func (a *ComputeAdapter) fetchOne(ctx context.Context, machineType string, opts catalog.Options) (*catalog.Product, error) {
	for _, candidate := range machineTypeCandidates(machineType) {
		records, err := a.api.Products(ctx, a.buildQuery(candidate, opts))
		if err != nil {
			return nil, err
		}
		if p, ok := buildComputeProduct(machineType, records, opts); ok {
			return &p, nil
		}
	}
	return nil, nil
}

func (a *ComputeAdapter) fetchBatched(ctx context.Context, machineTypes []string, opts catalog.Options) ([]catalog.Product, error) {
	var products []catalog.Product
	for start := 0; start < len(machineTypes); start += batchSize {
		end := start + batchSize
		if end > len(machineTypes) {
			end = len(machineTypes)
		}
		products = append(products, a.fetchChunk(ctx, machineTypes[start:end], opts)...)
	}
	return products, nil
}

// fetchChunk batches one chunk under the primary machine type names,
// then retries missing or unpriceable types individually so name
// variants get a chance.
func (a *ComputeAdapter) fetchChunk(ctx context.Context, chunk []string, opts catalog.Options) []catalog.Product {
	batch := make([]pricingapi.BatchQuery, 0, len(chunk))
	for _, mt := range chunk {
		batch = append(batch, pricingapi.BatchQuery{
			Alias: pricingapi.Alias(mt),
			Query: a.buildQuery(mt, opts),
		})
	}

	byAlias, err := a.api.ProductsBatch(ctx, batch)
	if err != nil {
		logging.Warn("gcp compute batch query failed, retrying individually",
			zap.Int("chunk_size", len(chunk)), zap.Error(err))
		products, _ := a.fetchSequential(ctx, chunk, opts, false)
		return products
	}

	var products []catalog.Product
	var missing []string
	for _, mt := range chunk {
		records := byAlias[pricingapi.Alias(mt)]
		if p, ok := buildComputeProduct(mt, records, opts); ok {
			products = append(products, p)
		} else {
			missing = append(missing, mt)
		}
	}
	if len(missing) > 0 {
		retried, _ := a.fetchSequential(ctx, missing, opts, false)
		products = append(products, retried...)
	}
	return products
}

func (a *ComputeAdapter) buildQuery(machineType string, opts catalog.Options) pricingapi.Query {
	q := pricingapi.Query{
		Filter: pricingapi.ProductFilter{
			Vendor:        "gcp",
			Service:       "Compute Engine",
			ProductFamily: "Compute Instance",
			Region:        opts.Region,
			Attributes: []pricingapi.AttributeFilter{
				{Key: "machineType", Value: machineType},
			},
		},
		WithAttributes: true,
	}

	// Committed-use rates derive from on-demand; only preemptible
	// needs a different purchase option upstream.
	if opts.PurchaseType == "preemptible" {
		q.Price.PurchaseOption = "preemptible"
	} else {
		q.Price.PurchaseOption = "on_demand"
	}
	return q
}

// machineTypeCandidates lists the catalog names tried for a machine
// type. z3 types are catalogued with lssd qualifiers the caller often
// omits.
func machineTypeCandidates(machineType string) []string {
	if !strings.HasPrefix(machineType, "z3-") || strings.Contains(machineType, "lssd") {
		return []string{machineType}
	}
	candidates := []string{machineType}
	for _, suffix := range z3MachineSuffixes {
		candidates = append(candidates, machineType+suffix)
	}
	return candidates
}

// buildComputeProduct normalizes the fetched records for one machine
// type, keyed by the requested name even when a variant matched.
func buildComputeProduct(machineType string, records []pricingapi.Record, opts catalog.Options) (catalog.Product, bool) {
	record, price, ok := firstPricedRecord(records)
	if !ok {
		return catalog.Product{}, false
	}

	family, profile, size := catalog.SplitGCPMachineType(machineType)
	vcpu := machineVCPU(record, size)
	memory := machineMemory(record, profile, vcpu)
	class := classifyCompute(family, profile)

	storage := 0
	if class == catalog.ClassMetal {
		storage = estimateLocalSSD(family, size)
	}

	set := catalog.PriceSet{}
	switch opts.PurchaseType {
	case "committed-use", "committed":
		key := pricing.CommittedUseKey(opts.PurchaseTerm, opts.CUDType)
		set.Reserved = map[string]decimal.Decimal{
			key: price.Mul(decimal.NewFromInt(1).Sub(committedDiscount(opts))),
		}
	case "preemptible":
		set.Preemptible = price
	default:
		set.OnDemand = price
	}

	return catalog.Product{
		InstanceType:   machineType,
		InstanceFamily: family,
		InstanceSize:   size,
		VCPU:           vcpu,
		Memory:         memory,
		OnboardStorage: storage,
		Class:          class,
		Pricing: map[string]map[string]catalog.PriceSet{
			opts.Region: {"linux": set},
		},
	}, true
}

func committedDiscount(opts catalog.Options) decimal.Decimal {
	term := opts.PurchaseTerm
	if term == "" {
		term = "1yr"
	}
	cudType := opts.CUDType
	if cudType == "" {
		cudType = "flexi"
	}
	if byType, ok := committedUseDiscounts[term]; ok {
		if d, ok := byType[cudType]; ok {
			return d
		}
	}
	return decimal.Zero
}

func firstPricedRecord(records []pricingapi.Record) (pricingapi.Record, decimal.Decimal, bool) {
	for _, r := range records {
		if len(r.Prices) == 0 {
			continue
		}
		price, err := decimal.NewFromString(r.Prices[0])
		if err != nil || !price.IsPositive() {
			continue
		}
		return r, price, true
	}
	return pricingapi.Record{}, decimal.Zero, false
}

// machineVCPU reads the vCPU count from attributes, falling back to
// the trailing numeric token of the machine type name.
func machineVCPU(record pricingapi.Record, size string) decimal.Decimal {
	for _, key := range []string{"vCPUs", "vcpu"} {
		if raw, ok := record.Attributes[key]; ok {
			if v, err := decimal.NewFromString(raw); err == nil {
				return v
			}
		}
	}
	if v, err := decimal.NewFromString(size); err == nil {
		return v
	}
	return decimal.Zero
}

// machineMemory reads memory from attributes, falling back to the
// profile's GB-per-vCPU ratio.
func machineMemory(record pricingapi.Record, profile string, vcpu decimal.Decimal) decimal.Decimal {
	for _, key := range []string{"memory", "memoryGb"} {
		if raw, ok := record.Attributes[key]; ok {
			fields := strings.Fields(raw)
			if len(fields) > 0 {
				if m, err := decimal.NewFromString(fields[0]); err == nil {
					return m
				}
			}
		}
	}
	if ratio, ok := memoryPerCore[profile]; ok {
		return vcpu.Mul(ratio)
	}
	return decimal.Zero
}

// classifyCompute maps a machine profile to its class. n2d and z3
// families are metal regardless of profile.
func classifyCompute(family, profile string) catalog.InstanceClass {
	if family == "n2d" || family == "z3" {
		return catalog.ClassMetal
	}
	switch profile {
	case "highmem":
		return catalog.ClassMemory
	case "highcpu":
		return catalog.ClassCompute
	default:
		return catalog.ClassGeneral
	}
}

// estimateLocalSSD estimates attached local SSD capacity for metal
// machine types in 375 GB device units. c2d always carries one device;
// larger sizes scale by an eighth of the vCPU count.
func estimateLocalSSD(family, size string) int {
	units := 1
	if family != "c2d" {
		if v, err := decimal.NewFromString(size); err == nil && v.GreaterThan(decimal.NewFromInt(4)) {
			units = int(v.Div(decimal.NewFromInt(8)).IntPart())
			if units < 1 {
				units = 1
			}
		}
	}
	return units * localSSDUnitGB
}
