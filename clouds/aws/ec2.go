// Package aws fetches and normalizes AWS pricing: EC2 instances and
// EBS volumes.
package aws

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/clouds/pricingapi"
	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
	"cloudprice/internal/logging"
)

const (
	// smallBatchThreshold is the largest request served by sequential
	// per-type queries; anything bigger goes through aliased batches.
	smallBatchThreshold = 3

	// batchSize is the number of aliased sub-queries per request.
	batchSize = 10
)

// platformNames maps option platform values to the pricing service's
// operatingSystem attribute.
var platformNames = map[string]string{
	"linux":   "Linux",
	"windows": "Windows",
	"rhel":    "RHEL",
	"suse":    "SUSE",
}

// paymentOptionNames maps option payment values to the pricing
// service's termPurchaseOption values.
var paymentOptionNames = map[string]string{
	"no_upfront":      "No Upfront",
	"partial_upfront": "Partial Upfront",
	"all_upfront":     "All Upfront",
}

// EC2Adapter fetches EC2 instance pricing.
type EC2Adapter struct {
	api pricingapi.Querier
}

// NewEC2Adapter creates an EC2 adapter over the given pricing querier.
func NewEC2Adapter(api pricingapi.Querier) *EC2Adapter {
	return &EC2Adapter{api: api}
}

// Fetch retrieves and normalizes pricing for the given instance types.
// Small requests go type by type; larger ones are batched with a
// sequential fallback per chunk. Types the service cannot price are
// dropped, except that a single-type request surfaces its error.
func (a *EC2Adapter) Fetch(ctx context.Context, instanceTypes []string, opts catalog.Options) ([]catalog.Product, error) {
	if len(instanceTypes) <= smallBatchThreshold {
		return a.fetchSequential(ctx, instanceTypes, opts, len(instanceTypes) == 1)
	}
	return a.fetchBatched(ctx, instanceTypes, opts)
}

func (a *EC2Adapter) fetchSequential(ctx context.Context, instanceTypes []string, opts catalog.Options, strict bool) ([]catalog.Product, error) {
	var products []catalog.Product
	for _, it := range instanceTypes {
		records, err := a.api.Products(ctx, a.buildQuery(it, opts))
		if err != nil {
			if strict {
				return nil, err
			}
			logging.Warn("ec2 price lookup failed",
				zap.String("instance_type", it), zap.Error(err))
			continue
		}
		if p, ok := buildEC2Product(it, records, opts); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (a *EC2Adapter) fetchBatched(ctx context.Context, instanceTypes []string, opts catalog.Options) ([]catalog.Product, error) {
	var products []catalog.Product
	for start := 0; start < len(instanceTypes); start += batchSize {
		end := start + batchSize
		if end > len(instanceTypes) {
			end = len(instanceTypes)
		}
		products = append(products, a.fetchChunk(ctx, instanceTypes[start:end], opts)...)
	}
	return products, nil
}

// fetchChunk tries the aliased batch first and falls back to
// sequential per-type queries when the whole batch fails.
func (a *EC2Adapter) fetchChunk(ctx context.Context, chunk []string, opts catalog.Options) []catalog.Product {
	batch := make([]pricingapi.BatchQuery, 0, len(chunk))
	for _, it := range chunk {
		batch = append(batch, pricingapi.BatchQuery{
			Alias: pricingapi.Alias(it),
			Query: a.buildQuery(it, opts),
		})
	}

	byAlias, err := a.api.ProductsBatch(ctx, batch)
	if err != nil {
		logging.Warn("ec2 batch query failed, retrying individually",
			zap.Int("chunk_size", len(chunk)), zap.Error(err))
		products, _ := a.fetchSequential(ctx, chunk, opts, false)
		return products
	}

	var products []catalog.Product
	for _, it := range chunk {
		records := byAlias[pricingapi.Alias(it)]
		if p, ok := buildEC2Product(it, records, opts); ok {
			products = append(products, p)
		}
	}
	return products
}

// buildQuery renders the product and price filters for one instance
// type. Shared tenancy, no pre-installed software, and plain
// RunInstances operations only.
func (a *EC2Adapter) buildQuery(instanceType string, opts catalog.Options) pricingapi.Query {
	os := platformNames[opts.Platform]
	if os == "" {
		os = "Linux"
	}

	q := pricingapi.Query{
		Filter: pricingapi.ProductFilter{
			Vendor:        "aws",
			Service:       "AmazonEC2",
			ProductFamily: "Compute Instance",
			Region:        opts.Region,
			Attributes: []pricingapi.AttributeFilter{
				{Key: "instanceType", Value: instanceType},
				{Key: "operatingSystem", Value: os},
				{Key: "tenancy", Value: "Shared"},
				{Key: "preInstalledSw", Value: "NA"},
				{Key: "operation", Value: "RunInstances"},
			},
		},
		WithAttributes: true,
	}

	if opts.PurchaseType == "reserved" {
		q.Price.PurchaseOption = "reserved"
		q.Price.TermLength = opts.PurchaseTerm
		q.Price.TermOfferingClass = opts.OfferingClass
		q.Price.TermPurchaseOption = paymentOptionNames[opts.PaymentOption]
	} else {
		q.Price.PurchaseOption = "on_demand"
	}
	return q
}

// buildEC2Product normalizes the fetched records for one instance
// type. The first record carrying a positive price wins; a type with
// no positive price anywhere is dropped.
func buildEC2Product(instanceType string, records []pricingapi.Record, opts catalog.Options) (catalog.Product, bool) {
	record, price, ok := firstPricedRecord(records)
	if !ok {
		return catalog.Product{}, false
	}

	family, size := catalog.SplitAWSInstanceType(instanceType)
	vcpu, _ := decimal.NewFromString(record.Attributes["vcpu"])
	memory := parseMemoryGB(record.Attributes["memory"])
	storage := parseOnboardStorage(record.Attributes["storage"])

	platform := opts.Platform
	if platform == "" {
		platform = "linux"
	}

	set := catalog.PriceSet{}
	if opts.PurchaseType == "reserved" {
		key := pricing.ReservedKey(opts.PurchaseTerm, opts.OfferingClass, opts.PaymentOption)
		set.Reserved = map[string]decimal.Decimal{key: price}
	} else {
		set.OnDemand = price
	}

	return catalog.Product{
		InstanceType:   instanceType,
		InstanceFamily: family,
		InstanceSize:   size,
		VCPU:           vcpu,
		Memory:         memory,
		OnboardStorage: storage,
		Class:          classifyEC2(family, storage),
		Pricing: map[string]map[string]catalog.PriceSet{
			opts.Region: {platform: set},
		},
	}, true
}

// firstPricedRecord scans candidate records in response order and
// returns the first one whose leading price parses positive.
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

// classifyEC2 maps an instance family to its class by leading letter.
// Any on-board storage forces metal regardless of family.
func classifyEC2(family string, onboardStorage int) catalog.InstanceClass {
	if onboardStorage > 0 {
		return catalog.ClassMetal
	}
	switch {
	case strings.HasPrefix(family, "c"):
		return catalog.ClassCompute
	case strings.HasPrefix(family, "r"):
		return catalog.ClassMemory
	case strings.HasPrefix(family, "m"):
		return catalog.ClassGeneral
	case strings.HasPrefix(family, "i"):
		return catalog.ClassMetal
	default:
		return catalog.ClassGeneral
	}
}

// parseMemoryGB extracts the numeric GiB value from attributes like
// "16 GiB".
func parseMemoryGB(raw string) decimal.Decimal {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return decimal.Zero
	}
	mem, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero
	}
	return mem
}

// parseOnboardStorage totals instance-store capacity from attributes
// like "2 x 300 NVMe SSD". EBS-only instances report zero.
func parseOnboardStorage(raw string) int {
	parts := strings.Split(raw, " x ")
	if len(parts) < 2 {
		return 0
	}
	devices, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	sizeField := strings.Fields(parts[1])
	if len(sizeField) == 0 {
		return 0
	}
	size, err := strconv.Atoi(strings.ReplaceAll(sizeField[0], ",", ""))
	if err != nil {
		return 0
	}
	return devices * size
}
