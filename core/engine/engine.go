// Package engine is the primary pricing API. The HTTP server and CLI
// are thin wrappers around it.
package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudprice/clouds/aws"
	"cloudprice/clouds/gcp"
	"cloudprice/clouds/pricingapi"
	"cloudprice/clouds/psdb"
	"cloudprice/core/catalog"
	"cloudprice/core/pricing"
	"cloudprice/internal/config"
	"cloudprice/internal/errors"
	"cloudprice/internal/logging"
)

// defaultManagedRegion is used when a managed-database request leaves
// the region unset.
const defaultManagedRegion = "us-east"

// Engine wires the provider adapters behind the public pricing
// operations.
type Engine struct {
	cfg *config.Config

	ec2      *aws.EC2Adapter
	ebs      *aws.EBSAdapter
	compute  *gcp.ComputeAdapter
	localSSD *gcp.LocalSSDAdapter
	managed  *psdb.Client
}

// New builds an engine over a pricing querier and a managed database
// client.
func New(cfg *config.Config, querier pricingapi.Querier, managed *psdb.Client) *Engine {
	return &Engine{
		cfg:      cfg,
		ec2:      aws.NewEC2Adapter(querier),
		ebs:      aws.NewEBSAdapter(querier),
		compute:  gcp.NewComputeAdapter(querier),
		localSSD: gcp.NewLocalSSDAdapter(querier),
		managed:  managed,
	}
}

// ValidateOptions checks a provider/product pair and its options
// against the capability table without fetching anything.
func (e *Engine) ValidateOptions(provider catalog.Provider, product catalog.ProductLine, opts catalog.Options) error {
	opts = opts.Normalized()
	switch product {
	case catalog.ProductEBS, catalog.ProductGCS:
		return catalog.ValidateVolumeOptions(provider, product, opts)
	default:
		return catalog.ValidateInstanceOptions(provider, product, opts)
	}
}

// SingleInstancePrice resolves the hourly price of one named instance
// type. Exactly one catalog match is required: zero matches is a
// not-found error carrying remediation hints, several is an ambiguity
// error.
func (e *Engine) SingleInstancePrice(ctx context.Context, provider catalog.Provider, product catalog.ProductLine, instanceType string, opts catalog.Options) (decimal.Decimal, error) {
	opts = e.defaultedInstanceOptions(product, opts.Normalized())

	if err := catalog.ValidateInstanceOptions(provider, product, opts); err != nil {
		return decimal.Zero, err
	}

	products, err := e.fetchInstances(ctx, product, []string{instanceType}, opts)
	if err != nil {
		return decimal.Zero, err
	}

	switch len(products) {
	case 0:
		return decimal.Zero, errors.NotFound("instance type", instanceType).
			WithContext("hint", "check the region, platform, and purchase options for this instance type")
	case 1:
		return pricing.HourlyCost(product, &products[0], opts)
	default:
		return decimal.Zero, errors.Ambiguous(instanceType, len(products))
	}
}

// RegionalMatrix prices every configured instance type of a product in
// one region and returns the ordered matrix. Unpriceable instances are
// dropped; managed database rows are cross-referenced against the
// parent cloud's catalog.
func (e *Engine) RegionalMatrix(ctx context.Context, provider catalog.Provider, product catalog.ProductLine, opts catalog.Options) (*pricing.Matrix, error) {
	opts = e.defaultedInstanceOptions(product, opts.Normalized())

	if err := catalog.ValidateInstanceOptions(provider, product, opts); err != nil {
		return nil, err
	}

	types, err := e.candidateTypes(product)
	if err != nil {
		return nil, err
	}

	products, err := e.fetchInstances(ctx, product, types, opts)
	if err != nil {
		return nil, err
	}

	return pricing.BuildMatrix(provider, product, products, opts), nil
}

// VolumePrice resolves the hourly price of a storage volume.
func (e *Engine) VolumePrice(ctx context.Context, provider catalog.Provider, product catalog.ProductLine, opts catalog.Options) (decimal.Decimal, error) {
	opts = opts.Normalized()

	if opts.Region == "" {
		return decimal.Zero, errors.Validation("region is required for volume pricing")
	}
	if opts.VolumeSize <= 0 {
		return decimal.Zero, errors.Validation("volume size must be a positive number of GB")
	}
	if err := catalog.ValidateVolumeOptions(provider, product, opts); err != nil {
		return decimal.Zero, err
	}

	switch product {
	case catalog.ProductEBS:
		recs := e.ebs.Fetch(ctx, []string{opts.Region})
		if len(recs) == 0 {
			return decimal.Zero, errors.NoPrice(opts.VolumeType)
		}
		return pricing.EBSVolumeHourly(recs[0], opts)
	case catalog.ProductGCS:
		rec := e.localSSD.Fetch(ctx, opts.Region)
		return pricing.LocalSSDHourly(rec, opts.VolumeSize)
	}
	return decimal.Zero, errors.Newf(errors.TypeValidation,
		"product %q is not a volume product", product)
}

// defaultedInstanceOptions applies per-product defaults for unset
// options.
func (e *Engine) defaultedInstanceOptions(product catalog.ProductLine, opts catalog.Options) catalog.Options {
	switch product {
	case catalog.ProductEC2:
		if opts.Platform == "" {
			opts.Platform = "linux"
		}
		if opts.PurchaseType == "" {
			opts.PurchaseType = "ondemand"
		}
	case catalog.ProductCompute:
		if opts.PurchaseType == "" {
			opts.PurchaseType = "ondemand"
		}
	case catalog.ProductPSDB:
		if opts.Region == "" {
			opts.Region = defaultManagedRegion
		}
	}
	return opts
}

// candidateTypes expands the configured family/size filters into the
// full candidate list for a product line. Managed database SKUs come
// from the provider and need no expansion.
func (e *Engine) candidateTypes(product catalog.ProductLine) ([]string, error) {
	switch product {
	case catalog.ProductEC2:
		return catalog.AWSInstanceCandidates(e.cfg.Filters.AWSInstanceFamilies, e.cfg.Filters.AWSInstanceSizes)
	case catalog.ProductCompute:
		return catalog.GCPInstanceCandidates(e.cfg.Filters.GCPInstanceFamilies, e.cfg.Filters.GCPInstanceSizes)
	case catalog.ProductPSDB:
		return nil, nil
	}
	return nil, errors.Newf(errors.TypeValidation,
		"product %q has no instance catalog", product)
}

// fetchInstances dispatches to the product line's adapter.
func (e *Engine) fetchInstances(ctx context.Context, product catalog.ProductLine, types []string, opts catalog.Options) ([]catalog.Product, error) {
	switch product {
	case catalog.ProductEC2:
		return e.ec2.Fetch(ctx, types, opts)
	case catalog.ProductCompute:
		return e.compute.Fetch(ctx, types, opts)
	case catalog.ProductPSDB:
		return e.fetchManaged(ctx, types, opts)
	}
	return nil, errors.Newf(errors.TypeValidation,
		"product %q has no instance adapter", product)
}

// fetchManaged retrieves managed cluster SKUs and cross-references
// them against the parent cloud's instance catalog. Enrichment
// failures leave the cross-reference empty rather than failing the
// fetch.
func (e *Engine) fetchManaged(ctx context.Context, names []string, opts catalog.Options) ([]catalog.Product, error) {
	skus, err := e.managed.ClusterSKUs(ctx, opts.Region)
	if err != nil {
		return nil, err
	}
	products := psdb.BuildProducts(skus, names)
	if len(products) == 0 {
		return products, nil
	}

	candidates, err := e.parentCloudCandidates(ctx, opts.Region)
	if err != nil {
		logging.Warn("parent cloud cross-reference unavailable",
			zap.String("region", opts.Region), zap.Error(err))
		return products, nil
	}
	psdb.Enrich(products, candidates)
	return products, nil
}

// parentCloudCandidates fetches the parent cloud's on-demand catalog
// for a managed region.
func (e *Engine) parentCloudCandidates(ctx context.Context, managedRegion string) ([]catalog.Product, error) {
	regions, err := e.managed.Regions(ctx)
	if err != nil {
		return nil, err
	}
	provider, region, err := psdb.ParentCloud(regions, managedRegion)
	if err != nil {
		return nil, err
	}

	opts := catalog.Options{Region: region, PurchaseType: "ondemand"}
	switch provider {
	case catalog.ProviderAWS:
		opts.Platform = "linux"
		types, err := e.candidateTypes(catalog.ProductEC2)
		if err != nil {
			return nil, err
		}
		return e.ec2.Fetch(ctx, types, opts)
	case catalog.ProviderGCP:
		types, err := e.candidateTypes(catalog.ProductCompute)
		if err != nil {
			return nil, err
		}
		return e.compute.Fetch(ctx, types, opts)
	}
	return nil, errors.NotFound("parent cloud", string(provider))
}
