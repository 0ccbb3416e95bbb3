// Package catalog defines the unified product schema every provider
// adapter produces, plus the static capability table that bounds which
// provider/product/purchase-option combinations are queryable.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Provider identifies a cloud vendor
type Provider string

const (
	// ProviderAWS is Amazon Web Services
	ProviderAWS Provider = "aws"

	// ProviderGCP is Google Cloud Platform
	ProviderGCP Provider = "gcp"

	// ProviderPlanetScale is the managed-database vendor
	ProviderPlanetScale Provider = "planetscale"
)

// ProductLine identifies a priced product family within a provider
type ProductLine string

const (
	// ProductEC2 is AWS compute instances
	ProductEC2 ProductLine = "ec2"

	// ProductEBS is AWS block storage volumes
	ProductEBS ProductLine = "ebs"

	// ProductCompute is GCP compute instances
	ProductCompute ProductLine = "compute"

	// ProductGCS is GCP local SSD storage
	ProductGCS ProductLine = "gcs"

	// ProductPSDB is managed-database cluster instances
	ProductPSDB ProductLine = "psdb"
)

// InstanceClass is the internal tier tag, independent of provider-native
// family names. Every priced product carries exactly one.
type InstanceClass string

const (
	ClassGeneral InstanceClass = "general"
	ClassMemory  InstanceClass = "memory"
	ClassCompute InstanceClass = "compute"
	ClassMetal   InstanceClass = "metal"
)

// PriceSet is the purchase-option pricing bag for one region/platform.
// A zero OnDemand or Preemptible value means the price is unavailable;
// a zero on-demand price is always a data error, never a free tier.
type PriceSet struct {
	OnDemand decimal.Decimal

	// Reserved maps a fully-qualified purchase-option key (reserved or
	// committed-use) to an hourly price. Keys are never partially qualified.
	Reserved map[string]decimal.Decimal

	Preemptible decimal.Decimal
}

// Product is the unified schema every adapter must produce.
// Products are constructed fresh per query and never mutated after return.
type Product struct {
	InstanceType   string
	InstanceFamily string
	InstanceSize   string

	VCPU           decimal.Decimal
	Memory         decimal.Decimal
	OnboardStorage int

	Class InstanceClass

	// Pricing maps region -> platform -> prices. Non-AWS providers use
	// the single platform "linux".
	Pricing map[string]map[string]PriceSet

	// ProviderInstanceType cross-references the equivalent instance type
	// in the parent cloud's catalog; managed-database products only.
	ProviderInstanceType string

	// Managed-database rate components (monthly USD); zero elsewhere.
	MonthlyRate    decimal.Decimal
	ReplicaRate    decimal.Decimal
	GatewayRate    decimal.Decimal
	DefaultGateway string
}

// PriceSetFor returns the pricing bag for a region/platform pair.
func (p *Product) PriceSetFor(region, platform string) (PriceSet, bool) {
	platforms, ok := p.Pricing[region]
	if !ok {
		return PriceSet{}, false
	}
	ps, ok := platforms[platform]
	return ps, ok
}

// SplitAWSInstanceType derives family and size from an AWS type name,
// e.g. "m5.xlarge" -> ("m5", "xlarge").
func SplitAWSInstanceType(instanceType string) (family, size string) {
	parts := strings.SplitN(instanceType, ".", 2)
	family = parts[0]
	if len(parts) > 1 {
		size = parts[1]
	}
	return family, size
}

// SplitGCPMachineType derives family, the middle profile token, and size
// from a GCP machine type name, e.g. "n2-standard-4" -> ("n2", "standard", "4").
func SplitGCPMachineType(machineType string) (family, profile, size string) {
	parts := strings.Split(machineType, "-")
	family = parts[0]
	if len(parts) > 1 {
		profile = parts[1]
	}
	if len(parts) > 2 {
		size = parts[2]
	}
	return family, profile, size
}

// VolumeRates holds the per-unit monthly rates for one volume type.
// IOPS tiers apply to io2 only; all three currently carry the same
// fetched rate (flat approximation of the upstream tiering).
type VolumeRates struct {
	PerGBMonth   decimal.Decimal
	PerIOPSMonth decimal.Decimal

	PerTier1IOPSMonth decimal.Decimal
	PerTier2IOPSMonth decimal.Decimal
	PerTier3IOPSMonth decimal.Decimal
}

// RegionVolumePricing is the per-region EBS price record.
type RegionVolumePricing struct {
	Region  string
	Volumes map[string]VolumeRates
}

// LocalSSDPricing is the GCP local SSD price record.
type LocalSSDPricing struct {
	PerTBMonth decimal.Decimal
}
