package catalog

import (
	"sort"

	"cloudprice/internal/errors"
)

// purchaseTypeSpec enumerates which sub-options a purchase type accepts.
// A nil slice means the sub-option is not applicable at all for this
// purchase type and must be left empty.
type purchaseTypeSpec struct {
	PurchaseTerms   []string
	OfferingClasses []string
	PaymentOptions  []string
}

// volumeTypeSpec enumerates which storage types a volume type accepts.
type volumeTypeSpec struct {
	StorageTypes []string
}

// productSpec is the capability entry for one (provider, product) pair.
type productSpec struct {
	PurchaseTypes map[string]purchaseTypeSpec
	VolumeTypes   map[string]volumeTypeSpec
}

// capabilities is the static table of everything this system can price.
// Unsupported combinations are rejected here, before any fetch happens.
var capabilities = map[Provider]map[ProductLine]productSpec{
	ProviderPlanetScale: {
		ProductPSDB: {},
	},
	ProviderAWS: {
		ProductEC2: {
			PurchaseTypes: map[string]purchaseTypeSpec{
				"ondemand": {},
				"reserved": {
					PurchaseTerms:   []string{"1yr", "3yr"},
					OfferingClasses: []string{"standard", "convertible"},
					PaymentOptions:  []string{"all_upfront", "partial_upfront", "no_upfront"},
				},
			},
		},
		ProductEBS: {
			VolumeTypes: map[string]volumeTypeSpec{
				"gp3": {StorageTypes: []string{"storage", "iops"}},
				"io2": {StorageTypes: []string{"storage", "iops"}},
			},
		},
	},
	ProviderGCP: {
		ProductCompute: {
			PurchaseTypes: map[string]purchaseTypeSpec{
				"ondemand": {},
				"committed-use": {
					PurchaseTerms: []string{"1yr", "3yr"},
				},
				"preemptible": {},
			},
		},
		ProductGCS: {
			VolumeTypes: map[string]volumeTypeSpec{
				"localssd": {},
			},
		},
	},
}

// SupportedProviders lists every provider in the capability table.
func SupportedProviders() []Provider {
	out := make([]Provider, 0, len(capabilities))
	for p := range capabilities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SupportedProducts lists every product line for a provider.
func SupportedProducts(provider Provider) []ProductLine {
	out := make([]ProductLine, 0)
	for pl := range capabilities[provider] {
		out = append(out, pl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lookupSpec(provider Provider, product ProductLine) (productSpec, error) {
	products, ok := capabilities[provider]
	if !ok {
		return productSpec{}, errors.Newf(errors.TypeValidation,
			"unsupported cloud provider %q, accepted: %v", provider, SupportedProviders())
	}
	spec, ok := products[product]
	if !ok {
		return productSpec{}, errors.Newf(errors.TypeValidation,
			"unsupported cloud product %q for %q, accepted: %v", product, provider, SupportedProducts(provider))
	}
	return spec, nil
}

// ValidateInstanceOptions checks a requested purchase-option combination
// against the capability table. Every rejection names the offending field,
// the value received, and the accepted set.
func ValidateInstanceOptions(provider Provider, product ProductLine, opts Options) error {
	spec, err := lookupSpec(provider, product)
	if err != nil {
		return err
	}

	if opts.PurchaseType == "" {
		return nil
	}

	pt, ok := spec.PurchaseTypes[opts.PurchaseType]
	if !ok {
		return errors.Newf(errors.TypeValidation,
			"purchase type %q is not supported for %q, accepted: %v",
			opts.PurchaseType, product, keys(spec.PurchaseTypes))
	}

	if err := checkSubOption("purchase term", opts.PurchaseType, opts.PurchaseTerm, pt.PurchaseTerms); err != nil {
		return err
	}
	if err := checkSubOption("offering class", opts.PurchaseType, opts.OfferingClass, pt.OfferingClasses); err != nil {
		return err
	}
	if err := checkSubOption("payment option", opts.PurchaseType, opts.PaymentOption, pt.PaymentOptions); err != nil {
		return err
	}

	return nil
}

// ValidateVolumeOptions checks a requested volume/storage-type combination
// against the capability table.
func ValidateVolumeOptions(provider Provider, product ProductLine, opts Options) error {
	spec, err := lookupSpec(provider, product)
	if err != nil {
		return err
	}

	vt, ok := spec.VolumeTypes[opts.VolumeType]
	if !ok {
		return errors.Newf(errors.TypeValidation,
			"volume type %q is not supported for %q, accepted: %v",
			opts.VolumeType, product, keys(spec.VolumeTypes))
	}

	if opts.StorageType == "" {
		return nil
	}
	if vt.StorageTypes == nil {
		return errors.Newf(errors.TypeValidation,
			"storage type %q is not supported for %q, please leave it empty",
			opts.StorageType, opts.VolumeType)
	}
	if !contains(vt.StorageTypes, opts.StorageType) {
		return errors.Newf(errors.TypeValidation,
			"storage type %q is not supported for %q, accepted: %v",
			opts.StorageType, opts.VolumeType, vt.StorageTypes)
	}

	return nil
}

func checkSubOption(field, purchaseType, value string, accepted []string) error {
	if value == "" {
		return nil
	}
	if accepted == nil {
		return errors.Newf(errors.TypeValidation,
			"%s %q is not supported for %q, please leave it empty", field, value, purchaseType)
	}
	if !contains(accepted, value) {
		return errors.Newf(errors.TypeValidation,
			"%s %q is not supported for %q, accepted: %v", field, value, purchaseType, accepted)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
