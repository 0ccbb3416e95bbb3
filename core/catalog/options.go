package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Options carries every recognized request parameter. Callers populate
// only the fields their product line uses; empty strings mean unset.
type Options struct {
	Region string

	// Instance purchase options
	PurchaseType  string
	PurchaseTerm  string
	OfferingClass string
	PaymentOption string
	Platform      string
	CUDType       string

	// Volume options
	VolumeType  string
	StorageType string
	VolumeSize  float64

	// Managed-database cluster shape
	DataSizeGB           float64
	Shards               int
	ExtraReplicas        int
	ExtraGatewayReplicas int
	GatewayOverridePrice decimal.Decimal
}

// Normalized returns a copy with every string field lowercased and
// trimmed, matching how callers are allowed to spell option values.
func (o Options) Normalized() Options {
	o.Region = normalize(o.Region)
	o.PurchaseType = normalize(o.PurchaseType)
	o.PurchaseTerm = normalize(o.PurchaseTerm)
	o.OfferingClass = normalize(o.OfferingClass)
	o.PaymentOption = normalize(o.PaymentOption)
	o.Platform = normalize(o.Platform)
	o.CUDType = normalize(o.CUDType)
	o.VolumeType = normalize(o.VolumeType)
	o.StorageType = normalize(o.StorageType)
	return o
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
