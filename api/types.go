package api

import "cloudprice/core/catalog"

// InstancePriceRequest is the body of POST /price/instance.
type InstancePriceRequest struct {
	Provider     string `json:"provider"`
	Product      string `json:"product"`
	InstanceType string `json:"instance_type"`
	Region       string `json:"region"`

	PurchaseType  string `json:"purchase_type,omitempty"`
	PurchaseTerm  string `json:"purchase_term,omitempty"`
	OfferingClass string `json:"offering_class,omitempty"`
	PaymentOption string `json:"payment_option,omitempty"`
	Platform      string `json:"platform,omitempty"`
	CUDType       string `json:"cud_type,omitempty"`

	DataSizeGB           float64 `json:"data_size_gb,omitempty"`
	Shards               int     `json:"shards,omitempty"`
	ExtraReplicas        int     `json:"extra_replicas,omitempty"`
	ExtraGatewayReplicas int     `json:"extra_gateway_replicas,omitempty"`
	GatewaySKU           string  `json:"gateway_sku,omitempty"`
}

// VolumePriceRequest is the body of POST /price/volume.
type VolumePriceRequest struct {
	Provider    string  `json:"provider"`
	Product     string  `json:"product"`
	Region      string  `json:"region"`
	VolumeType  string  `json:"volume_type"`
	StorageType string  `json:"storage_type,omitempty"`
	VolumeSize  float64 `json:"volume_size"`
}

// MatrixRequest is the body of POST /matrix.
type MatrixRequest struct {
	Provider string `json:"provider"`
	Product  string `json:"product"`
	Region   string `json:"region"`

	PurchaseType  string `json:"purchase_type,omitempty"`
	PurchaseTerm  string `json:"purchase_term,omitempty"`
	OfferingClass string `json:"offering_class,omitempty"`
	PaymentOption string `json:"payment_option,omitempty"`
	Platform      string `json:"platform,omitempty"`
	CUDType       string `json:"cud_type,omitempty"`
}

// PriceResponse is the body returned by the price endpoints.
type PriceResponse struct {
	HourlyUSD string `json:"hourly_usd"`
}

// MatrixResponse is the body returned by POST /matrix: the rendered
// table, header row first.
type MatrixResponse struct {
	Provider string     `json:"provider"`
	Region   string     `json:"region"`
	Rows     [][]string `json:"rows"`
}

// instanceOptions maps an instance request to engine options.
func (r *InstancePriceRequest) instanceOptions() catalog.Options {
	return catalog.Options{
		Region:               r.Region,
		PurchaseType:         r.PurchaseType,
		PurchaseTerm:         r.PurchaseTerm,
		OfferingClass:        r.OfferingClass,
		PaymentOption:        r.PaymentOption,
		Platform:             r.Platform,
		CUDType:              r.CUDType,
		DataSizeGB:           r.DataSizeGB,
		Shards:               r.Shards,
		ExtraReplicas:        r.ExtraReplicas,
		ExtraGatewayReplicas: r.ExtraGatewayReplicas,
	}
}

// matrixOptions maps a matrix request to engine options.
func (r *MatrixRequest) matrixOptions() catalog.Options {
	return catalog.Options{
		Region:        r.Region,
		PurchaseType:  r.PurchaseType,
		PurchaseTerm:  r.PurchaseTerm,
		OfferingClass: r.OfferingClass,
		PaymentOption: r.PaymentOption,
		Platform:      r.Platform,
		CUDType:       r.CUDType,
	}
}
