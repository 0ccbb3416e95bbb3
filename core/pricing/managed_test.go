package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

func managedProduct() *catalog.Product {
	return &catalog.Product{
		InstanceType: "PS-80",
		MonthlyRate:  decimal.NewFromInt(600),
		ReplicaRate:  decimal.NewFromInt(100),
		GatewayRate:  decimal.NewFromInt(30),
	}
}

func TestManagedMonthlyCost(t *testing.T) {
	tests := []struct {
		name     string
		opts     catalog.Options
		expected string
	}{
		{"base rate", catalog.Options{}, "600"},
		{"single shard is the base rate", catalog.Options{Shards: 1}, "600"},
		// 600 - 300 + 300*2
		{"two shards rescale the replica portion", catalog.Options{Shards: 2}, "900"},
		// 600 + 100*2
		{"extra replicas", catalog.Options{ExtraReplicas: 2}, "800"},
		// 600 + 30*1
		{"extra gateway replicas", catalog.Options{ExtraGatewayReplicas: 1}, "630"},
		// 600 + (50-10)*1.50
		{"data past the included allowance", catalog.Options{DataSizeGB: 50}, "660"},
		{"data within the allowance", catalog.Options{DataSizeGB: 10}, "600"},
		// gateway override: 600 - 30*(1/3)*3 + 60*(1/3)*3
		{"gateway override", catalog.Options{GatewayOverridePrice: decimal.NewFromInt(60)}, "630"},
		// shards=3: 600 - 300 + 300*3 = 1200
		// override: 1200 - 30*(3/3)*3 + 60*(3/3)*3 = 1290
		{"gateway override scales with shards", catalog.Options{
			Shards:               3,
			GatewayOverridePrice: decimal.NewFromInt(60),
		}, "1290"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ManagedMonthlyCost(managedProduct(), tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("monthly = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestManagedMonthlyCostUnpriced(t *testing.T) {
	p := &catalog.Product{InstanceType: "PS-X"}
	_, err := ManagedMonthlyCost(p, catalog.Options{})
	if !errors.IsType(err, errors.TypeNoPrice) {
		t.Fatalf("expected NO_PRICE error, got %v", err)
	}
}

// TestManagedHourlyDerivation verifies the managed hourly rate is the
// monthly formula result divided by 730.
func TestManagedHourlyDerivation(t *testing.T) {
	p := managedProduct()
	opts := catalog.Options{}

	hourly, err := HourlyCost(catalog.ProductPSDB, p, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.NewFromInt(600).Div(decimal.NewFromInt(730))
	if !hourly.Equal(expected) {
		t.Errorf("hourly = %s, want %s", hourly, expected)
	}
}

func TestManagedClassHourly(t *testing.T) {
	tests := []struct {
		class   catalog.InstanceClass
		monthly string
	}{
		{catalog.ClassMemory, "30.66"},
		{catalog.ClassCompute, "20.44"},
		{catalog.ClassGeneral, "22.63"},
		{catalog.ClassMetal, "30.66"},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			got, err := ManagedClassHourly(tt.class)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			expected := decimal.RequireFromString(tt.monthly).Div(HoursPerMonth)
			if !got.Equal(expected) {
				t.Errorf("hourly = %s, want %s", got, expected)
			}
		})
	}
}

func TestManagedTabletHourly(t *testing.T) {
	// general: 22.63/730 per vCPU, 8 vCPU, 3+1 tablets
	got, err := ManagedTabletHourly(catalog.ClassGeneral, decimal.NewFromInt(8), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.RequireFromString("22.63").Div(HoursPerMonth).
		Mul(decimal.NewFromInt(8)).Mul(decimal.NewFromInt(4))
	if !got.Equal(expected) {
		t.Errorf("tablet hourly = %s, want %s", got, expected)
	}
}

func TestManagedStorageHourly(t *testing.T) {
	// 512 GB at 100/TB-month
	got := ManagedStorageHourly(catalog.ClassGeneral, 512)
	expected := decimal.NewFromInt(100).Div(HoursPerMonth).
		Mul(decimal.NewFromInt(512).Div(decimal.NewFromInt(1024)))
	if !got.Equal(expected) {
		t.Errorf("storage hourly = %s, want %s", got, expected)
	}

	if !ManagedStorageHourly(catalog.ClassMetal, 512).IsZero() {
		t.Error("metal storage fee should be zero")
	}
}
