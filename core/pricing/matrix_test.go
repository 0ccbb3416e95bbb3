package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
)

func matrixProduct(instanceType, family string, vcpu, memory int64, onDemand string) catalog.Product {
	return catalog.Product{
		InstanceType:   instanceType,
		InstanceFamily: family,
		VCPU:           decimal.NewFromInt(vcpu),
		Memory:         decimal.NewFromInt(memory),
		Pricing: map[string]map[string]catalog.PriceSet{
			"us-east-1": {"linux": {OnDemand: decimal.RequireFromString(onDemand)}},
		},
	}
}

// TestBuildMatrixOrdering verifies rows come out ascending by family,
// then vCPU, then memory.
func TestBuildMatrixOrdering(t *testing.T) {
	products := []catalog.Product{
		matrixProduct("r5.xlarge", "r5", 4, 32, "0.252"),
		matrixProduct("m5.2xlarge", "m5", 8, 32, "0.384"),
		matrixProduct("m5.xlarge", "m5", 4, 16, "0.192"),
		matrixProduct("c5.xlarge", "c5", 4, 8, "0.170"),
	}
	opts := catalog.Options{Region: "us-east-1", PurchaseType: "ondemand"}

	m := BuildMatrix(catalog.ProviderAWS, catalog.ProductEC2, products, opts)

	got := make([]string, 0, len(m.Rows))
	for _, r := range m.Rows {
		got = append(got, r.InstanceType)
	}
	expected := []string{"c5.xlarge", "m5.xlarge", "m5.2xlarge", "r5.xlarge"}
	if len(got) != len(expected) {
		t.Fatalf("rows = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], expected[i])
		}
	}
}

// TestBuildMatrixDropsUnpriceable verifies an instance with no usable
// price is silently left out.
func TestBuildMatrixDropsUnpriceable(t *testing.T) {
	products := []catalog.Product{
		matrixProduct("m5.xlarge", "m5", 4, 16, "0.192"),
		{
			InstanceType:   "m5.4xlarge",
			InstanceFamily: "m5",
			VCPU:           decimal.NewFromInt(16),
			Memory:         decimal.NewFromInt(64),
		},
	}
	opts := catalog.Options{Region: "us-east-1", PurchaseType: "ondemand"}

	m := BuildMatrix(catalog.ProviderAWS, catalog.ProductEC2, products, opts)
	if len(m.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(m.Rows))
	}
	if m.Rows[0].InstanceType != "m5.xlarge" {
		t.Errorf("surviving row = %q, want m5.xlarge", m.Rows[0].InstanceType)
	}
}

// TestMatrixTable verifies the fixed header and rendered cells.
func TestMatrixTable(t *testing.T) {
	p := matrixProduct("m5.xlarge", "m5", 4, 16, "0.192")
	opts := catalog.Options{Region: "us-east-1", PurchaseType: "ondemand"}

	table := BuildMatrix(catalog.ProviderAWS, catalog.ProductEC2, []catalog.Product{p}, opts).Table()
	if len(table) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(table))
	}

	header := table[0]
	if header[0] != "Instance Type" || header[8] != "Monthly Cost" {
		t.Errorf("unexpected header: %v", header)
	}
	if len(header) != 9 {
		t.Errorf("header has %d columns, want 9", len(header))
	}

	row := table[1]
	if row[0] != "m5.xlarge" {
		t.Errorf("instance type cell = %q", row[0])
	}
	if row[4] != "4" || row[5] != "16" {
		t.Errorf("vcpu/memory cells = %q/%q", row[4], row[5])
	}
	if row[6] != "" {
		t.Errorf("storage cell = %q, want empty for zero storage", row[6])
	}
	if row[7] != "0.192" {
		t.Errorf("hourly cell = %q, want 0.192", row[7])
	}
	if row[8] != "140.16" {
		t.Errorf("monthly cell = %q, want 140.16", row[8])
	}
}

func TestVolumePricing(t *testing.T) {
	rec := catalog.RegionVolumePricing{
		Region: "us-east-1",
		Volumes: map[string]catalog.VolumeRates{
			"gp3": {
				PerGBMonth:   decimal.RequireFromString("0.08"),
				PerIOPSMonth: decimal.RequireFromString("0.005"),
			},
			"io2": {
				PerTier1IOPSMonth: decimal.RequireFromString("0.065"),
				PerTier2IOPSMonth: decimal.RequireFromString("0.065"),
				PerTier3IOPSMonth: decimal.RequireFromString("0.065"),
			},
		},
	}

	// 1000 GB gp3: 0.08 * 1000 / 730
	got, err := EBSVolumeHourly(rec, catalog.Options{
		VolumeType: "gp3", StorageType: "storage", VolumeSize: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.RequireFromString("80").Div(decimal.NewFromInt(730))
	if !got.Equal(expected) {
		t.Errorf("gp3 hourly = %s, want %s", got, expected)
	}

	// io2 IOPS picks a tier by size
	got, err = EBSVolumeHourly(rec, catalog.Options{
		VolumeType: "io2", StorageType: "iops", VolumeSize: 48,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = decimal.RequireFromString("0.065").Mul(decimal.NewFromInt(48)).Div(decimal.NewFromInt(730))
	if !got.Equal(expected) {
		t.Errorf("io2 iops hourly = %s, want %s", got, expected)
	}
}

func TestLocalSSDHourly(t *testing.T) {
	rec := catalog.LocalSSDPricing{PerTBMonth: decimal.RequireFromString("81.920")}

	// 750 GB: 81.920/1024 * 750 / 730
	got, err := LocalSSDHourly(rec, 750)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.RequireFromString("81.920").
		Div(decimal.NewFromInt(1024)).
		Mul(decimal.NewFromInt(750)).
		Div(decimal.NewFromInt(730))
	if !got.Equal(expected) {
		t.Errorf("local ssd hourly = %s, want %s", got, expected)
	}
}
