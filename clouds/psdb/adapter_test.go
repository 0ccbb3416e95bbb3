package psdb

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloudprice/core/catalog"
	"cloudprice/internal/errors"
)

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func gb(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Mul(decimal.NewFromInt(1 << 30))
}

func TestBuildProducts(t *testing.T) {
	skus := []ClusterSKU{
		{
			Name:        "PS-80",
			Rate:        rate("600"),
			ReplicaRate: decimal.NewFromInt(100),
			GatewayRate: decimal.NewFromInt(30),
			TShirtSize:  "x.g1",
			CPU:         decimal.NewFromInt(8),
			RAM:         gb(32),
			Storage:     gb(100),
		},
		{Name: "PS-UNPRICED", TShirtSize: "x.g1"},
		{
			Name:       "PS-400-MEM",
			Rate:       rate("2400"),
			TShirtSize: "x.m1",
			CPU:        decimal.NewFromInt(16),
			RAM:        gb(128),
		},
		{
			Name:  "PS-METAL",
			Rate:  rate("9000"),
			Metal: true,
			CPU:   decimal.NewFromInt(48),
			RAM:   gb(384),
		},
	}

	products := BuildProducts(skus, nil)
	if len(products) != 3 {
		t.Fatalf("expected 3 products (unpriced skipped), got %d", len(products))
	}

	p := products[0]
	if p.InstanceType != "PS-80" {
		t.Fatalf("first product = %q", p.InstanceType)
	}
	if !p.Memory.Equal(decimal.NewFromInt(32)) {
		t.Errorf("memory = %s, want 32", p.Memory)
	}
	if p.OnboardStorage != 100 {
		t.Errorf("storage = %d, want 100", p.OnboardStorage)
	}
	if p.Class != catalog.ClassGeneral {
		t.Errorf("class = %q, want general", p.Class)
	}
	if products[1].Class != catalog.ClassMemory {
		t.Errorf("m1 sub-code class = %q, want memory", products[1].Class)
	}
	if products[2].Class != catalog.ClassMetal {
		t.Errorf("metal flag class = %q, want metal", products[2].Class)
	}
}

func TestBuildProductsNameFilter(t *testing.T) {
	skus := []ClusterSKU{
		{Name: "PS-80", Rate: rate("600")},
		{Name: "PS-160", Rate: rate("1200")},
	}
	products := BuildProducts(skus, []string{"PS-160"})
	if len(products) != 1 || products[0].InstanceType != "PS-160" {
		t.Fatalf("filtered products = %v", products)
	}
}

func TestParentCloud(t *testing.T) {
	regions := []Region{
		{Slug: "us-east", Provider: "aws", DisplayName: "AWS us-east-1"},
		{Slug: "gcp-us-central1", Provider: "gcp", DisplayName: "GCP us-central1"},
	}

	provider, region, err := ParentCloud(regions, "us-east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != catalog.ProviderAWS || region != "us-east-1" {
		t.Errorf("parent = %q/%q, want aws/us-east-1", provider, region)
	}

	_, _, err = ParentCloud(regions, "eu-west")
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func candidate(instanceType string, vcpu, memory int64, class catalog.InstanceClass) catalog.Product {
	return catalog.Product{
		InstanceType: instanceType,
		VCPU:         decimal.NewFromInt(vcpu),
		Memory:       decimal.NewFromInt(memory),
		Class:        class,
	}
}

func TestMatchCloudInstance(t *testing.T) {
	candidates := []catalog.Product{
		candidate("m5.xlarge", 4, 16, catalog.ClassGeneral),
		candidate("r5.xlarge", 4, 32, catalog.ClassMemory),
		candidate("m5.2xlarge", 8, 32, catalog.ClassGeneral),
	}

	got, ok := MatchCloudInstance(decimal.NewFromInt(8), decimal.NewFromInt(32), catalog.ClassGeneral, candidates)
	if !ok || got.InstanceType != "m5.2xlarge" {
		t.Fatalf("match = %v, %v", got.InstanceType, ok)
	}

	// class must match too
	_, ok = MatchCloudInstance(decimal.NewFromInt(4), decimal.NewFromInt(32), catalog.ClassCompute, candidates)
	if ok {
		t.Error("expected no match for wrong class")
	}

	// memory matches exactly, not by whole GB
	fractional := []catalog.Product{{
		InstanceType: "x2gd.medium",
		VCPU:         decimal.NewFromInt(4),
		Memory:       decimal.RequireFromString("16.5"),
		Class:        catalog.ClassGeneral,
	}}
	_, ok = MatchCloudInstance(decimal.NewFromInt(4), decimal.NewFromInt(16), catalog.ClassGeneral, fractional)
	if ok {
		t.Error("expected no match for fractional memory difference")
	}
}

// TestMatchCloudInstanceClamps verifies small shapes are clamped up to
// the provider minimum before matching.
func TestMatchCloudInstanceClamps(t *testing.T) {
	candidates := []catalog.Product{
		candidate("m5.large", 2, 16, catalog.ClassGeneral),
	}

	got, ok := MatchCloudInstance(decimal.NewFromInt(1), decimal.NewFromInt(8), catalog.ClassGeneral, candidates)
	if !ok || got.InstanceType != "m5.large" {
		t.Fatalf("clamped match = %v, %v", got.InstanceType, ok)
	}
}

// TestMatchCloudInstanceLastWins verifies ties resolve to the last
// candidate in fetch order.
func TestMatchCloudInstanceLastWins(t *testing.T) {
	candidates := []catalog.Product{
		candidate("m5.xlarge", 4, 16, catalog.ClassGeneral),
		candidate("m5a.xlarge", 4, 16, catalog.ClassGeneral),
	}

	got, ok := MatchCloudInstance(decimal.NewFromInt(4), decimal.NewFromInt(16), catalog.ClassGeneral, candidates)
	if !ok || got.InstanceType != "m5a.xlarge" {
		t.Fatalf("tie-break match = %v, want m5a.xlarge", got.InstanceType)
	}
}

func TestEnrich(t *testing.T) {
	products := []catalog.Product{
		candidate("PS-80", 4, 16, catalog.ClassGeneral),
		candidate("PS-XXL", 96, 768, catalog.ClassGeneral),
	}
	candidates := []catalog.Product{
		candidate("m5.xlarge", 4, 16, catalog.ClassGeneral),
	}

	Enrich(products, candidates)
	if products[0].ProviderInstanceType != "m5.xlarge" {
		t.Errorf("cross-reference = %q, want m5.xlarge", products[0].ProviderInstanceType)
	}
	if products[1].ProviderInstanceType != "" {
		t.Errorf("unmatched cross-reference = %q, want empty", products[1].ProviderInstanceType)
	}
}
