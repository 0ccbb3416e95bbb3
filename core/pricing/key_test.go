package pricing

import "testing"

// TestReservedKey verifies every term/class/payment combination maps
// to a distinct fully-qualified key, with unset fields defaulted.
func TestReservedKey(t *testing.T) {
	tests := []struct {
		name          string
		term          string
		offeringClass string
		payment       string
		expected      string
	}{
		{"all defaults", "", "", "", "yrTerm1Standard.noUpfront"},
		{"one year standard all upfront", "1yr", "standard", "all_upfront", "yrTerm1Standard.allUpfront"},
		{"one year standard partial upfront", "1yr", "standard", "partial_upfront", "yrTerm1Standard.partialUpfront"},
		{"one year convertible no upfront", "1yr", "convertible", "no_upfront", "yrTerm1Convertible.noUpfront"},
		{"three year standard no upfront", "3yr", "standard", "no_upfront", "yrTerm3Standard.noUpfront"},
		{"three year convertible all upfront", "3yr", "convertible", "all_upfront", "yrTerm3Convertible.allUpfront"},
		{"three year convertible partial upfront", "3yr", "convertible", "partial_upfront", "yrTerm3Convertible.partialUpfront"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReservedKey(tt.term, tt.offeringClass, tt.payment)
			if got != tt.expected {
				t.Errorf("ReservedKey(%q, %q, %q) = %q, want %q",
					tt.term, tt.offeringClass, tt.payment, got, tt.expected)
			}
		})
	}
}

// TestReservedKeyDistinct verifies the full combination space yields
// twelve distinct keys.
func TestReservedKeyDistinct(t *testing.T) {
	terms := []string{"1yr", "3yr"}
	classes := []string{"standard", "convertible"}
	payments := []string{"no_upfront", "partial_upfront", "all_upfront"}

	seen := make(map[string]bool)
	for _, term := range terms {
		for _, class := range classes {
			for _, payment := range payments {
				key := ReservedKey(term, class, payment)
				if seen[key] {
					t.Errorf("duplicate key %q", key)
				}
				seen[key] = true
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct keys, got %d", len(seen))
	}
}

func TestCommittedUseKey(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		cudType  string
		expected string
	}{
		{"defaults to one year flexible", "", "", "cud-flexi-1y"},
		{"one year flexible", "1yr", "flexi", "cud-flexi-1y"},
		{"one year resource", "1yr", "resource", "cud-resource-1y"},
		{"three year flexible", "3yr", "flexi", "cud-flexi-3y"},
		{"three year resource", "3yr", "resource", "cud-resource-3y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommittedUseKey(tt.term, tt.cudType)
			if got != tt.expected {
				t.Errorf("CommittedUseKey(%q, %q) = %q, want %q",
					tt.term, tt.cudType, got, tt.expected)
			}
		})
	}
}
