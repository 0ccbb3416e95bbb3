// Package pricing resolves hourly and monthly costs from normalized
// products. Purchase-option keys are built here; adapters store prices
// under the same keys, so construction must stay a pure function with
// no hidden defaults beyond the documented fallbacks.
package pricing

// ReservedKey builds the lookup key for an AWS reserved price from
// term, offering class, and payment option. Unset values fall back to
// 1yr / standard / no_upfront.
func ReservedKey(purchaseTerm, offeringClass, paymentOption string) string {
	k := ""

	switch purchaseTerm {
	case "3yr":
		k = "yrTerm3"
	default:
		k = "yrTerm1"
	}

	switch offeringClass {
	case "convertible":
		k += "Convertible."
	default:
		k += "Standard."
	}

	switch paymentOption {
	case "all_upfront":
		k += "allUpfront"
	case "partial_upfront":
		k += "partialUpfront"
	default:
		k += "noUpfront"
	}

	return k
}

// CommittedUseKey builds the lookup key for a GCP committed-use price.
// The cud type defaults to flexible, the term to 1yr.
func CommittedUseKey(purchaseTerm, cudType string) string {
	term := "1y"
	if purchaseTerm == "3yr" {
		term = "3y"
	}

	if cudType == "resource" {
		return "cud-resource-" + term
	}
	return "cud-flexi-" + term
}
