// Package pricingapi is the client for the upstream GraphQL pricing
// service. Adapters describe what they need as a Query; the client
// renders it, caches the raw response, and returns flattened records.
package pricingapi

import (
	"fmt"
	"strconv"
	"strings"
)

// AttributeFilter narrows a product query by one attribute key/value.
type AttributeFilter struct {
	Key   string
	Value string
}

// ProductFilter selects the product rows of a query.
type ProductFilter struct {
	Vendor        string
	Service       string
	ProductFamily string
	Region        string
	Attributes    []AttributeFilter
}

// PriceFilter selects which price rows come back per product. Empty
// fields are omitted from the rendered query.
type PriceFilter struct {
	PurchaseOption     string
	TermLength         string
	TermOfferingClass  string
	TermPurchaseOption string
}

// Query is one products lookup against the pricing service.
type Query struct {
	Filter ProductFilter
	Price  PriceFilter

	// WithAttributes asks for the product attribute list alongside
	// prices.
	WithAttributes bool
}

// BatchQuery aliases a Query inside a multi-product request.
type BatchQuery struct {
	Alias string
	Query Query
}

// Record is one product row: its attributes and the USD price strings
// that matched the price filter.
type Record struct {
	Attributes map[string]string
	Prices     []string
}

// Alias derives a batch alias from an instance type name. Dots and
// dashes are not legal in GraphQL aliases.
func Alias(instanceType string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return "inst_" + r.Replace(instanceType)
}

// renderBody renders the products(...) field of a query, without an
// alias prefix.
func renderBody(q Query) string {
	var b strings.Builder

	b.WriteString("products(filter: {")
	fmt.Fprintf(&b, "vendorName: %s", strconv.Quote(q.Filter.Vendor))
	if q.Filter.Service != "" {
		fmt.Fprintf(&b, ", service: %s", strconv.Quote(q.Filter.Service))
	}
	if q.Filter.ProductFamily != "" {
		fmt.Fprintf(&b, ", productFamily: %s", strconv.Quote(q.Filter.ProductFamily))
	}
	if q.Filter.Region != "" {
		fmt.Fprintf(&b, ", region: %s", strconv.Quote(q.Filter.Region))
	}
	if len(q.Filter.Attributes) > 0 {
		b.WriteString(", attributeFilters: [")
		for i, af := range q.Filter.Attributes {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{key: %s, value: %s}", strconv.Quote(af.Key), strconv.Quote(af.Value))
		}
		b.WriteString("]")
	}
	b.WriteString("}) {")

	if q.WithAttributes {
		b.WriteString(" attributes { key value }")
	}

	b.WriteString(" prices(filter: {")
	first := true
	writePrice := func(key, value string) {
		if value == "" {
			return
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %s", key, strconv.Quote(value))
	}
	writePrice("purchaseOption", q.Price.PurchaseOption)
	writePrice("termLength", q.Price.TermLength)
	writePrice("termOfferingClass", q.Price.TermOfferingClass)
	writePrice("termPurchaseOption", q.Price.TermPurchaseOption)
	b.WriteString("}) { USD } }")

	return b.String()
}

// renderQuery wraps a single products body into a full query document.
func renderQuery(q Query) string {
	return "query { " + renderBody(q) + " }"
}

// renderBatch wraps aliased product bodies into one query document.
// Alias order follows the input slice so responses can be matched
// back deterministically.
func renderBatch(batch []BatchQuery) string {
	var b strings.Builder
	b.WriteString("query {")
	for _, bq := range batch {
		b.WriteString(" ")
		b.WriteString(bq.Alias)
		b.WriteString(": ")
		b.WriteString(renderBody(bq.Query))
	}
	b.WriteString(" }")
	return b.String()
}
