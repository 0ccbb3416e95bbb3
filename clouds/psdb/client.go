// Package psdb fetches and normalizes managed database pricing from
// the provider's web API: regions, cluster SKUs, and gateway SKUs.
package psdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cloudprice/internal/errors"
)

// Region is one managed database region.
type Region struct {
	Slug        string `json:"slug"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name"`
}

// ClusterSKU is one cluster size offering with its monthly rate
// components. Rate is nil for unpriced SKUs, which callers skip.
type ClusterSKU struct {
	Name           string           `json:"name"`
	Rate           *decimal.Decimal `json:"rate"`
	ReplicaRate    decimal.Decimal  `json:"replica_rate"`
	GatewayRate    decimal.Decimal  `json:"default_vtgate_rate"`
	DefaultGateway string           `json:"default_vtgate"`
	TShirtSize     string           `json:"tshirt_size"`
	Metal          bool             `json:"metal"`
	CPU            decimal.Decimal  `json:"cpu"`
	RAM            decimal.Decimal  `json:"ram"`
	Storage        decimal.Decimal  `json:"storage"`
}

// GatewaySKU is one gateway size offering.
type GatewaySKU struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
	CPU  decimal.Decimal `json:"cpu"`
}

// Client talks to the managed database provider's web API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client rooted at the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Regions lists the available managed database regions.
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var wrapper struct {
		Data []Region `json:"data"`
	}
	if err := c.get(ctx, "regions", nil, &wrapper); err != nil {
		return nil, errors.Wrap(errors.TypeTransport, "failed to retrieve regions", err)
	}
	if len(wrapper.Data) == 0 {
		return nil, errors.New(errors.TypeTransport, "failed to retrieve regions: no results returned")
	}
	return wrapper.Data, nil
}

// ClusterSKUs lists cluster size offerings, optionally scoped to one
// region slug.
func (c *Client) ClusterSKUs(ctx context.Context, region string) ([]ClusterSKU, error) {
	var params url.Values
	if region != "" {
		params = url.Values{"region": {region}}
	}
	var skus []ClusterSKU
	if err := c.get(ctx, "cluster-size-skus", params, &skus); err != nil {
		return nil, errors.Wrap(errors.TypeTransport, "failed to retrieve cluster sku info", err)
	}
	return skus, nil
}

// GatewaySKUs lists gateway size offerings.
func (c *Client) GatewaySKUs(ctx context.Context) ([]GatewaySKU, error) {
	var skus []GatewaySKU
	if err := c.get(ctx, "vtgate-size-skus", nil, &skus); err != nil {
		return nil, errors.Wrap(errors.TypeTransport, "failed to retrieve gateway sku info", err)
	}
	return skus, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.TypeTransport, "unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.Unmarshal(body, out)
}
