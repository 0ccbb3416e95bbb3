package pricingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cloudprice/internal/cache"
	"cloudprice/internal/errors"
	"cloudprice/internal/logging"
)

// Querier is the pricing lookup surface adapters depend on. The
// concrete client talks GraphQL over HTTP; tests substitute stubs.
type Querier interface {
	// Products runs one product query.
	Products(ctx context.Context, q Query) ([]Record, error)

	// ProductsBatch runs aliased queries in a single request and
	// returns records keyed by alias. Aliases absent from the
	// response are absent from the map.
	ProductsBatch(ctx context.Context, batch []BatchQuery) (map[string][]Record, error)
}

// Client is the HTTP GraphQL client. Raw response bodies are cached by
// a digest of the rendered query, so identical lookups inside the TTL
// never hit the network.
type Client struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	cache        cache.Cache
	ttl          time.Duration
	cacheVersion string
}

// NewClient builds a pricing client. The cache may be nil to disable
// caching.
func NewClient(endpoint, apiKey string, c cache.Cache, ttl time.Duration, cacheVersion string) *Client {
	return &Client{
		endpoint:     endpoint,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cache:        c,
		ttl:          ttl,
		cacheVersion: cacheVersion,
	}
}

type gqlRequest struct {
	Query string `json:"query"`
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type gqlProduct struct {
	Attributes []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"attributes"`
	Prices []struct {
		USD string `json:"USD"`
	} `json:"prices"`
}

// Products implements Querier.
func (c *Client) Products(ctx context.Context, q Query) ([]Record, error) {
	resp, err := c.execute(ctx, renderQuery(q))
	if err != nil {
		return nil, err
	}
	return decodeProducts(resp.Data["products"])
}

// ProductsBatch implements Querier.
func (c *Client) ProductsBatch(ctx context.Context, batch []BatchQuery) (map[string][]Record, error) {
	resp, err := c.execute(ctx, renderBatch(batch))
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Record, len(batch))
	for _, bq := range batch {
		raw, ok := resp.Data[bq.Alias]
		if !ok || len(raw) == 0 {
			continue
		}
		records, err := decodeProducts(raw)
		if err != nil {
			return nil, err
		}
		out[bq.Alias] = records
	}
	return out, nil
}

// execute posts a query document, consulting the cache first. Only
// responses without GraphQL errors are cached.
func (c *Client) execute(ctx context.Context, query string) (*gqlResponse, error) {
	if c.apiKey == "" {
		return nil, errors.Config("pricing api key is not set")
	}

	key := cache.Key(c.cacheVersion, query)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			logging.Debug("pricing cache hit", zap.String("key", key))
			return parseResponse([]byte(body))
		}
	}

	payload, err := json.Marshal(gqlRequest{Query: query})
	if err != nil {
		return nil, errors.Internal("encoding pricing query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Internal("building pricing request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport("pricing service unreachable", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Transport("reading pricing response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.TypeTransport,
			"pricing service returned status %d", httpResp.StatusCode)
	}

	resp, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(key, string(body), c.ttl)
	}
	return resp, nil
}

func parseResponse(body []byte) (*gqlResponse, error) {
	var resp gqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Transport("decoding pricing response", err)
	}
	if len(resp.Errors) > 0 {
		return nil, errors.Newf(errors.TypeTransport,
			"pricing query failed: %s", resp.Errors[0].Message)
	}
	return &resp, nil
}

func decodeProducts(raw json.RawMessage) ([]Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var products []gqlProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, errors.Transport("decoding pricing products", err)
	}

	records := make([]Record, 0, len(products))
	for _, p := range products {
		r := Record{Attributes: make(map[string]string, len(p.Attributes))}
		for _, attr := range p.Attributes {
			r.Attributes[attr.Key] = attr.Value
		}
		for _, price := range p.Prices {
			r.Prices = append(r.Prices, price.USD)
		}
		records = append(records, r)
	}
	return records, nil
}
