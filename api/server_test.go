package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloudprice/clouds/pricingapi"
	"cloudprice/clouds/psdb"
	"cloudprice/core/engine"
	"cloudprice/internal/config"
)

type stubQuerier struct {
	records map[string][]pricingapi.Record
}

func (s *stubQuerier) Products(ctx context.Context, q pricingapi.Query) ([]pricingapi.Record, error) {
	for _, af := range q.Filter.Attributes {
		if af.Key == "instanceType" || af.Key == "machineType" {
			return s.records[af.Value], nil
		}
	}
	return nil, nil
}

func (s *stubQuerier) ProductsBatch(ctx context.Context, batch []pricingapi.BatchQuery) (map[string][]pricingapi.Record, error) {
	out := make(map[string][]pricingapi.Record)
	for _, bq := range batch {
		for _, af := range bq.Query.Filter.Attributes {
			if af.Key == "instanceType" || af.Key == "machineType" {
				if recs, ok := s.records[af.Value]; ok {
					out[bq.Alias] = recs
				}
			}
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	managed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/regions"):
			w.Write([]byte(`{"data":[{"slug":"us-east","provider":"aws","display_name":"AWS us-east-1"}]}`))
		case strings.HasSuffix(r.URL.Path, "/cluster-size-skus"):
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))

	querier := &stubQuerier{records: map[string][]pricingapi.Record{
		"m5.xlarge": {{
			Attributes: map[string]string{"vcpu": "4", "memory": "16 GiB"},
			Prices:     []string{"0.192"},
		}},
	}}

	cfg := config.Default()
	cfg.Filters.AWSInstanceFamilies = []string{"m5"}
	cfg.Filters.AWSInstanceSizes = []string{"xlarge"}

	eng := engine.New(cfg, querier, psdb.NewClient(managed.URL))
	return NewServer(eng, "test"), managed.Close
}

func TestInstancePriceEndpoint(t *testing.T) {
	server, done := newTestServer(t)
	defer done()

	body := `{"provider":"aws","product":"ec2","instance_type":"m5.xlarge","region":"us-east-1"}`
	req := httptest.NewRequest(http.MethodPost, "/price/instance", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp PriceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.HourlyUSD != "0.192" {
		t.Errorf("hourly = %q, want 0.192", resp.HourlyUSD)
	}
}

// TestInstancePriceNotFound verifies the error envelope carries the
// typed code and maps to 404.
func TestInstancePriceNotFound(t *testing.T) {
	server, done := newTestServer(t)
	defer done()

	body := `{"provider":"aws","product":"ec2","instance_type":"m7i.64xlarge","region":"us-east-1"}`
	req := httptest.NewRequest(http.MethodPost, "/price/instance", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Errorf("body should carry the error code: %s", rec.Body.String())
	}
}

func TestInstancePriceValidationError(t *testing.T) {
	server, done := newTestServer(t)
	defer done()

	body := `{"provider":"aws","product":"ec2","instance_type":"m5.xlarge","region":"us-east-1","purchase_type":"spot"}`
	req := httptest.NewRequest(http.MethodPost, "/price/instance", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("body should carry the error code: %s", rec.Body.String())
	}
}

func TestMatrixEndpoint(t *testing.T) {
	server, done := newTestServer(t)
	defer done()

	body := `{"provider":"aws","product":"ec2","region":"us-east-1"}`
	req := httptest.NewRequest(http.MethodPost, "/matrix", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp MatrixResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// header plus one priced row
	if len(resp.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(resp.Rows))
	}
	if resp.Rows[0][0] != "Instance Type" {
		t.Errorf("header = %v", resp.Rows[0])
	}
}

func TestHealthAndVersion(t *testing.T) {
	server, done := newTestServer(t)
	defer done()

	for _, path := range []string{"/health", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
