package psdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloudprice/internal/errors"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/regions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"slug":"us-east","provider":"aws","display_name":"AWS us-east-1"},
			{"slug":"gcp-us-central1","provider":"gcp","display_name":"GCP us-central1"}
		]}`))
	})
	mux.HandleFunc("/cluster-size-skus", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("region") == "empty" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[
			{"name":"PS-80","rate":600,"replica_rate":100,"default_vtgate_rate":30,
			 "default_vtgate":"VTG-20","tshirt_size":"x.g1","metal":false,
			 "cpu":"8","ram":34359738368,"storage":107374182400},
			{"name":"PS-DEV","rate":null,"tshirt_size":"x.g1"}
		]`))
	})
	mux.HandleFunc("/vtgate-size-skus", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"VTG-20","rate":30,"cpu":2}]`))
	})
	return httptest.NewServer(mux)
}

func TestClientRegions(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL)
	regions, err := client.Regions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Slug != "us-east" || regions[0].DisplayName != "AWS us-east-1" {
		t.Errorf("region = %+v", regions[0])
	}
}

func TestClientClusterSKUs(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL)
	skus, err := client.ClusterSKUs(context.Background(), "us-east")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(skus) != 2 {
		t.Fatalf("expected 2 skus, got %d", len(skus))
	}

	priced := skus[0]
	if priced.Name != "PS-80" || priced.Rate == nil {
		t.Fatalf("sku = %+v", priced)
	}
	if priced.Rate.IntPart() != 600 {
		t.Errorf("rate = %s, want 600", priced.Rate)
	}
	// numeric string cpu and byte counts decode
	if priced.CPU.IntPart() != 8 {
		t.Errorf("cpu = %s, want 8", priced.CPU)
	}
	if skus[1].Rate != nil {
		t.Error("null rate should decode as nil")
	}
}

func TestClientGatewaySKUs(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL)
	skus, err := client.GatewaySKUs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(skus) != 1 || skus[0].Name != "VTG-20" {
		t.Fatalf("gateway skus = %+v", skus)
	}
}

func TestClientErrorsAreTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Regions(context.Background())
	if !errors.IsType(err, errors.TypeTransport) {
		t.Fatalf("expected TRANSPORT_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to retrieve regions") {
		t.Errorf("error %q should name the resource", err.Error())
	}
}

func TestClientEmptyRegionsIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Regions(context.Background())
	if err == nil {
		t.Fatal("expected an error for empty regions")
	}
}
