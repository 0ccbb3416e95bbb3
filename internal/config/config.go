// Package config provides configuration management.
// A Config is constructed once at process start and passed by reference
// into every component that needs it; it is never mutated afterwards.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"cloudprice/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Upstream contains pricing-service settings
	Upstream UpstreamConfig `json:"upstream"`

	// Managed contains managed-database API settings
	Managed ManagedConfig `json:"managed"`

	// Filters bound the candidate instance types queried per provider
	Filters FilterConfig `json:"filters"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// UpstreamConfig contains pricing-service settings
type UpstreamConfig struct {
	// Endpoint is the GraphQL pricing service URL
	Endpoint string `json:"endpoint"`

	// APIKey authenticates against the pricing service
	APIKey string `json:"api_key,omitempty"`

	// CacheTTLSeconds is how long fetched responses stay cached
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// CacheVersion is mixed into every cache key; bump it to force refetching
	CacheVersion string `json:"cache_version"`
}

// ManagedConfig contains managed-database API settings
type ManagedConfig struct {
	// BaseURL is the managed-database web API root
	BaseURL string `json:"base_url"`
}

// FilterConfig bounds candidate expansion when no explicit type list is given
type FilterConfig struct {
	AWSInstanceFamilies []string `json:"aws_instance_families"`
	AWSInstanceSizes    []string `json:"aws_instance_sizes"`
	GCPInstanceFamilies []string `json:"gcp_instance_families"`
	GCPInstanceSizes    []string `json:"gcp_instance_sizes"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Upstream: UpstreamConfig{
			Endpoint:        "https://pricing.api.infracost.io/graphql",
			APIKey:          os.Getenv("INFRACOST_API_KEY"),
			CacheTTLSeconds: 86400, // 24 hours
			CacheVersion:    "0",
		},
		Managed: ManagedConfig{
			BaseURL: "https://api.planetscale.com/www/",
		},
		Filters: FilterConfig{},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, merging over defaults.
// JSON and HCL files are supported, selected by extension.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".hcl") {
		return cfg, loadHCL(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// hclFile mirrors Config for HCL decoding; every block is optional so a
// partial file merges over defaults.
type hclFile struct {
	Version  *string      `hcl:"version"`
	Upstream *hclUpstream `hcl:"upstream,block"`
	Managed  *hclManaged  `hcl:"managed,block"`
	Filters  *hclFilters  `hcl:"filters,block"`
	Logging  *hclLogging  `hcl:"logging,block"`
}

type hclUpstream struct {
	Endpoint        *string `hcl:"endpoint"`
	APIKey          *string `hcl:"api_key"`
	CacheTTLSeconds *int    `hcl:"cache_ttl_seconds"`
	CacheVersion    *string `hcl:"cache_version"`
}

type hclManaged struct {
	BaseURL *string `hcl:"base_url"`
}

type hclFilters struct {
	AWSInstanceFamilies []string `hcl:"aws_instance_families,optional"`
	AWSInstanceSizes    []string `hcl:"aws_instance_sizes,optional"`
	GCPInstanceFamilies []string `hcl:"gcp_instance_families,optional"`
	GCPInstanceSizes    []string `hcl:"gcp_instance_sizes,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level"`
	Format      *string `hcl:"format"`
	Output      *string `hcl:"output"`
	Development *bool   `hcl:"development"`
}

func loadHCL(path string, cfg *Config) error {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return err
	}

	if f.Version != nil {
		cfg.Version = *f.Version
	}
	if f.Upstream != nil {
		setString(&cfg.Upstream.Endpoint, f.Upstream.Endpoint)
		setString(&cfg.Upstream.APIKey, f.Upstream.APIKey)
		setString(&cfg.Upstream.CacheVersion, f.Upstream.CacheVersion)
		if f.Upstream.CacheTTLSeconds != nil {
			cfg.Upstream.CacheTTLSeconds = *f.Upstream.CacheTTLSeconds
		}
	}
	if f.Managed != nil {
		setString(&cfg.Managed.BaseURL, f.Managed.BaseURL)
	}
	if f.Filters != nil {
		cfg.Filters.AWSInstanceFamilies = f.Filters.AWSInstanceFamilies
		cfg.Filters.AWSInstanceSizes = f.Filters.AWSInstanceSizes
		cfg.Filters.GCPInstanceFamilies = f.Filters.GCPInstanceFamilies
		cfg.Filters.GCPInstanceSizes = f.Filters.GCPInstanceSizes
	}
	if f.Logging != nil {
		setString(&cfg.Logging.Level, f.Logging.Level)
		setString(&cfg.Logging.Format, f.Logging.Format)
		setString(&cfg.Logging.Output, f.Logging.Output)
		if f.Logging.Development != nil {
			cfg.Logging.Development = *f.Logging.Development
		}
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
