package arp

import (
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultMaxConnections = 64
	DefaultMaxHosts       = 4 * 256
	DefaultTimeout        = 2500 * time.Millisecond
	DefaultPort           = 1
	DefaultFloodInterval  = 5 * time.Minute
)

// Options controls discovery behavior. Zero values are replaced by defaults.
type Options struct {
	// MaxConnections bounds in-flight flood probes
	MaxConnections int
	// MaxHosts caps how many addresses of the subnet are probed
	MaxHosts int
	// Timeout is the per-probe connect timeout
	Timeout time.Duration
	// Port is the TCP port probed on every candidate
	Port int
	// FloodInterval is the minimum time between two floods
	FloodInterval time.Duration
	// Restrict pins interface selection to the interface owning this IPv4 address
	Restrict string

	// ResolveVendor enables vendor enrichment
	ResolveVendor bool
	// VendorAPI is the lookup base, queried as <VendorAPI><MAC>
	VendorAPI string
	// VendorJSONPath extracts the vendor from JSON responses (gjson syntax)
	VendorJSONPath string
	// VendorConcurrency bounds in-flight vendor lookups
	VendorConcurrency int
	// HTTPClient is used for vendor lookups
	HTTPClient *http.Client

	// TableReader dumps the neighbor cache, the OS reader is used when nil
	TableReader TableReader
	// OnEvent receives every published event, synchronously from the cycle
	OnEvent func(Event)
}

func applyDefaults(opts *Options) Options {
	var out Options
	if opts != nil {
		out = *opts
	}

	if out.MaxConnections <= 0 {
		out.MaxConnections = DefaultMaxConnections
	}
	if out.MaxHosts <= 0 {
		out.MaxHosts = DefaultMaxHosts
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.FloodInterval <= 0 {
		out.FloodInterval = DefaultFloodInterval
	}
	if out.VendorAPI == "" {
		out.VendorAPI = DefaultVendorAPI
	}
	if out.VendorConcurrency <= 0 {
		out.VendorConcurrency = DefaultVendorConcurrency
	}
	if out.TableReader == nil {
		out.TableReader = NewTableReader()
	}
	return out
}

// Validate reports options that cannot be used. Zero values are valid and
// stand for the defaults.
func (o *Options) Validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("port %d out of range: %w", o.Port, ErrInvalidOptions)
	}
	return nil
}
