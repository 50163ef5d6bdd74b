package arp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/projectdiscovery/gcache"
	"github.com/projectdiscovery/gologger"
	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"
	"github.com/tidwall/gjson"
)

const (
	// DefaultVendorAPI is queried as <api><MAC> and answers with the vendor name
	DefaultVendorAPI = "http://api.macvendors.com/"
	// DefaultVendorConcurrency bounds in-flight vendor lookups
	DefaultVendorConcurrency = 10

	vendorCacheSize       = 4096
	vendorCacheExpiration = 24 * time.Hour
	// vendor names are short, anything longer is not a vendor
	maxVendorBodySize = 64 * 1024
)

// VendorResolver enriches registry hosts with their hardware vendor
type VendorResolver struct {
	client      *http.Client
	api         string
	jsonPath    string
	concurrency int
	cache       gcache.Cache[string, string]
}

// NewVendorResolver creates a resolver querying api with client.
// When jsonPath is set the response body is treated as JSON and the vendor is
// read from that path.
func NewVendorResolver(client *http.Client, api, jsonPath string, concurrency int) *VendorResolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if api == "" {
		api = DefaultVendorAPI
	}
	if concurrency < 1 {
		concurrency = DefaultVendorConcurrency
	}
	return &VendorResolver{
		client:      client,
		api:         api,
		jsonPath:    jsonPath,
		concurrency: concurrency,
		cache: gcache.New[string, string](vendorCacheSize).
			LRU().
			Expiration(vendorCacheExpiration).
			Build(),
	}
}

// Resolve looks up the vendor of every registry host that has none.
// Failed lookups leave the host without vendor and do not stop the batch;
// the last failure is returned once all lookups completed.
func (v *VendorResolver) Resolve(ctx context.Context, registry *Registry) error {
	var pending []string
	for _, host := range registry.Snapshot() {
		if host.Vendor != "" {
			continue
		}
		if vendor, err := v.cache.Get(host.MAC); err == nil && vendor != "" {
			registry.SetVendor(host.MAC, vendor)
			continue
		}
		pending = append(pending, host.MAC)
	}
	if len(pending) == 0 {
		return nil
	}

	awg, err := syncutil.New(syncutil.WithSize(v.concurrency))
	if err != nil {
		return fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	resolved := mapsutil.NewSyncLockMap[string, string]()
	var (
		lastErr error
		errMu   sync.Mutex
	)

	for _, mac := range pending {
		select {
		case <-ctx.Done():
			goto done
		default:
		}

		awg.Add()
		go func(mac string) {
			defer awg.Done()

			vendor, err := v.lookup(ctx, mac)
			if err != nil {
				gologger.Debug().Msgf("%s", err)
				errMu.Lock()
				lastErr = err
				errMu.Unlock()
				return
			}
			_ = resolved.Set(mac, vendor)
		}(mac)
	}

done:
	awg.Wait()

	_ = resolved.Iterate(func(mac, vendor string) error {
		registry.SetVendor(mac, vendor)
		_ = v.cache.Set(mac, vendor)
		return nil
	})
	return lastErr
}

// lookup queries the vendor api for a single hardware address
func (v *VendorResolver) lookup(ctx context.Context, mac string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.api+mac, nil)
	if err != nil {
		return "", &VendorLookupError{MAC: mac, Err: err}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", &VendorLookupError{MAC: mac, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVendorBodySize))
	if err != nil {
		return "", &VendorLookupError{MAC: mac, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &VendorLookupError{MAC: mac, StatusCode: resp.StatusCode}
	}

	vendor := strings.TrimSpace(string(body))
	if v.jsonPath != "" {
		vendor = strings.TrimSpace(gjson.GetBytes(body, v.jsonPath).String())
	}
	if vendor == "" {
		return "", &VendorLookupError{MAC: mac, StatusCode: resp.StatusCode, Err: fmt.Errorf("empty vendor in response")}
	}
	return vendor, nil
}
