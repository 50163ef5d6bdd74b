package client

import (
	"net/http"
	"time"

	"github.com/projectdiscovery/arpmon/pkg/version"
)

const DefaultTimeout = 10 * time.Second

// CreateVendorClient returns the http client used for vendor lookups.
// When apiToken is set every request carries it as a bearer token.
func CreateVendorClient(apiToken string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     30 * time.Second,
	}

	client := &http.Client{
		Timeout: timeout,
	}

	// Create a custom RoundTripper to add headers to every request
	client.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", version.UserAgent())
		if apiToken != "" {
			req.Header.Set("Authorization", "Bearer "+apiToken)
		}
		return transport.RoundTrip(req)
	})

	return client
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (rf roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return rf(req)
}
