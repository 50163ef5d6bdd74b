package arp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	syncutil "github.com/projectdiscovery/utils/sync"
)

// Flood attempts a TCP connection to every candidate on port so that the OS
// resolves their hardware addresses. Connected, refused and timed out probes
// all count as done. At most concurrency probes are in flight; Flood returns
// once every started probe has finished. No new probe is started after ctx is done.
func Flood(ctx context.Context, candidates []net.IP, port int, timeout time.Duration, concurrency int) error {
	if len(candidates) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	awg, err := syncutil.New(syncutil.WithSize(concurrency))
	if err != nil {
		return fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	dialer := &net.Dialer{Timeout: timeout}
	portStr := strconv.Itoa(port)

	for _, ip := range candidates {
		select {
		case <-ctx.Done():
			goto done
		default:
		}

		awg.Add()
		go func(target string) {
			defer awg.Done()
			probe(ctx, dialer, net.JoinHostPort(target, portStr))
		}(ip.String())
	}

done:
	awg.Wait()
	return nil
}

// probe dials address once; the outcome is irrelevant, only the neighbor
// resolution it triggers matters
func probe(ctx context.Context, dialer *net.Dialer, address string) {
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return
	}
	_ = conn.Close()
}
