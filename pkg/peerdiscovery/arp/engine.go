package arp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/projectdiscovery/arpmon/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/gologger"
)

// Engine runs discovery cycles against one local subnet.
// Cycles never overlap: Discover callers wait for the running cycle and
// Monitor ticks arriving during a cycle are skipped.
type Engine struct {
	options    Options
	iface      *common.Interface
	candidates []net.IP
	registry   *Registry
	vendors    *VendorResolver

	flood func(ctx context.Context, candidates []net.IP) error
	now   func() time.Time

	cycleMu   sync.Mutex
	lastFlood time.Time
}

// New selects the local interface, enumerates its subnet and returns an engine.
// It fails with common.ErrNoInterface when no interface is eligible.
func New(opts *Options) (*Engine, error) {
	options := applyDefaults(opts)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	iface, err := common.SelectInterface(context.Background(), options.Restrict)
	if err != nil {
		return nil, err
	}
	return newEngine(options, iface)
}

func newEngine(options Options, iface *common.Interface) (*Engine, error) {
	candidates, err := common.Candidates(iface.Network, options.MaxHosts)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", iface.Network, err)
	}

	e := &Engine{
		options:    options,
		iface:      iface,
		candidates: candidates,
		registry:   NewRegistry(),
		now:        time.Now,
	}
	e.flood = func(ctx context.Context, candidates []net.IP) error {
		return Flood(ctx, candidates, e.options.Port, e.options.Timeout, e.options.MaxConnections)
	}
	if options.ResolveVendor {
		e.vendors = NewVendorResolver(options.HTTPClient, options.VendorAPI, options.VendorJSONPath, options.VendorConcurrency)
	}
	return e, nil
}

// Interface returns the interface the engine operates on
func (e *Engine) Interface() *common.Interface {
	return e.iface
}

// Candidates returns the number of addresses probed by a flood
func (e *Engine) Candidates() int {
	return len(e.candidates)
}

// Discover runs exactly one cycle. A flood is performed only when FloodInterval
// elapsed since the previous one; otherwise the cycle starts at reading the table.
// Errors met during the cycle are published as events; the returned error is
// only set when ctx ended before the cycle could run.
func (e *Engine) Discover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	return e.cycle(ctx)
}

// Monitor runs a cycle immediately and then every interval until ctx is done.
// A tick is skipped when the previous cycle is still running.
func (e *Engine) Monitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("monitor interval must be positive: %w", ErrInvalidOptions)
	}

	if err := e.Discover(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// wait for an in-flight cycle to observe the cancellation
			e.cycleMu.Lock()
			e.cycleMu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			if !e.cycleMu.TryLock() {
				gologger.Warning().Msgf("discovery cycle still running, skipping tick")
				continue
			}
			// run in the background so ctx cancellation is observed while a slow cycle runs
			go func() {
				defer e.cycleMu.Unlock()
				if err := e.cycle(ctx); err != nil {
					gologger.Debug().Msgf("discovery cycle interrupted: %s", err)
				}
			}()
		}
	}
}

// GetIps returns a point-in-time ip -> mac mapping of active hosts
func (e *Engine) GetIps() map[string]string {
	return e.registry.HostsByAddress()
}

// GetMacs returns a point-in-time mac -> ip mapping of active hosts
func (e *Engine) GetMacs() map[string]string {
	return e.registry.HostsByHardwareAddress()
}

// Hosts returns a snapshot of the active hosts
func (e *Engine) Hosts() []HostRecord {
	return e.registry.Snapshot()
}

// cycle runs flood -> read -> parse -> update -> resolve -> publish.
// The caller must hold cycleMu.
func (e *Engine) cycle(ctx context.Context) error {
	// flood
	if now := e.now(); now.Sub(e.lastFlood) >= e.options.FloodInterval {
		e.lastFlood = now
		gologger.Verbose().Msgf("flooding %d hosts of %s on port %d", len(e.candidates), e.iface.Network, e.options.Port)
		if err := e.flood(ctx, e.candidates); err != nil {
			e.publish(Event{Type: EventError, Err: err})
		}
	} else {
		gologger.Debug().Msgf("flood skipped, last flood at %s", e.lastFlood.Format(time.RFC3339))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// read
	output, err := e.options.TableReader.ReadTable(ctx)
	if err != nil {
		e.publish(Event{Type: EventError, Err: err})
	}

	// parse
	sightings := ParseTable(string(output), e.now())
	gologger.Debug().Msgf("parsed %d hosts from neighbor table", len(sightings))

	// update
	for _, sighting := range sightings {
		if eventType, ok := e.registry.Apply(sighting); ok {
			host, _ := e.registry.Get(sighting.MAC)
			e.publish(Event{Type: eventType, Host: host})
		}
	}
	for _, host := range e.registry.Expire(e.lastFlood) {
		e.publish(Event{Type: EventLost, Host: host})
	}

	// resolve
	var vendorErr error
	if e.vendors != nil {
		if vendorErr = e.vendors.Resolve(ctx, e.registry); vendorErr != nil {
			e.publish(Event{Type: EventError, Err: vendorErr})
		}
	}

	// publish
	e.publish(Event{Type: EventSuccess, Hosts: e.registry.Snapshot(), Err: vendorErr})
	return nil
}

func (e *Engine) publish(event Event) {
	if e.options.OnEvent == nil {
		return
	}
	event.Timestamp = e.now()
	e.options.OnEvent(event)
}
