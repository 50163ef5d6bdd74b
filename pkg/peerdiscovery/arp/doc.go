// Package arp discovers and monitors hosts of the local IPv4 subnet through the
// operating system neighbor cache.
//
// Each discovery cycle runs the same ordered stages:
//   - flood: TCP connect attempts against every candidate address so that the OS
//     resolves their hardware addresses (throttled by Options.FloodInterval)
//   - read: dump the neighbor cache (`arp -a`, /proc/net/arp fallback on linux)
//   - parse: turn the dump into host sightings keyed by normalized MAC
//   - update: apply sightings to the registry, expire hosts not seen since the flood
//   - resolve: optionally look up the vendor of hosts without one
//   - publish: deliver found/update/lost/success/error events
//
// Example usage:
//
//	engine, err := arp.New(&arp.Options{
//		OnEvent: func(event arp.Event) {
//			fmt.Println(event.Type, event.Host.IP, event.Host.MAC)
//		},
//	})
//	if err != nil {
//		return err
//	}
//	_ = engine.Monitor(ctx, time.Minute)
package arp
