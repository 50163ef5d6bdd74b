package arp

import (
	"bytes"
	"sort"
	"time"

	mapsutil "github.com/projectdiscovery/utils/maps"
)

// Registry holds the currently active hosts keyed by normalized MAC.
//
// Transitions per MAC:
//   - absent -> active on first sighting (EventFound)
//   - active -> active when the sighting carries a different IP (EventUpdate)
//   - active -> absent when not seen since the flood of the current cycle (EventLost)
type Registry struct {
	hosts *mapsutil.SyncLockMap[string, *HostRecord]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		hosts: mapsutil.NewSyncLockMap[string, *HostRecord](),
	}
}

// Apply records a sighting and reports the transition it caused, if any.
// Address, hostname, interface and last seen are overwritten while a known
// vendor is kept.
func (r *Registry) Apply(sighting HostRecord) (EventType, bool) {
	if sighting.MAC == "" || sighting.MAC == BroadcastMAC {
		return 0, false
	}

	existing, exists := r.hosts.Get(sighting.MAC)
	if exists && sighting.Vendor == "" {
		sighting.Vendor = existing.Vendor
	}
	record := sighting.clone()
	_ = r.hosts.Set(sighting.MAC, &record)

	switch {
	case !exists:
		return EventFound, true
	case !existing.IP.Equal(sighting.IP):
		return EventUpdate, true
	default:
		return 0, false
	}
}

// Expire removes and returns every host whose last sighting predates floodTime
func (r *Registry) Expire(floodTime time.Time) []HostRecord {
	var stale []HostRecord
	_ = r.hosts.Iterate(func(mac string, host *HostRecord) error {
		if host.LastSeen.Before(floodTime) {
			stale = append(stale, host.clone())
		}
		return nil
	})

	for _, host := range stale {
		r.hosts.Delete(host.MAC)
	}
	sortHosts(stale)
	return stale
}

// SetVendor sets the vendor of a known host
func (r *Registry) SetVendor(mac, vendor string) bool {
	host, ok := r.hosts.Get(mac)
	if !ok {
		return false
	}
	updated := host.clone()
	updated.Vendor = vendor
	_ = r.hosts.Set(mac, &updated)
	return true
}

// Get returns a copy of the host registered under mac
func (r *Registry) Get(mac string) (HostRecord, bool) {
	host, ok := r.hosts.Get(mac)
	if !ok {
		return HostRecord{}, false
	}
	return host.clone(), true
}

// Len returns the number of active hosts
func (r *Registry) Len() int {
	count := 0
	_ = r.hosts.Iterate(func(string, *HostRecord) error {
		count++
		return nil
	})
	return count
}

// HostsByAddress returns a point-in-time ip -> mac mapping
func (r *Registry) HostsByAddress() map[string]string {
	ips := make(map[string]string)
	_ = r.hosts.Iterate(func(mac string, host *HostRecord) error {
		ips[host.IP.String()] = mac
		return nil
	})
	return ips
}

// HostsByHardwareAddress returns a point-in-time mac -> ip mapping
func (r *Registry) HostsByHardwareAddress() map[string]string {
	macs := make(map[string]string)
	_ = r.hosts.Iterate(func(mac string, host *HostRecord) error {
		macs[mac] = host.IP.String()
		return nil
	})
	return macs
}

// Snapshot returns a copy of all active hosts ordered by IP
func (r *Registry) Snapshot() []HostRecord {
	hosts := []HostRecord{}
	_ = r.hosts.Iterate(func(_ string, host *HostRecord) error {
		hosts = append(hosts, host.clone())
		return nil
	})
	sortHosts(hosts)
	return hosts
}

func sortHosts(hosts []HostRecord) {
	sort.Slice(hosts, func(i, j int) bool {
		if c := bytes.Compare(hosts[i].IP.To16(), hosts[j].IP.To16()); c != 0 {
			return c < 0
		}
		return hosts[i].MAC < hosts[j].MAC
	})
}
