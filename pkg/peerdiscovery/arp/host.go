package arp

import (
	"net"
	"time"
)

const (
	// UnknownHostname is used when the neighbor cache has no name for a host
	UnknownHostname = "unknown"
	// BroadcastMAC is never stored in the registry
	BroadcastMAC = "FF:FF:FF:FF:FF:FF"
)

// HostRecord represents a host seen in the neighbor cache
type HostRecord struct {
	IP        net.IP    `json:"ip"`
	MAC       string    `json:"mac"`
	Hostname  string    `json:"hostname"`
	Interface string    `json:"interface,omitempty"`
	LastSeen  time.Time `json:"last_seen"`
	Vendor    string    `json:"vendor,omitempty"`
}

func (h HostRecord) clone() HostRecord {
	if h.IP != nil {
		ip := make(net.IP, len(h.IP))
		copy(ip, h.IP)
		h.IP = ip
	}
	return h
}
