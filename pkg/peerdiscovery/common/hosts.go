package common

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/projectdiscovery/mapcidr"
)

// Candidates returns the addresses of an IPv4 network that should be probed,
// ascending from the first usable host and capped at maxHosts.
//
// Usable hosts follow the usual convention:
//   - /0 to /30: network+1 .. broadcast-1
//   - /31: both addresses (RFC 3021)
//   - /32: the single address
func Candidates(network *net.IPNet, maxHosts int) ([]net.IP, error) {
	if network == nil {
		return nil, fmt.Errorf("nil network")
	}
	ones, bits := network.Mask.Size()
	if bits != 32 || network.IP.To4() == nil {
		return nil, fmt.Errorf("network %s is not an IPv4 network", network.String())
	}
	if maxHosts <= 0 {
		return []net.IP{}, nil
	}

	base, ok := netip.AddrFromSlice(network.IP.To4().Mask(network.Mask))
	if !ok {
		return nil, fmt.Errorf("invalid network address %s", network.IP)
	}

	total := mapcidr.AddressCountIpnet(network)
	var numHosts uint64
	first := base
	switch ones {
	case 32:
		numHosts = 1
	case 31:
		numHosts = 2
	default:
		numHosts = total - 2
		first = base.Next()
	}

	count := numHosts
	if uint64(maxHosts) < count {
		count = uint64(maxHosts)
	}

	ips := make([]net.IP, 0, count)
	for addr := first; uint64(len(ips)) < count && addr.IsValid(); addr = addr.Next() {
		ips = append(ips, net.IP(addr.AsSlice()))
	}
	return ips, nil
}
