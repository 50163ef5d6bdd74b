package common

import (
	"context"
	"errors"
	"fmt"
	"net"

	sliceutil "github.com/projectdiscovery/utils/slice"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoInterface is returned when no local interface can be used for discovery
var ErrNoInterface = errors.New("no eligible network interface found")

// Interface is the local interface discovery operates on
type Interface struct {
	Name    string
	IP      net.IP
	Network *net.IPNet
}

// String returns the interface as name/cidr
func (i *Interface) String() string {
	ones, _ := i.Network.Mask.Size()
	return fmt.Sprintf("%s %s/%d", i.Name, i.IP, ones)
}

// SelectInterface returns the first up, non-loopback interface carrying an IPv4 address.
// When restrict is non-empty only an interface owning that exact address is eligible.
func SelectInterface(ctx context.Context, restrict string) (*Interface, error) {
	var restrictIP net.IP
	if restrict != "" {
		restrictIP = net.ParseIP(restrict)
		if restrictIP == nil || restrictIP.To4() == nil {
			return nil, fmt.Errorf("invalid restrict address %q: %w", restrict, ErrNoInterface)
		}
	}

	interfaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	return selectInterface(interfaces, restrictIP)
}

func selectInterface(interfaces psnet.InterfaceStatList, restrict net.IP) (*Interface, error) {
	for _, iface := range interfaces {
		if sliceutil.Contains(iface.Flags, "loopback") || !sliceutil.Contains(iface.Flags, "up") {
			continue
		}

		for _, addr := range iface.Addrs {
			ip, ipNet, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				continue
			}

			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() {
				continue
			}

			if restrict != nil && !ip4.Equal(restrict) {
				continue
			}

			return &Interface{
				Name: iface.Name,
				IP:   ip4,
				Network: &net.IPNet{
					IP:   ipNet.IP.To4(),
					Mask: ipNet.Mask,
				},
			}, nil
		}
	}

	if restrict != nil {
		return nil, fmt.Errorf("no interface owns %s: %w", restrict, ErrNoInterface)
	}
	return nil, ErrNoInterface
}
