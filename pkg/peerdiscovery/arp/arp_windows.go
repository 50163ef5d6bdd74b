//go:build windows

package arp

import (
	"context"

	"github.com/projectdiscovery/gologger"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// readLocalARPTable reads the local ARP table on Windows using 'arp -a' command
func readLocalARPTable(ctx context.Context) ([]byte, error) {
	output, err := runCommand(ctx, "arp", "-a")

	interfaces, ifErr := psnet.InterfacesWithContext(ctx)
	if ifErr != nil {
		gologger.Debug().Msgf("could not list interfaces: %s", ifErr)
	}
	return renderWindowsARPTable(output, interfaceNames(interfaces)), err
}
