//go:build !windows

package arp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	osutils "github.com/projectdiscovery/utils/os"
)

const procNetARPFile = "/proc/net/arp"

// readLocalARPTable dumps the neighbor cache with `arp -a` (Linux and macOS).
// Linux hosts without net-tools fall back to /proc/net/arp.
func readLocalARPTable(ctx context.Context) ([]byte, error) {
	if !osutils.IsLinux() && !osutils.IsOSX() {
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	output, err := runCommand(ctx, "arp", "-a")
	if err != nil && osutils.IsLinux() && errors.Is(err, exec.ErrNotFound) {
		return readLinuxARPTable()
	}
	return output, err
}

// readLinuxARPTable reads ARP table from /proc/net/arp
func readLinuxARPTable() ([]byte, error) {
	data, err := os.ReadFile(procNetARPFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", procNetARPFile, err)
	}
	return renderProcNetARP(data), nil
}
