package arp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// TableReader dumps the OS neighbor cache as text, one entry per line in the
// "<hostname|?> (<ipv4>) at <mac> [on <interface>]" shape.
// A *CommandError may be returned together with partial output.
type TableReader interface {
	ReadTable(ctx context.Context) ([]byte, error)
}

// TableReaderFunc adapts a function to TableReader
type TableReaderFunc func(ctx context.Context) ([]byte, error)

// ReadTable calls f(ctx)
func (f TableReaderFunc) ReadTable(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// NewTableReader returns the neighbor cache reader for the running OS
func NewTableReader() TableReader {
	return TableReaderFunc(readLocalARPTable)
}

// runCommand runs name with args and returns its stdout. Any failure or output
// on stderr is reported as *CommandError alongside what was captured on stdout.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil || stderr.Len() > 0 {
		return stdout.Bytes(), &CommandError{
			Command: strings.TrimSpace(name + " " + strings.Join(args, " ")),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// renderProcNetARP converts /proc/net/arp into canonical table lines
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
func renderProcNetARP(data []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))

	// Skip header line
	if !scanner.Scan() {
		return nil
	}

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		ipStr, flags, macStr, device := fields[0], fields[2], fields[3], fields[5]

		// Skip incomplete entries
		if flags == "0x0" || macStr == "00:00:00:00:00:00" {
			continue
		}

		fmt.Fprintf(&out, "? (%s) at %s on %s\n", ipStr, macStr, device)
	}
	return out.Bytes()
}

// interfaceNames maps interface indexes to names
func interfaceNames(interfaces psnet.InterfaceStatList) map[int]string {
	names := make(map[int]string, len(interfaces))
	for _, iface := range interfaces {
		names[iface.Index] = iface.Name
	}
	return names
}

// renderWindowsARPTable converts windows `arp -a` output into canonical table lines.
// The section index (0xa below) is resolved through names; entries of sections
// whose index is unknown carry no interface.
//
//	Interface: 192.168.1.100 --- 0xa
//	  Internet Address      Physical Address      Type
//	  192.168.1.1           aa-bb-cc-dd-ee-ff     dynamic
func renderWindowsARPTable(data []byte, names map[int]string) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))

	var iface string
	inARPTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Entering a new interface section
		if strings.HasPrefix(line, "Interface:") {
			fields := strings.Fields(line)
			iface = ""
			if len(fields) > 0 {
				if index, err := strconv.ParseInt(fields[len(fields)-1], 0, 64); err == nil {
					iface = names[int(index)]
				}
			}
			inARPTable = false
			continue
		}

		// Entering the ARP entries of the current section
		if strings.Contains(line, "Internet Address") && strings.Contains(line, "Physical Address") {
			inARPTable = true
			continue
		}

		if !inARPTable {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		ip := net.ParseIP(fields[0])
		if ip == nil || ip.To4() == nil {
			continue
		}

		macStr := strings.ReplaceAll(fields[1], "-", ":")
		if iface != "" {
			fmt.Fprintf(&out, "? (%s) at %s on %s\n", ip, macStr, iface)
		} else {
			fmt.Fprintf(&out, "? (%s) at %s\n", ip, macStr)
		}
	}
	return out.Bytes()
}
