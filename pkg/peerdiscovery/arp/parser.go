package arp

import (
	"net"
	"regexp"
	"strings"
	"time"
)

// lineRegex matches the "<hostname|?> (<ip>)" head of a neighbor cache line
var lineRegex = regexp.MustCompile(`^([^ ]+) \(([^)]+)\)`)

// NormalizeMAC returns the canonical form of a colon separated hardware address:
// uppercase, six groups, every group two hex digits wide.
// ok is false when the address cannot be brought into that form.
func NormalizeMAC(mac string) (string, bool) {
	parts := strings.Split(strings.ToUpper(mac), ":")
	if len(parts) != 6 {
		return "", false
	}

	for i, part := range parts {
		switch len(part) {
		case 1:
			part = "0" + part
		case 2:
		default:
			return "", false
		}
		if !isHex(part[0]) || !isHex(part[1]) {
			return "", false
		}
		parts[i] = part
	}
	return strings.Join(parts, ":"), true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// ParseLine extracts a host sighting from a single neighbor cache line.
// Expected shape: "<hostname|?> (<ipv4>) at <mac> [on <interface>]".
// Lines without a usable IPv4 address or hardware address, and broadcast
// entries, are rejected.
func ParseLine(line string, now time.Time) (HostRecord, bool) {
	line = strings.TrimSpace(line)
	match := lineRegex.FindStringSubmatch(line)
	if match == nil {
		return HostRecord{}, false
	}

	ip := net.ParseIP(match[2]).To4()
	if ip == nil {
		return HostRecord{}, false
	}

	host := HostRecord{
		IP:       ip,
		Hostname: match[1],
		LastSeen: now,
	}
	if host.Hostname == "?" {
		host.Hostname = UnknownHostname
	}

	macToken := tokenAfter(line, " at ")
	if macToken == "" {
		return HostRecord{}, false
	}
	mac, ok := NormalizeMAC(macToken)
	if !ok || mac == BroadcastMAC {
		return HostRecord{}, false
	}
	host.MAC = mac
	host.Interface = tokenAfter(line, " on ")

	return host, true
}

// ParseTable parses a full neighbor cache dump, silently dropping lines that
// do not describe a resolved host.
func ParseTable(raw string, now time.Time) []HostRecord {
	var hosts []HostRecord
	for _, line := range strings.Split(raw, "\n") {
		if host, ok := ParseLine(line, now); ok {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// tokenAfter returns the whitespace delimited token following marker
func tokenAfter(line, marker string) string {
	idx := strings.Index(line, marker)
	if idx == -1 {
		return ""
	}
	fields := strings.Fields(line[idx+len(marker):])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
