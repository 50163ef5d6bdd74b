package arp

import (
	"testing"
	"time"
)

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOk bool
	}{
		{name: "single digit groups padded", input: "a:b:c:1:2:3", want: "0A:0B:0C:01:02:03", wantOk: true},
		{name: "already canonical", input: "0A:1B:2C:3D:4E:5F", want: "0A:1B:2C:3D:4E:5F", wantOk: true},
		{name: "lowercase", input: "0a:1b:2c:3d:4e:5f", want: "0A:1B:2C:3D:4E:5F", wantOk: true},
		{name: "broadcast", input: "ff:ff:ff:ff:ff:ff", want: "FF:FF:FF:FF:FF:FF", wantOk: true},
		{name: "five groups", input: "0a:1b:2c:3d:4e", wantOk: false},
		{name: "seven groups", input: "0a:1b:2c:3d:4e:5f:60", wantOk: false},
		{name: "incomplete linux", input: "<incomplete>", wantOk: false},
		{name: "incomplete macos", input: "(incomplete)", wantOk: false},
		{name: "empty group", input: "0a::2c:3d:4e:5f", wantOk: false},
		{name: "non hex", input: "0g:1b:2c:3d:4e:5f", wantOk: false},
		{name: "dash separated", input: "0a-1b-2c-3d-4e-5f", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeMAC(tt.input)
			if ok != tt.wantOk {
				t.Fatalf("NormalizeMAC(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name          string
		line          string
		wantOk        bool
		wantIP        string
		wantMAC       string
		wantHostname  string
		wantInterface string
	}{
		{
			name:          "macos unknown hostname",
			line:          "? (192.168.1.5) at 0a:1b:2c:3d:4e:5f on en0",
			wantOk:        true,
			wantIP:        "192.168.1.5",
			wantMAC:       "0A:1B:2C:3D:4E:5F",
			wantHostname:  UnknownHostname,
			wantInterface: "en0",
		},
		{
			name:          "macos with ifscope",
			line:          "router.lan (192.168.1.1) at a:b:c:d:e:f on en0 ifscope [ethernet]",
			wantOk:        true,
			wantIP:        "192.168.1.1",
			wantMAC:       "0A:0B:0C:0D:0E:0F",
			wantHostname:  "router.lan",
			wantInterface: "en0",
		},
		{
			name:          "linux net-tools",
			line:          "nas.home (10.0.0.20) at 00:11:32:aa:bb:cc [ether] on eth0",
			wantOk:        true,
			wantIP:        "10.0.0.20",
			wantMAC:       "00:11:32:AA:BB:CC",
			wantHostname:  "nas.home",
			wantInterface: "eth0",
		},
		{
			name:         "no interface",
			line:         "? (10.0.0.21) at 00:11:32:aa:bb:cd",
			wantOk:       true,
			wantIP:       "10.0.0.21",
			wantMAC:      "00:11:32:AA:BB:CD",
			wantHostname: UnknownHostname,
		},
		{
			name:   "incomplete entry",
			line:   "? (192.168.1.7) at (incomplete) on en0 ifscope [ethernet]",
			wantOk: false,
		},
		{
			name:   "broadcast entry",
			line:   "? (192.168.1.255) at ff:ff:ff:ff:ff:ff on en0 ifscope [ethernet]",
			wantOk: false,
		},
		{
			name:   "missing parentheses",
			line:   "192.168.1.5 at 0a:1b:2c:3d:4e:5f on en0",
			wantOk: false,
		},
		{
			name:   "missing mac",
			line:   "? (192.168.1.5) on en0",
			wantOk: false,
		},
		{
			name:   "ipv6 address",
			line:   "? (fe80::1) at 0a:1b:2c:3d:4e:5f on en0",
			wantOk: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, ok := ParseLine(tt.line, now)
			if ok != tt.wantOk {
				t.Fatalf("ParseLine() ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if host.IP.String() != tt.wantIP {
				t.Errorf("ip = %s, want %s", host.IP, tt.wantIP)
			}
			if host.MAC != tt.wantMAC {
				t.Errorf("mac = %s, want %s", host.MAC, tt.wantMAC)
			}
			if host.Hostname != tt.wantHostname {
				t.Errorf("hostname = %s, want %s", host.Hostname, tt.wantHostname)
			}
			if host.Interface != tt.wantInterface {
				t.Errorf("interface = %s, want %s", host.Interface, tt.wantInterface)
			}
			if !host.LastSeen.Equal(now) {
				t.Errorf("last seen = %s, want %s", host.LastSeen, now)
			}
		})
	}
}

func TestParseTable(t *testing.T) {
	raw := `? (192.168.1.1) at 0:1:2:3:4:5 on en0 ifscope [ethernet]
garbage line
? (192.168.1.7) at (incomplete) on en0 ifscope [ethernet]
printer (192.168.1.40) at 3c:2a:f4:10:20:30 on en0 ifscope [ethernet]
? (192.168.1.255) at ff:ff:ff:ff:ff:ff on en0 ifscope [ethernet]
? (224.0.0.251) at 1:0:5e:0:0:fb on en0 ifscope permanent [ethernet]
`
	hosts := ParseTable(raw, time.Now())
	if len(hosts) != 3 {
		t.Fatalf("ParseTable() returned %d hosts, want 3: %+v", len(hosts), hosts)
	}

	want := []string{"00:01:02:03:04:05", "3C:2A:F4:10:20:30", "01:00:5E:00:00:FB"}
	for i, host := range hosts {
		if host.MAC != want[i] {
			t.Errorf("host %d mac = %s, want %s", i, host.MAC, want[i])
		}
	}
}
