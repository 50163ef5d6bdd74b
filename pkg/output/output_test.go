package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/projectdiscovery/arpmon/pkg/peerdiscovery/arp"
)

func TestNewRecord(t *testing.T) {
	host := arp.HostRecord{
		IP:       net.ParseIP("192.168.1.1"),
		MAC:      "00:11:22:33:44:55",
		Hostname: arp.UnknownHostname,
		LastSeen: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		event     arp.Event
		wantType  string
		wantHost  bool
		wantHosts int
		wantError string
	}{
		{name: "found", event: arp.Event{Type: arp.EventFound, Host: host}, wantType: "found", wantHost: true},
		{name: "lost", event: arp.Event{Type: arp.EventLost, Host: host}, wantType: "lost", wantHost: true},
		{name: "success", event: arp.Event{Type: arp.EventSuccess, Hosts: []arp.HostRecord{host, host}}, wantType: "success", wantHosts: 2},
		{name: "error", event: arp.Event{Type: arp.EventError, Err: errors.New("boom")}, wantType: "error", wantError: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewRecord("run", tt.event)
			if record.RunID != "run" || record.Type != tt.wantType {
				t.Errorf("unexpected record %+v", record)
			}
			if (record.Host != nil) != tt.wantHost {
				t.Errorf("host presence = %v, want %v", record.Host != nil, tt.wantHost)
			}
			if len(record.Hosts) != tt.wantHosts {
				t.Errorf("hosts = %d, want %d", len(record.Hosts), tt.wantHosts)
			}
			if record.Error != tt.wantError {
				t.Errorf("error = %q, want %q", record.Error, tt.wantError)
			}
		})
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}

	host := arp.HostRecord{IP: net.ParseIP("10.0.0.2"), MAC: "AA:BB:CC:DD:EE:FF", Hostname: "nas"}
	w.Write(arp.Event{Type: arp.EventFound, Host: host, Timestamp: time.Now()})
	w.Write(arp.Event{Type: arp.EventSuccess, Hosts: []arp.HostRecord{host}, Timestamp: time.Now()})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// writes after close are dropped
	w.Write(arp.Event{Type: arp.EventFound, Host: host})

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var records []map[string]any
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("invalid json line %q: %v", scanner.Text(), err)
		}
		records = append(records, record)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, record := range records {
		if record["run_id"] != w.RunID() {
			t.Errorf("run_id = %v, want %s", record["run_id"], w.RunID())
		}
	}
	hostField, ok := records[0]["host"].(map[string]any)
	if !ok || hostField["mac"] != "AA:BB:CC:DD:EE:FF" || hostField["ip"] != "10.0.0.2" {
		t.Errorf("unexpected host field %v", records[0]["host"])
	}
	if hosts, ok := records[1]["hosts"].([]any); !ok || len(hosts) != 1 {
		t.Errorf("unexpected hosts field %v", records[1]["hosts"])
	}
}

func TestNewFileWriterInvalidPath(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "events.jsonl")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
