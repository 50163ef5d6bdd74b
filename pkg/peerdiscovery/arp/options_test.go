package arp

import (
	"errors"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{name: "default port", port: 0},
		{name: "lowest port", port: 1},
		{name: "highest port", port: 65535},
		{name: "negative port", port: -1, wantErr: true},
		{name: "port too large", port: 65536, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Options{Port: tt.port}).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate() error = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	if _, err := New(&Options{Port: 70000}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("New() error = %v, want ErrInvalidOptions", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	options := applyDefaults(nil)
	if options.Port != DefaultPort || options.MaxConnections != DefaultMaxConnections || options.MaxHosts != DefaultMaxHosts {
		t.Errorf("unexpected defaults %+v", options)
	}
	if options.TableReader == nil || options.VendorAPI != DefaultVendorAPI {
		t.Errorf("unexpected defaults %+v", options)
	}
}
