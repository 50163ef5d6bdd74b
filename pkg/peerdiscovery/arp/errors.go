package arp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOptions is returned by New when options cannot be used
var ErrInvalidOptions = errors.New("invalid options")

// CommandError is reported when the neighbor cache command fails or writes to stderr.
// Output captured before the failure is still parsed.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "neighbor table command %q failed", e.Command)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, " (stderr: %s)", stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// VendorLookupError is reported for a single failed vendor lookup
type VendorLookupError struct {
	MAC        string
	StatusCode int
	Err        error
}

func (e *VendorLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vendor lookup for %s failed: %v", e.MAC, e.Err)
	}
	return fmt.Sprintf("vendor lookup for %s failed: unexpected status code %d", e.MAC, e.StatusCode)
}

func (e *VendorLookupError) Unwrap() error {
	return e.Err
}
