package arp

import "time"

// EventType identifies a published discovery event
type EventType int

const (
	// EventFound is published when a hardware address is seen for the first time
	EventFound EventType = iota + 1
	// EventUpdate is published when a known hardware address moved to another IP
	EventUpdate
	// EventLost is published when a host was not seen since the last flood
	EventLost
	// EventSuccess is published at the end of every cycle with the active hosts
	EventSuccess
	// EventError is published for non-fatal errors (table command, vendor lookup)
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventFound:
		return "found"
	case EventUpdate:
		return "update"
	case EventLost:
		return "lost"
	case EventSuccess:
		return "success"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered to Options.OnEvent
type Event struct {
	Type      EventType
	Timestamp time.Time
	// Host is set for found, update and lost events
	Host HostRecord
	// Hosts is the registry snapshot carried by success events
	Hosts []HostRecord
	// Err is the cause of error events. On success events it holds the last
	// vendor lookup error, if any.
	Err error
}
