package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/projectdiscovery/arpmon/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/utils/batcher"
	envutil "github.com/projectdiscovery/utils/env"
	"github.com/rs/xid"
)

var (
	// Default number of records buffered before a flush
	DefaultBatchSize = 100
	// Default flush interval for buffered records
	DefaultFlushInterval = 2 * time.Second
)

// GetBatchSize returns the batch size from environment or default
func GetBatchSize() int {
	envVal := envutil.GetEnvOrDefault("ARPMON_OUTPUT_BATCH_SIZE", "")
	if envVal != "" {
		if size, err := strconv.Atoi(envVal); err == nil && size > 0 {
			return size
		}
	}
	return DefaultBatchSize
}

// GetFlushInterval returns the flush interval from environment or default
func GetFlushInterval() time.Duration {
	envVal := envutil.GetEnvOrDefault("ARPMON_OUTPUT_FLUSH_INTERVAL", "")
	if envVal != "" {
		if interval, err := strconv.Atoi(envVal); err == nil && interval > 0 {
			return time.Duration(interval) * time.Second
		}
	}
	return DefaultFlushInterval
}

// Record is a single JSONL output line
type Record struct {
	RunID     string           `json:"run_id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Host      *arp.HostRecord  `json:"host,omitempty"`
	Hosts     []arp.HostRecord `json:"hosts,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// NewRecord converts an event into an output record
func NewRecord(runID string, event arp.Event) Record {
	record := Record{
		RunID:     runID,
		Type:      event.Type.String(),
		Timestamp: event.Timestamp,
	}
	switch event.Type {
	case arp.EventFound, arp.EventUpdate, arp.EventLost:
		host := event.Host
		record.Host = &host
	case arp.EventSuccess:
		record.Hosts = event.Hosts
		if record.Hosts == nil {
			record.Hosts = []arp.HostRecord{}
		}
	}
	if event.Err != nil {
		record.Error = event.Err.Error()
	}
	return record
}

// Writer writes events as JSON lines, buffering them through a batcher
type Writer struct {
	runID   string
	closer  io.Closer
	batcher *batcher.Batcher[Record]

	closeMu sync.RWMutex
	closed  bool

	mu      sync.Mutex
	encoder *json.Encoder
	err     error
}

// NewFileWriter creates a writer appending to the file at path
func NewFileWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open output file %s: %w", path, err)
	}
	w := NewWriter(file)
	w.closer = file
	return w, nil
}

// NewWriter creates a writer on out with a fresh run id
func NewWriter(out io.Writer) *Writer {
	w := &Writer{
		runID:   xid.New().String(),
		encoder: json.NewEncoder(out),
	}

	w.batcher = batcher.New(
		batcher.WithMaxCapacity[Record](GetBatchSize()),
		batcher.WithFlushInterval[Record](GetFlushInterval()),
		batcher.WithFlushCallback[Record](w.flush),
	)

	// Start the batcher
	go w.batcher.Run()

	return w
}

// RunID returns the id stamped on every record of this writer
func (w *Writer) RunID() string {
	return w.runID
}

// Write queues event for output
func (w *Writer) Write(event arp.Event) {
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		return
	}
	w.batcher.Append(NewRecord(w.runID, event))
}

func (w *Writer) flush(records []Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, record := range records {
		if err := w.encoder.Encode(record); err != nil {
			gologger.Error().Msgf("Could not write output record: %s\n", err)
			w.err = err
			return
		}
	}
}

// Close flushes pending records and closes the underlying file, if any
func (w *Writer) Close() error {
	w.closeMu.Lock()
	if w.closed {
		w.closeMu.Unlock()
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.err
	}
	w.closed = true
	w.closeMu.Unlock()

	w.batcher.Stop()
	w.batcher.WaitDone()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && w.err == nil {
			w.err = err
		}
	}
	return w.err
}
