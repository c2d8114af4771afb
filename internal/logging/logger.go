// Package logging provides leveled logging and spike tracing for spikesim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A SpikeLogger for structured JSONL spike traces (spikes.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/spikesim/internal/neuron"
)

// LevelTrace is a custom slog level below Debug for per-event logging.
// At this level every delivery and scheduling decision may be logged.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SpikeLogger writes one JSONL line per committed spike. It is safe for
// concurrent use. A nil SpikeLogger is safe to use; all methods are no-ops
// on nil receiver.
type SpikeLogger struct {
	mu   sync.Mutex
	file *os.File
}

// spikeEntry is the JSONL schema for one spike.
type spikeEntry struct {
	SimTime    float64   `json:"sim_time"`
	Neuron     neuron.ID `json:"neuron"`
	RecordedAt string    `json:"recorded_at"`
}

// NewSpikeLogger creates a spike logger writing to dir/spikes.jsonl.
// At "info" level (the default), returns nil — no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewSpikeLogger(dir string, level string) *SpikeLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "spikes.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &SpikeLogger{file: f}
}

// Log writes one spike as a single JSONL line. Safe to call on nil receiver,
// and usable directly as a brain spike hook.
func (sl *SpikeLogger) Log(simTime float64, id neuron.ID) {
	if sl == nil || sl.file == nil {
		return
	}

	entry := spikeEntry{
		SimTime:    simTime,
		Neuron:     id,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = sl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (sl *SpikeLogger) Close() {
	if sl == nil || sl.file == nil {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.file.Close()
	sl.file = nil
}
