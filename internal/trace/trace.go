// Package trace records spike trains to SQLite for offline analysis. It is
// layered entirely on the engine's spike hook and read accessors; the engine
// itself never depends on it. The recording is an append-only log of emitted
// spikes, not a persistence format for the network.
package trace

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/spikesim/internal/neuron"
)

// schema is the spike log schema. One row per committed spike.
const schema = `
CREATE TABLE IF NOT EXISTS spikes (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    sim_time REAL NOT NULL,
    neuron INTEGER NOT NULL,
    recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spikes_neuron ON spikes(neuron);
CREATE INDEX IF NOT EXISTS idx_spikes_sim_time ON spikes(sim_time);
`

// Spike is one recorded fire.
type Spike struct {
	Seq        int64     `json:"seq"`
	SimTime    float64   `json:"sim_time"`
	Neuron     neuron.ID `json:"neuron"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Recorder appends spikes to a SQLite database at dir/spikes.db.
type Recorder struct {
	db     *sql.DB
	dbPath string
}

// NewRecorder opens (or creates) the spike database under dir.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	dbPath := filepath.Join(dir, "spikes.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open spike database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize spike schema: %w", err)
	}

	return &Recorder{db: db, dbPath: dbPath}, nil
}

// Record appends one spike.
func (r *Recorder) Record(ctx context.Context, simTime float64, id neuron.ID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spikes (sim_time, neuron, recorded_at) VALUES (?, ?, ?)`,
		simTime, uint32(id), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record spike: %w", err)
	}
	return nil
}

// Hook adapts the recorder to the engine's spike hook signature. Recording
// failures are dropped: tracing must never fail a simulation step.
func (r *Recorder) Hook() func(simTime float64, id neuron.ID) {
	return func(simTime float64, id neuron.ID) {
		_ = r.Record(context.Background(), simTime, id)
	}
}

// Spikes returns all recorded spikes in recording order.
func (r *Recorder) Spikes(ctx context.Context) ([]Spike, error) {
	return r.query(ctx, `SELECT seq, sim_time, neuron, recorded_at FROM spikes ORDER BY seq`)
}

// SpikesFor returns the spikes of one neuron in recording order.
func (r *Recorder) SpikesFor(ctx context.Context, id neuron.ID) ([]Spike, error) {
	return r.query(ctx,
		`SELECT seq, sim_time, neuron, recorded_at FROM spikes WHERE neuron = ? ORDER BY seq`,
		uint32(id))
}

// CountBetween returns the number of spikes with lo <= sim_time <= hi.
func (r *Recorder) CountBetween(ctx context.Context, lo, hi float64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spikes WHERE sim_time BETWEEN ? AND ?`, lo, hi).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count spikes: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

func (r *Recorder) query(ctx context.Context, q string, args ...any) ([]Spike, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query spikes: %w", err)
	}
	defer rows.Close()

	var spikes []Spike
	for rows.Next() {
		var s Spike
		var recordedAt string
		var id uint32
		if err := rows.Scan(&s.Seq, &s.SimTime, &id, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan spike: %w", err)
		}
		s.Neuron = neuron.ID(id)
		s.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		spikes = append(spikes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spikes: %w", err)
	}
	return spikes, nil
}
