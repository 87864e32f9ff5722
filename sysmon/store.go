package sysmon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Metric is one persisted sample, mirroring the Snapshot fields.
type Metric struct {
	bun.BaseModel `bun:"table:metrics"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Timestamp      time.Time `bun:"timestamp,nullzero,notnull,default:current_timestamp" json:"timestamp"`
	CPUUsage       float64   `bun:"cpu_usage" json:"cpu_usage"`
	MemoryUsed     float64   `bun:"memory_used" json:"memory_used"`
	MemoryPercent  float64   `bun:"memory_percent" json:"memory_percent"`
	DiskUsed       float64   `bun:"disk_used" json:"disk_used"`
	DiskPercent    float64   `bun:"disk_percent" json:"disk_percent"`
	BytesSent      float64   `bun:"bytes_sent" json:"bytes_sent"`
	BytesRecv      float64   `bun:"bytes_recv" json:"bytes_recv"`
	BatteryPercent *float64  `bun:"battery_percent" json:"battery_percent,omitempty"`
	BatteryPlugged *bool     `bun:"battery_plugged" json:"battery_plugged,omitempty"`
}

// Store writes metric rows to Postgres through bun.
type Store struct {
	db *bun.DB
}

type StoreConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// NewStore connects to Postgres with the given DSN.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing bun.DB; used by tests.
func NewStoreFromDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// Init creates the metrics table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Metric)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create metrics table: %w", err)
	}
	return nil
}

// Insert stores one snapshot as a row.
func (s *Store) Insert(ctx context.Context, snap Snapshot) error {
	row := &Metric{
		Timestamp:      snap.Time,
		CPUUsage:       snap.CPUPercent,
		MemoryUsed:     snap.MemoryUsedMB,
		MemoryPercent:  snap.MemoryPercent,
		DiskUsed:       snap.DiskUsedMB,
		DiskPercent:    snap.DiskPercent,
		BytesSent:      snap.BytesSentMB,
		BytesRecv:      snap.BytesRecvMB,
		BatteryPercent: snap.BatteryPercent,
		BatteryPlugged: snap.BatteryPlugged,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert metric: %w", err)
	}
	return nil
}

// PruneOlderThan deletes rows past the retention window.
func (s *Store) PruneOlderThan(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)
	if _, err := s.db.NewDelete().Model((*Metric)(nil)).Where("timestamp < ?", cutoff).Exec(ctx); err != nil {
		return fmt.Errorf("prune metrics: %w", err)
	}
	return nil
}

// Latest returns the most recent row.
func (s *Store) Latest(ctx context.Context) (Metric, bool, error) {
	var row Metric
	err := s.db.NewSelect().Model(&row).Order("timestamp DESC").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Metric{}, false, nil
	}
	if err != nil {
		return Metric{}, false, fmt.Errorf("select latest metric: %w", err)
	}
	return row, true, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
