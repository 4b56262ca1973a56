package mariadb

import (
	"context"
	"database/sql"
	"time"
)

// PoolStats is the subset of sql.DBStats exposed on /health.
type PoolStats struct {
	Open    int `json:"open"`
	InUse   int `json:"in_use"`
	Idle    int `json:"idle"`
	MaxOpen int `json:"max_open"`
}

// Check pings the database with a short deadline and returns the current pool counters.
func Check(ctx context.Context, db *sql.DB) (PoolStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	s := db.Stats()
	return PoolStats{
		Open:    s.OpenConnections,
		InUse:   s.InUse,
		Idle:    s.Idle,
		MaxOpen: s.MaxOpenConnections,
	}, err
}
