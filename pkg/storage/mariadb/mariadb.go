package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/c14220110/hospital-backend/config"
	"github.com/go-sql-driver/mysql"
)

// DSN builds the driver connection string from config. parseTime is always on so DATE/DATETIME
// columns scan into time.Time; clientFoundRows makes UPDATE report matched rather than changed
// rows, so an unchanged row is not mistaken for a missing one.
func DSN(cfg *config.Config) (string, error) {
	loc := time.Local
	if cfg.DBTimezone != "" && cfg.DBTimezone != "Local" {
		l, err := time.LoadLocation(cfg.DBTimezone)
		if err != nil {
			return "", fmt.Errorf("invalid DB_TIMEZONE %q: %w", cfg.DBTimezone, err)
		}
		loc = l
	}

	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Loc = loc
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN(), nil
}

// Connect membuka pool koneksi ke MySQL/MariaDB dan memastikan server bisa di-ping.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
