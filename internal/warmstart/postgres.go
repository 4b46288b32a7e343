// Package warmstart seeds a node's routing table from a previous run's
// snapshot and periodically writes the table back out. It never changes
// the bootstrap join algorithm — it only gives it a head start.
package warmstart

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

// Store persists Host records to Postgres across node restarts.
type Store struct {
	db *sql.DB
}

// Config holds the Postgres connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New connects to Postgres and ensures the routing_hosts table exists.
func New(cfg Config) (*Store, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("warmstart: connect: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("warmstart: ping: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS routing_hosts (
			uid        TEXT PRIMARY KEY,
			address    TEXT NOT NULL,
			port       INTEGER NOT NULL,
			updated_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("warmstart: init schema: %w", err)
	}
	return nil
}

// SaveHost upserts a single Host's snapshot row.
func (s *Store) SaveHost(h dht.Host) error {
	_, err := s.db.Exec(`
		INSERT INTO routing_hosts (uid, address, port, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (uid) DO UPDATE SET
			address = EXCLUDED.address,
			port = EXCLUDED.port,
			updated_at = NOW()
	`, string(h.UID), h.Address, int(h.Port))
	return err
}

// SaveAll snapshots every host in hosts, logging but not aborting on
// individual row failures is the caller's responsibility — each failure is
// returned as an element of the slice, in order.
func (s *Store) SaveAll(hosts []dht.Host) []error {
	errs := make([]error, len(hosts))
	for i, h := range hosts {
		errs[i] = s.SaveHost(h)
	}
	return errs
}

// LoadAll returns every previously snapshotted Host.
func (s *Store) LoadAll() ([]dht.Host, error) {
	rows, err := s.db.Query(`SELECT uid, address, port FROM routing_hosts`)
	if err != nil {
		return nil, fmt.Errorf("warmstart: query: %w", err)
	}
	defer rows.Close()

	var out []dht.Host
	for rows.Next() {
		var uid, address string
		var port int
		if err := rows.Scan(&uid, &address, &port); err != nil {
			return nil, fmt.Errorf("warmstart: scan: %w", err)
		}
		h, err := dht.NewHost(address, uint16(port), dht.UID(uid))
		if err != nil {
			continue
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
