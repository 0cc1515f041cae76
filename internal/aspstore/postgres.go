package aspstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds database connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// DefaultConfig returns default database configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "zylith",
		Password: "",
		Database: "zylith_asp",
		SSLMode:  "disable",
		MaxConns: 20,
	}
}

// PostgresStore implements Store using PostgreSQL, append-only for leaves,
// nullifiers, and roots, with an explicit Snapshot step for compaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, cfg *Config) (*PostgresStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// AppendLeaf inserts a leaf, tolerating a retried insert of the same
// (leaf_index, commitment) pair.
func (s *PostgresStore) AppendLeaf(ctx context.Context, record LeafRecord) error {
	query := `
		INSERT INTO leaves (leaf_index, commitment)
		VALUES ($1, $2)
		ON CONFLICT (leaf_index) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, query, record.LeafIndex, record.Commitment)
	if err != nil {
		return fmt.Errorf("aspstore: append leaf: %w", err)
	}
	return nil
}

// LeafByIndex looks up a single leaf by its index.
func (s *PostgresStore) LeafByIndex(ctx context.Context, leafIndex uint64) (*LeafRecord, error) {
	query := `SELECT leaf_index, commitment FROM leaves WHERE leaf_index = $1`

	var record LeafRecord
	err := s.pool.QueryRow(ctx, query, leafIndex).Scan(&record.LeafIndex, &record.Commitment)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("aspstore: get leaf: %w", err)
	}
	return &record, nil
}

// LeafCount returns the total number of appended leaves.
func (s *PostgresStore) LeafCount(ctx context.Context) (uint64, error) {
	query := `SELECT COUNT(*) FROM leaves`
	var count uint64
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("aspstore: leaf count: %w", err)
	}
	return count, nil
}

// MarkNullifierSpent inserts a nullifier spend record, returning
// ErrDuplicate if the nullifier is already recorded spent.
func (s *PostgresStore) MarkNullifierSpent(ctx context.Context, nullifierHash, txHash string) error {
	query := `
		INSERT INTO nullifiers (nullifier_hash, tx_hash)
		VALUES ($1, $2)
		ON CONFLICT (nullifier_hash) DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query, nullifierHash, txHash)
	if err != nil {
		return fmt.Errorf("aspstore: mark nullifier spent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

// IsNullifierSpent reports whether a nullifier hash has already been recorded.
func (s *PostgresStore) IsNullifierSpent(ctx context.Context, nullifierHash string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM nullifiers WHERE nullifier_hash = $1)`
	var spent bool
	if err := s.pool.QueryRow(ctx, query, nullifierHash).Scan(&spent); err != nil {
		return false, fmt.Errorf("aspstore: check nullifier: %w", err)
	}
	return spent, nil
}

// AppendRoot records a new canonical root, timestamped by the database.
func (s *PostgresStore) AppendRoot(ctx context.Context, root string) error {
	query := `INSERT INTO root_history (root, observed_at) VALUES ($1, now())`
	if _, err := s.pool.Exec(ctx, query, root); err != nil {
		return fmt.Errorf("aspstore: append root: %w", err)
	}
	return nil
}

// RecentRoots returns up to limit most-recently-observed roots, newest first.
func (s *PostgresStore) RecentRoots(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT root FROM root_history ORDER BY observed_at DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("aspstore: recent roots: %w", err)
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// IsKnownRoot reports whether root appears anywhere in root_history.
func (s *PostgresStore) IsKnownRoot(ctx context.Context, root string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM root_history WHERE root = $1)`
	var known bool
	if err := s.pool.QueryRow(ctx, query, root).Scan(&known); err != nil {
		return false, fmt.Errorf("aspstore: check known root: %w", err)
	}
	return known, nil
}

// Snapshot deletes every root_history row except the 100 most recently
// observed roots. It does not vacuum, and the ASP service does not call it
// on its own.
func (s *PostgresStore) Snapshot(ctx context.Context) error {
	query := `
		DELETE FROM root_history
		WHERE root NOT IN (
			SELECT root FROM root_history ORDER BY observed_at DESC LIMIT 100
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("aspstore: snapshot: %w", err)
	}
	return nil
}
