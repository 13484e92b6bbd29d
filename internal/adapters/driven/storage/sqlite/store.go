// Package sqlite provides the durable chunk store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/olivestory-corp/docchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is a SQLite-backed ChunkStore. It owns the database handle;
// the composition root constructs it at startup and closes it at
// shutdown.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a chunk store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/docchat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docchat.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert persists a single chunk and assigns its row ID.
func (s *Store) Insert(ctx context.Context, chunk *domain.StoredChunk) error {
	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	embeddingJSON, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("marshalling embedding: %w", err)
	}

	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (user_id, content, metadata, embedding, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, chunk.UserID, chunk.Content, string(metadataJSON), string(embeddingJSON), chunk.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	chunk.ID = id
	return nil
}

// DeleteAll removes every chunk owned by the user.
func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// ScanAll returns every chunk owned by the user in insertion order.
func (s *Store) ScanAll(ctx context.Context, userID string) ([]domain.StoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, metadata, embedding, created_at
		FROM documents WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := []domain.StoredChunk{}
	for rows.Next() {
		var chunk domain.StoredChunk
		var metadataJSON, embeddingJSON sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.UserID, &chunk.Content,
			&metadataJSON, &embeddingJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata for chunk %d: %w", chunk.ID, err)
			}
		}
		if embeddingJSON.Valid && embeddingJSON.String != "" {
			if err := json.Unmarshal([]byte(embeddingJSON.String), &chunk.Embedding); err != nil {
				return nil, fmt.Errorf("unmarshaling embedding for chunk %d: %w", chunk.ID, err)
			}
		}
		if createdAt.Valid {
			chunk.CreatedAt = createdAt.Time
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
