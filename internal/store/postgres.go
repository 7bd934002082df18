package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/records"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

const jobsQuery = `SELECT id, document FROM job_documents WHERE user_id = $1 ORDER BY created_at`

type documentRow struct {
	ID       string `db:"id"`
	Document []byte `db:"document"`
}

// PostgresStore reads job documents stored as JSON in the job_documents table.
type PostgresStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Connect opens and verifies a PostgreSQL connection.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresStore(db, logger), nil
}

// NewPostgresStore wraps an existing connection.
func NewPostgresStore(db *sqlx.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Jobs loads the user's documents in creation order. Rows holding invalid JSON are skipped.
func (s *PostgresStore) Jobs(ctx context.Context, userID string) ([]records.JobRecord, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, jobsQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to query job documents: %w", err)
	}

	docs := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		var doc map[string]any
		if err := json.Unmarshal(row.Document, &doc); err != nil || doc == nil {
			s.logger.Warn("skipping unreadable job document",
				zap.String("user_id", userID),
				zap.String("document_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		if _, ok := doc["id"]; !ok {
			if _, ok := doc["_id"]; !ok {
				doc["id"] = row.ID
			}
		}
		docs = append(docs, doc)
	}

	jobs, err := records.Decode(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode job documents: %w", err)
	}
	return jobs, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
