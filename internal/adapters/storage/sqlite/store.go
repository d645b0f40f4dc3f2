// Package sqlite persists the conversation document in a SQLite database,
// one row per conversation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	updated_at TEXT NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_position ON conversations(position);
`

type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate sqlite schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) (*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM conversations ORDER BY position ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query conversations")
	}
	defer rows.Close()

	c := &domain.Collection{Conversations: []domain.Conversation{}}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, errors.Wrap(err, "scan conversation")
		}
		var conv domain.Conversation
		if err := json.Unmarshal([]byte(body), &conv); err != nil {
			return nil, errors.Wrap(err, "decode conversation")
		}
		c.Conversations = append(c.Conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate conversations")
	}

	if len(c.Conversations) == 0 {
		return nil, domain.ErrNoDocument
	}
	return c, nil
}

// Save rewrites every row in one transaction.
func (s *Store) Save(ctx context.Context, c *domain.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return errors.Wrap(err, "clear conversations")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO conversations (id, position, updated_at, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for i, conv := range c.Conversations {
		body, err := json.Marshal(conv)
		if err != nil {
			return errors.Wrapf(err, "encode conversation %s", conv.ID)
		}
		if _, err := stmt.ExecContext(ctx, string(conv.ID), i, conv.Updated.UTC().Format("2006-01-02T15:04:05Z07:00"), string(body)); err != nil {
			return errors.Wrapf(err, "insert conversation %s", conv.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "commit conversations")
}
