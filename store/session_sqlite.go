package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/webchat-dev/webchat/core"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteSessionStore keeps the persisted session in a small key/value table
// in a local SQLite file. It is the process-local analog of the browser's
// session storage: fixed keys, one record per key.
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore opens (creating if needed) the state database at
// file and brings its schema up to date.
func NewSQLiteSessionStore(file string) (*SQLiteSessionStore, error) {
	db, err := sql.Open("sqlite3", "file:"+file+"?mode=rwc&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}

	return &SQLiteSessionStore{db: db}, nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session core.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		KeyToken:    session.Token,
		KeyUserID:   strconv.Itoa(session.UserID),
		KeyUsername: session.Username,
	} {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_state (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSessionStore) Load(ctx context.Context) (*core.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM session_state WHERE key IN (?, ?, ?)`,
		KeyToken, KeyUserID, KeyUsername)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 3)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	userID, err := strconv.Atoi(values[KeyUserID])
	if err != nil {
		return nil, nil
	}
	session := core.Session{
		Token:    values[KeyToken],
		UserID:   userID,
		Username: values[KeyUsername],
	}
	if !session.Established() {
		return nil, nil
	}
	return &session, nil
}

func (s *SQLiteSessionStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_state WHERE key IN (?, ?, ?)`,
		KeyToken, KeyUserID, KeyUsername)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
