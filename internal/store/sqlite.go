package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/founderhub/founderhub/internal/founder"
	"github.com/google/uuid"
)

// SQLiteStore implements FounderStore on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS founders (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	name TEXT NOT NULL,
	email TEXT,
	skills TEXT,
	experience TEXT,
	goals TEXT,
	bio TEXT,
	current_project TEXT,
	looking_for TEXT,
	city TEXT,
	latitude REAL,
	longitude REAL,
	profile_image_url TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_founders_user_id ON founders(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	sender_id TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
`

func (s *SQLiteStore) Create(ctx context.Context, f *founder.Founder) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt = &now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO founders
		 (id, user_id, name, email, skills, experience, goals, bio, current_project, looking_for, city, latitude, longitude, profile_image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.Name, f.Email, f.Skills, f.Experience, f.Goals, f.Bio,
		f.CurrentProject, f.LookingFor, f.City, f.Latitude, f.Longitude, f.ProfileImageURL, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert founder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*founder.Founder, error) {
	row := s.db.QueryRowContext(ctx, selectFounders+" WHERE id = ?", id)
	f, err := scanFounder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, err
}

func (s *SQLiteStore) List(ctx context.Context) (*founder.Founders, error) {
	rows, err := s.db.QueryContext(ctx, selectFounders+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list founders: %w", err)
	}
	defer rows.Close()

	return collectFounders(rows)
}

func (s *SQLiteStore) Update(ctx context.Context, f *founder.Founder) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE founders SET
		 name = ?, email = ?, skills = ?, experience = ?, goals = ?, bio = ?,
		 current_project = ?, looking_for = ?, city = ?, latitude = ?, longitude = ?, profile_image_url = ?
		 WHERE id = ?`,
		f.Name, f.Email, f.Skills, f.Experience, f.Goals, f.Bio,
		f.CurrentProject, f.LookingFor, f.City, f.Latitude, f.Longitude, f.ProfileImageURL,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update founder: %w", err)
	}
	return requireRow(res, f.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM messages WHERE sender_id = ? OR recipient_id = ?", id, id,
	); err != nil {
		return fmt.Errorf("delete founder messages: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM founders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete founder: %w", err)
	}
	return requireRow(res, id)
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, m *founder.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = &now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.SenderID, m.RecipientID, m.Body, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, founderID, withID string) ([]*founder.Message, error) {
	var rows *sql.Rows
	var err error

	if withID == "" {
		rows, err = s.db.QueryContext(ctx,
			selectMessages+" WHERE sender_id = ? OR recipient_id = ? ORDER BY created_at, id",
			founderID, founderID,
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			selectMessages+` WHERE (sender_id = ? AND recipient_id = ?)
			 OR (sender_id = ? AND recipient_id = ?) ORDER BY created_at, id`,
			founderID, withID, withID, founderID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM founders").Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
