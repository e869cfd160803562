package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/founderhub/founderhub/internal/founder"
	"github.com/google/uuid"
)

// PostgresStore implements FounderStore on a hosted postgres database, the
// production record store behind the web client.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres connects to the database at url and initializes the schema.
func NewPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

const postgresSchema = `
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
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	profile_image_url TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_founders_user_id ON founders(user_id);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	sender_id TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
`

func (s *PostgresStore) Create(ctx context.Context, f *founder.Founder) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt = &now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO founders
		 (id, user_id, name, email, skills, experience, goals, bio, current_project, looking_for, city, latitude, longitude, profile_image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		f.ID, f.UserID, f.Name, f.Email, f.Skills, f.Experience, f.Goals, f.Bio,
		f.CurrentProject, f.LookingFor, f.City, f.Latitude, f.Longitude, f.ProfileImageURL, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert founder: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*founder.Founder, error) {
	row := s.db.QueryRowContext(ctx, selectFounders+" WHERE id = $1", id)
	f, err := scanFounder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, err
}

func (s *PostgresStore) List(ctx context.Context) (*founder.Founders, error) {
	rows, err := s.db.QueryContext(ctx, selectFounders+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list founders: %w", err)
	}
	defer rows.Close()

	return collectFounders(rows)
}

func (s *PostgresStore) Update(ctx context.Context, f *founder.Founder) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE founders SET
		 name = $1, email = $2, skills = $3, experience = $4, goals = $5, bio = $6,
		 current_project = $7, looking_for = $8, city = $9, latitude = $10, longitude = $11, profile_image_url = $12
		 WHERE id = $13`,
		f.Name, f.Email, f.Skills, f.Experience, f.Goals, f.Bio,
		f.CurrentProject, f.LookingFor, f.City, f.Latitude, f.Longitude, f.ProfileImageURL,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("update founder: %w", err)
	}
	return requireRow(res, f.ID)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM messages WHERE sender_id = $1 OR recipient_id = $1", id,
	); err != nil {
		return fmt.Errorf("delete founder messages: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM founders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete founder: %w", err)
	}
	return requireRow(res, id)
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m *founder.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = &now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SenderID, m.RecipientID, m.Body, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, founderID, withID string) ([]*founder.Message, error) {
	var rows *sql.Rows
	var err error

	if withID == "" {
		rows, err = s.db.QueryContext(ctx,
			selectMessages+" WHERE sender_id = $1 OR recipient_id = $1 ORDER BY created_at, id",
			founderID,
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			selectMessages+` WHERE (sender_id = $1 AND recipient_id = $2)
			 OR (sender_id = $2 AND recipient_id = $1) ORDER BY created_at, id`,
			founderID, withID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM founders").Scan(&n)
	return n, err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
