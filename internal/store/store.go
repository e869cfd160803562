// Package store defines founder profile and message persistence and its SQL
// implementations.
package store

import (
	"context"
	"errors"

	"github.com/founderhub/founderhub/internal/founder"
)

// ErrNotFound is returned when no founder exists for the requested id.
var ErrNotFound = errors.New("founder not found")

// FounderStore persists founder profiles. Create assigns the id. Delete
// removes the profile together with its messages.
type FounderStore interface {
	Create(ctx context.Context, f *founder.Founder) error
	GetByID(ctx context.Context, id string) (*founder.Founder, error)
	List(ctx context.Context) (*founder.Founders, error)
	Update(ctx context.Context, f *founder.Founder) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// MessageStore persists direct messages between founders. ListMessages
// returns messages involving founderID oldest first; a non-empty withID
// narrows the result to the conversation between the two founders.
type MessageStore interface {
	CreateMessage(ctx context.Context, m *founder.Message) error
	ListMessages(ctx context.Context, founderID, withID string) ([]*founder.Message, error)
}

// Store is the full persistence surface backing the platform.
type Store interface {
	FounderStore
	MessageStore
	Close() error
}

const (
	// DriverPostgres selects the postgres-backed store.
	DriverPostgres = "postgres"
	// DriverSQLite selects the local sqlite store.
	DriverSQLite = "sqlite"
)
