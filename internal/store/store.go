package store

import (
	"context"
	"time"

	"github.com/narrate/narrate/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Entries() Entries
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, userID string) error
}

type Entries interface {
	Create(ctx context.Context, e *model.Entry) (*model.Entry, error)
	// List returns entries newest first, honoring the request filters.
	List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error)
	// ListRange returns entries with creation time in [start, end],
	// ascending by creation time.
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Entry, error)
	// CountRange counts entries with creation time in [start, end].
	CountRange(ctx context.Context, userID string, start, end time.Time) (int, error)
	GetByID(ctx context.Context, userID, entryID string) (*model.Entry, error)
	DeleteByID(ctx context.Context, userID, entryID string) error
}
