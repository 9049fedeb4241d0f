package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u" + uuid.New().String()[:8]
	email := userID + "@example.test"

	// Users
	u := &model.User{UserID: userID, Email: email, PasswordHash: "x", TimeZone: "UTC"}
	created, err := s.Users().Create(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.Status != "ACTIVE" || created.CreationTime.IsZero() {
		t.Fatalf("CreateUser: unexpected result %+v", created)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got.UserID != userID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != userID {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Get(ctx, "no-such-user"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, u); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate: want ErrConflict, got %v", err)
	}

	// Entries
	e1, err := s.Entries().Create(ctx, &model.Entry{UserID: userID, Content: "first entry"})
	if err != nil {
		t.Fatalf("CreateEntry e1: %v", err)
	}
	if e1.EntryID == "" || e1.CreationTime.IsZero() {
		t.Fatalf("CreateEntry e1: unexpected result %+v", e1)
	}
	time.Sleep(5 * time.Millisecond) // ensure monotonic creation time ordering
	e2, err := s.Entries().Create(ctx, &model.Entry{UserID: userID, Content: "second entry"})
	if err != nil {
		t.Fatalf("CreateEntry e2: %v", err)
	}

	// List is newest first
	lst, err := s.Entries().List(ctx, model.ListEntriesRequest{UserID: userID})
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListEntries: n=%d err=%v", len(lst), err)
	}
	if lst[0].EntryID != e2.EntryID {
		t.Fatalf("ListEntries: expected newest first, got %s", lst[0].EntryID)
	}

	// Limit caps results
	if lst2, err := s.Entries().List(ctx, model.ListEntriesRequest{UserID: userID, Limit: 1}); err != nil || len(lst2) != 1 {
		t.Fatalf("ListEntries limit: n=%d err=%v", len(lst2), err)
	}

	time.Sleep(5 * time.Millisecond)
	e3, err := s.Entries().Create(ctx, &model.Entry{UserID: userID, Content: "third entry"})
	if err != nil {
		t.Fatalf("CreateEntry e3: %v", err)
	}

	// Before and After combine to a bounded window
	mid, err := s.Entries().List(ctx, model.ListEntriesRequest{UserID: userID, Before: &e3.CreationTime, After: &e1.CreationTime})
	if err != nil || len(mid) != 1 || mid[0].EntryID != e2.EntryID {
		t.Fatalf("ListEntries before+after: n=%d err=%v", len(mid), err)
	}

	// ListRange is ascending and inclusive of both bounds
	rng, err := s.Entries().ListRange(ctx, userID, e1.CreationTime, e2.CreationTime)
	if err != nil || len(rng) != 2 {
		t.Fatalf("ListRange: n=%d err=%v", len(rng), err)
	}
	if rng[0].EntryID != e1.EntryID || rng[1].EntryID != e2.EntryID {
		t.Fatalf("ListRange: expected ascending order")
	}

	// CountRange matches ListRange
	if n, err := s.Entries().CountRange(ctx, userID, e1.CreationTime, e2.CreationTime); err != nil || n != 2 {
		t.Fatalf("CountRange: n=%d err=%v", n, err)
	}

	// Ownership scoping: another user sees nothing
	if n, err := s.Entries().CountRange(ctx, "someone-else", e1.CreationTime, e2.CreationTime); err != nil || n != 0 {
		t.Fatalf("CountRange other user: n=%d err=%v", n, err)
	}
	if _, err := s.Entries().GetByID(ctx, "someone-else", e1.EntryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID other user: want ErrNotFound, got %v", err)
	}

	// GetByID
	if got, err := s.Entries().GetByID(ctx, userID, e1.EntryID); err != nil || got.Content != "first entry" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}

	// Delete
	if err := s.Entries().DeleteByID(ctx, userID, e2.EntryID); err != nil {
		t.Fatalf("DeleteEntryByID: %v", err)
	}
	if err := s.Entries().DeleteByID(ctx, userID, e2.EntryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteEntryByID repeat: want ErrNotFound, got %v", err)
	}
	if n, err := s.Entries().CountRange(ctx, userID, e1.CreationTime, e2.CreationTime); err != nil || n != 1 {
		t.Fatalf("CountRange after delete: n=%d err=%v", n, err)
	}
}
