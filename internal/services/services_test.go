package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// fakeStore is an in-memory store.Store used across the service tests.
type fakeStore struct {
	users   *fakeUsers
	entries *fakeEntries
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   &fakeUsers{byID: map[string]*model.User{}},
		entries: &fakeEntries{},
	}
}

func (f *fakeStore) Users() store.Users     { return f.users }
func (f *fakeStore) Entries() store.Entries { return f.entries }

type fakeUsers struct {
	byID map[string]*model.User
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	if _, ok := f.byID[u.UserID]; ok {
		return nil, model.ErrConflict
	}
	cp := *u
	cp.Status = "ACTIVE"
	cp.CreationTime = time.Now().UTC()
	f.byID[u.UserID] = &cp
	return &cp, nil
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*model.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, userID string) error {
	if _, ok := f.byID[userID]; !ok {
		return model.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

type fakeEntries struct {
	rows []*model.Entry
	seq  int
}

func (f *fakeEntries) Create(_ context.Context, e *model.Entry) (*model.Entry, error) {
	f.seq++
	cp := *e
	cp.EntryID = fmt.Sprintf("entry-%d", f.seq)
	if cp.CreationTime.IsZero() {
		cp.CreationTime = time.Now().UTC()
	}
	f.rows = append(f.rows, &cp)
	return &cp, nil
}

func (f *fakeEntries) List(_ context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	var out []*model.Entry
	for _, e := range f.rows {
		if e.UserID != req.UserID {
			continue
		}
		if req.Before != nil && !e.CreationTime.Before(*req.Before) {
			continue
		}
		if req.After != nil && !e.CreationTime.After(*req.After) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func (f *fakeEntries) ListRange(_ context.Context, userID string, start, end time.Time) ([]*model.Entry, error) {
	var out []*model.Entry
	for _, e := range f.rows {
		if e.UserID != userID {
			continue
		}
		if e.CreationTime.Before(start) || e.CreationTime.After(end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.Before(out[j].CreationTime) })
	return out, nil
}

func (f *fakeEntries) CountRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	rows, err := f.ListRange(ctx, userID, start, end)
	return len(rows), err
}

func (f *fakeEntries) GetByID(_ context.Context, userID, entryID string) (*model.Entry, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.EntryID == entryID {
			return e, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeEntries) DeleteByID(_ context.Context, userID, entryID string) error {
	for i, e := range f.rows {
		if e.UserID == userID && e.EntryID == entryID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}
