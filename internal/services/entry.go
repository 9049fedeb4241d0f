package services

import (
	"context"
	"strings"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// EntryService wraps entry persistence with content normalization.
type EntryService struct {
	store store.Store
}

func NewEntryService(s store.Store) *EntryService { return &EntryService{store: s} }

func (s *EntryService) CreateEntry(ctx context.Context, userID, content string) (*model.Entry, error) {
	e := &model.Entry{
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}
	return s.store.Entries().Create(ctx, e)
}

func (s *EntryService) ListEntries(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	return s.store.Entries().List(ctx, req)
}

func (s *EntryService) GetEntry(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	return s.store.Entries().GetByID(ctx, userID, entryID)
}

func (s *EntryService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return s.store.Entries().DeleteByID(ctx, userID, entryID)
}
