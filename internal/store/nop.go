package store

import (
	"time"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It never marks listings as
// seen, so every listing appears new on each poll, and it keeps no history.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(key string) (bool, error)                       { return false, nil }
func (s *NopStore) MarkSeen(key string) error                              { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error                  { return nil }
func (s *NopStore) IsSeeded(search string) (bool, error)                   { return false, nil }
func (s *NopStore) MarkSeeded(search string) error                         { return nil }
func (s *NopStore) RecordSearch(rec model.SearchRecord) error              { return nil }
func (s *NopStore) RecordUsage(action string, tokens int) error            { return nil }
func (s *NopStore) RecentSearches(limit int) ([]model.SearchRecord, error) { return nil, nil }
func (s *NopStore) UsageTotals() ([]UsageTotal, error)                     { return nil, nil }
func (s *NopStore) Close() error                                           { return nil }

