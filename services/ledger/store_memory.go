package ledger

import (
	"context"
	"sort"
	"sync"
)

// memoryStore keeps the ledger in process memory. One mutex guards the whole
// map, which trivially serializes ConsumeAtomic across users; contention is
// not a concern at demo/test scale.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]*CreditEntry
}

func NewMemoryStore() CreditStore {
	return &memoryStore{
		entries: make(map[string][]*CreditEntry),
	}
}

func (s *memoryStore) Append(ctx context.Context, entry *CreditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries[entry.UserID] = append(s.entries[entry.UserID], &copied)
	return nil
}

func (s *memoryStore) EntriesByUser(ctx context.Context, userID string) ([]*CreditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[userID]
	out := make([]*CreditEntry, 0, len(stored))
	for _, e := range stored {
		copied := *e
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *memoryStore) ConsumeAtomic(ctx context.Context, entry *CreditEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, _ := ComputeBalance(s.entries[entry.UserID])
	if balance.Available < entry.Amount {
		return false, nil
	}

	copied := *entry
	s.entries[entry.UserID] = append(s.entries[entry.UserID], &copied)
	return true, nil
}
