package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

// memorySessionHistoryRepository keeps the transcript in process memory.
// Used when no database is configured and as the store double in tests.
// Same ordering guarantees as the SQL store.
type memorySessionHistoryRepository struct {
	mu         sync.RWMutex
	messages   []domain.SessionMessage
	nextID     int64
	lastMicros int64
}

func NewMemorySessionHistoryRepository() *memorySessionHistoryRepository {
	return &memorySessionHistoryRepository{nextID: 1}
}

func (r *memorySessionHistoryRepository) nextTimestamp() time.Time {
	now := time.Now().UTC().UnixMicro()
	if now <= r.lastMicros {
		now = r.lastMicros + 1
	}
	r.lastMicros = now
	return time.UnixMicro(now).UTC()
}

func (r *memorySessionHistoryRepository) Append(_ context.Context, sessionID, role, content string) (domain.SessionMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := domain.SessionMessage{
		ID:        r.nextID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: r.nextTimestamp(),
	}
	r.nextID++
	r.messages = append(r.messages, m)

	return m, nil
}

func (r *memorySessionHistoryRepository) ListBySession(_ context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.SessionMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			matched = append(matched, m)
		}
	}

	return page(matched, offset, limit), nil
}

func (r *memorySessionHistoryRepository) List(_ context.Context, offset, limit int) ([]domain.SessionMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.messages, offset, limit), nil
}

func (r *memorySessionHistoryRepository) DistinctSessionIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := lo.Uniq(lo.Map(r.messages, func(m domain.SessionMessage, _ int) string {
		return m.SessionID
	}))
	sort.Strings(ids)

	return ids, nil
}

func (r *memorySessionHistoryRepository) OldestTimestamp(_ context.Context, sessionID string) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Appends are chronological, so the first match is the oldest.
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			return m.Timestamp, true, nil
		}
	}

	return time.Time{}, false, nil
}

func (r *memorySessionHistoryRepository) MaxSessionID(ctx context.Context) (int64, bool, error) {
	ids, err := r.DistinctSessionIDs(ctx)
	if err != nil {
		return 0, false, err
	}
	return maxNumericID(ids)
}

func page(messages []domain.SessionMessage, offset, limit int) []domain.SessionMessage {
	if offset >= len(messages) {
		return nil
	}
	messages = messages[offset:]
	if limit >= 0 && limit < len(messages) {
		messages = messages[:limit]
	}

	out := make([]domain.SessionMessage, len(messages))
	copy(out, messages)
	return out
}
