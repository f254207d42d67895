package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

// sessionHistoryRepository is the SQL-backed append-only session transcript.
// Timestamps are stored as unix microseconds assigned from the application
// clock; nextTimestamp keeps them strictly increasing even when two appends
// land inside the same microsecond.
type sessionHistoryRepository struct {
	db *sql.DB

	mu         sync.Mutex
	lastMicros int64
}

func NewSessionHistoryRepository(db *sql.DB) *sessionHistoryRepository {
	return &sessionHistoryRepository{db: db}
}

func (r *sessionHistoryRepository) nextTimestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC().UnixMicro()
	if now <= r.lastMicros {
		now = r.lastMicros + 1
	}
	r.lastMicros = now
	return time.UnixMicro(now).UTC()
}

func (r *sessionHistoryRepository) Append(ctx context.Context, sessionID, role, content string) (domain.SessionMessage, error) {
	const query = `
		INSERT INTO chat_history (session_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ts := r.nextTimestamp()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, sessionID, role, content, ts.UnixMicro()).Scan(&id); err != nil {
		return domain.SessionMessage{}, domain.StorageError(fmt.Errorf("appending session message: %w", err))
	}

	return domain.SessionMessage{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}, nil
}

func (r *sessionHistoryRepository) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error) {
	const query = `
		SELECT id, session_id, role, content, timestamp
		FROM chat_history
		WHERE session_id = $1
		ORDER BY timestamp, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("listing session messages: %w", err))
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *sessionHistoryRepository) List(ctx context.Context, offset, limit int) ([]domain.SessionMessage, error) {
	const query = `
		SELECT id, session_id, role, content, timestamp
		FROM chat_history
		ORDER BY timestamp, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("listing messages: %w", err))
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *sessionHistoryRepository) DistinctSessionIDs(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT session_id
		FROM chat_history
		ORDER BY session_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("listing session ids: %w", err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.StorageError(fmt.Errorf("scanning session id: %w", err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(fmt.Errorf("iterating session ids: %w", err))
	}

	return ids, nil
}

func (r *sessionHistoryRepository) OldestTimestamp(ctx context.Context, sessionID string) (time.Time, bool, error) {
	const query = `
		SELECT MIN(timestamp)
		FROM chat_history
		WHERE session_id = $1
	`

	var micros sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&micros); err != nil {
		return time.Time{}, false, domain.StorageError(fmt.Errorf("fetching oldest timestamp: %w", err))
	}
	if !micros.Valid {
		return time.Time{}, false, nil
	}

	return time.UnixMicro(micros.Int64).UTC(), true, nil
}

// MaxSessionID returns the highest session id among those convertible to
// integers. Session ids are human-chosen strings; treating them as numbers
// is the client-side "allocate next id" convention, so non-numeric ids are
// skipped rather than rejected.
func (r *sessionHistoryRepository) MaxSessionID(ctx context.Context) (int64, bool, error) {
	ids, err := r.DistinctSessionIDs(ctx)
	if err != nil {
		return 0, false, err
	}
	return maxNumericID(ids)
}

func maxNumericID(ids []string) (int64, bool, error) {
	var max int64
	found := false
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	return max, found, nil
}

func scanMessages(rows *sql.Rows) ([]domain.SessionMessage, error) {
	var messages []domain.SessionMessage
	for rows.Next() {
		var m domain.SessionMessage
		var micros int64
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &micros); err != nil {
			return nil, domain.StorageError(fmt.Errorf("scanning message row: %w", err))
		}
		m.Timestamp = time.UnixMicro(micros).UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(fmt.Errorf("iterating message rows: %w", err))
	}
	return messages, nil
}
