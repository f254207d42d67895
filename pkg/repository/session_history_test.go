package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

// SessionHistoryStore is the contract both implementations must satisfy.
type SessionHistoryStore interface {
	Append(ctx context.Context, sessionID, role, content string) (domain.SessionMessage, error)
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error)
	List(ctx context.Context, offset, limit int) ([]domain.SessionMessage, error)
	DistinctSessionIDs(ctx context.Context) ([]string, error)
	OldestTimestamp(ctx context.Context, sessionID string) (time.Time, bool, error)
	MaxSessionID(ctx context.Context) (int64, bool, error)
}

func newSQLiteStore(t *testing.T) *sessionHistoryRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// A second pool connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE chat_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return NewSessionHistoryRepository(db)
}

// Both stores run the same suite.
func stores(t *testing.T) map[string]SessionHistoryStore {
	return map[string]SessionHistoryStore{
		"sql":    newSQLiteStore(t),
		"memory": NewMemorySessionHistoryRepository(),
	}
}

func TestAppendAssignsIncreasingTimestamps(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := store.Append(ctx, "42", domain.ChatMessageRoleUser, "q1")
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			second, err := store.Append(ctx, "42", domain.ChatMessageRoleAssistant, "a1")
			if err != nil {
				t.Fatalf("Append: %v", err)
			}

			if !second.Timestamp.After(first.Timestamp) {
				t.Errorf("timestamps not strictly increasing: %v then %v", first.Timestamp, second.Timestamp)
			}
			if first.ID == second.ID {
				t.Errorf("ids collide: %d", first.ID)
			}
		})
	}
}

func TestListBySessionOrdersAscending(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			contents := []string{"q1", "a1", "q2", "a2"}
			roles := []string{
				domain.ChatMessageRoleUser, domain.ChatMessageRoleAssistant,
				domain.ChatMessageRoleUser, domain.ChatMessageRoleAssistant,
			}
			for i := range contents {
				if _, err := store.Append(ctx, "42", roles[i], contents[i]); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
			if _, err := store.Append(ctx, "other", domain.ChatMessageRoleUser, "noise"); err != nil {
				t.Fatalf("Append: %v", err)
			}

			messages, err := store.ListBySession(ctx, "42", 0, 100)
			if err != nil {
				t.Fatalf("ListBySession: %v", err)
			}
			if len(messages) != 4 {
				t.Fatalf("got %d messages, want 4", len(messages))
			}
			for i, m := range messages {
				if m.Content != contents[i] || m.Role != roles[i] {
					t.Errorf("message %d = %s/%q, want %s/%q", i, m.Role, m.Content, roles[i], contents[i])
				}
				if i > 0 && !messages[i-1].Timestamp.Before(m.Timestamp) {
					t.Errorf("timestamps not ascending at %d", i)
				}
			}
		})
	}
}

func TestListBySessionPaging(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				if _, err := store.Append(ctx, "42", domain.ChatMessageRoleUser, "m"); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			page, err := store.ListBySession(ctx, "42", 2, 2)
			if err != nil {
				t.Fatalf("ListBySession: %v", err)
			}
			if len(page) != 2 {
				t.Errorf("page size = %d, want 2", len(page))
			}

			tail, err := store.ListBySession(ctx, "42", 4, 10)
			if err != nil {
				t.Fatalf("ListBySession: %v", err)
			}
			if len(tail) != 1 {
				t.Errorf("tail size = %d, want 1", len(tail))
			}

			empty, err := store.ListBySession(ctx, "42", 10, 10)
			if err != nil {
				t.Fatalf("ListBySession: %v", err)
			}
			if len(empty) != 0 {
				t.Errorf("past-end page size = %d, want 0", len(empty))
			}
		})
	}
}

func TestDistinctSessionIDsAndOldestTimestamp(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := store.Append(ctx, "a", domain.ChatMessageRoleUser, "q")
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			for _, sid := range []string{"b", "a", "b"} {
				if _, err := store.Append(ctx, sid, domain.ChatMessageRoleUser, "q"); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			ids, err := store.DistinctSessionIDs(ctx)
			if err != nil {
				t.Fatalf("DistinctSessionIDs: %v", err)
			}
			if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
				t.Errorf("ids = %v, want [a b]", ids)
			}

			oldest, ok, err := store.OldestTimestamp(ctx, "a")
			if err != nil {
				t.Fatalf("OldestTimestamp: %v", err)
			}
			if !ok {
				t.Fatal("OldestTimestamp missing for session a")
			}
			if !oldest.Equal(first.Timestamp) {
				t.Errorf("oldest = %v, want %v", oldest, first.Timestamp)
			}

			if _, ok, err := store.OldestTimestamp(ctx, "missing"); err != nil || ok {
				t.Errorf("OldestTimestamp(missing) = ok=%v err=%v, want absent", ok, err)
			}
		})
	}
}

func TestMaxSessionID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := store.MaxSessionID(ctx); err != nil || ok {
				t.Errorf("MaxSessionID on empty store = ok=%v err=%v, want absent", ok, err)
			}

			for _, sid := range []string{"3", "archive", "11", "7"} {
				if _, err := store.Append(ctx, sid, domain.ChatMessageRoleUser, "q"); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			max, ok, err := store.MaxSessionID(ctx)
			if err != nil {
				t.Fatalf("MaxSessionID: %v", err)
			}
			if !ok || max != 11 {
				t.Errorf("MaxSessionID = %d ok=%v, want 11", max, ok)
			}
		})
	}
}
