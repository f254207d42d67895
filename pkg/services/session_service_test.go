package services

import (
	"context"
	"testing"
	"time"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
	"github.com/Amaranth-us/legal-advisor/pkg/repository"
)

func seedSessions(t *testing.T) *sessionService {
	t.Helper()

	repo := repository.NewMemorySessionHistoryRepository()
	ctx := context.Background()
	for _, row := range []struct{ sid, role, content string }{
		{"1", domain.ChatMessageRoleUser, "q1"},
		{"1", domain.ChatMessageRoleAssistant, "a1"},
		{"7", domain.ChatMessageRoleUser, "q2"},
		{"7", domain.ChatMessageRoleAssistant, "a2"},
		{"archive", domain.ChatMessageRoleUser, "q3"},
	} {
		if _, err := repo.Append(ctx, row.sid, row.role, row.content); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	return NewSessionService(repo)
}

func TestAllHistoryEmptyIsNotFound(t *testing.T) {
	svc := NewSessionService(repository.NewMemorySessionHistoryRepository())

	_, err := svc.AllHistory(context.Background(), 0, 10)
	if err == nil {
		t.Fatal("AllHistory returned no error for an empty store")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindNotFound {
		t.Errorf("error kind = %v, want not found", kind)
	}
}

func TestAllHistoryPages(t *testing.T) {
	svc := seedSessions(t)

	page, err := svc.AllHistory(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("AllHistory: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].Content != "a1" || page[1].Content != "q2" {
		t.Errorf("page = [%q, %q], want [a1, q2]", page[0].Content, page[1].Content)
	}
}

func TestSessionIDs(t *testing.T) {
	svc := seedSessions(t)

	ids, err := svc.SessionIDs(context.Background())
	if err != nil {
		t.Fatalf("SessionIDs: %v", err)
	}
	want := []string{"1", "7", "archive"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestSessionStartUnknownSessionIsNotFound(t *testing.T) {
	svc := seedSessions(t)

	_, err := svc.SessionStart(context.Background(), "nope")
	if err == nil {
		t.Fatal("SessionStart found an unknown session")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindNotFound {
		t.Errorf("error kind = %v, want not found", kind)
	}
}

func TestSessionStartElapsedBreakdown(t *testing.T) {
	repo := repository.NewMemorySessionHistoryRepository()
	ctx := context.Background()
	first, err := repo.Append(ctx, "9", domain.ChatMessageRoleUser, "q")
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	svc := NewSessionService(repo)
	svc.now = func() time.Time { return first.Timestamp.Add(2*time.Hour + 17*time.Minute) }

	start, err := svc.SessionStart(ctx, "9")
	if err != nil {
		t.Fatalf("SessionStart: %v", err)
	}
	if !start.OldestTimestamp.Equal(first.Timestamp) {
		t.Errorf("oldest = %v, want %v", start.OldestTimestamp, first.Timestamp)
	}
	if start.ElapsedHours != 2 || start.ElapsedMinutes != 17 {
		t.Errorf("elapsed = %dh%dm, want 2h17m", start.ElapsedHours, start.ElapsedMinutes)
	}
}

func TestSessionsListsOldestTimestampPerSession(t *testing.T) {
	repo := repository.NewMemorySessionHistoryRepository()
	ctx := context.Background()
	oldest := map[string]time.Time{}
	for _, sid := range []string{"1", "1", "2", "1", "2"} {
		m, err := repo.Append(ctx, sid, domain.ChatMessageRoleUser, "q")
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}
		if _, ok := oldest[sid]; !ok {
			oldest[sid] = m.Timestamp
		}
	}

	svc := NewSessionService(repo)
	sessions, err := svc.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	for _, s := range sessions {
		want := oldest[s.SessionID].Format(domain.SessionTimestampFormat)
		if s.OldestTimestamp != want {
			t.Errorf("session %s oldest = %q, want %q", s.SessionID, s.OldestTimestamp, want)
		}
	}
}

func TestHighestSessionIDSkipsNonNumericIDs(t *testing.T) {
	svc := seedSessions(t)

	max, err := svc.HighestSessionID(context.Background())
	if err != nil {
		t.Fatalf("HighestSessionID: %v", err)
	}
	if max != 7 {
		t.Errorf("HighestSessionID = %d, want 7", max)
	}
}

func TestHighestSessionIDEmptyStoreIsZero(t *testing.T) {
	svc := NewSessionService(repository.NewMemorySessionHistoryRepository())

	max, err := svc.HighestSessionID(context.Background())
	if err != nil {
		t.Fatalf("HighestSessionID: %v", err)
	}
	if max != 0 {
		t.Errorf("HighestSessionID = %d, want 0", max)
	}
}
