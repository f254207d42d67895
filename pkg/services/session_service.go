package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
)

const (
	defaultSessionHistoryLimit = 100
	defaultGlobalHistoryLimit  = 10
)

// SessionHistoryRepository is the full store contract: the append side used
// by the chat pipeline plus the read side used by session queries.
type SessionHistoryRepository interface {
	SessionHistoryAppender
	SessionHistoryReader
}

type SessionHistoryReader interface {
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error)
	List(ctx context.Context, offset, limit int) ([]domain.SessionMessage, error)
	DistinctSessionIDs(ctx context.Context) ([]string, error)
	OldestTimestamp(ctx context.Context, sessionID string) (time.Time, bool, error)
	MaxSessionID(ctx context.Context) (int64, bool, error)
}

// sessionService answers transcript queries. Read-only over the session
// history store.
type sessionService struct {
	history SessionHistoryReader
	now     func() time.Time
}

func NewSessionService(history SessionHistoryReader) *sessionService {
	return &sessionService{history: history, now: time.Now}
}

func (s *sessionService) History(ctx context.Context, sessionID string, offset, limit int) ([]domain.SessionMessage, error) {
	if limit <= 0 {
		limit = defaultSessionHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.history.ListBySession(ctx, sessionID, offset, limit)
}

// AllHistory pages across every session. An empty page is a client-visible
// not-found condition.
func (s *sessionService) AllHistory(ctx context.Context, skip, limit int) ([]domain.SessionMessage, error) {
	if limit <= 0 {
		limit = defaultGlobalHistoryLimit
	}
	if skip < 0 {
		skip = 0
	}

	messages, err := s.history.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, domain.NotFoundError(fmt.Errorf("no chat history found"))
	}

	return messages, nil
}

func (s *sessionService) SessionIDs(ctx context.Context) ([]string, error) {
	return s.history.DistinctSessionIDs(ctx)
}

// SessionStart returns the session's oldest timestamp and the elapsed time
// since, broken into whole hours and minutes.
func (s *sessionService) SessionStart(ctx context.Context, sessionID string) (domain.SessionStart, error) {
	oldest, ok, err := s.history.OldestTimestamp(ctx, sessionID)
	if err != nil {
		return domain.SessionStart{}, err
	}
	if !ok {
		return domain.SessionStart{}, domain.NotFoundError(fmt.Errorf("session %q not found", sessionID))
	}

	elapsed := s.now().Sub(oldest)

	return domain.SessionStart{
		SessionID:       sessionID,
		OldestTimestamp: oldest,
		ElapsedHours:    int(elapsed.Hours()),
		ElapsedMinutes:  int(elapsed.Minutes()) % 60,
	}, nil
}

// Sessions lists one row per distinct session id with its formatted oldest
// timestamp.
func (s *sessionService) Sessions(ctx context.Context) ([]domain.SessionInfo, error) {
	ids, err := s.history.DistinctSessionIDs(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.SessionInfo, 0, len(ids))
	for _, id := range ids {
		oldest, ok, err := s.history.OldestTimestamp(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		sessions = append(sessions, domain.SessionInfo{
			SessionID:       id,
			OldestTimestamp: oldest.Format(domain.SessionTimestampFormat),
		})
	}

	return sessions, nil
}

// HighestSessionID returns the numeric maximum over session ids convertible
// to integers, or zero when none exist so the first allocated id becomes 1.
func (s *sessionService) HighestSessionID(ctx context.Context) (int64, error) {
	max, ok, err := s.history.MaxSessionID(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	return max, nil
}
