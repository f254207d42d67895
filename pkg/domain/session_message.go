package domain

import "time"

// SessionMessage is one persisted row of a session transcript. Rows are
// created only through the append operation and are never mutated or deleted.
type SessionMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionInfo is one row of the per-session listing: a session id paired
// with its oldest recorded timestamp, formatted for display.
type SessionInfo struct {
	SessionID       string `json:"session_id"`
	OldestTimestamp string `json:"oldest_timestamp"`
}

// SessionTimestampFormat matches the layout used by the session listing.
const SessionTimestampFormat = "2006 01 02 at 15:04:05"

// SessionStart describes when a session began and how long ago that was.
type SessionStart struct {
	SessionID       string    `json:"session_id"`
	OldestTimestamp time.Time `json:"oldest_timestamp"`
	ElapsedHours    int       `json:"elapsed_hours"`
	ElapsedMinutes  int       `json:"elapsed_minutes"`
}
