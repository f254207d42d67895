package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_create_chat_history",
			Up: []string{`
				CREATE TABLE IF NOT EXISTS chat_history (
					id BIGSERIAL PRIMARY KEY,
					session_id VARCHAR(255) NOT NULL,
					role VARCHAR(50) NOT NULL,
					content TEXT NOT NULL,
					timestamp BIGINT NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history (session_id, timestamp);
			`},
			Down: []string{`DROP TABLE chat_history;`},
		},
	},
}

// NewPostgres opens a connection pool for the given DSN and applies pending
// migrations before returning it.
func NewPostgres(url string) (*sql.DB, error) {
	db := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	if n > 0 {
		slog.Info("applied migrations", "count", n)
	}

	return db, nil
}
