package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS lectures (
    id            BIGSERIAL PRIMARY KEY,
    chat_id       BIGINT      NOT NULL,
    title         TEXT        NOT NULL,
    icon          TEXT        NOT NULL DEFAULT '',
    start_date    TIMESTAMPTZ,
    end_date      TIMESTAMPTZ,
    notify_before INTEGER     NOT NULL DEFAULT 0,
    notified      BOOLEAN     NOT NULL DEFAULT false
)`,
	`CREATE INDEX IF NOT EXISTS lectures_chat_start_idx ON lectures (chat_id, start_date)`,
	`CREATE TABLE IF NOT EXISTS lecture_units (
    id         BIGSERIAL PRIMARY KEY,
    lecture_id BIGINT  NOT NULL REFERENCES lectures (id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    name       TEXT    NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS attachments (
    id         BIGSERIAL PRIMARY KEY,
    lecture_id BIGINT NOT NULL REFERENCES lectures (id) ON DELETE CASCADE,
    name       TEXT   NOT NULL,
    link       TEXT   NOT NULL,
    kind       TEXT   NOT NULL
)`,
}

// В SQLite даты хранятся как unix-время в секундах.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS lectures (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id       INTEGER NOT NULL,
    title         TEXT    NOT NULL,
    icon          TEXT    NOT NULL DEFAULT '',
    start_date    INTEGER,
    end_date      INTEGER,
    notify_before INTEGER NOT NULL DEFAULT 0,
    notified      INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS lectures_chat_start_idx ON lectures (chat_id, start_date)`,
	`CREATE TABLE IF NOT EXISTS lecture_units (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    lecture_id INTEGER NOT NULL REFERENCES lectures (id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    name       TEXT    NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS attachments (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    lecture_id INTEGER NOT NULL REFERENCES lectures (id) ON DELETE CASCADE,
    name       TEXT    NOT NULL,
    link       TEXT    NOT NULL,
    kind       TEXT    NOT NULL
)`,
}
