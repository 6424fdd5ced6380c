package storage

import "errors"

// ErrConflict is returned when an insert violates a uniqueness
// constraint (duplicate performer or developer email). Callers treat
// it as "entity already exists" and fetch the existing record.
var ErrConflict = errors.New("resource already exists")

// Schema is the PostgreSQL DDL for the record store, the raw event
// log and the daily aggregates. Apply it with psql or a migration
// tool; the application never creates tables itself.
const Schema = `
CREATE TABLE IF NOT EXISTS performers (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	ads   TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS developers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ads (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	performer_id   TEXT NOT NULL,
	performer_name TEXT NOT NULL,
	video_url      TEXT NOT NULL,
	target_url     TEXT NOT NULL,
	budget         TEXT NOT NULL,
	skip_time      DOUBLE PRECISION NOT NULL,
	exit_time      DOUBLE PRECISION NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ad_events (
	id             TEXT PRIMARY KEY,
	ad_id          TEXT NOT NULL,
	performer_id   TEXT NOT NULL,
	package_name   TEXT NOT NULL,
	client_ts      TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	watch_duration DOUBLE PRECISION NOT NULL,
	date           TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ad_events_date_idx ON ad_events (date);
CREATE INDEX IF NOT EXISTS ad_events_ad_idx ON ad_events (ad_id);

CREATE TABLE IF NOT EXISTS daily_ad_stats (
	performer_id       TEXT NOT NULL,
	ad_id              TEXT NOT NULL,
	date               TEXT NOT NULL,
	views              BIGINT NOT NULL DEFAULT 0,
	clicks             BIGINT NOT NULL DEFAULT 0,
	skips              BIGINT NOT NULL DEFAULT 0,
	exits              BIGINT NOT NULL DEFAULT 0,
	watch_duration_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (performer_id, ad_id, date)
);
CREATE INDEX IF NOT EXISTS daily_ad_stats_ad_date_idx ON daily_ad_stats (ad_id, date);
`
