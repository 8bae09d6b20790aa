// Package postgres implements the Postgres bootstrap provider kind: it
// replays a full table snapshot (SELECT * FROM <table>) as insert rows
// using database/sql over github.com/jackc/pgx/v5/stdlib, sharing the DSN
// resolution rules internal/plugin/source/postgres implements for the
// matching source kind.
package postgres
