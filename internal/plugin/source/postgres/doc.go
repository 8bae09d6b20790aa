// Package postgres implements the Postgres source plugin kind. It polls a
// configured table for rows whose watermark column has advanced since the
// last poll, using database/sql over github.com/jackc/pgx/v5/stdlib.
// Consuming an actual logical-replication slot is out of scope for this
// repo's black-box query layer; polling is the pragmatic approximation,
// documented in DESIGN.md.
package postgres
