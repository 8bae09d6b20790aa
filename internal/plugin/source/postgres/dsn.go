package postgres

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/drasi-project/drasi-server/internal/configvalue"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// ResolveDSN builds a postgres connection string either from a literal/env
// "dsn" parameter, or from discrete host/port/user/dbname parameters plus a
// password taken from a "password" configvalue or read from the file named
// by "password_file" (trailing whitespace trimmed, matching Postgres's own
// PGPASSWORD-file convention). Shared by the Postgres source and Postgres
// bootstrap provider, which both accept the same connection parameters.
func ResolveDSN(r *mapping.Resolver, params map[string]configvalue.Value[string]) (string, error) {
	if v, ok := params["dsn"]; ok {
		return mapping.ResolveString(r, v)
	}

	host, err := mapping.ResolveParam(r, params, "host", identity, "localhost")
	if err != nil {
		return "", err
	}
	port, err := mapping.ResolveParam(r, params, "port", strconv.Atoi, 5432)
	if err != nil {
		return "", err
	}
	user, err := mapping.ResolveParam(r, params, "user", identity, "postgres")
	if err != nil {
		return "", err
	}
	dbname, err := mapping.RequireParam(r, params, "dbname", identity)
	if err != nil {
		return "", err
	}
	password, err := resolvePassword(r, params)
	if err != nil {
		return "", err
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", host, port, user, dbname)
	if password != "" {
		dsn += fmt.Sprintf(" password=%s", password)
	}
	return dsn, nil
}

func resolvePassword(r *mapping.Resolver, params map[string]configvalue.Value[string]) (string, error) {
	if v, ok := params["password"]; ok {
		return mapping.ResolveString(r, v)
	}
	if v, ok := params["password_file"]; ok {
		path, err := mapping.ResolveString(r, v)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("postgres: reading password_file %q: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", nil
}
