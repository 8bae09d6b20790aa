package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	pgsource "github.com/drasi-project/drasi-server/internal/plugin/source/postgres"
	"github.com/drasi-project/drasi-server/internal/query"
)

// Provider replays a full table snapshot as a sequence of insert rows, one
// query per Bootstrap call.
type Provider struct {
	dsn      string
	table    string
	idColumn string
}

func New(dsn, table, idColumn string) *Provider {
	return &Provider{dsn: dsn, table: table, idColumn: idColumn}
}

func (p *Provider) Kind() string { return string(config.BootstrapPostgres) }

func (p *Provider) Bootstrap(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	db, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("postgres bootstrap: opening connection: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", p.table))
	if err != nil {
		return fmt.Errorf("postgres bootstrap: querying %q: %w", p.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("postgres bootstrap: reading columns: %w", err)
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("postgres bootstrap: scanning row: %w", err)
		}

		props := make(map[string]any, len(cols))
		var id string
		for i, col := range cols {
			props[col] = values[i]
			if col == p.idColumn {
				id = fmt.Sprintf("%v", values[i])
			}
		}

		ev := component.ChangeEvent{Bootstrap: true, Payload: query.Row{Op: query.OpInsert, ID: id, Properties: props}}
		select {
		case sink <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return rows.Err()
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	dsn, err := pgsource.ResolveDSN(r, dto.Params)
	if err != nil {
		return nil, err
	}
	table, err := mapping.RequireParam(r, dto.Params, "table", identity)
	if err != nil {
		return nil, err
	}
	idCol, err := mapping.ResolveParam(r, dto.Params, "id_column", identity, "id")
	if err != nil {
		return nil, err
	}
	return New(dsn, table, idCol), nil
}
