package scriptfile

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// scriptRow is the on-disk YAML shape of one recorded row.
type scriptRow struct {
	Op         string         `yaml:"op"`
	ID         string         `yaml:"id"`
	Labels     []string       `yaml:"labels,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// Provider replays the rows recorded in a YAML script file, in file order,
// every time Bootstrap is called.
type Provider struct {
	path string
}

func New(path string) *Provider {
	return &Provider{path: path}
}

func (p *Provider) Kind() string { return string(config.BootstrapScriptFile) }

func (p *Provider) Bootstrap(ctx context.Context, queryID string, sink chan<- component.ChangeEvent) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("scriptfile bootstrap: reading %q: %w", p.path, err)
	}

	var rows []scriptRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("scriptfile bootstrap: parsing %q: %w", p.path, err)
	}

	for _, row := range rows {
		ev := component.ChangeEvent{
			Bootstrap: true,
			Payload:   query.Row{Op: query.Op(row.Op), ID: row.ID, Labels: row.Labels, Properties: row.Properties},
		}
		select {
		case sink <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.BootstrapDescriptorDTO) (component.BootstrapProvider, error) {
	path, err := mapping.RequireParam(r, dto.Params, "path", identity)
	if err != nil {
		return nil, err
	}
	return New(path), nil
}
