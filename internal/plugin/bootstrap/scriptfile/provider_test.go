package scriptfile

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/query"
)

func TestProvider_Bootstrap_ReplaysRowsInFileOrder(t *testing.T) {
	path := t.TempDir() + "/script.yaml"
	script := `
- op: insert
  id: n1
  labels: [Person]
  properties:
    name: Ada
- op: insert
  id: n2
  labels: [Person]
  properties:
    name: Lin
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	p := New(path)
	sink := make(chan component.ChangeEvent, 10)
	require.NoError(t, p.Bootstrap(context.Background(), "q1", sink))
	close(sink)

	var rows []query.Row
	for ev := range sink {
		row, ok := ev.Payload.(query.Row)
		require.True(t, ok)
		assert.True(t, ev.Bootstrap)
		rows = append(rows, row)
	}

	require.Len(t, rows, 2)
	assert.Equal(t, "n1", rows[0].ID)
	assert.Equal(t, "n2", rows[1].ID)
	assert.Equal(t, "Ada", rows[0].Properties["name"])
}
