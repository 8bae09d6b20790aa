package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStructToRow_ConvertsFields(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{
		"op":     "insert",
		"id":     "n1",
		"labels": []any{"Person"},
		"properties": map[string]any{
			"name": "Ada",
		},
	})
	assert.NoError(t, err)

	row := structToRow(s)
	assert.Equal(t, "n1", row.ID)
	assert.Equal(t, []string{"Person"}, row.Labels)
	assert.Equal(t, "Ada", row.Properties["name"])
}
