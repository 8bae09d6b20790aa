package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSettings_Valid(t *testing.T) {
	errs := ValidateSettings("0.0.0.0", "info", 8080)
	assert.False(t, errs.HasErrors())
}

func TestValidateSettings_InvalidPort(t *testing.T) {
	errs := ValidateSettings("0.0.0.0", "info", 0)
	assert.True(t, errs.HasErrors())
}

func TestValidateSettings_InvalidHost(t *testing.T) {
	errs := ValidateSettings("not a host!!", "info", 8080)
	assert.True(t, errs.HasErrors())
}

func TestValidateSettings_InvalidLogLevel(t *testing.T) {
	errs := ValidateSettings("localhost", "verbose", 8080)
	assert.True(t, errs.HasErrors())
}

// TestValidateUniqueIDs_Duplicate checks that duplicate ids are flagged.
func TestValidateUniqueIDs_Duplicate(t *testing.T) {
	errs := ValidateUniqueIDs("source", []string{"a", "b", "a"})
	assert.True(t, errs.HasErrors())
}

func TestValidateUniqueIDs_AllUnique(t *testing.T) {
	errs := ValidateUniqueIDs("source", []string{"a", "b", "c"})
	assert.False(t, errs.HasErrors())
}

// TestValidateReferentialIntegrity_MissingSource checks referential
// integrity over a query's source list.
func TestValidateReferentialIntegrity_MissingSource(t *testing.T) {
	queries := []QueryConfigDTO{{ID: "Q", Sources: []string{"S2"}}}
	errs := ValidateReferentialIntegrity(queries, nil, map[string]struct{}{}, map[string]struct{}{})
	assert.True(t, errs.HasErrors())
}

func TestValidateReferentialIntegrity_AllResolve(t *testing.T) {
	queries := []QueryConfigDTO{{ID: "Q", Sources: []string{"S"}}}
	errs := ValidateReferentialIntegrity(queries, nil, map[string]struct{}{"S": {}}, map[string]struct{}{})
	assert.False(t, errs.HasErrors())
}

func TestValidateJoins_UnmatchedLabelWarns(t *testing.T) {
	warnings := ValidateJoins("MATCH (a)-[:KNOWS]->(b) RETURN a", []JoinDescriptor{
		{Label: "WORKS_WITH", Keys: []JoinKeyComponent{{Label: "Person", Property: "id"}}},
	})
	assert.NotEmpty(t, warnings)
}

func TestValidateJoins_MatchedLabelNoWarning(t *testing.T) {
	warnings := ValidateJoins("MATCH (a)-[:KNOWS]->(b) RETURN a", []JoinDescriptor{
		{Label: "KNOWS", Keys: []JoinKeyComponent{{Label: "Person", Property: "id"}}},
	})
	assert.Empty(t, warnings)
}
