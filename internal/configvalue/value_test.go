package configvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_UnmarshalYAML_Literal(t *testing.T) {
	var v Value[int]
	require.NoError(t, yaml.Unmarshal([]byte("7"), &v))
	lit, ok := v.Literal()
	require.True(t, ok)
	assert.Equal(t, 7, lit)
}

func TestValue_UnmarshalYAML_POSIXShorthandWithDefault(t *testing.T) {
	var v Value[string]
	require.NoError(t, yaml.Unmarshal([]byte(`"${X:-7}"`), &v))
	name, def, ok := v.EnvRef()
	require.True(t, ok)
	assert.Equal(t, "X", name)
	require.NotNil(t, def)
	assert.Equal(t, "7", *def)
}

func TestValue_UnmarshalYAML_POSIXShorthandNoDefault(t *testing.T) {
	var v Value[string]
	require.NoError(t, yaml.Unmarshal([]byte(`"${X}"`), &v))
	name, def, ok := v.EnvRef()
	require.True(t, ok)
	assert.Equal(t, "X", name)
	assert.Nil(t, def)
}

func TestValue_UnmarshalYAML_ObjectForm(t *testing.T) {
	var v Value[string]
	require.NoError(t, yaml.Unmarshal([]byte(`{kind: EnvironmentVariable, name: X, default: "7"}`), &v))
	name, def, ok := v.EnvRef()
	require.True(t, ok)
	assert.Equal(t, "X", name)
	require.NotNil(t, def)
	assert.Equal(t, "7", *def)
}

// TestValue_ShorthandEquivalence checks that the POSIX shorthand and object
// form must deserialize to equal values.
func TestValue_ShorthandEquivalence(t *testing.T) {
	var shorthand, object Value[string]
	require.NoError(t, yaml.Unmarshal([]byte(`"${X:-7}"`), &shorthand))
	require.NoError(t, yaml.Unmarshal([]byte(`{kind: EnvironmentVariable, name: X, default: "7"}`), &object))
	assert.Equal(t, shorthand, object)
}

func TestValue_UnmarshalYAML_Secret(t *testing.T) {
	var v Value[string]
	require.NoError(t, yaml.Unmarshal([]byte(`{kind: Secret, name: db-password}`), &v))
	name, ok := v.SecretRef()
	require.True(t, ok)
	assert.Equal(t, "db-password", name)
}

func TestValue_MarshalYAML_RoundTrip(t *testing.T) {
	def := "7"
	v := NewEnvRef[string]("X", &def)
	out, err := yaml.Marshal(v)
	require.NoError(t, err)

	var back Value[string]
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, v, back)
}

func TestValue_MarshalYAML_LiteralPassesThroughUnconverted(t *testing.T) {
	v := NewLiteral(42)
	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(out))
}
