package bucketx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMappingRoundTripPreservesOrder(t *testing.T) {
	in := Mapping{
		{Key: "a", Value: 4},
		{Key: "b", Value: 2},
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out Mapping
	require.NoError(t, yaml.Unmarshal(data, &out))

	assert.Equal(t, []string{"a", "b"}, out.Keys())
	assert.Equal(t, in, out)
}

func TestMappingRoundTripNested(t *testing.T) {
	in := Mapping{
		{Key: "zebra", Value: "first"},
		{Key: "inner", Value: Mapping{
			{Key: "y", Value: 1},
			{Key: "x", Value: 2},
		}},
		{Key: "list", Value: []any{1, "two", 3.5}},
		{Key: "alpha", Value: "last"},
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out Mapping
	require.NoError(t, yaml.Unmarshal(data, &out))

	require.Equal(t, []string{"zebra", "inner", "list", "alpha"}, out.Keys())

	nested, ok := out.Get("inner")
	require.True(t, ok)
	inner, ok := nested.(Mapping)
	require.True(t, ok, "nested value should decode as Mapping, got %T", nested)
	assert.Equal(t, []string{"y", "x"}, inner.Keys())

	list, ok := out.Get("list")
	require.True(t, ok)
	assert.Equal(t, []any{1, "two", 3.5}, list)
}

func TestMappingGetSet(t *testing.T) {
	var m Mapping
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMappingUnmarshalRejectsNonMapping(t *testing.T) {
	var m Mapping
	err := yaml.Unmarshal([]byte("- 1\n- 2\n"), &m)
	assert.Error(t, err)
}
