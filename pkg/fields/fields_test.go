package fields

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaRejectsBadSpecs(t *testing.T) {
	_, err := NewSchema([]Spec{{Name: "a", Kind: Number}, {Name: "a", Kind: Bool}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")

	_, err = NewSchema([]Spec{{Name: "a", Kind: "date"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")

	_, err = NewSchema([]Spec{{Name: "  ", Kind: Number}})
	require.Error(t, err)
}

func TestSchemaLookupKeepsOrder(t *testing.T) {
	s, err := NewSchema([]Spec{{Name: "b", Kind: Number}, {Name: " a ", Kind: Text}})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.Specs()[0].Name)
	sp, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, Text, sp.Kind)
	_, ok = s.Lookup("c")
	assert.False(t, ok)
}

func TestMappingGet(t *testing.T) {
	m := Mapping{
		"int":     3,
		"float":   2.5,
		"numstr":  " 12 ",
		"jsonnum": json.Number("7"),
		"flag":    "true",
		"bad":     "N/A",
		"nan":     math.NaN(),
		"name":    "Individual",
	}

	cases := []struct {
		spec Spec
		want any
	}{
		{Spec{Name: "int", Kind: Number}, 3.0},
		{Spec{Name: "float", Kind: Number}, 2.5},
		{Spec{Name: "numstr", Kind: Number}, 12.0},
		{Spec{Name: "jsonnum", Kind: Number}, 7.0},
		{Spec{Name: "flag", Kind: Bool}, true},
		{Spec{Name: "name", Kind: Text}, "Individual"},
	}
	for _, tc := range cases {
		t.Run(tc.spec.Name, func(t *testing.T) {
			got, err := m.Get(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := m.Get(Spec{Name: "absent", Kind: Number})
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "absent", missing.Field)

	for _, name := range []string{"bad", "nan"} {
		_, err = m.Get(Spec{Name: name, Kind: Number})
		var invalid *InvalidFieldError
		require.ErrorAs(t, err, &invalid, name)
		assert.Equal(t, name, invalid.Field)
		assert.Equal(t, Number, invalid.Want)
	}

	_, err = m.Get(Spec{Name: "int", Kind: Bool})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
}

func TestMappingCloneIsIndependent(t *testing.T) {
	m := Mapping{"a": 1}
	c := m.Clone()
	c["a"] = 2
	c["b"] = 3

	assert.Equal(t, 1, m["a"])
	assert.Equal(t, []string{"a"}, m.Keys())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}
