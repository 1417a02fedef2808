package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_PreservesWireOrder(t *testing.T) {
	raw := `{"zeta":1,"alpha":"a","mid":{"y":true,"x":null},"list":[1,"two",false]}`

	var p Properties
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, []string{"zeta", "alpha", "mid", "list"}, p.Keys())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestProperties_ValueKinds(t *testing.T) {
	var p Properties
	require.NoError(t, json.Unmarshal([]byte(`{"s":"x","n":2.5,"b":false,"z":null,"o":{"k":"v"},"l":[]}`), &p))

	cases := map[string]ValueKind{
		"s": KindString,
		"n": KindNumber,
		"b": KindBool,
		"z": KindNull,
		"o": KindObject,
		"l": KindList,
	}
	for key, want := range cases {
		v, ok := p.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v.Kind(), key)
	}

	n, ok := mustGet(t, p, "n").Number()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	obj, ok := mustGet(t, p, "o").Object()
	require.True(t, ok)
	inner, ok := obj.Get("k")
	require.True(t, ok)
	s, _ := inner.Str()
	assert.Equal(t, "v", s)
}

func TestProperties_SetOverwritesInPlace(t *testing.T) {
	p := NewProperties()
	p.Set("a", StringValue("1"))
	p.Set("b", StringValue("2"))
	p.Set("a", NumberValue(3))

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":"2"}`, string(out))
}

func TestProperties_ObjectValueIsIndependent(t *testing.T) {
	src := NewProperties()
	src.Set("k", StringValue("v"))
	v := ObjectValue(src)

	src.Set("late", BoolValue(true))
	obj, ok := v.Object()
	require.True(t, ok)
	assert.Equal(t, []string{"k"}, obj.Keys())

	obj.Set("added", NumberValue(1))
	obj.Delete("k")
	again, _ := v.Object()
	assert.Equal(t, []string{"k"}, again.Keys())
	_, has := again.Get("added")
	assert.False(t, has)
	assert.Equal(t, `{"k":"v"}`, v.String())
}

func TestProperties_Delete(t *testing.T) {
	var p Properties
	p.Set("a", Null())
	p.Set("b", BoolValue(true))

	assert.True(t, p.Delete("a"))
	assert.False(t, p.Delete("a"))
	assert.Equal(t, []string{"b"}, p.Keys())
	assert.Equal(t, 1, p.Len())
}

func TestProperties_NullAndInvalid(t *testing.T) {
	var p Properties
	require.NoError(t, json.Unmarshal([]byte(`null`), &p))
	assert.Equal(t, 0, p.Len())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, KindNumber, ParseValue("42").Kind())
	assert.Equal(t, KindBool, ParseValue("true").Kind())
	assert.Equal(t, KindObject, ParseValue(`{"a":1}`).Kind())
	assert.Equal(t, KindString, ParseValue("production").Kind())
	assert.Equal(t, KindString, ParseValue("").Kind())
	assert.Equal(t, `"production"`, ParseValue("production").String())
}

func mustGet(t *testing.T, p Properties, key string) Value {
	t.Helper()
	v, ok := p.Get(key)
	require.True(t, ok, key)
	return v
}
