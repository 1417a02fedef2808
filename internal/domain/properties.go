package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "null"
	}
}

// Value is one custom property value. The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	obj  *Properties
	list []Value
}

func Null() Value                { return Value{} }
func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func ObjectValue(p Properties) Value {
	c := p.Clone()
	return Value{kind: KindObject, obj: &c}
}
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) Str() (string, bool)     { return v.str, v.kind == KindString }
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) Bool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) List() ([]Value, bool)   { return v.list, v.kind == KindList }

func (v Value) Object() (Properties, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Properties{}, v.kind == KindObject
	}
	return v.obj.Clone(), true
}

// String renders the value as JSON text, which is how the console displays it.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return v.obj.MarshalJSON()
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid property value")
	}
	*v = valueFromResult(gjson.ParseBytes(data))
	return nil
}

// ParseValue interprets form or flag input: valid JSON keeps its type,
// anything else becomes a string.
func ParseValue(raw string) Value {
	if raw != "" && gjson.Valid(raw) {
		return valueFromResult(gjson.Parse(raw))
	}
	return StringValue(raw)
}

func valueFromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.String:
		return StringValue(r.Str)
	case gjson.Number:
		return NumberValue(r.Num)
	case gjson.True:
		return BoolValue(true)
	case gjson.False:
		return BoolValue(false)
	case gjson.JSON:
		if r.IsArray() {
			items := r.Array()
			list := make([]Value, 0, len(items))
			for _, item := range items {
				list = append(list, valueFromResult(item))
			}
			return ListValue(list...)
		}
		var p Properties
		r.ForEach(func(key, value gjson.Result) bool {
			p.Set(key.Str, valueFromResult(value))
			return true
		})
		return ObjectValue(p)
	default:
		return Null()
	}
}

// Properties is an insertion-ordered string-keyed bag of Values. The zero
// value is an empty bag ready to use. Assignment shares storage; use Clone
// for an independent copy.
type Properties struct {
	keys   []string
	values map[string]Value
}

func NewProperties() Properties {
	return Properties{values: make(map[string]Value)}
}

func (p Properties) Clone() Properties {
	if p.values == nil {
		return Properties{}
	}
	c := Properties{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]Value, len(p.values)),
	}
	copy(c.keys, p.keys)
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Set overwrites an existing key in place or appends a new one.
func (p *Properties) Set(key string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

func (p Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Properties) Delete(key string) bool {
	if _, ok := p.values[key]; !ok {
		return false
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

func (p Properties) Len() int { return len(p.keys) }

func (p Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Each visits entries in order until fn returns false.
func (p Properties) Each(fn func(key string, v Value) bool) {
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := p.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid custom properties")
	}
	r := gjson.ParseBytes(data)
	*p = Properties{}
	if r.Type == gjson.Null {
		return nil
	}
	if !r.IsObject() {
		return fmt.Errorf("custom properties must be an object, got %s", r.Type)
	}
	r.ForEach(func(key, value gjson.Result) bool {
		p.Set(key.Str, valueFromResult(value))
		return true
	})
	return nil
}
