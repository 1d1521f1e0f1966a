package config

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindTable
	KindArray
)

var kindNames = map[Kind]string{
	KindNil:     "nil",
	KindBoolean: "boolean",
	KindInteger: "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindTable:   "table",
	KindArray:   "array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Map is a table of configuration values keyed by name.
type Map map[string]Value

// Value is a single node of the configuration tree.
// The zero Value is nil.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	table Map
	array []Value
}

func NewNil() Value { return Value{} }

func NewBool(b bool) Value { return Value{kind: KindBoolean, b: b} }

func NewInt(i int64) Value { return Value{kind: KindInteger, i: i} }

func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

func NewString(s string) Value { return Value{kind: KindString, s: s} }

func NewTable(m Map) Value { return Value{kind: KindTable, table: m} }

func NewArray(a []Value) Value { return Value{kind: KindArray, array: a} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) typeError(want Kind) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrInvalidType, want, v.kind)
}

// ValueOf converts a plain Go value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NewNil(), nil
	case Value:
		return t, nil
	case Map:
		return NewTable(t), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(f), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return NewFloat(float64(u)), nil
		}
		return NewInt(int64(u)), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return NewNil(), nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		arr := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, elem)
		}
		return NewArray(arr), nil
	case reflect.Map:
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			m[fmt.Sprint(iter.Key().Interface())] = elem
		}
		return NewTable(m), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidType, x)
}

func (v Value) Bool() (bool, error) {
	switch v.kind {
	case KindBoolean:
		return v.b, nil
	case KindInteger:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindString:
		switch strings.ToLower(v.s) {
		case "1", "true", "on", "yes":
			return true, nil
		case "0", "false", "off", "no":
			return false, nil
		}
	}
	return false, v.typeError(KindBoolean)
}

func (v Value) Int() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.i, nil
	case KindBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < 1<<63 {
			return int64(v.f), nil
		}
	case KindString:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, v.typeError(KindInteger)
}

func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInteger:
		return float64(v.i), nil
	case KindBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, nil
		}
	}
	return 0, v.typeError(KindFloat)
}

func (v Value) Table() (Map, error) {
	if v.kind != KindTable {
		return nil, v.typeError(KindTable)
	}
	return v.table, nil
}

func (v Value) Array() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.typeError(KindArray)
	}
	return v.array, nil
}

// String renders scalars as text. Tables and arrays render as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Interface returns the value as plain Go types:
// nil, bool, int64, float64, string, map[string]any or []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTable:
		return v.table.Interface()
	case KindArray:
		arr := make([]any, len(v.array))
		for i, elem := range v.array {
			arr[i] = elem.Interface()
		}
		return arr
	}
	return nil
}

func (m Map) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// MarshalJSON keeps floats distinguishable from integers: a float always
// carries a fraction or an exponent.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNil:
		return []byte("null"), nil
	case KindBoolean:
		return strconv.AppendBool(nil, v.b), nil
	case KindInteger:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("unsupported float value: %v", v.f)
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case KindString:
		return json.Marshal(v.s)
	case KindTable:
		return v.table.MarshalJSON()
	case KindArray:
		if v.array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.array)
	}
	return nil, fmt.Errorf("unknown kind: %s", v.kind)
}

func (m Map) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := m[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// Clone returns a deep copy of the table.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case KindTable:
		return NewTable(v.table.Clone())
	case KindArray:
		arr := make([]Value, len(v.array))
		for i, elem := range v.array {
			arr[i] = elem.clone()
		}
		return NewArray(arr)
	}
	return v
}
