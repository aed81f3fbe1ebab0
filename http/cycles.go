package http

import (
	"encoding/json"
	"reflect"
)

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// visitKey identifies a reference on the current path. The type is part of
// the key because a struct and its first field share an address.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// mayRefer reports whether values of t can hold a reference, and so take
// part in a cycle.
func mayRefer(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	case reflect.Array:
		return mayRefer(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if mayRefer(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// dropCycles returns a copy of v in which every pointer, map or slice that
// refers back to one of its own ancestors is replaced by its zero value, so
// the loop is written as null.
// Shared references that are not ancestors are kept. v itself is never
// modified.
func dropCycles(v any) any {
	if v == nil {
		return nil
	}
	out := (&cycleBreaker{path: make(map[visitKey]bool)}).copy(reflect.ValueOf(v))
	if !out.IsValid() {
		return nil
	}
	return out.Interface()
}

type cycleBreaker struct {
	path map[visitKey]bool
}

// enter marks v as an ancestor. It reports false when v is already on the
// path, which makes v a back-reference.
func (b *cycleBreaker) enter(v reflect.Value) (visitKey, bool) {
	key := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if b.path[key] {
		return key, false
	}
	b.path[key] = true
	return key, true
}

func (b *cycleBreaker) copy(v reflect.Value) reflect.Value {
	if !mayRefer(v.Type()) || v.Type().Implements(marshalerType) {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		key, ok := b.enter(v)
		if !ok {
			return reflect.Zero(v.Type())
		}
		defer delete(b.path, key)
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(b.copy(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(b.copy(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(b.copy(v.Field(i)))
			}
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key, ok := b.enter(v)
		if !ok {
			return reflect.Zero(v.Type())
		}
		defer delete(b.path, key)
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), b.copy(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return v
		}
		key, ok := b.enter(v)
		if !ok {
			return reflect.Zero(v.Type())
		}
		defer delete(b.path, key)
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(b.copy(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(b.copy(v.Index(i)))
		}
		return out
	}
	return v
}
