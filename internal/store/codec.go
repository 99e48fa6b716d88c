package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// HexID is the canonical stored form of an identifier: 32 lowercase hex
// characters, no dashes.
func HexID(id uuid.UUID) string {
	return fmt.Sprintf("%x", [16]byte(id))
}

// Encode converts an entity struct into its storage document. Timestamps
// become ISO-8601 strings, identifiers their canonical lowercase-hex form;
// nested structs, maps, and sequences are normalized recursively and any
// other value passes through unchanged. Field names come from bson tags.
func Encode(entity any) (bson.M, error) {
	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.New("nil entity")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", rv.Kind())
	}
	return encodeStruct(rv)
}

func encodeStruct(rv reflect.Value) (bson.M, error) {
	doc := bson.M{}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		value, err := normalize(rv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		doc[name] = value
	}
	return doc, nil
}

func normalize(rv reflect.Value) (any, error) {
	switch rv.Type() {
	case uuidType:
		return HexID(rv.Interface().(uuid.UUID)), nil
	case timeType:
		return rv.Interface().(time.Time).UTC().Format(time.RFC3339Nano), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem())
	case reflect.Struct:
		return encodeStruct(rv)
	case reflect.Slice, reflect.Array:
		out := make(bson.A, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			value, err := normalize(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map keys must be strings, got %s", rv.Type().Key())
		}
		out := bson.M{}
		iter := rv.MapRange()
		for iter.Next() {
			value, err := normalize(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = value
		}
		return out, nil
	default:
		return rv.Interface(), nil
	}
}

// Decode is the strict inverse of Encode: every tagged field must be present
// in the document with a value parseable into the field's type. A record
// failing Decode is treated as malformed and isolated by the query paths.
func Decode(doc bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("decode target must be a non-nil pointer")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %s", rv.Kind())
	}
	return decodeStruct(doc, rv)
}

func decodeStruct(doc bson.M, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		raw, ok := doc[name]
		if !ok {
			return fmt.Errorf("missing field %q", name)
		}
		if err := assign(rv.Field(i), raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func assign(fv reflect.Value, raw any) error {
	switch fv.Type() {
	case uuidType:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected uuid string, got %T", raw)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(id))
		return nil
	case timeType:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected timestamp string, got %T", raw)
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(ts))
		return nil
	}
	switch fv.Kind() {
	case reflect.Pointer:
		if raw == nil {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		p := reflect.New(fv.Type().Elem())
		if err := assign(p.Elem(), raw); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	case reflect.Struct:
		sub, ok := docMap(raw)
		if !ok {
			return fmt.Errorf("expected document, got %T", raw)
		}
		return decodeStruct(sub, fv)
	case reflect.Slice:
		list, ok := docList(raw)
		if !ok {
			return fmt.Errorf("expected array, got %T", raw)
		}
		out := reflect.MakeSlice(fv.Type(), len(list), len(list))
		for i, element := range list {
			if err := assign(out.Index(i), element); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		fv.Set(out)
		return nil
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", raw)
		}
		fv.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", raw)
		}
		fv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(raw)
		if !ok {
			return fmt.Errorf("expected integer, got %T", raw)
		}
		fv.SetInt(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := asFloat64(raw)
		if !ok {
			return fmt.Errorf("expected number, got %T", raw)
		}
		fv.SetFloat(f)
		return nil
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("bson")
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}

func docMap(raw any) (bson.M, bool) {
	switch t := raw.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return bson.M(t), true
	case bson.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func docList(raw any) ([]any, bool) {
	switch t := raw.(type) {
	case bson.A:
		return t, true
	case []any:
		return t, true
	}
	return nil, false
}

func asInt64(raw any) (int64, bool) {
	switch t := raw.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	}
	return 0, false
}

func asFloat64(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
