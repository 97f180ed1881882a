package docstore

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDocument encodes v with the bson codecs and decodes it back as a generic document
func ToDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	return doc, nil
}

// Lookup resolves a dotted path inside a decoded document. Arrays met on the
// way fan out, so the result holds one value per reachable leaf.
func Lookup(doc interface{}, path string) []interface{} {
	return lookup(doc, strings.Split(path, "."))
}

// Present reports whether path resolves to at least one non-null value
func Present(doc interface{}, path string) bool {
	for _, v := range Lookup(doc, path) {
		if v != nil {
			return true
		}
	}
	return false
}

func lookup(v interface{}, parts []string) []interface{} {
	if len(parts) == 0 {
		out := []interface{}{v}
		if arr, ok := asArray(v); ok {
			out = append(out, arr...)
		}
		return out
	}

	if arr, ok := asArray(v); ok {
		var out []interface{}
		for _, el := range arr {
			out = append(out, lookup(el, parts)...)
		}
		return out
	}

	child, ok := field(v, parts[0])
	if !ok {
		return nil
	}
	return lookup(child, parts[1:])
}

func field(v interface{}, key string) (interface{}, bool) {
	switch d := v.(type) {
	case primitive.M:
		child, ok := d[key]
		return child, ok
	case map[string]interface{}:
		child, ok := d[key]
		return child, ok
	case primitive.D:
		for _, e := range d {
			if e.Key == key {
				return e.Value, true
			}
		}
	}
	return nil, false
}

func asArray(v interface{}) ([]interface{}, bool) {
	switch a := v.(type) {
	case primitive.A:
		return a, true
	case []interface{}:
		return a, true
	}
	return nil, false
}

// NormalizeFilter passes every filter value through the bson codecs so it
// compares equal to the same value read back from a stored document
func NormalizeFilter(f Filter) (Filter, error) {
	out := make(Filter, len(f))
	for path, value := range f {
		doc, err := ToDocument(bson.M{"v": value})
		if err != nil {
			return nil, fmt.Errorf("docstore: filter field %s: %w", path, err)
		}
		out[path] = doc["v"]
	}
	return out, nil
}

// Matches reports whether doc satisfies every condition of a normalized filter
func Matches(doc interface{}, f Filter) bool {
	for path, want := range f {
		hit := false
		for _, got := range Lookup(doc, path) {
			if Equal(got, want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Equal compares two decoded values the way the document store does: numbers
// by value regardless of width, embedded documents field by field
func Equal(a, b interface{}) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return primitive.NewDateTimeFromTime(x)
	case primitive.D:
		m := make(map[string]interface{}, len(x))
		for _, e := range x {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.M:
		return normalizeMap(x)
	case map[string]interface{}:
		return normalizeMap(x)
	case primitive.A:
		return normalizeSlice(x)
	case []interface{}:
		return normalizeSlice(x)
	}
	return v
}

func normalizeMap(in map[string]interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(in))
	for k, v := range in {
		m[k] = normalize(v)
	}
	return m
}

func normalizeSlice(in []interface{}) []interface{} {
	s := make([]interface{}, len(in))
	for i, v := range in {
		s[i] = normalize(v)
	}
	return s
}
