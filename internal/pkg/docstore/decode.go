package docstore

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// DecodeAll decodes raw documents into out, which must point to a slice
func DecodeAll(raws []bson.Raw, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("docstore: out must be a pointer to a slice, got %T", out)
	}

	slice := rv.Elem()
	slice.Set(reflect.MakeSlice(slice.Type(), 0, len(raws)))
	elemType := slice.Type().Elem()
	for _, raw := range raws {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return fmt.Errorf("docstore: decode document: %w", err)
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}
