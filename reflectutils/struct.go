package reflectutils

import (
	"reflect"

	"github.com/a-peyrard/autowire/fn"
)

// WalkStruct applies a tri-consumer on all fields and nested fields of a given object.
//
// The consumer receives the value, its type, and the path of exported field names leading to it.
func WalkStruct[T any](element T, consumer fn.TriConsumer[reflect.Value, reflect.Type, []string]) {
	walkStructInternal(reflect.ValueOf(element), []string{}, consumer)
}

func walkStructInternal(val reflect.Value, path []string, consumer fn.TriConsumer[reflect.Value, reflect.Type, []string]) {
	consumer(val, val.Type(), path)

	val = Deref(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return
	}

	for _, field := range ExportedFields(val.Type()) {
		walkStructInternal(val.Field(field.Index[0]), append(path, field.Name), consumer)
	}
}

// Deref dereferences recursively a reflect.Value until it reaches a non-pointer or non-interface value
func Deref(value reflect.Value) reflect.Value {
	if value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		return Deref(value.Elem())
	}
	return value
}

// Indirect returns the element type of a pointer type, or the type itself.
func Indirect(typ reflect.Type) reflect.Type {
	if typ != nil && typ.Kind() == reflect.Pointer {
		return typ.Elem()
	}
	return typ
}

// IsStruct reports whether typ is a struct or a pointer to a struct.
func IsStruct(typ reflect.Type) bool {
	typ = Indirect(typ)
	return typ != nil && typ.Kind() == reflect.Struct
}

// ExportedFields lists the exported top level fields of a struct type, in declaration order.
// Embedded fields are returned as a single field, they are not flattened.
func ExportedFields(typ reflect.Type) []reflect.StructField {
	typ = Indirect(typ)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}
	fields := make([]reflect.StructField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if field := typ.Field(i); field.IsExported() {
			fields = append(fields, field)
		}
	}
	return fields
}

// CreateNilStructs creates new struct instances for nil struct pointers
func CreateNilStructs(val reflect.Value, typ reflect.Type, _ []string) {
	if typ.Kind() == reflect.Pointer &&
		val.IsNil() &&
		typ.Elem().Kind() == reflect.Struct &&
		val.CanSet() {

		val.Set(reflect.New(typ.Elem()))
	}
}
