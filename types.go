package autowire

import (
	"reflect"

	"github.com/a-peyrard/autowire/reflectutils"
)

var (
	ErrorType = TypeOf[error]()
)

// TypeOf returns the reflect.Type of I, interfaces included.
func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}

// isClass reports whether a parameter of type typ is injected as a class, or looked up in the container.
func isClass(typ reflect.Type) bool {
	return reflectutils.IsStruct(typ)
}

// shortName is the default lookup name of a type, e.g. "app.Car".
func shortName(typ reflect.Type) string {
	return reflectutils.Indirect(typ).String()
}

// qualifiedName is the name of a type including its full import path, e.g. "github.com/acme/app.Car".
func qualifiedName(typ reflect.Type) string {
	typ = reflectutils.Indirect(typ)
	if typ.PkgPath() == "" || typ.Name() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}
