package reflectutils

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	testCar struct {
		Wheels int
		Fuel   string
		Engine *testEngine
		serial string
	}
	testEngine struct {
		Power int
	}
)

func TestWalkStruct(t *testing.T) {
	t.Run("it should visit all exported fields with their path", func(t *testing.T) {
		// GIVEN
		car := &testCar{Engine: &testEngine{}}
		var visited []string

		// WHEN
		WalkStruct(car, func(_ reflect.Value, _ reflect.Type, path []string) {
			visited = append(visited, strings.Join(path, "."))
		})

		// THEN
		assert.Equal(t, []string{"", "Wheels", "Fuel", "Engine", "Engine.Power"}, visited)
	})

	t.Run("it should allow to initialize nil nested structs", func(t *testing.T) {
		// GIVEN
		car := &testCar{}

		// WHEN
		WalkStruct(car, CreateNilStructs)

		// THEN
		require.NotNil(t, car.Engine)
		assert.Equal(t, 0, car.Engine.Power)
	})
}

func TestIsStruct(t *testing.T) {
	testCases := []struct {
		name     string
		typ      reflect.Type
		expected bool
	}{
		{name: "struct", typ: reflect.TypeOf(testCar{}), expected: true},
		{name: "pointer to struct", typ: reflect.TypeOf(&testCar{}), expected: true},
		{name: "int", typ: reflect.TypeOf(0), expected: false},
		{name: "pointer to int", typ: reflect.TypeOf(new(int)), expected: false},
		{name: "slice of structs", typ: reflect.TypeOf([]testCar{}), expected: false},
		{name: "interface", typ: reflect.TypeOf((*error)(nil)).Elem(), expected: false},
		{name: "nil", typ: nil, expected: false},
	}
	for _, tc := range testCases {
		t.Run("it should detect "+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsStruct(tc.typ))
		})
	}
}

func TestExportedFields(t *testing.T) {
	t.Run("it should list exported fields in declaration order", func(t *testing.T) {
		// WHEN
		fields := ExportedFields(reflect.TypeOf(&testCar{}))

		// THEN
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Name
		}
		assert.Equal(t, []string{"Wheels", "Fuel", "Engine"}, names)
	})

	t.Run("it should return nothing for non struct types", func(t *testing.T) {
		assert.Empty(t, ExportedFields(reflect.TypeOf("")))
	})
}

func TestDeref(t *testing.T) {
	t.Run("it should dereference pointers and interfaces", func(t *testing.T) {
		// GIVEN
		engine := &testEngine{Power: 120}
		var boxed any = &engine

		// WHEN
		val := Deref(reflect.ValueOf(&boxed))

		// THEN
		assert.Equal(t, reflect.Struct, val.Kind())
		assert.Equal(t, 120, val.Interface().(testEngine).Power)
	})
}
