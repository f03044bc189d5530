package autowire

import (
	"fmt"
	"go/token"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/a-peyrard/autowire/reflectutils"
	"github.com/a-peyrard/autowire/set"
	"github.com/a-peyrard/autowire/str"
)

const (
	injectTag  = "autowire"
	defaultTag = "default"
)

type (
	entryPoint struct {
		name   string
		public bool
		params []parameter
	}

	construction func(args []reflect.Value) (reflect.Value, error)

	typeDescriptor struct {
		// names the type can be looked up with, the first one is the primary name
		names []string
		// typ is the produced type, a struct or a pointer to a struct
		typ reflect.Type
		// origin describes where the constructor comes from, for display only
		origin string

		constructor entryPoint
		construct   construction
		methods     []entryPoint

		implicit bool
	}
)

func (d *typeDescriptor) name() string {
	return d.names[0]
}

func (d *typeDescriptor) structType() reflect.Type {
	return reflectutils.Indirect(d.typ)
}

func (e entryPoint) String() string {
	return e.describe(e.name)
}

func (e entryPoint) describe(label string) string {
	params := make([]string, len(e.params))
	for i, p := range e.params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", label, strings.Join(params, ", "))
}

// newFuncDescriptor builds the descriptor of a type produced by a constructor function.
func newFuncDescriptor(fnVal reflect.Value, opts *RegistrationOptions) (*typeDescriptor, error) {
	t := fnVal.Type()
	if fnVal.IsNil() {
		return nil, fmt.Errorf("%w: constructor is nil", ErrInvalidRegistration)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic constructors are not supported", ErrInvalidRegistration)
	}
	if t.NumOut() != 1 && t.NumOut() != 2 {
		return nil, fmt.Errorf("%w: constructor must either return the instance and an error, or just the instance", ErrInvalidRegistration)
	}
	if t.NumOut() == 2 && t.Out(1) != ErrorType {
		return nil, fmt.Errorf("%w: if constructor returns two elements, it must return an error as the second element", ErrInvalidRegistration)
	}
	produced := t.Out(0)
	if !isClass(produced) {
		return nil, fmt.Errorf("%w: constructor must return a struct or a pointer to a struct, got %s", ErrInvalidRegistration, produced)
	}
	if len(opts.params) > 0 && len(opts.params) != t.NumIn() {
		return nil, fmt.Errorf("%w: %d parameter(s) declared for a constructor taking %d", ErrInvalidRegistration, len(opts.params), t.NumIn())
	}

	params := make([]parameter, t.NumIn())
	for i := range params {
		decl, _ := tryGetAt(opts.params, i)
		p, err := newParameter(decl, t.In(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		}
		params[i] = p
	}

	returnsError := t.NumOut() == 2
	return &typeDescriptor{
		typ:    produced,
		origin: filepath.Base(runtime.FuncForPC(fnVal.Pointer()).Name()),
		constructor: entryPoint{
			name:   Constructor,
			public: true,
			params: params,
		},
		construct: func(args []reflect.Value) (reflect.Value, error) {
			results := fnVal.Call(args)
			if returnsError && !results[1].IsNil() {
				return reflect.Value{}, results[1].Interface().(error)
			}
			return results[0], nil
		},
	}, nil
}

// newStructDescriptor builds the descriptor of a struct type whose exported fields are the constructor parameters.
func newStructDescriptor(produced reflect.Type, opts *RegistrationOptions) (*typeDescriptor, error) {
	if len(opts.params) > 0 {
		return nil, fmt.Errorf("%w: parameters of %s are read from its fields, Params cannot be used", ErrInvalidRegistration, produced)
	}

	structTyp := reflectutils.Indirect(produced)
	var (
		params []parameter
		fields []int
	)
	for _, field := range reflectutils.ExportedFields(structTyp) {
		decl, skip := fieldParameter(field)
		if skip {
			continue
		}
		p, err := newParameter(decl, field.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s:\n\t%w", ErrInvalidRegistration, field.Name, err)
		}
		params = append(params, p)
		fields = append(fields, field.Index[0])
	}

	return &typeDescriptor{
		typ:    produced,
		origin: "fields",
		constructor: entryPoint{
			name:   Constructor,
			public: true,
			params: params,
		},
		construct: func(args []reflect.Value) (reflect.Value, error) {
			instance := reflect.New(structTyp)
			for i, arg := range args {
				instance.Elem().Field(fields[i]).Set(arg)
			}
			if produced.Kind() == reflect.Pointer {
				return instance, nil
			}
			return instance.Elem(), nil
		},
	}, nil
}

// fieldParameter reads the parameter declaration of a struct field from its tags.
func fieldParameter(field reflect.StructField) (decl Parameter, skip bool) {
	name := field.Tag.Get(injectTag)
	if name == "-" {
		return decl, true
	}
	if name == "" {
		name = str.ToLowerCamelCase(field.Name)
	}
	if def, found := field.Tag.Lookup(defaultTag); found {
		return ParamWithDefault(name, def), false
	}
	return Param(name), false
}

// newImplicitDescriptor describes an unregistered struct type, constructed as its zero value.
func newImplicitDescriptor(typ reflect.Type) *typeDescriptor {
	structTyp := reflectutils.Indirect(typ)
	return &typeDescriptor{
		names:       []string{shortName(structTyp)},
		typ:         reflect.PointerTo(structTyp),
		origin:      "zero value",
		constructor: entryPoint{name: Constructor, public: true},
		construct: func([]reflect.Value) (reflect.Value, error) {
			return reflect.New(structTyp), nil
		},
		implicit: true,
	}
}

// declareMethods attaches the declared method entry points to the descriptor.
func (d *typeDescriptor) declareMethods(declarations []methodDeclaration) error {
	receiver := reflect.PointerTo(d.structType())
	seen := set.New[string]()

	for _, decl := range declarations {
		if decl.name == Constructor || decl.name == "" {
			return fmt.Errorf("%w: invalid method name %q", ErrInvalidRegistration, decl.name)
		}
		if !seen.Add(decl.name) {
			return fmt.Errorf("%w: method %s declared twice", ErrInvalidRegistration, decl.name)
		}

		if !token.IsExported(decl.name) {
			// not reachable through reflection, kept so that selecting it reports a clear error
			params := make([]parameter, len(decl.params))
			for i, p := range decl.params {
				params[i] = parameter{Parameter: p}
			}
			d.methods = append(d.methods, entryPoint{name: decl.name, params: params})
			continue
		}

		method, found := receiver.MethodByName(decl.name)
		if !found {
			return fmt.Errorf("%w: %s has no method %s", ErrInvalidRegistration, d.structType(), decl.name)
		}
		params, err := methodParameters(method, decl.params)
		if err != nil {
			return err
		}
		d.methods = append(d.methods, entryPoint{name: decl.name, public: true, params: params})
	}
	return nil
}

func methodParameters(method reflect.Method, decls []Parameter) ([]parameter, error) {
	mt := method.Type
	if mt.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic method %s is not supported", ErrInvalidRegistration, method.Name)
	}
	// the first input is the receiver
	count := mt.NumIn() - 1
	if len(decls) > 0 && len(decls) != count {
		return nil, fmt.Errorf("%w: %d parameter(s) declared for method %s taking %d", ErrInvalidRegistration, len(decls), method.Name, count)
	}

	params := make([]parameter, count)
	for i := range params {
		decl, _ := tryGetAt(decls, i)
		p, err := newParameter(decl, mt.In(i+1))
		if err != nil {
			return nil, fmt.Errorf("%w: method %s:\n\t%w", ErrInvalidRegistration, method.Name, err)
		}
		params[i] = p
	}
	return params, nil
}

// entryPoint finds the entry point selected by name: the constructor, a declared method,
// or an exported method found by reflection, whose parameters are then unnamed.
func (d *typeDescriptor) entryPoint(name string) (entryPoint, bool) {
	if name == Constructor {
		return d.constructor, true
	}
	for _, m := range d.methods {
		if m.name == name {
			return m, true
		}
	}
	if !token.IsExported(name) {
		return entryPoint{}, false
	}
	method, found := reflect.PointerTo(d.structType()).MethodByName(name)
	if !found {
		return entryPoint{}, false
	}
	params, err := methodParameters(method, nil)
	if err != nil {
		return entryPoint{}, false
	}
	return entryPoint{name: name, public: true, params: params}, true
}

func tryGetAt[T any](slice []T, index int) (val T, found bool) {
	if index < 0 || index >= len(slice) {
		return val, false
	}
	return slice[index], true
}
