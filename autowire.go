package autowire

import (
	"fmt"
	"reflect"
	"time"

	"github.com/a-peyrard/autowire/option"
)

// Autowire constructs the type registered under typeName, or invokes the entry point selected
// with EntryPoint on a freshly constructed instance and returns its result.
//
// Scalar parameters are taken from the container by name, or from their declared default.
// Struct parameters are constructed without arguments, or autowired with an empty container
// when ResolveInjectedClasses is set.
//
// Errors returned by the constructors and methods being called are returned as is.
// Failures of the resolution itself are *ResolutionError values.
func (r *Resolver) Autowire(typeName string, container Container, opts ...option.Option[Options]) (any, error) {
	desc, found := r.lookupName(typeName)
	if !found {
		return nil, &ResolutionError{Path: []string{typeName}, Err: ErrTypeNotFound}
	}

	resolved, err := r.resolve(desc, container, option.Apply(DefaultOptions(), opts...), NewTracker())
	if err != nil {
		return nil, err
	}
	if !resolved.IsValid() {
		return nil, nil
	}
	return resolved.Interface(), nil
}

// MustAutowire is like Autowire but panics on error.
func (r *Resolver) MustAutowire(typeName string, container Container, opts ...option.Option[Options]) any {
	resolved, err := r.Autowire(typeName, container, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to autowire %s:\n\t%v", typeName, err))
	}
	return resolved
}

// AutowireAs is like Autowire, with the type looked up from T instead of its name.
//
// T does not need to be registered when it is a struct or a pointer to a struct: unregistered
// types are constructed as their zero value. When an entry point is selected, its result is
// converted to T.
func AutowireAs[T any](r *Resolver, container Container, opts ...option.Option[Options]) (T, error) {
	var zero T
	lookFor := TypeOf[T]()
	desc, found := r.lookupType(lookFor)
	if !found {
		return zero, &ResolutionError{Path: []string{lookFor.String()}, Err: ErrTypeNotFound}
	}

	options := option.Apply(DefaultOptions(), opts...)
	tracker := NewTracker()
	resolved, err := r.resolve(desc, container, options, tracker)
	if err != nil {
		return zero, err
	}
	if !resolved.IsValid() {
		return zero, nil
	}

	adapted, err := adapt(resolved, lookFor)
	if err != nil {
		return zero, &ResolutionError{Path: []string{desc.name()}, EntryPoint: options.entryPoint, Err: err}
	}
	return adapted.Interface().(T), nil
}

func (r *Resolver) resolve(desc *typeDescriptor, container Container, opts Options, tracker *Tracker) (reflect.Value, error) {
	tracker.Push(desc.name())
	defer tracker.Pop()

	start := time.Now()
	r.logger.Debug().
		Str("type", desc.name()).
		Str("entryPoint", opts.entryPoint).
		Bool("implicit", desc.implicit).
		Int("depth", tracker.Depth()).
		Msg("autowiring")

	ep, found := desc.entryPoint(opts.entryPoint)
	if !found {
		return reflect.Value{}, failure(tracker, opts.entryPoint, "", ErrEntryPointNotFound)
	}
	if !ep.public {
		return reflect.Value{}, failure(tracker, ep.name, "", ErrMethodNotPublic)
	}

	args := make([]reflect.Value, len(ep.params))
	for i, p := range ep.params {
		var err error
		if args[i], err = r.bind(p, ep, container, opts, tracker); err != nil {
			return reflect.Value{}, err
		}
	}

	var (
		resolved reflect.Value
		err      error
	)
	if ep.name == Constructor {
		resolved, err = desc.construct(args)
	} else {
		var instance reflect.Value
		if instance, err = r.constructBare(desc, tracker); err != nil {
			return reflect.Value{}, err
		}
		resolved, err = invoke(instance, ep.name, args)
	}
	if err != nil {
		return reflect.Value{}, err
	}

	r.logger.Debug().
		Str("type", desc.name()).
		Str("entryPoint", ep.name).
		Dur("elapsed", time.Since(start)).
		Msg("autowired")

	return resolved, nil
}

// bind computes the value of a single parameter of the entry point.
func (r *Resolver) bind(p parameter, ep entryPoint, container Container, opts Options, tracker *Tracker) (reflect.Value, error) {
	if !isClass(p.typ) {
		if value, found := container[p.Name]; found && p.Name != "" && value != nil {
			v, err := coerce(value, p.typ)
			if err != nil {
				return reflect.Value{}, failure(tracker, ep.name, p.Name, err)
			}
			r.traceBinding(tracker, p, "container")
			return v, nil
		}
		if p.HasDefault {
			r.traceBinding(tracker, p, "default")
			return p.defaultValue, nil
		}
		return reflect.Value{}, failure(tracker, ep.name, p.Name, ErrUnresolvableParameter)
	}

	// struct types are always found, registered or not
	nested, _ := r.lookupType(p.typ)

	var (
		v      reflect.Value
		err    error
		source string
	)
	if opts.resolveInjectedClasses {
		nestedOpts := DefaultOptions()
		if opts.useOptionsForInjectedClasses {
			nestedOpts = opts
		}
		v, err = r.resolve(nested, Container{}, nestedOpts, tracker)
		source = "autowired"
	} else {
		tracker.Push(nested.name())
		v, err = r.constructBare(nested, tracker)
		tracker.Pop()
		source = "constructed"
	}
	if err != nil {
		return reflect.Value{}, err
	}
	r.traceBinding(tracker, p, source)

	if !v.IsValid() {
		return reflect.Zero(p.typ), nil
	}
	adapted, err := adapt(v, p.typ)
	if err != nil {
		return reflect.Value{}, failure(tracker, ep.name, p.Name, err)
	}
	return adapted, nil
}

// constructBare calls the constructor of the type without arguments: only parameters
// having a default can be satisfied.
func (r *Resolver) constructBare(desc *typeDescriptor, tracker *Tracker) (reflect.Value, error) {
	args := make([]reflect.Value, len(desc.constructor.params))
	for i, p := range desc.constructor.params {
		if !p.HasDefault {
			return reflect.Value{}, failure(tracker, Constructor, p.Name, fmt.Errorf("%w: parameter #%d (%s) has no default", ErrConstructorArguments, i, p))
		}
		args[i] = p.defaultValue
	}
	return desc.construct(args)
}

func (r *Resolver) traceBinding(tracker *Tracker, p parameter, source string) {
	r.logger.Debug().
		Str("path", tracker.String()).
		Str("param", p.Name).
		Str("source", source).
		Msg("parameter bound")
}

// invoke calls the named method on instance. A trailing error result is returned as the error,
// a single remaining result as the value, several ones as a []any.
func invoke(instance reflect.Value, name string, args []reflect.Value) (reflect.Value, error) {
	receiver := instance
	if receiver.Kind() != reflect.Pointer {
		receiver = reflect.New(instance.Type())
		receiver.Elem().Set(instance)
	}

	results := receiver.MethodByName(name).Call(args)
	if n := len(results); n > 0 && results[n-1].Type() == ErrorType {
		if !results[n-1].IsNil() {
			return reflect.Value{}, results[n-1].Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return reflect.Value{}, nil
	case 1:
		return results[0], nil
	}
	values := make([]any, len(results))
	for i, result := range results {
		values[i] = result.Interface()
	}
	return reflect.ValueOf(values), nil
}

func failure(tracker *Tracker, entryPoint string, param string, err error) *ResolutionError {
	return &ResolutionError{
		Path:       tracker.Path(),
		EntryPoint: entryPoint,
		Param:      param,
		Err:        err,
	}
}
