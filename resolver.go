package autowire

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/option"
	"github.com/a-peyrard/autowire/reflectutils"
	"github.com/a-peyrard/autowire/set"
)

type (
	// Container maps parameter names to the values injected for them.
	Container map[string]any

	// Resolver holds the descriptors of the autowirable types.
	//
	// It is safe for concurrent use, the descriptors are immutable once registered.
	Resolver struct {
		mu      sync.RWMutex
		byName  map[string]*typeDescriptor
		byType  map[reflect.Type]*typeDescriptor
		ordered []*typeDescriptor

		logger *zerolog.Logger
	}

	// Registrable is either a constructor function returning a struct (or a pointer to it),
	// optionally with an error, or a struct value (or pointer, nil included) whose exported
	// fields are the constructor parameters.
	Registrable = any

	// Registry registers a set of types at once, it is implemented by generated code.
	Registry interface {
		RegisterAll(r *Resolver) error
	}

	// EmptyRegistry is embedded in the struct the generator writes RegisterAll for.
	EmptyRegistry struct{}
)

func (EmptyRegistry) RegisterAll(*Resolver) error {
	return nil
}

func New(opts ...option.Option[ResolverOptions]) *Resolver {
	nop := zerolog.Nop()
	options := option.Build(&ResolverOptions{logger: &nop}, opts...)
	if options.logger == nil {
		options.logger = &nop
	}

	return &Resolver{
		byName: make(map[string]*typeDescriptor),
		byType: make(map[reflect.Type]*typeDescriptor),
		logger: options.logger,
	}
}

func (r *Resolver) Register(reg Registrable, opts ...option.Option[RegistrationOptions]) error {
	if reg == nil {
		return fmt.Errorf("%w: cannot register nil", ErrInvalidRegistration)
	}
	options := option.Build(&RegistrationOptions{}, opts...)

	var (
		t    = reflect.TypeOf(reg)
		desc *typeDescriptor
		err  error
	)
	switch {
	case t.Kind() == reflect.Func:
		desc, err = newFuncDescriptor(reflect.ValueOf(reg), options)
	case isClass(t):
		desc, err = newStructDescriptor(t, options)
	default:
		err = fmt.Errorf("%w: registrable must be either a constructor function or a struct, got %T", ErrInvalidRegistration, reg)
	}
	if err != nil {
		return fmt.Errorf("failed to register %T:\n\t%w", reg, err)
	}
	if err = desc.declareMethods(options.methods); err != nil {
		return fmt.Errorf("failed to register %T:\n\t%w", reg, err)
	}

	desc.names = []string{shortName(desc.typ)}
	if options.named != "" {
		desc.names[0] = options.named
	}
	if qualified := qualifiedName(desc.typ); qualified != desc.names[0] {
		desc.names = append(desc.names, qualified)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.byType[desc.structType()]; found {
		return fmt.Errorf("failed to register %T:\n\t%w: %s is already registered as %s", reg, ErrDuplicateType, desc.structType(), existing.name())
	}
	for _, name := range desc.names {
		if _, found := r.byName[name]; found {
			return fmt.Errorf("failed to register %T:\n\t%w: name %s is already taken", reg, ErrDuplicateType, name)
		}
	}
	for _, name := range desc.names {
		r.byName[name] = desc
	}
	r.byType[desc.structType()] = desc
	r.ordered = append(r.ordered, desc)

	r.logger.Debug().
		Str("type", desc.name()).
		Str("origin", desc.origin).
		Int("params", len(desc.constructor.params)).
		Int("methods", len(desc.methods)).
		Msg("registered")

	return nil
}

func (r *Resolver) MustRegister(reg Registrable, opts ...option.Option[RegistrationOptions]) *Resolver {
	err := r.Register(reg, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to register %T:\n\t%v", reg, err))
	}
	return r
}

// Load registers the types of the given registries, stopping at the first failure.
func (r *Resolver) Load(registries ...Registry) error {
	for _, registry := range registries {
		if err := registry.RegisterAll(r); err != nil {
			return fmt.Errorf("failed to load registry %T:\n\t%w", registry, err)
		}
	}
	return nil
}

func (r *Resolver) lookupName(name string) (*typeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, found := r.byName[name]
	return desc, found
}

// lookupType returns the descriptor of a struct type, registered or implicit.
func (r *Resolver) lookupType(typ reflect.Type) (*typeDescriptor, bool) {
	if !isClass(typ) {
		return nil, false
	}

	r.mu.RLock()
	desc, found := r.byType[reflectutils.Indirect(typ)]
	r.mu.RUnlock()

	if found {
		return desc, true
	}
	return newImplicitDescriptor(typ), true
}

func (r *Resolver) descriptors() []*typeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*typeDescriptor(nil), r.ordered...)
}

// Names returns the primary names of the registered types, sorted.
func (r *Resolver) Names() []string {
	names := set.New[string]()
	for _, desc := range r.descriptors() {
		names.Add(desc.name())
	}
	return set.Sorted(names)
}

// Validate reports every declaration that cannot be autowired as is.
func (r *Resolver) Validate() error {
	var result *multierror.Error
	for _, desc := range r.descriptors() {
		entryPoints := append([]entryPoint{desc.constructor}, desc.methods...)
		for _, ep := range entryPoints {
			if err := validateEntryPoint(ep); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s.%s: %w", desc.name(), ep.name, err))
			}
		}
	}
	return result.ErrorOrNil()
}

func validateEntryPoint(ep entryPoint) error {
	if !ep.public {
		return ErrMethodNotPublic
	}

	var errs []error
	names := set.New[string]()
	for i, p := range ep.params {
		switch {
		case p.Name != "" && !names.Add(p.Name):
			errs = append(errs, fmt.Errorf("parameter %q is declared twice", p.Name))
		case p.Name == "" && !p.HasDefault && !isClass(p.typ):
			errs = append(errs, fmt.Errorf("%w: parameter #%d (%s) has no name and no default", ErrUnresolvableParameter, i, p.typ))
		}
	}
	return errors.Join(errs...)
}

func (r *Resolver) Describe() string {
	var b strings.Builder
	b.WriteString("* Types:\n")
	descriptors := r.descriptors()
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].name() < descriptors[j].name()
	})
	for _, desc := range descriptors {
		b.WriteString(fmt.Sprintf("\t- %s (%s)\n", desc.name(), desc.typ))
		if len(desc.names) > 1 {
			b.WriteString(fmt.Sprintf("\t\taliases: %s\n", strings.Join(desc.names[1:], ", ")))
		}
		b.WriteString(fmt.Sprintf("\t\tconstructor: %s\n", desc.constructor.describe(desc.origin)))
		if len(desc.methods) > 0 {
			b.WriteString("\t\tmethods:\n")
			for _, m := range desc.methods {
				visibility := ""
				if !m.public {
					visibility = " (not public)"
				}
				b.WriteString(fmt.Sprintf("\t\t\t- %s%s\n", m, visibility))
			}
		}
	}
	return b.String()
}
