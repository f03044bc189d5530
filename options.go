package autowire

import (
	"github.com/rs/zerolog"

	"github.com/a-peyrard/autowire/option"
)

// Constructor is the entry point name selecting the constructor of a type.
const Constructor = "<constructor>"

type (
	// Options drives a single Autowire call.
	Options struct {
		entryPoint                   string
		resolveInjectedClasses       bool
		useOptionsForInjectedClasses bool
	}

	// ResolverOptions configures a Resolver.
	ResolverOptions struct {
		logger *zerolog.Logger
	}

	// RegistrationOptions configures the registration of a type.
	RegistrationOptions struct {
		named   string
		params  []Parameter
		methods []methodDeclaration
	}

	methodDeclaration struct {
		name   string
		params []Parameter
	}
)

// DefaultOptions returns the options used when none are given, and for injected classes
// unless UseOptionsForInjectedClasses is set.
func DefaultOptions() Options {
	return Options{
		entryPoint: Constructor,
	}
}

// EntryPoint selects the method invoked on a freshly constructed instance.
// The method name is matched exactly. Use Constructor to go back to the constructor.
//
// Exported methods are found without being declared. Unexported methods cannot be reached by
// reflection: unless declared with Method, selecting one fails with ErrEntryPointNotFound rather
// than ErrMethodNotPublic.
func EntryPoint(name string) option.Option[Options] {
	return func(opts *Options) {
		opts.entryPoint = name
	}
}

// ResolveInjectedClasses makes class typed parameters autowired recursively,
// instead of being constructed without arguments.
func ResolveInjectedClasses(enabled bool) option.Option[Options] {
	return func(opts *Options) {
		opts.resolveInjectedClasses = enabled
	}
}

// UseOptionsForInjectedClasses propagates the current options to the recursive resolution
// of injected classes. Otherwise, they are resolved with DefaultOptions.
func UseOptionsForInjectedClasses(enabled bool) option.Option[Options] {
	return func(opts *Options) {
		opts.useOptionsForInjectedClasses = enabled
	}
}

// WithLogger sets the logger used to trace resolutions, at debug level.
func WithLogger(logger *zerolog.Logger) option.Option[ResolverOptions] {
	return func(opts *ResolverOptions) {
		opts.logger = logger
	}
}

// Named overrides the name the type is registered under.
func Named(name string) option.Option[RegistrationOptions] {
	return func(opts *RegistrationOptions) {
		opts.named = name
	}
}

// Params names the parameters of a constructor function, in declaration order.
func Params(params ...Parameter) option.Option[RegistrationOptions] {
	return func(opts *RegistrationOptions) {
		opts.params = params
	}
}

// Method declares a method usable as entry point, with its parameters in declaration order.
func Method(name string, params ...Parameter) option.Option[RegistrationOptions] {
	return func(opts *RegistrationOptions) {
		opts.methods = append(opts.methods, methodDeclaration{name: name, params: params})
	}
}
