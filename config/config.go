package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/a-peyrard/autowire/fn"
	"github.com/a-peyrard/autowire/option"
	"github.com/a-peyrard/autowire/reflectutils"
	"github.com/a-peyrard/autowire/str"
)

const defaultTag = "default"

type Options struct {
	prefix string
}

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load reads T from the environment. Every leaf field is bound to the screaming snake case
// version of its mapstructure key (prefixed if requested), and falls back to its `default` tag.
// Nested struct pointers are always allocated.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	typ := reflect.TypeOf(vT)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config must be a struct, got %T", vT)
	}
	bindEnvs(v, options.prefix, typ)

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	reflectutils.WalkStruct(
		&vT,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
		),
	)

	return &vT, nil
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, parts ...string) {
	for _, field := range reflectutils.ExportedFields(typ) {
		tv, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			tv = field.Name
		}
		switch {
		case field.Type.Kind() == reflect.Struct:
			bindEnvs(v, envPrefix, field.Type, append(parts, tv)...)
		case field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct:
			bindEnvs(v, envPrefix, field.Type.Elem(), append(parts, tv)...)
		default:
			key := strings.Join(append(parts, tv), ".")
			env := strings.Join(append(parts, str.ToScreamingSnakeCase(tv)), "_")
			_ = v.BindEnv(key, mergeWithEnvPrefix(envPrefix, env))
			if def, found := field.Tag.Lookup(defaultTag); found {
				v.SetDefault(key, def)
			}
		}
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}
