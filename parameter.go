package autowire

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/spf13/cast"
)

// Parameter declares the name, and optionally the default value, of an entry point parameter.
type Parameter struct {
	Name       string
	Default    any
	HasDefault bool
}

// Param declares a parameter without default value.
func Param(name string) Parameter {
	return Parameter{Name: name}
}

// ParamWithDefault declares a parameter used with value when the container does not provide it.
// A nil value stands for the zero value of the parameter type.
func ParamWithDefault(name string, value any) Parameter {
	return Parameter{Name: name, Default: value, HasDefault: true}
}

// parameter is a declared Parameter bound to its Go type.
type parameter struct {
	Parameter
	typ reflect.Type

	// defaultValue holds Default converted to typ, valid when HasDefault is set.
	defaultValue reflect.Value
}

func (p parameter) String() string {
	name := p.Name
	if name == "" {
		name = "_"
	}
	if p.typ == nil {
		return name
	}
	if p.HasDefault {
		return fmt.Sprintf("%s %s = %v", name, p.typ, p.Default)
	}
	return fmt.Sprintf("%s %s", name, p.typ)
}

func newParameter(decl Parameter, typ reflect.Type) (parameter, error) {
	p := parameter{Parameter: decl, typ: typ}
	if decl.HasDefault {
		var err error
		if p.defaultValue, err = coerce(decl.Default, typ); err != nil {
			return p, fmt.Errorf("invalid default for parameter %q:\n\t%w", decl.Name, err)
		}
	}
	return p, nil
}

var durationType = TypeOf[time.Duration]()

// coerce converts value into a reflect.Value assignable to typ.
func coerce(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}
	return adapt(reflect.ValueOf(value), typ)
}

// adapt converts v into a value assignable to typ. It handles pointer and value forms of the same type,
// numeric conversions, and parses strings into basic kinds.
func adapt(v reflect.Value, typ reflect.Type) (reflect.Value, error) {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	vt := v.Type()

	switch {
	case vt.AssignableTo(typ):
		return v, nil
	case vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(typ):
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: cannot use nil %s as %s", ErrParameterType, vt, typ)
		}
		return v.Elem(), nil
	case typ.Kind() == reflect.Pointer && vt.AssignableTo(typ.Elem()):
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case isNumeric(vt.Kind()) && isNumeric(typ.Kind()):
		converted, err := convertNumber(v, typ)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: cannot use %v as %s:\n\t%w", ErrParameterType, v.Interface(), typ, err)
		}
		return converted, nil
	case vt.Kind() == typ.Kind() && vt.ConvertibleTo(typ):
		return v.Convert(typ), nil
	}

	if parsed, ok, err := parseBasic(v.Interface(), typ); ok {
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: cannot use %v as %s:\n\t%w", ErrParameterType, v.Interface(), typ, err)
		}
		return parsed, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrParameterType, vt, typ)
}

// parseBasic relies on cast to turn strings (or other loosely typed values) into basic kinds.
func parseBasic(value any, typ reflect.Type) (v reflect.Value, ok bool, err error) {
	var parsed any
	switch {
	case typ == durationType:
		parsed, err = cast.ToDurationE(value)
	case typ.Kind() == reflect.Bool:
		parsed, err = cast.ToBoolE(value)
	case typ.Kind() == reflect.String:
		parsed, err = cast.ToStringE(value)
	case isSigned(typ.Kind()):
		parsed, err = cast.ToInt64E(value)
	case isUnsigned(typ.Kind()):
		parsed, err = cast.ToUint64E(value)
	case typ.Kind() == reflect.Float32 || typ.Kind() == reflect.Float64:
		parsed, err = cast.ToFloat64E(value)
	default:
		return reflect.Value{}, false, nil
	}
	if err != nil {
		return reflect.Value{}, true, err
	}
	if typ == durationType {
		return reflect.ValueOf(parsed).Convert(typ), true, nil
	}
	if isNumeric(typ.Kind()) {
		v, err = convertNumber(reflect.ValueOf(parsed), typ)
		return v, true, err
	}
	return reflect.ValueOf(parsed).Convert(typ), true, nil
}

// convertNumber converts v to the numeric type typ, failing when typ cannot hold v exactly.
func convertNumber(v reflect.Value, typ reflect.Type) (reflect.Value, error) {
	out := reflect.New(typ).Elem()
	src, dst := v.Kind(), typ.Kind()
	switch {
	case isSigned(src):
		i := v.Int()
		switch {
		case isSigned(dst):
			if out.OverflowInt(i) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, typ)
			}
			out.SetInt(i)
		case isUnsigned(dst):
			if i < 0 || out.OverflowUint(uint64(i)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, typ)
			}
			out.SetUint(uint64(i))
		default:
			out.SetFloat(float64(i))
		}
	case isUnsigned(src):
		u := v.Uint()
		switch {
		case isSigned(dst):
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", u, typ)
			}
			out.SetInt(int64(u))
		case isUnsigned(dst):
			if out.OverflowUint(u) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", u, typ)
			}
			out.SetUint(u)
		default:
			out.SetFloat(float64(u))
		}
	default:
		f := v.Float()
		switch {
		case isSigned(dst):
			// 2^63 is the first float above MaxInt64
			if f != math.Trunc(f) || f < math.MinInt64 || f >= 1<<63 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%v is not a %s", f, typ)
			}
			out.SetInt(int64(f))
		case isUnsigned(dst):
			if f != math.Trunc(f) || f < 0 || f >= 1<<64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, fmt.Errorf("%v is not a %s", f, typ)
			}
			out.SetUint(uint64(f))
		default:
			if out.OverflowFloat(f) {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, typ)
			}
			out.SetFloat(f)
		}
	}
	return out, nil
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumeric(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || k == reflect.Float32 || k == reflect.Float64
}
