package autowire

import (
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	Battery struct {
		Voltage  int           `default:"12"`
		Brand    string        `autowire:"maker" default:"Acme"`
		Warmup   time.Duration `default:"2s"`
		Charged  bool
		Internal string `autowire:"-"`
		cells    int
	}

	Headlight struct {
		Battery *Battery
		Lumens  int `default:"800"`
	}

	Wiper struct {
		Speed int `default:"fast"`
	}

	Horn struct {
		Volume int
	}
)

type carRegistry struct {
	EmptyRegistry
	fail bool
}

func (c carRegistry) RegisterAll(r *Resolver) error {
	if c.fail {
		return errors.New("generated registry is out of date")
	}
	r.MustRegister(NewEngine)
	return r.Register(NewCar, Params(Param("wheels"), ParamWithDefault("fuel", "Petrol"), Param("engine")))
}

func TestRegister(t *testing.T) {
	t.Run("it should register a constructor function", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewEngine)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []string{"autowire.Engine"}, resolver.Names())
	})

	t.Run("it should register a constructor returning an error", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewWorkshop)

		// THEN
		require.NoError(t, err)
	})

	t.Run("it should read struct fields as constructor parameters", func(t *testing.T) {
		// GIVEN
		resolver := New()
		require.NoError(t, resolver.Register(Battery{}))

		// WHEN
		battery, err := resolver.Autowire("autowire.Battery", Container{"charged": true, "internal": "ignored", "cells": 3})

		// THEN
		require.NoError(t, err)
		require.IsType(t, Battery{}, battery)
		assert.Equal(t, Battery{Voltage: 12, Brand: "Acme", Warmup: 2 * time.Second, Charged: true}, battery)
	})

	t.Run("it should use the tag name of a field", func(t *testing.T) {
		// GIVEN
		resolver := New()
		require.NoError(t, resolver.Register(Battery{}))

		// WHEN
		battery, err := resolver.Autowire("autowire.Battery", Container{"charged": false, "maker": "Volta", "brand": "ignored"})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "Volta", battery.(Battery).Brand)
	})

	t.Run("it should fail when a nested field based class misses a value", func(t *testing.T) {
		// GIVEN
		resolver := New()
		require.NoError(t, resolver.Register((*Headlight)(nil)))
		require.NoError(t, resolver.Register(Battery{}))

		// WHEN
		headlight, err := resolver.Autowire("autowire.Headlight", Container{"lumens": 1200}, ResolveInjectedClasses(true))

		// THEN
		// charged has no default, and the nested resolution gets an empty container
		require.ErrorIs(t, err, ErrUnresolvableParameter)
		assert.Nil(t, headlight)
	})

	t.Run("it should bare construct field based classes with their defaults", func(t *testing.T) {
		// GIVEN
		resolver := New()
		type Lamp struct {
			Power int `default:"60"`
		}
		type Lantern struct {
			Lamp Lamp
		}
		require.NoError(t, resolver.Register(Lamp{}))
		require.NoError(t, resolver.Register(&Lantern{}))

		// WHEN
		lantern, err := resolver.Autowire("autowire.Lantern", nil)

		// THEN
		require.NoError(t, err)
		require.IsType(t, &Lantern{}, lantern)
		assert.Equal(t, 60, lantern.(*Lantern).Lamp.Power)
	})

	t.Run("it should fail for a struct default which cannot be converted", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(Wiper{})

		// THEN
		require.ErrorIs(t, err, ErrInvalidRegistration)
		assert.ErrorIs(t, err, ErrParameterType)
	})

	t.Run("it should refuse unsupported registrables", func(t *testing.T) {
		testCases := []struct {
			name string
			reg  Registrable
		}{
			{name: "nil", reg: nil},
			{name: "string", reg: "not a type"},
			{name: "function returning a scalar", reg: func() int { return 4 }},
			{name: "function returning three values", reg: func() (*Engine, int, error) { return nil, 0, nil }},
			{name: "function with a non error second result", reg: func() (*Engine, int) { return nil, 0 }},
			{name: "variadic function", reg: func(_ ...int) *Engine { return nil }},
			{name: "nil function", reg: (func() *Engine)(nil)},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// GIVEN
				resolver := New()

				// WHEN
				err := resolver.Register(tc.reg)

				// THEN
				assert.ErrorIs(t, err, ErrInvalidRegistration)
			})
		}
	})

	t.Run("it should refuse parameter declarations not matching the constructor", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewCar, Params(Param("wheels")))

		// THEN
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("it should refuse Params for struct registrations", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(Battery{}, Params(Param("voltage")))

		// THEN
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("it should refuse defaults not matching the parameter type", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewCar, Params(ParamWithDefault("wheels", "four"), Param("fuel"), Param("engine")))

		// THEN
		require.ErrorIs(t, err, ErrInvalidRegistration)
		assert.ErrorIs(t, err, ErrParameterType)
	})

	t.Run("it should refuse exported methods which do not exist", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewEngine, Method("Start"))

		// THEN
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("it should refuse method declarations with the wrong arity", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewCalculator, Method("Compute", Param("x"), Param("y")))

		// THEN
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("it should refuse a method declared twice", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Register(NewCalculator, Method("Compute", Param("x")), Method("Compute", Param("x")))

		// THEN
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("it should refuse registering the same type twice", func(t *testing.T) {
		// GIVEN
		resolver := New()
		require.NoError(t, resolver.Register(NewEngine))

		// WHEN
		err := resolver.Register(&Engine{}, Named("other-engine"))

		// THEN
		assert.ErrorIs(t, err, ErrDuplicateType)
	})

	t.Run("it should refuse a name already taken", func(t *testing.T) {
		// GIVEN
		resolver := New()
		require.NoError(t, resolver.Register(NewEngine, Named("part")))

		// WHEN
		err := resolver.Register(NewScreen, Named("part"))

		// THEN
		assert.ErrorIs(t, err, ErrDuplicateType)
	})

	t.Run("it should panic in MustRegister on failure", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// THEN
		assert.Panics(t, func() { resolver.MustRegister(42) })
	})
}

func TestLoad(t *testing.T) {
	t.Run("it should register the types of a registry", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Load(EmptyRegistry{}, carRegistry{})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []string{"autowire.Car", "autowire.Engine"}, resolver.Names())
	})

	t.Run("it should stop at the first failing registry", func(t *testing.T) {
		// GIVEN
		resolver := New()

		// WHEN
		err := resolver.Load(carRegistry{fail: true}, carRegistry{})

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generated registry is out of date")
		assert.Empty(t, resolver.Names())
	})
}

func TestValidate(t *testing.T) {
	t.Run("it should accept complete declarations", func(t *testing.T) {
		// GIVEN
		resolver := newCarResolver(t)

		// WHEN
		err := resolver.Validate()

		// THEN
		assert.NoError(t, err)
	})

	t.Run("it should report every problem", func(t *testing.T) {
		// GIVEN
		resolver := New()
		resolver.
			MustRegister(NewCar).
			MustRegister(NewCalculator, Method("Divide", Param("x"), Param("x")), Method("secret"))

		// WHEN
		err := resolver.Validate()

		// THEN
		require.Error(t, err)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 3)
		assert.Contains(t, err.Error(), "parameter #0 (int) has no name and no default")
		assert.Contains(t, err.Error(), `parameter "x" is declared twice`)
		assert.Contains(t, err.Error(), "autowire.Calculator.secret")
	})
}

func TestDescribe(t *testing.T) {
	t.Run("it should describe the registered types", func(t *testing.T) {
		// GIVEN
		resolver := newCalculatorResolver(t)
		resolver.MustRegister(Horn{})

		// WHEN
		description := resolver.Describe()

		// THEN
		assert.Contains(t, description, "\t- autowire.Calculator (*autowire.Calculator)\n")
		assert.Contains(t, description, "\t\taliases: github.com/a-peyrard/autowire.Calculator\n")
		assert.Contains(t, description, "\t\tconstructor: autowire.NewCalculator()\n")
		assert.Contains(t, description, "\t\t\t- Divide(x int, y int = 1)\n")
		assert.Contains(t, description, "\t\t\t- secret() (not public)\n")
		assert.Contains(t, description, "\t\tconstructor: fields(volume int)\n")
	})
}
