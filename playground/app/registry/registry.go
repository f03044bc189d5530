package registry

import "github.com/a-peyrard/autowire"

//go:generate go run github.com/a-peyrard/autowire/cmd/generator

type Registry struct {
	autowire.EmptyRegistry
}
