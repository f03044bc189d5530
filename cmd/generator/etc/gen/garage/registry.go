package garage

import aw "github.com/a-peyrard/autowire"

//go:generate go run github.com/a-peyrard/autowire/cmd/generator

type Registry struct {
	aw.EmptyRegistry
}

type NotARegistry struct {
	Name string
}
