package garage

import (
	"fmt"
	"time"
)

// Engine is wired from its fields.
//
// @autowire
type Engine struct {
	Power  int           `default:"110"`
	Warmup time.Duration `default:"1s"`
}

type Car struct {
	Brand  string
	Wheels int
	Engine *Engine
}

// NewCar assembles a car around its engine.
//
// @autowire named="car"
func NewCar(
	brand string, // @default value="Roadster"
	wheels int, // @default value=4
	engine *Engine,
) (*Car, error) {
	if wheels <= 0 {
		return nil, fmt.Errorf("a car needs wheels, got %d", wheels)
	}
	return &Car{Brand: brand, Wheels: wheels, Engine: engine}, nil
}

// Drive is the entry point of the playground.
//
// @entrypoint
func (c *Car) Drive(
	distance int, // @default value=10
) string {
	return fmt.Sprintf("%s drove %d km on %d wheels with %d hp", c.Brand, distance, c.Wheels, c.Engine.Power)
}
