package garage

import (
	"fmt"
	"time"

	"github.com/test/garage/parts"
)

type Car struct {
	wheels int
	fuel   string
	warmup time.Duration
	engine *parts.Engine
}

// @autowire named="car"
// NewCar builds a car
// ready to drive.
func NewCar(
	wheels int, // @default value=4
	fuel string, // @default value="Petrol"
	warmup time.Duration, // @default value=2s
	engine *parts.Engine,
) *Car {
	return &Car{wheels: wheels, fuel: fuel, warmup: warmup, engine: engine}
}

// @entrypoint
func (c *Car) Drive(
	distance int,
	eco bool, // @default value=true
) string {
	return fmt.Sprintf("drove %d km", distance)
}

func (c *Car) Honk() string {
	return "beep"
}

// @entrypoint
func (g *Garage) Open() {}

type Garage struct{}

// @autowire
func newGarage() *Garage {
	return &Garage{}
}
