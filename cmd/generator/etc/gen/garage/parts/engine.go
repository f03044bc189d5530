package parts

// Engine is wired from its fields.
//
// @autowire
type Engine struct {
	Power int `default:"110"`
}

// @autowire
func newSparkPlug(_ int) *SparkPlug {
	return &SparkPlug{}
}

type SparkPlug struct{}

// @entrypoint
func (t *Turbo) Boost() {}

type Turbo struct{}
