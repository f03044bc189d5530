package autowire

import (
	"strings"
)

// Tracker records the chain of types being autowired, for logs and error reports.
//
// It does not detect cycles: a type requiring itself recurses until the stack is exhausted.
type Tracker struct {
	stack []string
}

func NewTracker() *Tracker {
	return &Tracker{stack: make([]string, 0, 4)}
}

func (tracker *Tracker) Push(name string) {
	tracker.stack = append(tracker.stack, name)
}

func (tracker *Tracker) Pop() string {
	if len(tracker.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	name := tracker.stack[len(tracker.stack)-1]
	tracker.stack = tracker.stack[:len(tracker.stack)-1]

	return name
}

func (tracker *Tracker) Depth() int {
	return len(tracker.stack)
}

// Path returns a copy of the current chain, outermost type first.
func (tracker *Tracker) Path() []string {
	path := make([]string, len(tracker.stack))
	copy(path, tracker.stack)
	return path
}

func (tracker *Tracker) String() string {
	return strings.Join(tracker.stack, " -> ")
}
