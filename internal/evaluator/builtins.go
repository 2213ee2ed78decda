package evaluator

import (
	"lox/internal/object"
	"time"
)

// natives are defined in the global environment of every Evaluator.
var natives = map[string]*object.Native{
	"clock": fnTimeClock(),
}

// fnTimeClock returns the wall clock in milliseconds since the Unix epoch.
func fnTimeClock() *object.Native {
	return &object.Native{
		Name:   "clock",
		Params: 0,
		Fn: func(_ object.EvaluatorContext, _ []object.Object) (object.Object, error) {
			return &object.Number{Value: float64(time.Now().UnixMilli())}, nil
		},
	}
}
