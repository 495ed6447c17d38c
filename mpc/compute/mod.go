package compute

import (
	"encoding/json"
	"sync"

	"github.com/finvault/mpcx/types"
)

// Func is one computation kind: a pure function over the decrypted input.
// Validation failures are reported inside the Outcome so they travel back
// to the initiator like any other result.
type Func func(input json.RawMessage) types.Outcome

// Registry maps computation kinds to their functions. New kinds register a
// Func of the same shape; the request lifecycle never changes for them.
type Registry struct {
	*sync.RWMutex

	funcs map[string]Func
}

// NewRegistry creates a registry holding the built-in computations.
func NewRegistry() *Registry {
	r := Registry{
		RWMutex: &sync.RWMutex{},
		funcs:   make(map[string]Func),
	}

	r.Register(types.ComputationSum, secureSum)
	r.Register(types.ComputationAverage, secureAverage)
	r.Register(types.ComputationComparison, secureComparison)

	return &r
}

// Register binds a computation kind to its function, replacing any
// previous binding.
func (r *Registry) Register(computationType string, fn Func) {
	r.Lock()
	defer r.Unlock()
	r.funcs[computationType] = fn
}

// Dispatch runs the function registered for the kind over the input.
// Fails with types.UnsupportedComputationError for an unknown kind.
func (r *Registry) Dispatch(computationType string, input json.RawMessage) (types.Outcome, error) {
	r.RLock()
	fn, ok := r.funcs[computationType]
	r.RUnlock()

	if !ok {
		return types.Outcome{}, &types.UnsupportedComputationError{
			ComputationType: computationType,
		}
	}
	return fn(input), nil
}

/** Built-in computations **/

const errNotArray = "Data must be an array"
const errMissingOperands = "Data must contain values a and b"

// numberSlice decodes the input as a sequence of numbers.
func numberSlice(input json.RawMessage) ([]float64, bool) {
	var raw interface{}
	if err := json.Unmarshal(input, &raw); err != nil {
		return nil, false
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}

	numbers := make([]float64, 0, len(items))
	for _, item := range items {
		n, ok := item.(float64)
		if !ok {
			return nil, false
		}
		numbers = append(numbers, n)
	}
	return numbers, true
}

func secureSum(input json.RawMessage) types.Outcome {
	numbers, ok := numberSlice(input)
	if !ok {
		return types.Outcome{Error: errNotArray}
	}

	sum := float64(0)
	for _, n := range numbers {
		sum += n
	}
	return types.Outcome{Result: sum}
}

func secureAverage(input json.RawMessage) types.Outcome {
	numbers, ok := numberSlice(input)
	if !ok {
		return types.Outcome{Error: errNotArray}
	}

	// empty sequence averages to 0, by explicit branch
	if len(numbers) == 0 {
		return types.Outcome{Result: float64(0)}
	}

	sum := float64(0)
	for _, n := range numbers {
		sum += n
	}
	return types.Outcome{Result: sum / float64(len(numbers))}
}

func secureComparison(input json.RawMessage) types.Outcome {
	var operands struct {
		A *float64 `json:"a"`
		B *float64 `json:"b"`
	}
	if err := json.Unmarshal(input, &operands); err != nil {
		return types.Outcome{Error: errMissingOperands}
	}
	if operands.A == nil || operands.B == nil {
		return types.Outcome{Error: errMissingOperands}
	}

	switch {
	case *operands.A > *operands.B:
		return types.Outcome{Result: "greater"}
	case *operands.A < *operands.B:
		return types.Outcome{Result: "less"}
	default:
		return types.Outcome{Result: "equal"}
	}
}
