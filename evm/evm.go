// Package evm runs bytecode on go-ethereum's interpreter for benchmarking.
// Each execution gets a fresh context: its own in-memory state with the code
// installed at a fixed address, and an effectively unlimited gas allowance.
package evm

import (
	"errors"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// GasAllowance is the gas every context starts with. It is large enough
// that benchmarked code never runs out.
const GasAllowance uint64 = math.MaxUint64

// Address is where the benchmarked code is installed.
var Address = common.HexToAddress("0x4f2045b7faefb00a230f910505db1a09c2790fc4")

// ErrUnknownOutcome is returned for an Outcome whose Kind is not one of the
// defined kinds.
var ErrUnknownOutcome = errors.New("unknown execution outcome")

// OutcomeKind is the shape of a successful execution.
type OutcomeKind int

const (
	// GasLeftKnown means the code halted without return data.
	GasLeftKnown OutcomeKind = iota + 1
	// NeedsReturn means the code halted with return data for the caller.
	NeedsReturn
)

func (k OutcomeKind) String() string {
	switch k {
	case GasLeftKnown:
		return "gas_left_known"
	case NeedsReturn:
		return "needs_return"
	default:
		return "unknown"
	}
}

// Outcome describes a successful execution.
type Outcome struct {
	Kind       OutcomeKind
	GasLeft    uint64
	ReturnData []byte
}

// RemainingGas returns the gas left for either success shape.
func (o Outcome) RemainingGas() (uint64, error) {
	switch o.Kind {
	case GasLeftKnown, NeedsReturn:
		return o.GasLeft, nil
	default:
		return 0, ErrUnknownOutcome
	}
}

// Context is everything one execution needs. It must not be executed twice.
type Context struct {
	Code    []byte
	Address common.Address
	Gas     uint64

	env *vm.EVM
}

// Engine builds and executes contexts.
type Engine interface {
	NewContext(code []byte) (*Context, error)
	Execute(ctx *Context) (Outcome, error)
}
