// Package workload reads benchmark requests and generates deterministic
// bytecode to benchmark.
package workload

import (
	mrand "math/rand"
)

const (
	opStop  = 0x00
	opPop   = 0x50
	opPush1 = 0x60
	opPush2 = 0x61
)

// binaryOps are opcodes that pop two words and push one.
var binaryOps = map[string][]byte{
	"arith": {
		0x01, // ADD
		0x02, // MUL
		0x03, // SUB
		0x04, // DIV
		0x05, // SDIV
		0x06, // MOD
		0x07, // SMOD
		0x0a, // EXP
		0x0b, // SIGNEXTEND
	},
	"compare": {
		0x10, // LT
		0x11, // GT
		0x12, // SLT
		0x13, // SGT
		0x14, // EQ
	},
	"bitwise": {
		0x16, // AND
		0x17, // OR
		0x18, // XOR
		0x1a, // BYTE
		0x1b, // SHL
		0x1c, // SHR
		0x1d, // SAR
	},
}

// Mixes returns the names of the opcode mixes Generate accepts, plus "all".
func Mixes() []string {
	return []string{"all", "arith", "compare", "bitwise"}
}

// Summary contains statistics about the generated code.
type Summary struct {
	Operations int
	CodeSize   int
	Opcodes    map[byte]int
}

// Config controls code generation.
type Config struct {
	Operations int
	Mix        string
	Seed       int64
	Iterations uint64
	// Wide uses PUSH2 operands instead of PUSH1.
	Wide bool
}

// Generator produces deterministic bytecode from a Config. Every program
// it emits runs to STOP without error.
type Generator struct {
	cfg Config
	ops []byte
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config. An unknown mix
// falls back to "all".
func NewGenerator(cfg Config) *Generator {
	ops, ok := binaryOps[cfg.Mix]
	if !ok {
		for _, name := range []string{"arith", "compare", "bitwise"} {
			ops = append(ops, binaryOps[name]...)
		}
	}

	return &Generator{
		cfg: cfg,
		ops: ops,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Generate returns a request for the generated code and a Summary.
func (g *Generator) Generate() (Request, Summary) {
	summary := Summary{Opcodes: make(map[byte]int)}

	operandSize := 1
	if g.cfg.Wide {
		operandSize = 2
	}

	// Each operation is two pushes, the opcode and a POP.
	code := make([]byte, 0, g.cfg.Operations*(2*(1+operandSize)+2)+1)

	for i := 0; i < g.cfg.Operations; i++ {
		code = g.appendPush(code)
		code = g.appendPush(code)

		op := g.ops[g.rng.Intn(len(g.ops))]
		code = append(code, op, opPop)

		summary.Opcodes[op]++
		summary.Operations++
	}

	code = append(code, opStop)
	summary.CodeSize = len(code)

	return Request{Code: code, Iterations: g.cfg.Iterations}, summary
}

func (g *Generator) appendPush(code []byte) []byte {
	if g.cfg.Wide {
		var buf [2]byte
		g.rng.Read(buf[:])

		return append(code, opPush2, buf[0], buf[1])
	}

	return append(code, opPush1, byte(g.rng.Intn(256)))
}
