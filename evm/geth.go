package evm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"
)

var errContextUsed = errors.New("context already executed or not built by this engine")

// Geth executes contexts on go-ethereum's EVM with every fork up to the
// latest active at block zero.
type Geth struct {
	chainConfig *params.ChainConfig
	vmConfig    vm.Config
	stateDB     state.Database
}

// NewGeth creates an engine backed by an in-memory database. Nothing is
// ever committed to it, so contexts never see each other's state.
func NewGeth() *Geth {
	db := rawdb.NewMemoryDatabase()
	tdb := triedb.NewDatabase(db, triedb.HashDefaults)

	return &Geth{
		chainConfig: params.MergedTestChainConfig,
		stateDB:     state.NewDatabase(tdb, nil),
	}
}

// NewContext prepares a fresh EVM with code installed at Address.
func (g *Geth) NewContext(code []byte) (*Context, error) {
	statedb, err := state.New(types.EmptyRootHash, g.stateDB)
	if err != nil {
		return nil, fmt.Errorf("create statedb: %w", err)
	}

	statedb.CreateAccount(Address)
	statedb.SetCode(Address, code, tracing.CodeChangeUnspecified)

	cfg := &runtime.Config{
		ChainConfig: g.chainConfig,
		Difficulty:  new(big.Int),
		BlockNumber: new(big.Int),
		GasLimit:    GasAllowance,
		GasPrice:    new(big.Int),
		Value:       new(big.Int),
		BaseFee:     big.NewInt(params.InitialBaseFee),
		BlobBaseFee: big.NewInt(1),
		Random:      &common.Hash{},
		State:       statedb,
		GetHashFn:   func(uint64) common.Hash { return common.Hash{} },
		EVMConfig:   g.vmConfig,
	}

	env := runtime.NewEnv(cfg)

	rules := cfg.ChainConfig.Rules(cfg.BlockNumber, cfg.Random != nil, cfg.Time)
	statedb.Prepare(
		rules, cfg.Origin, cfg.Coinbase, &Address,
		vm.ActivePrecompiles(rules), nil,
	)

	return &Context{
		Code:    code,
		Address: Address,
		Gas:     GasAllowance,
		env:     env,
	}, nil
}

// Execute calls the code with no input and zero value. A revert or any
// other EVM error is returned as an error.
func (g *Geth) Execute(ctx *Context) (Outcome, error) {
	env := ctx.env
	if env == nil {
		return Outcome{}, errContextUsed
	}
	ctx.env = nil

	ret, gasLeft, err := env.Call(
		common.Address{}, ctx.Address, nil, ctx.Gas, new(uint256.Int),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("evm call: %w", err)
	}

	if len(ret) > 0 {
		return Outcome{Kind: NeedsReturn, GasLeft: gasLeft, ReturnData: ret}, nil
	}

	return Outcome{Kind: GasLeftKnown, GasLeft: gasLeft}, nil
}
