// Package multicall builds batches for the composable multicall contract.
//
// Each call in a batch may read its target, selector or arguments from the
// output of an earlier call in the same batch, and may be skipped depending
// on such an output. The aggregator answers with one felt array per call.
package multicall

import (
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
)

const AggregateEntrypoint = "aggregate"

// Execution decides whether a call runs.
type Execution interface {
	encode() []*uint256.Int
	dependency() (call int, pos int, ok bool)
}

// Static always runs.
type Static struct{}

// IfEqual runs when felt Pos of call Call's output equals Value.
type IfEqual struct {
	Call  int
	Pos   int
	Value *uint256.Int
}

// IfNotEqual runs when felt Pos of call Call's output differs from Value.
type IfNotEqual struct {
	Call  int
	Pos   int
	Value *uint256.Int
}

// DynamicFelt is one calldata slot.
type DynamicFelt interface {
	encode() []*uint256.Int
	dependency() (call int, pos int, ok bool)
}

type Hardcoded struct {
	Value *uint256.Int
}

// Reference is felt Pos of call Call's output.
type Reference struct {
	Call int
	Pos  int
}

// ArrayReference expands to the array whose length sits at felt Pos of call
// Call's output, length prefix included.
type ArrayReference struct {
	Call int
	Pos  int
}

type Call struct {
	Execution Execution
	To        DynamicFelt
	Selector  DynamicFelt
	Calldata  []DynamicFelt
}

const (
	executionStatic uint64 = iota
	executionIfEqual
	executionIfNotEqual
)

const (
	feltHardcoded uint64 = iota
	feltReference
	feltArrayReference
)

func u(v int) *uint256.Int {
	return uint256.NewInt(uint64(v))
}

func (Static) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(executionStatic)}
}

func (Static) dependency() (int, int, bool) {
	return 0, 0, false
}

func (e IfEqual) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(executionIfEqual), u(e.Call), u(e.Pos), e.Value}
}

func (e IfEqual) dependency() (int, int, bool) {
	return e.Call, e.Pos, true
}

func (e IfNotEqual) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(executionIfNotEqual), u(e.Call), u(e.Pos), e.Value}
}

func (e IfNotEqual) dependency() (int, int, bool) {
	return e.Call, e.Pos, true
}

func (h Hardcoded) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(feltHardcoded), h.Value}
}

func (Hardcoded) dependency() (int, int, bool) {
	return 0, 0, false
}

func (r Reference) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(feltReference), u(r.Call), u(r.Pos)}
}

func (r Reference) dependency() (int, int, bool) {
	return r.Call, r.Pos, true
}

func (r ArrayReference) encode() []*uint256.Int {
	return []*uint256.Int{uint256.NewInt(feltArrayReference), u(r.Call), u(r.Pos)}
}

func (r ArrayReference) dependency() (int, int, bool) {
	return r.Call, r.Pos, true
}

func Hardcode(v *uint256.Int) Hardcoded {
	return Hardcoded{Value: v}
}

func HardcodeUint(v uint64) Hardcoded {
	return Hardcoded{Value: uint256.NewInt(v)}
}

// HardcodeShortString panics when s is not a valid short string, so only
// use it with constants.
func HardcodeShortString(s string) Hardcoded {
	return Hardcoded{Value: common.MustEncodeShortString(s)}
}

func HardcodeSelector(entrypoint string) Hardcoded {
	return Hardcoded{Value: common.GetSelectorFromName(entrypoint)}
}

func Ref(call, pos int) Reference {
	return Reference{Call: call, Pos: pos}
}

func ArrayRef(call, pos int) ArrayReference {
	return ArrayReference{Call: call, Pos: pos}
}

func NotEqual(call, pos int, value uint64) IfNotEqual {
	return IfNotEqual{Call: call, Pos: pos, Value: uint256.NewInt(value)}
}

func Equal(call, pos int, value uint64) IfEqual {
	return IfEqual{Call: call, Pos: pos, Value: uint256.NewInt(value)}
}

// StaticCall calls entrypoint of a fixed contract.
func StaticCall(to *uint256.Int, entrypoint string, calldata ...DynamicFelt) Call {
	if calldata == nil {
		calldata = []DynamicFelt{}
	}
	return Call{
		Execution: Static{},
		To:        Hardcode(to),
		Selector:  HardcodeSelector(entrypoint),
		Calldata:  calldata,
	}
}
