// Package multicalltest executes composable multicall batches against a
// readertest node, the way the on-chain aggregator does.
package multicalltest

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/multicall"
	"github.com/tranvictor/starknetid/util/reader/readertest"
)

// Install deploys an aggregator at address on node.
func Install(node *readertest.Node, address string) {
	node.Handle(address, multicall.AggregateEntrypoint, func(calldata []*uint256.Int) ([]*uint256.Int, error) {
		return Aggregate(node, calldata)
	})
}

// Aggregate runs the batch serialized in calldata. A skipped call produces
// an empty output. Any failing call fails the whole batch.
func Aggregate(node *readertest.Node, calldata []*uint256.Int) ([]*uint256.Int, error) {
	calls, err := multicall.ParseCalldata(calldata)
	if err != nil {
		return nil, readertest.Revert(err.Error())
	}
	if err := multicall.Validate(calls); err != nil {
		return nil, readertest.Revert(err.Error())
	}
	outputs := make([][]*uint256.Int, 0, len(calls))
	for i, c := range calls {
		run, err := shouldRun(c.Execution, outputs)
		if err != nil {
			return nil, readertest.Revert(fmt.Sprintf("call %d: %s", i, err))
		}
		if !run {
			outputs = append(outputs, []*uint256.Int{})
			continue
		}
		to, err := single(c.To, outputs)
		if err != nil {
			return nil, readertest.Revert(fmt.Sprintf("call %d target: %s", i, err))
		}
		selector, err := single(c.Selector, outputs)
		if err != nil {
			return nil, readertest.Revert(fmt.Sprintf("call %d selector: %s", i, err))
		}
		args := []*uint256.Int{}
		for _, d := range c.Calldata {
			expanded, err := expand(d, outputs)
			if err != nil {
				return nil, readertest.Revert(fmt.Sprintf("call %d calldata: %s", i, err))
			}
			args = append(args, expanded...)
		}
		out, err := node.Dispatch(to, selector, args)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	res := []*uint256.Int{uint256.NewInt(uint64(len(outputs)))}
	for _, out := range outputs {
		res = append(res, uint256.NewInt(uint64(len(out))))
		res = append(res, out...)
	}
	return res, nil
}

func at(outputs [][]*uint256.Int, call, pos int) (*uint256.Int, error) {
	if call >= len(outputs) || pos >= len(outputs[call]) {
		return nil, fmt.Errorf("index out of bounds: output %d position %d", call, pos)
	}
	return outputs[call][pos], nil
}

func shouldRun(e multicall.Execution, outputs [][]*uint256.Int) (bool, error) {
	switch e := e.(type) {
	case multicall.Static:
		return true, nil
	case multicall.IfEqual:
		v, err := at(outputs, e.Call, e.Pos)
		if err != nil {
			return false, err
		}
		return v.Eq(e.Value), nil
	case multicall.IfNotEqual:
		v, err := at(outputs, e.Call, e.Pos)
		if err != nil {
			return false, err
		}
		return !v.Eq(e.Value), nil
	}
	return false, fmt.Errorf("unknown execution %T", e)
}

func single(d multicall.DynamicFelt, outputs [][]*uint256.Int) (*uint256.Int, error) {
	expanded, err := expand(d, outputs)
	if err != nil {
		return nil, err
	}
	if len(expanded) != 1 {
		return nil, fmt.Errorf("expected a single felt, got %d", len(expanded))
	}
	return expanded[0], nil
}

func expand(d multicall.DynamicFelt, outputs [][]*uint256.Int) ([]*uint256.Int, error) {
	switch d := d.(type) {
	case multicall.Hardcoded:
		return []*uint256.Int{d.Value}, nil
	case multicall.Reference:
		v, err := at(outputs, d.Call, d.Pos)
		if err != nil {
			return nil, err
		}
		return []*uint256.Int{v}, nil
	case multicall.ArrayReference:
		size, err := at(outputs, d.Call, d.Pos)
		if err != nil {
			return nil, err
		}
		available := uint64(len(outputs[d.Call]) - d.Pos - 1)
		if !size.IsUint64() || size.Uint64() > available {
			return nil, fmt.Errorf("array at output %d position %d overflows", d.Call, d.Pos)
		}
		return outputs[d.Call][d.Pos : d.Pos+1+int(size.Uint64())], nil
	}
	return nil, fmt.Errorf("unknown felt %T", d)
}
