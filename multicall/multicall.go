package multicall

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/util/reader"
)

// Execute sends calls to the aggregator in a single contract call.
func Execute(
	ctx context.Context,
	caller reader.ContractCaller,
	aggregator string,
	calls []Call,
) ([][]*uint256.Int, error) {
	if err := Validate(calls); err != nil {
		return nil, err
	}
	raw, err := caller.Call(ctx, aggregator, AggregateEntrypoint, Calldata(calls))
	if err != nil {
		return nil, err
	}
	return DecodeResults(raw)
}

// ExecuteWithFallback tries initial and, if that fails for any reason,
// fallback. An error from the fallback attempt is returned as is.
func ExecuteWithFallback(
	ctx context.Context,
	caller reader.ContractCaller,
	aggregator string,
	initial, fallback []Call,
) ([][]*uint256.Int, error) {
	res, err := Execute(ctx, caller, aggregator, initial)
	if err == nil {
		return res, nil
	}
	log.Debug("Multicall failed, retrying with legacy calldata", "aggregator", aggregator, "calls", len(initial), "err", err)
	return Execute(ctx, caller, aggregator, fallback)
}

var DO_NOTHING_MC_ONE_RESULT_HANDLER MCOneResultHandler = func(result []*uint256.Int) error { return nil }

type MCOneResultHandler func(result []*uint256.Int) error

// MultipleCall collects calls, each with a legacy variant and a hook, and
// runs them in one aggregate call with fallback.
type MultipleCall struct {
	caller   reader.ContractCaller
	contract string
	initial  []Call
	fallback []Call
	hooks    []MCOneResultHandler
}

func NewMultiCall(caller reader.ContractCaller, mcContract string) *MultipleCall {
	return &MultipleCall{
		caller:   caller,
		contract: mcContract,
		initial:  []Call{},
		fallback: []Call{},
		hooks:    []MCOneResultHandler{},
	}
}

// Next is the index the next registered call will get; use it to build
// references to that call's output.
func (mc *MultipleCall) Next() int {
	return len(mc.initial)
}

func (mc *MultipleCall) Len() int {
	return len(mc.initial)
}

// RegisterWithHook adds call. The legacy variant is fallback when given and
// call itself otherwise.
func (mc *MultipleCall) RegisterWithHook(
	hook MCOneResultHandler,
	call Call,
	fallback ...Call,
) *MultipleCall {
	legacy := call
	if len(fallback) > 0 {
		legacy = fallback[0]
	}
	mc.initial = append(mc.initial, call)
	mc.fallback = append(mc.fallback, legacy)
	mc.hooks = append(mc.hooks, hook)
	return mc
}

func (mc *MultipleCall) Register(call Call, fallback ...Call) *MultipleCall {
	return mc.RegisterWithHook(DO_NOTHING_MC_ONE_RESULT_HANDLER, call, fallback...)
}

// RegisterBatch adds index aligned initial and fallback batches, as
// produced by the calldata builders.
func (mc *MultipleCall) RegisterBatch(initial, fallback []Call) (*MultipleCall, error) {
	if len(initial) != len(fallback) {
		return mc, fmt.Errorf("initial batch has %d calls but fallback has %d", len(initial), len(fallback))
	}
	for i := range initial {
		mc.Register(initial[i], fallback[i])
	}
	return mc, nil
}

// Do runs the batch and feeds every result to its hook in order.
func (mc *MultipleCall) Do(ctx context.Context) ([][]*uint256.Int, error) {
	results, err := ExecuteWithFallback(ctx, mc.caller, mc.contract, mc.initial, mc.fallback)
	if err != nil {
		return nil, fmt.Errorf("reading %s.%s failed: %w", mc.contract, AggregateEntrypoint, err)
	}
	if len(results) != len(mc.initial) {
		return nil, fmt.Errorf("%w: expected %d results, got %d", ErrMalformedResults, len(mc.initial), len(results))
	}
	for i, r := range results {
		if err := mc.hooks[i](r); err != nil {
			return nil, fmt.Errorf("handling result of call %d failed: %w", i, err)
		}
	}
	return results, nil
}
