package reader

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/networks"
)

// StarknetReader sends every call to all of its nodes and keeps the first
// answer. A deterministic contract error counts as an answer.
type StarknetReader struct {
	nodes map[string]StarknetNode
}

func NewStarknetReaderGeneric(nodes map[string]string) *StarknetReader {
	ns := map[string]StarknetNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c)
	}
	return &StarknetReader{
		nodes: ns,
	}
}

func NewStarknetReaderWithNodes(nodes ...StarknetNode) *StarknetReader {
	ns := map[string]StarknetNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &StarknetReader{
		nodes: ns,
	}
}

// NewStarknetReader reads from the default nodes of n plus the node set in
// its environment variable.
func NewStarknetReader(n networks.Network) (*StarknetReader, error) {
	nodes := networks.GetNodes(n)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("network %s has no nodes configured", n.GetName())
	}
	return NewStarknetReaderGeneric(nodes), nil
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type callResult struct {
	Felts []*uint256.Int
	Error error
	Final bool
}

func (r *StarknetReader) Call(
	ctx context.Context,
	contract, entrypoint string,
	calldata []*uint256.Int,
) ([]*uint256.Int, error) {
	if len(r.nodes) == 0 {
		return nil, fmt.Errorf("no nodes to read from")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan callResult, len(r.nodes))
	for i := range r.nodes {
		n := r.nodes[i]
		go func() {
			felts, err := n.Call(ctx, contract, entrypoint, calldata)
			var ce *ContractError
			if errors.As(err, &ce) && ce.Deterministic() {
				resCh <- callResult{Error: err, Final: true}
				return
			}
			resCh <- callResult{
				Felts: felts,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(r.nodes); i++ {
		result := <-resCh
		if result.Error == nil || result.Final {
			return result.Felts, result.Error
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

type chainIDResult struct {
	ID    string
	Error error
}

func (r *StarknetReader) ChainID(ctx context.Context) (string, error) {
	resCh := make(chan chainIDResult, len(r.nodes))
	for i := range r.nodes {
		n := r.nodes[i]
		go func() {
			id, err := n.ChainID(ctx)
			resCh <- chainIDResult{
				ID:    id,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(r.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.ID, nil
		}
		errs = append(errs, result.Error)
	}
	return "", fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}
