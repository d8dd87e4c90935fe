package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/domain"
	"github.com/tranvictor/starknetid/multicall"
	"github.com/tranvictor/starknetid/offchain"
)

// withHint appends a length prefixed hint to calldata.
func withHint(calldata []*uint256.Int, hint []*uint256.Int) []*uint256.Int {
	res := append([]*uint256.Int{}, calldata...)
	res = append(res, uint256.NewInt(uint64(len(hint))))
	return append(res, hint...)
}

func encodeName(name string) ([]*uint256.Int, error) {
	labels, err := domain.EncodeDomainStrict(name)
	if err != nil {
		return nil, err
	}
	felts, err := common.BigsToFelts(labels)
	if err != nil {
		return nil, fmt.Errorf("domain %s: %w", name, err)
	}
	return append([]*uint256.Int{uint256.NewInt(uint64(len(felts)))}, felts...), nil
}

func decodeName(res []*uint256.Int) string {
	if len(res) < 2 {
		return ""
	}
	return domain.DecodeDomain(common.FeltsToBig(res[1:]))
}

// offchainSignal returns the resolving data carried by a failed call, or nil
// when the failure is not a request for off-chain resolution.
func offchainSignal(l log.Logger, err error) *offchain.ResolvingData {
	data, extractErr := offchain.ExtractFromError(err.Error())
	if extractErr != nil {
		if !errors.Is(extractErr, offchain.ErrNoResolvingData) {
			l.Debug("Ignoring unreadable failure reason", "err", extractErr)
		}
		return nil
	}
	if !data.Offchain() {
		return nil
	}
	return data
}

// resolveOffchain asks each resolver of data in order and retries the call
// with the first hint it gets. A refusal moves on to the next resolver; an
// unreachable resolver stops the search unless ContinueOnServerFailure.
func (n *Navigator) resolveOffchain(
	ctx context.Context,
	l log.Logger,
	data *offchain.ResolvingData,
	retry func(hint []*uint256.Int) ([]*uint256.Int, error),
) ([]*uint256.Int, error) {
	var lastErr error
	for _, uri := range data.URIs {
		resp, err := n.resolver.Query(ctx, uri, data.DomainSlice)
		if err != nil {
			var serverErr *offchain.ServerError
			if !errors.As(err, &serverErr) && !n.continueOnServerFailure {
				return nil, fmt.Errorf("offchain server %s: %w", uri, err)
			}
			l.Debug("Off-chain resolver failed, trying next", "uri", uri, "err", err)
			lastErr = err
			continue
		}
		hint, err := resp.Hint()
		if err != nil {
			l.Debug("Off-chain resolver sent an unusable hint", "uri", uri, "err", err)
			lastErr = err
			continue
		}
		l.Debug("Retrying with off-chain hint", "uri", uri, "domain", data.DomainSlice)
		return retry(hint)
	}
	return nil, errors.Join(fmt.Errorf("%w for %s", ErrNoOffchainAnswer, data.DomainSlice), lastErr)
}

// GetAddressFromStarkName resolves name to an address. A name without an
// address resolves to 0x0.
func (n *Navigator) GetAddressFromStarkName(ctx context.Context, name string) (string, error) {
	l := n.requestLogger("resolve")
	naming, err := n.contract("naming", n.contracts.Naming)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolveAddress, err)
	}
	encoded, err := encodeName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolveAddress, err)
	}
	call := func(hint []*uint256.Int) ([]*uint256.Int, error) {
		return n.call(ctx, naming, "domain_to_address", withHint(encoded, hint))
	}

	l.Debug("Resolving stark name", "name", name)
	res, err := call(nil)
	if err != nil {
		data := offchainSignal(l, err)
		if data == nil {
			return "", fmt.Errorf("%w: %w", ErrResolveAddress, err)
		}
		if res, err = n.resolveOffchain(ctx, l, data, call); err != nil {
			return "", fmt.Errorf("%w: %w", ErrResolveAddress, err)
		}
	}
	if len(res) == 0 {
		return "", fmt.Errorf("%w: empty answer", ErrResolveAddress)
	}
	l.Debug("Resolved stark name", "name", name, "address", res[0].Hex())
	return res[0].Hex(), nil
}

// GetStarkName reverse resolves address. ErrStarknameNotFound means the
// call worked but the address has no name.
func (n *Navigator) GetStarkName(ctx context.Context, address string) (string, error) {
	l := n.requestLogger("name")
	addr, err := common.ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	naming, err := n.contract("naming", n.contracts.Naming)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGetStarkName, err)
	}
	call := func(hint []*uint256.Int) ([]*uint256.Int, error) {
		return n.call(ctx, naming, "address_to_domain", withHint([]*uint256.Int{addr}, hint))
	}

	res, err := call(nil)
	if err != nil {
		if data := offchainSignal(l, err); data != nil {
			res, err = n.resolveOffchain(ctx, l, data, call)
		} else {
			l.Debug("address_to_domain with hint failed, retrying legacy calldata", "err", err)
			res, err = n.call(ctx, naming, "address_to_domain", []*uint256.Int{addr})
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGetStarkName, err)
		}
	}
	name := decodeName(res)
	if name == "" {
		return "", ErrStarknameNotFound
	}
	return name, nil
}

// GetStarkNames reverse resolves every address in one aggregate call. An
// address without a name gets "". multicallContract defaults to the
// network's multicall.
func (n *Navigator) GetStarkNames(ctx context.Context, addresses []string, multicallContract string) ([]string, error) {
	l := n.requestLogger("names")
	naming, err := n.contract("naming", n.contracts.Naming)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarkName, err)
	}
	aggregator, err := n.contract("multicall", orDefault(multicallContract, n.contracts.Multicall))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarkName, err)
	}
	addrs := make([]*uint256.Int, 0, len(addresses))
	for _, a := range addresses {
		addr, err := common.ParseAddress(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		addrs = append(addrs, addr)
	}

	names := make([]string, len(addresses))
	initial, fallback := multicall.StarkNamesCalldata(addrs, naming)
	mc := multicall.NewMultiCall(n.caller, common.PadAddress(aggregator))
	for i := range initial {
		mc.RegisterWithHook(func(result []*uint256.Int) error {
			names[i] = decodeName(result)
			return nil
		}, initial[i], fallback[i])
	}
	l.Debug("Reverse resolving addresses", "count", mc.Len())
	if _, err := mc.Do(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarkName, err)
	}
	return names, nil
}

func (n *Navigator) starknetID(ctx context.Context, name string) (*uint256.Int, error) {
	naming, err := n.contract("naming", n.contracts.Naming)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarknetID, err)
	}
	encoded, err := encodeName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarknetID, err)
	}
	res, err := n.call(ctx, naming, "domain_to_id", encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetStarknetID, err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty answer", ErrGetStarknetID)
	}
	return res[0], nil
}

// GetStarknetID returns the decimal id of the identity owning name, "0"
// when nobody does.
func (n *Navigator) GetStarknetID(ctx context.Context, name string) (string, error) {
	id, err := n.starknetID(ctx, name)
	if err != nil {
		return "", err
	}
	n.requestLogger("id").Debug("Read starknet id", "name", name, "id", id.Dec())
	return id.Dec(), nil
}
