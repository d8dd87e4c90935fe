package navigator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
)

// Data written by an identity owner or by a verifier is stored per domain
// slot; slot 0 is the identity itself.
var mainSlot = new(uint256.Int)

// PfpData is the NFT an identity shows as its profile picture.
type PfpData struct {
	Contract *uint256.Int
	TokenID  *big.Int
}

// identityRead resolves ident then calls entrypoint on the identity
// contract with [id, field, extra..., domain slot].
func (n *Navigator) identityRead(
	ctx context.Context,
	sentinel error,
	ident Identifier,
	entrypoint string,
	field string,
	extra ...*uint256.Int,
) ([]*uint256.Int, error) {
	identity, err := n.contract("identity", n.contracts.Identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel, err)
	}
	encodedField, err := common.EncodeShortString(field)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %w", sentinel, field, err)
	}
	id, err := n.CheckArguments(ctx, ident)
	if err != nil {
		return nil, err
	}
	calldata := append([]*uint256.Int{id, encodedField}, extra...)
	calldata = append(calldata, mainSlot)

	n.requestLogger(entrypoint).Debug("Reading identity data", "id", id.Dec(), "field", field)
	res, err := n.call(ctx, identity, entrypoint, calldata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel, err)
	}
	return res, nil
}

func single(sentinel error, res []*uint256.Int) (*uint256.Int, error) {
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty answer", sentinel)
	}
	return res[0], nil
}

// array drops the length prefix of an array answer.
func array(sentinel error, res []*uint256.Int) ([]*uint256.Int, error) {
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty answer", sentinel)
	}
	return res[1:], nil
}

func (n *Navigator) verifier(verifier string) (*uint256.Int, error) {
	return n.contract("verifier", orDefault(verifier, n.contracts.Verifier))
}

// GetUserData reads a field the identity owner set. Unset fields read 0.
func (n *Navigator) GetUserData(ctx context.Context, ident Identifier, field string) (*uint256.Int, error) {
	res, err := n.identityRead(ctx, ErrGetUserData, ident, "get_user_data", field)
	if err != nil {
		return nil, err
	}
	return single(ErrGetUserData, res)
}

func (n *Navigator) GetExtendedUserData(ctx context.Context, ident Identifier, field string, length uint64) ([]*uint256.Int, error) {
	res, err := n.identityRead(ctx, ErrGetUserData, ident, "get_extended_user_data", field, uint256.NewInt(length))
	if err != nil {
		return nil, err
	}
	return array(ErrGetUserData, res)
}

func (n *Navigator) GetUnboundedUserData(ctx context.Context, ident Identifier, field string) ([]*uint256.Int, error) {
	res, err := n.identityRead(ctx, ErrGetUserData, ident, "get_unbounded_user_data", field)
	if err != nil {
		return nil, err
	}
	return array(ErrGetUserData, res)
}

// GetVerifierData reads a field attested by verifier, the network's
// verifier when empty.
func (n *Navigator) GetVerifierData(ctx context.Context, ident Identifier, field, verifier string) (*uint256.Int, error) {
	v, err := n.verifier(verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetVerifierData, err)
	}
	res, err := n.identityRead(ctx, ErrGetVerifierData, ident, "get_verifier_data", field, v)
	if err != nil {
		return nil, err
	}
	return single(ErrGetVerifierData, res)
}

func (n *Navigator) GetExtendedVerifierData(ctx context.Context, ident Identifier, field string, length uint64, verifier string) ([]*uint256.Int, error) {
	v, err := n.verifier(verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetVerifierData, err)
	}
	res, err := n.identityRead(ctx, ErrGetVerifierData, ident, "get_extended_verifier_data", field, uint256.NewInt(length), v)
	if err != nil {
		return nil, err
	}
	return array(ErrGetVerifierData, res)
}

func (n *Navigator) GetUnboundedVerifierData(ctx context.Context, ident Identifier, field, verifier string) ([]*uint256.Int, error) {
	v, err := n.verifier(verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetVerifierData, err)
	}
	res, err := n.identityRead(ctx, ErrGetVerifierData, ident, "get_unbounded_verifier_data", field, v)
	if err != nil {
		return nil, err
	}
	return array(ErrGetVerifierData, res)
}

// GetPfpVerifierData reads the profile picture NFT attested by verifier,
// the network's pfp verifier when empty. A zero Contract means none is set.
func (n *Navigator) GetPfpVerifierData(ctx context.Context, ident Identifier, verifier string) (*PfpData, error) {
	pfpVerifier := orDefault(verifier, n.contracts.PfpVerifier)
	if pfpVerifier == "" {
		return nil, fmt.Errorf("%w: no pfp verifier on %s", ErrGetVerifierData, n.network)
	}
	id, err := n.CheckArguments(ctx, ident)
	if err != nil {
		return nil, err
	}
	byID := ByID{ID: id}
	contract, err := n.GetVerifierData(ctx, byID, "nft_pp_contract", pfpVerifier)
	if err != nil {
		return nil, err
	}
	token, err := n.GetExtendedVerifierData(ctx, byID, "nft_pp_id", 2, pfpVerifier)
	if err != nil {
		return nil, err
	}
	if len(token) < 2 {
		return nil, fmt.Errorf("%w: nft_pp_id has %d felts", ErrGetVerifierData, len(token))
	}
	return &PfpData{
		Contract: contract,
		TokenID:  common.Uint256FromFelts(token[0], token[1]),
	}, nil
}
