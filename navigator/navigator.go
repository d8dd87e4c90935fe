// Package navigator reads starknet.id names, identities and profiles from a
// Starknet node.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/networks"
	"github.com/tranvictor/starknetid/offchain"
	"github.com/tranvictor/starknetid/profile"
	"github.com/tranvictor/starknetid/util/reader"
)

var (
	ErrResolveAddress    = errors.New("could not get address from stark name")
	ErrGetStarkName      = errors.New("could not get stark name")
	ErrStarknameNotFound = errors.New("starkname not found")
	ErrGetStarknetID     = errors.New("could not get starknet id from starkname")
	ErrGetUserData       = errors.New("could not get user data from starknet id")
	ErrGetVerifierData   = errors.New("could not get user verifier data from starknet id")
	ErrGetProfileData    = errors.New("could not get profile data")
	ErrInvalidIdentifier = errors.New("invalid idDomainOrAddr argument")
	ErrInvalidAddress    = errors.New("invalid starknet address")
	ErrNoOffchainAnswer  = errors.New("no off-chain resolver answered")
)

// Config selects the network and overrides its defaults. Only Network is
// needed for the built-in networks.
type Config struct {
	// Network defaults to SN_MAIN.
	Network networks.NetworkID
	// Contracts overrides the built-in table field by field.
	Contracts *networks.Contracts
	// HTTPClient serves off-chain resolvers and pfp metadata.
	HTTPClient   *http.Client
	IdenticonURL string
	IPFSGateway  string
	// ContinueOnServerFailure makes an unreachable off-chain resolver count
	// as a refusal, so the next one is tried.
	ContinueOnServerFailure bool
}

type Navigator struct {
	caller    reader.ContractCaller
	network   networks.NetworkID
	contracts networks.Contracts

	resolver                *offchain.Client
	images                  *profile.ImageResolver
	continueOnServerFailure bool

	l log.Logger
}

func New(caller reader.ContractCaller, cfg Config) (*Navigator, error) {
	if caller == nil {
		return nil, fmt.Errorf("navigator needs a contract caller")
	}
	network := cfg.Network
	if network == "" {
		network = networks.SNMain
	}
	contracts, err := networks.DefaultContracts(network)
	if err != nil && cfg.Contracts == nil {
		return nil, err
	}
	if cfg.Contracts != nil {
		contracts = contracts.Merge(*cfg.Contracts)
	}
	return &Navigator{
		caller:                  caller,
		network:                 network,
		contracts:               contracts,
		resolver:                offchain.NewClient(cfg.HTTPClient),
		images:                  profile.NewImageResolver(cfg.HTTPClient, cfg.IPFSGateway, cfg.IdenticonURL),
		continueOnServerFailure: cfg.ContinueOnServerFailure,
		l:                       log.New("module", "starknetid", "network", network.String()),
	}, nil
}

func (n *Navigator) Network() networks.NetworkID {
	return n.network
}

func (n *Navigator) Contracts() networks.Contracts {
	return n.contracts
}

// requestLogger tags every line of one operation with the same id.
func (n *Navigator) requestLogger(op string) log.Logger {
	return n.l.With("op", op, "request", uuid.NewString())
}

// contract returns the configured address of a contract, failing when the
// network has none.
func (n *Navigator) contract(name, value string) (*uint256.Int, error) {
	addr, err := networks.Require(name, value)
	if err != nil {
		return nil, err
	}
	f, err := common.ParseAddress(addr)
	if err != nil {
		return nil, fmt.Errorf("%s contract: %w", name, err)
	}
	return f, nil
}

// orDefault picks override when set.
func orDefault(override, value string) string {
	if override != "" {
		return override
	}
	return value
}

func (n *Navigator) call(
	ctx context.Context,
	contract *uint256.Int,
	entrypoint string,
	calldata []*uint256.Int,
) ([]*uint256.Int, error) {
	return n.caller.Call(ctx, common.PadAddress(contract), entrypoint, calldata)
}
