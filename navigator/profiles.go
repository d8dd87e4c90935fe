package navigator

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/multicall"
	"github.com/tranvictor/starknetid/profile"
)

// ProfileOptions overrides the verifiers a profile is read from. Empty
// verifiers default to the network's.
type ProfileOptions struct {
	UseDefaultPfp bool
	Verifier      string
	PfpVerifier   string
	PopVerifier   string
}

// GetProfileData reads the full profile of address in one aggregate call.
func (n *Navigator) GetProfileData(ctx context.Context, address string, opts ProfileOptions) (*profile.StarkProfile, error) {
	l := n.requestLogger("profile")
	addr, err := common.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	contracts := multicall.ProfileContracts{}
	targets := []struct {
		name  string
		value string
		dst   **uint256.Int
	}{
		{"naming", n.contracts.Naming, &contracts.Naming},
		{"identity", n.contracts.Identity, &contracts.Identity},
		{"verifier", orDefault(opts.Verifier, n.contracts.Verifier), &contracts.Verifier},
		{"pfp verifier", orDefault(opts.PfpVerifier, n.contracts.PfpVerifier), &contracts.PfpVerifier},
		{"pop verifier", orDefault(opts.PopVerifier, n.contracts.PopVerifier), &contracts.PopVerifier},
	}
	for _, t := range targets {
		if *t.dst, err = n.contract(t.name, t.value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
		}
	}
	aggregator, err := n.contract("multicall", n.contracts.Multicall)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}

	initial, fallback := multicall.ProfileDataCalldata(addr, contracts)
	results, err := multicall.ExecuteWithFallback(ctx, n.caller, common.PadAddress(aggregator), initial, fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}
	decoded, err := profile.DecodeProfile(results)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}
	if decoded.Profile.ProfilePicture, err = n.picture(ctx, decoded, opts.UseDefaultPfp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}
	l.Debug("Read profile", "address", address, "id", decoded.ID.Dec())
	return &decoded.Profile, nil
}

// GetStarkProfiles reads names and pictures of many addresses in one
// aggregate call. Pictures from the blobbert collection are read one by
// one since their tokenURI cannot run inside the batch.
func (n *Navigator) GetStarkProfiles(ctx context.Context, addresses []string, useDefaultPfp bool, pfpVerifier string) ([]*profile.StarkProfile, error) {
	l := n.requestLogger("profiles")
	if len(addresses) == 0 {
		return []*profile.StarkProfile{}, nil
	}
	addrs := make([]*uint256.Int, 0, len(addresses))
	for _, a := range addresses {
		addr, err := common.ParseAddress(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		addrs = append(addrs, addr)
	}
	contracts := multicall.ProfilesContracts{Blobbert: new(uint256.Int)}
	targets := []struct {
		name  string
		value string
		dst   **uint256.Int
	}{
		{"naming", n.contracts.Naming, &contracts.Naming},
		{"identity", n.contracts.Identity, &contracts.Identity},
		{"pfp verifier", orDefault(pfpVerifier, n.contracts.PfpVerifier), &contracts.PfpVerifier},
		{"utils multicall", n.contracts.UtilsMulticall, &contracts.UtilsMulticall},
	}
	var err error
	for _, t := range targets {
		if *t.dst, err = n.contract(t.name, t.value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
		}
	}
	if n.contracts.Blobbert != "" {
		if contracts.Blobbert, err = n.contract("blobbert", n.contracts.Blobbert); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
		}
	}
	aggregator, err := n.contract("multicall", n.contracts.Multicall)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}

	initial, fallback := multicall.StarkProfilesCalldata(addrs, contracts)
	results, err := multicall.ExecuteWithFallback(ctx, n.caller, common.PadAddress(aggregator), initial, fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}
	decoded, err := profile.DecodeProfiles(results, len(addrs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
	}

	res := make([]*profile.StarkProfile, 0, len(decoded))
	for i, d := range decoded {
		if d.Blobbert {
			if d.Metadata, err = n.blobbertURI(ctx, d); err != nil {
				l.Debug("Could not read blobbert tokenURI", "address", addresses[i], "err", err)
			}
		}
		if d.Profile.ProfilePicture, err = n.picture(ctx, d, useDefaultPfp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGetProfileData, err)
		}
		res = append(res, &d.Profile)
	}
	l.Debug("Read profiles", "count", len(res))
	return res, nil
}

// blobbertURI calls tokenURI directly; the collection answers with a Cairo
// ByteArray.
func (n *Navigator) blobbertURI(ctx context.Context, d *profile.Decoded) (string, error) {
	res, err := n.call(ctx, d.PfpContract, "tokenURI", []*uint256.Int{d.PfpTokenLow, d.PfpTokenHigh})
	if err != nil {
		return "", err
	}
	return common.DecodeByteArray(res)
}

func (n *Navigator) picture(ctx context.Context, d *profile.Decoded, useDefault bool) (*string, error) {
	return n.images.Picture(ctx, d, useDefault)
}
