// Package profile turns composable multicall outputs into StarkProfiles.
package profile

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/domain"
	"github.com/tranvictor/starknetid/multicall"
)

// StarkProfile is the public face of an address. Absent fields are nil.
type StarkProfile struct {
	Name              *string `json:"name,omitempty"`
	ProfilePicture    *string `json:"profilePicture,omitempty"`
	Discord           *string `json:"discord,omitempty"`
	Twitter           *string `json:"twitter,omitempty"`
	Github            *string `json:"github,omitempty"`
	ProofOfPersonhood bool    `json:"proofOfPersonhood"`
}

// Positions of the single profile batch built by
// multicall.ProfileDataCalldata.
const (
	idxDomain = iota
	idxID
	idxTwitter
	idxGithub
	idxDiscord
	idxPop
	idxPfpContract
	idxPfpID
	idxTokenURI
)

var ErrMalformedProfile = errors.New("malformed profile results")

// Decoded is a profile whose picture is not resolved yet.
type Decoded struct {
	Profile StarkProfile
	ID      *uint256.Int

	PfpContract  *uint256.Int
	PfpTokenLow  *uint256.Int
	PfpTokenHigh *uint256.Int
	// Metadata is the tokenURI of the pfp, empty when the call was skipped.
	Metadata string
	// Blobbert is set when the pfp belongs to the collection whose tokenURI
	// is excluded from bulk batches.
	Blobbert bool
}

// HasPfp reports whether a pfp contract is set.
func (d *Decoded) HasPfp() bool {
	return d.PfpContract != nil && !d.PfpContract.IsZero()
}

func str(s string) *string {
	return &s
}

func first(r []*uint256.Int) *uint256.Int {
	if len(r) == 0 {
		return new(uint256.Int)
	}
	return r[0]
}

// decodeName drops the length prefix of an address_to_domain output.
func decodeName(r []*uint256.Int) *string {
	if len(r) < 2 {
		return nil
	}
	name := domain.DecodeDomain(common.FeltsToBig(r[1:]))
	if name == "" {
		return nil
	}
	return &name
}

func verifierValue(r []*uint256.Int) *string {
	v := first(r)
	if v.IsZero() {
		return nil
	}
	return str(v.Dec())
}

func tokenID(r []*uint256.Int) (low, high *uint256.Int) {
	// output of get_extended_verifier_data: [length, low, high]
	if len(r) < 3 {
		return new(uint256.Int), new(uint256.Int)
	}
	return r[1], r[2]
}

// DecodeTokenURI joins the short string chunks of a tokenURI output after
// its length prefix.
func DecodeTokenURI(r []*uint256.Int) string {
	if len(r) < 2 {
		return ""
	}
	return common.DecodeShortStrings(r[1:])
}

// DecodeProfile reads the output of a single profile batch.
func DecodeProfile(results [][]*uint256.Int) (*Decoded, error) {
	if len(results) < idxPfpID+1 {
		return nil, fmt.Errorf("%w: expected at least %d results, got %d", ErrMalformedProfile, idxPfpID+1, len(results))
	}
	res := &Decoded{
		ID:          first(results[idxID]),
		PfpContract: first(results[idxPfpContract]),
	}
	res.Profile.Name = decodeName(results[idxDomain])
	res.Profile.Twitter = verifierValue(results[idxTwitter])
	res.Profile.Github = verifierValue(results[idxGithub])
	res.Profile.Discord = verifierValue(results[idxDiscord])
	res.Profile.ProofOfPersonhood = first(results[idxPop]).Eq(uint256.NewInt(1))
	res.PfpTokenLow, res.PfpTokenHigh = tokenID(results[idxPfpID])
	if len(results) > idxTokenURI {
		res.Metadata = DecodeTokenURI(results[idxTokenURI])
	}
	return res, nil
}

// DecodeProfiles reads the output of a bulk batch for count addresses.
// Only names and pictures are filled.
func DecodeProfiles(results [][]*uint256.Int, count int) ([]*Decoded, error) {
	want := count*multicall.InstructionsPerProfile + count
	if len(results) != want {
		return nil, fmt.Errorf("%w: expected %d results for %d addresses, got %d", ErrMalformedProfile, want, count, len(results))
	}
	res := make([]*Decoded, 0, count)
	for i := 0; i < count; i++ {
		block := results[i*multicall.InstructionsPerProfile : (i+1)*multicall.InstructionsPerProfile]
		d := &Decoded{
			ID:          first(block[1]),
			PfpContract: first(block[2]),
		}
		d.Profile.Name = decodeName(block[0])
		d.PfpTokenLow, d.PfpTokenHigh = tokenID(block[3])
		d.Blobbert = d.HasPfp() && first(block[4]).IsZero()
		d.Metadata = DecodeTokenURI(results[count*multicall.InstructionsPerProfile+i])
		res = append(res, d)
	}
	return res, nil
}
