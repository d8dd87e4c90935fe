package multicall

import (
	"github.com/holiman/uint256"
)

// Instructions emitted per address by StarkProfilesCalldata, before the
// conditional tokenURI calls.
const InstructionsPerProfile = 5

// ProfileContracts are the contracts read when assembling one full profile.
type ProfileContracts struct {
	Naming      *uint256.Int
	Identity    *uint256.Int
	Verifier    *uint256.Int
	PfpVerifier *uint256.Int
	PopVerifier *uint256.Int
}

// ProfilesContracts are the contracts read when assembling bulk profiles.
type ProfilesContracts struct {
	Naming         *uint256.Int
	Identity       *uint256.Int
	PfpVerifier    *uint256.Int
	UtilsMulticall *uint256.Int
	Blobbert       *uint256.Int
}

// The enhanced naming contract takes a hint array after the address; the
// legacy one only takes the address.
func addressToDomain(naming, address *uint256.Int) (initial, fallback Call) {
	initial = StaticCall(naming, "address_to_domain", Hardcode(address), HardcodeUint(0))
	fallback = StaticCall(naming, "address_to_domain", Hardcode(address))
	return initial, fallback
}

// StarkNamesCalldata reverse resolves every address; result i holds the
// encoded domain of address i.
func StarkNamesCalldata(addresses []*uint256.Int, naming *uint256.Int) (initial, fallback []Call) {
	initial = make([]Call, 0, len(addresses))
	fallback = make([]Call, 0, len(addresses))
	for _, a := range addresses {
		i, f := addressToDomain(naming, a)
		initial = append(initial, i)
		fallback = append(fallback, f)
	}
	return initial, fallback
}

// StarkProfilesCalldata emits InstructionsPerProfile calls per address,
// then one tokenURI call per address which only runs when the pfp is not a
// blobbert:
//
//	0 address_to_domain(address)
//	1 domain_to_id(domain)
//	2 pfp contract from the pfp verifier
//	3 pfp token id (u256) from the pfp verifier
//	4 utils multicall not_zero_and_not_y(pfp contract, blobbert)
func StarkProfilesCalldata(addresses []*uint256.Int, c ProfilesContracts) (initial, fallback []Call) {
	n := len(addresses)
	calls := make([]Call, 0, n*InstructionsPerProfile)
	legacy := make([]Call, 0, n*InstructionsPerProfile)
	uris := make([]Call, 0, n)
	for i, a := range addresses {
		base := i * InstructionsPerProfile
		first, firstLegacy := addressToDomain(c.Naming, a)
		rest := []Call{
			StaticCall(c.Naming, "domain_to_id", ArrayRef(base, 0)),
			StaticCall(c.Identity, "get_verifier_data",
				Ref(base+1, 0),
				HardcodeShortString("nft_pp_contract"),
				Hardcode(c.PfpVerifier),
				HardcodeUint(0),
			),
			StaticCall(c.Identity, "get_extended_verifier_data",
				Ref(base+1, 0),
				HardcodeShortString("nft_pp_id"),
				HardcodeUint(2),
				Hardcode(c.PfpVerifier),
				HardcodeUint(0),
			),
			StaticCall(c.UtilsMulticall, "not_zero_and_not_y",
				Ref(base+2, 0),
				Hardcode(c.Blobbert),
			),
		}
		calls = append(append(calls, first), rest...)
		legacy = append(append(legacy, firstLegacy), rest...)
		uris = append(uris, tokenURICall(NotEqual(base+4, 0, 0), base+2, base+3))
	}
	initial = append(calls, uris...)
	fallback = append(legacy, uris...)
	return initial, fallback
}

// ProfileDataCalldata reads everything shown on a single profile:
//
//	0 address_to_domain(address)
//	1 domain_to_id(domain)
//	2 twitter, 3 github, 4 discord from the verifier
//	5 proof_of_personhood from the pop verifier
//	6 pfp contract, 7 pfp token id from the pfp verifier
//	8 tokenURI on the pfp contract, when one is set
func ProfileDataCalldata(address *uint256.Int, c ProfileContracts) (initial, fallback []Call) {
	verifierData := func(field string, verifier *uint256.Int) Call {
		return StaticCall(c.Identity, "get_verifier_data",
			Ref(1, 0),
			HardcodeShortString(field),
			Hardcode(verifier),
			HardcodeUint(0),
		)
	}
	first, firstLegacy := addressToDomain(c.Naming, address)
	rest := []Call{
		StaticCall(c.Naming, "domain_to_id", ArrayRef(0, 0)),
		verifierData("twitter", c.Verifier),
		verifierData("github", c.Verifier),
		verifierData("discord", c.Verifier),
		verifierData("proof_of_personhood", c.PopVerifier),
		verifierData("nft_pp_contract", c.PfpVerifier),
		StaticCall(c.Identity, "get_extended_verifier_data",
			Ref(1, 0),
			HardcodeShortString("nft_pp_id"),
			HardcodeUint(2),
			Hardcode(c.PfpVerifier),
			HardcodeUint(0),
		),
		tokenURICall(NotEqual(6, 0, 0), 6, 7),
	}
	initial = append([]Call{first}, rest...)
	fallback = append([]Call{firstLegacy}, rest...)
	return initial, fallback
}

// tokenURICall calls tokenURI on the contract found in call contractCall
// with the u256 token id found at felts 1 and 2 of call idCall.
func tokenURICall(exec Execution, contractCall, idCall int) Call {
	return Call{
		Execution: exec,
		To:        Ref(contractCall, 0),
		Selector:  HardcodeSelector("tokenURI"),
		Calldata:  []DynamicFelt{Ref(idCall, 1), Ref(idCall, 2)},
	}
}
