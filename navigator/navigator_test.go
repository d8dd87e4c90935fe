package navigator

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/domain"
	"github.com/tranvictor/starknetid/multicall/multicalltest"
	"github.com/tranvictor/starknetid/networks"
	"github.com/tranvictor/starknetid/offchain"
	"github.com/tranvictor/starknetid/util/reader/readertest"
)

const (
	namingAddr      = "0x1001"
	identityAddr    = "0x1002"
	verifierAddr    = "0x1003"
	pfpVerifierAddr = "0x1004"
	popVerifierAddr = "0x1005"
	multicallAddr   = "0x1006"
	utilsAddr       = "0x1007"
	blobbertAddr    = "0x1008"
	pfpNFTAddr      = "0x2000"

	benAddr      = "0x123"
	testAddr     = "0x124"
	namelessAddr = "0x125"
	offchainAddr = "0x777"
)

var testContracts = networks.Contracts{
	Naming:         namingAddr,
	Identity:       identityAddr,
	Verifier:       verifierAddr,
	PfpVerifier:    pfpVerifierAddr,
	PopVerifier:    popVerifierAddr,
	Multicall:      multicallAddr,
	UtilsMulticall: utilsAddr,
	Blobbert:       blobbertAddr,
}

// fixture is a node running a small starknet.id deployment plus an http
// server playing off-chain resolver and NFT metadata host.
type fixture struct {
	node *readertest.Node
	srv  *httptest.Server
	nav  *Navigator

	// resolver URIs announced by the naming contract
	uris []string
	// address_to_domain only accepts the legacy calldata
	legacyNaming bool
	// "<id>/<field>/<verifier>" -> value
	verifierData map[string]uint64
}

func mustEncode(name string) []*uint256.Int {
	res, err := encodeName(name)
	if err != nil {
		panic(err)
	}
	return res
}

func feltsEqual(a, b []*uint256.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func shortStrings(s string) []*uint256.Int {
	chunks := []*uint256.Int{}
	for len(s) > 0 {
		n := min(len(s), common.MaxShortStringLength)
		chunks = append(chunks, common.MustEncodeShortString(s[:n]))
		s = s[n:]
	}
	return append([]*uint256.Int{uint256.NewInt(uint64(len(chunks)))}, chunks...)
}

func byteArray(s string) []*uint256.Int {
	b := []byte(s)
	words := []*uint256.Int{}
	for len(b) >= common.MaxShortStringLength {
		words = append(words, new(uint256.Int).SetBytes(b[:common.MaxShortStringLength]))
		b = b[common.MaxShortStringLength:]
	}
	res := append([]*uint256.Int{uint256.NewInt(uint64(len(words)))}, words...)
	return append(res, new(uint256.Int).SetBytes(b), uint256.NewInt(uint64(len(b))))
}

func labels(names ...string) []*uint256.Int {
	res := []*uint256.Int{uint256.NewInt(uint64(len(names)))}
	for _, n := range names {
		res = append(res, uint256.MustFromBig(domain.Encode(n)))
	}
	return res
}

func (f *fixture) offchainRevert() error {
	data, err := offchain.EncodeErrorData(offchain.ResolvingData{
		ErrorType:   offchain.OffchainResolving,
		DomainSlice: "alice.notion",
		URIs:        f.uris,
	})
	if err != nil {
		return readertest.Revert(err.Error())
	}
	return readertest.Revert(offchain.FormatFailureReason(data))
}

// validHint checks the hint the resolver handed out.
func validHint(hint []*uint256.Int) bool {
	return len(hint) == 4 &&
		hint[0].Eq(common.MustHexToFelt("0x456")) &&
		hint[1].Eq(uint256.NewInt(1)) &&
		hint[2].Eq(uint256.NewInt(2)) &&
		hint[3].Eq(uint256.NewInt(1716966719))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		node: readertest.NewNode(),
		verifierData: map[string]uint64{
			"1/discord/0x1003":             123,
			"1/proof_of_personhood/0x1005": 1,
			"1/nft_pp_contract/0x1004":     0x2000,
			"2/nft_pp_contract/0x1004":     0x1008,
		},
	}
	t.Cleanup(f.node.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("/ok/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/ok/") != "alice.notion" {
			http.Error(w, "unknown domain", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"address":"0x456","r":"0x1","s":"0x2","max_validity":1716966719}`)
	})
	mux.HandleFunc("/bad/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "domain not found", http.StatusNotFound)
	})
	mux.HandleFunc("/meta/5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"image":"https://img.example.com/5.png"}`)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	f.install()
	multicalltest.Install(f.node, multicallAddr)

	contracts := testContracts
	nav, err := New(f.node.Reader(), Config{
		Network:      networks.SNMain,
		Contracts:    &contracts,
		HTTPClient:   f.srv.Client(),
		IdenticonURL: "https://identicon.example.com",
	})
	require.NoError(t, err)
	f.nav = nav
	return f
}

func (f *fixture) install() {
	felts := readertest.Felts

	f.node.Handle(namingAddr, "domain_to_address", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		n := int(cd[0].Uint64())
		name, hint := cd[:n+1], cd[n+2:]
		switch {
		case feltsEqual(name, mustEncode("ben.stark")):
			return felts(0x123), nil
		case feltsEqual(name, mustEncode("alice.notion.stark")):
			if len(hint) == 0 {
				return nil, f.offchainRevert()
			}
			if !validHint(hint) {
				return nil, readertest.Revert("invalid signature")
			}
			return hint[:1], nil
		}
		return felts(0), nil
	})

	f.node.Handle(namingAddr, "address_to_domain", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		if f.legacyNaming && len(cd) != 1 {
			return nil, readertest.Revert("Input too long for arguments")
		}
		var hint []*uint256.Int
		if len(cd) > 1 {
			hint = cd[2:]
		}
		switch cd[0].Hex() {
		case benAddr:
			return labels("ben"), nil
		case testAddr:
			return labels("test"), nil
		case offchainAddr:
			if len(hint) == 0 {
				return nil, f.offchainRevert()
			}
			if !validHint(hint) {
				return nil, readertest.Revert("invalid signature")
			}
			return labels("alice", "notion"), nil
		}
		return felts(0), nil
	})

	f.node.Handle(namingAddr, "domain_to_id", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		switch {
		case feltsEqual(cd, mustEncode("ben.stark")):
			return felts(1), nil
		case feltsEqual(cd, mustEncode("test.stark")):
			return felts(2), nil
		}
		return felts(0), nil
	})

	f.node.Handle(identityAddr, "get_verifier_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		key := fmt.Sprintf("%s/%s/%s", cd[0].Dec(), common.DecodeShortString(cd[1]), cd[2].Hex())
		return felts(f.verifierData[key]), nil
	})

	f.node.Handle(identityAddr, "get_extended_verifier_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		if common.DecodeShortString(cd[1]) == "nft_pp_id" {
			switch cd[0].Uint64() {
			case 1:
				return felts(2, 5, 0), nil
			case 2:
				return felts(2, 9, 0), nil
			}
			return felts(2, 0, 0), nil
		}
		length := cd[2].Uint64()
		res := felts(length)
		for i := uint64(1); i <= length; i++ {
			res = append(res, uint256.NewInt(i))
		}
		return res, nil
	})

	f.node.Handle(identityAddr, "get_unbounded_verifier_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		return felts(2, 10, 11), nil
	})

	f.node.Handle(identityAddr, "get_user_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		if cd[0].Uint64() == 1 && common.DecodeShortString(cd[1]) == "email" {
			return felts(42), nil
		}
		return felts(0), nil
	})

	f.node.Handle(identityAddr, "get_extended_user_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		length := cd[2].Uint64()
		res := felts(length)
		for i := uint64(1); i <= length; i++ {
			res = append(res, uint256.NewInt(i*100))
		}
		return res, nil
	})

	f.node.Handle(identityAddr, "get_unbounded_user_data", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		return felts(3, 7, 8, 9), nil
	})

	f.node.Handle(utilsAddr, "not_zero_and_not_y", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		if cd[0].IsZero() || cd[0].Eq(cd[1]) {
			return felts(0), nil
		}
		return felts(1), nil
	})

	f.node.Handle(pfpNFTAddr, "tokenURI", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		return shortStrings(f.srv.URL + "/meta/" + cd[0].Dec()), nil
	})

	f.node.Handle(blobbertAddr, "tokenURI", func(cd []*uint256.Int) ([]*uint256.Int, error) {
		meta := fmt.Sprintf(`{"image":"https://blobbert.example.com/%s.svg"}`, cd[0].Dec())
		return byteArray("data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(meta))), nil
	})
}

func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

// ---------------------------------------------------------------------------
// construction

func TestNewUsesRegistryDefaults(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	nav, err := New(node.Reader(), Config{})
	require.NoError(t, err)
	require.Equal(t, networks.SNMain, nav.Network())
	defaults, err := networks.DefaultContracts(networks.SNMain)
	require.NoError(t, err)
	require.Equal(t, defaults, nav.Contracts())

	nav, err = New(node.Reader(), Config{
		Network:   networks.SNSepolia,
		Contracts: &networks.Contracts{Naming: "0xabc"},
	})
	require.NoError(t, err)
	require.Equal(t, "0xabc", nav.Contracts().Naming)
	require.NotEmpty(t, nav.Contracts().Identity)
}

func TestNewRejectsUnknownNetworkWithoutContracts(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	_, err := New(node.Reader(), Config{Network: "SN_UNKNOWN"})
	require.ErrorIs(t, err, networks.ErrNetworkNotFound)

	_, err = New(nil, Config{})
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// resolution

func TestGetAddressFromStarkName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	addr, err := f.nav.GetAddressFromStarkName(ctx, "ben.stark")
	require.NoError(t, err)
	require.Equal(t, "0x123", addr)

	calls := f.node.Calls()
	last := calls[len(calls)-1]
	// [label count, label, hint length]
	require.Equal(t, []string{"0x1", "0x49ed", "0x0"}, common.FeltsToHex(last.Calldata))

	addr, err = f.nav.GetAddressFromStarkName(ctx, "nobody.stark")
	require.NoError(t, err)
	require.Equal(t, "0x0", addr)

	_, err = f.nav.GetAddressFromStarkName(ctx, "Ben!.stark")
	require.ErrorIs(t, err, ErrResolveAddress)
	require.ErrorIs(t, err, domain.ErrInvalidCharacter)
}

func TestGetAddressFromStarkNameOffchain(t *testing.T) {
	f := newFixture(t)
	f.uris = []string{f.srv.URL + "/bad/", f.srv.URL + "/ok/"}

	addr, err := f.nav.GetAddressFromStarkName(context.Background(), "alice.notion.stark")
	require.NoError(t, err)
	require.Equal(t, "0x456", addr)
	require.Equal(t, 2, f.node.CallCount("domain_to_address"))
}

func TestOffchainRefusalsExhausted(t *testing.T) {
	f := newFixture(t)
	f.uris = []string{f.srv.URL + "/bad/"}

	_, err := f.nav.GetAddressFromStarkName(context.Background(), "alice.notion.stark")
	require.ErrorIs(t, err, ErrResolveAddress)
	require.ErrorIs(t, err, ErrNoOffchainAnswer)
	require.Equal(t, 1, f.node.CallCount("domain_to_address"))
}

func TestOffchainUnreachableServerStopsSearch(t *testing.T) {
	f := newFixture(t)
	dead := closedURL(t) + "/"
	f.uris = []string{dead, f.srv.URL + "/ok/"}

	_, err := f.nav.GetAddressFromStarkName(context.Background(), "alice.notion.stark")
	require.ErrorIs(t, err, ErrResolveAddress)
	require.Contains(t, err.Error(), "offchain server "+dead)

	f.nav.continueOnServerFailure = true
	addr, err := f.nav.GetAddressFromStarkName(context.Background(), "alice.notion.stark")
	require.NoError(t, err)
	require.Equal(t, "0x456", addr)
}

func TestGetStarkName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name, err := f.nav.GetStarkName(ctx, benAddr)
	require.NoError(t, err)
	require.Equal(t, "ben.stark", name)
	require.Equal(t, 1, f.node.CallCount("address_to_domain"))

	_, err = f.nav.GetStarkName(ctx, namelessAddr)
	require.ErrorIs(t, err, ErrStarknameNotFound)

	_, err = f.nav.GetStarkName(ctx, "123")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetStarkNameLegacyNaming(t *testing.T) {
	f := newFixture(t)
	f.legacyNaming = true

	name, err := f.nav.GetStarkName(context.Background(), benAddr)
	require.NoError(t, err)
	require.Equal(t, "ben.stark", name)
	require.Equal(t, 2, f.node.CallCount("address_to_domain"))
}

func TestGetStarkNameOffchain(t *testing.T) {
	f := newFixture(t)
	f.uris = []string{f.srv.URL + "/ok/"}

	name, err := f.nav.GetStarkName(context.Background(), offchainAddr)
	require.NoError(t, err)
	require.Equal(t, "alice.notion.stark", name)
}

func TestGetStarkNames(t *testing.T) {
	f := newFixture(t)

	names, err := f.nav.GetStarkNames(context.Background(), []string{benAddr, namelessAddr, testAddr}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"ben.stark", "", "test.stark"}, names)
	require.Equal(t, 1, f.node.CallCount("aggregate"))
}

func TestGetStarkNamesFallsBackToLegacyCalldata(t *testing.T) {
	f := newFixture(t)
	f.legacyNaming = true

	names, err := f.nav.GetStarkNames(context.Background(), []string{benAddr, testAddr}, multicallAddr)
	require.NoError(t, err)
	require.Equal(t, []string{"ben.stark", "test.stark"}, names)
	require.Equal(t, 2, f.node.CallCount("aggregate"))
}

func TestGetStarknetID(t *testing.T) {
	f := newFixture(t)

	id, err := f.nav.GetStarknetID(context.Background(), "ben.stark")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	id, err = f.nav.GetStarknetID(context.Background(), "nobody.stark")
	require.NoError(t, err)
	require.Equal(t, "0", id)
}

// ---------------------------------------------------------------------------
// identifiers

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want Identifier
	}{
		{"1", ID(1)},
		{"ben.stark", ByDomain("ben.stark")},
		{"a.ben.stark", ByDomain("a.ben.stark")},
		{"0x123", ByAddress("0x123")},
		{"0X0ABC", ByAddress("0X0ABC")},
	}
	for _, tc := range tests {
		got, err := ParseIdentifier(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"ben", "hello world", "0xzz", "-1"} {
		_, err := ParseIdentifier(in)
		require.ErrorIs(t, err, ErrInvalidIdentifier, in)
	}
}

func TestCheckArguments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.nav.CheckArguments(ctx, ID(7))
	require.NoError(t, err)
	require.Equal(t, uint64(7), id.Uint64())

	id, err = f.nav.CheckArguments(ctx, ByDomain("ben.stark"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), id.Uint64())

	id, err = f.nav.CheckArguments(ctx, ByAddress(benAddr))
	require.NoError(t, err)
	require.Equal(t, uint64(1), id.Uint64())

	_, err = f.nav.CheckArguments(ctx, ByDomain("ben"))
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = f.nav.CheckArguments(ctx, ByAddress(namelessAddr))
	require.ErrorIs(t, err, ErrStarknameNotFound)

	// one letter in the wrong case
	_, err = f.nav.CheckArguments(ctx, ByAddress("0x02fd23d9182193775423497fc0c472E156C57C69E4089A1967fb288A2d84e914"))
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = f.nav.CheckArguments(ctx, nil)
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

// ---------------------------------------------------------------------------
// identity data

func TestGetVerifierData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.nav.GetVerifierData(ctx, ByDomain("ben.stark"), "discord", "")
	require.NoError(t, err)
	require.Equal(t, uint64(123), v.Uint64())

	calls := f.node.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, []*uint256.Int{
		uint256.NewInt(1),
		common.MustEncodeShortString("discord"),
		common.MustHexToFelt(verifierAddr),
		uint256.NewInt(0),
	}, last.Calldata)

	v, err = f.nav.GetVerifierData(ctx, ID(1), "discord", "0x9999")
	require.NoError(t, err)
	require.True(t, v.IsZero())

	_, err = f.nav.GetVerifierData(ctx, ID(1), strings.Repeat("x", 32), "")
	require.ErrorIs(t, err, ErrGetVerifierData)
	require.ErrorIs(t, err, common.ErrShortStringTooLong)
}

func TestExtendedAndUnboundedVerifierData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data, err := f.nav.GetExtendedVerifierData(ctx, ID(1), "avatar", 3, "")
	require.NoError(t, err)
	require.Equal(t, readertest.Felts(1, 2, 3), data)

	data, err = f.nav.GetUnboundedVerifierData(ctx, ID(1), "avatar", "")
	require.NoError(t, err)
	require.Equal(t, readertest.Felts(10, 11), data)
}

func TestGetUserData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.nav.GetUserData(ctx, ByAddress(benAddr), "email")
	require.NoError(t, err)
	require.Equal(t, uint64(42), v.Uint64())

	calls := f.node.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, []*uint256.Int{
		uint256.NewInt(1),
		common.MustEncodeShortString("email"),
		uint256.NewInt(0),
	}, last.Calldata)

	data, err := f.nav.GetExtendedUserData(ctx, ID(1), "blob", 2)
	require.NoError(t, err)
	require.Equal(t, readertest.Felts(100, 200), data)

	data, err = f.nav.GetUnboundedUserData(ctx, ID(1), "blob")
	require.NoError(t, err)
	require.Equal(t, readertest.Felts(7, 8, 9), data)
}

func TestGetPfpVerifierData(t *testing.T) {
	f := newFixture(t)

	pfp, err := f.nav.GetPfpVerifierData(context.Background(), ByDomain("ben.stark"), "")
	require.NoError(t, err)
	require.Equal(t, pfpNFTAddr, pfp.Contract.Hex())
	require.Equal(t, "5", pfp.TokenID.String())
	require.Equal(t, 1, f.node.CallCount("domain_to_id"))
}

// ---------------------------------------------------------------------------
// profiles

func TestGetProfileData(t *testing.T) {
	f := newFixture(t)

	p, err := f.nav.GetProfileData(context.Background(), benAddr, ProfileOptions{})
	require.NoError(t, err)
	require.Equal(t, "ben.stark", *p.Name)
	require.Equal(t, "123", *p.Discord)
	require.Nil(t, p.Twitter)
	require.Nil(t, p.Github)
	require.True(t, p.ProofOfPersonhood)
	require.Equal(t, "https://img.example.com/5.png", *p.ProfilePicture)
	require.Equal(t, 1, f.node.CallCount("tokenURI"))
}

func TestGetProfileDataWithoutPfp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.nav.GetProfileData(ctx, namelessAddr, ProfileOptions{})
	require.NoError(t, err)
	require.Nil(t, p.Name)
	require.Nil(t, p.ProfilePicture)
	require.False(t, p.ProofOfPersonhood)
	require.Equal(t, 0, f.node.CallCount("tokenURI"))

	p, err = f.nav.GetProfileData(ctx, namelessAddr, ProfileOptions{UseDefaultPfp: true})
	require.NoError(t, err)
	require.Equal(t, "https://identicon.example.com/0", *p.ProfilePicture)
}

func TestGetStarkProfiles(t *testing.T) {
	f := newFixture(t)

	ps, err := f.nav.GetStarkProfiles(context.Background(), []string{benAddr, testAddr, namelessAddr}, true, "")
	require.NoError(t, err)
	require.Len(t, ps, 3)

	require.Equal(t, "ben.stark", *ps[0].Name)
	require.Equal(t, "https://img.example.com/5.png", *ps[0].ProfilePicture)

	require.Equal(t, "test.stark", *ps[1].Name)
	require.Equal(t, "https://blobbert.example.com/9.svg", *ps[1].ProfilePicture)

	require.Nil(t, ps[2].Name)
	require.Equal(t, "https://identicon.example.com/0", *ps[2].ProfilePicture)

	require.Equal(t, 1, f.node.CallCount("aggregate"))
	// one tokenURI inside the batch, one direct call for the blobbert
	require.Equal(t, 2, f.node.CallCount("tokenURI"))
}

func TestGetStarkProfilesNeedsUtilsMulticall(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	nav, err := New(node.Reader(), Config{Network: networks.SNMain})
	require.NoError(t, err)
	_, err = nav.GetStarkProfiles(context.Background(), []string{benAddr}, false, "")
	require.ErrorIs(t, err, ErrGetProfileData)
	require.ErrorIs(t, err, networks.ErrContractNotDeployed)
}
