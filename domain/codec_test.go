package domain_test

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/tranvictor/starknetid/domain"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-这来"

func randomLabel(r *rand.Rand, n int) string {
	runes := []rune(alphabet)
	res := make([]rune, n)
	for i := range res {
		res[i] = runes[r.Intn(len(runes))]
	}
	return string(res)
}

func TestDecodeKnownValues(t *testing.T) {
	got := domain.DecodeDomain([]*big.Int{big.NewInt(1499554868251), big.NewInt(18925)})
	if got != "fricoben.ben.stark" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeKnownValues(t *testing.T) {
	cases := map[string]int64{
		"test":  1068731,
		"iris":  999902,
		"ben":   18925,
		"a":     37,
		"aa":    1406,
		"这":     75,
		"来":     113,
		"这b":    8663,
		"a这b":   329194,
		"来来":    658463,
		"ben这来": 473289925,
	}
	for label, want := range cases {
		if got := domain.Encode(label); got.Cmp(big.NewInt(want)) != 0 {
			t.Errorf("Encode(%q) = %s, want %d", label, got, want)
		}
		if got := domain.Decode(big.NewInt(want)); got != label {
			t.Errorf("Decode(%d) = %q, want %q", want, got, label)
		}
	}
}

func TestRandomLabelsRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2500; i++ {
		label := randomLabel(r, 10)
		decoded := domain.DecodeDomain(domain.EncodeDomain(label))
		if decoded != label+".stark" {
			t.Fatalf("round trip of %q gave %q", label, decoded)
		}
	}
}

func TestEncodeIsInverseOfDecode(t *testing.T) {
	for n := int64(0); n < 2500; n++ {
		name := domain.DecodeDomain([]*big.Int{big.NewInt(n)})
		encoded := domain.EncodeDomain(name)
		if len(encoded) != 1 || encoded[0].Cmp(big.NewInt(n)) != 0 {
			t.Fatalf("EncodeDomain(DecodeDomain(%d)) = %v (via %q)", n, encoded, name)
		}
	}
}

func TestEmptyDomain(t *testing.T) {
	encoded := domain.EncodeDomain("")
	if len(encoded) != 1 || encoded[0].Sign() != 0 {
		t.Fatalf("expected a single zero label, got %v", encoded)
	}
	if got := domain.DecodeDomain(encoded); got != "" {
		t.Fatalf("expected empty domain, got %q", got)
	}
	if got := domain.DecodeDomain(nil); got != "" {
		t.Fatalf("expected empty domain, got %q", got)
	}
}

func TestLongestLabelExceedsUint256(t *testing.T) {
	label := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	encoded := domain.Encode(label)
	if encoded.BitLen() <= 251 {
		t.Fatalf("expected more than 251 bits, got %d", encoded.BitLen())
	}
	if got := domain.Decode(encoded); got != label {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeDomainWithoutSuffix(t *testing.T) {
	withSuffix := domain.EncodeDomain("fricoben.ben.stark")
	without := domain.EncodeDomain("fricoben.ben")
	if len(withSuffix) != 2 || len(without) != 2 {
		t.Fatalf("expected two labels, got %d and %d", len(withSuffix), len(without))
	}
	for i := range withSuffix {
		if withSuffix[i].Cmp(without[i]) != 0 {
			t.Fatalf("label %d differs: %s vs %s", i, withSuffix[i], without[i])
		}
	}
}

func TestEncodeStrict(t *testing.T) {
	if _, err := domain.EncodeStrict("Ben"); !errors.Is(err, domain.ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
	if _, err := domain.EncodeDomainStrict("b_n.stark"); !errors.Is(err, domain.ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
	// the lenient encoder drops unknown characters
	if got := domain.Encode("B-e-n"); got.Cmp(domain.Encode("-e-n")) != 0 {
		t.Fatalf("unexpected lenient encoding %s", got)
	}
	encoded, err := domain.EncodeDomainStrict("fricoben.ben.stark")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := domain.DecodeDomain(encoded); got != "fricoben.ben.stark" {
		t.Fatalf("got %q", got)
	}
}

func TestSeveral(t *testing.T) {
	domains := []string{"ben.stark", "fricoben.ben.stark", "iris.stark"}
	got := domain.DecodeSeveral(domain.EncodeSeveral(domains))
	for i := range domains {
		if got[i] != domains[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], domains[i])
		}
	}
}
