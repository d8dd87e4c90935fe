// Package domain converts stark domain labels to and from the felt encoding
// used by the naming contract.
//
// A label is written in base 38 over the basic alphabet, with digit 37 as an
// escape into a two letter extended alphabet. A trailing 'a' and long runs of
// the last extended letter get special treatment so that the encoding stays
// a bijection between labels and naturals.
package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	basicAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789-"
	bigAlphabet   = "这来"

	Suffix = ".stark"
)

var (
	basicRunes = []rune(basicAlphabet)
	bigRunes   = []rune(bigAlphabet)

	basicSize        = big.NewInt(int64(len(basicRunes)))
	basicSizePlusOne = big.NewInt(int64(len(basicRunes) + 1))
	bigSize          = big.NewInt(int64(len(bigRunes)))
	bigSizePlusOne   = big.NewInt(int64(len(bigRunes) + 1))

	lastBigRune = bigRunes[len(bigRunes)-1]
)

var ErrInvalidCharacter = errors.New("character is not part of the domain alphabet")

// Decode turns a single label felt back into its string. Zero and negative
// values decode to the empty string.
func Decode(felt *big.Int) string {
	if felt == nil || felt.Sign() <= 0 {
		return ""
	}
	value := new(big.Int).Set(felt)
	code := new(big.Int)
	decoded := make([]rune, 0, 16)
	for value.Sign() != 0 {
		value.DivMod(value, basicSizePlusOne, code)
		if code.Cmp(basicSize) != 0 {
			decoded = append(decoded, basicRunes[code.Int64()])
			continue
		}
		next := new(big.Int).Quo(value, bigSizePlusOne)
		if next.Sign() == 0 {
			extended := new(big.Int).Rem(value, bigSizePlusOne).Int64()
			value = next
			if extended == 0 {
				decoded = append(decoded, basicRunes[0])
			} else {
				decoded = append(decoded, bigRunes[extended-1])
			}
		} else {
			extended := new(big.Int).Rem(value, bigSize).Int64()
			decoded = append(decoded, bigRunes[extended])
			value.Quo(value, bigSize)
		}
	}

	rest, stars := trailingStars(decoded)
	if stars == 0 {
		return string(decoded)
	}
	if stars%2 == 0 {
		rest = appendRepeat(rest, lastBigRune, stars/2-1)
		rest = append(rest, bigRunes[0], basicRunes[1])
	} else {
		rest = appendRepeat(rest, lastBigRune, (stars-1)/2+1)
	}
	return string(rest)
}

// Encode is the inverse of Decode. Characters outside both alphabets are
// dropped; use EncodeStrict to reject them instead.
func Encode(label string) *big.Int {
	runes := []rune(label)
	if hasEscapeSuffix(runes) {
		rest, stars := trailingStars(runes[:len(runes)-2])
		runes = appendRepeat(rest, lastBigRune, 2*(stars+1))
	} else {
		rest, stars := trailingStars(runes)
		if stars > 0 {
			runes = appendRepeat(rest, lastBigRune, 1+2*(stars-1))
		}
	}

	encoded := new(big.Int)
	multiplier := big.NewInt(1)
	term := new(big.Int)
	for i, r := range runes {
		last := i == len(runes)-1
		if idx := indexOf(basicRunes, r); idx >= 0 {
			if last && idx == 0 {
				encoded.Add(encoded, term.Mul(multiplier, basicSize))
				multiplier.Mul(multiplier, basicSizePlusOne)
				multiplier.Mul(multiplier, basicSizePlusOne)
			} else {
				encoded.Add(encoded, term.Mul(multiplier, big.NewInt(int64(idx))))
				multiplier.Mul(multiplier, basicSizePlusOne)
			}
		} else if idx := indexOf(bigRunes, r); idx >= 0 {
			encoded.Add(encoded, term.Mul(multiplier, basicSize))
			multiplier.Mul(multiplier, basicSizePlusOne)
			if last {
				idx++
			}
			encoded.Add(encoded, term.Mul(multiplier, big.NewInt(int64(idx))))
			multiplier.Mul(multiplier, bigSize)
		}
	}
	return encoded
}

// EncodeStrict encodes label and fails on the first character that belongs
// to neither alphabet.
func EncodeStrict(label string) (*big.Int, error) {
	for i, r := range label {
		if indexOf(basicRunes, r) < 0 && indexOf(bigRunes, r) < 0 {
			return nil, fmt.Errorf("%w: %q at offset %d of %q", ErrInvalidCharacter, r, i, label)
		}
	}
	return Encode(label), nil
}

// DecodeDomain joins the decoded labels with dots and appends ".stark".
// Labels that decode to nothing are skipped while the result is still
// empty, so an empty or all-zero input yields "".
func DecodeDomain(encoded []*big.Int) string {
	var b strings.Builder
	for _, label := range encoded {
		b.WriteString(Decode(label))
		if b.Len() > 0 {
			b.WriteByte('.')
		}
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("stark")
	return b.String()
}

// EncodeDomain strips a trailing ".stark" and encodes each dot separated
// label. The empty domain encodes to a single zero label.
func EncodeDomain(domain string) []*big.Int {
	if domain == "" {
		return []*big.Int{new(big.Int)}
	}
	labels := strings.Split(strings.TrimSuffix(domain, Suffix), ".")
	res := make([]*big.Int, 0, len(labels))
	for _, label := range labels {
		res = append(res, Encode(label))
	}
	return res
}

// EncodeDomainStrict is EncodeDomain with EncodeStrict applied to every label.
func EncodeDomainStrict(domain string) ([]*big.Int, error) {
	if domain == "" {
		return []*big.Int{new(big.Int)}, nil
	}
	labels := strings.Split(strings.TrimSuffix(domain, Suffix), ".")
	res := make([]*big.Int, 0, len(labels))
	for _, label := range labels {
		f, err := EncodeStrict(label)
		if err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, nil
}

// EncodeSeveral encodes each domain independently.
func EncodeSeveral(domains []string) [][]*big.Int {
	res := make([][]*big.Int, 0, len(domains))
	for _, d := range domains {
		res = append(res, EncodeDomain(d))
	}
	return res
}

func DecodeSeveral(domains [][]*big.Int) []string {
	res := make([]string, 0, len(domains))
	for _, d := range domains {
		res = append(res, DecodeDomain(d))
	}
	return res
}

func trailingStars(runes []rune) ([]rune, int) {
	end := len(runes)
	for end > 0 && runes[end-1] == lastBigRune {
		end--
	}
	rest := make([]rune, end, len(runes)+2)
	copy(rest, runes[:end])
	return rest, len(runes) - end
}

func hasEscapeSuffix(runes []rune) bool {
	n := len(runes)
	return n >= 2 && runes[n-2] == bigRunes[0] && runes[n-1] == basicRunes[1]
}

func appendRepeat(runes []rune, r rune, n int) []rune {
	for i := 0; i < n; i++ {
		runes = append(runes, r)
	}
	return runes
}

func indexOf(alphabet []rune, r rune) int {
	for i, a := range alphabet {
		if a == r {
			return i
		}
	}
	return -1
}
