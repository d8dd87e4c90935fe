package navigator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/domain"
)

// Identifier names a starknet.id identity in one of three ways: ByID,
// ByDomain or ByAddress.
type Identifier interface {
	identifier()
}

type ByID struct {
	ID *uint256.Int
}

// ByDomain is a .stark domain, read through domain_to_id.
type ByDomain string

// ByAddress is an address, reverse resolved to its main domain first.
type ByAddress string

func (ByID) identifier()      {}
func (ByDomain) identifier()  {}
func (ByAddress) identifier() {}

func ID(id uint64) ByID {
	return ByID{ID: uint256.NewInt(id)}
}

var (
	decimalRegex = regexp.MustCompile(`^[-+]?[0-9]+$`)
	hexRegex     = regexp.MustCompile(`(?i)^[-+]?0x[0-9a-f]+$`)
)

// ParseIdentifier classifies s, checking in order for a decimal id, a
// .stark domain and a hex address.
func ParseIdentifier(s string) (Identifier, error) {
	switch {
	case decimalRegex.MatchString(s):
		id, err := common.DecimalToFelt(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
		}
		return ByID{ID: id}, nil
	case domain.IsStarkDomain(s):
		return ByDomain(s), nil
	case hexRegex.MatchString(s):
		return ByAddress(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
}

// CheckArguments turns ident into a numeric starknet id.
func (n *Navigator) CheckArguments(ctx context.Context, ident Identifier) (*uint256.Int, error) {
	switch v := ident.(type) {
	case ByID:
		if v.ID == nil {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidIdentifier)
		}
		return v.ID, nil
	case ByDomain:
		if !domain.IsStarkDomain(string(v)) {
			return nil, fmt.Errorf("%w: %q is not a stark domain", ErrInvalidIdentifier, string(v))
		}
		return n.starknetID(ctx, string(v))
	case ByAddress:
		addr := string(v)
		if _, err := common.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		if !common.ValidateChecksumAddress(addr) {
			return nil, fmt.Errorf("%w: bad checksum %s", ErrInvalidAddress, addr)
		}
		name, err := n.GetStarkName(ctx, addr)
		if err != nil {
			return nil, err
		}
		return n.starknetID(ctx, name)
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidIdentifier)
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidIdentifier, ident)
}
