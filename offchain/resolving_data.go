// Package offchain handles names whose address lives on an off-chain
// resolver. The naming contract signals those by reverting with the
// resolver URIs; a resolver answers with a signed hint that the contract
// accepts on the next call.
package offchain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/domain"
)

// OffchainResolving is the error type a naming contract reverts with when
// resolution must continue off-chain.
const OffchainResolving = "offchain_resolving"

var (
	ErrNoResolvingData        = errors.New("error carries no off-chain resolving data")
	ErrMalformedResolvingData = errors.New("malformed off-chain resolving data")

	failureReasonRegex = regexp.MustCompile(`Execution failed\. Failure reason: \((.*?)\)\.`)
	hexRegex           = regexp.MustCompile(`0x[0-9a-fA-F]+`)
)

// ResolvingData is the decoded revert payload.
type ResolvingData struct {
	ErrorType string
	// DomainSlice is the dot joined part of the domain the resolver serves,
	// without the .stark suffix.
	DomainSlice string
	URIs        []string
}

// Offchain reports whether the revert asks for off-chain resolution.
func (d *ResolvingData) Offchain() bool {
	return d.ErrorType == OffchainResolving
}

// ExtractFromError finds the failure reason felts in msg and decodes them.
func ExtractFromError(msg string) (*ResolvingData, error) {
	m := failureReasonRegex.FindStringSubmatch(msg)
	if m == nil {
		return nil, ErrNoResolvingData
	}
	values := strings.Split(m[1], ",")
	felts := make([]*uint256.Int, 0, len(values))
	for _, v := range values {
		h := hexRegex.FindString(strings.TrimSpace(v))
		if h == "" {
			return nil, fmt.Errorf("%w: %q is not a felt", ErrMalformedResolvingData, strings.TrimSpace(v))
		}
		f, err := common.HexToFelt(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResolvingData, err)
		}
		felts = append(felts, f)
	}
	return DecodeErrorData(felts)
}

// DecodeErrorData reads [error type, label count, labels..., then for each
// URI: chunk count, chunks...].
func DecodeErrorData(data []*uint256.Int) (*ResolvingData, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 felts, got %d", ErrMalformedResolvingData, len(data))
	}
	res := &ResolvingData{
		ErrorType: common.DecodeShortString(data[0]),
		URIs:      []string{},
	}
	pos := 1
	labels, next, err := span(data, pos)
	if err != nil {
		return nil, fmt.Errorf("domain: %w", err)
	}
	pos = next
	decoded := make([]string, 0, len(labels))
	for _, l := range labels {
		decoded = append(decoded, domain.Decode(l.ToBig()))
	}
	res.DomainSlice = strings.Join(decoded, ".")

	for pos < len(data) {
		chunks, next, err := span(data, pos)
		if err != nil {
			return nil, fmt.Errorf("uri %d: %w", len(res.URIs), err)
		}
		pos = next
		res.URIs = append(res.URIs, common.DecodeShortStrings(chunks))
	}
	return res, nil
}

// span reads a length prefixed run starting at pos.
func span(data []*uint256.Int, pos int) ([]*uint256.Int, int, error) {
	size := data[pos]
	if !size.IsUint64() || size.Uint64() > uint64(len(data)-pos-1) {
		return nil, 0, fmt.Errorf("%w: length %s at felt %d overflows", ErrMalformedResolvingData, size.Hex(), pos)
	}
	end := pos + 1 + int(size.Uint64())
	return data[pos+1 : end], end, nil
}

// EncodeErrorData is the inverse of DecodeErrorData.
func EncodeErrorData(d ResolvingData) ([]*uint256.Int, error) {
	errorType, err := common.EncodeShortString(d.ErrorType)
	if err != nil {
		return nil, err
	}
	labels, err := domain.EncodeDomainStrict(d.DomainSlice)
	if err != nil {
		return nil, err
	}
	res := []*uint256.Int{errorType, uint256.NewInt(uint64(len(labels)))}
	for _, l := range labels {
		f, err := common.BigToFelt(l)
		if err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	for _, uri := range d.URIs {
		chunks := []*uint256.Int{}
		for len(uri) > 0 {
			n := min(len(uri), common.MaxShortStringLength)
			f, err := common.EncodeShortString(uri[:n])
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, f)
			uri = uri[n:]
		}
		res = append(res, uint256.NewInt(uint64(len(chunks))))
		res = append(res, chunks...)
	}
	return res, nil
}

// FormatFailureReason renders felts the way a node reports a reverted call.
func FormatFailureReason(felts []*uint256.Int) string {
	return fmt.Sprintf("Execution failed. Failure reason: (%s).", strings.Join(common.FeltsToHex(felts), ", "))
}
