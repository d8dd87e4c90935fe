package reader_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/networks"
	"github.com/tranvictor/starknetid/util/reader"
	"github.com/tranvictor/starknetid/util/reader/readertest"
)

const contract = "0x05dbdedc203e92749e2e746e2d40a768d966bd243df04a6b712e222bc040a9af"

type brokenNode struct {
	name string
	err  error
}

func (b *brokenNode) NodeName() string { return b.name }
func (b *brokenNode) NodeURL() string  { return "http://" + b.name }
func (b *brokenNode) ChainID(ctx context.Context) (string, error) {
	return "", b.err
}
func (b *brokenNode) Call(ctx context.Context, contract, entrypoint string, calldata []*uint256.Int) ([]*uint256.Int, error) {
	return nil, b.err
}

func TestOneNodeReaderCall(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	node.Handle(contract, "get_user_data", func(calldata []*uint256.Int) ([]*uint256.Int, error) {
		require.Len(t, calldata, 3)
		return []*uint256.Int{new(uint256.Int).Add(calldata[0], calldata[1])}, nil
	})

	res, err := node.Reader().Call(context.Background(), contract, "get_user_data", readertest.Felts(40, 2, 0))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, uint64(42), res[0].Uint64())

	calls := node.Calls()
	require.Len(t, calls, 1)
	require.True(t, calls[0].Selector.Eq(common.GetSelectorFromName("get_user_data")))
}

func TestOneNodeReaderRejectsBadContract(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	_, err := node.Reader().Call(context.Background(), "ben.stark", "get_user_data", nil)
	require.ErrorIs(t, err, common.ErrInvalidAddress)
}

func TestOneNodeReaderContractErrors(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()

	node.Handle(contract, "domain_to_address", func([]*uint256.Int) ([]*uint256.Int, error) {
		return nil, readertest.Revert("Execution failed. Failure reason: (0x6f6666636861696e5f7265736f6c76696e67, 0x1).")
	})

	_, err := node.Reader().Call(context.Background(), contract, "domain_to_address", nil)
	require.ErrorIs(t, err, reader.ErrContractReverted)
	var ce *reader.ContractError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, reader.CodeContractError, ce.Code)
	require.True(t, strings.Contains(err.Error(), "Failure reason: (0x6f6666636861696e5f7265736f6c76696e67, 0x1)."))

	_, err = node.Reader().Call(context.Background(), contract, "missing", nil)
	require.True(t, errors.As(err, &ce))
	require.Equal(t, reader.CodeEntrypointNotFound, ce.Code)
}

func TestOneNodeReaderChainID(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()
	node.SetChainID("0x534e5f5345504f4c4941")

	id, err := node.Reader().ChainID(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0x534e5f5345504f4c4941", id)
}

// ---------------------------------------------------------------------------
// fan-out
// ---------------------------------------------------------------------------

func TestStarknetReaderPrefersWorkingNode(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()
	node.Handle(contract, "domain_to_id", func([]*uint256.Int) ([]*uint256.Int, error) {
		return readertest.Felts(7), nil
	})

	r := reader.NewStarknetReaderWithNodes(
		&brokenNode{name: "down", err: errors.New("connection refused")},
		node.Reader(),
	)
	res, err := r.Call(context.Background(), contract, "domain_to_id", readertest.Felts(1, 18925))
	require.NoError(t, err)
	require.Equal(t, uint64(7), res[0].Uint64())
}

func TestStarknetReaderReportsAllFailures(t *testing.T) {
	r := reader.NewStarknetReaderWithNodes(
		&brokenNode{name: "a", err: errors.New("timeout")},
		&brokenNode{name: "b", err: errors.New("connection refused")},
	)
	_, err := r.Call(context.Background(), contract, "domain_to_id", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't read from any nodes")
	require.Contains(t, err.Error(), "a: timeout")
	require.Contains(t, err.Error(), "b: connection refused")
}

func TestStarknetReaderReturnsRevertUnwrapped(t *testing.T) {
	revert := &reader.ContractError{Code: reader.CodeContractError, Message: "Contract error", Data: "boom"}
	r := reader.NewStarknetReaderWithNodes(&brokenNode{name: "a", err: revert})
	_, err := r.Call(context.Background(), contract, "domain_to_id", nil)
	require.Same(t, revert, err)
}

func TestNewStarknetReaderNeedsNodes(t *testing.T) {
	_, err := reader.NewStarknetReader(networks.StarknetMainnet)
	require.NoError(t, err)

	empty := networks.NewGenericNetwork(networks.GenericNetworkConfig{Name: "empty", ID: "SN_EMPTY"})
	_, err = reader.NewStarknetReader(empty)
	require.ErrorContains(t, err, "has no nodes")
}

func TestStarknetReaderChainID(t *testing.T) {
	node := readertest.NewNode()
	defer node.Close()
	node.SetChainID(networks.SNSepolia.ChainID())

	r := reader.NewStarknetReaderWithNodes(
		&brokenNode{name: "a", err: errors.New("timeout")},
		node.Reader(),
	)
	chainID, err := r.ChainID(context.Background())
	require.NoError(t, err)
	id, err := networks.NetworkIDFromChainID(chainID)
	require.NoError(t, err)
	require.Equal(t, networks.SNSepolia, id)
}
