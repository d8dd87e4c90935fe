package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
)

const TIMEOUT time.Duration = 10 * time.Second

type OneNodeReader struct {
	nodeName string
	nodeURL  string
	client   *rpc.Client
	mu       sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

// NewOneNodeReaderWithClient wraps an already connected client, typically
// an in-process one.
func NewOneNodeReaderWithClient(name string, client *rpc.Client) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  "inproc",
		client:   client,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) Client(ctx context.Context) (*rpc.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return onr.client, nil
	}
	client, err := rpc.DialContext(ctx, onr.nodeURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	return client, nil
}

func (onr *OneNodeReader) Call(
	ctx context.Context,
	contract, entrypoint string,
	calldata []*uint256.Int,
) ([]*uint256.Int, error) {
	addr, err := common.ParseAddress(contract)
	if err != nil {
		return nil, err
	}
	client, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	req := FunctionCall{
		ContractAddress:    addr.Hex(),
		EntryPointSelector: common.GetSelectorFromName(entrypoint).Hex(),
		Calldata:           common.FeltsToHex(calldata),
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()

	log.Trace("Calling contract", "node", onr.nodeName, "contract", req.ContractAddress, "entrypoint", entrypoint, "calldata", len(calldata))
	var raw []string
	if err := client.CallContext(timeout, &raw, "starknet_call", req, "latest"); err != nil {
		return nil, toContractError(err)
	}
	res := make([]*uint256.Int, 0, len(raw))
	for i, r := range raw {
		f, err := common.HexToFelt(r)
		if err != nil {
			return nil, fmt.Errorf("result felt %d of %s: %w", i, entrypoint, err)
		}
		res = append(res, f)
	}
	return res, nil
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (string, error) {
	client, err := onr.Client(ctx)
	if err != nil {
		return "", err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	var res string
	if err := client.CallContext(timeout, &res, "starknet_chainId"); err != nil {
		return "", toContractError(err)
	}
	return res, nil
}

func (onr *OneNodeReader) Close() {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		onr.client.Close()
		onr.client = nil
	}
}
