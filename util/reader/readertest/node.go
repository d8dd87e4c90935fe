// Package readertest runs an in-process Starknet JSON-RPC node whose
// contracts are plain Go functions.
package readertest

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
	"github.com/tranvictor/starknetid/util/reader"
)

// Handler plays the role of one contract entrypoint.
type Handler func(calldata []*uint256.Int) ([]*uint256.Int, error)

type RecordedCall struct {
	Contract *uint256.Int
	Selector *uint256.Int
	Calldata []*uint256.Int
}

type Node struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []RecordedCall
	chainID  string

	server *rpc.Server
	reader *reader.OneNodeReader
}

func NewNode() *Node {
	n := &Node{
		handlers: map[string]Handler{},
		chainID:  "0x534e5f4d41494e",
		server:   rpc.NewServer(),
	}
	if err := n.server.RegisterName("starknet", &starknetService{node: n}); err != nil {
		panic(err)
	}
	n.reader = reader.NewOneNodeReaderWithClient("fake", rpc.DialInProc(n.server))
	return n
}

func (n *Node) Reader() *reader.OneNodeReader {
	return n.reader
}

func (n *Node) SetChainID(chainID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = chainID
}

func (n *Node) Close() {
	n.reader.Close()
	n.server.Stop()
}

func key(contract, selector *uint256.Int) string {
	return contract.Hex() + "/" + selector.Hex()
}

// Handle installs h as contract.entrypoint, replacing any previous handler.
func (n *Node) Handle(contract, entrypoint string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[key(common.MustHexToFelt(contract), common.GetSelectorFromName(entrypoint))] = h
}

// Dispatch runs the handler registered for contract and selector. Contracts
// calling other contracts, like an aggregator, go through it as well.
func (n *Node) Dispatch(contract, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error) {
	n.mu.Lock()
	h, ok := n.handlers[key(contract, selector)]
	n.calls = append(n.calls, RecordedCall{
		Contract: contract,
		Selector: selector,
		Calldata: calldata,
	})
	n.mu.Unlock()
	if !ok {
		return nil, &Error{
			Code:    reader.CodeEntrypointNotFound,
			Message: fmt.Sprintf("Requested entrypoint %s of %s does not exist", selector.Hex(), contract.Hex()),
		}
	}
	return h(calldata)
}

func (n *Node) Calls() []RecordedCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]RecordedCall{}, n.calls...)
}

// CallCount counts calls to entrypoint on any contract.
func (n *Node) CallCount(entrypoint string) int {
	selector := common.GetSelectorFromName(entrypoint)
	count := 0
	for _, c := range n.Calls() {
		if c.Selector.Eq(selector) {
			count++
		}
	}
	return count
}

type starknetService struct {
	node *Node
}

func (s *starknetService) Call(req reader.FunctionCall, block string) ([]string, error) {
	contract, err := common.HexToFelt(req.ContractAddress)
	if err != nil {
		return nil, &Error{Code: -32602, Message: err.Error()}
	}
	selector, err := common.HexToFelt(req.EntryPointSelector)
	if err != nil {
		return nil, &Error{Code: -32602, Message: err.Error()}
	}
	calldata := make([]*uint256.Int, 0, len(req.Calldata))
	for _, c := range req.Calldata {
		f, err := common.HexToFelt(c)
		if err != nil {
			return nil, &Error{Code: -32602, Message: err.Error()}
		}
		calldata = append(calldata, f)
	}
	res, err := s.node.Dispatch(contract, selector, calldata)
	if err != nil {
		return nil, err
	}
	return common.FeltsToHex(res), nil
}

func (s *starknetService) ChainId() string {
	s.node.mu.Lock()
	defer s.node.mu.Unlock()
	return s.node.chainID
}

// Error makes the node answer with a JSON-RPC error.
type Error struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *Error) Error() string          { return e.Message }
func (e *Error) ErrorCode() int         { return e.Code }
func (e *Error) ErrorData() interface{} { return e.Data }

// Revert answers like a node whose contract call failed with reason.
func Revert(reason string) error {
	return &Error{
		Code:    reader.CodeContractError,
		Message: "Contract error",
		Data:    map[string]interface{}{"revert_error": reason},
	}
}

// Felts is shorthand for building handler results.
func Felts(values ...uint64) []*uint256.Int {
	res := make([]*uint256.Int, 0, len(values))
	for _, v := range values {
		res = append(res, uint256.NewInt(v))
	}
	return res
}
