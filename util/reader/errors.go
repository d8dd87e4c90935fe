package reader

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Starknet JSON-RPC error codes the client cares about.
const (
	CodeContractNotFound   = 20
	CodeEntrypointNotFound = 21
	CodeBlockNotFound      = 24
	CodeContractError      = 40
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrContractReverted = errors.New("contract error")
)

// ContractError is a JSON-RPC error answered by a node. Data carries the
// revert reason when the node supplied one.
type ContractError struct {
	Code    int
	Message string
	Data    string
}

func (e *ContractError) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (code %d): %s", e.Message, e.Code, e.Data)
}

func (e *ContractError) Is(target error) bool {
	switch target {
	case ErrContractNotFound:
		return e.Code == CodeContractNotFound
	case ErrContractReverted:
		return e.Code == CodeContractError
	}
	return false
}

// Deterministic reports whether every node would give the same answer, in
// which case asking another node is pointless.
func (e *ContractError) Deterministic() bool {
	switch e.Code {
	case CodeContractNotFound, CodeEntrypointNotFound, CodeContractError:
		return true
	}
	return false
}

func toContractError(err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	res := &ContractError{
		Code:    rpcErr.ErrorCode(),
		Message: rpcErr.Error(),
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		res.Data = errorDataString(dataErr.ErrorData())
	}
	return res
}

func errorDataString(data interface{}) string {
	switch d := data.(type) {
	case nil:
		return ""
	case string:
		return d
	case map[string]interface{}:
		if reason, ok := d["revert_error"]; ok {
			if s, ok := reason.(string); ok {
				return s
			}
			data = reason
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(raw)
}
