package multicall

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	ErrForwardReference  = errors.New("call references an output that is not produced before it")
	ErrIncompleteCall    = errors.New("call is missing a field")
	ErrMalformedCalldata = errors.New("malformed multicall calldata")
	ErrMalformedResults  = errors.New("malformed multicall results")
)

// Validate checks that every reference points to a strictly earlier call.
func Validate(calls []Call) error {
	for i, c := range calls {
		if c.Execution == nil || c.To == nil || c.Selector == nil {
			return fmt.Errorf("call %d: %w", i, ErrIncompleteCall)
		}
		slots := append([]DynamicFelt{c.To, c.Selector}, c.Calldata...)
		for _, s := range slots {
			if s == nil {
				return fmt.Errorf("call %d: %w", i, ErrIncompleteCall)
			}
			if h, ok := s.(Hardcoded); ok && h.Value == nil {
				return fmt.Errorf("call %d: hardcoded value: %w", i, ErrIncompleteCall)
			}
			if err := checkDependency(i, s); err != nil {
				return err
			}
		}
		if err := checkDependency(i, c.Execution); err != nil {
			return err
		}
		switch e := c.Execution.(type) {
		case IfEqual:
			if e.Value == nil {
				return fmt.Errorf("call %d: condition value: %w", i, ErrIncompleteCall)
			}
		case IfNotEqual:
			if e.Value == nil {
				return fmt.Errorf("call %d: condition value: %w", i, ErrIncompleteCall)
			}
		}
	}
	return nil
}

func checkDependency(i int, d interface{ dependency() (int, int, bool) }) error {
	call, pos, ok := d.dependency()
	if !ok {
		return nil
	}
	if call < 0 || pos < 0 || call >= i {
		return fmt.Errorf("call %d reads output %d at %d: %w", i, call, pos, ErrForwardReference)
	}
	return nil
}

// Calldata serializes calls for the aggregate entrypoint.
func Calldata(calls []Call) []*uint256.Int {
	res := []*uint256.Int{u(len(calls))}
	for _, c := range calls {
		res = append(res, c.Execution.encode()...)
		res = append(res, c.To.encode()...)
		res = append(res, c.Selector.encode()...)
		res = append(res, u(len(c.Calldata)))
		for _, d := range c.Calldata {
			res = append(res, d.encode()...)
		}
	}
	return res
}

type cursor struct {
	data []*uint256.Int
	pos  int
}

func (c *cursor) next() (*uint256.Int, error) {
	if c.pos >= len(c.data) {
		return nil, fmt.Errorf("%w: unexpected end at felt %d", ErrMalformedCalldata, c.pos)
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) nextInt() (int, error) {
	v, err := c.next()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > uint64(len(c.data))*64 {
		return 0, fmt.Errorf("%w: %s is not a valid index at felt %d", ErrMalformedCalldata, v.Hex(), c.pos-1)
	}
	return int(v.Uint64()), nil
}

func (c *cursor) execution() (Execution, error) {
	variant, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	if uint64(variant) == executionStatic {
		return Static{}, nil
	}
	call, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	pos, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	value, err := c.next()
	if err != nil {
		return nil, err
	}
	switch uint64(variant) {
	case executionIfEqual:
		return IfEqual{Call: call, Pos: pos, Value: value}, nil
	case executionIfNotEqual:
		return IfNotEqual{Call: call, Pos: pos, Value: value}, nil
	}
	return nil, fmt.Errorf("%w: unknown execution variant %d", ErrMalformedCalldata, variant)
}

func (c *cursor) dynamicFelt() (DynamicFelt, error) {
	variant, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	if uint64(variant) == feltHardcoded {
		v, err := c.next()
		if err != nil {
			return nil, err
		}
		return Hardcode(v), nil
	}
	call, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	pos, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	switch uint64(variant) {
	case feltReference:
		return Ref(call, pos), nil
	case feltArrayReference:
		return ArrayRef(call, pos), nil
	}
	return nil, fmt.Errorf("%w: unknown felt variant %d", ErrMalformedCalldata, variant)
}

// ParseCalldata is the inverse of Calldata.
func ParseCalldata(data []*uint256.Int) ([]Call, error) {
	c := &cursor{data: data}
	n, err := c.nextInt()
	if err != nil {
		return nil, err
	}
	calls := make([]Call, 0, n)
	for i := 0; i < n; i++ {
		var call Call
		if call.Execution, err = c.execution(); err != nil {
			return nil, err
		}
		if call.To, err = c.dynamicFelt(); err != nil {
			return nil, err
		}
		if call.Selector, err = c.dynamicFelt(); err != nil {
			return nil, err
		}
		size, err := c.nextInt()
		if err != nil {
			return nil, err
		}
		call.Calldata = make([]DynamicFelt, 0, size)
		for j := 0; j < size; j++ {
			d, err := c.dynamicFelt()
			if err != nil {
				return nil, err
			}
			call.Calldata = append(call.Calldata, d)
		}
		calls = append(calls, call)
	}
	if c.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing felts", ErrMalformedCalldata, len(data)-c.pos)
	}
	return calls, nil
}

// DecodeResults splits the aggregate output, an array of felt arrays, into
// one slice per call.
func DecodeResults(raw []*uint256.Int) ([][]*uint256.Int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedResults)
	}
	if !raw[0].IsUint64() || raw[0].Uint64() > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: bad call count %s", ErrMalformedResults, raw[0].Hex())
	}
	n := int(raw[0].Uint64())
	res := make([][]*uint256.Int, 0, n)
	pos := 1
	for i := 0; i < n; i++ {
		if pos >= len(raw) {
			return nil, fmt.Errorf("%w: missing length of result %d", ErrMalformedResults, i)
		}
		size := raw[pos]
		if !size.IsUint64() || size.Uint64() > uint64(len(raw)-pos-1) {
			return nil, fmt.Errorf("%w: result %d overflows the output", ErrMalformedResults, i)
		}
		end := pos + 1 + int(size.Uint64())
		res = append(res, raw[pos+1:end])
		pos = end
	}
	if pos != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing felts", ErrMalformedResults, len(raw)-pos)
	}
	return res, nil
}
