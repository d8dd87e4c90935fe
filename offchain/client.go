package offchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/tranvictor/starknetid/common"
)

const DefaultTimeout = 10 * time.Second

// ServerError is a well formed refusal from a resolver. The next URI should
// be tried.
type ServerError struct {
	URI        string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("resolver %s answered %d: %s", e.URI, e.StatusCode, e.Message)
}

// Response is what a resolver returns for a domain slice.
type Response struct {
	Address     string      `json:"address"`
	R           string      `json:"r"`
	S           string      `json:"s"`
	MaxValidity json.Number `json:"max_validity"`
	Error       string      `json:"error,omitempty"`
}

// Hint is the felt array the naming contract expects as its hint argument:
// address, r, s, max validity.
func (r *Response) Hint() ([]*uint256.Int, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"address", r.Address},
		{"r", r.R},
		{"s", r.S},
		{"max_validity", r.MaxValidity.String()},
	}
	res := make([]*uint256.Int, 0, len(fields))
	for _, f := range fields {
		v, err := common.ParseFelt(f.value)
		if err != nil {
			return nil, fmt.Errorf("resolver response field %s: %w", f.name, err)
		}
		res = append(res, v)
	}
	return res, nil
}

type Client struct {
	httpClient *http.Client
}

// NewClient uses httpClient, or a client with DefaultTimeout when nil.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{httpClient: httpClient}
}

// Query asks the resolver at uri for domainSlice. Transport failures are
// returned as is; refusals come back as *ServerError.
func (c *Client) Query(ctx context.Context, uri, domainSlice string) (*Response, error) {
	url := uri + domainSlice
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request to %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Querying off-chain resolver", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response of %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "Error while querying server"
		}
		return nil, &ServerError{URI: uri, StatusCode: resp.StatusCode, Message: msg}
	}

	res := &Response{}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, &ServerError{URI: uri, StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid json: %s", err)}
	}
	if res.Error != "" {
		return nil, &ServerError{URI: uri, StatusCode: resp.StatusCode, Message: res.Error}
	}
	return res, nil
}
