package profile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

const (
	DefaultIPFSGateway  = "https://gateway.pinata.cloud/ipfs/"
	DefaultIdenticonURL = "https://identicon.starknet.id"

	ipfsScheme = "ipfs://"
)

var ErrNoImage = errors.New("metadata has no image")

type ImageResolver struct {
	HTTPClient   *http.Client
	IPFSGateway  string
	IdenticonURL string
}

// NewImageResolver fills every empty setting with its default.
func NewImageResolver(httpClient *http.Client, ipfsGateway, identiconURL string) *ImageResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if ipfsGateway == "" {
		ipfsGateway = DefaultIPFSGateway
	}
	if identiconURL == "" {
		identiconURL = DefaultIdenticonURL
	}
	return &ImageResolver{
		HTTPClient:   httpClient,
		IPFSGateway:  ipfsGateway,
		IdenticonURL: strings.TrimRight(identiconURL, "/"),
	}
}

type metadata struct {
	Image string `json:"image"`
}

func imageOf(raw []byte) (string, error) {
	m := metadata{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", fmt.Errorf("decoding metadata: %w", err)
	}
	if m.Image == "" {
		return "", ErrNoImage
	}
	return m.Image, nil
}

// ParseBase64Image reads the image field of a data URI holding base64 json.
// Some collections append a stray character to the payload; it is dropped
// when the payload does not decode as is.
func (r *ImageResolver) ParseBase64Image(metadata string) (string, error) {
	idx := strings.Index(metadata, ",")
	if idx < 0 {
		return "", fmt.Errorf("metadata %q is not a data uri", metadata)
	}
	payload := metadata[idx+1:]
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil && len(payload) > 0 {
		raw, err = base64.StdEncoding.DecodeString(payload[:len(payload)-1])
	}
	if err != nil {
		return "", fmt.Errorf("decoding base64 metadata: %w", err)
	}
	img, err := imageOf(raw)
	if err != nil {
		return "", err
	}
	return r.gateway(img), nil
}

// FetchImageURL downloads the json metadata at uri and returns its image.
func (r *ImageResolver) FetchImageURL(ctx context.Context, uri string) (string, error) {
	url := r.gateway(uri)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request to %s: %w", url, err)
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching metadata %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching metadata %s: status %d", url, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading metadata %s: %w", url, err)
	}
	img, err := imageOf(raw)
	if err != nil {
		return "", err
	}
	return r.gateway(img), nil
}

func (r *ImageResolver) Identicon(id *uint256.Int) string {
	return fmt.Sprintf("%s/%s", r.IdenticonURL, id.Dec())
}

func (r *ImageResolver) gateway(uri string) string {
	if strings.HasPrefix(uri, ipfsScheme) {
		return r.IPFSGateway + strings.TrimPrefix(uri, ipfsScheme)
	}
	return uri
}

// Picture applies the picture precedence: embedded base64 metadata, then
// metadata fetched over http, then the identicon when useDefault is set.
// Metadata that cannot be read falls through to the next rule.
func (r *ImageResolver) Picture(ctx context.Context, d *Decoded, useDefault bool) (*string, error) {
	if d.Metadata != "" {
		var (
			img string
			err error
		)
		if strings.Contains(d.Metadata, "base64") {
			img, err = r.ParseBase64Image(d.Metadata)
		} else {
			img, err = r.FetchImageURL(ctx, d.Metadata)
		}
		if err == nil {
			return &img, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Debug("Could not read profile picture metadata", "id", d.ID.Dec(), "err", err)
	}
	if useDefault {
		return str(r.Identicon(d.ID)), nil
	}
	return nil, nil
}
