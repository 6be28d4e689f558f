package kiln

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/params"
)

// DefaultBaseURL is the public Kiln API endpoint.
const DefaultBaseURL = "https://api.kiln.fi"

// stakesPageSize bounds how many positions one price probe pulls.
const stakesPageSize = 25

// Client is a REST client for the Kiln staking API, used to sample a live
// validator balance as the reference node price.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Kiln API client. baseURL falls back to
// DefaultBaseURL when empty; apiKey is optional for public endpoints.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchStakes returns the first page of ETH staking positions.
func (c *Client) FetchStakes(ctx context.Context) ([]Stake, error) {
	url := fmt.Sprintf("%s/v1/eth/stakes?page_size=%d", c.baseURL, stakesPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("kiln: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kiln: fetch stakes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kiln: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kiln: fetch stakes: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var decoded stakesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("kiln: decode stakes: %w", err)
	}

	return decoded.Data, nil
}

// NodePrice samples the current node price: the balance of the first reported
// staking position, converted from wei to ETH.
func (c *Client) NodePrice(ctx context.Context) (float64, error) {
	stakes, err := c.FetchStakes(ctx)
	if err != nil {
		return 0, err
	}
	if len(stakes) == 0 {
		return 0, fmt.Errorf("kiln: node price: no staking positions reported")
	}
	return weiToEth(stakes[0].Balance)
}

// weiToEth converts a decimal wei string into ETH. Balances exceed int64, so
// the conversion goes through big.Int.
func weiToEth(wei string) (float64, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok {
		return 0, fmt.Errorf("kiln: malformed wei balance %q", wei)
	}
	eth := new(big.Float).Quo(
		new(big.Float).SetInt(n),
		new(big.Float).SetFloat64(params.Ether),
	)
	out, _ := eth.Float64()
	return out, nil
}
