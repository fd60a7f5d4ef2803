package fund

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"fundwatch/pkg/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// AssetBinding pairs a fund asset address with its price aggregator.
type AssetBinding struct {
	Asset      string
	Aggregator string
}

// Client is the single chain-facing object the rest of the program
// talks to. It owns the RPC connection, the signer key and one binding
// per fund contract, ERC-20 asset and price aggregator. Reads return
// safe defaults until Initialize has succeeded; writes return errors.
// Safe for concurrent use from multiple polling loops and user actions.
type Client struct {
	cfg config.Config

	initOnce sync.Once
	initErr  error

	eth        *ethclient.Client
	chainID    *big.Int
	key        *ecdsa.PrivateKey
	from       common.Address
	fundToken  common.Address
	controller common.Address
	stablecoin common.Address

	mu          sync.RWMutex
	initialized bool
	assets      []assetPair
	erc20s      map[common.Address]bool
	aggregators map[common.Address]bool
	decimals    map[common.Address]int // memoized per token, bindings are fixed per init
}

// NewClient creates an uninitialized client. Initialize must succeed
// before reads return live values.
func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:         cfg,
		erc20s:      make(map[common.Address]bool),
		aggregators: make(map[common.Address]bool),
		decimals:    make(map[common.Address]int),
	}
}

// Initialize dials the configured endpoint and populates the contract
// bindings, discovering the asset set from the fund token. Idempotent:
// concurrent callers block on the same in-flight attempt and every
// caller sees the same cached outcome, error included.
func (c *Client) Initialize(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.initialize(ctx)
	})
	return c.initErr
}

func (c *Client) initialize(ctx context.Context) error {
	if len(c.cfg.RPCURLs) == 0 {
		return fmt.Errorf("no wallet provider available: configuration has no RPC URLs")
	}
	if strings.TrimSpace(c.cfg.FundTokenAddress) == "" {
		return fmt.Errorf("no fund token address configured")
	}
	if strings.TrimSpace(c.cfg.FundControllerAddress) == "" {
		return fmt.Errorf("no fund controller address configured")
	}

	var lastErr error
	for _, rpcURL := range c.cfg.RPCURLs {
		client, err := ethclient.Dial(rpcURL)
		if err != nil {
			lastErr = err
			continue
		}
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			lastErr = err
			continue
		}
		c.eth = client
		c.chainID = id
		break
	}
	if c.eth == nil {
		return fmt.Errorf("no reachable RPC endpoint: %w", lastErr)
	}

	c.fundToken = common.HexToAddress(c.cfg.FundTokenAddress)
	c.controller = common.HexToAddress(c.cfg.FundControllerAddress)
	c.stablecoin = common.HexToAddress(c.cfg.StablecoinAddress)

	if c.cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(c.cfg.PrivateKey, "0x"))
		if err != nil {
			return fmt.Errorf("invalid signer key: %w", err)
		}
		c.key = key
		c.from = crypto.PubkeyToAddress(key.PublicKey)
	} else if c.cfg.UserAddress != "" {
		c.from = common.HexToAddress(c.cfg.UserAddress)
	}

	assets, err := c.fetchAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to read fund asset list: %w", err)
	}

	c.mu.Lock()
	c.assets = assets
	for _, a := range assets {
		c.erc20s[a.Asset] = true
		c.aggregators[a.Aggregator] = true
	}
	c.initialized = true
	c.mu.Unlock()
	return nil
}

func (c *Client) ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// UserAddress is the address reads and writes act on behalf of.
func (c *Client) UserAddress() string {
	if c.key != nil || c.from != (common.Address{}) {
		return c.from.Hex()
	}
	return ""
}

// Assets lists the asset/aggregator pairs discovered at initialization.
func (c *Client) Assets() []AssetBinding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AssetBinding, 0, len(c.assets))
	for _, a := range c.assets {
		out = append(out, AssetBinding{Asset: a.Asset.Hex(), Aggregator: a.Aggregator.Hex()})
	}
	return out
}

func (c *Client) hasERC20(addr common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.erc20s[addr]
}

func (c *Client) hasAggregator(addr common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aggregators[addr]
}

// call executes a read against a contract. No timeout is layered on
// top of the caller's context: a hung RPC call stalls only the tick
// that issued it, never the ones scheduled after.
func (c *Client) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

func (c *Client) fetchAssets(ctx context.Context) ([]assetPair, error) {
	data, err := fundTokenABI.Pack("getAssets")
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, c.fundToken, data)
	if err != nil {
		return nil, err
	}
	out, err := fundTokenABI.Unpack("getAssets", res)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected getAssets return shape")
	}
	assets := *abi.ConvertType(out[0], new([]assetPair)).(*[]assetPair)
	return assets, nil
}
