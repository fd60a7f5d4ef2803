package fund

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"fundwatch/pkg/models"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Read operations never fail: before a successful Initialize, or when
// the underlying call errors, they log and return a safe default so
// callers need no nil-checks. The one exception is FundProposalByID,
// whose callers build transactions and need to see partial failure.

// 4-byte selectors for the two plain ERC-20 reads.
var (
	selBalanceOf = []byte{0x70, 0xa0, 0x82, 0x31} // balanceOf(address)
	selDecimals  = []byte{0x31, 0x3c, 0xe5, 0x67} // decimals()
)

// fundTokenNativeDecimals is the fixed-point precision of the fund
// token and of every USD value the fund contracts report.
const fundTokenNativeDecimals = 18

// FundTotalValue returns the fund's total USD value, 2 decimal places.
func (c *Client) FundTotalValue(ctx context.Context) string {
	if !c.ready() {
		return ZeroAmount
	}
	v, err := c.callUint(ctx, c.fundToken, fundTokenABI, "getTotalValueOfFund")
	if err != nil {
		log.Printf("[ERROR] getTotalValueOfFund: %v", err)
		return ZeroAmount
	}
	return FormatUnits(v, fundTokenNativeDecimals)
}

// FTokenTotalSupply returns the fund token total supply.
func (c *Client) FTokenTotalSupply(ctx context.Context) string {
	if !c.ready() {
		return ZeroAmount
	}
	v, err := c.callUint(ctx, c.fundToken, fundTokenABI, "totalSupply")
	if err != nil {
		log.Printf("[ERROR] totalSupply: %v", err)
		return ZeroAmount
	}
	return FormatUnits(v, fundTokenNativeDecimals)
}

// FundTokenAmountOf returns a holder's fund token balance.
func (c *Client) FundTokenAmountOf(ctx context.Context, holder string) string {
	if !c.ready() {
		return ZeroAmount
	}
	v, err := c.callUint(ctx, c.fundToken, fundTokenABI, "balanceOf", common.HexToAddress(holder))
	if err != nil {
		log.Printf("[ERROR] fund token balanceOf: %v", err)
		return ZeroAmount
	}
	return FormatUnits(v, fundTokenNativeDecimals)
}

// ERC20HoldingsInFund returns how many units of an asset the fund
// holds, converted with that token's own on-chain decimals.
func (c *Client) ERC20HoldingsInFund(ctx context.Context, address string) string {
	addr := common.HexToAddress(address)
	if !c.ready() || !c.hasERC20(addr) {
		return ZeroAmount
	}
	bal, err := c.erc20BalanceOf(ctx, addr, c.fundToken)
	if err != nil {
		log.Printf("[ERROR] holdings of %s: %v", address, err)
		return ZeroAmount
	}
	decimals, err := c.erc20Decimals(ctx, addr)
	if err != nil {
		log.Printf("[ERROR] decimals of %s: %v", address, err)
		return ZeroAmount
	}
	return FormatUnits(bal, decimals)
}

// ERC20ValueInFund returns the USD value of one asset inside the fund.
func (c *Client) ERC20ValueInFund(ctx context.Context, address string) string {
	addr := common.HexToAddress(address)
	if !c.ready() || !c.hasERC20(addr) {
		return ZeroAmount
	}
	v, err := c.callUint(ctx, c.fundToken, fundTokenABI, "getValueOfAssetInFund", addr)
	if err != nil {
		log.Printf("[ERROR] getValueOfAssetInFund %s: %v", address, err)
		return ZeroAmount
	}
	return FormatUnits(v, fundTokenNativeDecimals)
}

// AggregatorPrice returns the latest USD reference price reported by a
// price aggregator, converted with the aggregator's own decimals.
func (c *Client) AggregatorPrice(ctx context.Context, address string) string {
	addr := common.HexToAddress(address)
	if !c.ready() || !c.hasAggregator(addr) {
		return ZeroAmount
	}

	data, err := aggregatorABI.Pack("latestRoundData")
	if err != nil {
		return ZeroAmount
	}
	res, err := c.call(ctx, addr, data)
	if err != nil {
		log.Printf("[ERROR] latestRoundData %s: %v", address, err)
		return ZeroAmount
	}
	out, err := aggregatorABI.Unpack("latestRoundData", res)
	if err != nil || len(out) < 2 {
		log.Printf("[ERROR] latestRoundData %s: bad response", address)
		return ZeroAmount
	}
	answer, ok := out[1].(*big.Int)
	if !ok {
		return ZeroAmount
	}

	decimals, err := c.callUint(ctx, addr, aggregatorABI, "decimals")
	if err != nil {
		log.Printf("[ERROR] aggregator decimals %s: %v", address, err)
		return ZeroAmount
	}
	return FormatUnits(answer, int(decimals.Int64()))
}

// ERC20Decimals returns a token's on-chain decimals, memoized after
// the first read. Assuming 18 here is exactly the bug this exists to
// avoid: every conversion asks the token itself.
func (c *Client) ERC20Decimals(ctx context.Context, address string) (int, error) {
	if !c.ready() {
		return 0, fmt.Errorf("client not initialized")
	}
	return c.erc20Decimals(ctx, common.HexToAddress(address))
}

// FundActiveProposals returns the proposals currently open for
// governance. Empty on any failure; the next poll tick retries.
func (c *Client) FundActiveProposals(ctx context.Context) []models.Proposal {
	if !c.ready() {
		return nil
	}
	data, err := fundControllerABI.Pack("getActiveProposals")
	if err != nil {
		return nil
	}
	res, err := c.call(ctx, c.controller, data)
	if err != nil {
		log.Printf("[ERROR] getActiveProposals: %v", err)
		return nil
	}
	out, err := fundControllerABI.Unpack("getActiveProposals", res)
	if err != nil || len(out) != 1 {
		log.Printf("[ERROR] getActiveProposals: bad response")
		return nil
	}
	raw := *abi.ConvertType(out[0], new([]proposalData)).(*[]proposalData)
	proposals := make([]models.Proposal, 0, len(raw))
	for _, p := range raw {
		proposals = append(proposals, toProposal(p))
	}
	return proposals
}

// FundProposalByID fetches one proposal. Unlike the other reads this
// returns the wrapped error: callers use the result to build
// transactions and must see the failure.
func (c *Client) FundProposalByID(ctx context.Context, id uint64) (models.Proposal, error) {
	if !c.ready() {
		return models.Proposal{}, fmt.Errorf("client not initialized")
	}
	data, err := fundControllerABI.Pack("getProposalById", new(big.Int).SetUint64(id))
	if err != nil {
		return models.Proposal{}, fmt.Errorf("proposal %d lookup: %w", id, err)
	}
	res, err := c.call(ctx, c.controller, data)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("proposal %d lookup: %w", id, err)
	}
	out, err := fundControllerABI.Unpack("getProposalById", res)
	if err != nil || len(out) != 1 {
		return models.Proposal{}, fmt.Errorf("proposal %d lookup: bad response", id)
	}
	raw := *abi.ConvertType(out[0], new(proposalData)).(*proposalData)
	return toProposal(raw), nil
}

// Governors lists the addresses allowed to vote on proposals.
func (c *Client) Governors(ctx context.Context) []string {
	if !c.ready() {
		return nil
	}
	data, err := fundControllerABI.Pack("getApprovers")
	if err != nil {
		return nil
	}
	res, err := c.call(ctx, c.controller, data)
	if err != nil {
		log.Printf("[ERROR] getApprovers: %v", err)
		return nil
	}
	out, err := fundControllerABI.Unpack("getApprovers", res)
	if err != nil || len(out) != 1 {
		log.Printf("[ERROR] getApprovers: bad response")
		return nil
	}
	addrs, ok := out[0].([]common.Address)
	if !ok {
		return nil
	}
	governors := make([]string, 0, len(addrs))
	for _, a := range addrs {
		governors = append(governors, a.Hex())
	}
	return governors
}

// BlockTimestamp returns the latest block time, 0 on failure.
func (c *Client) BlockTimestamp(ctx context.Context) uint64 {
	if !c.ready() {
		return 0
	}
	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		log.Printf("[ERROR] latest header: %v", err)
		return 0
	}
	return header.Time
}

func (c *Client) callUint(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, to, data)
	if err != nil {
		return nil, err
	}
	out, err := parsed.Unpack(method, res)
	if err != nil || len(out) != 1 {
		return nil, fmt.Errorf("%s: bad response", method)
	}
	switch v := out[0].(type) {
	case *big.Int:
		return v, nil
	case uint8:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("%s: unexpected return type %T", method, out[0])
	}
}

func (c *Client) erc20BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	data := make([]byte, 4+32)
	copy(data[0:4], selBalanceOf)
	copy(data[4+12:], holder.Bytes())
	res, err := c.call(ctx, token, data)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(res), nil
}

func (c *Client) erc20Decimals(ctx context.Context, token common.Address) (int, error) {
	c.mu.RLock()
	d, ok := c.decimals[token]
	c.mu.RUnlock()
	if ok {
		return d, nil
	}

	res, err := c.call(ctx, token, selDecimals)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("empty decimals response from %s", token.Hex())
	}
	d = int(new(big.Int).SetBytes(res).Int64())

	c.mu.Lock()
	c.decimals[token] = d
	c.mu.Unlock()
	return d, nil
}

func toProposal(p proposalData) models.Proposal {
	out := models.Proposal{
		AmountsIn:           p.AmountsIn,
		MinAmountsToReceive: p.MinAmountsToReceive,
	}
	if p.Id != nil {
		out.ID = p.Id.Uint64()
	}
	out.Proposer = p.Proposer.Hex()
	if p.ApprovalTimelockEnd != nil {
		out.ApprovalTimelockEnd = p.ApprovalTimelockEnd.Uint64()
	}
	for _, a := range p.AssetsToTrade {
		out.AssetsToTrade = append(out.AssetsToTrade, a.Hex())
	}
	for _, a := range p.AssetsToReceive {
		out.AssetsToReceive = append(out.AssetsToReceive, a.Hex())
	}
	return out
}
