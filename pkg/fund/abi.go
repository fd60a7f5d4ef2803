package fund

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract surfaces consumed by the client. Tuple-returning calls go
// through parsed ABIs; the two plain ERC-20 reads keep hand-packed
// selectors (see reads.go).

const fundTokenABIJSON = `[
  {"type":"function","name":"getTotalValueOfFund","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getValueOfAssetInFund","stateMutability":"view","inputs":[{"name":"asset","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getAssets","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[
    {"name":"asset","type":"address"},
    {"name":"aggregator","type":"address"}]}]}
]`

const fundControllerABIJSON = `[
  {"type":"function","name":"getActiveProposals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[
    {"name":"id","type":"uint256"},
    {"name":"proposer","type":"address"},
    {"name":"assetsToTrade","type":"address[]"},
    {"name":"assetsToReceive","type":"address[]"},
    {"name":"amountsIn","type":"uint256[]"},
    {"name":"minAmountsToReceive","type":"uint256[]"},
    {"name":"approvalTimelockEnd","type":"uint256"}]}]},
  {"type":"function","name":"getProposalById","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"tuple","components":[
    {"name":"id","type":"uint256"},
    {"name":"proposer","type":"address"},
    {"name":"assetsToTrade","type":"address[]"},
    {"name":"assetsToReceive","type":"address[]"},
    {"name":"amountsIn","type":"uint256[]"},
    {"name":"minAmountsToReceive","type":"uint256[]"},
    {"name":"approvalTimelockEnd","type":"uint256"}]}]},
  {"type":"function","name":"getApprovers","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"createProposal","stateMutability":"nonpayable","inputs":[
    {"name":"assetsToTrade","type":"address[]"},
    {"name":"assetsToReceive","type":"address[]"},
    {"name":"amountsIn","type":"uint256[]"},
    {"name":"minAmountsToReceive","type":"uint256[]"}],"outputs":[]},
  {"type":"function","name":"issueUsingStableCoin","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"redeemAssets","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"intentToAccept","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"acceptProposal","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"rejectProposal","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"ProposalCreated","inputs":[{"name":"id","type":"uint256","indexed":false}],"anonymous":false}
]`

const aggregatorABIJSON = `[
  {"type":"function","name":"latestRoundData","stateMutability":"view","inputs":[],"outputs":[
    {"name":"roundId","type":"uint80"},
    {"name":"answer","type":"int256"},
    {"name":"startedAt","type":"uint256"},
    {"name":"updatedAt","type":"uint256"},
    {"name":"answeredInRound","type":"uint80"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var (
	fundTokenABI      abi.ABI
	fundControllerABI abi.ABI
	aggregatorABI     abi.ABI
)

func init() {
	fundTokenABI = mustParseABI(fundTokenABIJSON)
	fundControllerABI = mustParseABI(fundControllerABIJSON)
	aggregatorABI = mustParseABI(aggregatorABIJSON)
}

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// assetPair mirrors the fund token's getAssets() tuple.
type assetPair struct {
	Asset      common.Address
	Aggregator common.Address
}

// proposalData mirrors the controller's Proposal tuple.
type proposalData struct {
	Id                  *big.Int
	Proposer            common.Address
	AssetsToTrade       []common.Address
	AssetsToReceive     []common.Address
	AmountsIn           []*big.Int
	MinAmountsToReceive []*big.Int
	ApprovalTimelockEnd *big.Int
}
