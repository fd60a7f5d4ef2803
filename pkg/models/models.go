package models

import (
	"math/big"
	"time"
)

// ProposalState describes where a proposal sits in its lifecycle.
type ProposalState string

const (
	StatePendingReview    ProposalState = "Pending Review"
	StateQueued           ProposalState = "Queued"
	StatePendingExecution ProposalState = "Pending Execution"
)

// Asset is one ERC-20 held by the fund, projected into display form.
type Asset struct {
	Address     string
	Name        string
	Symbol      string
	Color       string
	Decimals    int
	Holdings    string // token units, 2 decimal places
	DollarValue string // USD, 2 decimal places
	Price       string // aggregator USD price, 2 decimal places
}

// Proposal is a pending asset-trade governance action. The four leg
// arrays are always equal length, one entry per swap leg.
type Proposal struct {
	ID                  uint64
	Proposer            string
	AssetsToTrade       []string
	AssetsToReceive     []string
	AmountsIn           []*big.Int
	MinAmountsToReceive []*big.Int
	ApprovalTimelockEnd uint64
	Justification       string
}

// State classifies the proposal against the current block timestamp.
func (p Proposal) State(blockTime uint64) ProposalState {
	switch {
	case p.ApprovalTimelockEnd == 0:
		return StatePendingReview
	case p.ApprovalTimelockEnd > blockTime:
		return StateQueued
	default:
		return StatePendingExecution
	}
}

// Legs returns the number of swap legs in the proposal.
func (p Proposal) Legs() int {
	return len(p.AssetsToTrade)
}

// UserPosition is the caller's stake in the fund, recomputed every
// poll tick and never persisted.
type UserPosition struct {
	Balance          string // fund tokens, 2 decimal places
	OwnershipPercent string // "NN.NN%"
	DollarStake      string // USD, 2 decimal places
}

// FundSnapshot is the full fund state fetched by one poll tick. Each
// tick replaces the previous snapshot wholesale.
type FundSnapshot struct {
	TotalValue  string
	TokenSupply string
	UserBalance string
	Assets      []Asset
	Proposals   []Proposal
	Governors   []string
	BlockTime   uint64
	FetchedAt   time.Time
}

// RPCResult holds test results for a specific RPC URL.
type RPCResult struct {
	URL    string `json:"url"`
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// TestReport holds the results of the configuration test.
type TestReport struct {
	ConfigPath      string      `json:"config_path"`
	ValidStructure  bool        `json:"valid_structure"`
	StructureErrors []string    `json:"structure_errors,omitempty"`
	RPCs            []RPCResult `json:"rpcs,omitempty"`
	AssetCount      int         `json:"asset_count"`
	UnknownAssets   []string    `json:"unknown_assets,omitempty"`
	DryRun          bool        `json:"dry_run"`
}
