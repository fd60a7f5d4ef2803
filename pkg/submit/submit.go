package submit

import (
	"context"
	"fmt"

	"fundwatch/pkg/config"
)

// ChainWriter is the slice of the chain client the submitter uses.
type ChainWriter interface {
	ContributeUsingStableCoin(ctx context.Context, amount string) error
	RedeemFromFund(ctx context.Context, amount string) error
	CreateProposal(ctx context.Context, tradeAddrs, receiveAddrs, tradeAmounts, minReceiveAmounts []string) (uint64, error)
}

// NotesSaver persists justification text for a proposal id.
type NotesSaver interface {
	Save(id uint64, justification string) error
}

// Submitter validates user input, resolves token short names to
// contract addresses and drives the on-chain submission plus, for
// proposals, the dependent off-chain justification save.
type Submitter struct {
	chain ChainWriter
	notes NotesSaver
	cfg   config.Config
}

func NewSubmitter(chain ChainWriter, notes NotesSaver, cfg config.Config) *Submitter {
	return &Submitter{chain: chain, notes: notes, cfg: cfg}
}

// ProposalLeg is one leg of a proposal entered by symbol, amounts as
// human decimal strings.
type ProposalLeg struct {
	FromSymbol string
	ToSymbol   string
	Amount     string
	MinReceive string
}

// Contribute mints fund shares for a stablecoin amount.
func (s *Submitter) Contribute(ctx context.Context, amount string) error {
	return s.chain.ContributeUsingStableCoin(ctx, amount)
}

// Redeem burns fund tokens for underlying assets.
func (s *Submitter) Redeem(ctx context.Context, amount string) error {
	return s.chain.RedeemFromFund(ctx, amount)
}

// SubmitProposal resolves each leg, submits the proposal on-chain and,
// only when the chain assigned a nonzero id, persists the
// justification text. A failed submission never reaches the off-chain
// save.
func (s *Submitter) SubmitProposal(ctx context.Context, legs []ProposalLeg, justification string) (uint64, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("proposal has no legs")
	}

	tradeAddrs := make([]string, len(legs))
	receiveAddrs := make([]string, len(legs))
	amounts := make([]string, len(legs))
	minAmounts := make([]string, len(legs))
	for i, leg := range legs {
		from, ok := s.cfg.TokenBySymbol(leg.FromSymbol)
		if !ok {
			return 0, fmt.Errorf("unknown token %q", leg.FromSymbol)
		}
		to, ok := s.cfg.TokenBySymbol(leg.ToSymbol)
		if !ok {
			return 0, fmt.Errorf("unknown token %q", leg.ToSymbol)
		}
		tradeAddrs[i] = from.Address
		receiveAddrs[i] = to.Address
		amounts[i] = leg.Amount
		minAmounts[i] = leg.MinReceive
	}

	id, err := s.chain.CreateProposal(ctx, tradeAddrs, receiveAddrs, amounts, minAmounts)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, nil
	}

	if justification != "" && s.notes != nil {
		if err := s.notes.Save(id, justification); err != nil {
			return id, fmt.Errorf("proposal %d created but justification save failed: %w", id, err)
		}
	}
	return id, nil
}
