package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProposalState(t *testing.T) {
	const now = uint64(1700000000)

	tests := []struct {
		name        string
		timelockEnd uint64
		expected    ProposalState
	}{
		{"no intent yet", 0, StatePendingReview},
		{"timelock running", now + 100, StateQueued},
		{"timelock expired", now - 1, StatePendingExecution},
		{"timelock boundary", now, StatePendingExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Proposal{ApprovalTimelockEnd: tt.timelockEnd}
			assert.Equal(t, tt.expected, p.State(now))
		})
	}
}

func TestProposalLegs(t *testing.T) {
	p := Proposal{
		AssetsToTrade:       []string{"0x01", "0x02"},
		AssetsToReceive:     []string{"0x03", "0x04"},
		AmountsIn:           []*big.Int{big.NewInt(1), big.NewInt(2)},
		MinAmountsToReceive: []*big.Int{big.NewInt(1), big.NewInt(2)},
	}
	assert.Equal(t, 2, p.Legs())
	assert.Equal(t, 0, Proposal{}.Legs())
}
