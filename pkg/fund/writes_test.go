package fund

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

func TestProposalIDFromLogs(t *testing.T) {
	controller := common.HexToAddress("0x00000000000000000000000000000000000000c1")
	other := common.HexToAddress("0x00000000000000000000000000000000000000c2")

	event := fundControllerABI.Events["ProposalCreated"]
	data, err := event.Inputs.Pack(big.NewInt(42))
	if err != nil {
		t.Fatalf("packing event data: %v", err)
	}

	logs := []*types.Log{
		// Same event from another contract: ignored.
		{Address: other, Topics: []common.Hash{event.ID}, Data: data},
		// Unrelated event from the controller: ignored.
		{Address: controller, Topics: []common.Hash{common.HexToHash("0xdead")}, Data: data},
		{Address: controller, Topics: []common.Hash{event.ID}, Data: data},
	}

	assert.Equal(t, uint64(42), proposalIDFromLogs(logs, controller))
}

func TestProposalIDFromLogs_NoEvent(t *testing.T) {
	controller := common.HexToAddress("0x00000000000000000000000000000000000000c1")

	assert.Equal(t, uint64(0), proposalIDFromLogs(nil, controller))

	logs := []*types.Log{
		{Address: controller, Topics: nil, Data: nil},
	}
	assert.Equal(t, uint64(0), proposalIDFromLogs(logs, controller))
}

func TestToProposal(t *testing.T) {
	raw := proposalData{
		Id:                  big.NewInt(7),
		Proposer:            common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		AssetsToTrade:       []common.Address{common.HexToAddress("0x01")},
		AssetsToReceive:     []common.Address{common.HexToAddress("0x02")},
		AmountsIn:           []*big.Int{big.NewInt(100)},
		MinAmountsToReceive: []*big.Int{big.NewInt(90)},
		ApprovalTimelockEnd: big.NewInt(1700000000),
	}

	p := toProposal(raw)
	assert.Equal(t, uint64(7), p.ID)
	assert.Equal(t, 1, p.Legs())
	assert.Equal(t, uint64(1700000000), p.ApprovalTimelockEnd)
	assert.Equal(t, common.HexToAddress("0x01").Hex(), p.AssetsToTrade[0])
}

func TestToProposal_NilFields(t *testing.T) {
	p := toProposal(proposalData{})
	assert.Equal(t, uint64(0), p.ID)
	assert.Equal(t, uint64(0), p.ApprovalTimelockEnd)
	assert.Equal(t, 0, p.Legs())
}
