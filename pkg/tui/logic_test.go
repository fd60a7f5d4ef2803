package tui

import (
	"math/big"
	"testing"

	"fundwatch/pkg/models"
	"fundwatch/pkg/views"

	"github.com/stretchr/testify/assert"
)

func testSnapshot() models.FundSnapshot {
	return models.FundSnapshot{
		TotalValue:  "1000.00",
		TokenSupply: "100.00",
		UserBalance: "25.00",
		BlockTime:   1700000000,
		Assets: []models.Asset{
			{Address: "0x00000000000000000000000000000000000000a1", Symbol: "WETH", Color: "#627eea", Decimals: 18, Holdings: "2.00", DollarValue: "600.00"},
			{Address: "0x00000000000000000000000000000000000000a2", Symbol: "WBTC", Color: "#f7931a", Decimals: 8, Holdings: "0.01", DollarValue: "400.00"},
		},
	}
}

func TestAssetColors(t *testing.T) {
	m := model{snap: testSnapshot(), highlightIdx: 0}
	colors := m.assetColors()
	assert.Equal(t, "#627eea", colors[0])
	assert.Equal(t, views.NeutralColor, colors[1])

	m.highlightIdx = -1
	colors = m.assetColors()
	assert.Equal(t, []string{"#627eea", "#f7931a"}, colors)
}

func TestUserPosition(t *testing.T) {
	m := model{snap: testSnapshot()}
	pos := m.userPosition()
	assert.Equal(t, "25.00%", pos.OwnershipPercent)
	assert.Equal(t, "250.00", pos.DollarStake)
}

func TestSelectedProposal(t *testing.T) {
	m := model{snap: testSnapshot()}
	_, ok := m.selectedProposal()
	assert.False(t, ok)

	m.snap.Proposals = []models.Proposal{{ID: 3}}
	m.proposalIdx = 0
	p, ok := m.selectedProposal()
	assert.True(t, ok)
	assert.Equal(t, uint64(3), p.ID)

	m.proposalIdx = 5
	_, ok = m.selectedProposal()
	assert.False(t, ok)
}

func TestLegLabel(t *testing.T) {
	amountIn, _ := new(big.Int).SetString("1500000000000000000", 10) // 1.5 WETH
	minOut := big.NewInt(5000000)                                    // 0.05 WBTC

	m := model{snap: testSnapshot()}
	p := models.Proposal{
		AssetsToTrade:       []string{"0x00000000000000000000000000000000000000a1"},
		AssetsToReceive:     []string{"0x00000000000000000000000000000000000000a2"},
		AmountsIn:           []*big.Int{amountIn},
		MinAmountsToReceive: []*big.Int{minOut},
	}

	assert.Equal(t, "1.50 WETH -> min 0.05 WBTC", m.legLabel(p, 0))
}

func TestProjectedRows(t *testing.T) {
	amountIn, _ := new(big.Int).SetString("1000000000000000000", 10) // 1 WETH

	m := model{snap: testSnapshot()}
	p := models.Proposal{
		AssetsToTrade:       []string{"0x00000000000000000000000000000000000000a1"},
		AssetsToReceive:     []string{"0x00000000000000000000000000000000000000a2"},
		AmountsIn:           []*big.Int{amountIn},
		MinAmountsToReceive: []*big.Int{big.NewInt(1)},
	}

	rows := m.projectedRows(p)
	assert.Len(t, rows, 2)
	// One WETH at $300/unit moves $300 of the $600 position over.
	assert.Contains(t, rows[0], "60.00%")
	assert.Contains(t, rows[0], "30.00%")
	assert.Contains(t, rows[1], "40.00%")
	assert.Contains(t, rows[1], "70.00%")
}
