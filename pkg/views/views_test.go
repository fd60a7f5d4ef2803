package views

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetPercentage(t *testing.T) {
	tests := []struct {
		name        string
		dollarValue string
		totalValue  string
		expected    string
	}{
		{"quarter", "25.00", "100.00", "25.00%"},
		{"all", "100.00", "100.00", "100.00%"},
		{"zero total", "25.00", "0.00", "0.00%"},
		{"unparseable total", "25.00", "n/a", "0.00%"},
		{"unparseable value", "n/a", "100.00", "0.00%"},
		{"empty", "", "", "0.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AssetPercentage(tt.dollarValue, tt.totalValue))
		})
	}
}

func TestAssetPercentagesSumToHundred(t *testing.T) {
	values := []string{"600.00", "250.00", "150.00"}
	total := "1000.00"

	sum := 0.0
	for _, v := range values {
		pct := AssetPercentage(v, total)
		f, err := strconv.ParseFloat(strings.TrimSuffix(pct, "%"), 64)
		assert.NoError(t, err)
		sum += f
	}
	assert.InDelta(t, 100.0, sum, 0.01)
}

func TestOwnershipPercent_ZeroSupply(t *testing.T) {
	// An empty fund must yield a clean zero, not NaN.
	assert.Equal(t, "0.00%", OwnershipPercent("50.00", "0.00"))
}

func TestComputeUserPosition(t *testing.T) {
	pos := ComputeUserPosition("50.00", "200.00", "1000.00")
	assert.Equal(t, "50.00", pos.Balance)
	assert.Equal(t, "25.00%", pos.OwnershipPercent)
	assert.Equal(t, "250.00", pos.DollarStake)
}

func TestComputeUserPosition_EmptyFund(t *testing.T) {
	pos := ComputeUserPosition("0.00", "0.00", "0.00")
	assert.Equal(t, "0.00%", pos.OwnershipPercent)
	assert.Equal(t, "0.00", pos.DollarStake)
}

func TestProjectedAllocations(t *testing.T) {
	current := map[string]Holding{
		"0xaaa": {Units: 10, Dollars: 1000}, // $100/unit
		"0xbbb": {Units: 100, Dollars: 500}, // $5/unit
	}
	legs := []TradeLeg{{From: "0xaaa", To: "0xbbb", Amount: 2}}

	out := ProjectedAllocations(current, legs)

	assert.InDelta(t, 8.0, out["0xaaa"].Units, 1e-9)
	assert.InDelta(t, 800.0, out["0xaaa"].Dollars, 1e-9)
	assert.InDelta(t, 140.0, out["0xbbb"].Units, 1e-9)
	assert.InDelta(t, 700.0, out["0xbbb"].Dollars, 1e-9)

	// Total dollars are conserved.
	total := out["0xaaa"].Dollars + out["0xbbb"].Dollars
	assert.InDelta(t, 1500.0, total, 1e-9)

	// Input map untouched.
	assert.Equal(t, 10.0, current["0xaaa"].Units)
}

func TestProjectedAllocations_ZeroHoldings(t *testing.T) {
	// A zero-holdings source prices at dollars-per-one-unit so the
	// projection stays finite instead of dividing by zero.
	current := map[string]Holding{
		"0xaaa": {Units: 0, Dollars: 0},
		"0xbbb": {Units: 50, Dollars: 250},
	}
	legs := []TradeLeg{{From: "0xaaa", To: "0xbbb", Amount: 3}}

	out := ProjectedAllocations(current, legs)
	for addr, h := range out {
		assert.False(t, h.Units != h.Units, "NaN units for %s", addr)
		assert.False(t, h.Dollars != h.Dollars, "NaN dollars for %s", addr)
	}
}

func TestProjectedAllocations_UnknownLeg(t *testing.T) {
	current := map[string]Holding{"0xaaa": {Units: 10, Dollars: 1000}}
	legs := []TradeLeg{{From: "0xzzz", To: "0xaaa", Amount: 5}}

	out := ProjectedAllocations(current, legs)
	assert.Equal(t, current["0xaaa"], out["0xaaa"])
}

func TestProjectedPercentages(t *testing.T) {
	holdings := map[string]Holding{
		"0xaaa": {Dollars: 750},
		"0xbbb": {Dollars: 250},
	}
	out := ProjectedPercentages(holdings)
	assert.Equal(t, "75.00%", out["0xaaa"])
	assert.Equal(t, "25.00%", out["0xbbb"])
}

func TestHighlightColors(t *testing.T) {
	configured := []string{"#ff0000", "#00ff00", "#0000ff"}

	highlighted := HighlightColors(configured, 1)
	assert.Equal(t, []string{NeutralColor, "#00ff00", NeutralColor}, highlighted)

	// Clearing the highlight restores each asset's own color, not a
	// shared default.
	restored := HighlightColors(configured, -1)
	assert.Equal(t, configured, restored)

	outOfRange := HighlightColors(configured, 7)
	assert.Equal(t, configured, outOfRange)

	// Input never mutated.
	assert.Equal(t, "#ff0000", configured[0])
}
