package views

import (
	"fmt"
	"strconv"

	"fundwatch/pkg/models"
)

// Pure, synchronous helpers that turn already-fetched display values
// into the figures the UI shows. No I/O and no chain access here.

const (
	// NeutralColor is the dark grey every non-highlighted asset gets.
	NeutralColor = "#4b5563"
	// UnknownTokenName labels assets with no configured metadata.
	UnknownTokenName = "Unknown Token"
)

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// AssetPercentage returns the share of the fund one asset represents,
// formatted "NN.NN%". A zero or unparseable total yields "0.00%",
// never NaN.
func AssetPercentage(dollarValue, totalValue string) string {
	return fmt.Sprintf("%.2f%%", percent(parseAmount(dollarValue), parseAmount(totalValue)))
}

// OwnershipPercent returns a user's share of the fund token supply.
func OwnershipPercent(balance, totalSupply string) string {
	return fmt.Sprintf("%.2f%%", percent(parseAmount(balance), parseAmount(totalSupply)))
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// ComputeUserPosition derives the caller's stake from the snapshot
// values. Recomputed every tick, never stored.
func ComputeUserPosition(balance, totalSupply, totalValue string) models.UserPosition {
	share := percent(parseAmount(balance), parseAmount(totalSupply))
	stake := share / 100 * parseAmount(totalValue)
	return models.UserPosition{
		Balance:          balance,
		OwnershipPercent: fmt.Sprintf("%.2f%%", share),
		DollarStake:      fmt.Sprintf("%.2f", stake),
	}
}

// Holding is one asset's position used for projection math.
type Holding struct {
	Units   float64
	Dollars float64
}

// TradeLeg is one leg of a proposal in human units of the traded asset.
type TradeLeg struct {
	From   string
	To     string
	Amount float64
}

// impliedPrice is dollars per unit; a zero-holdings asset gets a
// denominator of one unit so projections stay finite.
func impliedPrice(h Holding) float64 {
	units := h.Units
	if units == 0 {
		units = 1
	}
	return h.Dollars / units
}

// ProjectedAllocations applies a proposal's legs to the current
// holdings map and returns the adjusted positions: each leg moves the
// traded amount's dollar equivalent from the source asset into the
// destination asset at both assets' implied prices.
func ProjectedAllocations(current map[string]Holding, legs []TradeLeg) map[string]Holding {
	out := make(map[string]Holding, len(current))
	for addr, h := range current {
		out[addr] = h
	}
	for _, leg := range legs {
		from, ok := out[leg.From]
		if !ok {
			continue
		}
		dollarsMoved := leg.Amount * impliedPrice(from)

		from.Units -= leg.Amount
		from.Dollars -= dollarsMoved
		out[leg.From] = from

		to := out[leg.To]
		toPrice := impliedPrice(to)
		if toPrice == 0 {
			toPrice = 1
		}
		to.Units += dollarsMoved / toPrice
		to.Dollars += dollarsMoved
		out[leg.To] = to
	}
	return out
}

// ProjectedPercentages recomputes every asset's share from adjusted
// holdings, formatted "NN.NN%".
func ProjectedPercentages(holdings map[string]Holding) map[string]string {
	total := 0.0
	for _, h := range holdings {
		total += h.Dollars
	}
	out := make(map[string]string, len(holdings))
	for addr, h := range holdings {
		out[addr] = fmt.Sprintf("%.2f%%", percent(h.Dollars, total))
	}
	return out
}

// HighlightColors returns the color set for a hover highlight: the
// asset at idx keeps its configured color, every other slot turns
// neutral. An out-of-range idx restores each asset's own original
// color, not a shared default.
func HighlightColors(configured []string, idx int) []string {
	out := make([]string, len(configured))
	copy(out, configured)
	if idx < 0 || idx >= len(configured) {
		return out
	}
	for i := range out {
		if i != idx {
			out[i] = NeutralColor
		}
	}
	return out
}
