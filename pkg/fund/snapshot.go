package fund

import (
	"context"
	"time"

	"fundwatch/pkg/models"
	"fundwatch/pkg/utils"
	"fundwatch/pkg/views"
)

// FetchSnapshot re-reads the whole fund state the UI needs. Every
// field falls back to its safe default individually, so one failing
// read costs a stale value this tick, not the snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) models.FundSnapshot {
	snap := models.FundSnapshot{
		FetchedAt:   time.Now(),
		UserBalance: ZeroAmount,
	}
	snap.TotalValue = c.FundTotalValue(ctx)
	snap.TokenSupply = c.FTokenTotalSupply(ctx)
	if user := c.UserAddress(); user != "" {
		snap.UserBalance = c.FundTokenAmountOf(ctx, user)
	}
	snap.BlockTime = c.BlockTimestamp(ctx)
	snap.Governors = c.Governors(ctx)
	snap.Proposals = c.FundActiveProposals(ctx)

	for _, b := range c.Assets() {
		asset := models.Asset{
			Address: b.Asset,
			Name:    views.UnknownTokenName,
			Symbol:  utils.ShortenAddress(b.Asset),
			Color:   views.NeutralColor,
		}
		if meta, ok := c.cfg.TokenByAddress(b.Asset); ok {
			asset.Name = meta.Name
			asset.Symbol = meta.Symbol
			asset.Color = meta.Color
		}
		asset.Holdings = c.ERC20HoldingsInFund(ctx, b.Asset)
		asset.DollarValue = c.ERC20ValueInFund(ctx, b.Asset)
		asset.Price = c.AggregatorPrice(ctx, b.Aggregator)
		if d, err := c.ERC20Decimals(ctx, b.Asset); err == nil {
			asset.Decimals = d
		}
		snap.Assets = append(snap.Assets, asset)
	}
	return snap
}
