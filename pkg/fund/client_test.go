package fund

import (
	"context"
	"testing"

	"fundwatch/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestReadsReturnDefaultsBeforeInitialize(t *testing.T) {
	c := NewClient(config.Config{})
	ctx := context.Background()

	assert.Equal(t, ZeroAmount, c.FundTotalValue(ctx))
	assert.Equal(t, ZeroAmount, c.FTokenTotalSupply(ctx))
	assert.Equal(t, ZeroAmount, c.FundTokenAmountOf(ctx, "0x1111111111111111111111111111111111111111"))
	assert.Equal(t, ZeroAmount, c.ERC20HoldingsInFund(ctx, "0x1111111111111111111111111111111111111111"))
	assert.Equal(t, ZeroAmount, c.ERC20ValueInFund(ctx, "0x1111111111111111111111111111111111111111"))
	assert.Equal(t, ZeroAmount, c.AggregatorPrice(ctx, "0x1111111111111111111111111111111111111111"))
	assert.Nil(t, c.FundActiveProposals(ctx))
	assert.Nil(t, c.Governors(ctx))
	assert.Equal(t, uint64(0), c.BlockTimestamp(ctx))
	assert.Empty(t, c.Assets())
	assert.Equal(t, "", c.UserAddress())

	_, err := c.ERC20Decimals(ctx, "0x1111111111111111111111111111111111111111")
	assert.Error(t, err)
	_, err = c.FundProposalByID(ctx, 1)
	assert.Error(t, err)
}

func TestWritesFailBeforeInitialize(t *testing.T) {
	c := NewClient(config.Config{})
	ctx := context.Background()

	assert.Error(t, c.ContributeUsingStableCoin(ctx, "100"))
	assert.Error(t, c.RedeemFromFund(ctx, "100"))
	assert.Error(t, c.IntentToApprove(ctx, 1))
	assert.Error(t, c.AcceptFundProposal(ctx, 1))
	assert.Error(t, c.RejectFundProposal(ctx, 1))
	_, err := c.CreateProposal(ctx, []string{"0x1"}, []string{"0x2"}, []string{"1"}, []string{"1"})
	assert.Error(t, err)
}

func TestInitializeValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"no rpc urls", config.Config{}},
		{"no fund token", config.Config{RPCURLs: []string{"http://localhost:8545"}}},
		{"no controller", config.Config{
			RPCURLs:          []string{"http://localhost:8545"},
			FundTokenAddress: "0x1111111111111111111111111111111111111111",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.cfg)
			err := c.Initialize(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestInitializeCachesOutcome(t *testing.T) {
	c := NewClient(config.Config{})
	first := c.Initialize(context.Background())
	second := c.Initialize(context.Background())
	assert.Error(t, first)
	assert.Equal(t, first, second)
}
