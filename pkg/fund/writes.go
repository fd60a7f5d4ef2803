package fund

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Write operations sign with the configured key and always return
// errors; nothing is swallowed. They never touch locally cached state:
// the next poll tick is what reflects a confirmed change, so the UI is
// eventually consistent with the chain, not with the submission.

const stablecoinFallbackDecimals = 6

func (c *Client) writeReady() error {
	if !c.ready() {
		return fmt.Errorf("client not initialized")
	}
	if c.key == nil {
		return fmt.Errorf("no signer key configured")
	}
	return nil
}

// submit signs and broadcasts a controller transaction. Gas estimation
// runs first, so reverts surface as errors before anything is sent.
func (c *Client) submit(ctx context.Context, data []byte) (*types.Transaction, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.controller,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("gas estimate: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.controller,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	return signed, nil
}

// ContributeUsingStableCoin mints fund shares for a human-entered
// stablecoin amount. The raw amount uses the stablecoin's own queried
// decimals, falling back to 6 only when the query fails.
func (c *Client) ContributeUsingStableCoin(ctx context.Context, amount string) error {
	if err := c.writeReady(); err != nil {
		return err
	}
	decimals := stablecoinFallbackDecimals
	if c.stablecoin != (common.Address{}) {
		d, err := c.erc20Decimals(ctx, c.stablecoin)
		if err != nil {
			log.Printf("[ERROR] stablecoin decimals, falling back to %d: %v", stablecoinFallbackDecimals, err)
		} else {
			decimals = d
		}
	}
	raw, err := ParseUnits(amount, decimals)
	if err != nil {
		return err
	}
	if raw.Sign() <= 0 {
		return fmt.Errorf("contribution amount must be positive")
	}
	data, err := fundControllerABI.Pack("issueUsingStableCoin", raw)
	if err != nil {
		return err
	}
	_, err = c.submit(ctx, data)
	return err
}

// RedeemFromFund burns fund tokens for the underlying assets. Fund
// tokens carry the native 18-decimal precision.
func (c *Client) RedeemFromFund(ctx context.Context, amount string) error {
	if err := c.writeReady(); err != nil {
		return err
	}
	raw, err := ParseUnits(amount, fundTokenNativeDecimals)
	if err != nil {
		return err
	}
	if raw.Sign() <= 0 {
		return fmt.Errorf("redeem amount must be positive")
	}
	data, err := fundControllerABI.Pack("redeemAssets", raw)
	if err != nil {
		return err
	}
	_, err = c.submit(ctx, data)
	return err
}

// CreateProposal submits a multi-leg asset swap proposal, waits for
// the receipt and recovers the assigned id from the ProposalCreated
// log. Amounts are human-entered decimals; each leg converts with its
// own asset's decimals (amountsIn with the traded asset's,
// minAmountsToReceive with the received asset's). Returns 0 when the
// transaction failed or the event is absent.
func (c *Client) CreateProposal(ctx context.Context, tradeAddrs, receiveAddrs, tradeAmounts, minReceiveAmounts []string) (uint64, error) {
	if err := c.writeReady(); err != nil {
		return 0, err
	}
	legs := len(tradeAddrs)
	if legs == 0 {
		return 0, fmt.Errorf("proposal has no legs")
	}
	if len(receiveAddrs) != legs || len(tradeAmounts) != legs || len(minReceiveAmounts) != legs {
		return 0, fmt.Errorf("proposal leg arrays must be equal length")
	}

	trade := make([]common.Address, legs)
	receive := make([]common.Address, legs)
	amountsIn := make([]*big.Int, legs)
	minOut := make([]*big.Int, legs)
	for i := 0; i < legs; i++ {
		trade[i] = common.HexToAddress(tradeAddrs[i])
		receive[i] = common.HexToAddress(receiveAddrs[i])

		tradeDecimals, err := c.erc20Decimals(ctx, trade[i])
		if err != nil {
			return 0, fmt.Errorf("leg %d trade decimals: %w", i, err)
		}
		amountsIn[i], err = ParseUnits(tradeAmounts[i], tradeDecimals)
		if err != nil {
			return 0, fmt.Errorf("leg %d amount: %w", i, err)
		}

		receiveDecimals, err := c.erc20Decimals(ctx, receive[i])
		if err != nil {
			return 0, fmt.Errorf("leg %d receive decimals: %w", i, err)
		}
		minOut[i], err = ParseUnits(minReceiveAmounts[i], receiveDecimals)
		if err != nil {
			return 0, fmt.Errorf("leg %d min amount: %w", i, err)
		}
	}

	data, err := fundControllerABI.Pack("createProposal", trade, receive, amountsIn, minOut)
	if err != nil {
		return 0, err
	}
	tx, err := c.submit(ctx, data)
	if err != nil {
		return 0, err
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return 0, fmt.Errorf("waiting for proposal receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return 0, fmt.Errorf("createProposal transaction reverted")
	}
	return proposalIDFromLogs(receipt.Logs, c.controller), nil
}

// IntentToApprove signals a governor's intent to accept a proposal,
// starting its timelock.
func (c *Client) IntentToApprove(ctx context.Context, id uint64) error {
	return c.governanceCall(ctx, "intentToAccept", id)
}

// AcceptFundProposal executes an approved proposal past its timelock.
func (c *Client) AcceptFundProposal(ctx context.Context, id uint64) error {
	return c.governanceCall(ctx, "acceptProposal", id)
}

// RejectFundProposal removes a proposal from the active set.
func (c *Client) RejectFundProposal(ctx context.Context, id uint64) error {
	return c.governanceCall(ctx, "rejectProposal", id)
}

func (c *Client) governanceCall(ctx context.Context, method string, id uint64) error {
	if err := c.writeReady(); err != nil {
		return err
	}
	data, err := fundControllerABI.Pack(method, new(big.Int).SetUint64(id))
	if err != nil {
		return err
	}
	if _, err := c.submit(ctx, data); err != nil {
		return fmt.Errorf("%s(%d): %w", method, id, err)
	}
	return nil
}

// proposalIDFromLogs scans receipt logs for the controller's
// ProposalCreated event and returns the emitted id, 0 when absent.
func proposalIDFromLogs(logs []*types.Log, controller common.Address) uint64 {
	eventID := fundControllerABI.Events["ProposalCreated"].ID
	for _, l := range logs {
		if l.Address != controller || len(l.Topics) == 0 || l.Topics[0] != eventID {
			continue
		}
		out, err := fundControllerABI.Unpack("ProposalCreated", l.Data)
		if err != nil || len(out) != 1 {
			continue
		}
		if id, ok := out[0].(*big.Int); ok {
			return id.Uint64()
		}
	}
	return 0
}
