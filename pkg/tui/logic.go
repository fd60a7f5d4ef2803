package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fundwatch/pkg/fund"
	"fundwatch/pkg/models"
	"fundwatch/pkg/submit"
	"fundwatch/pkg/utils"
	"fundwatch/pkg/views"
	"fundwatch/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func listenForWatcher(sub watcher.Subscriber) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// assetColors returns each asset's display color with the current
// highlight applied: the held row keeps its configured color, the rest
// go neutral. Clearing the highlight restores every original color.
func (m model) assetColors() []string {
	colors := make([]string, len(m.snap.Assets))
	for i, a := range m.snap.Assets {
		colors[i] = a.Color
	}
	return views.HighlightColors(colors, m.highlightIdx)
}

func (m model) userPosition() models.UserPosition {
	return views.ComputeUserPosition(m.snap.UserBalance, m.snap.TokenSupply, m.snap.TotalValue)
}

func (m model) selectedProposal() (models.Proposal, bool) {
	if m.proposalIdx < 0 || m.proposalIdx >= len(m.snap.Proposals) {
		return models.Proposal{}, false
	}
	return m.snap.Proposals[m.proposalIdx], true
}

func (m model) assetByAddress(addr string) (models.Asset, bool) {
	for _, a := range m.snap.Assets {
		if strings.EqualFold(a.Address, addr) {
			return a, true
		}
	}
	return models.Asset{}, false
}

// legLabel renders one swap leg in human units of the traded asset.
func (m model) legLabel(p models.Proposal, i int) string {
	fromSym, fromDec := views.UnknownTokenName, 18
	toSym := views.UnknownTokenName
	minDec := 18
	if a, ok := m.assetByAddress(p.AssetsToTrade[i]); ok {
		fromSym, fromDec = a.Symbol, a.Decimals
	}
	if a, ok := m.assetByAddress(p.AssetsToReceive[i]); ok {
		toSym, minDec = a.Symbol, a.Decimals
	}
	return fmt.Sprintf("%s %s -> min %s %s",
		fund.FormatUnits(p.AmountsIn[i], fromDec), fromSym,
		fund.FormatUnits(p.MinAmountsToReceive[i], minDec), toSym)
}

func (m *model) updateDetailViewport() {
	p, ok := m.selectedProposal()
	if !ok {
		m.viewport.SetContent("No proposal selected.")
		return
	}

	timelock := "not approved yet"
	if p.ApprovalTimelockEnd > 0 {
		timelock = time.Unix(int64(p.ApprovalTimelockEnd), 0).Format("2006-01-02 15:04:05")
	}

	lines := []string{
		fmt.Sprintf("Proposer:  %s", utils.ShortenAddress(p.Proposer)),
		fmt.Sprintf("State:     %s", p.State(m.snap.BlockTime)),
		fmt.Sprintf("Timelock:  %s", timelock),
		"",
		"Legs:",
	}
	for i := 0; i < p.Legs(); i++ {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, m.legLabel(p, i)))
	}

	lines = append(lines, "", "Justification:")
	if m.justification != "" {
		lines = append(lines, "  "+m.justification)
	} else {
		lines = append(lines, subtleStyle.Render("  No justification on file."))
	}

	if rows := m.projectedRows(p); len(rows) > 0 {
		lines = append(lines, "", "Projected allocation:")
		lines = append(lines, rows...)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// projectedRows shows each asset's current share next to the share it
// would have if the proposal executed at implied prices.
func (m model) projectedRows(p models.Proposal) []string {
	if len(m.snap.Assets) == 0 {
		return nil
	}

	current := make(map[string]views.Holding, len(m.snap.Assets))
	for _, a := range m.snap.Assets {
		units, _ := strconv.ParseFloat(strings.ReplaceAll(a.Holdings, ",", ""), 64)
		dollars, _ := strconv.ParseFloat(strings.ReplaceAll(a.DollarValue, ",", ""), 64)
		current[strings.ToLower(a.Address)] = views.Holding{Units: units, Dollars: dollars}
	}

	legs := make([]views.TradeLeg, 0, p.Legs())
	for i := 0; i < p.Legs(); i++ {
		dec := 18
		if a, ok := m.assetByAddress(p.AssetsToTrade[i]); ok {
			dec = a.Decimals
		}
		amount, _ := strconv.ParseFloat(fund.FormatUnits(p.AmountsIn[i], dec), 64)
		legs = append(legs, views.TradeLeg{
			From:   strings.ToLower(p.AssetsToTrade[i]),
			To:     strings.ToLower(p.AssetsToReceive[i]),
			Amount: amount,
		})
	}

	projected := views.ProjectedPercentages(views.ProjectedAllocations(current, legs))

	rows := make([]string, 0, len(m.snap.Assets))
	for _, a := range m.snap.Assets {
		now := views.AssetPercentage(a.DollarValue, m.snap.TotalValue)
		after := projected[strings.ToLower(a.Address)]
		rows = append(rows, fmt.Sprintf("  %-8s %8s -> %8s", a.Symbol, now, after))
	}
	return rows
}

// --- Commands ---

func (m model) contributeCmd(amount string) tea.Cmd {
	submitter := m.submitter
	return func() tea.Msg {
		err := submitter.Contribute(context.Background(), amount)
		return txResultMsg{action: "contribute", err: err}
	}
}

func (m model) redeemCmd(amount string) tea.Cmd {
	submitter := m.submitter
	return func() tea.Msg {
		err := submitter.Redeem(context.Background(), amount)
		return txResultMsg{action: "redeem", err: err}
	}
}

func (m model) proposalCmd(leg submit.ProposalLeg, justification string) tea.Cmd {
	submitter := m.submitter
	return func() tea.Msg {
		id, err := submitter.SubmitProposal(context.Background(), []submit.ProposalLeg{leg}, justification)
		return txResultMsg{action: "proposal", id: id, err: err}
	}
}

func (m model) governanceCmd(action string, id uint64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var err error
		switch action {
		case "intent":
			err = client.IntentToApprove(context.Background(), id)
		case "accept":
			err = client.AcceptFundProposal(context.Background(), id)
		case "reject":
			err = client.RejectFundProposal(context.Background(), id)
		}
		return txResultMsg{action: action, id: id, err: err}
	}
}

func (m model) fetchJustificationCmd(id uint64) tea.Cmd {
	client := m.notes
	return func() tea.Msg {
		if client == nil {
			return justificationMsg{id: id}
		}
		text, err := client.Justification(id)
		return justificationMsg{id: id, text: text, err: err}
	}
}
