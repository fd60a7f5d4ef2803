package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"fundwatch/pkg/utils"
	"fundwatch/pkg/views"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	if m.formMode != formNone {
		return m.viewForm()
	}

	if m.showProposalDetail {
		return m.viewProposalDetail()
	}

	if m.showProposals {
		return m.viewProposals()
	}

	if m.showGraph {
		return m.viewGraph()
	}

	return m.viewDashboard()
}

func (m model) viewDashboard() string {
	var content string

	spinnerView := ""
	if m.loading || m.submitting {
		spinnerView = m.spinner.View() + " "
	}
	lastUpdStr := fmt.Sprintf("%sLast updated: %s", spinnerView, m.lastUpdate.Format("15:04:05"))
	addrStr := subtleStyle.Render(fmt.Sprintf(" Account: %s", utils.ShortenAddress(m.client.UserAddress())))

	if m.loading && m.snap.FetchedAt.IsZero() {
		content = "Connecting to fund contracts..."
	} else {
		header := titleStyle.Render("Fund Watch")

		totalLine := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true).
			Render(fmt.Sprintf("Fund Value: $%s", utils.AddCommas(m.snap.TotalValue)))

		pos := m.userPosition()
		posLine := fmt.Sprintf("Your stake: %s tokens • %s of fund • $%s",
			utils.AddCommas(pos.Balance), pos.OwnershipPercent, utils.AddCommas(pos.DollarStake))

		// Asset allocation table
		var table string
		if len(m.snap.Assets) > 0 {
			colors := m.assetColors()
			headers := tableHeaderStyle.Render(fmt.Sprintf("%-8s %-18s %14s %14s %12s %8s",
				"SYMBOL", "NAME", "HOLDINGS", "VALUE ($)", "PRICE ($)", "SHARE"))
			rows := ""
			for i, a := range m.snap.Assets {
				name := a.Name
				if name == "" {
					name = views.UnknownTokenName
				}
				row := fmt.Sprintf("%-8s %-18s %14s %14s %12s %8s",
					a.Symbol,
					utils.TruncateString(name, 18),
					utils.AddCommas(a.Holdings),
					utils.AddCommas(a.DollarValue),
					a.Price,
					views.AssetPercentage(a.DollarValue, m.snap.TotalValue),
				)
				rows += lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(row) + "\n"
			}
			table = lipgloss.JoinVertical(lipgloss.Left, headers, rows)
		} else {
			table = subtleStyle.Render("No assets discovered yet")
		}

		proposalsLine := subtleStyle.Render(fmt.Sprintf("%d active proposal(s) • press 'p' to review", len(m.snap.Proposals)))

		targetWidth := m.width - 4
		if targetWidth < 0 {
			targetWidth = 0
		}
		uiBlock := lipgloss.JoinVertical(lipgloss.Center,
			header,
			"\n",
			totalLine,
			posLine,
			"\n",
			table,
			proposalsLine,
		)
		content = boxStyle.Width(targetWidth).Align(lipgloss.Center).Render(uiBlock)
	}

	line1 := "c:contribute • w:withdraw • n:proposal • p:proposals • g:graph • ?:help • q:quit"
	line2 := fmt.Sprintf("Tab:highlight • y:copy addr • v%s", Version)

	var footer string
	if m.width > 0 {
		l1 := subtleStyle.Width(m.width).Align(lipgloss.Center).Render(line1)
		l2 := subtleStyle.Width(m.width).Align(lipgloss.Center).Render(line2)
		footer = lipgloss.JoinVertical(lipgloss.Center, l1, l2)
	} else {
		footer = subtleStyle.Render(line1 + "\n" + line2)
	}

	if m.statusMessage != "" {
		footer = lipgloss.JoinVertical(lipgloss.Center, infoStyle.Render(m.statusMessage), footer)
	}

	gap := m.width - lipgloss.Width(addrStr) - lipgloss.Width(lastUpdStr) - 1
	if gap < 0 {
		gap = 0
	}
	topBar := lipgloss.JoinHorizontal(lipgloss.Top, addrStr, strings.Repeat(" ", gap), subtleStyle.Render(lastUpdStr))

	h := m.height - 1
	if h < 0 {
		h = 0
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		topBar,
		lipgloss.Place(
			m.width,
			h,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer),
		),
	)
}

func (m model) viewGraph() string {
	header := titleStyle.Render("Fund Value History")

	var graph string
	if len(m.valueHistory) > 1 {
		width := m.width - 14
		if width < 10 {
			width = 10
		}
		height := m.height - 12
		if height < 1 {
			height = 1
		}
		graph = asciigraph.Plot(m.valueHistory,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption("Total Fund Value (USD)"),
		)
	} else {
		graph = "Not enough data to draw graph."
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", graph))
	footer := subtleStyle.Render("g/q/esc: back")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer))
}

func (m model) viewProposals() string {
	header := titleStyle.Render("Active Proposals")

	if len(m.snap.Proposals) == 0 {
		content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, header, "\n", "No active proposals."))
		footer := subtleStyle.Render("n: new proposal • q/esc: back")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer))
	}

	headers := tableHeaderStyle.Render(fmt.Sprintf("  %-6s %-16s %-6s %-20s", "ID", "PROPOSER", "LEGS", "STATE"))
	rows := ""
	for i, p := range m.snap.Proposals {
		cursor := "  "
		if i == m.proposalIdx {
			cursor = "> "
		}
		rows += fmt.Sprintf("%s%-6d %-16s %-6d %-20s\n",
			cursor, p.ID, utils.ShortenAddress(p.Proposer), p.Legs(), p.State(m.snap.BlockTime))
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", headers, rows))
	footer := subtleStyle.Render("enter: details • n: new • ↑/↓: move • q/esc: back")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer))
}

func (m model) viewProposalDetail() string {
	p, ok := m.selectedProposal()
	if !ok {
		return "No proposal selected."
	}
	header := titleStyle.Render(fmt.Sprintf("Proposal #%d", p.ID))

	spinnerView := ""
	if m.submitting {
		spinnerView = m.spinner.View() + " "
	}

	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", m.viewport.View()))
	footer := subtleStyle.Render(spinnerView + "i: intent • a: accept • x: reject • ↑/↓: scroll • q/esc: back")
	if m.statusMessage != "" {
		footer = lipgloss.JoinVertical(lipgloss.Center, infoStyle.Render(m.statusMessage), footer)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer))
}

func (m model) viewForm() string {
	switch m.formMode {
	case formContribute, formRedeem:
		title := "Contribute Stablecoin"
		hint := "Amount of stablecoin to contribute:"
		if m.formMode == formRedeem {
			title = "Redeem Fund Tokens"
			hint = "Amount of fund tokens to redeem:"
		}
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render(title),
				"\n",
				hint,
				m.amountInput.View(),
				"\n",
				subtleStyle.Render("Enter to submit • Esc to cancel"),
			)),
		)

	case formProposal:
		labels := []string{"Trade Token", "Receive Token", "Amount", "Min Receive", "Justification"}
		var inputs []string
		for i, label := range labels {
			inputs = append(inputs, fmt.Sprintf("%-15s %s", label, m.proposalInputs[i].View()))
		}
		return lipgloss.Place(
			m.width, m.height, lipgloss.Center, lipgloss.Center,
			boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("New Trade Proposal"),
				"\n",
				strings.Join(inputs, "\n"),
				"\n",
				subtleStyle.Render("Enter to next/submit • Tab to move • Esc to cancel"),
			)),
		)
	}
	return ""
}

func (m model) viewHelp() string {
	var title string
	var shortcuts []string

	if m.showProposalDetail {
		title = "Proposal Detail"
		shortcuts = []string{"i: Signal Intent", "a: Accept", "x: Reject", "↑/k: Scroll Up", "↓/j: Scroll Down", "q/esc: Back"}
	} else if m.showProposals {
		title = "Proposals"
		shortcuts = []string{"↑/k: Up", "↓/j: Down", "enter: Details", "n: New Proposal", "q/esc: Back"}
	} else {
		title = "Dashboard"
		shortcuts = []string{
			"c: Contribute Stablecoin",
			"w: Redeem Fund Tokens",
			"n: New Proposal",
			"p: Proposals",
			"g: Value Graph",
			"Tab/l/Right: Highlight Next Asset",
			"S-Tab/h/Left: Highlight Prev Asset",
			"esc: Clear Highlight",
			"y: Copy Account Address",
			"q: Quit",
			"?: Toggle Help",
		}
	}

	header := titleStyle.Render(fmt.Sprintf("Help: %s", title))
	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "\n", strings.Join(shortcuts, "\n")))
	footer := subtleStyle.Render("Press '?' or 'esc' to close")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, content, "\n", footer),
	)
}
