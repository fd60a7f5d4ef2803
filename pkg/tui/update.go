package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fundwatch/pkg/models"
	"fundwatch/pkg/submit"
	"fundwatch/pkg/watcher"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case watcher.Event:
		// Keep listening on the same subscription
		cmds = append(cmds, listenForWatcher(m.sub))

		switch msg.Type {
		case watcher.EventSyncStarted:
			m.loading = true
		case watcher.EventSnapshotUpdated:
			if snap, ok := msg.Data.(models.FundSnapshot); ok {
				m.loading = false
				m.snap = snap
				m.lastUpdate = time.Now()
				if m.highlightIdx >= len(snap.Assets) {
					m.highlightIdx = -1
				}
				if m.proposalIdx >= len(snap.Proposals) {
					m.proposalIdx = 0
				}
				if v, err := strconv.ParseFloat(strings.ReplaceAll(snap.TotalValue, ",", ""), 64); err == nil {
					m.valueHistory = append(m.valueHistory, v)
					if len(m.valueHistory) > 2880 {
						m.valueHistory = m.valueHistory[len(m.valueHistory)-2880:]
					}
				}
				if m.showProposalDetail {
					m.updateDetailViewport()
				}
			}
		}

	case txResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMessage = errStyle.Render(fmt.Sprintf("%s failed: %v", msg.action, msg.err))
		} else {
			switch msg.action {
			case "contribute":
				m.statusMessage = "Contribution submitted!"
			case "redeem":
				m.statusMessage = "Redemption submitted!"
			case "proposal":
				if msg.id == 0 {
					m.statusMessage = "Proposal submitted (id pending)"
				} else {
					m.statusMessage = fmt.Sprintf("Proposal #%d created!", msg.id)
				}
			case "intent":
				m.statusMessage = fmt.Sprintf("Intent recorded for proposal #%d", msg.id)
			case "accept":
				m.statusMessage = fmt.Sprintf("Proposal #%d accepted!", msg.id)
			case "reject":
				m.statusMessage = fmt.Sprintf("Proposal #%d rejected", msg.id)
			}
		}
		cmds = append(cmds, tea.Tick(time.Second*4, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case justificationMsg:
		if p, ok := m.selectedProposal(); ok && p.ID == msg.id {
			if msg.err != nil {
				m.justification = ""
			} else {
				m.justification = msg.text
			}
			if m.showProposalDetail {
				m.updateDetailViewport()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 8
		m.viewport.Height = msg.Height - 10
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}

	case tea.KeyMsg:
		if m.formMode != formNone {
			return m.updateForm(msg)
		}

		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "q" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.showProposalDetail {
			switch msg.String() {
			case "q", "esc", "backspace":
				m.showProposalDetail = false
				m.justification = ""
				return m, nil
			case "i":
				if p, ok := m.selectedProposal(); ok && !m.submitting {
					m.submitting = true
					cmds = append(cmds, m.governanceCmd("intent", p.ID))
				}
			case "a":
				if p, ok := m.selectedProposal(); ok && !m.submitting {
					m.submitting = true
					cmds = append(cmds, m.governanceCmd("accept", p.ID))
				}
			case "x":
				if p, ok := m.selectedProposal(); ok && !m.submitting {
					m.submitting = true
					cmds = append(cmds, m.governanceCmd("reject", p.ID))
				}
			default:
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}

		if m.showProposals {
			switch msg.String() {
			case "q", "esc":
				m.showProposals = false
				return m, nil
			case "up", "k":
				if m.proposalIdx > 0 {
					m.proposalIdx--
				}
			case "down", "j":
				if m.proposalIdx < len(m.snap.Proposals)-1 {
					m.proposalIdx++
				}
			case "n":
				return m.openProposalForm()
			case "enter":
				if p, ok := m.selectedProposal(); ok {
					m.showProposalDetail = true
					m.justification = ""
					m.updateDetailViewport()
					m.viewport.YOffset = 0
					cmds = append(cmds, m.fetchJustificationCmd(p.ID))
				}
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			if m.showGraph {
				m.showGraph = false
				return m, nil
			}
			return m, tea.Quit
		case "p":
			m.showProposals = true
			m.proposalIdx = 0
			return m, nil
		case "g":
			m.showGraph = !m.showGraph
			return m, nil
		case "c":
			m.formMode = formContribute
			m.amountInput.SetValue("")
			m.amountInput.Focus()
			return m, textinput.Blink
		case "w":
			m.formMode = formRedeem
			m.amountInput.SetValue("")
			m.amountInput.Focus()
			return m, textinput.Blink
		case "n":
			return m.openProposalForm()
		case "y":
			if err := clipboard.WriteAll(m.client.UserAddress()); err != nil {
				m.statusMessage = "Failed to copy to clipboard"
			} else {
				m.statusMessage = "Address copied to clipboard!"
			}
			cmds = append(cmds, tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
				return clearStatusMsg{}
			}))
		case "esc":
			m.highlightIdx = -1
		case "tab", "right", "l":
			if len(m.snap.Assets) > 0 {
				m.highlightIdx++
				if m.highlightIdx >= len(m.snap.Assets) {
					m.highlightIdx = -1
				}
			}
		case "shift+tab", "left", "h":
			if len(m.snap.Assets) > 0 {
				m.highlightIdx--
				if m.highlightIdx < -1 {
					m.highlightIdx = len(m.snap.Assets) - 1
				}
			}
		}

	case uiTickMsg:
		cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }))

	case clearStatusMsg:
		m.statusMessage = ""
	}

	if m.loading || m.submitting {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) openProposalForm() (tea.Model, tea.Cmd) {
	m.formMode = formProposal
	m.formFocus = proposalInputFrom
	for i := range m.proposalInputs {
		m.proposalInputs[i].SetValue("")
		m.proposalInputs[i].Blur()
	}
	m.proposalInputs[proposalInputFrom].Focus()
	return m, textinput.Blink
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.formMode = formNone
		m.amountInput.Blur()
		for i := range m.proposalInputs {
			m.proposalInputs[i].Blur()
		}
		return m, nil

	case "enter":
		switch m.formMode {
		case formContribute, formRedeem:
			amount := strings.TrimSpace(m.amountInput.Value())
			if amount == "" {
				m.statusMessage = "Enter an amount first"
				return m, tea.Tick(time.Second*2, func(t time.Time) tea.Msg { return clearStatusMsg{} })
			}
			m.submitting = true
			var cmd tea.Cmd
			if m.formMode == formContribute {
				cmd = m.contributeCmd(amount)
			} else {
				cmd = m.redeemCmd(amount)
			}
			m.formMode = formNone
			m.amountInput.Blur()
			return m, cmd

		case formProposal:
			if m.formFocus < proposalInputCount-1 {
				m.proposalInputs[m.formFocus].Blur()
				m.formFocus++
				m.proposalInputs[m.formFocus].Focus()
				return m, textinput.Blink
			}
			leg := submit.ProposalLeg{
				FromSymbol: strings.TrimSpace(m.proposalInputs[proposalInputFrom].Value()),
				ToSymbol:   strings.TrimSpace(m.proposalInputs[proposalInputTo].Value()),
				Amount:     strings.TrimSpace(m.proposalInputs[proposalInputAmount].Value()),
				MinReceive: strings.TrimSpace(m.proposalInputs[proposalInputMinReceive].Value()),
			}
			if leg.FromSymbol == "" || leg.ToSymbol == "" || leg.Amount == "" || leg.MinReceive == "" {
				m.statusMessage = "All trade fields are required"
				return m, tea.Tick(time.Second*2, func(t time.Time) tea.Msg { return clearStatusMsg{} })
			}
			justification := strings.TrimSpace(m.proposalInputs[proposalInputJustification].Value())
			m.submitting = true
			cmd := m.proposalCmd(leg, justification)
			m.formMode = formNone
			for i := range m.proposalInputs {
				m.proposalInputs[i].Blur()
			}
			return m, cmd
		}

	case "tab", "down":
		if m.formMode == formProposal {
			m.proposalInputs[m.formFocus].Blur()
			m.formFocus = (m.formFocus + 1) % proposalInputCount
			m.proposalInputs[m.formFocus].Focus()
			return m, textinput.Blink
		}

	case "shift+tab", "up":
		if m.formMode == formProposal {
			m.proposalInputs[m.formFocus].Blur()
			m.formFocus--
			if m.formFocus < 0 {
				m.formFocus = proposalInputCount - 1
			}
			m.proposalInputs[m.formFocus].Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	switch m.formMode {
	case formContribute, formRedeem:
		m.amountInput, cmd = m.amountInput.Update(msg)
	case formProposal:
		m.proposalInputs[m.formFocus], cmd = m.proposalInputs[m.formFocus].Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
